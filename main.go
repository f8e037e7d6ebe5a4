package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/blogem/windows-live-authenticator/authenticator"
	"github.com/blogem/windows-live-authenticator/config"
	"github.com/blogem/windows-live-authenticator/controllers"
	"github.com/blogem/windows-live-authenticator/database"
	authmiddleware "github.com/blogem/windows-live-authenticator/middleware"
	"github.com/blogem/windows-live-authenticator/repositories"
	"github.com/blogem/windows-live-authenticator/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.CloseDB()

	// Initialize repositories
	repos := repositories.NewRepositories(database.GetDB())

	// Initialize services
	srvs := services.NewServices(repos)

	// Initialize the Windows Live authenticator
	auth, err := authenticator.New(cfg.AuthenticatorConfig(logger))
	if err != nil {
		logger.Fatal("failed to initialize authenticator", zap.Error(err))
	}

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, auth, authenticator.SessionFromRequest, logger)

	// Set up router
	r, err := setupRouter(cfg, ctrl, logger)
	if err != nil {
		logger.Fatal("failed to setup router", zap.Error(err))
	}

	logger.Info("windows live authenticator starting",
		zap.String("port", cfg.Port),
		zap.String("authentication_uri", cfg.BaseURL+cfg.AuthenticationPath()),
		zap.String("database", cfg.DatabasePath),
	)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, logger *zap.Logger) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(authmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.HTTPTimeout + 30*time.Second)) // token exchange runs inside the callback request

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "windows_live_authn_session",
		Secure:         cfg.UseHTTPS,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	loginPath := cfg.AuthenticationPath()

	// PUBLIC ROUTES (no authentication required)
	r.Mount(loginPath, ctrl.Auth.Routes())
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "windows-live-authenticator"}`)
	})

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth(authenticator.SessionFromRequest, loginPath))

		r.Get("/", http.RedirectHandler("/me", http.StatusSeeOther).ServeHTTP)
		r.Get("/me", ctrl.Profile.Me)
		r.Get("/audit", ctrl.Profile.Audit)
	})

	return r, nil
}
