package controllers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/blogem/windows-live-authenticator/authenticator"
	"github.com/blogem/windows-live-authenticator/middleware"
	"github.com/blogem/windows-live-authenticator/services"
)

// writeJSON encodes data as the response body with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Profile *ProfileController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, auth *authenticator.Authenticator, sessions middleware.SessionProvider, logger *zap.Logger) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(auth, services.Audit, sessions, logger),
		Profile: NewProfileController(services),
	}
}
