package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/blogem/windows-live-authenticator/authenticator"
	"github.com/blogem/windows-live-authenticator/middleware"
	"github.com/blogem/windows-live-authenticator/services"
)

// AuthController serves the authenticator dispatch table and the session
// bookkeeping around it
type AuthController struct {
	auth     *authenticator.Authenticator
	audit    services.AuditService
	sessions middleware.SessionProvider
	logger   *zap.Logger
}

func NewAuthController(auth *authenticator.Authenticator, audit services.AuditService, sessions middleware.SessionProvider, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{
		auth:     auth,
		audit:    audit,
		sessions: sessions,
		logger:   logger.With(zap.String("authenticator", auth.ID())),
	}
}

// Routes returns the router to mount on the authentication path. The index
// handler answers on the mount point itself, every other handler on its
// segment below it.
func (ac *AuthController) Routes() chi.Router {
	r := chi.NewRouter()
	r.HandleFunc("/", ac.serve(authenticator.IndexSegment))
	r.HandleFunc("/{segment}", func(w http.ResponseWriter, r *http.Request) {
		ac.serve(chi.URLParam(r, "segment"))(w, r)
	})
	return r
}

func (ac *AuthController) serve(segment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := ac.sessions(r)

		resp, err := ac.auth.Dispatch(r.Context(), segment, r, sess)
		if err != nil {
			ac.handleError(w, r, err)
			return
		}

		switch {
		case resp.Redirect != nil:
			http.Redirect(w, r, resp.Redirect.URL(), resp.Redirect.StatusCode)
		case resp.Result != nil:
			ac.completeLogin(w, r, sess, resp.Result)
		default:
			http.Error(w, "Authentication produced no outcome", http.StatusInternalServerError)
		}
	}
}

// completeLogin stores the authenticated subject and sends the user on
func (ac *AuthController) completeLogin(w http.ResponseWriter, r *http.Request, sess authenticator.SessionStore, result *authenticator.AuthenticationResult) {
	if err := sess.Put(middleware.SessionSubjectKey, result.Subject); err != nil {
		ac.logger.Error("failed to store subject in session", zap.Error(err))
		http.Error(w, "Failed to store session", http.StatusInternalServerError)
		return
	}
	_ = sess.Put(middleware.SessionAuthenticatorKey, ac.auth.ID())
	if token, ok := result.ContextAttributes[authenticator.ClaimAccessToken].(string); ok {
		_ = sess.Put(middleware.SessionAccessTokenKey, token)
	}

	ac.recordAudit(r, func(ctx context.Context) error {
		return ac.audit.RecordSuccess(ctx, ac.auth.ID(), result.Subject, middleware.ClientInfo(r))
	})
	ac.logger.Info("user authenticated", zap.String("subject", result.Subject))

	destination := "/"
	if stored, ok := sess.Get(middleware.SessionRedirectKey); ok && isLocalPath(stored) {
		destination = stored
	}
	deleteKeys(sess, middleware.SessionRedirectKey)

	http.Redirect(w, r, destination, http.StatusSeeOther)
}

// handleError maps a flow error to an HTTP answer. Response bodies carry the
// status text only.
func (ac *AuthController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if redirect, ok := authenticator.IsRestart(err); ok {
		ac.logger.Info("provider reported an error, restarting authentication", zap.Error(err))
		ac.recordAudit(r, func(ctx context.Context) error {
			return ac.audit.RecordRestart(ctx, ac.auth.ID(), middleware.ClientInfo(r))
		})
		http.Redirect(w, r, redirect.URL(), redirect.StatusCode)
		return
	}

	kind := authenticator.KindOf(err)
	status := StatusForKind(kind)
	if status >= http.StatusInternalServerError {
		ac.logger.Error("authentication failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		ac.logger.Warn("authentication rejected", zap.String("kind", string(kind)), zap.Error(err))
	}

	if kind != authenticator.KindMethodNotAllowed {
		ac.recordAudit(r, func(ctx context.Context) error {
			return ac.audit.RecordFailure(ctx, ac.auth.ID(), string(kind), middleware.ClientInfo(r))
		})
	}

	if kind == authenticator.KindMethodNotAllowed {
		w.Header().Set("Allow", "GET, POST")
	}
	http.Error(w, http.StatusText(status), status)
}

// Logout clears the authenticated session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := ac.sessions(r)
	deleteKeys(sess,
		middleware.SessionSubjectKey,
		middleware.SessionAuthenticatorKey,
		middleware.SessionAccessTokenKey,
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// StatusForKind maps an error kind to the HTTP status the host answers with
func StatusForKind(kind authenticator.ErrorKind) int {
	switch kind {
	case authenticator.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case authenticator.KindInvalidRequest:
		return http.StatusBadRequest
	case authenticator.KindInvalidState:
		return http.StatusForbidden
	case authenticator.KindTokenExchangeFailed:
		return http.StatusUnauthorized
	case authenticator.KindUpstreamUnavailable, authenticator.KindMalformedTokenResponse:
		return http.StatusBadGateway
	case authenticator.KindProviderReportedError:
		return http.StatusFound
	default:
		return http.StatusInternalServerError
	}
}

// recordAudit stores an audit event; a failing audit never fails the login
func (ac *AuthController) recordAudit(r *http.Request, record func(ctx context.Context) error) {
	if ac.audit == nil {
		return
	}
	if err := record(r.Context()); err != nil {
		ac.logger.Error("failed to record authentication event", zap.Error(err))
	}
}

func deleteKeys(sess authenticator.SessionStore, keys ...string) {
	deleter, ok := sess.(authenticator.SessionDeleter)
	for _, key := range keys {
		if ok {
			_ = deleter.Delete(key)
			continue
		}
		_ = sess.Put(key, "")
	}
}

// isLocalPath rejects absolute and protocol relative URLs
func isLocalPath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.HasPrefix(path, "/\\")
}
