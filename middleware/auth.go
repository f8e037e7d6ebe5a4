package middleware

import (
	"net/http"

	"github.com/blogem/windows-live-authenticator/authenticator"
	"github.com/blogem/windows-live-authenticator/userctx"
)

// Session keys written after a successful authentication
const (
	SessionSubjectKey       = "subject"
	SessionAuthenticatorKey = "authenticator"
	SessionAccessTokenKey   = "access_token"
	SessionRedirectKey      = "redirect_after_login"
)

// SessionProvider returns the session store of a request
type SessionProvider func(r *http.Request) authenticator.SessionStore

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to loginPath and stores the intended destination
func RequireAuth(sessions SessionProvider, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions(r)
			subject, ok := sess.Get(SessionSubjectKey)

			if !ok || subject == "" {
				// Store the intended destination for redirect after login
				_ = sess.Put(SessionRedirectKey, r.URL.Path)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := userctx.SetSubject(r.Context(), subject)
			if id, ok := sess.Get(SessionAuthenticatorKey); ok {
				ctx = userctx.SetAuthenticator(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
