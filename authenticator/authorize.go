package authenticator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// IndexHandler starts the authentication by redirecting to Windows Live
type IndexHandler struct {
	cfg Config
}

// Get builds the authorization redirect
func (h *IndexHandler) Get(_ context.Context, _ *http.Request, sess SessionStore) (*Response, error) {
	redirect, err := BuildAuthorizationRedirect(h.cfg, sess, h.cfg.Info)
	if err != nil {
		return nil, err
	}
	return &Response{Redirect: redirect}, nil
}

// Post is not supported
func (h *IndexHandler) Post(_ context.Context, r *http.Request, _ SessionStore) (*Response, error) {
	return nil, methodNotAllowed(r.Method)
}

// BuildAuthorizationRedirect stores a fresh state in sess and returns the
// redirect to the provider's authorization endpoint.
func BuildAuthorizationRedirect(cfg Config, sess SessionStore, info InformationProvider) (*RedirectInstruction, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("GET request received for authentication")

	if info == nil {
		return nil, newError(KindInvalidRedirectURI, "no authentication URI available", nil)
	}
	redirectURI, err := DeriveRedirectURI(info.FullyQualifiedAuthenticationURI())
	if err != nil {
		logger.Error("Could not create redirect URI", zap.Error(err))
		return nil, err
	}

	state, err := newState()
	if err != nil {
		return nil, err
	}
	if err := sess.Put(SessionStateKey, state); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	scopes := DeriveScopes(cfg.Permissions)
	oauthConfig := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: redirectURI,
		Endpoint:    oauth2.Endpoint{AuthURL: cfg.AuthorizationEndpoint},
		Scopes:      scopes.List(),
	}

	target, err := url.Parse(oauthConfig.AuthCodeURL(state))
	if err != nil {
		return nil, newError(KindInvalidConfiguration, "invalid authorization endpoint", err)
	}
	query := target.Query()
	target.RawQuery = ""

	logger.Debug("Redirecting to authorization endpoint",
		zap.String("endpoint", target.String()),
		zap.String("redirect_uri", redirectURI),
		zap.String("scope", scopes.String()))

	return &RedirectInstruction{
		Location:   target.String(),
		StatusCode: http.StatusFound,
		Query:      query,
	}, nil
}

// DeriveRedirectURI appends the callback segment to the authentication URI
func DeriveRedirectURI(authenticationURI string) (string, error) {
	u, err := url.Parse(authenticationURI)
	if err != nil {
		return "", newError(KindInvalidRedirectURI, "could not create redirect URI", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", newError(KindInvalidRedirectURI, "authentication URI must be absolute", nil)
	}

	callback := &url.URL{
		Scheme: u.Scheme,
		User:   u.User,
		Host:   u.Host,
		Path:   strings.TrimSuffix(u.Path, "/") + "/" + CallbackSegment,
	}
	return callback.String(), nil
}

func newState() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return id.String(), nil
}
