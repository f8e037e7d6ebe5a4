package authenticator

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/microsoft"
)

// Handler path segments of the dispatch table
const (
	IndexSegment    = "index"
	CallbackSegment = "callback"
)

// PluginType identifies this authenticator implementation to the host
const PluginType = "windows-live"

// DefaultHTTPTimeout bounds token endpoint calls when no client is supplied
const DefaultHTTPTimeout = 30 * time.Second

// InformationProvider exposes host facts about the authenticator instance
type InformationProvider interface {
	// FullyQualifiedAuthenticationURI is the absolute URI the index handler is served on
	FullyQualifiedAuthenticationURI() string
}

// StaticInformation is an InformationProvider with a fixed URI
type StaticInformation string

func (s StaticInformation) FullyQualifiedAuthenticationURI() string {
	return string(s)
}

// Config holds the immutable configuration of one authenticator instance
type Config struct {
	ID                    string
	ClientID              string
	ClientSecret          string
	AuthorizationEndpoint string
	TokenEndpoint         string
	Permissions           Permissions
	HTTPClient            *http.Client
	Info                  InformationProvider
	Logger                *zap.Logger
}

// Validate checks the fields the flow cannot run without
func (c Config) Validate() error {
	if c.ClientID == "" {
		return newError(KindInvalidConfiguration, "client ID is required", nil)
	}
	if c.ClientSecret == "" {
		return newError(KindInvalidConfiguration, "client secret is required", nil)
	}
	if c.Info == nil {
		return newError(KindInvalidConfiguration, "information provider is required", nil)
	}
	return nil
}

// withDefaults fills the Live Connect endpoints, an HTTP client and a logger
func (c Config) withDefaults() Config {
	if c.ID == "" {
		c.ID = PluginType
	}
	if c.AuthorizationEndpoint == "" {
		c.AuthorizationEndpoint = microsoft.LiveConnectEndpoint.AuthURL
	}
	if c.TokenEndpoint == "" {
		c.TokenEndpoint = microsoft.LiveConnectEndpoint.TokenURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// RedirectInstruction tells the host to redirect the user agent
type RedirectInstruction struct {
	Location   string
	StatusCode int
	Query      url.Values
}

// URL renders Location with Query appended
func (r *RedirectInstruction) URL() string {
	if len(r.Query) == 0 {
		return r.Location
	}
	u, err := url.Parse(r.Location)
	if err != nil {
		return r.Location + "?" + r.Query.Encode()
	}
	q := u.Query()
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// AuthenticationResult is the successful output of the flow
type AuthenticationResult struct {
	Subject           string
	SubjectAttributes map[string]any
	ContextAttributes map[string]any
}

// Response is what a request handler hands back to the host: either a
// redirect or a finished authentication.
type Response struct {
	Redirect *RedirectInstruction
	Result   *AuthenticationResult
}

// RequestHandler serves one path segment of the authenticator
type RequestHandler interface {
	Get(ctx context.Context, r *http.Request, sess SessionStore) (*Response, error)
	Post(ctx context.Context, r *http.Request, sess SessionStore) (*Response, error)
}

// Authenticator is a configured Windows Live authenticator
type Authenticator struct {
	cfg      Config
	logger   *zap.Logger
	index    *IndexHandler
	callback *CallbackHandler
}

// New validates cfg and builds the authenticator and its handlers
func New(cfg Config) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	logger := cfg.Logger.With(zap.String("authenticator", cfg.ID), zap.String("type", PluginType))
	cfg.Logger = logger

	client := NewTokenClient(cfg.HTTPClient, logger)

	return &Authenticator{
		cfg:      cfg,
		logger:   logger,
		index:    &IndexHandler{cfg: cfg},
		callback: &CallbackHandler{cfg: cfg, tokens: client},
	}, nil
}

// ID returns the authenticator instance identifier
func (a *Authenticator) ID() string {
	return a.cfg.ID
}

// Handlers returns the dispatch table keyed by path segment
func (a *Authenticator) Handlers() map[string]RequestHandler {
	return map[string]RequestHandler{
		IndexSegment:    a.index,
		CallbackSegment: a.callback,
	}
}

// Dispatch routes a request to the handler registered for segment
func (a *Authenticator) Dispatch(ctx context.Context, segment string, r *http.Request, sess SessionStore) (*Response, error) {
	handler, ok := a.Handlers()[segment]
	if !ok {
		return nil, newError(KindInvalidRequest, "unknown handler "+segment, nil)
	}

	switch r.Method {
	case http.MethodGet:
		return handler.Get(ctx, r, sess)
	case http.MethodPost:
		return handler.Post(ctx, r, sess)
	default:
		return nil, methodNotAllowed(r.Method)
	}
}

func methodNotAllowed(method string) error {
	return newError(KindMethodNotAllowed, method+" is not allowed", nil)
}

// IsRestart reports whether err asks the host to restart the authentication
func IsRestart(err error) (*RedirectInstruction, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindProviderReportedError && e.Redirect != nil {
		return e.Redirect, true
	}
	return nil, false
}
