package authenticator

import (
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// Callback query parameters
const (
	ParamCode             = "code"
	ParamState            = "state"
	ParamError            = "error"
	ParamErrorDescription = "error_description"
)

// ValidatedCallback is a callback that passed validation and can be exchanged
type ValidatedCallback struct {
	Code  string
	State string
}

// CallbackHandler finishes the authentication when Windows Live redirects back
type CallbackHandler struct {
	cfg    Config
	tokens *TokenClient
}

// Get validates the callback, exchanges the code and maps the identity
func (h *CallbackHandler) Get(ctx context.Context, r *http.Request, sess SessionStore) (*Response, error) {
	logger := h.cfg.Logger

	callback, err := ValidateCallback(r, sess, h.cfg.Info)
	if err != nil {
		return nil, err
	}

	redirectURI, err := DeriveRedirectURI(h.cfg.Info.FullyQualifiedAuthenticationURI())
	if err != nil {
		logger.Error("Could not create redirect URI", zap.Error(err))
		return nil, err
	}

	tokens, err := h.tokens.ExchangeCodeForTokens(ctx, TokenRequest{
		TokenEndpoint: h.cfg.TokenEndpoint,
		ClientID:      h.cfg.ClientID,
		ClientSecret:  h.cfg.ClientSecret,
		Code:          callback.Code,
		State:         callback.State,
		RedirectURI:   redirectURI,
	})
	if err != nil {
		return nil, err
	}

	result, err := MapToIdentity(tokens)
	if err != nil {
		return nil, err
	}

	logger.Debug("Authentication completed", zap.Int("subject_attributes", len(result.SubjectAttributes)))
	return &Response{Result: result}, nil
}

// Post is not supported
func (h *CallbackHandler) Post(_ context.Context, r *http.Request, _ SessionStore) (*Response, error) {
	return nil, methodNotAllowed(r.Method)
}

// ValidateCallback checks method, provider errors, code and state before any
// network call. A provider error yields a ProviderReportedError carrying a
// redirect back to the start of the authentication.
func ValidateCallback(r *http.Request, sess SessionStore, info InformationProvider) (*ValidatedCallback, error) {
	if r.Method != http.MethodGet {
		return nil, methodNotAllowed(r.Method)
	}

	query := r.URL.Query()
	if providerErr := query.Get(ParamError); providerErr != "" {
		restart := &RedirectInstruction{StatusCode: http.StatusFound}
		if info != nil {
			restart.Location = info.FullyQualifiedAuthenticationURI()
		}
		return nil, &Error{
			Kind:     KindProviderReportedError,
			Message:  providerErr + " " + query.Get(ParamErrorDescription),
			Redirect: restart,
		}
	}

	code := query.Get(ParamCode)
	if code == "" {
		return nil, newError(KindInvalidRequest, "missing code parameter", nil)
	}
	state := query.Get(ParamState)
	if state == "" {
		return nil, newError(KindInvalidRequest, "missing state parameter", nil)
	}

	stored, ok := sess.Get(SessionStateKey)
	if deleter, canDelete := sess.(SessionDeleter); canDelete {
		// the state is single use, whatever the outcome
		_ = deleter.Delete(SessionStateKey)
	}
	if !ok || stored == "" {
		return nil, newError(KindInvalidState, "no state stored in session", nil)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(state)) != 1 {
		return nil, newError(KindInvalidState, "state does not match", nil)
	}

	return &ValidatedCallback{Code: code, State: state}, nil
}
