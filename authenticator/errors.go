package authenticator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure of the authentication flow
type ErrorKind string

const (
	KindMethodNotAllowed       ErrorKind = "method_not_allowed"
	KindInvalidConfiguration   ErrorKind = "invalid_configuration"
	KindInvalidRedirectURI     ErrorKind = "invalid_redirect_uri"
	KindProviderReportedError  ErrorKind = "provider_reported_error"
	KindInvalidRequest         ErrorKind = "invalid_request"
	KindInvalidState           ErrorKind = "invalid_state"
	KindUpstreamUnavailable    ErrorKind = "upstream_unavailable"
	KindTokenExchangeFailed    ErrorKind = "token_exchange_failed"
	KindMalformedTokenResponse ErrorKind = "malformed_token_response"
)

// Sentinels for errors.Is comparisons. Only the Kind is compared.
var (
	ErrMethodNotAllowed       = &Error{Kind: KindMethodNotAllowed}
	ErrInvalidConfiguration   = &Error{Kind: KindInvalidConfiguration}
	ErrInvalidRedirectURI     = &Error{Kind: KindInvalidRedirectURI}
	ErrProviderReportedError  = &Error{Kind: KindProviderReportedError}
	ErrInvalidRequest         = &Error{Kind: KindInvalidRequest}
	ErrInvalidState           = &Error{Kind: KindInvalidState}
	ErrUpstreamUnavailable    = &Error{Kind: KindUpstreamUnavailable}
	ErrTokenExchangeFailed    = &Error{Kind: KindTokenExchangeFailed}
	ErrMalformedTokenResponse = &Error{Kind: KindMalformedTokenResponse}
)

// Error is returned by every operation of the flow. Message never contains
// client secrets, tokens or authorization codes.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	// Redirect is set for provider reported errors: the host sends the user
	// back to the start of the authentication instead of failing.
	Redirect *RedirectInstruction
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg = msg + ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err, or an empty kind if err is not a flow error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
