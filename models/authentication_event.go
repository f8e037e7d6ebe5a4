package models

import "time"

// Outcome of an authentication attempt
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeRestarted Outcome = "restarted"
)

// AuthenticationEvent records how one authentication attempt ended
type AuthenticationEvent struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	AuthenticatorID string    `json:"authenticator_id"`
	Subject         string    `json:"subject,omitempty"`
	Outcome         Outcome   `json:"outcome"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	IPAddress       string    `json:"ip_address,omitempty"`
	UserAgent       string    `json:"user_agent,omitempty"`
}

// MaxUserAgentLength bounds the stored user agent
const MaxUserAgentLength = 512

// Validate checks the event before it is stored
func (e *AuthenticationEvent) Validate() ValidationErrors {
	var errors ValidationErrors

	if e.AuthenticatorID == "" {
		errors = append(errors, ValidationError{Field: "authenticator_id", Message: "Authenticator ID is required"})
	}

	switch e.Outcome {
	case OutcomeSuccess:
		if e.Subject == "" {
			errors = append(errors, ValidationError{Field: "subject", Message: "Subject is required for a successful authentication"})
		}
	case OutcomeFailure:
		if e.ErrorKind == "" {
			errors = append(errors, ValidationError{Field: "error_kind", Message: "Error kind is required for a failed authentication"})
		}
	case OutcomeRestarted:
	default:
		errors = append(errors, ValidationError{Field: "outcome", Message: "Outcome must be success, failure or restarted"})
	}

	if len(e.UserAgent) > MaxUserAgentLength {
		errors = append(errors, ValidationError{Field: "user_agent", Message: "User agent must be less than 512 characters"})
	}

	return errors
}

// ClientInfo describes the user agent behind a request
type ClientInfo struct {
	IPAddress string
	UserAgent string
}
