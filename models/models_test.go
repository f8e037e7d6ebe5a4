package models

import (
	"strings"
	"testing"
)

// Test AuthenticationEvent validation
func TestAuthenticationEventValidation(t *testing.T) {
	tests := []struct {
		name   string
		event  AuthenticationEvent
		fields []string
	}{
		{
			name:  "valid success",
			event: AuthenticationEvent{AuthenticatorID: "windows-live", Subject: "u1", Outcome: OutcomeSuccess},
		},
		{
			name:  "valid failure",
			event: AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: OutcomeFailure, ErrorKind: "invalid_state"},
		},
		{
			name:  "valid restart",
			event: AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: OutcomeRestarted},
		},
		{
			name:   "success without subject",
			event:  AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: OutcomeSuccess},
			fields: []string{"subject"},
		},
		{
			name:   "failure without kind",
			event:  AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: OutcomeFailure},
			fields: []string{"error_kind"},
		},
		{
			name:   "missing authenticator and unknown outcome",
			event:  AuthenticationEvent{Outcome: "maybe"},
			fields: []string{"authenticator_id", "outcome"},
		},
		{
			name: "user agent too long",
			event: AuthenticationEvent{
				AuthenticatorID: "windows-live",
				Outcome:         OutcomeRestarted,
				UserAgent:       strings.Repeat("a", MaxUserAgentLength+1),
			},
			fields: []string{"user_agent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.event.Validate()
			if len(errs) != len(tt.fields) {
				t.Fatalf("Expected %d errors, got: %v", len(tt.fields), errs)
			}
			for i, field := range tt.fields {
				if errs[i].Field != field {
					t.Errorf("Expected error on %s, got %s", field, errs[i].Field)
				}
			}
		})
	}
}

// Test ValidationErrors helpers
func TestValidationErrors(t *testing.T) {
	var none ValidationErrors
	if none.HasErrors() {
		t.Error("Expected no errors")
	}

	errs := ValidationErrors{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}
	if !errs.HasErrors() {
		t.Error("Expected errors")
	}
	if got := errs.Error(); got != "first; second" {
		t.Errorf("Expected joined messages, got %q", got)
	}
}
