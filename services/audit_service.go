package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/blogem/windows-live-authenticator/models"
	"github.com/blogem/windows-live-authenticator/repositories"
)

// DefaultRecentLimit is used when RecentForSubject is called with a non-positive limit
const DefaultRecentLimit = 50

// maxRecentLimit caps how many events RecentForSubject returns
const maxRecentLimit = 500

// AuditService records the outcome of authentication attempts
type AuditService interface {
	RecordSuccess(ctx context.Context, authenticatorID, subject string, client models.ClientInfo) error
	RecordFailure(ctx context.Context, authenticatorID, errorKind string, client models.ClientInfo) error
	RecordRestart(ctx context.Context, authenticatorID string, client models.ClientInfo) error
	RecentForSubject(ctx context.Context, subject string, limit int) ([]models.AuthenticationEvent, error)
	Summary(ctx context.Context) (*AuditSummary, error)
}

// AuditSummary counts events per outcome
type AuditSummary struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
	Restarts  int `json:"restarts"`
}

// auditService implements AuditService interface
type auditService struct {
	events repositories.AuthenticationEventRepository
}

// NewAuditService creates a new audit service
func NewAuditService(events repositories.AuthenticationEventRepository) AuditService {
	return &auditService{events: events}
}

// RecordSuccess stores a successful authentication for subject
func (s *auditService) RecordSuccess(ctx context.Context, authenticatorID, subject string, client models.ClientInfo) error {
	if subject == "" {
		return fmt.Errorf("subject is required for a successful authentication")
	}
	return s.record(ctx, &models.AuthenticationEvent{
		AuthenticatorID: authenticatorID,
		Subject:         subject,
		Outcome:         models.OutcomeSuccess,
	}, client)
}

// RecordFailure stores a failed authentication and the kind of failure
func (s *auditService) RecordFailure(ctx context.Context, authenticatorID, errorKind string, client models.ClientInfo) error {
	if errorKind == "" {
		errorKind = "unknown"
	}
	return s.record(ctx, &models.AuthenticationEvent{
		AuthenticatorID: authenticatorID,
		Outcome:         models.OutcomeFailure,
		ErrorKind:       errorKind,
	}, client)
}

// RecordRestart stores an attempt sent back to the start after a provider error
func (s *auditService) RecordRestart(ctx context.Context, authenticatorID string, client models.ClientInfo) error {
	return s.record(ctx, &models.AuthenticationEvent{
		AuthenticatorID: authenticatorID,
		Outcome:         models.OutcomeRestarted,
	}, client)
}

// RecentForSubject returns the latest events of subject, newest first
func (s *auditService) RecentForSubject(ctx context.Context, subject string, limit int) ([]models.AuthenticationEvent, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required to list authentication events")
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.events.ListRecentBySubject(ctx, subject, limit)
}

// Summary counts the recorded events per outcome
func (s *auditService) Summary(ctx context.Context) (*AuditSummary, error) {
	var summary AuditSummary
	counts := []struct {
		outcome models.Outcome
		target  *int
	}{
		{models.OutcomeSuccess, &summary.Successes},
		{models.OutcomeFailure, &summary.Failures},
		{models.OutcomeRestarted, &summary.Restarts},
	}

	for _, c := range counts {
		n, err := s.events.CountByOutcome(ctx, c.outcome)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s events: %w", c.outcome, err)
		}
		*c.target = n
	}

	return &summary, nil
}

func (s *auditService) record(ctx context.Context, event *models.AuthenticationEvent, client models.ClientInfo) error {
	event.IPAddress = client.IPAddress
	event.UserAgent = truncateUTF8(client.UserAgent, models.MaxUserAgentLength)

	if err := s.events.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to record %s event: %w", event.Outcome, err)
	}
	return nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
