package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blogem/windows-live-authenticator/models"
)

// AuthenticationEventRepository persists the outcome of authentication attempts
type AuthenticationEventRepository interface {
	Create(ctx context.Context, event *models.AuthenticationEvent) error
	ListRecentBySubject(ctx context.Context, subject string, limit int) ([]models.AuthenticationEvent, error)
	CountByOutcome(ctx context.Context, outcome models.Outcome) (int, error)
}

type sqliteAuthenticationEventRepository struct {
	db *sql.DB
}

// NewAuthenticationEventRepository creates a new authentication event repository
func NewAuthenticationEventRepository(db *sql.DB) AuthenticationEventRepository {
	return &sqliteAuthenticationEventRepository{db: db}
}

// Create inserts a new event and sets its ID and timestamp
func (r *sqliteAuthenticationEventRepository) Create(ctx context.Context, event *models.AuthenticationEvent) error {
	query := `
		INSERT INTO authentication_events (timestamp, authenticator_id, subject, outcome, error_kind, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if errs := event.Validate(); errs.HasErrors() {
		return fmt.Errorf("invalid authentication event: %w", errs)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		event.Timestamp,
		event.AuthenticatorID,
		event.Subject,
		string(event.Outcome),
		event.ErrorKind,
		event.IPAddress,
		event.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create authentication event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get authentication event ID: %w", err)
	}
	event.ID = id

	return nil
}

// ListRecentBySubject returns the newest events of subject first
func (r *sqliteAuthenticationEventRepository) ListRecentBySubject(ctx context.Context, subject string, limit int) ([]models.AuthenticationEvent, error) {
	query := `
		SELECT id, timestamp, authenticator_id, subject, outcome, error_kind, ip_address, user_agent
		FROM authentication_events
		WHERE subject = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query authentication events: %w", err)
	}
	defer rows.Close()

	var events []models.AuthenticationEvent
	for rows.Next() {
		var event models.AuthenticationEvent
		var outcome string
		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.AuthenticatorID,
			&event.Subject,
			&outcome,
			&event.ErrorKind,
			&event.IPAddress,
			&event.UserAgent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan authentication event: %w", err)
		}
		event.Outcome = models.Outcome(outcome)
		events = append(events, event)
	}

	return events, rows.Err()
}

// CountByOutcome counts the events with the given outcome
func (r *sqliteAuthenticationEventRepository) CountByOutcome(ctx context.Context, outcome models.Outcome) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM authentication_events WHERE outcome = ?", string(outcome)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count authentication events: %w", err)
	}
	return count, nil
}
