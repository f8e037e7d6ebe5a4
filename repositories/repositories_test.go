package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/blogem/windows-live-authenticator/database"
	"github.com/blogem/windows-live-authenticator/models"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test_authn.db")

	t.Cleanup(func() {
		database.CloseDB()
	})

	// Initialize test database using the actual migration system
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return database.GetDB()
}

func TestAuthenticationEventRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthenticationEventRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	// Test Create
	success := &models.AuthenticationEvent{
		Timestamp:       base,
		AuthenticatorID: "windows-live",
		Subject:         "u1",
		Outcome:         models.OutcomeSuccess,
		IPAddress:       "10.0.0.1",
		UserAgent:       "test-agent",
	}
	if err := repo.Create(ctx, success); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	if success.ID == 0 {
		t.Error("Expected event ID to be set after creation")
	}

	later := &models.AuthenticationEvent{
		Timestamp:       base.Add(time.Minute),
		AuthenticatorID: "windows-live",
		Subject:         "u1",
		Outcome:         models.OutcomeSuccess,
	}
	if err := repo.Create(ctx, later); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	other := &models.AuthenticationEvent{
		Timestamp:       base.Add(2 * time.Minute),
		AuthenticatorID: "windows-live",
		Subject:         "u2",
		Outcome:         models.OutcomeSuccess,
		IPAddress:       "10.0.0.2",
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	failure := &models.AuthenticationEvent{
		Timestamp:       base.Add(3 * time.Minute),
		AuthenticatorID: "windows-live",
		Outcome:         models.OutcomeFailure,
		ErrorKind:       "invalid_state",
	}
	if err := repo.Create(ctx, failure); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	// Test ListRecentBySubject only returns the subject's own events
	events, err := repo.ListRecentBySubject(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].ID != later.ID {
		t.Errorf("Expected newest event first, got ID %d", events[0].ID)
	}
	for _, event := range events {
		if event.Subject != "u1" || event.Outcome != models.OutcomeSuccess {
			t.Errorf("Unexpected event for u1: %+v", event)
		}
	}
	if !events[1].Timestamp.Equal(base) {
		t.Errorf("Expected timestamp %v, got %v", base, events[1].Timestamp)
	}
	if events[1].IPAddress != "10.0.0.1" || events[1].UserAgent != "test-agent" {
		t.Errorf("Unexpected client info: %+v", events[1])
	}

	// Test limit
	limited, err := repo.ListRecentBySubject(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected 1 event, got %d", len(limited))
	}

	// Test unknown subject
	none, err := repo.ListRecentBySubject(ctx, "nobody", 10)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no events, got %d", len(none))
	}

	// Test CountByOutcome
	count, err := repo.CountByOutcome(ctx, models.OutcomeSuccess)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 successes, got %d", count)
	}
}

func TestAuthenticationEventRepository_DefaultTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthenticationEventRepository(db)

	event := &models.AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: models.OutcomeRestarted}
	if err := repo.Create(context.Background(), event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	if event.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
}

func TestAuthenticationEventRepository_RejectsInvalidEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuthenticationEventRepository(db)

	event := &models.AuthenticationEvent{AuthenticatorID: "windows-live", Outcome: models.OutcomeSuccess}
	if err := repo.Create(context.Background(), event); err == nil {
		t.Fatal("Expected error for success event without subject")
	}

	count, err := repo.CountByOutcome(context.Background(), models.OutcomeSuccess)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no stored events, got %d", count)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 applied migrations, got %d", count)
	}
}
