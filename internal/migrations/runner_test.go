package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/eventsphere/internal/migrations"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is a distinct database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "Alice", "alice@example.com", "hash",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO events (id, title, description, date, created_by, created_at, updated_at)
		 VALUES ('e1', 'Meetup', 'Go talk', '2024-06-15', 'alice@example.com', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err != nil {
		t.Fatalf("insert into events: %v", err)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO event_attendees (event_id, email) VALUES ('e1', 'bob@example.com')"); err != nil {
		t.Fatalf("insert attendee: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO event_attendees (event_id, email) VALUES ('e1', 'bob@example.com')"); err == nil {
		t.Fatal("expected unique violation on duplicate attendee")
	}
}

func TestRunMigrations_RejectsEmptyTitle(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO events (id, title, description, date, created_by, created_at, updated_at)
		 VALUES ('e1', '', 'x', '2024-06-15', 'a@example.com', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected check constraint failure for empty title")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestPending(t *testing.T) {
	all, err := migrations.Pending(nil)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(all) != 2 || all[0] != "001_users.sql" || all[1] != "002_events.sql" {
		t.Fatalf("unexpected pending list: %v", all)
	}

	rest, err := migrations.Pending(map[string]bool{"001_users.sql": true})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(rest) != 1 || rest[0] != "002_events.sql" {
		t.Fatalf("unexpected pending list: %v", rest)
	}
}
