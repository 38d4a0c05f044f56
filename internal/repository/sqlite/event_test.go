package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/eventsphere/internal/domain"
	"github.com/msomdec/eventsphere/internal/repository/sqlite"
)

func createEvent(t *testing.T, repo *sqlite.EventRepository, title, date, owner string) *domain.Event {
	t.Helper()
	e := &domain.Event{
		Title: title, Description: "desc", Date: date, Time: "18:00",
		Location: "Hall", ImageURL: "http://img", Creator: "Owner", CreatedBy: owner,
	}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

func TestEventRepository_CreateGet(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	e := createEvent(t, repo, "Meetup", "2024-06-15", "alice@example.com")

	if e.ID == "" || e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamps: %+v", e)
	}

	got, err := repo.GetByID(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Meetup" || got.CreatedBy != "alice@example.com" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Joined == nil || len(got.Joined) != 0 {
		t.Fatalf("expected empty joined slice, got %#v", got.Joined)
	}
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_List_Filters(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	ctx := context.Background()

	createEvent(t, repo, "Go Meetup", "2024-06-15", "alice@example.com")
	createEvent(t, repo, "50% off_sale", "2024-06-01", "bob@example.com")
	createEvent(t, repo, "Book club", "2024-05-20", "alice@example.com")
	createEvent(t, repo, "ÉTÉ Festival", "2023-07-01", "carol@example.com")
	createEvent(t, repo, "Straße Fest", "2023-08-01", "carol@example.com")

	tests := []struct {
		name   string
		filter domain.EventFilter
		want   int
	}{
		{"all", domain.EventFilter{}, 5},
		{"title case-insensitive", domain.EventFilter{TitleContains: "MEETUP"}, 1},
		{"non-ascii lower", domain.EventFilter{TitleContains: "été"}, 1},
		{"non-ascii exact case", domain.EventFilter{TitleContains: "ÉTÉ"}, 1},
		{"non-ascii mixed case", domain.EventFilter{TitleContains: "STRAßE"}, 1},
		{"non-ascii shared substring", domain.EventFilter{TitleContains: "fest"}, 2},
		{"percent literal", domain.EventFilter{TitleContains: "50%"}, 1},
		{"underscore literal", domain.EventFilter{TitleContains: "f_s"}, 1},
		{"percent does not wildcard", domain.EventFilter{TitleContains: "%club"}, 0},
		{"inclusive range", domain.EventFilter{DateFrom: "2024-06-01", DateTo: "2024-06-15"}, 2},
		{"creator", domain.EventFilter{CreatedBy: "alice@example.com"}, 2},
		{"combined", domain.EventFilter{CreatedBy: "alice@example.com", DateFrom: "2024-06-01"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(events) != tt.want {
				t.Fatalf("expected %d events, got %d", tt.want, len(events))
			}
		})
	}
}

func TestEventRepository_List_OrderAndAttendees(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	ctx := context.Background()

	older := createEvent(t, repo, "Older", "2024-01-01", "alice@example.com")
	newer := createEvent(t, repo, "Newer", "2024-12-01", "alice@example.com")

	for _, email := range []string{"c@x.io", "a@x.io", "b@x.io"} {
		if err := repo.AddAttendee(ctx, older.ID, email); err != nil {
			t.Fatalf("AddAttendee: %v", err)
		}
	}

	events, err := repo.List(ctx, domain.EventFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].ID != newer.ID || events[1].ID != older.ID {
		t.Fatalf("expected newest date first, got %+v", events)
	}
	if len(events[0].Joined) != 0 {
		t.Fatalf("expected no attendees on newer, got %v", events[0].Joined)
	}
	got := events[1].Joined
	if len(got) != 3 || got[0] != "c@x.io" || got[1] != "a@x.io" || got[2] != "b@x.io" {
		t.Fatalf("expected attendees in join order, got %v", got)
	}
}

func TestEventRepository_Update(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	ctx := context.Background()
	e := createEvent(t, repo, "Meetup", "2024-06-15", "alice@example.com")

	e.Title = "Renamed"
	e.UpdatedAt = e.UpdatedAt.Add(1)
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Renamed" {
		t.Fatalf("expected Renamed, got %q", got.Title)
	}

	missing := &domain.Event{ID: "missing", Title: "x", Description: "y", Date: "2024-01-01"}
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_DeleteOwned(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	ctx := context.Background()
	e := createEvent(t, repo, "Meetup", "2024-06-15", "alice@example.com")
	if err := repo.AddAttendee(ctx, e.ID, "bob@example.com"); err != nil {
		t.Fatalf("AddAttendee: %v", err)
	}

	if err := repo.DeleteOwned(ctx, e.ID, "bob@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("non-owner: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteOwned(ctx, e.ID, "alice@example.com"); err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}
	if _, err := repo.GetByID(ctx, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestEventRepository_Attendees(t *testing.T) {
	repo := sqlite.NewEventRepository(newTestDB(t))
	ctx := context.Background()
	e := createEvent(t, repo, "Meetup", "2024-06-15", "alice@example.com")

	if err := repo.AddAttendee(ctx, e.ID, "bob@example.com"); err != nil {
		t.Fatalf("AddAttendee: %v", err)
	}
	if err := repo.AddAttendee(ctx, e.ID, "bob@example.com"); !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Fatalf("duplicate: expected ErrAlreadyJoined, got %v", err)
	}
	if err := repo.AddAttendee(ctx, "missing", "bob@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing event: expected ErrNotFound, got %v", err)
	}

	if err := repo.RemoveAttendee(ctx, e.ID, "bob@example.com"); err != nil {
		t.Fatalf("RemoveAttendee: %v", err)
	}
	if err := repo.RemoveAttendee(ctx, e.ID, "bob@example.com"); !errors.Is(err, domain.ErrNotJoined) {
		t.Fatalf("second remove: expected ErrNotJoined, got %v", err)
	}
}
