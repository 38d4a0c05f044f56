package domain

import (
	"context"
	"slices"
	"time"
)

// DateLayout is the ISO calendar date format events are stored with.
const DateLayout = "2006-01-02"

// Event is a scheduled gathering created by one user and joinable by others.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        string // YYYY-MM-DD
	Time        string
	Location    string
	ImageURL    string
	Creator     string // creator display name
	CreatedBy   string // creator email, the ownership key
	Joined      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasJoined reports whether email is in the attendee list.
func (e *Event) HasJoined(email string) bool {
	return slices.Contains(e.Joined, email)
}

// EventFilter narrows an event listing. Empty fields apply no constraint.
// DateFrom and DateTo are inclusive YYYY-MM-DD bounds.
type EventFilter struct {
	TitleContains string
	DateFrom      string
	DateTo        string
	CreatedBy     string
}

// EventRepository defines persistence operations for events.
//
// AddAttendee must be atomic: two concurrent calls for the same email
// result in exactly one insert and one ErrAlreadyJoined.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]Event, error)
	Update(ctx context.Context, event *Event) error
	// DeleteOwned removes the event only when createdBy matches.
	// Returns ErrNotFound when no such row exists.
	DeleteOwned(ctx context.Context, id, createdBy string) error
	AddAttendee(ctx context.Context, eventID, email string) error
	RemoveAttendee(ctx context.Context, eventID, email string) error
}
