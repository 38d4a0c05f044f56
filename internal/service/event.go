package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/domain"
)

// EventInput carries the fields of a create request.
type EventInput struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	Creator     string `json:"creator" validate:"required"`
}

// UpdateInput carries the fields of an update request. Time, Location and
// ImageURL keep their stored values when left empty.
type UpdateInput struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
}

// EventService implements the event lifecycle and enforces that only the
// creator may change or remove an event.
type EventService struct {
	events domain.EventRepository
	now    func() time.Time
}

// NewEventService creates a new EventService. now anchors the date presets;
// nil means time.Now.
func NewEventService(events domain.EventRepository, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: events, now: now}
}

// Create validates and stores a new event owned by the caller.
func (s *EventService) Create(ctx context.Context, caller auth.Identity, in EventInput) (*domain.Event, error) {
	in = trimEventInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		Creator:     in.Creator,
		CreatedBy:   caller.Email,
		Joined:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// GetByID returns a single event.
func (s *EventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns events whose title contains search (case-insensitive) and
// whose date falls inside the named preset range.
func (s *EventService) List(ctx context.Context, search, preset string) ([]domain.Event, error) {
	r, err := ResolvePreset(strings.TrimSpace(preset), s.now())
	if err != nil {
		return nil, err
	}

	filter := domain.EventFilter{TitleContains: strings.TrimSpace(search)}
	if r != nil {
		filter.DateFrom, filter.DateTo = r.From(), r.To()
	}

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListMine returns the events created by the caller.
func (s *EventService) ListMine(ctx context.Context, caller auth.Identity) ([]domain.Event, error) {
	events, err := s.events.List(ctx, domain.EventFilter{CreatedBy: caller.Email})
	if err != nil {
		return nil, fmt.Errorf("list own events: %w", err)
	}
	return events, nil
}

// Update replaces the mutable fields of an event owned by the caller.
// Ownership is checked before the payload so a non-creator is always refused.
func (s *EventService) Update(ctx context.Context, caller auth.Identity, id string, in UpdateInput) (*domain.Event, error) {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != caller.Email {
		return nil, domain.ErrNotOwner
	}

	in = trimUpdateInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Date = in.Date
	existing.Description = in.Description
	if in.Time != "" {
		existing.Time = in.Time
	}
	if in.Location != "" {
		existing.Location = in.Location
	}
	if in.ImageURL != "" {
		existing.ImageURL = in.ImageURL
	}
	existing.UpdatedAt = s.now().UTC()

	if err := s.events.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return existing, nil
}

// Delete removes an event owned by the caller. A missing event and one
// owned by someone else are reported identically as domain.ErrNotOwner.
func (s *EventService) Delete(ctx context.Context, caller auth.Identity, id string) error {
	err := s.events.DeleteOwned(ctx, id, caller.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotOwner
	}
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Join adds the caller to the attendee list.
func (s *EventService) Join(ctx context.Context, caller auth.Identity, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.HasJoined(caller.Email) {
		return nil, domain.ErrAlreadyJoined
	}

	// A concurrent join can still land first; the store reports it.
	if err := s.events.AddAttendee(ctx, id, caller.Email); err != nil {
		if errors.Is(err, domain.ErrAlreadyJoined) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("join event: %w", err)
	}

	return s.events.GetByID(ctx, id)
}

// Leave removes the caller from the attendee list.
func (s *EventService) Leave(ctx context.Context, caller auth.Identity, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.HasJoined(caller.Email) {
		return nil, domain.ErrNotJoined
	}

	if err := s.events.RemoveAttendee(ctx, id, caller.Email); err != nil {
		if errors.Is(err, domain.ErrNotJoined) {
			return nil, err
		}
		return nil, fmt.Errorf("leave event: %w", err)
	}

	return s.events.GetByID(ctx, id)
}

func trimEventInput(in EventInput) EventInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Creator = strings.TrimSpace(in.Creator)
	return in
}

func trimUpdateInput(in UpdateInput) UpdateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.Description = strings.TrimSpace(in.Description)
	in.Time = strings.TrimSpace(in.Time)
	in.Location = strings.TrimSpace(in.Location)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}
