package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/eventsphere/internal/domain"
)

const eventColumns = `id, title, description, date, time, location, image_url, creator, created_by, created_at, updated_at`

// EventRepository implements domain.EventRepository using SQLite.
// Attendees live in event_attendees so that joining is a single insert
// guarded by UNIQUE(event_id, email).
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite-backed EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return db.events
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	if event.Joined == nil {
		event.Joined = []string{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Description, event.Date, event.Time, event.Location,
		event.ImageURL, event.Creator, event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query event: %w", err)
	}

	attendees, err := r.attendees(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	event.Joined = attendees[id]
	if event.Joined == nil {
		event.Joined = []string{}
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if filter.TitleContains != "" {
		where = append(where, lowerFunc+`(title) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(filter.TitleContains))+"%")
	}
	if filter.DateFrom != "" {
		where = append(where, "date >= ?")
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		where = append(where, "date <= ?")
		args = append(args, filter.DateTo)
	}
	if filter.CreatedBy != "" {
		where = append(where, "created_by = ?")
		args = append(args, filter.CreatedBy)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, time DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	ids := []string{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	rows.Close()

	attendees, err := r.attendees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Joined = attendees[events[i].ID]
		if events[i].Joined == nil {
			events[i].Joined = []string{}
		}
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, description = ?, date = ?, time = ?, location = ?, image_url = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title, event.Description, event.Date, event.Time, event.Location, event.ImageURL,
		event.UpdatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectOneRow(result, domain.ErrNotFound)
}

func (r *EventRepository) DeleteOwned(ctx context.Context, id, createdBy string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ? AND created_by = ?`, id, createdBy)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectOneRow(result, domain.ErrNotFound)
}

func (r *EventRepository) AddAttendee(ctx context.Context, eventID, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, email, joined_at) VALUES (?, ?, ?)`,
		eventID, email, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, email string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = ? AND email = ?`, eventID, email)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	return expectOneRow(result, domain.ErrNotJoined)
}

// attendees returns the join-ordered attendee emails for each event id.
func (r *EventRepository) attendees(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, email FROM event_attendees
		 WHERE event_id IN (`+placeholders+`) ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, email string
		if err := rows.Scan(&eventID, &email); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		out[eventID] = append(out[eventID], email)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.ImageURL, &e.Creator, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
