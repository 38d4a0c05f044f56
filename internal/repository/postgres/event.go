package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/eventsphere/internal/domain"
)

const eventColumns = `id, title, description, date, time, location, image_url, creator, created_by, created_at, updated_at`

// EventRepository implements domain.EventRepository using PostgreSQL.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = event.CreatedAt
	}
	if event.Joined == nil {
		event.Joined = []string{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.Date, event.Time, event.Location,
		event.ImageURL, event.Creator, event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e := &domain.Event{}
	err := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.ImageURL, &e.Creator, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
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
	e.Joined = orEmpty(attendees[id])
	return e, nil
}

// List builds its WHERE clause from the non-empty filter fields. Title
// matching uses ILIKE with the pattern metacharacters escaped.
func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.TitleContains != "" {
		where = append(where, `title ILIKE `+arg("%"+escapeLike(filter.TitleContains)+"%")+` ESCAPE '\'`)
	}
	if filter.DateFrom != "" {
		where = append(where, "date >= "+arg(filter.DateFrom))
	}
	if filter.DateTo != "" {
		where = append(where, "date <= "+arg(filter.DateTo))
	}
	if filter.CreatedBy != "" {
		where = append(where, "created_by = "+arg(filter.CreatedBy))
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
	var ids []string
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.ImageURL, &e.Creator, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	attendees, err := r.attendees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Joined = orEmpty(attendees[events[i].ID])
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE events
		 SET title = $1, description = $2, date = $3, time = $4, location = $5, image_url = $6, updated_at = $7
		 WHERE id = $8`,
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
		`DELETE FROM events WHERE id = $1 AND created_by = $2`, id, createdBy)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectOneRow(result, domain.ErrNotFound)
}

func (r *EventRepository) AddAttendee(ctx context.Context, eventID, email string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, email) VALUES ($1, $2)`, eventID, email)
	if err != nil {
		switch pgCode(err) {
		case uniqueViolation:
			return domain.ErrAlreadyJoined
		case foreignKeyViolation:
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, email string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND email = $2`, eventID, email)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	return expectOneRow(result, domain.ErrNotJoined)
}

func (r *EventRepository) attendees(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, email FROM event_attendees
		 WHERE event_id IN (`+strings.Join(placeholders, ", ")+`) ORDER BY seq`, args...)
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

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
