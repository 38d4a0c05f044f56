package service

import (
	"fmt"
	"time"

	"github.com/msomdec/eventsphere/internal/domain"
)

// Date range presets accepted by the event listing.
const (
	PresetAll          = "all"
	PresetCurrentWeek  = "current-week"
	PresetLastWeek     = "last-week"
	PresetCurrentMonth = "current-month"
	PresetLastMonth    = "last-month"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// From returns the first day formatted as YYYY-MM-DD.
func (r DateRange) From() string { return r.Start.Format(domain.DateLayout) }

// To returns the last day formatted as YYYY-MM-DD.
func (r DateRange) To() string { return r.End.Format(domain.DateLayout) }

// ResolvePreset turns a named preset into a date range anchored on now.
// Weeks run Monday through Sunday. It returns nil for "all" or an empty
// preset, and domain.ErrInvalidInput for unknown names.
func ResolvePreset(preset string, now time.Time) (*DateRange, error) {
	y, m, d := now.Date()
	loc := now.Location()
	day := func(year int, month time.Month, dd int) time.Time {
		return time.Date(year, month, dd, 0, 0, 0, 0, loc)
	}

	sinceMonday := (int(now.Weekday()) + 6) % 7
	monday := day(y, m, d-sinceMonday)

	switch preset {
	case "", PresetAll:
		return nil, nil
	case PresetCurrentWeek:
		return &DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}, nil
	case PresetLastWeek:
		return &DateRange{Start: monday.AddDate(0, 0, -7), End: monday.AddDate(0, 0, -1)}, nil
	case PresetCurrentMonth:
		return &DateRange{Start: day(y, m, 1), End: day(y, m+1, 0)}, nil
	case PresetLastMonth:
		return &DateRange{Start: day(y, m-1, 1), End: day(y, m, 0)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", domain.ErrInvalidInput, preset)
	}
}
