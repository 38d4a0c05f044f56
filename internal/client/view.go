package client

import (
	"cmp"
	"slices"
)

// Event mirrors the JSON event returned by the API.
type Event struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	ImageURL    string   `json:"imageUrl"`
	Creator     string   `json:"creator"`
	CreatedBy   string   `json:"createdBy"`
	Joined      []string `json:"joined"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Capabilities lists what the viewer may do with an event.
type Capabilities struct {
	CanEdit  bool `json:"canEdit"`
	CanJoin  bool `json:"canJoin"`
	CanLeave bool `json:"canLeave"`
}

// EventView pairs an event with the viewer's capabilities on it.
type EventView struct {
	Event
	Capabilities
}

// NewEventView computes capabilities for viewer (an email; "" for an
// anonymous visitor). Creators may edit; signed-in users may join when not
// attending and leave when attending.
func NewEventView(e Event, viewer string) EventView {
	v := EventView{Event: e}
	if viewer == "" {
		return v
	}
	joined := slices.Contains(e.Joined, viewer)
	v.CanEdit = e.CreatedBy == viewer
	v.CanJoin = !joined
	v.CanLeave = joined
	return v
}

// NewEventViews builds views for events ordered newest date/time first.
func NewEventViews(events []Event, viewer string) []EventView {
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e, viewer)
	}
	SortByDateDesc(views)
	return views
}

// SortByDateDesc orders views by date then time, latest first.
func SortByDateDesc(views []EventView) {
	slices.SortStableFunc(views, func(a, b EventView) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.Time, a.Time)
	})
}
