package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msomdec/eventsphere/internal/client"
)

func TestNewEventView(t *testing.T) {
	e := client.Event{ID: "e1", CreatedBy: "alice@example.com", Joined: []string{"bob@example.com"}}

	tests := []struct {
		name   string
		viewer string
		want   client.Capabilities
	}{
		{"anonymous", "", client.Capabilities{}},
		{"creator", "alice@example.com", client.Capabilities{CanEdit: true, CanJoin: true}},
		{"attendee", "bob@example.com", client.Capabilities{CanLeave: true}},
		{"stranger", "carol@example.com", client.Capabilities{CanJoin: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.NewEventView(e, tt.viewer).Capabilities)
		})
	}
}

func TestNewEventViews_SortsLatestFirst(t *testing.T) {
	events := []client.Event{
		{ID: "a", Date: "2024-06-10", Time: "09:00"},
		{ID: "b", Date: "2024-06-12", Time: "08:00"},
		{ID: "c", Date: "2024-06-12", Time: "19:30"},
		{ID: "d", Date: "2024-06-10", Time: "09:00"},
	}

	views := client.NewEventViews(events, "")

	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
}
