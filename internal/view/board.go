package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msomdec/eventsphere/internal/domain"
)

// BoardFilters are the preset choices offered on the board, in display order.
var BoardFilters = []struct{ Value, Label string }{
	{"all", "All dates"},
	{"current-week", "This week"},
	{"last-week", "Last week"},
	{"current-month", "This month"},
	{"last-month", "Last month"},
}

// boardSignals is the data-signals object the board's inputs bind to.
func boardSignals(search, filter string) string {
	return fmt.Sprintf(`{search: %s, filter: %s}`, strconv.Quote(search), strconv.Quote(filter))
}

func when(e domain.Event) string {
	return strings.TrimSpace(e.Date + " " + e.Time)
}

func attending(e domain.Event) string {
	return strconv.Itoa(len(e.Joined)) + " attending"
}
