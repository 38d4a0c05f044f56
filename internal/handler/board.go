package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/eventsphere/internal/service"
	"github.com/msomdec/eventsphere/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// BoardHandler serves the live HTML event board.
type BoardHandler struct {
	events *service.EventService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(events *service.EventService) *BoardHandler {
	return &BoardHandler{events: events}
}

// boardSignals mirrors the data-signals declared by view.BoardPage.
type boardSignals struct {
	Search string `json:"search"`
	Filter string `json:"filter"`
}

// HandlePage renders the full board.
// GET /board?search=...&filter=...
func (h *BoardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = service.PresetAll
	}

	events, err := h.events.List(r.Context(), search, filter)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("list events for board", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := view.BoardPage(events, search, filter).Render(r.Context(), w); err != nil {
		slog.Error("render board", "error", err)
	}
}

// HandleEvents re-renders the event list from the client's signals and
// patches it into #event-list over SSE.
// GET /board/events
func (h *BoardHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	var signals boardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	events, err := h.events.List(r.Context(), signals.Search, signals.Filter)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("list events for board", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.EventList(events),
		datastar.WithSelectorID("event-list"),
		datastar.WithModeInner(),
	)
}
