package handler

import (
	"net/http"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/service"
)

// EventHandler serves the /api/events endpoints.
type EventHandler struct {
	events  *service.EventService
	metrics Recorder
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService, metrics Recorder) *EventHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &EventHandler{events: events, metrics: metrics}
}

// HandleList returns events matching the optional search and filter query
// parameters.
// GET /api/events?search=...&filter=current-week
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.events.List(r.Context(), q.Get("search"), q.Get("filter"))
	if err != nil {
		writeServiceError(w, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTOs(events))
}

// HandleMine returns the caller's own events.
// GET /api/events/my-events
func (h *EventHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	events, err := h.events.ListMine(r.Context(), id)
	if err != nil {
		writeServiceError(w, "list own events", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTOs(events))
}

// HandleGet returns a single event.
// GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "get event", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event))
}

// HandleCreate stores a new event owned by the caller.
// POST /api/events
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req service.EventInput
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "create event", err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	event, err := h.events.Create(r.Context(), id, req)
	h.metrics.EventOperation("create", err == nil)
	if err != nil {
		writeServiceError(w, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// HandleUpdate edits an event owned by the caller.
// PUT /api/events/{id}
// Response: {"success":true,"event":{...},"message":"..."}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateInput
	if err := readJSON(w, r, &req); err != nil {
		writeUpdateError(w, err)
		return
	}

	id, _ := auth.IdentityFromContext(r.Context())
	event, err := h.events.Update(r.Context(), id, r.PathValue("id"), req)
	h.metrics.EventOperation("update", err == nil)
	if err != nil {
		writeUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"event":   toEventDTO(event),
		"message": "Event updated successfully",
	})
}

// writeUpdateError adds the success flag the update response always carries.
func writeUpdateError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeServiceError(w, "update event", err)
		return
	}
	msg := err.Error()
	if status == http.StatusNotFound {
		msg = "Event not found"
	}
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// HandleDelete removes an event owned by the caller.
// DELETE /api/events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	err := h.events.Delete(r.Context(), id, r.PathValue("id"))
	h.metrics.EventOperation("delete", err == nil)
	if err != nil {
		writeServiceError(w, "delete event", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// HandleJoin adds the caller to the event's attendees.
// PATCH /api/events/join/{id}
func (h *EventHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	event, err := h.events.Join(r.Context(), id, r.PathValue("id"))
	h.metrics.EventOperation("join", err == nil)
	if err != nil {
		writeServiceError(w, "join event", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event))
}

// HandleLeave removes the caller from the event's attendees.
// PATCH /api/events/leave/{id}
func (h *EventHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	event, err := h.events.Leave(r.Context(), id, r.PathValue("id"))
	h.metrics.EventOperation("leave", err == nil)
	if err != nil {
		writeServiceError(w, "leave event", err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event))
}
