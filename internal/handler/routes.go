package handler

import (
	"net/http"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/service"
)

// Deps bundles what RegisterRoutes wires into the mux.
type Deps struct {
	Auth        *service.AuthService
	Events      *service.EventService
	Tokens      *auth.TokenManager
	Store       Pinger
	AuthLimiter *service.KeyedLimiter // nil disables auth rate limiting
	Metrics     Recorder
	MetricsPage http.Handler // served at /metrics when non-nil
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authH := NewAuthHandler(d.Auth, d.Metrics)
	eventH := NewEventHandler(d.Events, d.Metrics)
	boardH := NewBoardHandler(d.Events)

	limited := func(h http.HandlerFunc) http.Handler {
		if d.AuthLimiter == nil {
			return h
		}
		return RateLimit(d.AuthLimiter, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(d.Tokens, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(d.Store))
	if d.MetricsPage != nil {
		mux.Handle("GET /metrics", d.MetricsPage)
	}

	mux.Handle("POST /api/auth/register", limited(authH.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authH.HandleLogin))
	mux.Handle("GET /api/auth/me", protected(authH.HandleMe))

	mux.HandleFunc("GET /api/events", eventH.HandleList)
	mux.Handle("POST /api/events", protected(eventH.HandleCreate))
	mux.Handle("GET /api/events/my-events", protected(eventH.HandleMine))
	mux.HandleFunc("GET /api/events/{id}", eventH.HandleGet)
	mux.Handle("PUT /api/events/{id}", protected(eventH.HandleUpdate))
	mux.Handle("DELETE /api/events/{id}", protected(eventH.HandleDelete))
	mux.Handle("PATCH /api/events/join/{id}", protected(eventH.HandleJoin))
	mux.Handle("PATCH /api/events/leave/{id}", protected(eventH.HandleLeave))

	mux.HandleFunc("GET /board", boardH.HandlePage)
	mux.HandleFunc("GET /board/events", boardH.HandleEvents)
	mux.HandleFunc("GET /{$}", HandleHome)
}

// Chain wraps mux with the standard middleware stack, outermost first.
func Chain(h http.Handler, allowedOrigins []string) http.Handler {
	h = Recover(h)
	h = CORS(allowedOrigins)(h)
	h = SecurityHeaders(h)
	return RequestLogging(h)
}
