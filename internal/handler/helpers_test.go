package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/handler"
	"github.com/msomdec/eventsphere/internal/repository/sqlite"
	"github.com/msomdec/eventsphere/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	srv    *httptest.Server
	db     *sqlite.DB
	tokens *auth.TokenManager
	auth   *service.AuthService
	events *service.EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:     db,
		tokens: auth.NewTokenManager(testJWTSecret, 24*time.Hour),
	}
	env.auth = service.NewAuthService(db.Users(), env.tokens, 4)
	// Wednesday 12 June 2024.
	now := func() time.Time { return time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC) }
	env.events = service.NewEventService(db.Events(), now)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:   env.auth,
		Events: env.events,
		Tokens: env.tokens,
		Store:  db,
	})
	env.srv = httptest.NewServer(handler.Chain(mux, []string{"http://localhost:5173"}))
	t.Cleanup(env.srv.Close)
	return env
}

// login registers a user (name derived from email) and returns its token.
func (e *testEnv) login(t *testing.T, name, email string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, service.RegisterInput{Name: name, Email: email, Password: "pw-" + name}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := e.auth.Login(ctx, email, "pw-"+name)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return res.Token
}

// do sends a JSON request and decodes the JSON response into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func meetupBody() map[string]string {
	return map[string]string{
		"title":       "Meetup",
		"date":        "2024-06-15",
		"time":        "18:00",
		"location":    "Hall",
		"description": "Go talk",
		"imageUrl":    "http://img/meetup.png",
		"creator":     "Alice",
	}
}
