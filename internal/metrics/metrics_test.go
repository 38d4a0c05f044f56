package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/eventsphere/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	count, err := testutil.GatherAndCount(m.Registry, "eventsphere_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per route/status pair")
}

func TestDomainCounters(t *testing.T) {
	m := metrics.New()

	m.AuthAttempt("login", true)
	m.AuthAttempt("login", false)
	m.AuthAttempt("login", false)
	m.EventOperation("join", true)

	count, err := testutil.GatherAndCount(m.Registry, "eventsphere_auth_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(m.Registry, "eventsphere_event_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandler_Exposition(t *testing.T) {
	m := metrics.New()
	m.EventOperation("create", true)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `eventsphere_event_operations_total{op="create",outcome="success"} 1`)
}
