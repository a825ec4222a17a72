package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAPIKeyAuth verifies missing and wrong keys are rejected with distinct
// statuses, and a bearer token is accepted in place of the header.
func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("k1")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong header", "X-API-Key", "wrong", http.StatusForbidden},
		{"header", "X-API-Key", "k1", http.StatusNoContent},
		{"bearer", "Authorization", "Bearer k1", http.StatusNoContent},
		{"wrong bearer", "Authorization", "Bearer k2", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// TestAccessLogRecordsRoute verifies each request gets an id header and a
// log line with the route pattern, status and body size.
func TestAccessLogRecordsRoute(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(AccessLog(slog.New(slog.NewTextHandler(&buf, nil))))
	r.Get("/api/v1/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workouts/1700000000000", nil))

	id := rec.Header().Get(requestIDHeader)
	assert.Len(t, id, 36)
	line := buf.String()
	assert.Contains(t, line, "route=/api/v1/workouts/{id}")
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "bytes=5")
	assert.Contains(t, line, "id="+id)
	assert.Contains(t, line, "level=INFO")
}

// TestAccessLogWarnsOnServerError verifies 5xx responses log at Warn, and
// a handler that never writes is logged as 200.
func TestAccessLogWarnsOnServerError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	failing := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/form", nil))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "route=/api/v1/form")

	buf.Reset()
	silent := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	silent.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), "status=200")
}

// TestAccessLogKeepsIncomingID verifies a caller-supplied id is reused.
func TestAccessLogKeepsIncomingID(t *testing.T) {
	handler := AccessLog(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/workouts", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called, "preflight reached the handler")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
}
