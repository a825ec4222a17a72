package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickhangati/mapty/internal/workout"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestReverseParsesAddress verifies query parameters and the city/country
// extraction from a LocationIQ response.
func TestReverseParsesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "pk.test", q.Get("key"))
		assert.Equal(t, "51.5", q.Get("lat"))
		assert.Equal(t, "-0.12", q.Get("lon"))
		assert.Equal(t, "json", q.Get("format"))
		_, _ = w.Write([]byte(`{"address":{"city":"London","country":"United Kingdom"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "pk.test", time.Second, 0)
	p, err := c.Reverse(context.Background(), workout.Coords{51.5, -0.12})
	require.NoError(t, err)
	assert.Equal(t, "London, United Kingdom", p.String())
}

// TestReverseFallsBackToTown verifies small places without a city still
// resolve.
func TestReverseFallsBackToTown(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"address":{"town":"Keswick","country":"United Kingdom"}}`)

	p, err := NewClient(srv.URL, "k", time.Second, 0).Reverse(context.Background(), workout.Coords{54.6, -3.1})
	require.NoError(t, err)
	assert.Equal(t, "Keswick", p.City)
}

func TestReverseErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"unable to geocode", http.StatusNotFound, `{"error":"Unable to geocode"}`},
		{"no address", http.StatusOK, `{}`},
		{"empty address", http.StatusOK, `{"address":{}}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			_, err := NewClient(srv.URL, "k", time.Second, 0).Reverse(context.Background(), workout.Coords{})
			assert.Error(t, err)
		})
	}
}

func TestReverseNoAddressSentinel(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"lat":"0"}`)

	_, err := NewClient(srv.URL, "k", time.Second, 0).Reverse(context.Background(), workout.Coords{})
	assert.ErrorIs(t, err, ErrNoAddress)
}

// TestReverseHonorsCancelledContext verifies a cancelled context stops the
// call at the rate limiter.
func TestReverseHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("http://127.0.0.1:1", "k", time.Second, 1)
	_, err := c.Reverse(ctx, workout.Coords{})
	assert.Error(t, err)
}

func TestPlaceString(t *testing.T) {
	tests := []struct {
		p    Place
		want string
	}{
		{Place{City: "Paris", Country: "France"}, "Paris, France"},
		{Place{Country: "France"}, "France"},
		{Place{City: "Paris"}, "Paris"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.String())
	}
}
