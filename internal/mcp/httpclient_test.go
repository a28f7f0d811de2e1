package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientHistory verifies the client sends RFC3339 time params and
// parses the snapshot array response.
func TestHTTPClientHistory(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/history": func(w http.ResponseWriter, r *http.Request) {
			start := r.URL.Query().Get("start")
			if _, err := time.Parse(time.RFC3339, start); err != nil {
				t.Errorf("start=%q not RFC3339", start)
			}
			writeTestJSON(t, w, []models.DailySnapshot{
				{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), HRV: 55, RHR: 58},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	history, err := client.History(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].HRV != 55 {
		t.Errorf("history = %+v, want one snapshot with HRV 55", history)
	}
}

// TestHTTPClientProfileNotFound verifies a 404 maps to a nil profile, not an
// error, matching the direct storage behavior.
func TestHTTPClientProfileNotFound(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"no profile set"}`, http.StatusNotFound)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	profile, err := client.Profile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if profile != nil {
		t.Errorf("profile = %+v, want nil", profile)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface as errors.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/samples": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.CanonicalSamples(context.Background(), time.Time{}, time.Now())
	if err == nil {
		t.Error("expected error for 500 response")
	}
}
