package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	handler := APIKeyAuth("secret")(okHandler())

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/wrist", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(okHandler())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}

func TestRequestLoggingPassesThrough(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}

func TestParseTimeRange(t *testing.T) {
	t.Run("defaults to trailing 30 days", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		start, end, err := parseTimeRange(req)
		if err != nil {
			t.Fatal(err)
		}
		if window := end.Sub(start); window != 30*24*time.Hour {
			t.Errorf("window = %v, want 30 days", window)
		}
	})

	t.Run("date-only bounds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history?start=2026-03-01&end=2026-03-07", nil)
		start, end, err := parseTimeRange(req)
		if err != nil {
			t.Fatal(err)
		}
		if start != time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) {
			t.Errorf("start = %v", start)
		}
		// End is exclusive: the named end date is included in full.
		if end != time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC) {
			t.Errorf("end = %v", end)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history?start=2026-03-01T06:00:00Z", nil)
		start, _, err := parseTimeRange(req)
		if err != nil {
			t.Fatal(err)
		}
		if start.Hour() != 6 {
			t.Errorf("start = %v, want 06:00", start)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history?start=yesterday", nil)
		if _, _, err := parseTimeRange(req); err == nil {
			t.Error("expected parse error")
		}
	})
}
