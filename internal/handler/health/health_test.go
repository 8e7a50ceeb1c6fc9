package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/scoreboard/internal/handler/health"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Check(ctx context.Context) error { return f(ctx) }

func ok(context.Context) error { return nil }

func failing(msg string) checkFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "no checks",
			checks:     map[string]health.Checker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{},
		},
		{
			name:       "storage healthy",
			checks:     map[string]health.Checker{"storage": checkFunc(ok)},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"storage": "ok"},
		},
		{
			name:       "storage down",
			checks:     map[string]health.Checker{"storage": failing("disk gone")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"storage": "error"},
		},
		{
			name: "one of two down",
			checks: map[string]health.Checker{
				"storage": checkFunc(ok),
				"redis":   failing("refused"),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"storage": "ok", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(body) != len(tt.wantBody) {
				t.Errorf("got %d results, want %d", len(body), len(tt.wantBody))
			}
			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestHandlerPassesDeadline(t *testing.T) {
	var deadline bool
	check := checkFunc(func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})
	h := health.NewHandler(slog.Default(), map[string]health.Checker{"storage": check})

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !deadline {
		t.Error("check ran without a deadline")
	}
}
