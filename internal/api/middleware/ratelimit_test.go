package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allow bool
	wait  time.Duration
	err   error
	seen  []string
}

func (s *stubLimiter) Allow(_ context.Context, subject string) (bool, time.Duration, error) {
	s.seen = append(s.seen, subject)
	return s.allow, s.wait, s.err
}

func runRateLimit(t *testing.T, limiter Limiter) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login/token", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &stubLimiter{allow: true}

	rec, called := runRateLimit(t, limiter)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
	if len(limiter.seen) != 1 || limiter.seen[0] != "10.1.2.3" {
		t.Fatalf("expected client ip as subject, got %v", limiter.seen)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{allow: false, wait: 2500 * time.Millisecond})
	if called {
		t.Fatal("next must not run")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Fatalf("expected Retry-After 3, got %q", got)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rec, called := runRateLimit(t, &stubLimiter{err: errors.New("redis down")})
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("limiter errors must not block, got %d", rec.Code)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	rec, called := runRateLimit(t, nil)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("nil limiter must not block, got %d", rec.Code)
	}
}
