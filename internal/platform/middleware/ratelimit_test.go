package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newLimitedContext(e *echo.Echo, ip string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         5,
	}

	e := echo.New()
	handler := RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		c, rec := newLimitedContext(e, "10.0.0.1")
		if err := handler(c); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "10" {
			t.Errorf("request %d: expected X-RateLimit-Limit '10', got %q", i+1, got)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
	}

	e := echo.New()
	handler := RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		c, _ := newLimitedContext(e, "10.0.0.1")
		if err := handler(c); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
	}

	c, rec := newLimitedContext(e, "10.0.0.1")
	err := handler(c)
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", httpErr.Code)
	}

	retryAfter, convErr := strconv.Atoi(rec.Header().Get("Retry-After"))
	if convErr != nil || retryAfter < 1 {
		t.Errorf("expected positive Retry-After, got %q", rec.Header().Get("Retry-After"))
	}
	if remaining := rec.Header().Get("X-RateLimit-Remaining"); remaining != "0" {
		t.Errorf("expected X-RateLimit-Remaining '0', got %q", remaining)
	}
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	cfg := RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
	}

	e := echo.New()
	handler := RateLimit(cfg)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	c1, _ := newLimitedContext(e, "10.0.0.1")
	if err := handler(c1); err != nil {
		t.Fatalf("first client, first request: expected no error, got %v", err)
	}
	c2, _ := newLimitedContext(e, "10.0.0.1")
	if err := handler(c2); err == nil {
		t.Fatal("first client, second request: expected rate limit error")
	}
	c3, _ := newLimitedContext(e, "10.0.0.2")
	if err := handler(c3); err != nil {
		t.Fatalf("second client: expected no error, got %v", err)
	}
}

func TestRateLimit_DefaultConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond != 5 {
		t.Errorf("expected RequestsPerSecond 5, got %f", cfg.RequestsPerSecond)
	}
	if cfg.BurstSize != 10 {
		t.Errorf("expected BurstSize 10, got %d", cfg.BurstSize)
	}
}

func TestRateLimiterStore_ZeroRate(t *testing.T) {
	store := newRateLimiterStore(RateLimitConfig{RequestsPerSecond: 0, BurstSize: 1})

	if ok, _ := store.reserve("key"); !ok {
		t.Fatal("expected the burst token to be available")
	}
	ok, wait := store.reserve("key")
	if ok {
		t.Fatal("expected zero rate to reject after the burst")
	}
	if wait <= 0 {
		t.Errorf("expected a positive wait, got %s", wait)
	}
}

func TestRateLimiterStore_ExpiresIdleVisitors(t *testing.T) {
	store := newRateLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, ExpiresIn: time.Minute})
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	store.lastCleanup = now

	store.reserve("a")
	store.reserve("b")
	if store.size() != 2 {
		t.Fatalf("expected 2 visitors, got %d", store.size())
	}

	now = now.Add(2 * time.Minute)
	store.reserve("c")
	if store.size() != 1 {
		t.Errorf("expected idle visitors to be dropped, got %d", store.size())
	}
}
