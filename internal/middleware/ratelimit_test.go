package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Strob0t/CRMForge/internal/config"
)

func newLimiter(rate float64, burst int) *RateLimiter {
	return NewRateLimiter(config.Rate{RequestsPerSecond: rate, Burst: burst, CleanupInterval: time.Minute, MaxIdleTime: time.Minute})
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiterAllowsBurst(t *testing.T) {
	handler := newLimiter(10, 10).Handler(okHandler)
	for i := range 10 {
		if rec := hit(handler, "192.168.1.1"); rec.Code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	handler := newLimiter(10, 5).Handler(okHandler)
	for range 5 {
		hit(handler, "192.168.1.1")
	}

	rec := hit(handler, "192.168.1.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Now()
	rl := newLimiter(1, 1)
	rl.now = func() time.Time { return now }
	handler := rl.Handler(okHandler)

	hit(handler, "10.0.0.1")
	if rec := hit(handler, "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 before refill, got %d", rec.Code)
	}
	now = now.Add(time.Second)
	if rec := hit(handler, "10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after refill, got %d", rec.Code)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	handler := newLimiter(10, 2).Handler(okHandler)
	for range 2 {
		hit(handler, "10.0.0.1")
	}
	if rec := hit(handler, "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("IP 10.0.0.1: expected 429, got %d", rec.Code)
	}
	if rec := hit(handler, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("IP 10.0.0.2: expected 200, got %d", rec.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Now()
	rl := newLimiter(10, 10)
	rl.now = func() time.Time { return now }
	hit(rl.Handler(okHandler), "10.0.0.1")

	now = now.Add(2 * time.Minute)
	rl.cleanup(time.Minute)
	if rl.Len() != 0 {
		t.Fatalf("expected idle bucket removed, %d left", rl.Len())
	}
}
