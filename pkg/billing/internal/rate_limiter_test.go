package internal

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !limiter.allow("10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i)
		}
	}
	if limiter.allow("10.0.0.1") {
		t.Error("Request over limit should be rejected")
	}

	// Other IPs are unaffected
	if !limiter.allow("10.0.0.2") {
		t.Error("Different IP should be allowed")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	window := 50 * time.Millisecond
	limiter := NewRateLimiter(1, window)

	if !limiter.allow("10.0.0.1") {
		t.Fatal("First request should be allowed")
	}
	if limiter.allow("10.0.0.1") {
		t.Fatal("Second request should be rejected")
	}

	time.Sleep(window + 10*time.Millisecond)

	if !limiter.allow("10.0.0.1") {
		t.Error("Request after window reset should be allowed")
	}
}

func TestRateLimiter_CleanupBoundsMapSize(t *testing.T) {
	window := 50 * time.Millisecond
	limiter := NewRateLimiter(10, window)

	for i := 0; i < 300; i++ {
		limiter.allow(fmt.Sprintf("192.168.1.%d", i))
	}

	time.Sleep(window + 10*time.Millisecond)
	limiter.Cleanup()

	if size := len(limiter.requests); size != 0 {
		t.Errorf("Expected all expired entries removed, %d remain", size)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhook", http.NoBody)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("First request: expected %d, got %d", http.StatusOK, w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "192.0.2.1:1234"

	if ip := GetClientIP(req); ip != "192.0.2.1:1234" {
		t.Errorf("Expected RemoteAddr fallback, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := GetClientIP(req); ip != "203.0.113.7" {
		t.Errorf("Expected first forwarded IP, got %s", ip)
	}
}
