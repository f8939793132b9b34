package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 1*time.Second)
	defer rl.Stop()

	// First 3 requests should be allowed.
	for i := 0; i < 3; i++ {
		if !rl.allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	// 4th request should be denied.
	if rl.allow("test-ip") {
		t.Error("4th request should be rate-limited")
	}

	// Different IP should still be allowed.
	if !rl.allow("other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Stop()

	// Use up the limit.
	rl.allow("test-ip")
	rl.allow("test-ip")

	if rl.allow("test-ip") {
		t.Error("should be rate-limited")
	}

	// Wait for the window to expire.
	time.Sleep(150 * time.Millisecond)

	if !rl.allow("test-ip") {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(2, 1*time.Second)
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// First 2 requests should succeed.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	// 3rd request should be rejected with the standard envelope.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	defer rl.Stop()

	rl.allow("stale-ip")
	time.Sleep(100 * time.Millisecond)
	rl.cleanup()

	rl.mu.RLock()
	_, exists := rl.clients["stale-ip"]
	rl.mu.RUnlock()
	if exists {
		t.Error("stale entry should have been removed")
	}
}
