package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2, nil)
	handler := limiter.Handler(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("burst requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be throttled: %v", statuses)
	}

	// A different client is unaffected.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("separate client throttled: %d", rec.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(1, 1, nil)

	limiter.getLimiter("10.0.0.1")
	limiter.Cleanup()

	limiter.mu.Lock()
	tracked := len(limiter.limiters)
	limiter.mu.Unlock()
	if tracked != 1 {
		t.Fatalf("cleanup below the bound should keep limiter state, got %d", tracked)
	}

	for i := 0; i < 10001; i++ {
		limiter.getLimiter(strconv.Itoa(i))
	}
	limiter.Cleanup()

	limiter.mu.Lock()
	tracked = len(limiter.limiters)
	limiter.mu.Unlock()
	if tracked != 0 {
		t.Fatalf("cleanup past the bound should reset tracked clients, got %d", tracked)
	}
}
