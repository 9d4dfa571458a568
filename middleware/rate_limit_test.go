package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterLocksAfterMaxAttempts(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, time.Hour)

	allowed, remaining, _ := rl.Check("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 3, remaining)

	rl.RecordAttempt("1.2.3.4", false)
	rl.RecordAttempt("1.2.3.4", false)
	allowed, remaining, _ = rl.Check("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	rl.RecordAttempt("1.2.3.4", false)
	allowed, _, retry := rl.Check("1.2.3.4")
	assert.False(t, allowed)
	assert.Greater(t, retry, time.Duration(0))

	// A different IP is unaffected.
	allowed, _, _ = rl.Check("5.6.7.8")
	assert.True(t, allowed)
}

func TestRateLimiterSuccessClearsCounter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, time.Hour)

	rl.RecordAttempt("1.2.3.4", false)
	rl.RecordAttempt("1.2.3.4", false)
	rl.RecordAttempt("1.2.3.4", true)

	allowed, remaining, _ := rl.Check("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 3, remaining)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(3, 10*time.Millisecond, time.Hour)

	rl.RecordAttempt("1.2.3.4", false)
	rl.RecordAttempt("1.2.3.4", false)
	time.Sleep(20 * time.Millisecond)

	allowed, remaining, _ := rl.Check("1.2.3.4")
	assert.True(t, allowed)
	assert.Equal(t, 3, remaining, "a stale window resets the counter")
}

func TestRateLimiterLockExpiry(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 10*time.Millisecond)

	rl.RecordAttempt("1.2.3.4", false)
	allowed, _, _ := rl.Check("1.2.3.4")
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)
	allowed, _, _ = rl.Check("1.2.3.4")
	assert.True(t, allowed, "the lock releases after the lock duration")
}

func TestOtpRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Fresh limiter so other tests cannot interfere.
	otpRateLimiter = NewRateLimiter(2, time.Minute, time.Hour)

	router := gin.New()
	router.POST("/otp", OtpRateLimitMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/otp", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "retry_after")
}
