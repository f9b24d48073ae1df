package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/pantry_api/internal/utils"
)

// UploadRateLimiter caps price list uploads per client IP in a fixed
// one-minute window.
type UploadRateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string]*attemptInfo
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewUploadRateLimiter allows perMinute uploads per IP. A non-positive
// perMinute disables limiting. Stale entries are swept until ctx is done.
func NewUploadRateLimiter(ctx context.Context, perMinute int) *UploadRateLimiter {
	rl := &UploadRateLimiter{
		limit:    perMinute,
		window:   time.Minute,
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
	go rl.cleanup(ctx, 5*time.Minute)
	return rl
}

// Allow checks if ip can upload again and records the attempt.
func (r *UploadRateLimiter) Allow(ip string) bool {
	if r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

// Handle returns the gin middleware enforcing the limit.
func (r *UploadRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			utils.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many uploads, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *UploadRateLimiter) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *UploadRateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
		}
	}
}
