package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/metrics"
	"github.com/nastly29/home-organizer/pkg/dto"
)

const rateLimiterSweepInterval = 5 * time.Minute

type RateLimiter interface {
	Allow(key string, limit int, window time.Duration) RateDecision
	Close()
}

type RateDecision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string]rateState
	stopCh  chan struct{}
	once    sync.Once
	now     func() time.Time
}

type rateState struct {
	count     int
	windowEnd time.Time
}

// NewMemoryRateLimiter keeps fixed-window counters in process memory.
func NewMemoryRateLimiter() RateLimiter {
	rl := &memoryRateLimiter{
		entries: make(map[string]rateState),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	go rl.sweepLoop()
	return rl
}

func (rl *memoryRateLimiter) Allow(key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.entries[key]
	if !ok || now.After(state.windowEnd) {
		state = rateState{count: 1, windowEnd: now.Add(window)}
		rl.entries[key] = state
		return RateDecision{Allowed: true, Count: state.count, WindowEnd: state.windowEnd}
	}
	if state.count >= limit {
		return RateDecision{Allowed: false, Count: state.count, WindowEnd: state.windowEnd}
	}
	state.count++
	rl.entries[key] = state
	return RateDecision{Allowed: true, Count: state.count, WindowEnd: state.windowEnd}
}

func (rl *memoryRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rateLimiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(rl.now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *memoryRateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, state := range rl.entries {
		if now.After(state.windowEnd) {
			delete(rl.entries, key)
		}
	}
}

func (rl *memoryRateLimiter) Close() {
	rl.once.Do(func() {
		close(rl.stopCh)
	})
}

// RateLimit limits each client IP to limit requests per window. A nil
// limiter or a non-positive limit disables it.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) drift.HandlerFunc {
	return func(c *drift.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		decision := limiter.Allow(clientIPKey(c.Request), limit, window)
		applyRateHeaders(c.Response.Header(), limit, decision)
		if !decision.Allowed {
			metrics.RateLimitHits.WithLabelValues("ip").Inc()
			_ = c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: "RATE_LIMITED"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func applyRateHeaders(h http.Header, limit int, d RateDecision) {
	remaining := max(limit-d.Count, 0)
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !d.WindowEnd.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.WindowEnd.Unix(), 10))
		if !d.Allowed {
			retry := max(int(time.Until(d.WindowEnd).Seconds()), 1)
			h.Set("Retry-After", strconv.Itoa(retry))
		}
	}
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
}
