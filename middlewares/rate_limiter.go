package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP sliding window limiter.
type RateLimiter struct {
	rate      int
	interval  time.Duration
	ips       map[string][]time.Time
	lastPrune time.Time
	mu        sync.Mutex
}

func NewRateLimiter(rate int, interval int) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: time.Duration(interval) * time.Second,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many requests",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	if now.Sub(rl.lastPrune) >= rl.interval {
		rl.prune(cutoff)
		rl.lastPrune = now
	}
	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

// prune drops IPs with no request inside the window. mu must be held.
func (rl *RateLimiter) prune(cutoff time.Time) {
	for ip, hits := range rl.ips {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.ips, ip)
		}
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// strictLimiter keeps one token bucket per IP. Buckets idle long enough to
// have refilled completely are evicted, since a fresh bucket is equivalent.
type strictLimiter struct {
	interval  time.Duration
	burst     int
	idle      time.Duration
	buckets   map[string]*bucket
	lastPrune time.Time
	mu        sync.Mutex
}

func newStrictLimiter(interval time.Duration, burst int) *strictLimiter {
	return &strictLimiter{
		interval: interval,
		burst:    burst,
		idle:     interval * time.Duration(burst),
		buckets:  make(map[string]*bucket),
	}
}

func (s *strictLimiter) allow(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastPrune) >= s.idle {
		for key, b := range s.buckets {
			if now.Sub(b.lastSeen) >= s.idle {
				delete(s.buckets, key)
			}
		}
		s.lastPrune = now
	}

	b, ok := s.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(s.interval), s.burst)}
		s.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// NewStrictRateLimiter gives each IP a token bucket of burst requests refilled
// every interval. Used on login and register.
func NewStrictRateLimiter(interval time.Duration, burst int) gin.HandlerFunc {
	limiter := newStrictLimiter(interval, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many attempts, please wait a moment",
			})
			return
		}
		c.Next()
	}
}
