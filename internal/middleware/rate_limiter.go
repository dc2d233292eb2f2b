package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per client within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// rateLimiter is a fixed-window per-IP limiter: the counter resets when the
// window elapses. State is in-memory and per-instance — it is not shared
// across processes, which is all the catalog endpoints need.
type rateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	byIP   map[string]*rateEntry
}

const purgeInterval = 5 * time.Minute

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:  limit,
		window: window,
		byIP:   make(map[string]*rateEntry),
	}
	go rl.purgeLoop()
	return rl
}

// Allow records one request from ip and reports whether it is within the limit.
func (rl *rateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, exists := rl.byIP[ip]
	if !exists {
		entry = &rateEntry{}
		rl.byIP[ip] = entry
	}
	rl.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(rl.window)
	}
	entry.count++
	return entry.count <= rl.limit
}

// purgeLoop periodically drops expired entries so IPs that never return do
// not accumulate forever.
func (rl *rateLimiter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		rl.mu.Lock()
		for ip, entry := range rl.byIP {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(rl.byIP, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(rl.byIP)
		rl.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("entries_purged", purged).
				Int("entries_remaining", remaining).
				Msg("rate limiter map purged")
		}
	}
}

// RateLimiter returns a general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := newRateLimiter(limit, window)
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", time.Now().Add(window).Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// CatalogRateLimiter guards catalog creation endpoints: a fixed window of
// `limit` requests per `window` per source address. The sale and payment
// endpoints are never rate limited.
func CatalogRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := newRateLimiter(limit, window)
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes de catalogo. Intente en un momento."))
			return
		}
		c.Next()
	}
}
