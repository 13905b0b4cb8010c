package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clients not seen for this long lose their bucket
const clientIdleTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address. Idle buckets are swept lazily on
// lookup, at most once per clientIdleTTL.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rateLimit rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:   make(map[string]*clientBucket),
		rateLimit: r,
		burst:     b,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow spends one token from the client's bucket.
func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= clientIdleTTL {
		i.sweep(now)
	}
	bucket, exists := i.clients[ip]
	if !exists {
		bucket = &clientBucket{limiter: rate.NewLimiter(i.rateLimit, i.burst)}
		i.clients[ip] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, bucket := range i.clients {
		if now.Sub(bucket.lastSeen) >= clientIdleTTL {
			delete(i.clients, ip)
		}
	}
	i.lastSweep = now
}

func (i *IPRateLimiter) clientCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}
