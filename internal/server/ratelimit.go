package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// minIdleTTL is how long a client's bucket is kept after its last request
// when the bucket refills faster than that.
const minIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter hands out one token bucket per client address. Buckets
// idle long enough to have refilled are dropped, so forgetting them does
// not loosen the limit.
type ipRateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*clientLimiter
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	ttl := minIdleTTL
	if r > 0 {
		refill := time.Duration(float64(b) / float64(r) * float64(time.Second))
		ttl = max(ttl, refill)
	}
	return &ipRateLimiter{
		ips:     make(map[string]*clientLimiter),
		r:       r,
		b:       b,
		idleTTL: ttl,
		now:     time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, exists := l.ips[ip]
	if !exists {
		c = &clientLimiter{limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops clients idle for longer than idleTTL. Callers hold l.mu.
func (l *ipRateLimiter) sweep(now time.Time) {
	for ip, c := range l.ips {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.ips, ip)
		}
	}
	l.lastSweep = now
}

// clients returns the number of tracked clients.
func (l *ipRateLimiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ips)
}

// clientIP returns the host part of the remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
