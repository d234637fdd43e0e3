package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/logging"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// loginLimiterIdle is how long an IP's bucket survives without traffic. A bucket
// refills completely within a minute, so dropping it later loses nothing.
const loginLimiterIdle = 10 * time.Minute

// LoginLimiter keeps one token bucket per client IP for the sign in endpoints.
// Buckets of IPs that stop calling expire.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	every    rate.Limit
	burst    int
}

// NewLoginLimiter allows perMinute attempts per IP, all of which may be spent at once.
// A non-positive perMinute disables limiting.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	return newLoginLimiter(perMinute, loginLimiterIdle)
}

func newLoginLimiter(perMinute int, idle time.Duration) *LoginLimiter {
	l := &LoginLimiter{limiters: cache.New(idle, idle), burst: perMinute}
	if perMinute > 0 {
		l.every = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return l
}

func (l *LoginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if v, found := l.limiters.Get(ip); found {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.every, l.burst)
	}
	// every hit pushes the idle deadline out again
	l.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.burst <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !l.get(ip).Allow() {
			logging.Warn("login rate limit hit", "ip", ip, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "rate_limited", constants.MsgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
