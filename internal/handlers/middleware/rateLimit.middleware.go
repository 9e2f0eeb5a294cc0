package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client address.
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMinute int
	lastSweep time.Time
}

func newIPLimiter(perMinute int) *ipLimiter {
	return &ipLimiter{
		visitors:  make(map[string]*visitor),
		perMinute: perMinute,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	if l == nil || l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute),
		}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.Allow()
}

// LoginRateLimit caps login attempts per client IP.
func (m *Middleware) LoginRateLimit() fiber.Handler {
	log := m.log.Function("LoginRateLimit")

	return func(c *fiber.Ctx) error {
		if !m.loginLimiter.allow(c.IP()) {
			log.Info("login rate limit exceeded", "ip", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many login attempts, try again later",
			})
		}
		return c.Next()
	}
}
