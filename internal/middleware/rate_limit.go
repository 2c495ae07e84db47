// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/bizease/bizease-backend/internal/config"
	"github.com/bizease/bizease-backend/internal/i18n"
	"github.com/bizease/bizease-backend/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int

	// plain responds with {"error": ...} instead of the API envelope.
	plain bool
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}

	// Clean up old visitors every minute
	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		rl.mtx.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mtx.Unlock()
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getVisitor(ip)

		if !limiter.Allow() {
			message := i18n.T(utils.GetLangFromContext(c), i18n.KeyRateLimited)
			if rl.plain {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": message})
			} else {
				utils.Fail(c, http.StatusTooManyRequests, utils.CodeRateLimited, message, nil)
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// GeneralRateLimit applies to every route.
func GeneralRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return NewRateLimiter(rate.Limit(cfg.GeneralPerSecond), cfg.GeneralBurst).Middleware()
}

// ChatRateLimit guards the LLM-backed chat endpoint.
func ChatRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	rl := NewRateLimiter(rate.Every(time.Minute/time.Duration(max(cfg.ChatPerMinute, 1))), cfg.ChatBurst)
	rl.plain = true
	return rl.Middleware()
}

// AuthRateLimit guards the login endpoints.
func AuthRateLimit() gin.HandlerFunc {
	return NewRateLimiter(rate.Every(time.Minute/5), 5).Middleware()
}
