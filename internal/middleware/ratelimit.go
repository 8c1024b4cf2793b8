package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
	"todoList/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// За минуту простоя корзина клиента наполняется до burst, поэтому запись
// можно удалять без потери состояния.
const DefaultIdleTTL = time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter держит по token bucket на каждый IP: rpm запросов в минуту,
// burst rpm. Клиенты, не обращавшиеся дольше idleTTL, удаляются.
type RateLimiter struct {
	rpm     int
	limit   rate.Limit
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func NewRateLimiter(rpm int, idleTTL time.Duration) *RateLimiter {
	if idleTTL < DefaultIdleTTL {
		idleTTL = DefaultIdleTTL
	}
	return &RateLimiter{
		rpm:     rpm,
		limit:   rate.Every(time.Minute / time.Duration(rpm)),
		idleTTL: idleTTL,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// RateLimit ограничивает число запросов с одного IP в минуту. rpm <= 0
// отключает ограничение.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return NewRateLimiter(rpm, DefaultIdleTTL).Handler
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		now := l.now()
		limiter := l.limiterFor(ip, now)

		if !limiter.AllowN(now, 1) {
			retryAfter := l.secondsUntil(1 - limiter.TokensAt(now))

			logger.Warn("HTTP: Превышен лимит запросов",
				zap.String("client_ip", ip),
				zap.String("request_id", GetRequestID(r.Context())))

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"message":     "Too many requests",
					"retry_after": retryAfter,
				},
			})
			return
		}

		tokens := limiter.TokensAt(now)
		reset := now.Add(time.Duration(l.secondsUntil(float64(l.rpm)-tokens)) * time.Second)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(math.Floor(tokens)), 0)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.rpm)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep вызывается под l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	evicted := 0
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, ip)
			evicted++
		}
	}
	l.lastSweep = now

	if evicted > 0 {
		logger.Debug("HTTP: Удалены неактивные клиенты лимитера",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(l.clients)))
	}
}

// secondsUntil - через сколько секунд накопится tokens токенов, с
// округлением вверх.
func (l *RateLimiter) secondsUntil(tokens float64) int {
	if tokens <= 0 {
		return 0
	}
	return int(math.Ceil(tokens / float64(l.limit)))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
