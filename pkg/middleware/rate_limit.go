package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitMaxPeers = 10000
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// IPRateLimiter conta requisições por IP em janelas fixas de um minuto.
// IPs inativos saem do LRU quando a janela expira.
type IPRateLimiter struct {
	name   string
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows *expirable.LRU[string, *rateWindow]
}

func NewIPRateLimiter(name string, perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		name:    name,
		limit:   perMinute,
		window:  rateLimitWindow,
		now:     time.Now,
		windows: expirable.NewLRU[string, *rateWindow](rateLimitMaxPeers, nil, rateLimitWindow),
	}
}

// Allow registra uma requisição do IP e informa se ela cabe na janela atual
func (l *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows.Get(ip)
	if !ok || !now.Before(w.resetAt) {
		l.windows.Add(ip, &rateWindow{count: 1, resetAt: now.Add(l.window)})
		return true, 0
	}

	if w.count >= l.limit {
		return false, w.resetAt.Sub(now)
	}

	w.count++
	return true, 0
}

// RateLimit devolve 429 quando o IP excede o limite do limitador
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			allowed, retryAfter := limiter.Allow(ip)
			if !allowed {
				seconds := int(retryAfter.Seconds())
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				log.ForContext(r.Context()).WithFields(log.Fields{
					"limiter":     limiter.name,
					"remote_addr": ip,
					"path":        r.URL.Path,
				}).Warn("Limite de requisições excedido")

				apiErrors.WriteError(w, apiErrors.ErrRateLimited, "Muitas requisições. Tente novamente em instantes", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP usa o primeiro endereço de X-Forwarded-For quando presente
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
