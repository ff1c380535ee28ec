package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"hospital/internal/pkg/cache"
	"hospital/internal/pkg/logger"
)

// RateLimiter limita a `limit` requisições por IP a cada `period` (janela fixa).
// A contagem é feita com um único incremento atômico no cache, que também fixa o TTL da janela.
func RateLimiter(client cache.Client, limit int, period time.Duration, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.IncrWindow(r.Context(), key, period)
			if err != nil {
				log.Error("Falha ao atualizar contador de rate limit.", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Falha ao verificar limite de requisições.")
				return
			}

			if count > int64(limit) {
				log.Warn("Limite de requisições excedido.", map[string]interface{}{"ip": ip, "count": count})
				w.Header().Set("Retry-After", strconv.Itoa(int(period.Seconds())))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Limite de requisições excedido.")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next(w, r)
		}
	}
}
