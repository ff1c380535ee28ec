package router

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hospital/internal/api/appointment"
	"hospital/internal/api/invoice"
	"hospital/internal/api/user"
	"hospital/internal/domain"
	"hospital/internal/pkg/cache"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/middleware"
)

// Deps reúne os handlers e a infraestrutura que o roteador precisa.
type Deps struct {
	UserHandler        *user.Handler
	AppointmentHandler *appointment.Handler
	InvoiceHandler     *invoice.Handler

	Verifier middleware.TokenVerifier
	Cache    cache.Client
	Logger   logger.Logger

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(d.Verifier, d.Logger)
	limit := middleware.RateLimiter(d.Cache, d.RateLimitMaxRequests, d.RateLimitPeriod, d.Logger)

	// allow exige token válido e uma das roles informadas.
	allow := func(h http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(roles...)(h))
	}

	// --- 1. Health check e métricas ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	// --- 2. Autenticação e usuários ---
	mux.HandleFunc("POST /v1/login", limit(d.UserHandler.LoginUserHandler))
	mux.HandleFunc("POST /v1/users", allow(d.UserHandler.RegisterUserHandler, domain.RoleAdmin))

	// --- 3. Consultas ---
	clinical := []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist}
	mux.HandleFunc("POST /v1/appointments", allow(d.AppointmentHandler.ScheduleHandler, domain.RoleAdmin, domain.RoleReceptionist))
	mux.HandleFunc("GET /v1/appointments", allow(d.AppointmentHandler.ListHandler, clinical...))
	mux.HandleFunc("GET /v1/appointments/{id}", allow(d.AppointmentHandler.GetHandler, clinical...))

	// --- 4. Faturas ---
	billing := []domain.Role{domain.RoleAdmin, domain.RoleAccountant, domain.RoleManager}
	mux.HandleFunc("POST /v1/invoices", allow(d.InvoiceHandler.CreateHandler, domain.RoleAdmin, domain.RoleAccountant))
	mux.HandleFunc("GET /v1/invoices", allow(d.InvoiceHandler.ListHandler, billing...))
	mux.HandleFunc("GET /v1/invoices/{id}", allow(d.InvoiceHandler.GetHandler, billing...))
	mux.HandleFunc("PUT /v1/invoices/{id}", allow(d.InvoiceHandler.UpdateHandler, domain.RoleAdmin, domain.RoleAccountant))
	mux.HandleFunc("DELETE /v1/invoices/{id}", allow(d.InvoiceHandler.DeleteHandler, domain.RoleAdmin))

	return mux
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
