package appointment

import (
	"context"
	"net/http"

	"hospital/internal/api/response"
	"hospital/internal/domain"
	"hospital/internal/pkg/logger"
)

// AppointmentService define o contrato que o Handler espera da camada de Serviço.
type AppointmentService interface {
	Schedule(ctx context.Context, req domain.AppointmentRequest) (*domain.Appointment, error)
	Get(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
}

// Handler agrupa os handlers de consultas.
type Handler struct {
	Service AppointmentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc AppointmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ScheduleHandler lida com POST /v1/appointments.
func (h *Handler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.AppointmentRequest
	if err := response.Decode(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	a, err := h.Service.Schedule(r.Context(), req)
	response.Write(w, r, h.Logger, a, err, http.StatusCreated)
}

// GetHandler lida com GET /v1/appointments/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	a, err := h.Service.Get(r.Context(), id)
	response.Write(w, r, h.Logger, a, err, http.StatusOK)
}

// ListHandler lida com GET /v1/appointments.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.List(r.Context())
	response.Write(w, r, h.Logger, all, err, http.StatusOK)
}
