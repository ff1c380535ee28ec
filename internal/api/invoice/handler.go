package invoice

import (
	"context"
	"net/http"

	"hospital/internal/api/response"
	"hospital/internal/domain"
	"hospital/internal/pkg/logger"
)

// InvoiceService define o contrato que o Handler espera da camada de Serviço.
type InvoiceService interface {
	Create(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error)
	Get(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, appID int64) ([]*domain.Invoice, error)
	Update(ctx context.Context, id int64, req domain.InvoiceRequest) (*domain.Invoice, error)
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa os handlers de faturas.
type Handler struct {
	Service InvoiceService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc InvoiceService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateHandler lida com POST /v1/invoices.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceRequest
	if err := response.Decode(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	inv, err := h.Service.Create(r.Context(), req)
	response.Write(w, r, h.Logger, inv, err, http.StatusCreated)
}

// GetHandler lida com GET /v1/invoices/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	inv, err := h.Service.Get(r.Context(), id)
	response.Write(w, r, h.Logger, inv, err, http.StatusOK)
}

// ListHandler lida com GET /v1/invoices[?app_id=N].
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := response.QueryID(r, "app_id")
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	all, err := h.Service.List(r.Context(), appID)
	response.Write(w, r, h.Logger, all, err, http.StatusOK)
}

// UpdateHandler lida com PUT /v1/invoices/{id}.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var req domain.InvoiceRequest
	if err := response.Decode(r, &req); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	inv, err := h.Service.Update(r.Context(), id, req)
	response.Write(w, r, h.Logger, inv, err, http.StatusOK)
}

// DeleteHandler lida com DELETE /v1/invoices/{id}.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r)
	if err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
		return
	}

	err = h.Service.Delete(r.Context(), id)
	response.Write(w, r, h.Logger, nil, err, http.StatusNoContent)
}
