package invoicerepo

import (
	"context"

	"hospital/internal/domain"
	"hospital/internal/repository"
)

// InvoiceRepository implementa domain.InvoiceRepository.
type InvoiceRepository struct {
	*repository.BunRepository[*domain.Invoice]
}

// NewInvoiceRepository cria o repositório de faturas vinculado à sessão.
func NewInvoiceRepository(sess *repository.Session) *InvoiceRepository {
	return &InvoiceRepository{
		BunRepository: repository.New(sess, func() *domain.Invoice { return new(domain.Invoice) }),
	}
}

var _ domain.InvoiceRepository = (*InvoiceRepository)(nil)

// FindByAppointment retorna as faturas da consulta appID, ordenadas por ID.
// Mesmo resultado de Filter(func(i) bool { return i.AppID == appID }), mas filtrado no banco.
func (r *InvoiceRepository) FindByAppointment(ctx context.Context, appID int64) ([]*domain.Invoice, error) {
	return r.SelectWhere(ctx, "find_by_appointment", "?TableAlias.app_id = ?", appID)
}
