package invoiceservice

import (
	"context"
	"fmt"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository"
	"hospital/internal/repository/appointmentrepo"
	"hospital/internal/repository/invoicerepo"
)

// Service implementa o CRUD de faturas.
type Service struct {
	Store     *repository.Store
	Validator *validation.Validator
	logger    logger.Logger
}

// NewService cria o serviço de faturas.
func NewService(store *repository.Store, v *validation.Validator, log logger.Logger) *Service {
	return &Service{Store: store, Validator: v, logger: log}
}

// Create emite a fatura de uma consulta existente.
func (s *Service) Create(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		AppID:         req.AppID,
		Price:         req.Price,
		PaymentMethod: req.PaymentMethod,
	}

	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		if err := requireAppointment(ctx, sess, req.AppID); err != nil {
			return err
		}
		_, err := invoicerepo.NewInvoiceRepository(sess).Add(ctx, invoice)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fatura criada.", map[string]interface{}{"invoice_id": invoice.ID, "app_id": invoice.AppID})
	return invoice, nil
}

func requireAppointment(ctx context.Context, sess *repository.Session, appID int64) error {
	_, found, err := appointmentrepo.NewAppointmentRepository(sess).GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewNotFoundError(fmt.Sprintf("Consulta com ID %d", appID))
	}
	return nil
}

// Get busca a fatura pelo ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	var invoice *domain.Invoice
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		var err error
		invoice, err = findInvoice(ctx, invoicerepo.NewInvoiceRepository(sess), id)
		return err
	})
	return invoice, err
}

func findInvoice(ctx context.Context, invoices domain.InvoiceRepository, id int64) (*domain.Invoice, error) {
	invoice, found, err := invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Fatura com ID %d", id))
	}
	return invoice, nil
}

// List retorna as faturas; appID > 0 restringe às faturas daquela consulta.
func (s *Service) List(ctx context.Context, appID int64) ([]*domain.Invoice, error) {
	if appID < 0 {
		return nil, apperror.NewValidationError("app_id deve ser positivo")
	}

	var invoices []*domain.Invoice
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		repo := invoicerepo.NewInvoiceRepository(sess)

		var err error
		if appID == 0 {
			invoices, err = repo.GetAll(ctx)
		} else {
			invoices, err = repo.FindByAppointment(ctx, appID)
		}
		return err
	})
	return invoices, err
}

// Update substitui os dados da fatura id.
func (s *Service) Update(ctx context.Context, id int64, req domain.InvoiceRequest) (*domain.Invoice, error) {
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	var invoice *domain.Invoice
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		repo := invoicerepo.NewInvoiceRepository(sess)

		var err error
		if invoice, err = findInvoice(ctx, repo, id); err != nil {
			return err
		}
		if req.AppID != invoice.AppID {
			if err := requireAppointment(ctx, sess, req.AppID); err != nil {
				return err
			}
		}

		invoice.AppID = req.AppID
		invoice.Price = req.Price
		invoice.PaymentMethod = req.PaymentMethod
		return repo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fatura atualizada.", map[string]interface{}{"invoice_id": id})
	return invoice, nil
}

// Delete remove a fatura id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		repo := invoicerepo.NewInvoiceRepository(sess)

		invoice, err := findInvoice(ctx, repo, id)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, invoice)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Fatura removida.", map[string]interface{}{"invoice_id": id})
	return nil
}
