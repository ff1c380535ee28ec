package appointmentservice

import (
	"context"
	"fmt"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository"
	"hospital/internal/repository/appointmentrepo"
	"hospital/internal/repository/userrepo"
)

// Service implementa o agendamento e a consulta de atendimentos.
type Service struct {
	Store     *repository.Store
	Validator *validation.Validator
	logger    logger.Logger
}

// NewService cria o serviço de consultas.
func NewService(store *repository.Store, v *validation.Validator, log logger.Logger) *Service {
	return &Service{Store: store, Validator: v, logger: log}
}

// Schedule agenda uma consulta. O paciente deve ter o papel Patient e o médico, Doctor.
func (s *Service) Schedule(ctx context.Context, req domain.AppointmentRequest) (*domain.Appointment, error) {
	// 1. Validação do payload
	if err := s.Validator.Struct(req); err != nil {
		return nil, err
	}

	appointment := &domain.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Notes:       req.Notes,
	}

	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		users := userrepo.NewUserRepository(sess)

		// 2. Regras de negócio: participantes existentes e com o papel correto
		if err := requireRole(ctx, users, req.PatientID, domain.RolePatient); err != nil {
			return err
		}
		if err := requireRole(ctx, users, req.DoctorID, domain.RoleDoctor); err != nil {
			return err
		}

		// 3. Persistência
		_, err := appointmentrepo.NewAppointmentRepository(sess).Add(ctx, appointment)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Consulta agendada.", map[string]interface{}{
		"appointment_id": appointment.ID,
		"patient_id":     appointment.PatientID,
		"doctor_id":      appointment.DoctorID,
	})
	return appointment, nil
}

func requireRole(ctx context.Context, users domain.UserLookup, id int64, role domain.Role) error {
	user, found, err := users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NewValidationError(fmt.Sprintf("usuário %d não existe", id))
	}
	if user.Role != role {
		return apperror.NewValidationError(fmt.Sprintf("usuário %d não tem o papel %s", id, role))
	}
	return nil
}

// Get busca a consulta pelo ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	var appointment *domain.Appointment
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		a, found, err := appointmentrepo.NewAppointmentRepository(sess).GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewNotFoundError(fmt.Sprintf("Consulta com ID %d", id))
		}
		appointment = a
		return nil
	})
	return appointment, err
}

// List retorna todas as consultas ordenadas por ID.
func (s *Service) List(ctx context.Context) ([]*domain.Appointment, error) {
	var appointments []*domain.Appointment
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		var err error
		appointments, err = appointmentrepo.NewAppointmentRepository(sess).GetAll(ctx)
		return err
	})
	return appointments, err
}
