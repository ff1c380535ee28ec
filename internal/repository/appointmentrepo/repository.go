package appointmentrepo

import (
	"hospital/internal/domain"
	"hospital/internal/repository"
)

// NewAppointmentRepository cria o repositório de consultas vinculado à sessão.
// Consultas não têm buscas especializadas; o contrato genérico basta.
func NewAppointmentRepository(sess *repository.Session) domain.Repository[*domain.Appointment] {
	return repository.New(sess, func() *domain.Appointment { return new(domain.Appointment) })
}
