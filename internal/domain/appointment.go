package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Appointment é uma consulta agendada entre paciente e médico.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a" json:"-"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	PatientID   int64     `bun:"patient_id,notnull" json:"patient_id"`
	DoctorID    int64     `bun:"doctor_id,notnull" json:"doctor_id"`
	ScheduledAt time.Time `bun:"scheduled_at,notnull" json:"scheduled_at"`
	Notes       string    `bun:"notes" json:"notes,omitempty"`
}

func (a *Appointment) GetID() int64 { return a.ID }

// AppointmentRequest é o payload de agendamento.
type AppointmentRequest struct {
	PatientID   int64     `json:"patient_id" validate:"required,gt=0"`
	DoctorID    int64     `json:"doctor_id" validate:"required,gt=0"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"max=500"`
}
