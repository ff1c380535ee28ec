package domain

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Role é o papel do usuário no hospital. O conjunto é fechado.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleDoctor       Role = "Doctor"
	RolePatient      Role = "Patient"
	RoleReceptionist Role = "Receptionist"
	RoleManager      Role = "Manager"
	RoleAccountant   Role = "Accountant"
)

// Roles lista todos os papéis válidos.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RolePatient, RoleReceptionist, RoleManager, RoleAccountant}
}

// IsValid verifica se o papel pertence ao conjunto fechado.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleReceptionist, RoleManager, RoleAccountant:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converte o texto (exatamente como armazenado) para Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("papel desconhecido: %q", s)
	}
	return r, nil
}

// User representa a entidade do usuário no sistema.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" json:"-"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull,unique" json:"name"`
	Email        string `bun:"email" json:"email,omitempty"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         Role   `bun:"role,notnull" json:"role"`
}

func (u *User) GetID() int64 { return u.ID }

// UserRegistration representa o payload de entrada para o cadastro.
type UserRegistration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=Admin Doctor Patient Receptionist Manager Accountant"`
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse é devolvido por um login bem-sucedido.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
