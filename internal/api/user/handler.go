package user

import (
	"context"
	"net/http"

	"hospital/internal/api/response"
	"hospital/internal/domain"
	"hospital/internal/pkg/logger"
)

// AuthService define o contrato para as operações de cadastro e login.
type AuthService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (*domain.User, error)
	Login(ctx context.Context, name string, password string) (domain.LoginResponse, error)
}

// Handler agrupa os handlers de usuário e autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com POST /v1/users (restrito a Admin pelo roteador).
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(r, &reg); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	// O hash da senha não é serializado (tag json:"-").
	newUser, err := h.Service.Register(r.Context(), reg)
	response.Write(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com POST /v1/login e devolve o token.
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq domain.LoginRequest
	if err := response.Decode(r, &loginReq); err != nil {
		response.Write(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	resp, err := h.Service.Login(r.Context(), loginReq.Name, loginReq.Password)
	response.Write(w, r, h.Logger, resp, err, http.StatusOK)
}
