package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do sistema hospitalar.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "STORE_UNAVAILABLE")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Erros de Domínio ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
// Leituras do repositório nunca retornam este erro: ausência é um resultado normal.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um papel (role) sem permissão para o recurso.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// MalformedCredentialError é retornado na verificação de um token: assinatura
// inválida, expirado, issuer/audience divergentes ou role desconhecida.
type MalformedCredentialError struct {
	Msg string
	Err error
}

func (e *MalformedCredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Credencial inválida: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Credencial inválida: %s", e.Msg)
}
func (e *MalformedCredentialError) Category() string { return "MALFORMED_CREDENTIAL" }
func (e *MalformedCredentialError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *MalformedCredentialError) Unwrap() error    { return e.Err }

// NewMalformedCredentialError cria um erro de credencial malformada.
func NewMalformedCredentialError(msg string, err error) AppError {
	return &MalformedCredentialError{Msg: msg, Err: err}
}

// --- Erros de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
// Falhas de conexão e violações de constraint têm tipos próprios; veja repository.Classify.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// StoreUnavailableError indica que o banco não pôde ser alcançado (conexão perdida,
// timeout ou cancelamento). É transitório: o chamador pode tentar de novo com backoff.
type StoreUnavailableError struct {
	Msg string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("Banco de dados indisponível: %s: %v", e.Msg, e.Err)
}
func (e *StoreUnavailableError) Category() string { return "STORE_UNAVAILABLE" }
func (e *StoreUnavailableError) HTTPStatus() int  { return http.StatusServiceUnavailable }
func (e *StoreUnavailableError) Unwrap() error    { return e.Err }

// NewStoreUnavailableError cria um erro de indisponibilidade do banco.
func NewStoreUnavailableError(msg string, err error) AppError {
	return &StoreUnavailableError{Msg: msg, Err: err}
}

// ConstraintViolationError indica que uma regra de unicidade ou chave estrangeira
// foi violada. É permanente: a escrita não deve ser repetida sem modificação.
type ConstraintViolationError struct {
	Msg string
	Err error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("Violação de restrição: %s", e.Msg)
}
func (e *ConstraintViolationError) Category() string { return "CONSTRAINT_VIOLATION" }
func (e *ConstraintViolationError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConstraintViolationError) Unwrap() error    { return e.Err }

// NewConstraintViolationError cria um erro de violação de restrição.
func NewConstraintViolationError(msg string, err error) AppError {
	return &ConstraintViolationError{Msg: msg, Err: err}
}

// ConfigurationError é fatal: impede a inicialização do serviço.
type ConfigurationError struct {
	Msg string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Erro de Configuração: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("Erro de Configuração: %s", e.Msg)
}
func (e *ConfigurationError) Category() string { return "CONFIGURATION_ERROR" }
func (e *ConfigurationError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *ConfigurationError) Unwrap() error    { return e.Err }

// NewConfigurationError cria um erro de configuração.
func NewConfigurationError(msg string, err error) AppError {
	return &ConfigurationError{Msg: msg, Err: err}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Erros embrulhados com fmt.Errorf("%w") também são reconhecidos.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
