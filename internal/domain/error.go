package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"409"`
	Category string `json:"category" example:"CONSTRAINT_VIOLATION"`
	Message  string `json:"message" example:"Violação de restrição: nome de usuário já cadastrado"`
}
