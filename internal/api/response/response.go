// Package response padroniza a escrita de respostas JSON e a tradução de erros nos handlers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
)

// Write envia data com successStatus, ou traduz err via apperror.MapToHTTPStatus.
func Write(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		if data == nil {
			w.WriteHeader(successStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
			log.Error("Falha ao codificar JSON de resposta", jsonErr)
		}
		return
	}

	// TRATAMENTO DE ERROS
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// Decode lê o corpo JSON em dst; campos desconhecidos são rejeitados.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}

// PathID extrai o parâmetro {id} da rota como inteiro positivo.
func PathID(r *http.Request) (int64, error) {
	return parseID(r.PathValue("id"), "id")
}

// QueryID lê um ID opcional da query string; ausente vale 0.
func QueryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return parseID(raw, key)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("%s inválido: %q", name, raw))
	}
	return id, nil
}
