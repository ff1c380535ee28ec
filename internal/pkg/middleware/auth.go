package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims são os dados do usuário extraídos do token e anexados ao contexto.
type UserClaims struct {
	UserID int64
	Name   string
	Role   domain.Role
}

// TokenVerifier define o contrato de validação necessário para o middleware.
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (*token.Claims, error)
}

// NewAuthMiddleware valida o Bearer token e anexa as claims (ID, nome, role) ao contexto.
func NewAuthMiddleware(verifier TokenVerifier, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				writeAppError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			// 2. Validar o Token
			claims, err := verifier.Verify(tokenString, time.Now())
			if err != nil {
				log.Warn("Token rejeitado.", map[string]interface{}{"error": err.Error(), "path": r.URL.Path})
				writeAppError(w, err)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				writeAppError(w, apperror.NewMalformedCredentialError("sub não é um ID de usuário", err))
				return
			}

			// 3. Anexar Claims ao Contexto
			ctx := context.WithValue(r.Context(), UserClaimsKey, UserClaims{
				UserID: userID,
				Name:   claims.Name,
				Role:   claims.Role,
			})

			next(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas por NewAuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware permite a requisição apenas se a role do usuário estiver em requiredRoles.
func PermissionMiddleware(requiredRoles ...domain.Role) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Tentar extrair as Claims do contexto
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeAppError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			// 2. Verificar Permissão (AuthZ)
			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next(w, r)
					return
				}
			}

			writeAppError(w, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		}
	}
}

func writeAppError(w http.ResponseWriter, err error) {
	status, category, msg := apperror.MapToHTTPStatus(err)
	writeError(w, status, category, msg)
}

func writeError(w http.ResponseWriter, status int, category, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  msg,
	})
}
