package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/metrics"
)

// Lifetime é a validade fixa de um token a partir da emissão.
const Lifetime = 2 * time.Hour

// ExpiresAt é o instante em que um token emitido em issuedAt expira, com a
// mesma resolução de segundos do claim exp.
func ExpiresAt(issuedAt time.Time) time.Time {
	return issuedAt.Truncate(time.Second).Add(Lifetime)
}

// Config é a configuração de assinatura, carregada uma vez no startup.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// Claims são as informações que o token carrega. sub é o ID do usuário.
type Claims struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID converte o sub de volta para o ID numérico do usuário.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issuer emite e verifica tokens HS256. É imutável após a construção.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
}

// NewIssuer valida a configuração. Secret, Issuer e Audience são obrigatórios;
// a falta de qualquer um deles é um ConfigurationError e deve abortar o startup.
func NewIssuer(cfg Config) (*Issuer, error) {
	switch {
	case cfg.Secret == "":
		return nil, apperror.NewConfigurationError("JWT_SECRET não definido", nil)
	case cfg.Issuer == "":
		return nil, apperror.NewConfigurationError("JWT_ISSUER não definido", nil)
	case cfg.Audience == "":
		return nil, apperror.NewConfigurationError("JWT_AUDIENCE não definido", nil)
	}

	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Issue gera o token assinado do usuário, válido de now até ExpiresAt(now).
// now é truncado para segundos, como os claims numéricos do JWT.
func (i *Issuer) Issue(user *domain.User, now time.Time) (string, error) {
	if user == nil || user.ID == 0 {
		return "", apperror.NewValidationError("usuário sem ID não pode receber token")
	}
	if !user.Role.IsValid() {
		return "", apperror.NewValidationError(fmt.Sprintf("role desconhecida: %q", user.Role))
	}

	now = now.Truncate(time.Second)
	claims := Claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(ExpiresAt(now)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Assina o token com a chave secreta
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", apperror.NewInternalError("falha ao assinar o token", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(user.Role.String()).Inc()
	return tokenString, nil
}

// Verify valida assinatura, algoritmo, expiração (relativa a now), issuer e
// audience, e depois a role e o sub. Qualquer falha é MalformedCredentialError.
func (i *Issuer) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		metrics.CredentialRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return nil, apperror.NewMalformedCredentialError("token inválido", err)
	}

	// O jwt não conhece o conjunto fechado de roles nem o formato do sub.
	if !claims.Role.IsValid() {
		metrics.CredentialRejectionsTotal.WithLabelValues("claims").Inc()
		return nil, apperror.NewMalformedCredentialError(fmt.Sprintf("role desconhecida: %q", claims.Role), nil)
	}
	if _, err := claims.UserID(); err != nil {
		metrics.CredentialRejectionsTotal.WithLabelValues("claims").Inc()
		return nil, apperror.NewMalformedCredentialError("sub não é um ID de usuário", err)
	}

	return claims, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "claims"
	}
}
