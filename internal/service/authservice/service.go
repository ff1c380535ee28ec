package authservice

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/metrics"
	"hospital/internal/pkg/token"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository"
	"hospital/internal/repository/userrepo"
)

// TokenIssuer é o contrato da camada de token (internal/pkg/token).
type TokenIssuer interface {
	Issue(user *domain.User, now time.Time) (string, error)
}

// Service implementa login, cadastro de usuários e a conta administrativa inicial.
type Service struct {
	Store     *repository.Store
	Issuer    TokenIssuer
	Validator *validation.Validator
	logger    logger.Logger

	// Now é o relógio usado na emissão dos tokens.
	Now func() time.Time
	// HashCost é o custo do bcrypt; zero usa bcrypt.DefaultCost.
	HashCost int
}

// NewService cria o serviço de autenticação.
func NewService(store *repository.Store, issuer TokenIssuer, v *validation.Validator, log logger.Logger) *Service {
	return &Service{
		Store:     store,
		Issuer:    issuer,
		Validator: v,
		logger:    log,
		Now:       time.Now,
	}
}

// Login autentica pelo nome e senha e emite o token.
// Usuário inexistente e senha errada retornam o mesmo UnauthorizedError.
func (s *Service) Login(ctx context.Context, name, password string) (domain.LoginResponse, error) {
	// 1. Validação Básica
	if err := s.Validator.Struct(domain.LoginRequest{Name: name, Password: password}); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Nome e senha são obrigatórios.")
	}

	// 2. Buscar Usuário pelo Nome
	var user *domain.User
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		var found bool
		var err error
		user, found, err = userrepo.NewUserRepository(sess).FindByName(ctx, name)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return nil
	})
	if err != nil {
		s.countFailure(err)
		return domain.LoginResponse{}, err
	}

	// 3. Comparar Senhas (Hashing)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Senha incorreta no login.", map[string]interface{}{"user_id": user.ID})
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 4. Gerar JWT
	now := s.Now()
	tokenString, err := s.Issuer.Issue(user, now)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return domain.LoginResponse{}, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Usuário autenticado.", map[string]interface{}{"user_id": user.ID, "role": user.Role.String()})

	return domain.LoginResponse{Token: tokenString, ExpiresAt: token.ExpiresAt(now)}, nil
}

func (s *Service) countFailure(err error) {
	var unauthorized *apperror.UnauthorizedError
	if errors.As(err, &unauthorized) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
}

// Register cadastra um novo usuário. Nome duplicado resulta em ConstraintViolationError.
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (*domain.User, error) {
	// 1. Validação do payload
	if err := s.Validator.Struct(registration); err != nil {
		return nil, err
	}

	// 2. Hashing da Senha
	hashed, err := s.hash(registration.Password)
	if err != nil {
		return nil, err
	}

	// 3. Persistência
	user := &domain.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: hashed,
		Role:         registration.Role,
	}

	err = s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		_, err := userrepo.NewUserRepository(sess).Add(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Usuário cadastrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role.String()})
	return user, nil
}

// EnsureAdmin cria a conta Admin inicial se ainda não existir um usuário com esse nome.
// Nome vazio desativa o bootstrap. Retorna true quando a conta foi criada.
func (s *Service) EnsureAdmin(ctx context.Context, name, password string) (bool, error) {
	if name == "" {
		return false, nil
	}
	if len(password) < 8 {
		return false, apperror.NewConfigurationError("BOOTSTRAP_ADMIN_PASSWORD deve ter no mínimo 8 caracteres", nil)
	}

	created := false
	err := s.Store.WithSession(ctx, func(ctx context.Context, sess *repository.Session) error {
		users := userrepo.NewUserRepository(sess)

		existing, found, err := users.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if found {
			if existing.Role != domain.RoleAdmin {
				s.logger.Warn("Usuário de bootstrap existe sem papel Admin.", map[string]interface{}{"user_id": existing.ID})
			}
			return nil
		}

		hashed, err := s.hash(password)
		if err != nil {
			return err
		}
		if _, err := users.Add(ctx, &domain.User{Name: name, PasswordHash: hashed, Role: domain.RoleAdmin}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		s.logger.Info("Conta administrativa inicial criada.", map[string]interface{}{"name": name})
	}
	return created, nil
}

func (s *Service) hash(password string) (string, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return string(hashed), nil
}
