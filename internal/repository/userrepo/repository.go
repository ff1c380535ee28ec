package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hospital/internal/domain"
	"hospital/internal/pkg/metrics"
	"hospital/internal/repository"
)

// UserRepository implementa domain.UserLookup: o CRUD genérico mais a busca por nome.
type UserRepository struct {
	*repository.BunRepository[*domain.User]
}

// NewUserRepository cria o repositório de usuários vinculado à sessão.
func NewUserRepository(sess *repository.Session) *UserRepository {
	return &UserRepository{
		BunRepository: repository.New(sess, func() *domain.User { return new(domain.User) }),
	}
}

var _ domain.UserLookup = (*UserRepository)(nil)

// FindByName busca um usuário pelo nome exato (sensível a maiúsculas).
// Retorna (nil, false, nil) quando não existe.
func (r *UserRepository) FindByName(ctx context.Context, name string) (*domain.User, bool, error) {
	defer metrics.ObserveStoreOperation(r.Entity(), "find_by_name", time.Now())

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return nil, false, err
	}
	defer cancel()

	// 2. Executa a busca
	user := new(domain.User)
	err = r.Sess.IDB().NewSelect().
		Model(user).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctxTimeout)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, repository.Classify("buscar usuário por nome", err)
	}

	return user, true, nil
}
