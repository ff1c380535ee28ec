package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/metrics"
)

// BunRepository implementa domain.Repository[T] para qualquer modelo bun.
// Está vinculado à sessão que o criou: todas as operações usam a mesma transação.
type BunRepository[T domain.Entity] struct {
	Sess      *Session
	newRecord func() T
	entity    string
}

// New cria um repositório para T. newRecord deve devolver um ponteiro novo e
// vazio do modelo (e.g. func() *domain.User { return new(domain.User) }).
func New[T domain.Entity](sess *Session, newRecord func() T) *BunRepository[T] {
	return &BunRepository[T]{
		Sess:      sess,
		newRecord: newRecord,
		entity:    strings.TrimPrefix(fmt.Sprintf("%T", newRecord()), "*"),
	}
}

// Entity devolve o nome do tipo usado em logs e métricas.
func (r *BunRepository[T]) Entity() string {
	return r.entity
}

func (r *BunRepository[T]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	defer metrics.ObserveStoreOperation(r.entity, "get_by_id", time.Now())
	var zero T

	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return zero, false, err
	}
	defer cancel()

	rec := r.newRecord()
	err = r.Sess.IDB().NewSelect().
		Model(rec).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctxTimeout)

	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, Classify(fmt.Sprintf("buscar %s por id", r.entity), err)
	}

	return rec, true, nil
}

func (r *BunRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	defer metrics.ObserveStoreOperation(r.entity, "get_all", time.Now())
	return r.selectWhere(ctx, "", nil)
}

// Filter materializa a tabela e aplica pred em memória, preservando a ordem por id.
// Para consultas grandes prefira um método especializado com filtro no banco
// (e.g. InvoiceRepository.FindByAppointment).
func (r *BunRepository[T]) Filter(ctx context.Context, pred domain.Predicate[T]) ([]T, error) {
	defer metrics.ObserveStoreOperation(r.entity, "filter", time.Now())

	all, err := r.selectWhere(ctx, "", nil)
	if err != nil || pred == nil {
		return all, err
	}

	out := make([]T, 0, len(all))
	for _, e := range all {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SelectWhere é usado pelos repositórios especializados para filtros executados no banco.
func (r *BunRepository[T]) SelectWhere(ctx context.Context, op, query string, args ...interface{}) ([]T, error) {
	defer metrics.ObserveStoreOperation(r.entity, op, time.Now())
	return r.selectWhere(ctx, query, args)
}

func (r *BunRepository[T]) selectWhere(ctx context.Context, query string, args []interface{}) ([]T, error) {
	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var rows []T
	q := r.Sess.IDB().NewSelect().Model(&rows).OrderExpr("?TableAlias.id ASC")
	if query != "" {
		q = q.Where(query, args...)
	}

	if err := q.Scan(ctxTimeout); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, Classify(fmt.Sprintf("listar %s", r.entity), err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Add insere a entidade. O ID atribuído pelo banco é preenchido no próprio
// ponteiro e fica visível na sessão; só é durável após o Commit.
func (r *BunRepository[T]) Add(ctx context.Context, entity T) (T, error) {
	defer metrics.ObserveStoreOperation(r.entity, "add", time.Now())

	if entity.GetID() != 0 {
		return entity, apperror.NewValidationError(fmt.Sprintf("%s: o ID é atribuído pelo banco e deve estar vazio", r.entity))
	}

	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return entity, err
	}
	defer cancel()

	if _, err := r.Sess.IDB().NewInsert().Model(entity).Exec(ctxTimeout); err != nil {
		return entity, Classify(fmt.Sprintf("inserir %s", r.entity), err)
	}

	r.Sess.logger.Debug("Registro inserido na sessão.", map[string]interface{}{
		"entity": r.entity,
		"id":     entity.GetID(),
	})
	return entity, nil
}

// Update substitui todas as colunas do registro com o mesmo ID.
// Retorna NotFoundError se o registro não existir.
func (r *BunRepository[T]) Update(ctx context.Context, entity T) error {
	defer metrics.ObserveStoreOperation(r.entity, "update", time.Now())

	if entity.GetID() == 0 {
		return apperror.NewValidationError(fmt.Sprintf("%s: ID obrigatório para atualização", r.entity))
	}

	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res, err := r.Sess.IDB().NewUpdate().Model(entity).WherePK().Exec(ctxTimeout)
	if err != nil {
		return Classify(fmt.Sprintf("atualizar %s", r.entity), err)
	}

	return r.expectOneRow(res, entity.GetID())
}

// Delete remove o registro com o mesmo ID.
// Retorna NotFoundError se o registro não existir.
func (r *BunRepository[T]) Delete(ctx context.Context, entity T) error {
	defer metrics.ObserveStoreOperation(r.entity, "delete", time.Now())

	if entity.GetID() == 0 {
		return apperror.NewValidationError(fmt.Sprintf("%s: ID obrigatório para remoção", r.entity))
	}

	ctxTimeout, cancel, err := r.Sess.Prepare(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	res, err := r.Sess.IDB().NewDelete().Model(entity).WherePK().Exec(ctxTimeout)
	if err != nil {
		return Classify(fmt.Sprintf("remover %s", r.entity), err)
	}

	return r.expectOneRow(res, entity.GetID())
}

func (r *BunRepository[T]) expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return Classify(fmt.Sprintf("%s: linhas afetadas", r.entity), err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("%s com ID %d", r.entity, id))
	}
	return nil
}
