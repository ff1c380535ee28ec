package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"

	apperror "hospital/internal/errors"
	"hospital/internal/pkg/metrics"
)

// Classify converte uma falha do driver na taxonomia de erros da aplicação:
// StoreUnavailable (conectividade/timeout), ConstraintViolation (classe 23 do
// PostgreSQL ou "constraint failed" do SQLite) ou erro interno de banco.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case isUnavailable(err):
		metrics.StoreErrorsTotal.WithLabelValues("store_unavailable").Inc()
		return apperror.NewStoreUnavailableError(op, err)
	case isConstraintViolation(err):
		metrics.StoreErrorsTotal.WithLabelValues("constraint_violation").Inc()
		return apperror.NewConstraintViolationError(op, err)
	default:
		metrics.StoreErrorsTotal.WithLabelValues("internal").Inc()
		return apperror.NewDBError(op, err)
	}
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Classe 23: integrity_constraint_violation (unique, foreign key, not null, check)
		return pqErr.Code.Class() == "23"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed")
}
