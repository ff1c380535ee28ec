// Package repotest fornece um Store sobre SQLite em memória para os testes
// dos repositórios e serviços.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"hospital/internal/pkg/logger"
	"hospital/internal/repository"
)

// Schema espelha as migrações em sql/, no dialeto do SQLite.
var Schema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		email TEXT,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL
	)`,
	`CREATE TABLE appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER NOT NULL,
		doctor_id INTEGER NOT NULL,
		scheduled_at TIMESTAMP NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		app_id INTEGER NOT NULL,
		price INTEGER NOT NULL,
		payment_method TEXT NOT NULL
	)`,
}

// NewDB abre um banco SQLite em memória isolado, com o schema aplicado.
// É fechado automaticamente ao fim do teste.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// Uma única conexão: o banco em memória vive enquanto ela estiver aberta.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	for _, ddl := range Schema {
		_, err := db.ExecContext(context.Background(), ddl)
		require.NoError(t, err)
	}

	return db
}

// NewStore devolve um Store pronto sobre NewDB.
func NewStore(t testing.TB) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t), 5*time.Second, logger.NewNop())
}
