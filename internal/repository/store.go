// Package repository implementa o contrato domain.Repository sobre o bun.
//
// Toda operação acontece dentro de uma Session (uma transação por requisição).
// Add, Update e Delete ficam pendentes até Session.Commit; Store.WithSession é a
// forma preferida de uso, pois garante commit/rollback e liberação da conexão em
// qualquer caminho de saída.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
)

const defaultTimeout = 5 * time.Second

// Store é o ponto de entrada para o banco: possui o pool compartilhado e abre sessões.
type Store struct {
	DB        *bun.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStore cria o Store. dbTimeout <= 0 usa o padrão de 5s.
func NewStore(db *bun.DB, dbTimeout time.Duration, log logger.Logger) *Store {
	if dbTimeout <= 0 {
		dbTimeout = defaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{DB: db, DBTimeout: dbTimeout, logger: log}
}

// Begin abre uma nova sessão (transação). O chamador DEVE chamar Close,
// normalmente com defer, mesmo depois de Commit.
func (s *Store) Begin(ctx context.Context) (*Session, error) {
	select {
	case <-ctx.Done():
		return nil, Classify("iniciar sessão", ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		s.logger.Error("Falha ao iniciar transação.", err)
		return nil, Classify("iniciar sessão", err)
	}

	return &Session{tx: tx, timeout: s.DBTimeout, logger: s.logger}, nil
}

// WithSession executa fn dentro de uma sessão: commit se fn retornar nil,
// rollback se fn falhar ou entrar em pânico. A conexão é liberada sempre.
func (s *Store) WithSession(ctx context.Context, fn func(ctx context.Context, sess *Session) error) (err error) {
	sess, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sess.Close()
			panic(p)
		}
		if closeErr := sess.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = fn(ctx, sess); err != nil {
		return err
	}

	return sess.Commit()
}

// Ping verifica se o banco está acessível.
func (s *Store) Ping(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	if err := s.DB.PingContext(ctxTimeout); err != nil {
		return Classify("ping", err)
	}
	return nil
}

// Close fecha o pool de conexões.
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("falha ao fechar o banco: %w", err)
	}
	return nil
}

// Session representa uma unidade de trabalho: uma transação com escopo de requisição.
// Não é segura para uso concorrente.
type Session struct {
	tx      bun.Tx
	timeout time.Duration
	logger  logger.Logger
	done    bool
}

// IDB expõe a transação para repositórios especializados.
func (s *Session) IDB() bun.IDB {
	return s.tx
}

// Commit torna duráveis todas as mutações pendentes da sessão.
func (s *Session) Commit() error {
	if s.done {
		return apperror.NewInternalError("sessão já encerrada", sql.ErrTxDone)
	}
	s.done = true

	if err := s.tx.Commit(); err != nil {
		s.logger.Error("Falha ao efetivar transação.", err)
		return Classify("commit", err)
	}
	return nil
}

// Close descarta as mutações pendentes (rollback) se não houve Commit.
// Pode ser chamado mais de uma vez.
func (s *Session) Close() error {
	if s.done {
		return nil
	}
	s.done = true

	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		s.logger.Error("Falha ao desfazer transação.", err)
		return Classify("rollback", err)
	}
	return nil
}

// Closed informa se a sessão já foi efetivada ou descartada.
func (s *Session) Closed() bool {
	return s.done
}

// Prepare valida a sessão e aplica o timeout do banco ao contexto da operação.
// O chamador deve chamar cancel.
func (s *Session) Prepare(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if s.done {
		return nil, nil, apperror.NewInternalError("sessão já encerrada", sql.ErrTxDone)
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, s.timeout)
	return ctxTimeout, cancel, nil
}
