package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UnitOfWork runs fn as one all-or-nothing unit. Repositories called with the
// ctx passed to fn take part in the same transaction via Conn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type scope struct {
	tx          pgx.Tx
	afterCommit []func(context.Context)
}

func scopeFrom(ctx context.Context) *scope {
	s, _ := ctx.Value(txKey{}).(*scope)
	return s
}

// Conn returns the transaction bound to ctx, or pool when there is none.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if s := scopeFrom(ctx); s != nil && s.tx != nil {
		return s.tx
	}
	return pool
}

// InTx reports whether ctx belongs to a unit of work.
func InTx(ctx context.Context) bool {
	return scopeFrom(ctx) != nil
}

// AfterCommit registers fn to run once the surrounding unit of work commits.
// Outside a unit of work fn runs immediately. Hooks are dropped on rollback.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if s := scopeFrom(ctx); s != nil {
		s.afterCommit = append(s.afterCommit, fn)
		return
	}
	fn(ctx)
}

func runHooks(ctx context.Context, s *scope) {
	for _, fn := range s.afterCommit {
		fn(ctx)
	}
}

// TxManager is the pgx-backed UnitOfWork.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// Do begins a transaction, runs fn and commits. A nested Do joins the outer
// transaction.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s := &scope{tx: tx}
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	runHooks(ctx, s)
	return nil
}

// NoTx is a UnitOfWork without a database. It keeps the after-commit
// semantics so callers behave the same with in-memory stores.
type NoTx struct{}

// Do runs fn and fires after-commit hooks when fn succeeds.
func (NoTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTx(ctx) {
		return fn(ctx)
	}
	s := &scope{}
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	runHooks(ctx, s)
	return nil
}
