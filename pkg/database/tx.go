package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx passed to fn take part in that transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Conn returns the transaction bound to ctx, falling back to db.
func Conn(ctx context.Context, db Querier) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}

type pgTransactor struct {
	db          PgxIface
	lockTimeout time.Duration
	log         *zap.Logger
}

// NewTransactor returns a Transactor that bounds row lock waits with
// lockTimeout (SET LOCAL lock_timeout). Zero disables the bound.
func NewTransactor(db PgxIface, lockTimeout time.Duration, log *zap.Logger) Transactor {
	return &pgTransactor{
		db:          db,
		lockTimeout: lockTimeout,
		log:         log.With(zap.String("component", "transactor")),
	}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// nested call joins the outer transaction
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = t.rollback(ctx, tx)
			panic(p)
		}
		if err == nil {
			return
		}
		if rbErr := t.rollback(ctx, tx); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if t.lockTimeout > 0 {
		// SET does not take bind parameters; the value is an integer we format
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", t.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (t *pgTransactor) rollback(ctx context.Context, tx pgx.Tx) error {
	// the request ctx may already be done, rollback must still reach the server
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := tx.Rollback(rbCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		t.log.Error("Failed to rollback transaction", zap.Error(err))
		return err
	}
	return nil
}
