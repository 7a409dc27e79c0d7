package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const maxTxAttempts = 3

type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	ReadOnly       bool
}

func DefaultTxOptions() TxOptions {
	return TxOptions{IsolationLevel: sql.LevelReadCommitted}
}

// WithTransaction runs fn inside a transaction, committing if it returns nil
// and rolling back otherwise. Serialization failures and deadlocks are retried
// up to maxTxAttempts times, so fn must not have side effects outside tx.
func WithTransaction(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = runTransaction(ctx, db, opts, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func runTransaction(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
		ReadOnly:  opts.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
