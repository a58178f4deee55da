package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/beforetheshoes/traveling-snails/internal/logger"
)

// WriteTx is the isolated write context handed to a background mutation. It
// wraps a transaction on the shared database handle: once the transaction
// commits, the written state is visible to every reader of that handle.
type WriteTx struct {
	tx *sql.Tx
}

// ExecContext runs a statement inside the write transaction.
func (w *WriteTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return w.tx.ExecContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query inside the write transaction.
func (w *WriteTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return w.tx.QueryRowContext(ctx, query, args...)
}

// BackgroundWriter runs caller-supplied mutations against an isolated write
// transaction off the caller's goroutine. The caller resumes only when the
// result is available; it never blocks on I/O itself, so it is safe to invoke
// from the interactive path.
//
// The writer applies no retry policy of its own. Commit failures, including
// constraint violations, come back as classified errors and the caller
// decides whether to retry.
type BackgroundWriter struct {
	db     *DB
	logger *logger.Logger
}

func NewBackgroundWriter(db *DB, logger *logger.Logger) *BackgroundWriter {
	return &BackgroundWriter{db: db, logger: logger}
}

// PerformBackgroundSave opens a write transaction, invokes mutate exactly
// once with it on a background goroutine, then commits. A mutate error or a
// commit failure rolls the transaction back and is returned to the caller;
// constraint violations map to [ErrConstraintViolation].
//
// label identifies the mutation in logs.
func (w *BackgroundWriter) PerformBackgroundSave(ctx context.Context, label string, mutate func(tx *WriteTx) error) error {
	done := make(chan error, 1)

	go func() {
		done <- w.runSave(ctx, label, mutate)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The goroutine keeps running to completion; the transaction itself
		// observes ctx and aborts on its own.
		return fmt.Errorf("background save %q: %w", label, ctx.Err())
	}
}

func (w *BackgroundWriter) runSave(ctx context.Context, label string, mutate func(tx *WriteTx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		w.logger.Err(err).Str("label", label).Msg("background save: begin failed")
		return fmt.Errorf("background save %q begin: %w", label, err)
	}

	if err = mutate(&WriteTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			w.logger.Err(rbErr).Str("label", label).Msg("background save: rollback failed")
		}
		return fmt.Errorf("background save %q: %w", label, mapSQLiteError(err))
	}

	if err = tx.Commit(); err != nil {
		w.logger.Err(err).Str("label", label).Msg("background save: commit failed")
		return fmt.Errorf("background save %q commit: %w", label, mapSQLiteError(err))
	}

	w.logger.Debug().Str("label", label).Msg("background save committed")
	return nil
}

// BackgroundSaveResult is the generic variant of
// [BackgroundWriter.PerformBackgroundSave] for mutations that produce a
// value. The mutation runs exactly once; on failure the zero value of T is
// returned alongside the error.
func BackgroundSaveResult[T any](ctx context.Context, w *BackgroundWriter, label string, mutate func(tx *WriteTx) (T, error)) (T, error) {
	var out T
	err := w.PerformBackgroundSave(ctx, label, func(tx *WriteTx) error {
		v, err := mutate(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
