package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/upb/spaces-control-plane/repositories"
)

// TransactionManager begins transactions on the main database
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// Begin starts a transaction with the given options
func (tm *TransactionManager) Begin(ctx context.Context, opts repositories.TxOptions) (repositories.Transaction, error) {
	sqlOpts := txOptions(opts)
	sqlTx, err := tm.db.BeginTx(ctx, sqlOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tm.logger.Debug("transaction started",
		zap.Stringer("isolation", sqlOpts.Isolation),
		zap.Bool("read_only", sqlOpts.ReadOnly))

	return &Transaction{tx: sqlTx, logger: tm.logger}, nil
}

// txOptions translates repository options into database/sql options
func txOptions(opts repositories.TxOptions) *sql.TxOptions {
	level := sql.LevelDefault
	if opts.Serializable {
		level = sql.LevelSerializable
	}
	return &sql.TxOptions{Isolation: level, ReadOnly: opts.ReadOnly}
}

// Transaction wraps a *sql.Tx. Repositories bound to it with WithTx run
// their statements inside it.
type Transaction struct {
	tx     *sql.Tx
	logger *zap.Logger
}

// Commit commits the transaction
func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.logger.Debug("transaction committed")
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction
// is a no-op.
func (t *Transaction) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	t.logger.Debug("transaction rolled back")
	return nil
}

// Executor runs statements on either the pool or a transaction
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the transaction a repository is bound to, or the pool
// when it is not bound to one.
func GetExecutor(db *DB, tx *Transaction) Executor {
	if tx != nil {
		return tx.tx
	}
	return db.DB
}

// asTransaction unwraps a repositories.Transaction created by this package.
// Transactions from elsewhere yield nil, so the repository falls back to the pool.
func asTransaction(tx repositories.Transaction) *Transaction {
	pgTx, _ := tx.(*Transaction)
	return pgTx
}
