package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKeyType struct{}

var txKey txKeyType

// TransactionManager groups store calls into one transaction carried
// through the context. The fetch writeback depends on it: the cursor
// advance, the content rows and the draft enqueue commit or roll back as
// a unit, so a failed publish leaves the source due for redelivery.
type TransactionManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn inside a transaction; stores invoked with the
// derived context pick it up via GetExecutor. fn's error aborts the
// transaction and is returned unchanged.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := tm.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetExecutor returns the transaction carried by ctx, or the plain
// connection when the call is not transactional.
func GetExecutor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
