package xcontext

import (
	"context"

	"gorm.io/gorm"
)

// txState is carried by pointer so WithCommitDBTransaction and
// WithRollbackDBTransaction observe the same state no matter how the context
// was further derived.
type txState struct {
	current  *gorm.DB
	finished bool
}

func dbTransaction(ctx context.Context) *txState {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return nil
	}

	return tx
}

// WithDBTransaction begins a database transaction and returns a context whose
// DB() resolves to it. Nested calls reuse the outer transaction.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx := dbTransaction(ctx); tx != nil && tx.current != nil {
		return ctx
	}

	return context.WithValue(ctx, txKey{}, &txState{current: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction if any. It is a
// no-op for a context without one or whose transaction already finished.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	tx := dbTransaction(ctx)
	if tx == nil || tx.current == nil || tx.finished {
		return ctx
	}

	tx.current.Commit()
	tx.finished = true
	tx.current = nil
	return ctx
}

// WithRollbackDBTransaction rolls back the current transaction if it was not
// committed. Intended to be deferred right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	tx := dbTransaction(ctx)
	if tx == nil || tx.current == nil || tx.finished {
		return ctx
	}

	tx.current.Rollback()
	tx.finished = true
	tx.current = nil
	return ctx
}
