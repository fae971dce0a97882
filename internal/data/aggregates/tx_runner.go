package aggregates

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/userlock"
)

// TxRunner opens the database transaction a write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "store.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// LockedTxRunner runs a user's writes one at a time: the exclusive section
// for the key is entered before the transaction opens and left only after it
// has committed or rolled back.
type LockedTxRunner struct {
	Locker userlock.Locker
	Runner TxRunner
}

func (r LockedTxRunner) InLockedTx(ctx context.Context, key string, fn func(dbc dbctx.Context) error) error {
	if r.Runner == nil {
		return domainagg.NewError(domainagg.CodeInternal, "store.tx", "locked runner has no transaction runner", nil)
	}
	if r.Locker == nil {
		return r.Runner.InTx(ctx, fn)
	}
	release, err := r.Locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	defer release()
	return r.Runner.InTx(ctx, fn)
}
