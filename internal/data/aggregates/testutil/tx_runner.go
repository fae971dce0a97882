package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
)

// InjectedTxRunner is a TxRunner with failure injection. With DB set the
// body runs in a real transaction that is rolled back on any injected or
// body failure; without it the body runs with no transaction at all.
type InjectedTxRunner struct {
	DB *gorm.DB

	mu sync.Mutex

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}

	var tx *gorm.DB
	if r.DB != nil {
		tx = r.DB.WithContext(ctx).Begin()
		if tx.Error != nil {
			return tx.Error
		}
	}
	rollback := func(err error) error {
		if tx != nil {
			_ = tx.Rollback().Error
		}
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		return err
	}

	if failBeforeBody != nil {
		return rollback(failBeforeBody)
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			return rollback(err)
		}
	}
	if failCommit != nil {
		return rollback(failCommit)
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return rollback(err)
		}
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}
