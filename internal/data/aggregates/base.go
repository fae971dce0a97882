package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/userlock"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Locker userlock.Locker
	Hooks  Hooks
	Clock  clock.Clock
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Locker == nil {
		d.Locker = userlock.NewLocalLocker()
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Clock == nil {
		d.Clock = clock.System()
	}
	return d
}

// executeWrite runs fn inside the exclusive section for lockKey and one
// transaction, then maps and reports the outcome.
func executeWrite(ctx context.Context, deps BaseDeps, op, lockKey string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	err := LockedTxRunner{Locker: deps.Locker, Runner: deps.Runner}.InLockedTx(ctx, lockKey, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
