package roombot

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/steps"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// ErrUnroutable means an action reached the dispatcher with no handler for
// its kind.
var ErrUnroutable = errors.New("roombot: no route for action")

type Handler func(ctx context.Context, req steps.Request, a actions.Action) error

// Dispatcher routes actions to their handlers. The table is fixed at
// construction.
type Dispatcher struct {
	log    *logger.Logger
	routes map[actions.Kind]Handler
}

func NewDispatcher(log *logger.Logger, routes map[actions.Kind]Handler) *Dispatcher {
	table := make(map[actions.Kind]Handler, len(routes))
	for k, h := range routes {
		if h != nil {
			table[k] = h
		}
	}
	return &Dispatcher{log: log.With("service", "ActionDispatcher"), routes: table}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req steps.Request, a actions.Action) error {
	if a == nil {
		d.log.Error("Nil action dispatched", "user_id", req.UserID)
		return fmt.Errorf("%w: nil action", ErrUnroutable)
	}
	h, ok := d.routes[a.Kind()]
	if !ok {
		d.log.Error("No route for action", "action", a.Kind(), "user_id", req.UserID)
		return fmt.Errorf("%w: %s", ErrUnroutable, a.Kind())
	}
	return h(ctx, req, a)
}

// Kinds lists the routed kinds in sorted order.
func (d *Dispatcher) Kinds() []actions.Kind {
	out := make([]actions.Kind, 0, len(d.routes))
	for k := range d.routes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// typed adapts a handler taking a concrete action. An action of another
// type is a routing bug and reported as unroutable.
func typed[A actions.Action](fn func(ctx context.Context, req steps.Request, a A) error) Handler {
	return func(ctx context.Context, req steps.Request, a actions.Action) error {
		concrete, ok := a.(A)
		if !ok {
			return fmt.Errorf("%w: %s routed to handler for %T", ErrUnroutable, a.Kind(), *new(A))
		}
		return fn(ctx, req, concrete)
	}
}

// plain adapts a handler that needs no action data.
func plain(fn func(ctx context.Context, req steps.Request) error) Handler {
	return func(ctx context.Context, req steps.Request, _ actions.Action) error {
		return fn(ctx, req)
	}
}
