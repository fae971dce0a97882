package roombot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/steps"
	"github.com/yungbote/roomfinder-backend/internal/platform/ctxutil"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// EventMetrics receives one observation per processed event.
type EventMetrics interface {
	ObserveEvent(eventKind, action, result string, took time.Duration)
	IncGuardFailure(code string)
}

const (
	ResultOK    = "ok"
	ResultError = "error"

	maxConcurrentEvents = 8
)

// Outcome is what happened to one event.
type Outcome struct {
	Sender string
	Kind   messenger.EventKind
	Action actions.Kind
	Err    error
}

type ProcessorDeps struct {
	Log        *logger.Logger
	Users      repos.BotUserRepo
	States     steps.StateStore
	Classifier *actions.Classifier
	Dispatcher *Dispatcher
	Metrics    EventMetrics
}

// Processor runs each event of a webhook delivery through classification
// and dispatch. Events are independent: one failing never affects another.
type Processor struct {
	deps ProcessorDeps
	log  *logger.Logger
}

func NewProcessor(deps ProcessorDeps) *Processor {
	return &Processor{deps: deps, log: deps.Log.With("service", "EventProcessor")}
}

// Process handles events concurrently and returns their outcomes in input
// order once all are done.
func (p *Processor) Process(ctx context.Context, events []messenger.Event) []Outcome {
	out := make([]Outcome, len(events))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEvents)
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			res := p.handle(gctx, i, ev)
			mu.Lock()
			out[i] = res
			mu.Unlock()
			// Failures stay in the outcome so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	p.log.Info("Webhook delivery processed", "events", len(events), "failed", failed)
	return out
}

func (p *Processor) handle(ctx context.Context, index int, ev messenger.Event) (out Outcome) {
	ctx = ctxutil.WithEventData(ctx, &ctxutil.EventData{Sender: ev.Sender, Index: index, Kind: string(ev.Kind)})
	ctx, span := otel.Tracer("roombot").Start(ctx, "roombot.event")
	defer span.End()
	span.SetAttributes(attribute.String("messenger.event_kind", string(ev.Kind)))

	start := time.Now()
	out = Outcome{Sender: ev.Sender, Kind: ev.Kind}
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("panic handling event: %v", r)
		}
		p.finish(ctx, span, out, time.Since(start))
	}()

	var userID uuid.UUID
	followUp := actions.FollowUpNone
	if ev.Kind == messenger.EventMessage {
		id, fu, err := p.followUp(ctx, ev.Sender)
		if err != nil {
			out.Err = err
			return out
		}
		userID, followUp = id, fu
	}

	a, err := p.deps.Classifier.Classify(ctx, ev, followUp)
	if err != nil {
		p.log.Warn("Classification failed, asking to retry", "sender_id", ev.Sender, "follow_up", followUp, "error", err)
		a = actions.Retry{Cause: err}
	}
	out.Action = a.Kind()
	span.SetAttributes(attribute.String("roombot.action", string(a.Kind())))

	if a.Kind() != actions.KindIgnore && userID == uuid.Nil {
		user, err := p.resolveUser(ctx, ev.Sender)
		if err != nil {
			out.Err = err
			return out
		}
		userID = user
	}

	out.Err = p.deps.Dispatcher.Dispatch(ctx, steps.Request{UserID: userID, Recipient: ev.Sender}, a)
	return out
}

func (p *Processor) resolveUser(ctx context.Context, sender string) (uuid.UUID, error) {
	if strings.TrimSpace(sender) == "" {
		return uuid.Nil, domainagg.NewError(domainagg.CodeValidation, "roombot.resolve_user", "event has no sender", nil)
	}
	user, err := p.deps.Users.GetOrCreate(dbctx.Context{Ctx: ctx}, sender)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve bot user: %w", err)
	}
	return user.ID, nil
}

func (p *Processor) followUp(ctx context.Context, sender string) (uuid.UUID, actions.FollowUp, error) {
	userID, err := p.resolveUser(ctx, sender)
	if err != nil {
		return uuid.Nil, actions.FollowUpNone, err
	}
	state, err := p.deps.States.GetLatest(ctx, userID)
	if err != nil {
		return uuid.Nil, actions.FollowUpNone, fmt.Errorf("load state: %w", err)
	}
	data, err := state.Decode()
	if err != nil {
		return uuid.Nil, actions.FollowUpNone, err
	}
	return userID, actions.FollowUpOf(data.FollowUp), nil
}

func (p *Processor) finish(ctx context.Context, span trace.Span, out Outcome, took time.Duration) {
	result := ResultOK
	if out.Err != nil {
		result = ResultError
		code := domainagg.CodeOf(out.Err)
		if code != "" {
			result = string(code)
		}
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, result)

		kv := append(ctxutil.LogFields(ctx),
			"action", out.Action,
			"duration_ms", took.Milliseconds(),
			"error", out.Err,
		)
		switch {
		case code == domainagg.CodeIllegalState || code == domainagg.CodeStaleConfirmation:
			if p.deps.Metrics != nil {
				p.deps.Metrics.IncGuardFailure(string(code))
			}
			p.log.Warn("Booking guard rejected event", kv...)
		case domainagg.UserFacing(code):
			p.log.Warn("Event rejected", kv...)
		case errors.Is(out.Err, ErrUnroutable):
			p.log.Error("Event could not be routed", kv...)
		default:
			p.log.Error("Event handling failed", kv...)
		}
	} else {
		p.log.Debug("Event handled", "sender_id", out.Sender, "action", out.Action, "duration_ms", took.Milliseconds())
	}
	if p.deps.Metrics != nil {
		p.deps.Metrics.ObserveEvent(string(out.Kind), string(out.Action), result, took)
	}
}
