package roombot

import (
	"context"

	dataagg "github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/steps"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Messenger steps.Messenger
	States    *dataagg.ConversationStore
	Bookings  *dataagg.BookingAggregate
	Search    repos.RoomSearchRepo
	Clock     clock.Clock
	Metrics   steps.BookingMetrics

	HelpCards []messenger.Element
}

// Usecases binds the workflow steps to their collaborators.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) stepDeps() steps.Deps {
	d := steps.Deps{
		Log:       u.deps.Log.With("module", "roombot"),
		Messenger: u.deps.Messenger,
		Search:    u.deps.Search,
		Clock:     u.deps.Clock,
		Metrics:   u.deps.Metrics,
		HelpCards: u.deps.HelpCards,
	}
	// Typed nils must not leak into the interfaces.
	if u.deps.States != nil {
		d.States = u.deps.States
	}
	if u.deps.Bookings != nil {
		d.Bookings = u.deps.Bookings
	}
	return d
}

// Routes maps every action kind onto its step.
func (u Usecases) Routes() map[actions.Kind]Handler {
	return routesFor(u.stepDeps())
}

func routesFor(d steps.Deps) map[actions.Kind]Handler {
	return map[actions.Kind]Handler{
		actions.KindIgnore: func(context.Context, steps.Request, actions.Action) error { return nil },
		actions.KindRetry: plain(func(ctx context.Context, req steps.Request) error {
			return steps.Retry(ctx, d, req)
		}),
		actions.KindUnknownEvent:    unknown(d),
		actions.KindUnknownMessage:  unknown(d),
		actions.KindUnknownPostback: unknown(d),

		actions.KindStart: plain(func(ctx context.Context, req steps.Request) error {
			return steps.Start(ctx, d, req)
		}),
		actions.KindHelp: plain(func(ctx context.Context, req steps.Request) error {
			return steps.Help(ctx, d, req)
		}),

		actions.KindIssueRoom: plain(func(ctx context.Context, req steps.Request) error {
			return steps.AskIssue(ctx, d, req, domainfeedback.KindRoom)
		}),
		actions.KindIssueOther: plain(func(ctx context.Context, req steps.Request) error {
			return steps.AskIssue(ctx, d, req, domainfeedback.KindOther)
		}),
		actions.KindIssueDescribed: typed(func(ctx context.Context, req steps.Request, a actions.IssueDescribed) error {
			return steps.IssueDescribed(ctx, d, req, a)
		}),

		actions.KindRoomRandom: plain(func(ctx context.Context, req steps.Request) error {
			return steps.RoomRandom(ctx, d, req)
		}),
		actions.KindChooseRoom1: plain(func(ctx context.Context, req steps.Request) error {
			return steps.ChooseRoom1(ctx, d, req)
		}),
		actions.KindChooseRoom2: typed(func(ctx context.Context, req steps.Request, a actions.ChooseRoom2) error {
			return steps.ChooseRoom2(ctx, d, req, a)
		}),
		actions.KindChooseRoom3: typed(func(ctx context.Context, req steps.Request, a actions.ChooseRoom3) error {
			return steps.ChooseRoom3(ctx, d, req, a)
		}),
		actions.KindChooseRoom4: typed(func(ctx context.Context, req steps.Request, a actions.ChooseRoom4) error {
			return steps.ChooseRoom4(ctx, d, req, a)
		}),
		actions.KindChooseRoom5: typed(func(ctx context.Context, req steps.Request, a actions.ChooseRoom5) error {
			return steps.ChooseRoom5(ctx, d, req, a)
		}),
		actions.KindBookingConfirmation: typed(func(ctx context.Context, req steps.Request, a actions.BookingConfirmation) error {
			return steps.BookingConfirmation(ctx, d, req, a)
		}),
	}
}

func unknown(d steps.Deps) Handler {
	return func(ctx context.Context, req steps.Request, a actions.Action) error {
		return steps.Unknown(ctx, d, req, a)
	}
}
