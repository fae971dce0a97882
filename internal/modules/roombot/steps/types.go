package steps

import (
	"context"
	"time"

	"github.com/google/uuid"

	dataagg "github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type Messenger interface {
	Send(ctx context.Context, recipient string, msg messenger.Message) error
	SendText(ctx context.Context, recipient, text string) error
}

type StateStore interface {
	GetLatest(ctx context.Context, userID uuid.UUID) (*types.ConversationState, error)
	Append(ctx context.Context, userID uuid.UUID, upd conversation.Update) (*types.ConversationState, error)
	Transition(ctx context.Context, userID uuid.UUID, op string, fn func(tx *dataagg.StateTx) error) error
}

type RoomSearch interface {
	Query(ctx context.Context, c rooms.SearchConstraints) ([]types.Availability, error)
}

// Bookings runs the writes that must commit together with a state change.
type Bookings interface {
	Confirm(ctx context.Context, userID uuid.UUID, sentDate time.Time) (*dataagg.Confirmation, error)
	ReportIssue(ctx context.Context, userID uuid.UUID, kind domainfeedback.Kind, text string) (*types.Feedback, error)
}

// BookingMetrics counts bookings as soon as they commit.
type BookingMetrics interface {
	IncBookingCreated()
}

// Deps are shared by every step.
type Deps struct {
	Log       *logger.Logger
	Messenger Messenger
	States    StateStore
	Search    RoomSearch
	Bookings  Bookings
	Clock     clock.Clock
	Metrics   BookingMetrics

	// HelpCards are shown by the help step, in order.
	HelpCards []messenger.Element
}

// Request identifies who an action is handled for.
type Request struct {
	UserID uuid.UUID
	// Recipient is the Messenger page-scoped id replies go to.
	Recipient string
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock.Now().UTC()
}
