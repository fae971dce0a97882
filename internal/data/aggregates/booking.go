package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	feedbackrepo "github.com/yungbote/roomfinder-backend/internal/data/repos/feedback"
	roomrepo "github.com/yungbote/roomfinder-backend/internal/data/repos/rooms"
)

// Confirmation is a booking committed from a staged offer.
type Confirmation struct {
	Booking *types.UserBooking
	Info    types.Availability
}

// BookingAggregate owns the writes that touch more than the state log.
type BookingAggregate struct {
	deps     BaseDeps
	store    *ConversationStore
	bookings roomrepo.UserBookingRepo
	feedback feedbackrepo.FeedbackRepo
	campus   *time.Location
}

type BookingAggregateDeps struct {
	Base     BaseDeps
	Store    *ConversationStore
	Bookings roomrepo.UserBookingRepo
	Feedback feedbackrepo.FeedbackRepo
	// Campus is the zone staged open times are expressed in.
	Campus *time.Location
}

func NewBookingAggregate(deps BookingAggregateDeps) *BookingAggregate {
	base := deps.Base.withDefaults()
	store := deps.Store
	if store == nil {
		store = NewConversationStore(ConversationStoreDeps{Base: base})
	}
	bookings := deps.Bookings
	if bookings == nil {
		bookings = roomrepo.NewUserBookingRepo(base.DB, base.Log)
	}
	fb := deps.Feedback
	if fb == nil {
		fb = feedbackrepo.NewFeedbackRepo(base.DB, base.Log)
	}
	campus := deps.Campus
	if campus == nil {
		campus = time.UTC
	}
	return &BookingAggregate{deps: base, store: store, bookings: bookings, feedback: fb, campus: campus}
}

// Confirm books the staged room when sentDate matches the instant the offer
// was staged at, then resets the conversation. A confirmation for anything
// but the current offer changes nothing.
func (a *BookingAggregate) Confirm(ctx context.Context, userID uuid.UUID, sentDate time.Time) (*Confirmation, error) {
	const op = "booking.confirm"
	var out *Confirmation
	err := a.store.Transition(ctx, userID, op, func(tx *StateTx) error {
		offer, err := RequirePendingOffer(op, tx.Latest)
		if err != nil {
			return err
		}
		if err := RequireSameOffer(op, offer, sentDate); err != nil {
			return err
		}

		start, end, err := offer.Info.Slot(offer.StagedAt, a.campus)
		if err != nil {
			return domainagg.NewError(domainagg.CodeIllegalState, op, "staged room has an invalid open time", err)
		}
		booking := &types.UserBooking{
			RoomID:    offer.Info.RoomID,
			UserID:    userID,
			StartTime: start,
			EndTime:   end,
			CreatedAt: a.deps.Clock.Now(),
		}
		if err := a.bookings.Create(tx.DBC, booking); err != nil {
			return err
		}
		if _, err := tx.Append(conversation.Reset()); err != nil {
			return err
		}
		out = &Confirmation{Booking: booking, Info: offer.Info}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReportIssue records feedback and clears the follow-up. Room issues point
// at the room of the user's latest booking, when there is one.
func (a *BookingAggregate) ReportIssue(ctx context.Context, userID uuid.UUID, kind domainfeedback.Kind, text string) (*types.Feedback, error) {
	var out *types.Feedback
	err := a.store.Transition(ctx, userID, "feedback.report", func(tx *StateTx) error {
		row := &types.Feedback{
			UserID:      userID,
			Kind:        kind,
			Description: strings.TrimSpace(text),
			StartTime:   a.deps.Clock.Now(),
		}
		if kind == domainfeedback.KindRoom {
			latest, err := a.bookings.LatestForUser(tx.DBC, userID)
			if err != nil {
				return err
			}
			if latest != nil {
				roomID := latest.RoomID
				row.RoomID = &roomID
			}
		}
		if err := a.feedback.Create(tx.DBC, row); err != nil {
			return err
		}
		if _, err := tx.Append(conversation.Set(map[string]any{conversation.KeyFollowUp: nil})); err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
