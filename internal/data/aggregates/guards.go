package aggregates

import (
	"strings"
	"time"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

// StagedOffer is the room a pending-booking snapshot holds.
type StagedOffer struct {
	Info     types.Availability
	StagedAt time.Time
}

// RequirePendingOffer fails with illegal_state unless state is a pending
// booking carrying a room and the instant it was staged at.
func RequirePendingOffer(op string, state *types.ConversationState) (*StagedOffer, error) {
	if state == nil || state.Phase != conversation.PhasePendingBooking {
		return nil, domainagg.NewError(domainagg.CodeIllegalState, op, "no booking is pending", nil)
	}
	data, err := state.Decode()
	if err != nil {
		return nil, err
	}
	if data.Info == nil || strings.TrimSpace(data.SearchedAt) == "" {
		return nil, domainagg.NewError(domainagg.CodeIllegalState, op, "pending booking has no staged room", nil)
	}
	stagedAt, err := clock.ParseISO(data.SearchedAt)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeIllegalState, op, "staged offer has no valid search time", err)
	}
	return &StagedOffer{Info: *data.Info, StagedAt: stagedAt}, nil
}

// RequireSameOffer fails with stale_confirmation when sentDate is not the
// instant the offer was staged at, compared to the millisecond.
func RequireSameOffer(op string, offer *StagedOffer, sentDate time.Time) error {
	if offer == nil || !clock.Equal(offer.StagedAt, sentDate) {
		return domainagg.NewError(domainagg.CodeStaleConfirmation, op, "confirmation is for a different offer", nil)
	}
	return nil
}
