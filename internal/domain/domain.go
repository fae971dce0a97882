package domain

import (
	"github.com/yungbote/roomfinder-backend/internal/domain/bot"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
)

type BotUser = bot.BotUser

type ConversationState = conversation.ConversationState
type Phase = conversation.Phase

const (
	PhaseInitial        = conversation.PhaseInitial
	PhasePendingBooking = conversation.PhasePendingBooking
)

type Room = rooms.Room
type ClassBooking = rooms.ClassBooking
type UserBooking = rooms.UserBooking
type Availability = rooms.Availability

type Feedback = feedback.Feedback
type FeedbackKind = feedback.Kind

// Models lists every persisted table, in migration order.
func Models() []interface{} {
	return []interface{}{
		&BotUser{},
		&Room{},
		&ClassBooking{},
		&UserBooking{},
		&ConversationState{},
		&Feedback{},
	}
}
