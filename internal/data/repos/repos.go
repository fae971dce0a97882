package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/data/repos/conversation"
	"github.com/yungbote/roomfinder-backend/internal/data/repos/feedback"
	"github.com/yungbote/roomfinder-backend/internal/data/repos/rooms"
	"github.com/yungbote/roomfinder-backend/internal/data/repos/user"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type BotUserRepo = user.BotUserRepo
type ConversationStateRepo = conversation.StateRepo
type RoomRepo = rooms.RoomRepo
type UserBookingRepo = rooms.UserBookingRepo
type ClassBookingRepo = rooms.ClassBookingRepo
type RoomSearchRepo = rooms.RoomSearchRepo
type FeedbackRepo = feedback.FeedbackRepo

type SearchConfig = rooms.SearchConfig

func NewBotUserRepo(db *gorm.DB, baseLog *logger.Logger) BotUserRepo {
	return user.NewBotUserRepo(db, baseLog)
}

func NewConversationStateRepo(db *gorm.DB, baseLog *logger.Logger) ConversationStateRepo {
	return conversation.NewStateRepo(db, baseLog)
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return rooms.NewRoomRepo(db, baseLog)
}

func NewUserBookingRepo(db *gorm.DB, baseLog *logger.Logger) UserBookingRepo {
	return rooms.NewUserBookingRepo(db, baseLog)
}

func NewClassBookingRepo(db *gorm.DB, baseLog *logger.Logger) ClassBookingRepo {
	return rooms.NewClassBookingRepo(db, baseLog)
}

func NewRoomSearchRepo(db *gorm.DB, baseLog *logger.Logger, cfg SearchConfig) RoomSearchRepo {
	return rooms.NewRoomSearchRepo(db, baseLog, cfg)
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return feedback.NewFeedbackRepo(db, baseLog)
}
