package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

type Repos struct {
	BotUser           repos.BotUserRepo
	ConversationState repos.ConversationStateRepo
	Room              repos.RoomRepo
	UserBooking       repos.UserBookingRepo
	ClassBooking      repos.ClassBookingRepo
	RoomSearch        repos.RoomSearchRepo
	Feedback          repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, search repos.SearchConfig) Repos {
	log.Info("Wiring repos...")
	return Repos{
		BotUser:           repos.NewBotUserRepo(db, log),
		ConversationState: repos.NewConversationStateRepo(db, log),
		Room:              repos.NewRoomRepo(db, log),
		UserBooking:       repos.NewUserBookingRepo(db, log),
		ClassBooking:      repos.NewClassBookingRepo(db, log),
		RoomSearch:        repos.NewRoomSearchRepo(db, log, search),
		Feedback:          repos.NewFeedbackRepo(db, log),
	}
}
