package bot

import (
	"time"

	"github.com/google/uuid"
)

// BotUser is a Messenger user the bot has talked to, keyed by the page-scoped
// sender id.
type BotUser struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FacebookID string    `gorm:"column:facebook_id;not null;uniqueIndex" json:"facebook_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (BotUser) TableName() string { return "bot_user" }
