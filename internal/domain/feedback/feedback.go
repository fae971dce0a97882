package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRoom  Kind = "room"
	KindOther Kind = "other"
)

// Feedback is a free-text issue report sent through the report flow.
type Feedback struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	// Room of the user's latest booking, for room issues.
	RoomID      *uuid.UUID `gorm:"type:uuid;index" json:"room_id,omitempty"`
	Kind        Kind       `gorm:"column:kind;not null" json:"kind"`
	Description string     `gorm:"column:description;not null" json:"description"`
	StartTime   time.Time  `gorm:"column:start_time;not null;index" json:"start_time"`
}

func (Feedback) TableName() string { return "feedback" }
