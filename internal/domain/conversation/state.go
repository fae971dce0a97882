package conversation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Phase is the coarse position of a user in the booking flow.
type Phase int

const (
	PhaseInitial        Phase = 0
	PhasePendingBooking Phase = 1
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "INITIAL"
	case PhasePendingBooking:
		return "PENDING_BOOKING"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ConversationState is one snapshot in a user's append-only state log. The
// current state is the newest row by (created_at, seq).
type ConversationState struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_state_user_seq,priority:1;index:idx_conversation_state_user_created,priority:1" json:"user_id"`
	// Seq numbers a user's snapshots from 1 and breaks created_at ties.
	Seq       int64          `gorm:"not null;uniqueIndex:idx_conversation_state_user_seq,priority:2" json:"seq"`
	Phase     Phase          `gorm:"column:phase;not null;default:0" json:"phase"`
	Data      datatypes.JSON `gorm:"column:data;not null" json:"data"`
	CreatedAt time.Time      `gorm:"not null;index:idx_conversation_state_user_created,priority:2" json:"created_at"`
}

func (ConversationState) TableName() string { return "conversation_state" }

// Decode returns the typed view of the snapshot's data.
func (s *ConversationState) Decode() (Data, error) {
	var d Data
	if s == nil || len(s.Data) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(s.Data, &d); err != nil {
		return Data{}, fmt.Errorf("decode conversation state %s: %w", s.ID, err)
	}
	return d, nil
}

// Fields returns the raw data keys, including ones Data does not know about.
func (s *ConversationState) Fields() (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if s == nil || len(s.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(s.Data, &out); err != nil {
		return nil, fmt.Errorf("decode conversation state %s: %w", s.ID, err)
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}
