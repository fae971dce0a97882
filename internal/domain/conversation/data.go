package conversation

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

// Keys of the state data object.
const (
	KeyFollowUp   = "followUp"
	KeyPageOffset = "pageOffset"
	KeyLocation   = "location"
	KeySentDate   = "sentDate"
	KeyTimeOffset = "timeOffset"
	KeyInfo       = "info"
	KeySearchedAt = "searchedAt"
)

type Location = rooms.Location

// Data is the typed view of the keys the booking flow reads.
type Data struct {
	FollowUp   *string             `json:"followUp,omitempty"`
	PageOffset int                 `json:"pageOffset,omitempty"`
	Location   *Location           `json:"location,omitempty"`
	SentDate   string              `json:"sentDate,omitempty"`
	TimeOffset *clock.TimeOffset   `json:"timeOffset,omitempty"`
	Info       *rooms.Availability `json:"info,omitempty"`
	SearchedAt string              `json:"searchedAt,omitempty"`
}

// Update describes the next snapshot relative to the current one.
type Update struct {
	// Phase of the new row; nil carries the current phase forward.
	Phase *Phase
	// Fields merged over the current data. A nil value stores JSON null.
	Fields map[string]any
	// Replace drops the current data instead of merging into it.
	Replace bool
}

// Set merges fields into the current data.
func Set(fields map[string]any) Update {
	return Update{Fields: fields}
}

// Reset moves the user back to INITIAL with empty data.
func Reset() Update {
	p := PhaseInitial
	return Update{Phase: &p, Fields: map[string]any{}, Replace: true}
}

// Stage pins a search result for confirmation.
func Stage(info rooms.Availability, searchedAt string) Update {
	p := PhasePendingBooking
	return Update{
		Phase:   &p,
		Fields:  map[string]any{KeySearchedAt: searchedAt, KeyInfo: info},
		Replace: true,
	}
}

// Apply computes the phase and data of the snapshot following prev.
func (u Update) Apply(prev *ConversationState) (Phase, datatypes.JSON, error) {
	phase := PhaseInitial
	fields := map[string]json.RawMessage{}
	if prev != nil {
		phase = prev.Phase
		if !u.Replace {
			existing, err := prev.Fields()
			if err != nil {
				return 0, nil, err
			}
			fields = existing
		}
	}
	if u.Phase != nil {
		phase = *u.Phase
	}
	for k, v := range u.Fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return 0, nil, fmt.Errorf("encode state field %q: %w", k, err)
		}
		fields[k] = raw
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return 0, nil, fmt.Errorf("encode state data: %w", err)
	}
	return phase, datatypes.JSON(out), nil
}
