package conversation

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

func decodeMap(t *testing.T, raw datatypes.JSON) map[string]any {
	t.Helper()
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestUpdateApplyMerges(t *testing.T) {
	prev := &ConversationState{
		ID:    uuid.New(),
		Phase: PhasePendingBooking,
		Data:  datatypes.JSON(`{"x":1,"custom":"kept"}`),
	}
	phase, data, err := Set(map[string]any{"y": 2, "x": nil}).Apply(prev)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if phase != PhasePendingBooking {
		t.Fatalf("phase should carry forward, got %s", phase)
	}
	got := decodeMap(t, data)
	if got["y"] != float64(2) || got["custom"] != "kept" {
		t.Fatalf("unexpected data: %v", got)
	}
	if v, ok := got["x"]; !ok || v != nil {
		t.Fatalf("expected x to be stored as null, got %v (present=%v)", v, ok)
	}
}

func TestUpdateApplyReset(t *testing.T) {
	prev := &ConversationState{Phase: PhasePendingBooking, Data: datatypes.JSON(`{"x":1}`)}
	phase, data, err := Reset().Apply(prev)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if phase != PhaseInitial || string(data) != "{}" {
		t.Fatalf("unexpected reset: phase=%s data=%s", phase, data)
	}
}

func TestStageAndDecode(t *testing.T) {
	prev := &ConversationState{Data: datatypes.JSON(`{"followUp":"goto/roomChoose/4","pageOffset":2}`)}
	info := rooms.Availability{
		RoomID:      uuid.New(),
		RoomOpenAt:  "10:00:00.000",
		Availablity: clock.Interval{Hours: 2},
	}
	phase, data, err := Stage(info, "2024-03-01T00:00:00.000Z").Apply(prev)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if phase != PhasePendingBooking {
		t.Fatalf("expected pending booking, got %s", phase)
	}
	next := &ConversationState{Phase: phase, Data: data}
	d, err := next.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.FollowUp != nil || d.PageOffset != 0 {
		t.Fatalf("staging should replace data: %+v", d)
	}
	if d.Info == nil || d.Info.RoomID != info.RoomID || d.Info.TillAvailable != nil {
		t.Fatalf("unexpected info: %+v", d.Info)
	}
	if d.SearchedAt != "2024-03-01T00:00:00.000Z" {
		t.Fatalf("unexpected searchedAt: %q", d.SearchedAt)
	}
}

func TestDecodeEmpty(t *testing.T) {
	var s *ConversationState
	d, err := s.Decode()
	if err != nil || d.FollowUp != nil {
		t.Fatalf("unexpected decode of nil state: %+v %v", d, err)
	}
}
