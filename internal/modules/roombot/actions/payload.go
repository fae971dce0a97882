package actions

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

// Postback payload tags. These strings are baked into buttons already sent
// to users and into the page's persistent menu.
const (
	TagInit            = "INIT"
	TagHelp            = "HELP"
	TagReportGeneric   = "REPORT/GENERIC"
	TagReportRoomInfo  = "REPORT/ROOM_INFO"
	TagRoomRandom      = "ROOM/RANDOM"
	TagChooseRoom1     = "ROOM/CHOOSE/1"
	TagChooseRoom2     = "ROOM/CHOOSE/2"
	TagChooseRoom3None = "ROOM/CHOOSE/3/no-location"
	TagChooseRoom4     = "ROOM/CHOOSE/4"
	TagChooseRoom5     = "ROOM/CHOOSE/5"
	TagConfirmBooking  = "CONFIRM/BOOKING"
)

// Payload is the JSON object carried by postback buttons and quick replies.
type Payload struct {
	Type         string            `json:"type"`
	Time         *clock.TimeOffset `json:"time,omitempty"`
	OffsetChange *int              `json:"offsetChange,omitempty"`
	Index        *int              `json:"index,omitempty"`
	SentDate     string            `json:"sentDate,omitempty"`
}

// String renders the payload as sent to the Graph API.
func (p Payload) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		// Only plain fields; Marshal cannot fail.
		return fmt.Sprintf(`{"type":%q}`, p.Type)
	}
	return string(b)
}

func Tag(tag string) Payload { return Payload{Type: tag} }

func ChooseTime(off clock.TimeOffset) Payload {
	return Payload{Type: TagChooseRoom2, Time: &off}
}

func ShowMore(offsetChange int) Payload {
	return Payload{Type: TagChooseRoom4, OffsetChange: &offsetChange}
}

// PickRoom selects the index-th room of the search started at sentDate. The
// date is passed through as stored so the guard compares like with like.
func PickRoom(index int, sentDate string) Payload {
	return Payload{Type: TagChooseRoom5, Index: &index, SentDate: sentDate}
}

func ConfirmBooking(sentDate time.Time) Payload {
	return Payload{Type: TagConfirmBooking, SentDate: clock.FormatISO(sentDate)}
}

// DecodePayload parses a postback payload into its action. Failures carry
// CodeUnknownPostback.
func DecodePayload(raw string) (Action, error) {
	const op = "actions.decode_payload"
	var p Payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return nil, domainagg.NewError(domainagg.CodeUnknownPostback, op, "payload is not a JSON object", err)
	}
	unknown := func(msg string, cause error) (Action, error) {
		return nil, domainagg.NewError(domainagg.CodeUnknownPostback, op, fmt.Sprintf("%s: %s", p.Type, msg), cause)
	}

	switch p.Type {
	case TagInit:
		return Start{}, nil
	case TagHelp:
		return Help{}, nil
	case TagReportRoomInfo:
		return IssueRoom{}, nil
	case TagReportGeneric:
		return IssueOther{}, nil
	case TagRoomRandom:
		return RoomRandom{}, nil
	case TagChooseRoom1:
		return ChooseRoom1{}, nil
	case TagChooseRoom2:
		if p.Time == nil {
			return unknown("missing time", nil)
		}
		if err := p.Time.Validate(); err != nil {
			return unknown("invalid time", err)
		}
		return ChooseRoom2{Time: *p.Time}, nil
	case TagChooseRoom3None:
		return ChooseRoom3{}, nil
	case TagChooseRoom4:
		if p.OffsetChange == nil {
			return unknown("missing offsetChange", nil)
		}
		return ChooseRoom4{OffsetChange: *p.OffsetChange}, nil
	case TagChooseRoom5:
		if p.Index == nil || *p.Index < 0 {
			return unknown("missing or negative index", nil)
		}
		sent, err := clock.ParseISO(p.SentDate)
		if err != nil {
			return unknown("invalid sentDate", err)
		}
		return ChooseRoom5{Index: *p.Index, SentDate: sent}, nil
	case TagConfirmBooking:
		sent, err := clock.ParseISO(p.SentDate)
		if err != nil {
			return unknown("invalid sentDate", err)
		}
		return BookingConfirmation{SentDate: sent}, nil
	default:
		return unknown("unrecognised type", nil)
	}
}
