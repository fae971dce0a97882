package actions

import (
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
)

// FollowUp names the step waiting for the user's next free-form message.
// It is stored under the followUp key of the conversation data.
type FollowUp string

const (
	FollowUpNone        FollowUp = ""
	FollowUpRoomChoose2 FollowUp = "goto/roomChoose/2"
	FollowUpRoomChoose3 FollowUp = "goto/roomChoose/3"
	FollowUpRoomChoose4 FollowUp = "goto/roomChoose/4"
	FollowUpIssueRoom   FollowUp = "goto/issueRoom/followUp"
	FollowUpIssueOther  FollowUp = "goto/issueOther/followUp"
)

// FollowUpOf reads the stored pointer; nil means none.
func FollowUpOf(stored *string) FollowUp {
	if stored == nil {
		return FollowUpNone
	}
	return FollowUp(*stored)
}

func (f FollowUp) Set() bool { return f != FollowUpNone }

// acceptance says which free-form messages a follow-up turns into actions.
// A nil func rejects that message kind.
type acceptance struct {
	text     func(text string) Action
	location func(loc rooms.Location) Action
}

var followUpTable = map[FollowUp]acceptance{
	FollowUpRoomChoose2: {},
	FollowUpRoomChoose3: {
		location: func(loc rooms.Location) Action { return ChooseRoom3{Location: &loc} },
	},
	FollowUpRoomChoose4: {},
	FollowUpIssueRoom: {
		text: func(text string) Action { return IssueDescribed{Issue: domainfeedback.KindRoom, Text: text} },
	},
	FollowUpIssueOther: {
		text: func(text string) Action { return IssueDescribed{Issue: domainfeedback.KindOther, Text: text} },
	},
}

// AcceptsText reports whether a text message resolves f.
func (f FollowUp) AcceptsText() bool { return followUpTable[f].text != nil }

// AcceptsLocation reports whether a shared location resolves f.
func (f FollowUp) AcceptsLocation() bool { return followUpTable[f].location != nil }
