// Package actions turns inbound Messenger events into typed bot actions.
//
// An Action is a closed set: only types in this package implement it, and
// every one of them has a Kind listed in AllKinds. Postback payloads carry
// actions over the wire as JSON tagged by "type"; see payload.go.
package actions

import (
	"encoding/json"
	"time"

	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
)

type Kind string

const (
	KindIgnore Kind = "ignore"
	KindRetry  Kind = "error/retry"

	KindUnknownEvent    Kind = "unknown/event"
	KindUnknownMessage  Kind = "unknown/message"
	KindUnknownPostback Kind = "unknown/postback"

	KindStart Kind = "goto/start"
	KindHelp  Kind = "goto/help"

	KindIssueRoom      Kind = "goto/issueRoom"
	KindIssueOther     Kind = "goto/issueOther"
	KindIssueDescribed Kind = "goto/issue/followUp"

	KindRoomRandom  Kind = "goto/roomRandom"
	KindChooseRoom1 Kind = "goto/roomChoose/1"
	KindChooseRoom2 Kind = "goto/roomChoose/2"
	KindChooseRoom3 Kind = "goto/roomChoose/3"
	KindChooseRoom4 Kind = "goto/roomChoose/4"
	KindChooseRoom5 Kind = "goto/roomChoose/5"

	KindBookingConfirmation Kind = "goto/bookingConfirmation"
)

// AllKinds lists every action kind. A dispatcher must route each of them.
var AllKinds = []Kind{
	KindIgnore,
	KindRetry,
	KindUnknownEvent,
	KindUnknownMessage,
	KindUnknownPostback,
	KindStart,
	KindHelp,
	KindIssueRoom,
	KindIssueOther,
	KindIssueDescribed,
	KindRoomRandom,
	KindChooseRoom1,
	KindChooseRoom2,
	KindChooseRoom3,
	KindChooseRoom4,
	KindChooseRoom5,
	KindBookingConfirmation,
}

// Action is one thing the bot was asked to do.
type Action interface {
	Kind() Kind
	isAction()
}

type action struct{}

func (action) isAction() {}

// Ignore is for events that need no reply, like read receipts.
type Ignore struct{ action }

// Retry asks the user to rephrase. Cause is the classification failure
// that led here, if any.
type Retry struct {
	action
	Cause error
}

type UnknownEvent struct {
	action
	Raw json.RawMessage
}

type UnknownMessage struct {
	action
	MessageKind string
}

type UnknownPostback struct {
	action
	Payload string
	Cause   error
}

type Start struct{ action }

type Help struct{ action }

type IssueRoom struct{ action }

type IssueOther struct{ action }

// IssueDescribed carries the user's description of a reported problem.
type IssueDescribed struct {
	action
	Issue domainfeedback.Kind
	Text  string
}

type RoomRandom struct{ action }

// ChooseRoom1 starts a guided search.
type ChooseRoom1 struct{ action }

type ChooseRoom2 struct {
	action
	Time clock.TimeOffset
}

// ChooseRoom3 carries the user's location; nil when they declined to share.
type ChooseRoom3 struct {
	action
	Location *rooms.Location
}

type ChooseRoom4 struct {
	action
	OffsetChange int
}

// ChooseRoom5 picks the Index-th room of the search that began at SentDate.
type ChooseRoom5 struct {
	action
	Index    int
	SentDate time.Time
}

// BookingConfirmation confirms the offer staged at SentDate.
type BookingConfirmation struct {
	action
	SentDate time.Time
}

func (Ignore) Kind() Kind              { return KindIgnore }
func (Retry) Kind() Kind               { return KindRetry }
func (UnknownEvent) Kind() Kind        { return KindUnknownEvent }
func (UnknownMessage) Kind() Kind      { return KindUnknownMessage }
func (UnknownPostback) Kind() Kind     { return KindUnknownPostback }
func (Start) Kind() Kind               { return KindStart }
func (Help) Kind() Kind                { return KindHelp }
func (IssueRoom) Kind() Kind           { return KindIssueRoom }
func (IssueOther) Kind() Kind          { return KindIssueOther }
func (IssueDescribed) Kind() Kind      { return KindIssueDescribed }
func (RoomRandom) Kind() Kind          { return KindRoomRandom }
func (ChooseRoom1) Kind() Kind         { return KindChooseRoom1 }
func (ChooseRoom2) Kind() Kind         { return KindChooseRoom2 }
func (ChooseRoom3) Kind() Kind         { return KindChooseRoom3 }
func (ChooseRoom4) Kind() Kind         { return KindChooseRoom4 }
func (ChooseRoom5) Kind() Kind         { return KindChooseRoom5 }
func (BookingConfirmation) Kind() Kind { return KindBookingConfirmation }
