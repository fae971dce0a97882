package actions

import (
	"context"

	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// Intent is a label produced by the page's NLP model.
type Intent string

const (
	IntentInit            Intent = "init"
	IntentHelp            Intent = "help"
	IntentIssueRoom       Intent = "issue/room"
	IntentIssueGeneric    Intent = "issue/generic"
	IntentBookingRandom   Intent = "booking/random"
	IntentBookingSpecific Intent = "booking/specific"
)

// TextMessage is the input to intent classification.
type TextMessage struct {
	Text string
	NLP  *messenger.NLP
}

// IntentClassifier labels a text message. ok is false when no label is
// confident enough.
type IntentClassifier interface {
	Classify(ctx context.Context, msg TextMessage) (Intent, bool)
}

const (
	intentEntity = "intent"

	minConfidence        = 0.8
	minBookingConfidence = 0.5
)

// EntityClassifier reads the intent entity Messenger attaches to each text
// message. Only the top candidate is considered; booking intents are
// accepted at a lower confidence.
type EntityClassifier struct{}

func NewEntityClassifier() EntityClassifier { return EntityClassifier{} }

func (EntityClassifier) Classify(_ context.Context, msg TextMessage) (Intent, bool) {
	if msg.NLP == nil {
		return "", false
	}
	candidates := msg.NLP.Entities[intentEntity]
	if len(candidates) == 0 {
		return "", false
	}
	top := candidates[0]
	intent := Intent(top.Value)
	switch {
	case top.Confidence > minConfidence:
		return intent, true
	case top.Confidence > minBookingConfidence && (intent == IntentBookingRandom || intent == IntentBookingSpecific):
		return intent, true
	default:
		return "", false
	}
}

// intentAction maps a label onto its action; unknown labels map to nil.
func intentAction(intent Intent) Action {
	switch intent {
	case IntentInit:
		return Start{}
	case IntentHelp:
		return Help{}
	case IntentIssueRoom:
		return IssueRoom{}
	case IntentIssueGeneric:
		return IssueOther{}
	case IntentBookingRandom:
		return RoomRandom{}
	case IntentBookingSpecific:
		return ChooseRoom1{}
	default:
		return nil
	}
}
