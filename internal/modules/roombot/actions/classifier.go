package actions

import (
	"context"
	"fmt"

	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// Classifier maps one webhook event to the action it asks for.
type Classifier struct {
	log     *logger.Logger
	intents IntentClassifier
}

func NewClassifier(log *logger.Logger, intents IntentClassifier) *Classifier {
	if intents == nil {
		intents = NewEntityClassifier()
	}
	return &Classifier{log: log.With("service", "ActionClassifier"), intents: intents}
}

// Classify picks the action for ev given the user's pending follow-up. It
// only fails with CodeUnknownFollowUp, when a follow-up is pending and the
// message cannot answer it.
func (c *Classifier) Classify(ctx context.Context, ev messenger.Event, followUp FollowUp) (Action, error) {
	switch ev.Kind {
	case messenger.EventRead, messenger.EventDelivery:
		return Ignore{}, nil
	case messenger.EventPostback:
		return c.postback(ev.PostbackPayload), nil
	case messenger.EventMessage:
		if ev.Message == nil {
			return UnknownMessage{}, nil
		}
		if followUp.Set() {
			return c.followUp(ev.Message, followUp)
		}
		return c.message(ctx, ev.Message), nil
	default:
		return UnknownEvent{Raw: ev.Raw}, nil
	}
}

func (c *Classifier) postback(raw string) Action {
	a, err := DecodePayload(raw)
	if err != nil {
		c.log.Warn("Unrecognised postback payload", "payload", raw, "error", err)
		return UnknownPostback{Payload: raw, Cause: err}
	}
	return a
}

func (c *Classifier) followUp(msg *messenger.InboundMessage, followUp FollowUp) (Action, error) {
	accept := followUpTable[followUp]
	switch msg.Kind {
	case messenger.MessageQuickReply:
		return c.postback(msg.QuickReplyPayload), nil
	case messenger.MessageLocation:
		if accept.location != nil && msg.Location != nil {
			return accept.location(rooms.Location{Lat: msg.Location.Lat, Long: msg.Location.Long}), nil
		}
	case messenger.MessageText:
		if accept.text != nil {
			return accept.text(msg.Text), nil
		}
	default:
		return UnknownMessage{MessageKind: string(msg.Kind)}, nil
	}
	return nil, domainagg.NewError(
		domainagg.CodeUnknownFollowUp,
		"actions.classify",
		fmt.Sprintf("%s message does not answer follow-up %q", msg.Kind, followUp),
		nil,
	)
}

func (c *Classifier) message(ctx context.Context, msg *messenger.InboundMessage) Action {
	switch msg.Kind {
	case messenger.MessageQuickReply:
		return c.postback(msg.QuickReplyPayload)
	case messenger.MessageText:
		intent, ok := c.intents.Classify(ctx, TextMessage{Text: msg.Text, NLP: msg.NLP})
		if !ok {
			return Retry{}
		}
		if a := intentAction(intent); a != nil {
			return a
		}
		c.log.Warn("Unmapped intent label", "intent", intent)
		return Retry{}
	default:
		return UnknownMessage{MessageKind: string(msg.Kind)}
	}
}
