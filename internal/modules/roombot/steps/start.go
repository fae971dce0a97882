package steps

import (
	"context"
	"fmt"

	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// Start resets the conversation and greets the user.
func Start(ctx context.Context, deps Deps, req Request) error {
	if _, err := deps.States.Append(ctx, req.UserID, conversation.Reset()); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return deps.Messenger.SendText(ctx, req.Recipient, textWelcome)
}

func Help(ctx context.Context, deps Deps, req Request) error {
	if err := deps.Messenger.SendText(ctx, req.Recipient, textHelpIntro); err != nil {
		return err
	}
	if len(deps.HelpCards) > 0 {
		if err := deps.Messenger.Send(ctx, req.Recipient, messenger.GenericMessage(deps.HelpCards)); err != nil {
			return err
		}
	}
	return deps.Messenger.SendText(ctx, req.Recipient, textHelpHint)
}

func Retry(ctx context.Context, deps Deps, req Request) error {
	return deps.Messenger.SendText(ctx, req.Recipient, textRetry)
}

// Unknown logs input the bot has no handling for and falls back to Retry.
func Unknown(ctx context.Context, deps Deps, req Request, a actions.Action) error {
	kv := []interface{}{"action", a.Kind(), "user_id", req.UserID}
	switch u := a.(type) {
	case actions.UnknownPostback:
		kv = append(kv, "payload", u.Payload)
		if u.Cause != nil {
			kv = append(kv, "error", u.Cause)
		}
	case actions.UnknownMessage:
		kv = append(kv, "message_kind", u.MessageKind)
	case actions.UnknownEvent:
		kv = append(kv, "event", string(u.Raw))
	}
	deps.Log.Warn("Unhandled input", kv...)
	return Retry(ctx, deps, req)
}
