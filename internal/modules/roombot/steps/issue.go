package steps

import (
	"context"
	"fmt"

	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
)

// AskIssue points the follow-up at the issue description and asks for it.
func AskIssue(ctx context.Context, deps Deps, req Request, kind domainfeedback.Kind) error {
	followUp, prompt := actions.FollowUpIssueOther, textIssueOther
	if kind == domainfeedback.KindRoom {
		followUp, prompt = actions.FollowUpIssueRoom, textIssueRoom
	}
	upd := conversation.Set(map[string]any{conversation.KeyFollowUp: string(followUp)})
	if _, err := deps.States.Append(ctx, req.UserID, upd); err != nil {
		return fmt.Errorf("set issue follow-up: %w", err)
	}
	return deps.Messenger.SendText(ctx, req.Recipient, prompt)
}

// IssueDescribed stores the report and thanks the user.
func IssueDescribed(ctx context.Context, deps Deps, req Request, a actions.IssueDescribed) error {
	fb, err := deps.Bookings.ReportIssue(ctx, req.UserID, a.Issue, a.Text)
	if err != nil {
		return fmt.Errorf("report issue: %w", err)
	}
	deps.Log.Info("Issue reported", "user_id", req.UserID, "feedback_id", fb.ID, "kind", fb.Kind)
	return deps.Messenger.SendText(ctx, req.Recipient, textIssueThanks)
}
