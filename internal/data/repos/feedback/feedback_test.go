package feedback

import (
	"context"
	"testing"

	types "github.com/yungbote/roomfinder-backend/internal/domain"
	domainfeedback "github.com/yungbote/roomfinder-backend/internal/domain/feedback"
	"github.com/yungbote/roomfinder-backend/internal/data/repos/testutil"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
)

func TestFeedbackRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewFeedbackRepo(db, testutil.Logger(t))

	user := testutil.SeedBotUser(t, ctx, db, "psid-1")
	room := testutil.SeedRoom(t, ctx, db, "G01", "Quad", 0, 0)

	rows := []*types.Feedback{
		{UserID: user.ID, RoomID: &room.ID, Kind: domainfeedback.KindRoom, Description: "projector broken"},
		{UserID: user.ID, Kind: domainfeedback.KindOther, Description: "love the bot"},
	}
	for _, row := range rows {
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if row.StartTime.IsZero() {
			t.Fatalf("start time should be stamped")
		}
	}

	got, err := repo.ListForUser(dbc, user.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, fb := range got {
		switch fb.Kind {
		case domainfeedback.KindRoom:
			if fb.RoomID == nil || *fb.RoomID != room.ID {
				t.Fatalf("room feedback should reference the room: %+v", fb)
			}
		case domainfeedback.KindOther:
			if fb.RoomID != nil {
				t.Fatalf("other feedback has no room: %+v", fb)
			}
		}
	}
}
