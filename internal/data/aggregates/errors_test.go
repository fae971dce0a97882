package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/roomfinder-backend/internal/domain/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/platform/userlock"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_LockTimeoutIsRetryable(t *testing.T) {
	err := MapError("op", fmt.Errorf("acquire lock: %w", userlock.ErrLockTimeout))
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Messages(t *testing.T) {
	cases := []struct {
		msg  string
		want domainagg.ErrorCode
	}{
		{"UNIQUE constraint failed: conversation_state.user_id, conversation_state.seq", domainagg.CodeConflict},
		{`ERROR: duplicate key value violates unique constraint "idx_conversation_state_user_seq"`, domainagg.CodeConflict},
		{"database is locked", domainagg.CodeRetryable},
		{"something else", domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			if got := domainagg.CodeOf(MapError("op", errors.New(tc.msg))); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestMapError_PassthroughWrappedCodedError(t *testing.T) {
	in := fmt.Errorf("handler: %w", domainagg.NewError(domainagg.CodeIllegalState, "booking.confirm", "", nil))
	if got := MapError("other", in); !domainagg.IsCode(got, domainagg.CodeIllegalState) {
		t.Fatalf("expected illegal state to survive mapping, got %v", got)
	}
}
