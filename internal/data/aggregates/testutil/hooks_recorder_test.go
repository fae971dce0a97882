package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("conversation.append", "success", 10*time.Millisecond)
	h.IncConflict("conversation.append")
	h.IncRetry("conversation.append")

	if len(h.Operations) != 1 {
		t.Fatalf("expected 1 op event, got %d", len(h.Operations))
	}
	if h.Operations[0].Name != "conversation.append" || h.Operations[0].Status != "success" {
		t.Fatalf("unexpected op event: %+v", h.Operations[0])
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "conversation.append" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 1 || h.Retries[0] != "conversation.append" {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}

func TestHooksRecorder_StatusesFor(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("booking.confirm", "success", 0)
	h.ObserveOperation("conversation.append", "success", 0)
	h.ObserveOperation("booking.confirm", "stale_confirmation", 0)

	got := h.StatusesFor("booking.confirm")
	if len(got) != 2 || got[0] != "success" || got[1] != "stale_confirmation" {
		t.Fatalf("unexpected statuses: %v", got)
	}
}
