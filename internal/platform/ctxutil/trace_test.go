package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1", ClientTraceID: "c1"})
	ctx = WithEventData(ctx, &EventData{Sender: "42", Index: 3, Kind: "postback"})

	fields := LogFields(ctx)
	want := map[string]interface{}{
		"trace_id":        "t1",
		"request_id":      "r1",
		"client_trace_id": "c1",
		"event_index":     3,
		"sender_id":       "42",
		"event_kind":      "postback",
	}
	if len(fields) != len(want)*2 {
		t.Fatalf("unexpected fields: %#v", fields)
	}
	for i := 0; i < len(fields); i += 2 {
		k := fields[i].(string)
		if want[k] != fields[i+1] {
			t.Fatalf("field %s: got=%v want=%v", k, fields[i+1], want[k])
		}
	}
}

func TestLogFieldsEmpty(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("expected no fields, got %#v", got)
	}
	if GetTraceData(nil) != nil || GetEventData(nil) != nil {
		t.Fatalf("nil context should yield nil data")
	}
}
