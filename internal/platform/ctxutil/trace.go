package ctxutil

import "context"

type traceDataKey struct{}

// TraceData identifies the request being served. TraceID is the active
// span's trace; ClientTraceID is whatever id the caller sent, if any.
type TraceData struct {
	TraceID       string
	RequestID     string
	ClientTraceID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

type eventDataKey struct{}

// EventData identifies the webhook event a goroutine is working on.
type EventData struct {
	Sender string
	Index  int
	Kind   string
}

func WithEventData(ctx context.Context, ed *EventData) context.Context {
	return context.WithValue(ctx, eventDataKey{}, ed)
}

func GetEventData(ctx context.Context) *EventData {
	if ctx == nil {
		return nil
	}
	if ed, ok := ctx.Value(eventDataKey{}).(*EventData); ok {
		return ed
	}
	return nil
}

// LogFields renders the trace and event identifiers as logger key/values.
func LogFields(ctx context.Context) []interface{} {
	var out []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
		if td.ClientTraceID != "" {
			out = append(out, "client_trace_id", td.ClientTraceID)
		}
	}
	if ed := GetEventData(ctx); ed != nil {
		out = append(out, "event_index", ed.Index, "sender_id", ed.Sender)
		if ed.Kind != "" {
			out = append(out, "event_kind", ed.Kind)
		}
	}
	return out
}
