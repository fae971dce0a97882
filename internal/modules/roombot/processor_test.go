package roombot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/roomfinder-backend/internal/data/aggregates"
	"github.com/yungbote/roomfinder-backend/internal/data/repos"
	"github.com/yungbote/roomfinder-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roomfinder-backend/internal/domain"
	"github.com/yungbote/roomfinder-backend/internal/domain/conversation"
	"github.com/yungbote/roomfinder-backend/internal/domain/rooms"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot/actions"
	"github.com/yungbote/roomfinder-backend/internal/platform/clock"
	"github.com/yungbote/roomfinder-backend/internal/platform/dbctx"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type recordingMessenger struct {
	mu   sync.Mutex
	sent map[string][]messenger.Message
}

func (m *recordingMessenger) Send(_ context.Context, recipient string, msg messenger.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string][]messenger.Message{}
	}
	m.sent[recipient] = append(m.sent[recipient], msg)
	return nil
}

func (m *recordingMessenger) SendText(ctx context.Context, recipient, text string) error {
	return m.Send(ctx, recipient, messenger.TextMessage(text))
}

func (m *recordingMessenger) to(recipient string) []messenger.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]messenger.Message(nil), m.sent[recipient]...)
}

type staticSearch struct {
	results []types.Availability
}

func (s staticSearch) Query(_ context.Context, c rooms.SearchConstraints) ([]types.Availability, error) {
	skip := c.Pagination.Skip()
	if skip >= len(s.results) {
		return nil, nil
	}
	end := len(s.results)
	if c.Pagination.Limit > 0 && skip+c.Pagination.Limit < end {
		end = skip + c.Pagination.Limit
	}
	return s.results[skip:end], nil
}

type recordingMetrics struct {
	mu      sync.Mutex
	results map[string]int
	guards  map[string]int
	booked  int
}

func (m *recordingMetrics) ObserveEvent(_, _, result string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = map[string]int{}
	}
	m.results[result]++
}

func (m *recordingMetrics) IncGuardFailure(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.guards == nil {
		m.guards = map[string]int{}
	}
	m.guards[code]++
}

func (m *recordingMetrics) IncBookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.booked++
}

type harness struct {
	ctx     context.Context
	db      *gorm.DB
	now     time.Time
	msgr    *recordingMessenger
	metrics *recordingMetrics
	proc    *Processor
	users   repos.BotUserRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		ctx:     ctx,
		db:      db,
		now:     time.Date(2024, 3, 4, 1, 15, 0, 0, time.UTC),
		msgr:    &recordingMessenger{},
		metrics: &recordingMetrics{},
		users:   repos.NewBotUserRepo(db, log),
	}
	room := testutil.SeedRoom(t, ctx, db, "G01", "Quad", -33.9, 151.2)
	info := rooms.FromRoom(*room)
	info.RoomOpenAt = "12:15:00.000"
	info.Availablity = clock.Interval{Hours: 1}

	base := dataagg.BaseDeps{
		DB:    db,
		Log:   log,
		Clock: clock.Func(func() time.Time { return h.now }),
	}
	store := dataagg.NewConversationStore(dataagg.ConversationStoreDeps{Base: base})
	bookings := dataagg.NewBookingAggregate(dataagg.BookingAggregateDeps{
		Base:   base,
		Store:  store,
		Campus: time.FixedZone("AEDT", 11*60*60),
	})
	uc := New(UsecasesDeps{
		Log:       log,
		Messenger: h.msgr,
		States:    store,
		Bookings:  bookings,
		Search:    staticSearch{results: []types.Availability{info}},
		Clock:     base.Clock,
		Metrics:   h.metrics,
	})
	h.proc = NewProcessor(ProcessorDeps{
		Log:        log,
		Users:      h.users,
		States:     store,
		Classifier: actions.NewClassifier(log, nil),
		Dispatcher: NewDispatcher(log, uc.Routes()),
		Metrics:    h.metrics,
	})
	return h
}

func (h *harness) parse(t *testing.T, messaging ...string) []messenger.Event {
	t.Helper()
	body := `{"object":"page","entry":[{"id":"p","time":1,"messaging":[`
	for i, m := range messaging {
		if i > 0 {
			body += ","
		}
		body += m
	}
	body += `]}]}`
	events, err := messenger.ParseEvents([]byte(body))
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	return events
}

func postback(sender, payload string) string {
	raw, _ := json.Marshal(payload)
	return fmt.Sprintf(`{"sender":{"id":%q},"recipient":{"id":"p"},"timestamp":1,"postback":{"payload":%s}}`, sender, raw)
}

func text(sender, body, intent string, confidence float64) string {
	return fmt.Sprintf(`{"sender":{"id":%q},"recipient":{"id":"p"},"timestamp":1,"message":{"mid":"m","text":%q,"nlp":{"entities":{"intent":[{"value":%q,"confidence":%g}]}}}}`,
		sender, body, intent, confidence)
}

func TestRandomRoomThenConfirm(t *testing.T) {
	h := newHarness(t)

	out := h.proc.Process(h.ctx, h.parse(t, text("u1", "any room", "booking/random", 0.7)))
	if len(out) != 1 || out[0].Err != nil || out[0].Action != actions.KindRoomRandom {
		t.Fatalf("outcome=%+v", out)
	}
	sent := h.msgr.to("u1")
	if len(sent) != 1 || sent[0].Attachment == nil {
		t.Fatalf("expected the offer, got %+v", sent)
	}
	tpl := sent[0].Attachment.Payload.(messenger.ButtonTemplate)
	confirm := tpl.Buttons[0].Payload
	if confirm != actions.ConfirmBooking(h.now).String() {
		t.Fatalf("confirm payload=%s", confirm)
	}

	h.now = h.now.Add(time.Minute)
	out = h.proc.Process(h.ctx, h.parse(t, postback("u1", confirm)))
	if out[0].Err != nil || out[0].Action != actions.KindBookingConfirmation {
		t.Fatalf("outcome=%+v", out)
	}
	var n int64
	h.db.Model(&types.UserBooking{}).Count(&n)
	if n != 1 || h.metrics.booked != 1 {
		t.Fatalf("bookings=%d metric=%d", n, h.metrics.booked)
	}

	// The same button again finds no pending booking.
	out = h.proc.Process(h.ctx, h.parse(t, postback("u1", confirm)))
	if out[0].Err == nil || h.metrics.guards["illegal_state"] != 1 {
		t.Fatalf("outcome=%+v guards=%v", out, h.metrics.guards)
	}
	h.db.Model(&types.UserBooking{}).Count(&n)
	if n != 1 {
		t.Fatalf("bookings=%d", n)
	}
}

func TestFailuresDoNotAffectSiblings(t *testing.T) {
	h := newHarness(t)

	// Put u2 mid-flow so free text cannot answer its follow-up.
	user, err := h.users.GetOrCreate(dbctx.Context{Ctx: h.ctx}, "u2")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := h.proc.deps.States.Append(h.ctx, user.ID, conversation.Set(map[string]any{
		conversation.KeyFollowUp: string(actions.FollowUpRoomChoose3),
	})); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events := h.parse(t,
		postback("u1", `{"type":"HELP"}`),
		text("u2", "somewhere", "", 0),
		postback("u3", `{"type":"CONFIRM/BOOKING","sentDate":"2024-03-04T01:00:00.000Z"}`),
		`{"sender":{"id":"u4"},"recipient":{"id":"p"},"timestamp":1,"read":{"watermark":1}}`,
		postback("u5", `not json`),
	)
	out := h.proc.Process(h.ctx, events)
	if len(out) != 5 {
		t.Fatalf("outcomes=%d", len(out))
	}

	want := []actions.Kind{
		actions.KindHelp,
		actions.KindRetry,
		actions.KindBookingConfirmation,
		actions.KindIgnore,
		actions.KindUnknownPostback,
	}
	for i, o := range out {
		if o.Action != want[i] {
			t.Fatalf("event %d: action=%s want=%s", i, o.Action, want[i])
		}
	}
	if out[0].Err != nil || out[1].Err != nil || out[3].Err != nil || out[4].Err != nil {
		t.Fatalf("unexpected errors: %+v", out)
	}
	if out[2].Err == nil {
		t.Fatalf("expected the confirmation without an offer to fail")
	}

	if got := h.msgr.to("u2"); len(got) != 1 || got[0].Text != "Sorry, I can't understand your message" {
		t.Fatalf("u2 replies=%+v", got)
	}
	if got := h.msgr.to("u4"); len(got) != 0 {
		t.Fatalf("read receipts get no reply, got %+v", got)
	}
	if got := h.msgr.to("u5"); len(got) != 1 {
		t.Fatalf("unknown postback should get the fallback, got %+v", got)
	}
	if h.metrics.results["ok"] != 4 || h.metrics.results["illegal_state"] != 1 {
		t.Fatalf("results=%v", h.metrics.results)
	}
}

func TestMissingSenderFails(t *testing.T) {
	h := newHarness(t)
	out := h.proc.Process(h.ctx, []messenger.Event{{Kind: messenger.EventPostback, PostbackPayload: `{"type":"HELP"}`}})
	if out[0].Err == nil {
		t.Fatalf("expected an error for an event without sender")
	}
}
