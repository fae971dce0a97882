package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomfinder-backend/internal/http/middleware"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type fakeProfiles struct {
	err   error
	calls int
}

func (f *fakeProfiles) ConfigureProfile(context.Context, messenger.Profile) error {
	f.calls++
	return f.err
}

type fakeProcessor struct {
	mu     sync.Mutex
	events []messenger.Event
}

func (f *fakeProcessor) Process(_ context.Context, events []messenger.Event) []roombot.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	out := make([]roombot.Outcome, len(events))
	for i := range events {
		// A failed event must not change the response.
		out[i].Err = errors.New("boom")
	}
	return out
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newWebhookRouter(t *testing.T, profiles *fakeProfiles, proc *fakeProcessor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(WebhookHandlerDeps{
		Log:         newTestLogger(t),
		VerifyToken: "tok",
		Profiles:    profiles,
		Processor:   proc,
	})
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", middleware.HubSignature(""), h.Receive)
	return r
}

func TestWebhookVerify(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		profileErr error
		want       int
		body       string
		configured int
	}{
		{"no query", "", nil, http.StatusBadRequest, "", 0},
		{"wrong token", "?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=c", nil, http.StatusForbidden, "", 0},
		{"wrong mode", "?hub.mode=unsubscribe&hub.verify_token=tok&hub.challenge=c", nil, http.StatusForbidden, "", 0},
		{"ok", "?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=abc123", nil, http.StatusOK, "abc123", 1},
		{"profile fails", "?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=c", errors.New("graph down"), http.StatusInternalServerError, "", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profiles := &fakeProfiles{err: tc.profileErr}
			r := newWebhookRouter(t, profiles, &fakeProcessor{})
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook"+tc.query, nil))
			if rec.Code != tc.want {
				t.Fatalf("status=%d want=%d", rec.Code, tc.want)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("body=%q want=%q", rec.Body.String(), tc.body)
			}
			if profiles.calls != tc.configured {
				t.Fatalf("profile calls=%d want=%d", profiles.calls, tc.configured)
			}
		})
	}
}

func TestWebhookReceive(t *testing.T) {
	proc := &fakeProcessor{}
	r := newWebhookRouter(t, &fakeProfiles{}, proc)

	body := `{"object":"page","entry":[{"id":"p","time":1,"messaging":[
		{"sender":{"id":"u1"},"recipient":{"id":"p"},"timestamp":1,"postback":{"payload":"{\"type\":\"HELP\"}"}},
		{"sender":{"id":"u2"},"recipient":{"id":"p"},"timestamp":1,"read":{"watermark":1}}
	]}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(proc.events) != 2 || proc.events[0].Sender != "u1" || proc.events[1].Kind != messenger.EventRead {
		t.Fatalf("events=%+v", proc.events)
	}
}

func TestWebhookReceiveRejects(t *testing.T) {
	cases := map[string]string{
		"not page": `{"object":"user","entry":[]}`,
		"not json": `{`,
		"empty":    ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			proc := &fakeProcessor{}
			r := newWebhookRouter(t, &fakeProfiles{}, proc)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status=%d", rec.Code)
			}
			if len(proc.events) != 0 {
				t.Fatalf("nothing should be processed")
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}
