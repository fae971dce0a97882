package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomfinder-backend/internal/http/middleware"
	"github.com/yungbote/roomfinder-backend/internal/http/response"
	"github.com/yungbote/roomfinder-backend/internal/modules/roombot"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

type ProfileConfigurer interface {
	ConfigureProfile(ctx context.Context, profile messenger.Profile) error
}

type EventProcessor interface {
	Process(ctx context.Context, events []messenger.Event) []roombot.Outcome
}

type WebhookHandlerDeps struct {
	Log         *logger.Logger
	VerifyToken string
	Profile     messenger.Profile
	Profiles    ProfileConfigurer
	Processor   EventProcessor
}

// WebhookHandler serves the Messenger webhook.
type WebhookHandler struct {
	deps WebhookHandlerDeps
	log  *logger.Logger
}

func NewWebhookHandler(deps WebhookHandlerDeps) *WebhookHandler {
	return &WebhookHandler{deps: deps, log: deps.Log.With("handler", "WebhookHandler")}
}

// Verify answers the subscription handshake. A verified subscription also
// (re)configures the page profile.
func (h *WebhookHandler) Verify(c *gin.Context) {
	q := c.Request.URL.Query()
	if len(q) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_query", nil)
		return
	}
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	if mode != "subscribe" || h.deps.VerifyToken == "" || token != h.deps.VerifyToken {
		h.log.Warn("Webhook verification rejected", "mode", mode)
		response.RespondError(c, http.StatusForbidden, "verification_failed", nil)
		return
	}

	h.log.Info("Webhook verified, configuring profile")
	if err := h.deps.Profiles.ConfigureProfile(c.Request.Context(), h.deps.Profile); err != nil {
		h.log.Error("Profile configuration failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "profile_configuration_failed", err)
		return
	}
	c.String(http.StatusOK, q.Get("hub.challenge"))
}

// Receive processes a delivery. Per-event failures are logged by the
// processor and never change the response.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := middleware.RawBody(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	events, err := messenger.ParseEvents(body)
	if err != nil {
		code := "invalid_body"
		if errors.Is(err, messenger.ErrNotPage) {
			code = "not_page"
		}
		h.log.Warn("Webhook body rejected", "error", err)
		response.RespondError(c, http.StatusBadRequest, code, err)
		return
	}

	// Keep trace values but let a dropped connection not cut replies short.
	ctx := context.WithoutCancel(c.Request.Context())
	h.deps.Processor.Process(ctx, events)
	c.Status(http.StatusOK)
}
