package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomfinder-backend/internal/http/response"
	"github.com/yungbote/roomfinder-backend/internal/platform/messenger"
)

// RawBodyKey holds the request body once the signature middleware has read it.
const RawBodyKey = "raw_body"

// maxWebhookBody caps what a webhook delivery may send.
const maxWebhookBody = 1 << 20

// HubSignature checks X-Hub-Signature against the raw body. With no app
// secret configured every request passes. The body is restored for the
// next handler and stored under RawBodyKey.
func HubSignature(appSecret string) gin.HandlerFunc {
	appSecret = strings.TrimSpace(appSecret)
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
			c.Abort()
			return
		}
		if len(body) > maxWebhookBody {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "body_too_large", nil)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Set(RawBodyKey, body)

		if appSecret != "" && !messenger.VerifySignature(appSecret, body, c.GetHeader(messenger.SignatureHeader)) {
			response.RespondError(c, http.StatusForbidden, "invalid_signature", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RawBody returns the body read by HubSignature, or reads it now.
func RawBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(RawBodyKey); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
}
