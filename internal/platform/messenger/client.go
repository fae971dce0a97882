package messenger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://graph.facebook.com/v2.6"

	endpointMessages = "/me/messages"
	endpointProfile  = "/me/messenger_profile"
)

// SendObserver receives one callback per Graph API call.
type SendObserver interface {
	ObserveMessengerCall(endpoint string, ok bool, took time.Duration)
}

type Config struct {
	BaseURL         string
	PageAccessToken string
	Timeout         time.Duration
}

// Client talks to the Messenger Send and Profile APIs.
type Client struct {
	log      *logger.Logger
	http     *resty.Client
	observer SendObserver
}

func NewClient(log *logger.Logger, cfg Config, observer SendObserver) (*Client, error) {
	if strings.TrimSpace(cfg.PageAccessToken) == "" {
		return nil, fmt.Errorf("messenger: missing page access token")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("access_token", cfg.PageAccessToken)

	return &Client{
		log:      log.With("service", "MessengerClient"),
		http:     httpClient,
		observer: observer,
	}, nil
}

// Send delivers msg to recipient. Any failure comes back as *UserError
// wrapping a *FailedRequest.
func (c *Client) Send(ctx context.Context, recipient string, msg Message) error {
	req := SendRequest{Recipient: Recipient{ID: recipient}, Message: msg}
	if err := c.post(ctx, endpointMessages, req); err != nil {
		return &UserError{Recipient: recipient, Err: err}
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	return c.Send(ctx, recipient, TextMessage(text))
}

// ConfigureProfile replaces the page's get-started button, persistent menu
// and greeting.
func (c *Client) ConfigureProfile(ctx context.Context, profile Profile) error {
	return c.post(ctx, endpointProfile, profile)
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}) error {
	ctx, span := otel.Tracer("messenger").Start(ctx, "messenger.post")
	defer span.End()
	span.SetAttributes(attribute.String("messenger.endpoint", endpoint))

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	took := time.Since(start)

	var failure error
	switch {
	case err != nil:
		failure = &FailedRequest{Endpoint: endpoint, Err: err}
	case resp.IsError():
		failure = &FailedRequest{Endpoint: endpoint, Status: resp.StatusCode(), Body: resp.String()}
	}

	if c.observer != nil {
		c.observer.ObserveMessengerCall(endpoint, failure == nil, took)
	}
	if failure != nil {
		span.RecordError(failure)
		span.SetStatus(codes.Error, "graph api call failed")
		c.log.Warn("Graph API call failed", "endpoint", endpoint, "duration_ms", took.Milliseconds(), "error", failure)
		return failure
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	c.log.Debug("Graph API call", "endpoint", endpoint, "status", resp.StatusCode(), "duration_ms", took.Milliseconds())
	return nil
}
