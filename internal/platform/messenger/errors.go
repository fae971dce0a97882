package messenger

import (
	"fmt"
	"strings"
)

// FailedRequest is a Graph API call that did not return 2xx, or never got a
// response at all (Status 0).
type FailedRequest struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *FailedRequest) Error() string {
	if e == nil {
		return "<nil>"
	}
	body := strings.TrimSpace(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("messenger %s: request failed: %v", e.Endpoint, e.Err)
	case body != "":
		return fmt.Sprintf("messenger %s: status %d: %s", e.Endpoint, e.Status, body)
	default:
		return fmt.Sprintf("messenger %s: status %d", e.Endpoint, e.Status)
	}
}

func (e *FailedRequest) Unwrap() error { return e.Err }

// UserError attaches the recipient a failed send was addressed to.
type UserError struct {
	Recipient string
	Err       error
}

func (e *UserError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("send to %s: %v", e.Recipient, e.Err)
}

func (e *UserError) Unwrap() error { return e.Err }
