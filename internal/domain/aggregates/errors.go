package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a failure for logging, metrics and user replies.
type ErrorCode string

const (
	// Input the bot could not make sense of.
	CodeUnknownPostback ErrorCode = "unknown_postback"
	CodeUnknownMessage  ErrorCode = "unknown_message"
	CodeUnknownEvent    ErrorCode = "unknown_event"
	CodeUnknownFollowUp ErrorCode = "unknown_follow_up"

	// Booking guards.
	CodeIllegalState      ErrorCode = "illegal_state"
	CodeStaleConfirmation ErrorCode = "stale_confirmation"

	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is the typed error shared by handlers and the data layer.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an error with explicit code and operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with a code.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or a wrapped err) carries code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// UserFacing reports whether code is raised by user input rather than by a
// fault in the service.
func UserFacing(code ErrorCode) bool {
	switch code {
	case CodeUnknownPostback, CodeUnknownMessage, CodeUnknownEvent, CodeUnknownFollowUp,
		CodeIllegalState, CodeStaleConfirmation, CodeValidation:
		return true
	default:
		return false
	}
}
