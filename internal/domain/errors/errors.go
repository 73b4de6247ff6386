// Package errors defines the failure taxonomy of a ticket relay run.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a relay failure.
type Kind string

const (
	// KindMissingTicketID is a client input error: the payload has no ticket id.
	KindMissingTicketID Kind = "missing_ticket_id"

	// KindMalformedInput covers unexpected shapes or parse errors anywhere in the run.
	KindMalformedInput Kind = "malformed_input"

	// KindUpstreamDegraded marks a failed enrichment call. It is absorbed by the
	// pipeline and never reaches the caller.
	KindUpstreamDegraded Kind = "upstream_degraded"

	// KindDispatch means the chat backend rejected the message or could not be reached.
	KindDispatch Kind = "dispatch_error"
)

// Error is a classified relay error.
type Error struct {
	Kind Kind

	// Op names the operation that failed, e.g. "list comments".
	Op string

	// StatusCode is the HTTP status returned by the remote side, if any.
	StatusCode int

	// Detail is diagnostic text, typically the remote response body.
	Detail string

	Err error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so sentinels like
// ErrMissingTicketID can be tested with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Detail == "" && t.Err == nil
}

// ErrMissingTicketID is returned when the inbound payload carries no ticket id.
var ErrMissingTicketID = &Error{Kind: KindMissingTicketID}

// NewMalformedInput creates a malformed-input error.
func NewMalformedInput(detail string, err error) *Error {
	return &Error{Kind: KindMalformedInput, Detail: detail, Err: err}
}

// NewUpstreamError creates an error for a failed enrichment call.
func NewUpstreamError(op string, statusCode int, body string, err error) *Error {
	return &Error{Kind: KindUpstreamDegraded, Op: op, StatusCode: statusCode, Detail: body, Err: err}
}

// NewDispatchError creates an error for a failed send to the chat backend.
func NewDispatchError(op string, statusCode int, body string, err error) *Error {
	return &Error{Kind: KindDispatch, Op: op, StatusCode: statusCode, Detail: body, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsDispatchError returns true if err is a dispatch failure.
func IsDispatchError(err error) bool {
	return KindOf(err) == KindDispatch
}

// IsUpstreamError returns true if err is a degraded enrichment call.
func IsUpstreamError(err error) bool {
	return KindOf(err) == KindUpstreamDegraded
}

// Detail returns the diagnostic detail of err. For classified errors with a
// remote body that body is returned as-is, otherwise the error text.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
