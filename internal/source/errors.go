package source

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a source failure for diagnostics and retry decisions.
type ErrorKind string

const (
	// KindConfig: required credentials are missing. Fatal to the call,
	// reported once, never retried.
	KindConfig ErrorKind = "config"
	// KindTimeout: the upstream call exceeded its per-call deadline.
	KindTimeout ErrorKind = "timeout"
	// KindHTTPStatus: the upstream answered with a non-2xx status.
	KindHTTPStatus ErrorKind = "http_status"
	// KindBadPayload: the upstream body could not be decoded.
	KindBadPayload ErrorKind = "bad_payload"
)

// Error is the structured failure an adapter returns instead of raising.
// A multi-source aggregation keeps running on partial data when one adapter
// yields an Error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds an *Error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Classify wraps an arbitrary transport error into an *Error, mapping
// deadline expiry onto KindTimeout.
func Classify(err error) *Error {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: err.Error()}
	}
	return &Error{Kind: KindHTTPStatus, Message: err.Error()}
}
