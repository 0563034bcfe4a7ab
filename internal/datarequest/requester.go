// Package datarequest provides the remote-call facility admin plugins use
// to reach the backend: a Requester interface with an in-process
// Dispatcher and an HTTP Client implementation.
package datarequest

import (
	"context"
	"errors"
)

// Category names.
const (
	CategoryAdmin = "admin"
)

var (
	// ErrUnknownOperation is returned when no handler is registered for a
	// category/operation pair.
	ErrUnknownOperation = errors.New("unknown data request operation")

	// ErrRequestFailed wraps every transport or server-side failure.
	ErrRequestFailed = errors.New("data request failed")
)

// Requester issues a single remote procedure call. The payload is
// serialized as JSON; when result is non-nil the response data is decoded
// into it.
type Requester interface {
	Request(ctx context.Context, category, operation string, payload, result any) error
}

// RequesterFunc adapts a function to the Requester interface.
type RequesterFunc func(ctx context.Context, category, operation string, payload, result any) error

// Request calls f.
func (f RequesterFunc) Request(ctx context.Context, category, operation string, payload, result any) error {
	return f(ctx, category, operation, payload, result)
}

func key(category, operation string) string {
	return category + "/" + operation
}
