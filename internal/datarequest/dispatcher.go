package datarequest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// HandlerFunc serves one operation. The payload is the raw JSON sent by
// the caller (nil when no payload was given); the returned value is
// encoded as the response data.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes data requests to registered handlers in-process.
// It is safe for concurrent use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   logrus.FieldLogger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers h for category/operation, replacing any previous
// handler.
func (d *Dispatcher) Handle(category, operation string, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[key(category, operation)] = h
}

// Operations returns the number of registered handlers.
func (d *Dispatcher) Operations() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}

// Dispatch invokes the handler registered for category/operation.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	category, operation string,
	payload json.RawMessage,
) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[key(category, operation)]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", category, operation, ErrUnknownOperation)
	}

	log := d.logger.WithFields(logrus.Fields{
		"category":  category,
		"operation": operation,
	})
	out, err := h(ctx, payload)
	if err != nil {
		log.WithError(err).Warn("data request failed")
		return nil, err
	}
	log.Debug("data request served")
	return out, nil
}

// Request implements Requester. Payload and result pass through JSON so
// in-process callers observe exactly the shapes the HTTP transport
// would produce.
func (d *Dispatcher) Request(
	ctx context.Context,
	category, operation string,
	payload, result any,
) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
		raw = data
	}

	out, err := d.Dispatch(ctx, category, operation, raw)
	if err != nil {
		return err
	}
	if result == nil || out == nil {
		return nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
