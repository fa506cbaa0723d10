// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes a message received from the queue.
type Handler func(ctx context.Context, subject string, data []byte) error

// Publisher sends messages. Services depend on this narrower interface.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Queue is the port interface for publishing and subscribing to messages.
type Queue interface {
	Publisher

	// Subscribe registers a handler for messages on the given subject.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain gracefully drains all subscriptions before closing.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error

	// IsConnected reports whether the queue is currently connected.
	IsConnected() bool
}

// Subject patterns for CRM change events: crm.<entity>.<action>.
const (
	SubjectPrefix     = "crm."
	SubjectAllChanges = "crm.>"
)

// Discard is a Publisher that drops every message. It is used when no
// broker is configured.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, string, []byte) error { return nil }
