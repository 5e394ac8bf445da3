package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus. Delivery is
// synchronous: Publish calls handler callbacks in the caller goroutine, so
// handlers should be quick. Handler errors are joined and returned from
// Publish.
//
// The simulation server uses it to fan collision and body-lifecycle events
// out of the tick loop without the physics core knowing its consumers.
type EventBus interface {
	// Publish delivers the event to all active subscribers of
	// event.Type() and returns the joined handler errors, if any.
	Publish(event Event) error
	// PublishBatch publishes events sequentially, aggregating errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type and returns a
	// Subscription that can cancel it.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. Safe to call with nil.
	Unsubscribe(Subscription) error
}

// Event is an immutable message. Type is the routing key; Data is an opaque
// payload for consumers.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}
