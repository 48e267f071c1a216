package shared

import "context"

// EventHandler consumes domain events dispatched by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means every
	// event.
	EventTypes() []string
}

// EventPublisher is the write side of the bus. Services publish the events
// an aggregate recorded after its state has been persisted.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus.
type EventSubscriber interface {
	// Subscribe registers a handler. The eventTypes argument overrides the
	// handler's own EventTypes when non-empty.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full in-process bus: publish, subscribe and lifecycle.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
