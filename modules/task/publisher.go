package task

import (
	"github.com/go-monolith/mono"

	domain "github.com/example/syncboard/domain/task"
	"github.com/example/syncboard/events"
)

// EventPublisher publishes the canonical post-mutation result of a
// successful mutation. Publishing happens only after the store write is
// acknowledged, and failures are best-effort: a lost event is recovered by
// viewers re-seeding, never by blocking the mutation path.
type EventPublisher interface {
	TaskAdded(t domain.Task) error
	TaskUpdated(t domain.Task) error
	TaskDeleted(id string) error
}

// busPublisher publishes typed events on the mono EventBus.
type busPublisher struct {
	bus mono.EventBus
}

func newBusPublisher(bus mono.EventBus) *busPublisher {
	return &busPublisher{bus: bus}
}

func (p *busPublisher) TaskAdded(t domain.Task) error {
	return events.TaskAddedV1.Publish(p.bus, events.TaskAddedEvent{Task: t}, nil)
}

func (p *busPublisher) TaskUpdated(t domain.Task) error {
	return events.TaskUpdatedV1.Publish(p.bus, events.TaskUpdatedEvent{Task: t}, nil)
}

func (p *busPublisher) TaskDeleted(id string) error {
	return events.TaskDeletedV1.Publish(p.bus, events.TaskDeletedEvent{TaskID: id}, nil)
}
