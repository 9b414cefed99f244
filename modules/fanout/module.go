// Package fanout bridges committed mutation events to every connected
// viewer over websocket. It is the edge of the fanout channel: the mono
// event bus carries events between modules, and the hub pushes the
// resulting frames to the outside world.
package fanout

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/syncboard/events"
)

// FanoutModule consumes task mutation events and broadcasts them to
// connected websocket clients.
type FanoutModule struct {
	hub       *Hub
	cancelHub context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*FanoutModule)(nil)
var _ mono.EventConsumerModule = (*FanoutModule)(nil)
var _ mono.HealthCheckableModule = (*FanoutModule)(nil)

// NewModule creates a new FanoutModule.
func NewModule() *FanoutModule {
	return &FanoutModule{
		hub: NewHub(),
	}
}

// Name returns the module name.
func (m *FanoutModule) Name() string {
	return "fanout"
}

// Start starts the hub loop.
func (m *FanoutModule) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	log.Println("[fanout] Module started - websocket hub running")
	return nil
}

// Stop shuts down the hub.
func (m *FanoutModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	log.Printf("[fanout] Module stopped - %d clients were connected", clientCount)
	return nil
}

// Health returns the health status.
func (m *FanoutModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to the task mutation events.
func (m *FanoutModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskAddedV1, m.handleTaskAdded, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskAdded consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskUpdatedV1, m.handleTaskUpdated, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.TaskDeletedV1, m.handleTaskDeleted, m,
	); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Println("[fanout] Registered event consumers: TaskAdded, TaskUpdated, TaskDeleted")
	return nil
}

func (m *FanoutModule) handleTaskAdded(_ context.Context, event events.TaskAddedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(events.AddedFrame(event.Task))
	return nil
}

func (m *FanoutModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(events.UpdatedFrame(event.Task))
	return nil
}

func (m *FanoutModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(events.DeletedFrame(event.TaskID))
	return nil
}

// GetHub returns the websocket hub for the API module to use.
func (m *FanoutModule) GetHub() *Hub {
	return m.hub
}
