package hostwatcher

import (
	"context"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type HostWatcher interface {
	Ready() bool
	Start(ctx context.Context) error
	Stop()
}

// EventReceiver consumes captured events after they have crossed the
// userspace queue. Receivers must not block: a slow receiver delays every
// event behind it on the dispatch goroutine.
type EventReceiver interface {
	ReportEvent(eventType utils.EventType, event events.Event)
}

// TracerInterface defines the common interface for all eBPF tracers
type TracerInterface interface {
	// Start initializes and starts the tracer
	Start(ctx context.Context) error

	// Stop gracefully stops the tracer
	Stop() error

	// GetName returns the unique name of the tracer
	GetName() string

	// GetEventType returns the event type this tracer produces
	GetEventType() utils.EventType

	// IsEnabled checks if this tracer should be enabled based on configuration
	IsEnabled(cfg config.Config) bool
}
