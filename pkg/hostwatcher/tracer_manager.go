package hostwatcher

import (
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

// TracerManager manages all tracers in the host watcher
type TracerManager struct {
	tracers map[utils.EventType]TracerInterface
}

// NewTracerManager creates a new tracer manager
func NewTracerManager() *TracerManager {
	return &TracerManager{
		tracers: make(map[utils.EventType]TracerInterface),
	}
}

// RegisterTracer registers a tracer with the manager
func (tm *TracerManager) RegisterTracer(tracer TracerInterface) {
	tm.tracers[tracer.GetEventType()] = tracer
}

// GetTracer returns a tracer by event type
func (tm *TracerManager) GetTracer(eventType utils.EventType) (TracerInterface, bool) {
	tracer, exists := tm.tracers[eventType]
	return tracer, exists
}

// GetAllTracers returns all registered tracers
func (tm *TracerManager) GetAllTracers() map[utils.EventType]TracerInterface {
	return tm.tracers
}
