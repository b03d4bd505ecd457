package exporters

import (
	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

// generic exporter interface
type Exporter interface {
	// SendEvent delivers one captured event to the exporter's sink.
	SendEvent(eventType utils.EventType, event events.Event)
}

var _ Exporter = (*ExporterMock)(nil)

type ExporterMock struct{}

func (e *ExporterMock) SendEvent(_ utils.EventType, _ events.Event) {
}
