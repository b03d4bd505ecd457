package metricsmanager

import "github.com/latedeployment/roea-sensor/pkg/utils"

// MetricsManager is an interface for reporting metrics
type MetricsManager interface {
	Start()
	Destroy()
	ReportEvent(eventType utils.EventType)
	ReportFailedEvent()
	ReportDroppedEvent(eventType utils.EventType)
}
