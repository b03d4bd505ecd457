package metricsmanager

import "github.com/latedeployment/roea-sensor/pkg/utils"

var _ MetricsManager = (*MetricsMock)(nil)

type MetricsMock struct{}

func NewMetricsMock() *MetricsMock {
	return &MetricsMock{}
}

func (m *MetricsMock) Start() {
}

func (m *MetricsMock) Destroy() {
}

func (m *MetricsMock) ReportEvent(_ utils.EventType) {
}

func (m *MetricsMock) ReportFailedEvent() {
}

func (m *MetricsMock) ReportDroppedEvent(_ utils.EventType) {
}
