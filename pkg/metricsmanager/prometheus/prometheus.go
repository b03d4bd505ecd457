package metricsmanager

import (
	"net/http"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/latedeployment/roea-sensor/pkg/metricsmanager"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

const eventTypeLabel = "event_type"

var _ metricsmanager.MetricsManager = (*PrometheusMetric)(nil)

type PrometheusMetric struct {
	ebpfExecCounter    prometheus.Counter
	ebpfExitCounter    prometheus.Counter
	ebpfConnectCounter prometheus.Counter
	ebpfOpenCounter    prometheus.Counter
	ebpfFailedCounter  prometheus.Counter
	droppedCounter     *prometheus.CounterVec
}

func NewPrometheusMetric() *PrometheusMetric {
	return &PrometheusMetric{
		ebpfExecCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensor_exec_counter",
			Help: "The total number of exec events received from the eBPF probe",
		}),
		ebpfExitCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensor_exit_counter",
			Help: "The total number of exit events received from the eBPF probe",
		}),
		ebpfConnectCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensor_connect_counter",
			Help: "The total number of connect events received from the eBPF probe",
		}),
		ebpfOpenCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensor_open_counter",
			Help: "The total number of open events received from the eBPF probe",
		}),
		ebpfFailedCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sensor_ebpf_event_failure_counter",
			Help: "The total number of malformed events received from the eBPF probe",
		}),
		droppedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_dropped_event_counter",
			Help: "The total number of events dropped by the userspace queue",
		}, []string{eventTypeLabel}),
	}
}

func (p *PrometheusMetric) Start() {
	// Start prometheus metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logger.L().Info("prometheus metrics server started", helpers.Int("port", 8080), helpers.String("path", "/metrics"))
		logger.L().Fatal(http.ListenAndServe(":8080", nil).Error())
	}()
}

func (p *PrometheusMetric) Destroy() {
	prometheus.Unregister(p.ebpfExecCounter)
	prometheus.Unregister(p.ebpfExitCounter)
	prometheus.Unregister(p.ebpfConnectCounter)
	prometheus.Unregister(p.ebpfOpenCounter)
	prometheus.Unregister(p.ebpfFailedCounter)
	prometheus.Unregister(p.droppedCounter)
}

func (p *PrometheusMetric) ReportEvent(eventType utils.EventType) {
	switch eventType {
	case utils.ExecveEventType:
		p.ebpfExecCounter.Inc()
	case utils.ExitEventType:
		p.ebpfExitCounter.Inc()
	case utils.NetworkEventType:
		p.ebpfConnectCounter.Inc()
	case utils.OpenEventType:
		p.ebpfOpenCounter.Inc()
	}
}

func (p *PrometheusMetric) ReportFailedEvent() {
	p.ebpfFailedCounter.Inc()
}

func (p *PrometheusMetric) ReportDroppedEvent(eventType utils.EventType) {
	p.droppedCounter.With(prometheus.Labels{eventTypeLabel: string(eventType)}).Inc()
}
