package exporters

import (
	"os"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type ExportersConfig struct {
	StdoutExporter       *bool               `mapstructure:"stdoutExporter"`
	HTTPExporterConfig   *HTTPExporterConfig `mapstructure:"httpExporterConfig"`
	CsvEventExporterPath string              `mapstructure:"csvEventExporterPath"`
}

// ExporterBus is the single point of contact for all exporters: every
// captured event is fanned out to each configured sink.
type ExporterBus struct {
	exporters []Exporter
}

// InitExporters initializes all exporters.
func InitExporters(exportersConfig ExportersConfig, nodeName string) *ExporterBus {
	var exporters []Exporter
	stdoutExp := InitStdoutExporter(exportersConfig.StdoutExporter, nodeName)
	if stdoutExp != nil {
		exporters = append(exporters, stdoutExp)
	}
	csvExp := InitCsvExporter(exportersConfig.CsvEventExporterPath)
	if csvExp != nil {
		exporters = append(exporters, csvExp)
	}
	if exportersConfig.HTTPExporterConfig == nil {
		if httpURL := os.Getenv("HTTP_ENDPOINT_URL"); httpURL != "" {
			exportersConfig.HTTPExporterConfig = &HTTPExporterConfig{URL: httpURL}
		}
	}
	if exportersConfig.HTTPExporterConfig != nil {
		httpExp, err := InitHTTPExporter(*exportersConfig.HTTPExporterConfig, nodeName)
		if err != nil {
			logger.L().Error("failed to initialize http exporter", helpers.Error(err))
		} else {
			exporters = append(exporters, httpExp)
		}
	}

	if len(exporters) == 0 {
		logger.L().Warning("no exporters configured, captured events will only feed the process table")
	} else {
		logger.L().Info("exporters initialized", helpers.Int("count", len(exporters)))
	}

	return &ExporterBus{exporters: exporters}
}

func (bus *ExporterBus) SendEvent(eventType utils.EventType, event events.Event) {
	for _, exp := range bus.exporters {
		exp.SendEvent(eventType, event)
	}
}

// ReportEvent lets the bus sit directly on the host watcher's dispatch path.
func (bus *ExporterBus) ReportEvent(eventType utils.EventType, event events.Event) {
	bus.SendEvent(eventType, event)
}
