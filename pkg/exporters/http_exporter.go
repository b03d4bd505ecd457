package exporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type HTTPExporterConfig struct {
	// URL is the URL to send the HTTP request to
	URL string `json:"url" mapstructure:"url"`
	// Headers is a map of headers to send in the HTTP request
	Headers map[string]string `json:"headers" mapstructure:"headers"`
	// Timeout is the timeout for the HTTP request
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
	// Method is the HTTP method to use for the HTTP request
	Method string `json:"method" mapstructure:"method"`
	// MaxRetries bounds the retry attempts for a failed delivery
	MaxRetries uint64 `json:"maxRetries" mapstructure:"maxRetries"`
}

type HTTPExporter struct {
	config     HTTPExporterConfig
	NodeName   string `json:"nodeName"`
	httpClient *http.Client
}

// HTTPEventEnvelope is the JSON body sent for each captured event.
type HTTPEventEnvelope struct {
	Kind       string       `json:"kind"`
	ApiVersion string       `json:"apiVersion"`
	NodeName   string       `json:"nodeName"`
	EventType  string       `json:"eventType"`
	Event      events.Event `json:"event"`
}

func (config *HTTPExporterConfig) Validate() error {
	if config.Method == "" {
		config.Method = "POST"
	} else if config.Method != "POST" && config.Method != "PUT" {
		return fmt.Errorf("method must be POST or PUT")
	}
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 5
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.Headers == nil {
		config.Headers = make(map[string]string)
	}
	if config.URL == "" {
		return fmt.Errorf("URL is required")
	}
	return nil
}

func InitHTTPExporter(config HTTPExporterConfig, nodeName string) (*HTTPExporter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HTTPExporter{
		NodeName: nodeName,
		config:   config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

func (exporter *HTTPExporter) SendEvent(eventType utils.EventType, event events.Event) {
	envelope := HTTPEventEnvelope{
		Kind:       "SensorEvent",
		ApiVersion: "roea.ai/v1",
		NodeName:   exporter.NodeName,
		EventType:  string(eventType),
		Event:      event,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		logger.L().Error("marshalling event envelope", helpers.Error(err))
		return
	}

	// Deliveries are retried with exponential backoff; the event is
	// abandoned once the retry budget runs out.
	operation := func() error {
		return exporter.send(body)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), exporter.config.MaxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		logger.L().Warning("dropping event after failed deliveries",
			helpers.String("eventType", string(eventType)),
			helpers.Error(err))
	}
}

func (exporter *HTTPExporter) send(body []byte) error {
	req, err := http.NewRequest(exporter.config.Method, exporter.config.URL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range exporter.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := exporter.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("event delivery rejected: status %d", resp.StatusCode)
	}

	// discard the body to reuse the connection
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
