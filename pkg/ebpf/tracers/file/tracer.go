package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/ringbuf"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
	"github.com/latedeployment/roea-sensor/pkg/metricsmanager"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

const tracerName = "file_tracer"

type Config struct {
	RingMap *ebpf.Map
	Metrics metricsmanager.MetricsManager
}

// Tracer drains the file ring buffer and reports openat calls, paths
// recorded exactly as the caller passed them.
type Tracer struct {
	config        *Config
	eventCallback func(*events.FileEvent)

	reader *ringbuf.Reader
	done   chan struct{}
}

func NewTracer(config *Config, eventCallback func(*events.FileEvent)) *Tracer {
	if config.Metrics == nil {
		config.Metrics = metricsmanager.NewMetricsMock()
	}
	return &Tracer{
		config:        config,
		eventCallback: eventCallback,
	}
}

func (t *Tracer) Start(_ context.Context) error {
	reader, err := ringbuf.NewReader(t.config.RingMap)
	if err != nil {
		return fmt.Errorf("creating file ring buffer reader: %w", err)
	}
	t.reader = reader
	t.done = make(chan struct{})

	go t.run()

	return nil
}

// Stop closes the reader and waits for the read loop to finish, so no
// callback is in flight once Stop returns.
func (t *Tracer) Stop() error {
	if t.reader == nil {
		return nil
	}
	err := t.reader.Close()
	<-t.done
	return err
}

func (t *Tracer) GetName() string {
	return tracerName
}

func (t *Tracer) GetEventType() utils.EventType {
	return utils.OpenEventType
}

func (t *Tracer) IsEnabled(cfg config.Config) bool {
	return cfg.EnableFileEvents
}

func (t *Tracer) run() {
	defer close(t.done)
	for {
		record, err := t.reader.Read()
		if err != nil {
			if errors.Is(err, ringbuf.ErrClosed) {
				return
			}
			logger.L().Warning("reading file ring buffer", helpers.Error(err))
			continue
		}

		t.handleRecord(record.RawSample)
	}
}

func (t *Tracer) handleRecord(sample []byte) {
	raw, err := types.DecodeFileEvent(sample)
	if err != nil {
		logger.L().Warning("decoding file event", helpers.Error(err))
		t.config.Metrics.ReportFailedEvent()
		return
	}

	t.eventCallback(events.ParseFileEvent(raw))
}
