package process

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

const tracerName = "process_tracer"

type Config struct {
	RingMap *ebpf.Map
	Metrics metricsmanager.MetricsManager
}

// Tracer drains the process ring buffer and reports exec and exit events.
// Both event kinds share one channel so their relative order per CPU is
// preserved.
type Tracer struct {
	config        *Config
	eventCallback func(*events.ProcessEvent)

	reader *ringbuf.Reader
	done   chan struct{}
}

func NewTracer(config *Config, eventCallback func(*events.ProcessEvent)) *Tracer {
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
		return fmt.Errorf("creating process ring buffer reader: %w", err)
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
	return utils.ExecveEventType
}

func (t *Tracer) IsEnabled(cfg config.Config) bool {
	return cfg.EnableProcessEvents
}

func (t *Tracer) run() {
	defer close(t.done)
	for {
		record, err := t.reader.Read()
		if err != nil {
			if errors.Is(err, ringbuf.ErrClosed) {
				return
			}
			logger.L().Warning("reading process ring buffer", helpers.Error(err))
			continue
		}

		t.handleRecord(record.RawSample)
	}
}

func (t *Tracer) handleRecord(sample []byte) {
	raw, err := types.DecodeProcessEvent(sample)
	if err != nil {
		logger.L().Warning("decoding process event", helpers.Error(err))
		t.config.Metrics.ReportFailedEvent()
		return
	}

	t.eventCallback(events.ParseProcessEvent(raw))
}
