package file

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
	"github.com/latedeployment/roea-sensor/pkg/metricsmanager"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type failureCountingMetrics struct {
	metricsmanager.MetricsMock
	failed int
}

func (m *failureCountingMetrics) ReportFailedEvent() {
	m.failed++
}

func TestTracerIdentity(t *testing.T) {
	tracer := NewTracer(&Config{}, nil)
	assert.Equal(t, "file_tracer", tracer.GetName())
	assert.Equal(t, utils.OpenEventType, tracer.GetEventType())
}

func TestTracerIsEnabled(t *testing.T) {
	tracer := NewTracer(&Config{}, nil)
	assert.True(t, tracer.IsEnabled(config.Config{EnableFileEvents: true}))
	assert.False(t, tracer.IsEnabled(config.Config{EnableFileEvents: false}))
}

func TestTracerStopWithoutStart(t *testing.T) {
	tracer := NewTracer(&Config{}, nil)
	assert.NoError(t, tracer.Stop())
}

func TestHandleRecordDeliversEvent(t *testing.T) {
	var got *events.FileEvent
	tracer := NewTracer(&Config{}, func(event *events.FileEvent) {
		got = event
	})

	raw := types.FileEventRaw{
		EventType: types.EventFileOpen,
		Pid:       9,
		Dirfd:     3,
	}
	copy(raw.Comm[:], "cat")
	copy(raw.Path[:], "config.json")
	tracer.handleRecord(unsafe.Slice((*byte)(unsafe.Pointer(&raw)), unsafe.Sizeof(raw)))

	require.NotNil(t, got)
	assert.Equal(t, "config.json", got.Path)
	assert.Equal(t, int32(3), got.DirFD)
}

func TestHandleRecordCountsDecodeFailure(t *testing.T) {
	metrics := &failureCountingMetrics{}
	tracer := NewTracer(&Config{Metrics: metrics}, func(_ *events.FileEvent) {
		t.Fatal("callback invoked for an undecodable sample")
	})

	tracer.handleRecord(make([]byte, 16))

	assert.Equal(t, 1, metrics.failed)
}
