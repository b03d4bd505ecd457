package hostwatcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type fakeTracer struct {
	name      string
	eventType utils.EventType
	enabled   bool
}

func (f *fakeTracer) Start(_ context.Context) error  { return nil }
func (f *fakeTracer) Stop() error                    { return nil }
func (f *fakeTracer) GetName() string                { return f.name }
func (f *fakeTracer) GetEventType() utils.EventType  { return f.eventType }
func (f *fakeTracer) IsEnabled(_ config.Config) bool { return f.enabled }

func TestTracerManagerRegisterAndGet(t *testing.T) {
	tm := NewTracerManager()
	tracer := &fakeTracer{name: "process_tracer", eventType: utils.ExecveEventType}
	tm.RegisterTracer(tracer)

	got, exists := tm.GetTracer(utils.ExecveEventType)
	require.True(t, exists)
	assert.Equal(t, tracer, got)

	_, exists = tm.GetTracer(utils.NetworkEventType)
	assert.False(t, exists)
}

func TestTracerManagerReplacesSameEventType(t *testing.T) {
	tm := NewTracerManager()
	tm.RegisterTracer(&fakeTracer{name: "first", eventType: utils.OpenEventType})
	replacement := &fakeTracer{name: "second", eventType: utils.OpenEventType}
	tm.RegisterTracer(replacement)

	got, exists := tm.GetTracer(utils.OpenEventType)
	require.True(t, exists)
	assert.Equal(t, "second", got.GetName())
	assert.Len(t, tm.GetAllTracers(), 1)
}

func TestTracerManagerGetAllTracers(t *testing.T) {
	tm := NewTracerManager()
	tm.RegisterTracer(&fakeTracer{name: "process_tracer", eventType: utils.ExecveEventType})
	tm.RegisterTracer(&fakeTracer{name: "network_tracer", eventType: utils.NetworkEventType})
	tm.RegisterTracer(&fakeTracer{name: "file_tracer", eventType: utils.OpenEventType})

	assert.Len(t, tm.GetAllTracers(), 3)
}
