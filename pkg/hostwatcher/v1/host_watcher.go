package hostwatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/config"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/loader"
	filetracer "github.com/latedeployment/roea-sensor/pkg/ebpf/tracers/file"
	networktracer "github.com/latedeployment/roea-sensor/pkg/ebpf/tracers/network"
	processtracer "github.com/latedeployment/roea-sensor/pkg/ebpf/tracers/process"
	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
	"github.com/latedeployment/roea-sensor/pkg/hostwatcher"
	"github.com/latedeployment/roea-sensor/pkg/metricsmanager"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

var _ hostwatcher.HostWatcher = (*EBPFHostWatcher)(nil)

// tracerPrograms maps each tracer's event category to the kernel handlers
// feeding its ring buffer. Disabled categories get their handlers detached
// so the kernel does not keep filling a ring nobody drains.
var tracerPrograms = map[utils.EventType][]string{
	utils.ExecveEventType:  {types.ProgHandleExec, types.ProgHandleExit},
	utils.NetworkEventType: {types.ProgHandleConnect},
	utils.OpenEventType:    {types.ProgHandleOpenat},
}

// EBPFHostWatcher owns the capture pipeline: the loaded kernel program, one
// tracer per ring buffer, the bounded userspace queue, and the receivers
// the events fan out to.
type EBPFHostWatcher struct {
	cfg           config.Config
	loader        *loader.Loader
	tracerManager *hostwatcher.TracerManager
	queue         *eventQueue
	receivers     []hostwatcher.EventReceiver
	metrics       metricsmanager.MetricsManager

	dispatchDone chan struct{}
	running      bool
	mu           sync.Mutex
}

func CreateHostWatcher(cfg config.Config, metrics metricsmanager.MetricsManager, receivers ...hostwatcher.EventReceiver) *EBPFHostWatcher {
	return &EBPFHostWatcher{
		cfg:           cfg,
		tracerManager: hostwatcher.NewTracerManager(),
		queue:         newEventQueue(cfg.EventQueueSize),
		receivers:     receivers,
		metrics:       metrics,
		dispatchDone:  make(chan struct{}),
	}
}

func (w *EBPFHostWatcher) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *EBPFHostWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	// Fresh queue per start so a stopped watcher can be started again.
	w.queue = newEventQueue(w.cfg.EventQueueSize)
	w.dispatchDone = make(chan struct{})

	l, err := loader.New(w.cfg.BPFObjectPath)
	if err != nil {
		return fmt.Errorf("loading capture program: %w", err)
	}
	w.loader = l

	if err := w.registerTracers(); err != nil {
		w.loader.Close()
		return err
	}

	go w.dispatch()

	started := 0
	for _, tracer := range w.tracerManager.GetAllTracers() {
		if !tracer.IsEnabled(w.cfg) {
			logger.L().Info("tracer disabled by configuration", helpers.String("tracer", tracer.GetName()))
			for _, progName := range tracerPrograms[tracer.GetEventType()] {
				if err := w.loader.Detach(progName); err != nil {
					logger.L().Warning("detaching disabled handler", helpers.String("program", progName), helpers.Error(err))
				}
			}
			continue
		}
		if err := tracer.Start(ctx); err != nil {
			w.stopLocked()
			return fmt.Errorf("starting %s: %w", tracer.GetName(), err)
		}
		started++
	}
	if started == 0 {
		w.stopLocked()
		return fmt.Errorf("no tracers enabled")
	}

	logger.L().Info("host watcher started", helpers.Int("tracers", started))
	w.running = true
	return nil
}

func (w *EBPFHostWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.stopLocked()
	w.running = false
}

// stopLocked tears down in reverse order of Start: readers first so the
// queue stops filling, then the queue, then the kernel program.
func (w *EBPFHostWatcher) stopLocked() {
	for _, tracer := range w.tracerManager.GetAllTracers() {
		if err := tracer.Stop(); err != nil {
			logger.L().Warning("stopping tracer", helpers.String("tracer", tracer.GetName()), helpers.Error(err))
		}
	}
	w.queue.close()
	<-w.dispatchDone
	if w.loader != nil {
		w.loader.Close()
	}
}

func (w *EBPFHostWatcher) registerTracers() error {
	processMap, err := w.loader.RingMap(types.ProcessRingMap)
	if err != nil {
		return err
	}
	networkMap, err := w.loader.RingMap(types.NetworkRingMap)
	if err != nil {
		return err
	}
	fileMap, err := w.loader.RingMap(types.FileRingMap)
	if err != nil {
		return err
	}

	w.tracerManager.RegisterTracer(processtracer.NewTracer(
		&processtracer.Config{RingMap: processMap, Metrics: w.metrics},
		func(event *events.ProcessEvent) {
			w.handleEvent(event.Type, event)
		}))
	w.tracerManager.RegisterTracer(networktracer.NewTracer(
		&networktracer.Config{RingMap: networkMap, Metrics: w.metrics},
		func(event *events.NetworkEvent) {
			w.handleEvent(utils.NetworkEventType, event)
		}))
	w.tracerManager.RegisterTracer(filetracer.NewTracer(
		&filetracer.Config{RingMap: fileMap, Metrics: w.metrics},
		func(event *events.FileEvent) {
			w.handleEvent(utils.OpenEventType, event)
		}))

	return nil
}

// handleEvent runs on the tracer read goroutines. It must not block: a full
// queue drops the event and counts the drop, mirroring the kernel-side
// policy.
func (w *EBPFHostWatcher) handleEvent(eventType utils.EventType, event events.Event) {
	w.metrics.ReportEvent(eventType)
	if !w.queue.enqueue(eventType, event) {
		w.metrics.ReportDroppedEvent(eventType)
	}
}

func (w *EBPFHostWatcher) dispatch() {
	defer close(w.dispatchDone)
	for qe := range w.queue.ch {
		for _, receiver := range w.receivers {
			receiver.ReportEvent(qe.eventType, qe.event)
		}
	}
}
