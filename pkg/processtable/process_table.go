// Package processtable keeps a live snapshot of the processes observed by
// the capture layer: exec events insert, exit events remove. The table is a
// best-effort, point-in-time view — the capture layer may drop events under
// pressure, so the table can miss processes and must never be treated as a
// complete genealogy.
package processtable

import (
	"time"

	"github.com/google/uuid"
	"github.com/goradd/maps"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/events"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type ProcessInfo struct {
	ID        uuid.UUID `json:"id"`
	PID       uint32    `json:"pid"`
	PPID      uint32    `json:"ppid"`
	UID       uint32    `json:"uid"`
	GID       uint32    `json:"gid"`
	Name      string    `json:"name"`
	ExePath   string    `json:"exe_path,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

type ProcessTable struct {
	processes maps.SafeMap[uint32, ProcessInfo]
}

func NewProcessTable() *ProcessTable {
	return &ProcessTable{}
}

// ReportEvent feeds process events into the table. Other event categories
// are ignored; the table is an EventReceiver so it can sit on the same
// dispatch path as the exporters.
func (pt *ProcessTable) ReportEvent(eventType utils.EventType, event events.Event) {
	processEvent, ok := event.(*events.ProcessEvent)
	if !ok {
		return
	}

	switch eventType {
	case utils.ExecveEventType:
		pt.processes.Set(processEvent.PID, ProcessInfo{
			ID:        uuid.New(),
			PID:       processEvent.PID,
			PPID:      processEvent.PPID,
			UID:       processEvent.UID,
			GID:       processEvent.GID,
			Name:      processEvent.Comm,
			ExePath:   processEvent.Filename,
			StartTime: processEvent.Timestamp,
		})
	case utils.ExitEventType:
		pt.finishProcess(processEvent)
	}
}

// finishProcess removes the entry for an exited process and returns its
// final record with EndTime stamped from the exit event. An exit without an
// observed exec returns false; nothing was tracked.
func (pt *ProcessTable) finishProcess(event *events.ProcessEvent) (ProcessInfo, bool) {
	if !pt.processes.Has(event.PID) {
		return ProcessInfo{}, false
	}
	info := pt.processes.Get(event.PID)
	info.EndTime = event.Timestamp
	pt.processes.Delete(event.PID)
	logger.L().Debug("process exited",
		helpers.Int("pid", int(event.PID)),
		helpers.String("name", info.Name),
		helpers.String("lifetime", info.EndTime.Sub(info.StartTime).String()))
	return info, true
}

// Get returns the live entry for pid, if one is tracked.
func (pt *ProcessTable) Get(pid uint32) (ProcessInfo, bool) {
	if !pt.processes.Has(pid) {
		return ProcessInfo{}, false
	}
	return pt.processes.Get(pid), true
}

// Snapshot returns the currently tracked processes.
func (pt *ProcessTable) Snapshot() []ProcessInfo {
	snapshot := make([]ProcessInfo, 0, pt.processes.Len())
	pt.processes.Range(func(_ uint32, info ProcessInfo) bool {
		snapshot = append(snapshot, info)
		return true
	})
	return snapshot
}

// Len returns the number of live entries.
func (pt *ProcessTable) Len() int {
	return pt.processes.Len()
}
