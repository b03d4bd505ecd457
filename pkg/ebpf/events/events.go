// Package events holds the parsed event model handed to event receivers.
// Raw wire records from pkg/ebpf/types are converted here exactly once, at
// the tracer boundary; consumers never see kernel byte layouts.
package events

import (
	"fmt"
	"net"
	"time"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

type Event interface {
	GetEventType() utils.EventType
	GetPID() uint32
	GetComm() string
	GetTimestamp() time.Time
}

// ProcessEvent reports an exec or exit. Filename is set for exec events
// only; ExitCode is meaningful for exit events only. PPID is a best-effort
// snapshot of the parent at capture time, which for exits may differ from
// the parent at spawn time if the process was reparented.
type ProcessEvent struct {
	Type      utils.EventType `json:"type"`
	PID       uint32          `json:"pid"`
	PPID      uint32          `json:"ppid"`
	UID       uint32          `json:"uid"`
	GID       uint32          `json:"gid"`
	Timestamp time.Time       `json:"timestamp"`
	Comm      string          `json:"comm"`
	Filename  string          `json:"filename,omitempty"`
	ExitCode  int32           `json:"exit_code,omitempty"`
}

func (e *ProcessEvent) GetEventType() utils.EventType { return e.Type }
func (e *ProcessEvent) GetPID() uint32                { return e.PID }
func (e *ProcessEvent) GetComm() string               { return e.Comm }
func (e *ProcessEvent) GetTimestamp() time.Time       { return e.Timestamp }

// NetworkEvent reports a connect attempt. Addr is nil for unix sockets.
type NetworkEvent struct {
	Type      utils.EventType `json:"type"`
	PID       uint32          `json:"pid"`
	UID       uint32          `json:"uid"`
	Timestamp time.Time       `json:"timestamp"`
	Comm      string          `json:"comm"`
	Family    uint16          `json:"family"`
	Port      uint16          `json:"port"`
	Addr      net.IP          `json:"addr,omitempty"`
}

func (e *NetworkEvent) GetEventType() utils.EventType { return e.Type }
func (e *NetworkEvent) GetPID() uint32                { return e.PID }
func (e *NetworkEvent) GetComm() string               { return e.Comm }
func (e *NetworkEvent) GetTimestamp() time.Time       { return e.Timestamp }

// Address renders the destination the way the agent logs it: host:port for
// inet families, "unix" for local sockets.
func (e *NetworkEvent) Address() string {
	switch e.Family {
	case types.AFInet:
		return fmt.Sprintf("%s:%d", e.Addr.String(), e.Port)
	case types.AFInet6:
		return fmt.Sprintf("[%s]:%d", e.Addr.String(), e.Port)
	case types.AFUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// FileEvent reports an openat call. Path is recorded exactly as passed by
// the caller: relative paths are not resolved, DirFD carries their base.
type FileEvent struct {
	Type      utils.EventType `json:"type"`
	PID       uint32          `json:"pid"`
	UID       uint32          `json:"uid"`
	Timestamp time.Time       `json:"timestamp"`
	Comm      string          `json:"comm"`
	Path      string          `json:"path"`
	Flags     int32           `json:"flags"`
	DirFD     int32           `json:"dirfd"`
}

func (e *FileEvent) GetEventType() utils.EventType { return e.Type }
func (e *FileEvent) GetPID() uint32                { return e.PID }
func (e *FileEvent) GetComm() string               { return e.Comm }
func (e *FileEvent) GetTimestamp() time.Time       { return e.Timestamp }

// ParseProcessEvent converts a raw process record. The producer zeroes the
// fields that do not apply to the record's type, so no masking is needed
// here beyond mapping the type tag.
func ParseProcessEvent(raw *types.ProcessEventRaw) *ProcessEvent {
	eventType := utils.ExecveEventType
	if raw.EventType == types.EventProcessExit {
		eventType = utils.ExitEventType
	}
	return &ProcessEvent{
		Type:      eventType,
		PID:       raw.Pid,
		PPID:      raw.Ppid,
		UID:       raw.Uid,
		GID:       raw.Gid,
		Timestamp: time.Unix(0, int64(raw.TimestampNs)),
		Comm:      types.FromCString(raw.Comm[:]),
		Filename:  types.FromCString(raw.Filename[:]),
		ExitCode:  raw.ExitCode,
	}
}

func ParseNetworkEvent(raw *types.NetworkEventRaw) *NetworkEvent {
	return &NetworkEvent{
		Type:      utils.NetworkEventType,
		PID:       raw.Pid,
		UID:       raw.Uid,
		Timestamp: time.Unix(0, int64(raw.TimestampNs)),
		Comm:      types.FromCString(raw.Comm[:]),
		Family:    raw.Family,
		Port:      raw.DestPort(),
		Addr:      raw.DestIP(),
	}
}

func ParseFileEvent(raw *types.FileEventRaw) *FileEvent {
	return &FileEvent{
		Type:      utils.OpenEventType,
		PID:       raw.Pid,
		UID:       raw.Uid,
		Timestamp: time.Unix(0, int64(raw.TimestampNs)),
		Comm:      types.FromCString(raw.Comm[:]),
		Path:      types.FromCString(raw.Path[:]),
		Flags:     raw.Flags,
		DirFD:     raw.Dirfd,
	}
}
