package events

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latedeployment/roea-sensor/pkg/ebpf/types"
	"github.com/latedeployment/roea-sensor/pkg/utils"
)

func TestParseProcessEventExec(t *testing.T) {
	raw := &types.ProcessEventRaw{
		EventType:   types.EventProcessExec,
		Pid:         1234,
		Ppid:        100,
		Uid:         1000,
		Gid:         1000,
		TimestampNs: 1_700_000_000_000_000_000,
	}
	copy(raw.Comm[:], "sh")
	copy(raw.Filename[:], "/usr/bin/sh")

	event := ParseProcessEvent(raw)
	assert.Equal(t, utils.ExecveEventType, event.GetEventType())
	assert.Equal(t, uint32(1234), event.GetPID())
	assert.Equal(t, uint32(100), event.PPID)
	assert.Equal(t, "sh", event.GetComm())
	assert.Equal(t, "/usr/bin/sh", event.Filename)
	assert.Equal(t, int32(0), event.ExitCode)
	assert.Equal(t, int64(1_700_000_000_000_000_000), event.GetTimestamp().UnixNano())
}

func TestParseProcessEventExit(t *testing.T) {
	raw := &types.ProcessEventRaw{
		EventType: types.EventProcessExit,
		Pid:       1234,
		Ppid:      100,
		ExitCode:  1,
	}
	copy(raw.Comm[:], "sh")

	event := ParseProcessEvent(raw)
	assert.Equal(t, utils.ExitEventType, event.GetEventType())
	assert.Equal(t, int32(1), event.ExitCode)
	assert.Empty(t, event.Filename)
}

func TestParseNetworkEventInet(t *testing.T) {
	raw := &types.NetworkEventRaw{
		EventType: types.EventNetworkConnect,
		Pid:       55,
		Family:    types.AFInet,
		Port:      binary.NativeEndian.Uint16([]byte{0x01, 0xbb}),
		AddrV4:    binary.NativeEndian.Uint32([]byte{10, 0, 0, 5}),
	}
	copy(raw.Comm[:], "curl")

	event := ParseNetworkEvent(raw)
	assert.Equal(t, utils.NetworkEventType, event.GetEventType())
	assert.Equal(t, uint16(443), event.Port)
	assert.Equal(t, "10.0.0.5", event.Addr.String())
	assert.Equal(t, "10.0.0.5:443", event.Address())
}

func TestParseNetworkEventInet6(t *testing.T) {
	raw := &types.NetworkEventRaw{
		EventType: types.EventNetworkConnect,
		Family:    types.AFInet6,
		Port:      binary.NativeEndian.Uint16([]byte{0x00, 0x50}),
	}
	raw.AddrV6[15] = 1

	event := ParseNetworkEvent(raw)
	assert.Equal(t, "[::1]:80", event.Address())
}

func TestParseNetworkEventUnix(t *testing.T) {
	raw := &types.NetworkEventRaw{
		EventType: types.EventNetworkConnect,
		Family:    types.AFUnix,
	}

	event := ParseNetworkEvent(raw)
	assert.Nil(t, event.Addr)
	assert.Equal(t, "unix", event.Address())
}

func TestNetworkEventAddressUnknownFamily(t *testing.T) {
	event := &NetworkEvent{Family: 16} // AF_NETLINK, never produced by the capture program
	assert.Equal(t, "unknown", event.Address())
}

func TestParseFileEvent(t *testing.T) {
	raw := &types.FileEventRaw{
		EventType: types.EventFileOpen,
		Pid:       77,
		Flags:     0, // O_RDONLY
		Dirfd:     3,
	}
	copy(raw.Comm[:], "cat")
	copy(raw.Path[:], "config.json")

	event := ParseFileEvent(raw)
	assert.Equal(t, utils.OpenEventType, event.GetEventType())
	// the path is kept as passed to openat, not resolved against dirfd
	assert.Equal(t, "config.json", event.Path)
	assert.Equal(t, int32(3), event.DirFD)
	assert.Equal(t, int32(0), event.Flags)
}

func TestParseFileEventUnreadablePath(t *testing.T) {
	raw := &types.FileEventRaw{
		EventType: types.EventFileOpen,
		Pid:       78,
	}
	copy(raw.Comm[:], "bad")

	event := ParseFileEvent(raw)
	assert.Empty(t, event.Path)
}
