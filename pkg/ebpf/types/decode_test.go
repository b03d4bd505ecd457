package types

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The wire layout is shared with the C program; these sizes pin it down so
// a struct change on either side fails loudly.
func TestWireLayoutSizes(t *testing.T) {
	assert.Equal(t, uintptr(552), unsafe.Sizeof(ProcessEventRaw{}))
	assert.Equal(t, uintptr(304), unsafe.Sizeof(NetworkEventRaw{}))
	assert.Equal(t, uintptr(544), unsafe.Sizeof(FileEventRaw{}))
}

func TestWireLayoutOffsets(t *testing.T) {
	var p ProcessEventRaw
	assert.Equal(t, uintptr(24), unsafe.Offsetof(p.TimestampNs))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(p.Comm))
	assert.Equal(t, uintptr(288), unsafe.Offsetof(p.Filename))
	assert.Equal(t, uintptr(544), unsafe.Offsetof(p.ExitCode))

	var n NetworkEventRaw
	assert.Equal(t, uintptr(16), unsafe.Offsetof(n.TimestampNs))
	assert.Equal(t, uintptr(280), unsafe.Offsetof(n.Family))
	assert.Equal(t, uintptr(282), unsafe.Offsetof(n.Port))
	assert.Equal(t, uintptr(284), unsafe.Offsetof(n.AddrV4))
	assert.Equal(t, uintptr(288), unsafe.Offsetof(n.AddrV6))

	var f FileEventRaw
	assert.Equal(t, uintptr(280), unsafe.Offsetof(f.Path))
	assert.Equal(t, uintptr(536), unsafe.Offsetof(f.Flags))
	assert.Equal(t, uintptr(540), unsafe.Offsetof(f.Dirfd))
}

func TestDecodeProcessEvent(t *testing.T) {
	raw := ProcessEventRaw{
		EventType:   EventProcessExec,
		Pid:         42,
		Ppid:        100,
		Uid:         1000,
		Gid:         1000,
		TimestampNs: 123456789,
	}
	copy(raw.Comm[:], "sh")
	copy(raw.Filename[:], "/usr/bin/sh")

	decoded, err := DecodeProcessEvent(rawBytes(t, unsafe.Pointer(&raw), unsafe.Sizeof(raw)))
	require.NoError(t, err)
	assert.Equal(t, EventProcessExec, decoded.EventType)
	assert.Equal(t, uint32(42), decoded.Pid)
	assert.Equal(t, uint32(100), decoded.Ppid)
	assert.Equal(t, "sh", FromCString(decoded.Comm[:]))
	assert.Equal(t, "/usr/bin/sh", FromCString(decoded.Filename[:]))
	assert.Equal(t, int32(0), decoded.ExitCode)
}

func TestDecodeTruncatedRecords(t *testing.T) {
	_, err := DecodeProcessEvent(make([]byte, 10))
	assert.Error(t, err)
	_, err = DecodeNetworkEvent(nil)
	assert.Error(t, err)
	_, err = DecodeFileEvent(make([]byte, 100))
	assert.Error(t, err)
}

func TestFromCString(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "terminated", in: []byte("hello\x00world"), want: "hello"},
		{name: "no terminator", in: []byte("no null terminator"), want: "no null terminator"},
		{name: "empty", in: []byte{0}, want: ""},
		{name: "leading nul", in: []byte{0, 'x', 'y'}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromCString(tt.in))
		})
	}
}

// A comm longer than the buffer arrives truncated but always terminated;
// userspace must get a valid string back, never an overrun.
func TestBoundedFieldTruncation(t *testing.T) {
	var raw ProcessEventRaw
	long := make([]byte, MaxCommLen+64)
	for i := range long {
		long[i] = 'a'
	}
	// the kernel-side bounded copy stops one short of capacity for the NUL
	copy(raw.Comm[:], long[:MaxCommLen-1])
	raw.Comm[MaxCommLen-1] = 0

	got := FromCString(raw.Comm[:])
	assert.Len(t, got, MaxCommLen-1)
	assert.Equal(t, string(long[:MaxCommLen-1]), got)
}

func TestDestPortAndIP(t *testing.T) {
	raw := NetworkEventRaw{
		EventType: EventNetworkConnect,
		Family:    AFInet,
		// sockaddr bytes land in the record verbatim
		Port:   binary.NativeEndian.Uint16([]byte{0x01, 0xbb}),
		AddrV4: binary.NativeEndian.Uint32([]byte{10, 0, 0, 5}),
	}

	assert.Equal(t, uint16(443), raw.DestPort())
	assert.Equal(t, "10.0.0.5", raw.DestIP().String())
	assert.Equal(t, [16]byte{}, raw.AddrV6)
}

func TestDestIPv6(t *testing.T) {
	raw := NetworkEventRaw{
		EventType: EventNetworkConnect,
		Family:    AFInet6,
		Port:      binary.NativeEndian.Uint16([]byte{0x00, 0x50}),
	}
	raw.AddrV6[15] = 1 // ::1

	assert.Equal(t, uint16(80), raw.DestPort())
	assert.Equal(t, "::1", raw.DestIP().String())
	assert.Equal(t, uint32(0), raw.AddrV4)
}

func TestDestIPUnix(t *testing.T) {
	raw := NetworkEventRaw{
		EventType: EventNetworkConnect,
		Family:    AFUnix,
	}

	assert.Nil(t, raw.DestIP())
	assert.Equal(t, uint16(0), raw.DestPort())
	assert.Equal(t, uint32(0), raw.AddrV4)
	assert.Equal(t, [16]byte{}, raw.AddrV6)
}

func rawBytes(t *testing.T, p unsafe.Pointer, size uintptr) []byte {
	t.Helper()
	return unsafe.Slice((*byte)(p), size)
}
