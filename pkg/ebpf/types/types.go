// Package types mirrors the fixed-layout records produced by the kernel
// capture program in pkg/ebpf/bpf/sensor.bpf.c. The structs here must match
// the C definitions byte for byte: the ring buffer hands us raw memory and
// decoding is a cast, not a parse.
package types

// Event types emitted by the BPF program.
const (
	EventProcessExec    uint32 = 1
	EventProcessExit    uint32 = 2
	EventNetworkConnect uint32 = 3
	EventFileOpen       uint32 = 4
)

// Address families recorded by the connect handler. Everything else is
// filtered in the kernel before a ring buffer slot is reserved.
const (
	AFUnix  uint16 = 1
	AFInet  uint16 = 2
	AFInet6 uint16 = 10
)

// Buffer capacities, matching MAX_COMM_LEN / MAX_FILENAME_LEN / MAX_PATH_LEN
// in the BPF program.
const (
	MaxCommLen     = 256
	MaxFilenameLen = 256
	MaxPathLen     = 256
)

// Ring buffer map names and capacities as declared in the BPF program.
const (
	ProcessRingMap = "events"
	NetworkRingMap = "network_events"
	FileRingMap    = "file_events"

	ProcessRingSize = 256 * 1024
	NetworkRingSize = 128 * 1024
	FileRingSize    = 128 * 1024
)

// Program names as declared in the BPF program, used by the loader to
// attach each handler to its hook point.
const (
	ProgHandleExec    = "handle_exec"
	ProgHandleExit    = "handle_exit"
	ProgHandleConnect = "handle_connect"
	ProgHandleOpenat  = "handle_openat"
)

// ProcessEventRaw is the wire layout of struct process_event. EventType
// selects EXEC or EXIT semantics: Filename is populated for EXEC only and
// ExitCode for EXIT only, the other is zeroed by the producer.
type ProcessEventRaw struct {
	EventType   uint32
	Pid         uint32
	Ppid        uint32
	Uid         uint32
	Gid         uint32
	_           [4]byte
	TimestampNs uint64
	Comm        [MaxCommLen]byte
	Filename    [MaxFilenameLen]byte
	ExitCode    int32
	_           [4]byte
}

// NetworkEventRaw is the wire layout of struct network_event. Port and
// AddrV4 hold the sockaddr bytes verbatim, i.e. network byte order; use
// DestPort and DestIP for decoded values. Exactly one of AddrV4/AddrV6 is
// meaningful, selected by Family; AF_UNIX records carry neither.
type NetworkEventRaw struct {
	EventType   uint32
	Pid         uint32
	Uid         uint32
	_           [4]byte
	TimestampNs uint64
	Comm        [MaxCommLen]byte
	Family      uint16
	Port        uint16
	AddrV4      uint32
	AddrV6      [16]byte
}

// FileEventRaw is the wire layout of struct file_event. Path is recorded as
// passed to openat: possibly relative, resolved against Dirfd (AT_FDCWD for
// the working directory), never canonicalized here.
type FileEventRaw struct {
	EventType   uint32
	Pid         uint32
	Uid         uint32
	_           [4]byte
	TimestampNs uint64
	Comm        [MaxCommLen]byte
	Path        [MaxPathLen]byte
	Flags       int32
	Dirfd       int32
}
