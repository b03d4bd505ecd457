package types

import (
	"encoding/binary"
	"fmt"
	"net"
	"unsafe"
)

// Decoding casts the raw ring buffer sample onto the wire struct after a
// length check, the same way the gadget tracers convert perf records.

func DecodeProcessEvent(raw []byte) (*ProcessEventRaw, error) {
	if len(raw) < int(unsafe.Sizeof(ProcessEventRaw{})) {
		return nil, fmt.Errorf("truncated process event: got %d bytes, want %d", len(raw), unsafe.Sizeof(ProcessEventRaw{}))
	}
	return (*ProcessEventRaw)(unsafe.Pointer(&raw[0])), nil
}

func DecodeNetworkEvent(raw []byte) (*NetworkEventRaw, error) {
	if len(raw) < int(unsafe.Sizeof(NetworkEventRaw{})) {
		return nil, fmt.Errorf("truncated network event: got %d bytes, want %d", len(raw), unsafe.Sizeof(NetworkEventRaw{}))
	}
	return (*NetworkEventRaw)(unsafe.Pointer(&raw[0])), nil
}

func DecodeFileEvent(raw []byte) (*FileEventRaw, error) {
	if len(raw) < int(unsafe.Sizeof(FileEventRaw{})) {
		return nil, fmt.Errorf("truncated file event: got %d bytes, want %d", len(raw), unsafe.Sizeof(FileEventRaw{}))
	}
	return (*FileEventRaw)(unsafe.Pointer(&raw[0])), nil
}

// FromCString returns the content of a NUL-terminated buffer, or the whole
// buffer if no terminator is present.
func FromCString(in []byte) string {
	for i := 0; i < len(in); i++ {
		if in[i] == 0 {
			return string(in[:i])
		}
	}
	return string(in)
}

// DestPort returns the destination port in host byte order. The raw field
// holds the sockaddr bytes verbatim, so round-tripping through native
// endianness recovers the wire bytes regardless of host order.
func (e *NetworkEventRaw) DestPort() uint16 {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], e.Port)
	return binary.BigEndian.Uint16(b[:])
}

// DestIP returns the destination address, nil for AF_UNIX records.
func (e *NetworkEventRaw) DestIP() net.IP {
	switch e.Family {
	case AFInet:
		var b [4]byte
		binary.NativeEndian.PutUint32(b[:], e.AddrV4)
		return net.IP(b[:])
	case AFInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, e.AddrV6[:])
		return ip
	default:
		return nil
	}
}
