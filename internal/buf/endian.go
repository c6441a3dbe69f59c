// Package buf contains bounds and byte-order helpers shared by the buffer
// and marshaling packages.
package buf

import "encoding/binary"

// PutU16 writes v in the host byte order. Returns false when b is too short.
func PutU16(b []byte, v uint16) bool {
	if len(b) < 2 {
		return false
	}
	binary.NativeEndian.PutUint16(b, v)
	return true
}

// PutU32 writes v in the host byte order. Returns false when b is too short.
func PutU32(b []byte, v uint32) bool {
	if len(b) < 4 {
		return false
	}
	binary.NativeEndian.PutUint32(b, v)
	return true
}

// U16 reads a host-order uint16 from b. Returns 0 when b is too short.
func U16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.NativeEndian.Uint16(b)
}

// U32 reads a host-order uint32 from b. Returns 0 when b is too short.
func U32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.NativeEndian.Uint32(b)
}
