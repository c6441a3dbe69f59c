package nativestr

import "unsafe"

// ReadNarrow copies the NUL-terminated byte string at p. A nil p yields nil.
func ReadNarrow(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return append([]byte(nil), unsafe.Slice((*byte)(p), n)...)
}

// ReadWide decodes the NUL-terminated UTF-16LE string at p to UTF-8.
// A nil p yields nil; undecodable input yields nil.
func ReadWide(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	n := 0
	for *(*uint16)(unsafe.Add(p, 2*n)) != 0 {
		n++
	}
	out, err := DecodeWide(unsafe.Slice((*byte)(p), 2*n))
	if err != nil {
		return nil
	}
	return out
}
