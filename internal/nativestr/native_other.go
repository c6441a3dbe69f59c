//go:build !windows

package nativestr

import (
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
)

// Wide reports whether char_t is a 16-bit unit on this platform.
const Wide = false

// PathMax is the first buffer size, in char_t units, offered to functions
// that write a path (FILENAME_MAX on glibc).
const PathMax = 4096

// CharSize is the size of one char_t in bytes.
const CharSize = 1

// AppendString appends value as a native string.
func AppendString(dst *buffer.Buffer, value []byte) error {
	return AppendNarrow(dst, value)
}

// AppendSystemPath appends value as a native path.
func AppendSystemPath(dst *buffer.Buffer, value []byte) error {
	return AppendNarrow(dst, value)
}

// Read returns the UTF-8 form of the native string at p.
func Read(p unsafe.Pointer) []byte {
	return ReadNarrow(p)
}

// Decode converts native bytes (without terminator) to UTF-8.
func Decode(b []byte) ([]byte, error) {
	return append([]byte(nil), b...), nil
}

// Cut returns b up to its first native NUL.
func Cut(b []byte) []byte {
	return CutNarrow(b)
}
