package nativestr

import (
	"bytes"
	"strconv"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
)

const pointerBits = int(unsafe.Sizeof(uintptr(0)) * 8)

// FormatPointer renders p as lower-case hex with a 0x prefix.
func FormatPointer(p uintptr) string {
	return "0x" + strconv.FormatUint(uint64(p), 16)
}

// AppendPointer appends FormatPointer(p) to dst.
func AppendPointer(dst *buffer.Buffer, p uintptr) error {
	return dst.AppendString(FormatPointer(p))
}

// ParsePointer parses a hex pointer value with an optional 0x prefix.
// The "(nil)" spelling some C runtimes print for %p parses as 0.
func ParsePointer(text []byte) (uintptr, error) {
	s := bytes.TrimSpace(text)
	if string(s) == "(nil)" {
		return 0, nil
	}
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) == 0 {
		return 0, ErrInvalidPointer
	}
	v, err := strconv.ParseUint(string(s), 16, pointerBits)
	if err != nil {
		return 0, ErrInvalidPointer
	}
	return uintptr(v), nil
}
