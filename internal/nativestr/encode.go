// Package nativestr converts between the UTF-8 byte strings build scripts use
// and the host operating system's native char_t strings: UTF-16LE on Windows,
// raw bytes elsewhere. Every native string it produces is NUL-terminated.
package nativestr

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/hostkit/buffer"
)

var (
	// ErrSealed indicates an Add after the argument vector was materialized.
	ErrSealed = errors.New("nativestr: arguments already materialized")

	// ErrInvalidPointer indicates text that does not encode a pointer value.
	ErrInvalidPointer = errors.New("nativestr: invalid pointer text")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// AppendNarrow appends value followed by a single NUL byte.
func AppendNarrow(dst *buffer.Buffer, value []byte) error {
	if err := dst.Append(value); err != nil {
		return err
	}
	return dst.PushBack(0)
}

// AppendWide appends the UTF-16LE encoding of value followed by a 16-bit NUL.
func AppendWide(dst *buffer.Buffer, value []byte) error {
	encoded, err := EncodeWide(value)
	if err != nil {
		return err
	}
	if err := dst.Append(encoded); err != nil {
		return err
	}
	return dst.PushBackUint16(0)
}

// EncodeWide converts UTF-8 to UTF-16LE without a terminator.
func EncodeWide(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, nil
	}
	out, err := utf16le.NewEncoder().Bytes(value)
	if err != nil {
		return nil, fmt.Errorf("nativestr: encode utf-16: %w", err)
	}
	return out, nil
}

// DecodeWide converts UTF-16LE bytes to UTF-8. A trailing odd byte is ignored.
func DecodeWide(raw []byte) ([]byte, error) {
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("nativestr: decode utf-16: %w", err)
	}
	return out, nil
}

// CutNarrow returns b up to its first NUL byte.
func CutNarrow(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

// CutWide returns b up to its first 16-bit NUL unit.
func CutWide(b []byte) []byte {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i]
		}
	}
	return b[:len(b)&^1]
}
