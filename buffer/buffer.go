package buffer

import (
	"strconv"

	"github.com/joshuapare/hostkit/internal/buf"
)

// MaxCapacity is the capacity ceiling: 2^31 on 64-bit targets, 2^30 otherwise.
// Keeping it below the int range lets size arithmetic stay signed.
const MaxCapacity = 1 << (30 + strconv.IntSize/64)

const (
	minCapacity = 2

	// shrinkThreshold is the smallest capacity ShrinkToFit will consider.
	shrinkThreshold = 512

	freeSlot = -1
)

// Buffer is an owned, resizable byte region. The zero value is an empty buffer.
type Buffer struct {
	data []byte // len(data) is the capacity
	size int
}

// CalculateCapacity returns the smallest power of two >= size, starting at 2
// and clamped to MaxCapacity.
func CalculateCapacity(size int) int {
	capacity := minCapacity
	for capacity < size && capacity < MaxCapacity {
		capacity <<= 1
	}
	if capacity > MaxCapacity {
		return MaxCapacity
	}
	return capacity
}

// Size returns the logical length, or -1 for a free pool slot.
func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return b.size
}

// Cap returns the allocated length.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns the logical contents. The slice aliases the buffer and is
// only valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.size <= 0 {
		return nil
	}
	return b.data[:b.size]
}

// String returns a copy of the logical contents as a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Data returns the contents starting at index, or nil when the buffer is
// unallocated or index is outside [0, Size()).
func (b *Buffer) Data(index int) []byte {
	if b == nil || b.data == nil || index < 0 || index >= b.size {
		return nil
	}
	return b.data[index:b.size]
}

// Resize sets the logical length to n. Growing past the capacity reallocates
// to CalculateCapacity(n) and keeps the existing bytes; shrinking never
// reallocates.
func (b *Buffer) Resize(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if len(b.data) < n {
		if n > MaxCapacity {
			return ErrCapacity
		}
		b.realloc(CalculateCapacity(n))
	}
	b.size = n
	return nil
}

// Extend grows the logical length by n bytes without writing them.
// A zero n is a no-op.
func (b *Buffer) Extend(n int) error {
	if n < 0 || b.size < 0 {
		return ErrNegativeSize
	}
	if n == 0 {
		return nil
	}
	if len(b.data)-b.size < n {
		if !buf.FitsWithin(len(b.data), n, MaxCapacity) {
			return ErrCapacity
		}
		b.realloc(CalculateCapacity(len(b.data) + n))
	}
	b.size += n
	return nil
}

// Append copies p after the current logical end.
func (b *Buffer) Append(p []byte) error {
	start := b.size
	if err := b.Extend(len(p)); err != nil {
		return err
	}
	copy(b.data[start:], p)
	return nil
}

// AppendString copies s after the current logical end.
func (b *Buffer) AppendString(s string) error {
	start := b.size
	if err := b.Extend(len(s)); err != nil {
		return err
	}
	copy(b.data[start:], s)
	return nil
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// PushBack appends a single byte.
func (b *Buffer) PushBack(c byte) error {
	if err := b.Extend(1); err != nil {
		return err
	}
	b.data[b.size-1] = c
	return nil
}

// PushBackUint16 appends v in the host byte order.
func (b *Buffer) PushBackUint16(v uint16) error {
	if err := b.Extend(2); err != nil {
		return err
	}
	buf.PutU16(b.data[b.size-2:], v)
	return nil
}

// PushBackUint32 appends v in the host byte order.
func (b *Buffer) PushBackUint32(v uint32) error {
	if err := b.Extend(4); err != nil {
		return err
	}
	buf.PutU32(b.data[b.size-4:], v)
	return nil
}

// ShrinkToFit reallocates down to CalculateCapacity(Size()) when the current
// capacity is at least 512 bytes and strictly larger. Reports whether it
// reallocated.
func (b *Buffer) ShrinkToFit() bool {
	if b == nil || b.size < 0 || len(b.data) < shrinkThreshold {
		return false
	}
	capacity := CalculateCapacity(b.size)
	if capacity >= len(b.data) {
		return false
	}
	b.realloc(capacity)
	return true
}

// Release frees the backing storage and zeroes size and capacity.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.data = nil
	b.size = 0
}

func (b *Buffer) realloc(capacity int) {
	data := make([]byte, capacity)
	if b.size > 0 {
		copy(data, b.data[:b.size])
	}
	b.data = data
}
