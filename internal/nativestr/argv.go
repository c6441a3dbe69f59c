package nativestr

import (
	"runtime"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
)

// Arguments builds native strings for one call in two phases: strings are
// collected into a single store, then Materialize computes their addresses
// once nothing else will be appended.
type Arguments struct {
	store   *buffer.Buffer
	offsets []int
	sealed  bool
}

// NewArguments collects into store, which should be empty.
func NewArguments(store *buffer.Buffer) *Arguments {
	return &Arguments{store: store}
}

// Add appends value as a native string and returns its index.
func (a *Arguments) Add(value []byte) (int, error) {
	return a.add(value, AppendString)
}

// AddPath appends value as a native path and returns its index.
func (a *Arguments) AddPath(value []byte) (int, error) {
	return a.add(value, AppendSystemPath)
}

// AddAll appends each value as a native string.
func (a *Arguments) AddAll(values [][]byte) error {
	for _, v := range values {
		if _, err := a.Add(v); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of collected strings.
func (a *Arguments) Len() int {
	return len(a.offsets)
}

func (a *Arguments) add(value []byte, encode func(*buffer.Buffer, []byte) error) (int, error) {
	if a.sealed {
		return 0, ErrSealed
	}
	off := a.store.Size()
	if err := encode(a.store, value); err != nil {
		return 0, err
	}
	a.offsets = append(a.offsets, off)
	return len(a.offsets) - 1, nil
}

// Materialize pins the store and returns the pointer table. Further Adds fail.
func (a *Arguments) Materialize() *Argv {
	a.sealed = true
	v := &Argv{pointers: make([]uintptr, len(a.offsets)+1)}
	v.pinner.Pin(&v.pointers[0])

	data := a.store.Bytes()
	if len(data) == 0 {
		return v
	}
	v.pinner.Pin(&data[0])
	base := uintptr(unsafe.Pointer(&data[0]))
	for i, off := range a.offsets {
		v.pointers[i] = base + uintptr(off)
	}
	return v
}

// Argv is a NUL-terminated array of native string pointers. It stays valid
// until Release; the store it was built from must not be modified meanwhile.
type Argv struct {
	pointers []uintptr
	pinner   runtime.Pinner
}

// Len returns the number of strings.
func (v *Argv) Len() int {
	if v == nil {
		return 0
	}
	return len(v.pointers) - 1
}

// At returns the address of string i, or 0 when i is out of range.
func (v *Argv) At(i int) uintptr {
	if i < 0 || i >= v.Len() {
		return 0
	}
	return v.pointers[i]
}

// Vector returns argc and the argv address for the strings from index on.
// An empty tail or a nil v yields a null argv.
func (v *Argv) Vector(from int) (int32, uintptr) {
	if from < 0 || from >= v.Len() {
		return 0, 0
	}
	return int32(v.Len() - from), uintptr(unsafe.Pointer(&v.pointers[from]))
}

// Release unpins the store and the pointer table.
func (v *Argv) Release() {
	if v == nil {
		return
	}
	v.pinner.Unpin()
}
