package native

import (
	"runtime"
	"unsafe"
)

// Ref pins v and returns its address. A nil v yields 0.
func Ref[T any](p *runtime.Pinner, v *T) uintptr {
	if v == nil {
		return 0
	}
	p.Pin(v)
	return uintptr(unsafe.Pointer(v))
}

// RefSlice pins the backing array of s and returns the address of its
// first element. An empty s yields 0.
func RefSlice[T any](p *runtime.Pinner, s []T) uintptr {
	if len(s) == 0 {
		return 0
	}
	p.Pin(&s[0])
	return uintptr(unsafe.Pointer(&s[0]))
}
