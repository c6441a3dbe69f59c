package nativetest

import (
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// ReadString decodes the native string at p.
func ReadString(p uintptr) string {
	return string(nativestr.Read(unsafe.Pointer(p)))
}

// WriteString stores s as a native string into the char_t buffer at dst
// holding capacity units. It writes only when s and its NUL fit, and returns
// the number of units required either way.
func WriteString(dst uintptr, capacity int, s string) int {
	var b buffer.Buffer
	if err := nativestr.AppendString(&b, []byte(s)); err != nil {
		panic(err)
	}
	required := b.Size() / nativestr.CharSize
	if dst != 0 && required <= capacity {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(dst)), b.Size()), b.Bytes())
	}
	return required
}

// PutUintptr stores v at p.
func PutUintptr(p uintptr, v uintptr) {
	*(*uintptr)(unsafe.Pointer(p)) = v
}

// Uintptr loads the pointer-sized value at p.
func Uintptr(p uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(p))
}

// PutInt32 stores v at p.
func PutInt32(p uintptr, v int32) {
	*(*int32)(unsafe.Pointer(p)) = v
}

// Index returns element i of the pointer array at p.
func Index(p uintptr, i int) uintptr {
	return *(*uintptr)(unsafe.Add(unsafe.Pointer(p), i*int(unsafe.Sizeof(uintptr(0)))))
}

// Strings decodes argc strings from the pointer array argv.
func Strings(argc int32, argv uintptr) []string {
	out := make([]string, 0, argc)
	for i := 0; i < int(argc); i++ {
		out = append(out, ReadString(Index(argv, i)))
	}
	return out
}

// Status encodes a status code as the raw value a native int32 function
// leaves in the result register.
func Status(code int32) uintptr {
	return uintptr(uint32(code))
}
