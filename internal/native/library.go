// Package native loads shared libraries and calls into them.
//
// The hosting components expose plain C entry points taking integers and
// pointers, so a single call shape covers all of them: a function address
// plus up to MaxArgs pointer-sized arguments, returning one pointer-sized
// value. Callers narrow the result themselves (int32 status, uint8 flag).
//
// Three loaders exist: dlopen via cgo on unix, LoadLibraryEx on windows,
// and a stub that reports ErrUnsupported everywhere else.
package native

import "errors"

// MaxArgs is the largest argument count Call accepts.
const MaxArgs = 8

var (
	// ErrUnsupported indicates a platform without a dynamic loader.
	ErrUnsupported = errors.New("native: dynamic loading not supported on this platform")

	// ErrLoad indicates the library could not be opened.
	ErrLoad = errors.New("native: cannot load library")

	// ErrEmptyPath indicates an empty library path.
	ErrEmptyPath = errors.New("native: empty library path")
)

// Library is a loaded shared library.
type Library interface {
	// Symbol returns the address of name, or 0 when it is not exported.
	Symbol(name string) uintptr
	// Close unloads the library. Addresses obtained from it become invalid.
	Close() error
}

// Opener loads the library at path.
type Opener func(path string) (Library, error)

// Caller invokes the function at fn with args and returns its raw result.
type Caller func(fn uintptr, args ...uintptr) uintptr

// Status narrows a raw call result to the int32 status the hosting
// functions return.
func Status(r uintptr) int32 {
	return int32(uint32(r))
}

// Bool narrows a raw call result to a C bool (uint8).
func Bool(r uintptr) bool {
	return uint8(r) != 0
}
