//go:build !windows && !(unix && cgo)

package native

// Open always fails: this build has no dynamic loader.
func Open(path string) (Library, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return nil, ErrUnsupported
}

// Call is never reached because Open cannot succeed; it reports -1.
func Call(fn uintptr, args ...uintptr) uintptr {
	return ^uintptr(0)
}
