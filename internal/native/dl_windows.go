//go:build windows

package native

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

type winLibrary struct {
	handle windows.Handle
}

// Open loads path with LoadLibraryEx.
func Open(path string) (Library, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	h, err := windows.LoadLibraryEx(path, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrLoad, path, err)
	}
	return &winLibrary{handle: h}, nil
}

func (l *winLibrary) Symbol(name string) uintptr {
	if l.handle == 0 {
		return 0
	}
	p, err := windows.GetProcAddress(l.handle, name)
	if err != nil {
		return 0
	}
	return p
}

func (l *winLibrary) Close() error {
	if l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	return windows.FreeLibrary(h)
}

// Call invokes fn with up to MaxArgs integer arguments.
func Call(fn uintptr, args ...uintptr) uintptr {
	if len(args) > MaxArgs {
		panic(fmt.Sprintf("native: %d arguments exceed the %d supported", len(args), MaxArgs))
	}
	r, _, _ := syscall.SyscallN(fn, args...)
	return r
}
