// Package nativetest provides an in-process stand-in for native hosting
// libraries. Functions are Go closures registered under symbol names and
// dispatched by fake address, so code built on native.Opener and
// native.Caller can be exercised without a .NET installation.
package nativetest

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// Func is a scripted native function. It receives the raw arguments.
type Func func(args []uintptr) uintptr

const (
	addressBase   = 0x10000
	addressStride = 0x10
)

// Host is a fake library loader and caller. The zero value is not usable;
// call New.
type Host struct {
	mu      sync.Mutex
	symbols map[string]uintptr
	funcs   map[uintptr]Func
	names   map[uintptr]string
	calls   map[string]int
	next    uintptr
	keep    []any

	// OpenErr, when set, is returned by Open.
	OpenErr error
	// Opened records every path passed to Open.
	Opened []string
	// Closed counts Library.Close calls.
	Closed int
}

// New returns an empty Host.
func New() *Host {
	return &Host{
		symbols: make(map[string]uintptr),
		funcs:   make(map[uintptr]Func),
		names:   make(map[uintptr]string),
		calls:   make(map[string]int),
		next:    addressBase,
	}
}

// Define exports fn under name and returns h for chaining.
func (h *Host) Define(name string, fn Func) *Host {
	addr := h.Register(fn)
	h.mu.Lock()
	h.symbols[name] = addr
	h.names[addr] = name
	h.mu.Unlock()
	return h
}

// Register assigns fn a fake address without exporting it. Use it for
// function pointers a native call hands back, such as delegates.
func (h *Host) Register(fn Func) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	addr := h.next
	h.next += addressStride
	h.funcs[addr] = fn
	return addr
}

// Open implements native.Opener.
func (h *Host) Open(path string) (native.Library, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Opened = append(h.Opened, path)
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	return &library{host: h}, nil
}

// Call implements native.Caller. Calling an unknown address panics, which
// points at a dispatch bug in the code under test.
func (h *Host) Call(fn uintptr, args ...uintptr) uintptr {
	h.mu.Lock()
	f, ok := h.funcs[fn]
	if name, named := h.names[fn]; named {
		h.calls[name]++
	}
	h.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("nativetest: call to unknown address %#x", fn))
	}
	return f(args)
}

// Calls returns how many times the exported function name was called.
func (h *Host) Calls(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[name]
}

// String returns the address of s as a NUL-terminated native string that
// stays valid for the lifetime of h.
func (h *Host) String(s string) uintptr {
	var b buffer.Buffer
	if err := nativestr.AppendString(&b, []byte(s)); err != nil {
		panic(err)
	}
	data := b.Bytes()
	h.hold(data)
	return uintptr(unsafe.Pointer(&data[0]))
}

// Pointers returns the address of an array holding ptrs, valid for the
// lifetime of h.
func (h *Host) Pointers(ptrs ...uintptr) uintptr {
	if len(ptrs) == 0 {
		return 0
	}
	arr := append([]uintptr(nil), ptrs...)
	h.hold(arr)
	return uintptr(unsafe.Pointer(&arr[0]))
}

// Hold keeps v reachable for the lifetime of h. Use it for structures whose
// address is handed to the code under test.
func (h *Host) Hold(v any) {
	h.hold(v)
}

func (h *Host) hold(v any) {
	h.mu.Lock()
	h.keep = append(h.keep, v)
	h.mu.Unlock()
}

type library struct {
	host   *Host
	closed bool
}

func (l *library) Symbol(name string) uintptr {
	if l.closed {
		return 0
	}
	l.host.mu.Lock()
	defer l.host.mu.Unlock()
	return l.host.symbols[name]
}

func (l *library) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.host.mu.Lock()
	l.host.Closed++
	l.host.mu.Unlock()
	return nil
}
