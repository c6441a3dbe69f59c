// Package hosting holds the function table shared by the hostfxr and
// hostpolicy packages: a loaded library and the addresses of a fixed,
// ordered list of its exports.
package hosting

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hostkit/internal/native"
)

var (
	// ErrStorageTooSmall indicates a table storage size below the minimum
	// for its symbol list.
	ErrStorageTooSmall = errors.New("hosting: storage too small for function table")

	// ErrNoSymbols indicates an empty symbol list.
	ErrNoSymbols = errors.New("hosting: no symbols to resolve")
)

// Table maps the symbol at index i of its list to slot i.
type Table struct {
	lib     native.Library
	call    native.Caller
	symbols []string
	slots   []uintptr
}

// Load opens path and resolves every symbol in order. A missing symbol
// leaves its slot at 0. size is the storage the caller reserved for the
// table and must be at least minSize; the check happens before anything
// is opened.
func Load(open native.Opener, path string, symbols []string, size, minSize int, call native.Caller) (*Table, error) {
	if size < minSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrStorageTooSmall, size, minSize)
	}
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	lib, err := open(path)
	if err != nil {
		return nil, err
	}
	t := &Table{
		lib:     lib,
		call:    call,
		symbols: symbols,
		slots:   make([]uintptr, len(symbols)),
	}
	for i, name := range symbols {
		t.slots[i] = lib.Symbol(name)
	}
	return t, nil
}

// Loaded reports whether t holds an open library.
func (t *Table) Loaded() bool {
	return t != nil && t.lib != nil
}

// Address returns the address in slot, or 0.
func (t *Table) Address(slot int) uintptr {
	if !t.Loaded() || slot < 0 || slot >= len(t.slots) {
		return 0
	}
	return t.slots[slot]
}

// Has reports whether slot resolved.
func (t *Table) Has(slot int) bool {
	return t.Address(slot) != 0
}

// Exists reports whether name is in the symbol list and resolved. The
// comparison is exact.
func (t *Table) Exists(name string) bool {
	if !t.Loaded() {
		return false
	}
	for i, s := range t.symbols {
		if s == name {
			return t.slots[i] != 0
		}
	}
	return false
}

// Resolved returns the resolved symbol names in table order.
func (t *Table) Resolved() []string {
	if !t.Loaded() {
		return nil
	}
	out := make([]string, 0, len(t.symbols))
	for i, s := range t.symbols {
		if t.slots[i] != 0 {
			out = append(out, s)
		}
	}
	return out
}

// Invoke calls the function in slot. It reports false, without calling
// anything, when t is nil or the slot is empty.
func (t *Table) Invoke(slot int, args ...uintptr) (uintptr, bool) {
	fn := t.Address(slot)
	if fn == 0 {
		return 0, false
	}
	return t.call(fn, args...), true
}

// Call invokes an arbitrary function address with the table's caller.
// Used for function pointers the library hands back.
func (t *Table) Call(fn uintptr, args ...uintptr) (uintptr, bool) {
	if t == nil || t.call == nil || fn == 0 {
		return 0, false
	}
	return t.call(fn, args...), true
}

// Close unloads the library and clears every slot. Closing a nil or
// closed table is a no-op.
func (t *Table) Close() error {
	if !t.Loaded() {
		return nil
	}
	err := t.lib.Close()
	t.lib = nil
	clear(t.slots)
	return err
}
