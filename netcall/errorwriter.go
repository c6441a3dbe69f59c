package netcall

import (
	"fmt"
	"os"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// setErrorWriter redirects the diagnostics of the library behind slot.
// With a nil path the library's writer is reset and the open file, if any,
// is closed. Otherwise the previous file is closed, path is opened for
// appending and the slot's callback is installed. It returns the writer the
// library had before.
func (h *Host) setErrorWriter(slot native.ErrorSlot, path []byte) (uintptr, error) {
	setter := h.errorWriterSetter(slot)
	if setter == nil {
		return 0, ErrNotLoaded
	}

	var previous uintptr
	if path == nil {
		previous, _ = setter(0)
		native.SetErrorHandler(slot, nil)
	}
	redirected := h.errorFiles[slot] != nil
	if err := h.closeErrorFile(slot); err != nil {
		return 0, err
	}
	if path == nil {
		return previous, nil
	}

	f, err := os.OpenFile(string(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		// The old file is closed; nothing may keep writing to it.
		if redirected {
			setter(0)
			native.SetErrorHandler(slot, nil)
		}
		return 0, fmt.Errorf("netcall: open error file: %w", err)
	}
	h.errorFiles[slot] = f
	native.SetErrorHandler(slot, func(message []byte) {
		line := make([]byte, 0, len(message)+1)
		line = append(append(line, message...), '\n')
		if _, werr := f.Write(line); werr != nil {
			h.log.Warn("write error file", "path", f.Name(), "error", werr)
		}
	})
	previous, _ = setter(native.ErrorWriter(slot))
	return previous, nil
}

func (h *Host) errorWriterSetter(slot native.ErrorSlot) func(uintptr) (uintptr, bool) {
	switch slot {
	case native.HostFxrErrors:
		if h.fxr.Loaded() {
			return h.fxr.SetErrorWriter
		}
	case native.HostPolicyErrors:
		if h.policy.Loaded() {
			return h.policy.SetErrorWriter
		}
	}
	return nil
}

func (h *Host) closeErrorFile(slot native.ErrorSlot) error {
	f := h.errorFiles[slot]
	if f == nil {
		return nil
	}
	h.errorFiles[slot] = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("netcall: close error file: %w", err)
	}
	return nil
}

func setErrorWriter(slot native.ErrorSlot) Func {
	return func(h *Host, args [][]byte, out *buffer.Buffer) error {
		if err := argCount(args, 0, 1); err != nil {
			return err
		}
		var path []byte
		if len(args) == 1 {
			path = args[0]
			if path == nil {
				path = []byte{}
			}
		}
		previous, err := h.setErrorWriter(slot, path)
		if err != nil {
			return err
		}
		return nativestr.AppendPointer(out, previous)
	}
}

// HostFxrSetErrorWriter implements hostfxr::set-error-writer([file]). The
// output is the previous writer as a pointer string.
var HostFxrSetErrorWriter Func = setErrorWriter(native.HostFxrErrors)

// CoreHostSetErrorWriter implements corehost::set-error-writer([file]),
// framed like HostFxrSetErrorWriter.
var CoreHostSetErrorWriter Func = setErrorWriter(native.HostPolicyErrors)
