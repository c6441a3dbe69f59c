package hostpolicy

import (
	"runtime"
	"unsafe"

	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// ContextContract mirrors corehost_context_contract. The policy fills the
// function pointers when corehost_initialize is called with
// OptionGetContract.
type ContextContract struct {
	Version            uintptr
	GetPropertyValue   uintptr
	SetPropertyValue   uintptr
	GetProperties      uintptr
	LoadRuntime        uintptr
	RunApp             uintptr
	GetRuntimeDelegate uintptr
}

// contractEntryMissing is returned when the policy left an entry empty.
const contractEntryMissing Status = 1

// Contract owns a pinned ContextContract and calls through it.
type Contract struct {
	raw    *ContextContract
	pinner runtime.Pinner
	call   native.Caller
}

// NewContract returns an initialized contract whose entries are invoked
// with call, or native.Call when call is nil.
func NewContract(call native.Caller) *Contract {
	if call == nil {
		call = native.Call
	}
	c := &Contract{raw: new(ContextContract), call: call}
	c.pinner.Pin(c.raw)
	c.Reset()
	return c
}

// Reset zeroes every entry and sets the version field.
func (c *Contract) Reset() {
	if c == nil || c.raw == nil {
		return
	}
	*c.raw = ContextContract{Version: unsafe.Sizeof(uintptr(0))}
}

// Raw exposes the native structure.
func (c *Contract) Raw() *ContextContract {
	if c == nil {
		return nil
	}
	return c.raw
}

// Address returns the address handed to native code, or 0 for a nil c.
func (c *Contract) Address() uintptr {
	if c == nil || c.raw == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(c.raw))
}

// Release unpins the structure. The contract must not be used afterwards.
func (c *Contract) Release() {
	if c == nil || c.raw == nil {
		return
	}
	c.pinner.Unpin()
	c.raw = nil
}

func (c *Contract) invoke(entry func(*ContextContract) uintptr, args ...uintptr) Status {
	if c == nil || c.raw == nil {
		return hostfxr.Missing
	}
	fn := entry(c.raw)
	if fn == 0 {
		return contractEntryMissing
	}
	return hostfxr.FromRaw(c.call(fn, args...))
}

// PropertyValue stores the address of the value of key into value.
func (c *Contract) PropertyValue(key uintptr, value *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return c.invoke(func(r *ContextContract) uintptr { return r.GetPropertyValue }, key, native.Ref(&p, value))
}

// SetProperty sets key to value, or removes it when value is 0.
func (c *Contract) SetProperty(key, value uintptr) Status {
	return c.invoke(func(r *ContextContract) uintptr { return r.SetPropertyValue }, key, value)
}

// Properties fills keys and values with native string addresses. count
// holds the capacity on input and the property count on output.
func (c *Contract) Properties(count *uintptr, keys, values []uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return c.invoke(func(r *ContextContract) uintptr { return r.GetProperties },
		native.Ref(&p, count), native.RefSlice(&p, keys), native.RefSlice(&p, values))
}

// Load loads the runtime.
func (c *Contract) Load() Status {
	return c.invoke(func(r *ContextContract) uintptr { return r.LoadRuntime })
}

// Run runs the application with argv.
func (c *Contract) Run(argv *nativestr.Argv) Status {
	argc, vec := argv.Vector(0)
	return c.invoke(func(r *ContextContract) uintptr { return r.RunApp }, uintptr(argc), vec)
}

// Delegate stores the runtime delegate of type t into delegate.
func (c *Contract) Delegate(t hostfxr.DelegateType, delegate *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return c.invoke(func(r *ContextContract) uintptr { return r.GetRuntimeDelegate },
		uintptr(uint32(t)), native.Ref(&p, delegate))
}
