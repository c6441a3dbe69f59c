package native

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/hostkit/internal/nativestr"
)

// Collector receives the results a native function reports through a
// callback instead of its return value. Unset fields ignore the callback.
type Collector struct {
	// Strings receives (count, const char_t** values), as reported by
	// hostfxr_get_available_sdks.
	Strings func(count int32, values uintptr)
	// KeyValue receives (key, const char_t* value), as reported by
	// hostfxr_resolve_sdk2.
	KeyValue func(key int32, value uintptr)
	// Triple receives three native strings, as reported by
	// corehost_resolve_component_dependencies.
	Triple func(a, b, c uintptr)
	// Environment receives (const info*, void* context), as reported by
	// hostfxr_get_dotnet_environment_info.
	Environment func(info, context uintptr)
}

var (
	collectMu sync.Mutex
	target    atomic.Pointer[Collector]
)

// Collect installs c as the callback target while fn runs. The result
// callbacks carry no user context, so only one collection can be active
// per process; concurrent callers wait for each other.
func Collect(c *Collector, fn func()) {
	collectMu.Lock()
	defer collectMu.Unlock()
	target.Store(c)
	defer target.Store(nil)
	fn()
}

// DeliverStrings forwards a strings callback to the active collector.
func DeliverStrings(count int32, values uintptr) {
	if c := target.Load(); c != nil && c.Strings != nil {
		c.Strings(count, values)
	}
}

// DeliverKeyValue forwards a key/value callback to the active collector.
func DeliverKeyValue(key int32, value uintptr) {
	if c := target.Load(); c != nil && c.KeyValue != nil {
		c.KeyValue(key, value)
	}
}

// DeliverTriple forwards a three-string callback to the active collector.
func DeliverTriple(a, b, c uintptr) {
	if t := target.Load(); t != nil && t.Triple != nil {
		t.Triple(a, b, c)
	}
}

// DeliverEnvironment forwards an environment-info callback to the active
// collector.
func DeliverEnvironment(info, context uintptr) {
	if c := target.Load(); c != nil && c.Environment != nil {
		c.Environment(info, context)
	}
}

// ErrorSlot selects one of the error-writer callbacks. hostfxr and
// hostpolicy keep separate writers, so each gets its own address.
type ErrorSlot int

const (
	HostFxrErrors ErrorSlot = iota
	HostPolicyErrors
	errorSlots
)

var errorHandlers [errorSlots]atomic.Pointer[func(message []byte)]

// SetErrorHandler installs fn for slot. A nil fn drops messages.
func SetErrorHandler(slot ErrorSlot, fn func(message []byte)) {
	if slot < 0 || slot >= errorSlots {
		return
	}
	if fn == nil {
		errorHandlers[slot].Store(nil)
		return
	}
	errorHandlers[slot].Store(&fn)
}

// DeliverError decodes the native message at msg and hands it to the
// slot's handler.
func DeliverError(slot ErrorSlot, msg uintptr) {
	if slot < 0 || slot >= errorSlots {
		return
	}
	h := errorHandlers[slot].Load()
	if h == nil {
		return
	}
	(*h)(nativestr.Read(unsafe.Pointer(msg)))
}

// ErrorWriter returns the native address of slot's error-writer callback,
// or 0 when the platform has none.
func ErrorWriter(slot ErrorSlot) uintptr {
	if slot < 0 || slot >= errorSlots {
		return 0
	}
	return errorWriter(slot)
}
