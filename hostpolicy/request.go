package hostpolicy

import (
	"runtime"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// StringArguments mirrors the (length, argv) pairs inside
// corehost_initialize_request.
type StringArguments struct {
	Length    uintptr
	Arguments uintptr
}

// InitializeRequest mirrors corehost_initialize_request.
type InitializeRequest struct {
	Version      uintptr
	ConfigKeys   StringArguments
	ConfigValues StringArguments
}

// Request owns a pinned InitializeRequest and the string vectors it points
// at.
type Request struct {
	raw    *InitializeRequest
	pinner runtime.Pinner
	keys   stringVector
	values stringVector
}

// NewRequest returns an empty request.
func NewRequest() *Request {
	r := &Request{raw: new(InitializeRequest)}
	r.pinner.Pin(r.raw)
	return r
}

// Raw exposes the native structure.
func (r *Request) Raw() *InitializeRequest {
	if r == nil {
		return nil
	}
	return r.raw
}

// Address returns the address handed to native code, or 0 for a nil r.
func (r *Request) Address() uintptr {
	if r == nil || r.raw == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(r.raw))
}

// Reset clears the structure and drops both vectors.
func (r *Request) Reset() {
	if r == nil || r.raw == nil {
		return
	}
	*r.raw = InitializeRequest{}
	r.keys.release()
	r.values.release()
}

// SetConfigKeys replaces the configuration keys.
func (r *Request) SetConfigKeys(keys [][]byte) error {
	argv, err := r.keys.replace(keys, false)
	r.raw.ConfigKeys = vector(argv)
	return err
}

// SetConfigValues replaces the configuration values.
func (r *Request) SetConfigValues(values [][]byte) error {
	argv, err := r.values.replace(values, false)
	r.raw.ConfigValues = vector(argv)
	return err
}

// Release drops the vectors and unpins the structure.
func (r *Request) Release() {
	if r == nil || r.raw == nil {
		return
	}
	r.Reset()
	r.pinner.Unpin()
	r.raw = nil
}

// stringVector owns the native strings behind one vector field.
type stringVector struct {
	store buffer.Buffer
	argv  *nativestr.Argv
}

// replace rebuilds the vector from values, encoding them as system paths
// when path is set. On failure it returns a nil vector, leaving the field
// empty rather than pointing at reused memory.
func (s *stringVector) replace(values [][]byte, path bool) (*nativestr.Argv, error) {
	s.argv.Release()
	s.argv = nil
	if err := s.store.Resize(0); err != nil {
		return nil, err
	}
	args := nativestr.NewArguments(&s.store)
	for _, v := range values {
		add := args.Add
		if path {
			add = args.AddPath
		}
		if _, err := add(v); err != nil {
			return nil, err
		}
	}
	s.argv = args.Materialize()
	return s.argv, nil
}

func (s *stringVector) release() {
	s.argv.Release()
	s.argv = nil
	s.store.Release()
}

func vector(argv *nativestr.Argv) StringArguments {
	n, p := argv.Vector(0)
	return StringArguments{Length: uintptr(n), Arguments: p}
}
