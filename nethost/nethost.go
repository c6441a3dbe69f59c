// Package nethost locates the host resolver through the nethost library
// shipped with the .NET SDK.
package nethost

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// Symbol is the only export nethost is used for.
const Symbol = "get_hostfxr_path"

var (
	// ErrSymbolMissing indicates a nethost library without get_hostfxr_path.
	ErrSymbolMissing = errors.New("nethost: get_hostfxr_path not exported")

	// ErrFailed indicates get_hostfxr_path returned a failure status.
	ErrFailed = errors.New("nethost: get_hostfxr_path failed")
)

// Parameters mirrors get_hostfxr_parameters.
type Parameters struct {
	Size         uintptr
	AssemblyPath uintptr
	DotnetRoot   uintptr
}

// Options configures GetHostFxrPath.
type Options struct {
	// Opener loads the nethost library.
	// Default: native.Open
	Opener native.Opener

	// Caller invokes get_hostfxr_path.
	// Default: native.Call
	Caller native.Caller

	// Logger receives diagnostics.
	// Default: a logger that discards everything
	Logger *slog.Logger
}

// DefaultOptions returns the options used for a nil *Options.
func DefaultOptions() *Options {
	return &Options{
		Opener: native.Open,
		Caller: native.Call,
		Logger: slog.New(slog.DiscardHandler),
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.Opener == nil {
		out.Opener = d.Opener
	}
	if out.Caller == nil {
		out.Caller = d.Caller
	}
	if out.Logger == nil {
		out.Logger = d.Logger
	}
	return &out
}

// GetHostFxrPath loads the nethost library at libraryPath and asks it for
// the resolver path. assemblyPath and dotnetRoot are optional hints; when
// both are empty no parameter block is passed. The library is unloaded
// before returning.
func GetHostFxrPath(libraryPath, assemblyPath, dotnetRoot string, opts *Options) (path string, err error) {
	o := opts.withDefaults()

	var store buffer.Buffer
	defer store.Release()
	args := nativestr.NewArguments(&store)
	for _, v := range []string{assemblyPath, dotnetRoot} {
		if _, err := args.AddPath([]byte(v)); err != nil {
			return "", fmt.Errorf("nethost: %w", err)
		}
	}
	argv := args.Materialize()
	defer argv.Release()

	var params *Parameters
	if assemblyPath != "" || dotnetRoot != "" {
		params = &Parameters{Size: unsafe.Sizeof(Parameters{})}
		if assemblyPath != "" {
			params.AssemblyPath = argv.At(0)
		}
		if dotnetRoot != "" {
			params.DotnetRoot = argv.At(1)
		}
	}

	lib, err := o.Opener(libraryPath)
	if err != nil {
		return "", fmt.Errorf("nethost: load %q: %w", libraryPath, err)
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("nethost: unload: %w", cerr)
		}
	}()
	fn := lib.Symbol(Symbol)
	if fn == 0 {
		return "", ErrSymbolMissing
	}

	out, required, status := query(o.Caller, fn, params, nativestr.PathMax)
	if status == hostfxr.HostApiBufferTooSmall && required >= nativestr.PathMax {
		out, _, status = query(o.Caller, fn, params, required)
	}
	if status.Failed() {
		o.Logger.Debug("get_hostfxr_path failed", "status", status.String())
		return "", fmt.Errorf("%w: %s", ErrFailed, status)
	}
	decoded, err := nativestr.Decode(nativestr.Cut(out))
	if err != nil {
		return "", fmt.Errorf("nethost: %w", err)
	}
	return string(decoded), nil
}

// query calls get_hostfxr_path with a buffer of size char_t units and
// returns it together with the size the function reported.
func query(call native.Caller, fn uintptr, params *Parameters, size int) ([]byte, int, hostfxr.Status) {
	var p runtime.Pinner
	defer p.Unpin()
	out := make([]byte, size*nativestr.CharSize)
	required := uintptr(size)
	status := hostfxr.FromRaw(call(fn,
		native.RefSlice(&p, out), native.Ref(&p, &required), native.Ref(&p, params)))
	return out, int(required), status
}
