package hostpolicy

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/hosting"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// Function identifies a slot in the policy table.
type Function int

const (
	FnInitialize Function = iota
	FnLoad
	FnMain
	FnMainWithOutputBuffer
	FnResolveComponentDependencies
	FnSetErrorWriter
	FnUnload
)

// Symbols lists the exports resolved at load time, indexed by Function.
var Symbols = []string{
	FnInitialize:                   "corehost_initialize",
	FnLoad:                         "corehost_load",
	FnMain:                         "corehost_main",
	FnMainWithOutputBuffer:         "corehost_main_with_output_buffer",
	FnResolveComponentDependencies: "corehost_resolve_component_dependencies",
	FnSetErrorWriter:               "corehost_set_error_writer",
	FnUnload:                       "corehost_unload",
}

// Prefix is the common prefix of every policy export.
const Prefix = "corehost_"

// StorageSize is the minimum table storage a caller must reserve.
const StorageSize = 96

// Status is the result code type shared with the resolver.
type Status = hostfxr.Status

// Options configures Load.
type Options struct {
	// Storage is the table size the caller reserved.
	// Default: StorageSize
	Storage int

	// Opener loads the library.
	// Default: native.Open
	Opener native.Opener

	// Caller invokes resolved functions and contract entries.
	// Default: native.Call
	Caller native.Caller

	// Logger receives load diagnostics.
	// Default: a logger that discards everything
	Logger *slog.Logger
}

// DefaultOptions returns the options Load uses for a nil *Options.
func DefaultOptions() *Options {
	return &Options{
		Storage: StorageSize,
		Opener:  native.Open,
		Caller:  native.Call,
		Logger:  slog.New(slog.DiscardHandler),
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.Storage == 0 {
		out.Storage = d.Storage
	}
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

// ErrInvalidOption indicates an unknown initialize option name.
var ErrInvalidOption = errors.New("hostpolicy: invalid initialize option")

// InitializeOption is the options argument of corehost_initialize.
type InitializeOption int32

const (
	OptionNone               InitializeOption = 0
	OptionWaitForInitialized InitializeOption = 1
	OptionGetContract        InitializeOption = 2
	// OptionContextContractVersionSet is 0x80000000: the contract's
	// version field was filled in by the caller.
	OptionContextContractVersionSet InitializeOption = -0x80000000
)

var optionNames = map[string]InitializeOption{
	"none":                         OptionNone,
	"wait_for_initialized":         OptionWaitForInitialized,
	"get_contract":                 OptionGetContract,
	"context_contract_version_set": OptionContextContractVersionSet,
}

// ParseInitializeOption accepts an option name or an integer. Integers may
// be decimal or 0x-prefixed hex and are taken modulo 2^32.
func ParseInitializeOption(s string) (InitializeOption, error) {
	if o, ok := optionNames[s]; ok {
		return o, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || v < -0x80000000 || v > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOption, s)
	}
	return InitializeOption(int32(uint32(v))), nil
}

// Policy is a loaded host policy library.
type Policy struct {
	table *hosting.Table
	log   *slog.Logger
}

// Load opens the policy library at path and resolves its exports.
func Load(path string, opts *Options) (*Policy, error) {
	o := opts.withDefaults()
	t, err := hosting.Load(o.Opener, path, Symbols, o.Storage, StorageSize, o.Caller)
	if err != nil {
		return nil, fmt.Errorf("hostpolicy: load %q: %w", path, err)
	}
	p := &Policy{table: t, log: o.Logger}
	p.log.Debug("hostpolicy loaded", "path", path, "exports", len(t.Resolved()))
	return p, nil
}

// Loaded reports whether p holds an open library.
func (p *Policy) Loaded() bool {
	return p != nil && p.table.Loaded()
}

// Close releases the library. It does not call corehost_unload.
func (p *Policy) Close() error {
	if p == nil {
		return nil
	}
	return p.table.Close()
}

// Exists reports whether the export name resolved. The match is exact.
func (p *Policy) Exists(name string) bool {
	return p != nil && p.table.Exists(name)
}

// Has reports whether fn resolved.
func (p *Policy) Has(fn Function) bool {
	return p != nil && p.table.Has(int(fn))
}

// Functions returns the resolved export names without the "corehost_"
// prefix, in table order.
func (p *Policy) Functions() []string {
	if p == nil {
		return nil
	}
	names := p.table.Resolved()
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, Prefix)
	}
	return names
}

func (p *Policy) invoke(fn Function, args ...uintptr) Status {
	if p == nil {
		return hostfxr.Missing
	}
	raw, ok := p.table.Invoke(int(fn), args...)
	if !ok {
		return hostfxr.Missing
	}
	return hostfxr.FromRaw(raw)
}

// Initialize calls corehost_initialize. request and contract may be nil.
func (p *Policy) Initialize(request *Request, option InitializeOption, contract *Contract) Status {
	return p.invoke(FnInitialize, request.Address(), uintptr(uint32(option)), contract.Address())
}

// LoadHost calls corehost_load with a host_interface address, which may
// be 0.
func (p *Policy) LoadHost(hostInterface uintptr) Status {
	return p.invoke(FnLoad, hostInterface)
}

// Main calls corehost_main with argv.
func (p *Policy) Main(argv *nativestr.Argv) Status {
	argc, vec := argv.Vector(0)
	return p.invoke(FnMain, uintptr(argc), vec)
}

// MainWithOutputBuffer calls corehost_main_with_output_buffer. out is a
// char_t buffer; required receives the size the output needs, in char_t
// units.
func (p *Policy) MainWithOutputBuffer(argv *nativestr.Argv, out []byte, required *int32) Status {
	var pin runtime.Pinner
	defer pin.Unpin()
	argc, vec := argv.Vector(0)
	return p.invoke(FnMainWithOutputBuffer, uintptr(argc), vec,
		native.RefSlice(&pin, out), uintptr(int32(len(out)/nativestr.CharSize)),
		native.Ref(&pin, required))
}

// Dependencies are the search paths resolved for a component.
type Dependencies struct {
	AssemblyPaths       string
	NativeSearchPaths   string
	ResourceSearchPaths string
}

// ResolveComponentDependencies resolves the dependencies of the component
// whose main assembly is at path and reports them to fn.
func (p *Policy) ResolveComponentDependencies(path uintptr, fn func(Dependencies)) Status {
	if !p.Has(FnResolveComponentDependencies) {
		return hostfxr.Missing
	}
	var status Status
	native.Collect(&native.Collector{
		Triple: func(a, n, r uintptr) {
			if fn != nil {
				fn(Dependencies{
					AssemblyPaths:       readString(a),
					NativeSearchPaths:   readString(n),
					ResourceSearchPaths: readString(r),
				})
			}
		},
	}, func() {
		status = p.invoke(FnResolveComponentDependencies, path, native.TripleCallback())
	})
	return status
}

// SetErrorWriter installs writer and returns the previous one. ok is false
// when the export is missing.
func (p *Policy) SetErrorWriter(writer uintptr) (previous uintptr, ok bool) {
	if p == nil {
		return 0, false
	}
	return p.table.Invoke(int(FnSetErrorWriter), writer)
}

// Unload calls corehost_unload. The library itself stays loaded.
func (p *Policy) Unload() Status {
	return p.invoke(FnUnload)
}

func readString(p uintptr) string {
	return string(nativestr.Read(unsafe.Pointer(p)))
}
