package hostfxr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/joshuapare/hostkit/internal/hosting"
	"github.com/joshuapare/hostkit/internal/native"
)

// Function identifies a slot in the resolver table.
type Function int

// Slots in load order. The order matches Symbols.
const (
	FnClose Function = iota
	FnGetAvailableSDKs
	FnGetNativeSearchDirectories
	FnGetRuntimeDelegate
	FnGetRuntimeProperties
	FnGetRuntimePropertyValue
	FnInitializeForDotnetCommandLine
	FnInitializeForRuntimeConfig
	FnMain
	FnMainBundleStartupInfo
	FnMainStartupInfo
	FnResolveSDK
	FnResolveSDK2
	FnRunApp
	FnSetErrorWriter
	FnSetRuntimePropertyValue
	FnGetDotnetEnvironmentInfo
	functionCount
)

// Symbols lists the exports resolved at load time, indexed by Function.
var Symbols = []string{
	FnClose:                          "hostfxr_close",
	FnGetAvailableSDKs:               "hostfxr_get_available_sdks",
	FnGetNativeSearchDirectories:     "hostfxr_get_native_search_directories",
	FnGetRuntimeDelegate:             "hostfxr_get_runtime_delegate",
	FnGetRuntimeProperties:           "hostfxr_get_runtime_properties",
	FnGetRuntimePropertyValue:        "hostfxr_get_runtime_property_value",
	FnInitializeForDotnetCommandLine: "hostfxr_initialize_for_dotnet_command_line",
	FnInitializeForRuntimeConfig:     "hostfxr_initialize_for_runtime_config",
	FnMain:                           "hostfxr_main",
	FnMainBundleStartupInfo:          "hostfxr_main_bundle_startupinfo",
	FnMainStartupInfo:                "hostfxr_main_startupinfo",
	FnResolveSDK:                     "hostfxr_resolve_sdk",
	FnResolveSDK2:                    "hostfxr_resolve_sdk2",
	FnRunApp:                         "hostfxr_run_app",
	FnSetErrorWriter:                 "hostfxr_set_error_writer",
	FnSetRuntimePropertyValue:        "hostfxr_set_runtime_property_value",
	FnGetDotnetEnvironmentInfo:       "hostfxr_get_dotnet_environment_info",
}

// Prefix is the common prefix of every resolver export.
const Prefix = "hostfxr_"

// StorageSize is the table storage a caller must reserve: the library
// handle plus one address per export, padded to the next 16-byte boundary.
const StorageSize = (int(functionCount)+1)*int(unsafe.Sizeof(uintptr(0)))/16*16 + 16

// ErrNotLoaded indicates a call on a nil or unloaded Resolver.
var ErrNotLoaded = errors.New("hostfxr: resolver not loaded")

// Options configures Load.
type Options struct {
	// Storage is the table size the caller reserved. Values below
	// StorageSize are rejected before the library is opened.
	// Default: StorageSize
	Storage int

	// Opener loads the library.
	// Default: native.Open
	Opener native.Opener

	// Caller invokes resolved functions.
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

// Resolver is a loaded host resolver.
type Resolver struct {
	table *hosting.Table
	log   *slog.Logger
}

// Load opens the resolver at path and resolves its exports.
func Load(path string, opts *Options) (*Resolver, error) {
	o := opts.withDefaults()
	t, err := hosting.Load(o.Opener, path, Symbols, o.Storage, StorageSize, o.Caller)
	if err != nil {
		return nil, fmt.Errorf("hostfxr: load %q: %w", path, err)
	}
	r := &Resolver{table: t, log: o.Logger}
	r.log.Debug("hostfxr loaded", "path", path, "exports", len(t.Resolved()))
	return r, nil
}

// Loaded reports whether r holds an open library.
func (r *Resolver) Loaded() bool {
	return r != nil && r.table.Loaded()
}

// Unload releases the library. It is safe on a nil or unloaded Resolver.
func (r *Resolver) Unload() error {
	if r == nil {
		return nil
	}
	return r.table.Close()
}

// Exists reports whether the export name resolved. The match is exact.
func (r *Resolver) Exists(name string) bool {
	return r != nil && r.table.Exists(name)
}

// Has reports whether fn resolved.
func (r *Resolver) Has(fn Function) bool {
	return r != nil && r.table.Has(int(fn))
}

// Functions returns the resolved export names without the "hostfxr_"
// prefix, in table order.
func (r *Resolver) Functions() []string {
	if r == nil {
		return nil
	}
	names := r.table.Resolved()
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, Prefix)
	}
	return names
}

// CallPointer invokes a function pointer obtained from the runtime, such
// as a delegate, through the resolver's caller.
func (r *Resolver) CallPointer(fn uintptr, args ...uintptr) (uintptr, bool) {
	if r == nil {
		return 0, false
	}
	return r.table.Call(fn, args...)
}

func (r *Resolver) invoke(fn Function, args ...uintptr) Status {
	if r == nil {
		return Missing
	}
	raw, ok := r.table.Invoke(int(fn), args...)
	if !ok {
		return Missing
	}
	return FromRaw(raw)
}
