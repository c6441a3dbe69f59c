package hostfxr

import (
	"runtime"
	"unsafe"

	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// InitializeParameters mirrors hostfxr_initialize_parameters.
type InitializeParameters struct {
	Size       uintptr
	HostPath   uintptr
	DotnetRoot uintptr
}

// NewInitializeParameters returns a sized parameter block for the given
// native strings. Empty strings are passed as such; a null block is the
// caller's to choose.
func NewInitializeParameters(hostPath, dotnetRoot uintptr) *InitializeParameters {
	return &InitializeParameters{
		Size:       unsafe.Sizeof(InitializeParameters{}),
		HostPath:   hostPath,
		DotnetRoot: dotnetRoot,
	}
}

// ResolveSDK2Key tags a value reported by ResolveSDK2.
type ResolveSDK2Key int32

const (
	ResolvedSDKDir ResolveSDK2Key = iota
	GlobalJSONPath
)

// Close releases a host context.
func (r *Resolver) Close(handle uintptr) Status {
	return r.invoke(FnClose, handle)
}

// GetAvailableSDKs reports the installed SDK directories to fn. exeDir may
// be 0 to search next to the running host.
func (r *Resolver) GetAvailableSDKs(exeDir uintptr, fn func(dirs []string)) Status {
	if !r.Has(FnGetAvailableSDKs) {
		return Missing
	}
	var status Status
	native.Collect(&native.Collector{
		Strings: func(count int32, values uintptr) {
			if fn != nil {
				fn(readStrings(count, values))
			}
		},
	}, func() {
		status = r.invoke(FnGetAvailableSDKs, exeDir, native.StringsCallback())
	})
	return status
}

// GetNativeSearchDirectories writes the native search directories for argv
// into out, a char_t buffer. required receives the needed size in char_t
// units when out is too small.
func (r *Resolver) GetNativeSearchDirectories(argv *nativestr.Argv, out []byte, required *int32) Status {
	var p runtime.Pinner
	defer p.Unpin()
	argc, vec := argv.Vector(0)
	return r.invoke(FnGetNativeSearchDirectories,
		uintptr(argc), vec,
		native.RefSlice(&p, out), uintptr(int32(len(out)/nativestr.CharSize)),
		native.Ref(&p, required))
}

// GetRuntimeDelegate stores the runtime delegate of type t for the context
// handle into delegate.
func (r *Resolver) GetRuntimeDelegate(handle uintptr, t DelegateType, delegate *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return r.invoke(FnGetRuntimeDelegate, handle, uintptr(t), native.Ref(&p, delegate))
}

// GetRuntimeProperties fills keys and values with native string addresses.
// count holds the capacity of both slices on input and the property count
// on output.
func (r *Resolver) GetRuntimeProperties(handle uintptr, count *uintptr, keys, values []uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return r.invoke(FnGetRuntimeProperties, handle,
		native.Ref(&p, count), native.RefSlice(&p, keys), native.RefSlice(&p, values))
}

// GetRuntimePropertyValue stores the address of the value of name into
// value. The string is owned by the runtime.
func (r *Resolver) GetRuntimePropertyValue(handle, name uintptr, value *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return r.invoke(FnGetRuntimePropertyValue, handle, name, native.Ref(&p, value))
}

// InitializeForDotnetCommandLine creates a host context for running the
// application named in argv and stores it into handle.
func (r *Resolver) InitializeForDotnetCommandLine(argv *nativestr.Argv, params *InitializeParameters, handle *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	argc, vec := argv.Vector(0)
	return r.invoke(FnInitializeForDotnetCommandLine,
		uintptr(argc), vec, native.Ref(&p, params), native.Ref(&p, handle))
}

// InitializeForRuntimeConfig creates a host context from a
// .runtimeconfig.json file and stores it into handle.
func (r *Resolver) InitializeForRuntimeConfig(path uintptr, params *InitializeParameters, handle *uintptr) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return r.invoke(FnInitializeForRuntimeConfig, path, native.Ref(&p, params), native.Ref(&p, handle))
}

// Main runs the muxer with argv, as the dotnet executable does.
func (r *Resolver) Main(argv *nativestr.Argv) Status {
	argc, vec := argv.Vector(0)
	return r.invoke(FnMain, uintptr(argc), vec)
}

// MainStartupInfo runs the muxer with explicit host information.
func (r *Resolver) MainStartupInfo(argv *nativestr.Argv, hostPath, dotnetRoot, appPath uintptr) Status {
	argc, vec := argv.Vector(0)
	return r.invoke(FnMainStartupInfo, uintptr(argc), vec, hostPath, dotnetRoot, appPath)
}

// MainBundleStartupInfo runs a single-file bundle whose header starts at
// bundleHeaderOffset. The offset travels in one register, so 32-bit targets
// see only its low half.
func (r *Resolver) MainBundleStartupInfo(argv *nativestr.Argv, hostPath, dotnetRoot, appPath uintptr, bundleHeaderOffset int64) Status {
	argc, vec := argv.Vector(0)
	return r.invoke(FnMainBundleStartupInfo, uintptr(argc), vec, hostPath, dotnetRoot, appPath, uintptr(bundleHeaderOffset))
}

// ResolveSDK writes the resolved SDK directory into out, a char_t buffer.
// A positive result is the length the full path needs, in char_t units;
// when it exceeds the buffer nothing useful was written.
func (r *Resolver) ResolveSDK(exeDir, workingDir uintptr, out []byte) Status {
	var p runtime.Pinner
	defer p.Unpin()
	return r.invoke(FnResolveSDK, exeDir, workingDir,
		native.RefSlice(&p, out), uintptr(int32(len(out)/nativestr.CharSize)))
}

// ResolveSDK2 reports the resolved SDK directory and global.json path to fn.
func (r *Resolver) ResolveSDK2(exeDir, workingDir uintptr, flags int32, fn func(key ResolveSDK2Key, value string)) Status {
	if !r.Has(FnResolveSDK2) {
		return Missing
	}
	var status Status
	native.Collect(&native.Collector{
		KeyValue: func(key int32, value uintptr) {
			if fn != nil {
				fn(ResolveSDK2Key(key), string(nativestr.Read(unsafe.Pointer(value))))
			}
		},
	}, func() {
		status = r.invoke(FnResolveSDK2, exeDir, workingDir, uintptr(flags), native.KeyValueCallback())
	})
	return status
}

// RunApp runs the application the context handle was initialized for.
func (r *Resolver) RunApp(handle uintptr) Status {
	return r.invoke(FnRunApp, handle)
}

// SetErrorWriter installs writer, a native callback address or 0, and
// returns the previous one. ok is false when the export is missing.
func (r *Resolver) SetErrorWriter(writer uintptr) (previous uintptr, ok bool) {
	if r == nil {
		return 0, false
	}
	return r.table.Invoke(int(FnSetErrorWriter), writer)
}

// SetRuntimePropertyValue sets or, with a null value, removes a property.
func (r *Resolver) SetRuntimePropertyValue(handle, name, value uintptr) Status {
	return r.invoke(FnSetRuntimePropertyValue, handle, name, value)
}

func readStrings(count int32, values uintptr) []string {
	if count <= 0 || values == 0 {
		return nil
	}
	ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(values)), count)
	out := make([]string, 0, count)
	for _, ptr := range ptrs {
		out = append(out, string(nativestr.Read(unsafe.Pointer(ptr))))
	}
	return out
}
