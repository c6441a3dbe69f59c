// Package hostfxr loads the .NET host resolver (libhostfxr / hostfxr.dll)
// and exposes its exported entry points as Go methods.
//
// # Loading
//
// Load opens the library and resolves every known export into a fixed
// table. Exports missing from older resolvers leave an empty slot; calling
// one returns Missing without touching native code, so a script can check
// with Exists before relying on newer functions.
//
//	fxr, err := hostfxr.Load("/usr/share/dotnet/host/fxr/8.0.0/libhostfxr.so", nil)
//	if err != nil {
//	    return err
//	}
//	defer fxr.Unload()
//
// # Strings
//
// Every method takes native strings as addresses built with the
// internal/nativestr package and kept alive by the caller for the duration
// of the call. Values that come back through callbacks are decoded to UTF-8
// before they reach Go code.
//
// # Status
//
// All entry points return a Status. Values 0..2 are successes; anything
// else, including Missing, is a failure. Status.String renders the symbolic
// name used in diagnostics, e.g. "[net]::HostApiBufferTooSmall (0x80008098 -2147450728 152)".
package hostfxr
