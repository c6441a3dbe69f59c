// Package module exposes the hosting functions to a build engine as a flat
// set of namespaced calls.
//
// Functions are enumerated by namespace and name and identified by a
// FunctionID. All state lives in a Context created by New:
//
//	ctx := module.New(nil)
//	defer ctx.Release()
//
//	_, err := ctx.EvaluateString(`hostfxr::initialize('/usr/share/dotnet/host/fxr/8.0.0/libhostfxr.so')`)
//	if err != nil {
//	    return err
//	}
//	sdk, err := ctx.EvaluateStrings(module.HostFxrResolveSDK, "", ".")
//
// Results are UTF-8. A hosting status is part of the result; Evaluate
// returns an error only when the call could not be marshaled. See package
// netcall for the framing of each function.
package module
