package hostfxr

import "fmt"

// Status is the int32 result code returned by the hosting components.
type Status int32

// errorBase is 0x80000000 interpreted as int32.
const errorBase Status = -0x80000000

const (
	Success                           Status = 0
	SuccessHostAlreadyInitialized     Status = 1
	SuccessDifferentRuntimeProperties Status = 2

	// WinInvalidArg is E_INVALIDARG, returned by some Windows code paths.
	WinInvalidArg Status = errorBase + 0x70057

	// Missing is reported when the called export was not resolved.
	Missing Status = -1
)

const (
	InvalidArgFailure Status = errorBase + 0x8081 + iota
	CoreHostLibLoadFailure
	CoreHostLibMissingFailure
	CoreHostEntryPointFailure
	CoreHostCurHostFindFailure
)

const (
	CoreClrResolveFailure Status = errorBase + 0x8087 + iota
	CoreClrBindFailure
	CoreClrInitFailure
	CoreClrExeFailure
	ResolverInitFailure
	ResolverResolveFailure
	LibHostCurExeFindFailure
	LibHostInitFailure
)

const (
	LibHostSdkFindFailure Status = errorBase + 0x8091 + iota
	LibHostInvalidArgs
	InvalidConfigFile
	AppArgNotRunnable
	AppHostExeNotBoundFailure
	FrameworkMissingFailure
	HostApiFailed
	HostApiBufferTooSmall
	LibHostUnknownCommand
	LibHostAppRootFindFailure
	SdkResolverResolveFailure
	FrameworkCompatFailure
	FrameworkCompatRetry
	AppHostExeNotBundle
	BundleExtractionFailure
	BundleExtractionIOError
	LibHostDuplicateProperty
	HostApiUnsupportedVersion
	HostInvalidState
	HostPropertyNotFound
	CoreHostIncompatibleConfig
	HostApiUnsupportedScenario
)

var statusNames = map[Status]string{
	Success:                           "[net]::Success",
	SuccessHostAlreadyInitialized:     "[net]::Success_HostAlreadyInitialized",
	SuccessDifferentRuntimeProperties: "[net]::Success_DifferentRuntimeProperties",
	WinInvalidArg:                     "[win]::E_INVALIDARG",
	InvalidArgFailure:                 "[net]::InvalidArgFailure",
	CoreHostLibLoadFailure:            "[net]::CoreHostLibLoadFailure",
	CoreHostLibMissingFailure:         "[net]::CoreHostLibMissingFailure",
	CoreHostEntryPointFailure:         "[net]::CoreHostEntryPointFailure",
	CoreHostCurHostFindFailure:        "[net]::CoreHostCurHostFindFailure",
	CoreClrResolveFailure:             "[net]::CoreClrResolveFailure",
	CoreClrBindFailure:                "[net]::CoreClrBindFailure",
	CoreClrInitFailure:                "[net]::CoreClrInitFailure",
	CoreClrExeFailure:                 "[net]::CoreClrExeFailure",
	ResolverInitFailure:               "[net]::ResolverInitFailure",
	ResolverResolveFailure:            "[net]::ResolverResolveFailure",
	LibHostCurExeFindFailure:          "[net]::LibHostCurExeFindFailure",
	LibHostInitFailure:                "[net]::LibHostInitFailure",
	LibHostSdkFindFailure:             "[net]::LibHostSdkFindFailure",
	LibHostInvalidArgs:                "[net]::LibHostInvalidArgs",
	InvalidConfigFile:                 "[net]::InvalidConfigFile",
	AppArgNotRunnable:                 "[net]::AppArgNotRunnable",
	AppHostExeNotBoundFailure:         "[net]::AppHostExeNotBoundFailure",
	FrameworkMissingFailure:           "[net]::FrameworkMissingFailure",
	HostApiFailed:                     "[net]::HostApiFailed",
	HostApiBufferTooSmall:             "[net]::HostApiBufferTooSmall",
	LibHostUnknownCommand:             "[net]::LibHostUnknownCommand",
	LibHostAppRootFindFailure:         "[net]::LibHostAppRootFindFailure",
	SdkResolverResolveFailure:         "[net]::SdkResolverResolveFailure",
	FrameworkCompatFailure:            "[net]::FrameworkCompatFailure",
	FrameworkCompatRetry:              "[net]::FrameworkCompatRetry",
	AppHostExeNotBundle:               "[net]::AppHostExeNotBundle",
	BundleExtractionFailure:           "[net]::BundleExtractionFailure",
	BundleExtractionIOError:           "[net]::BundleExtractionIOError",
	LibHostDuplicateProperty:          "[net]::LibHostDuplicateProperty",
	HostApiUnsupportedVersion:         "[net]::HostApiUnsupportedVersion",
	HostInvalidState:                  "[net]::HostInvalidState",
	HostPropertyNotFound:              "[net]::HostPropertyNotFound",
	CoreHostIncompatibleConfig:        "[net]::CoreHostIncompatibleConfig",
	HostApiUnsupportedScenario:        "[net]::HostApiUnsupportedScenario",
}

// Failed reports whether s is outside the success range 0..2.
func (s Status) Failed() bool {
	return s < Success || s > SuccessDifferentRuntimeProperties
}

// Known reports whether s has a symbolic name.
func (s Status) Known() bool {
	_, ok := statusNames[s]
	return ok
}

// Numeric renders s as "0x<hex> <decimal> <low byte>".
func (s Status) Numeric() string {
	return fmt.Sprintf("0x%x %d %d", uint32(s), int32(s), int32(s)&0xFF)
}

// String renders the symbolic name followed by the numeric forms in
// parentheses, or only the numeric forms for an unknown code.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name + " (" + s.Numeric() + ")"
	}
	return s.Numeric()
}

// FromRaw narrows a raw call result to a Status.
func FromRaw(r uintptr) Status {
	return Status(int32(uint32(r)))
}
