package hostfxr

import (
	"unsafe"

	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// EnvironmentInfo describes a dotnet installation as reported by
// hostfxr_get_dotnet_environment_info.
type EnvironmentInfo struct {
	HostFxrVersion    string
	HostFxrCommitHash string
	SDKs              []SDKInfo
	Frameworks        []FrameworkInfo
}

// SDKInfo is one installed SDK.
type SDKInfo struct {
	Version string
	Path    string
}

// FrameworkInfo is one installed shared framework.
type FrameworkInfo struct {
	Name    string
	Version string
	Path    string
}

// Native layouts. Each struct starts with its own size, and arrays are
// walked with the element size they report.
type (
	RawEnvironmentInfo struct {
		Size              uintptr
		HostFxrVersion    uintptr
		HostFxrCommitHash uintptr
		SDKCount          uintptr
		SDKs              uintptr
		FrameworkCount    uintptr
		Frameworks        uintptr
	}
	RawSDKInfo struct {
		Size    uintptr
		Version uintptr
		Path    uintptr
	}
	RawFrameworkInfo struct {
		Size    uintptr
		Name    uintptr
		Version uintptr
		Path    uintptr
	}
)

// GetDotnetEnvironmentInfo reports the installation under dotnetRoot, or
// the default one when dotnetRoot is 0, to fn.
func (r *Resolver) GetDotnetEnvironmentInfo(dotnetRoot uintptr, fn func(*EnvironmentInfo)) Status {
	if !r.Has(FnGetDotnetEnvironmentInfo) {
		return Missing
	}
	var status Status
	native.Collect(&native.Collector{
		Environment: func(info, _ uintptr) {
			if fn != nil && info != 0 {
				fn(DecodeEnvironmentInfo(info))
			}
		},
	}, func() {
		status = r.invoke(FnGetDotnetEnvironmentInfo, dotnetRoot, native.EnvironmentCallback(), 0)
	})
	return status
}

// DecodeEnvironmentInfo copies the native structure at addr into Go values.
func DecodeEnvironmentInfo(addr uintptr) *EnvironmentInfo {
	raw := (*RawEnvironmentInfo)(unsafe.Pointer(addr))
	info := &EnvironmentInfo{
		HostFxrVersion:    readString(raw.HostFxrVersion),
		HostFxrCommitHash: readString(raw.HostFxrCommitHash),
	}
	if raw.SDKs != 0 && raw.SDKCount > 0 {
		stride := elementStride(raw.SDKs, unsafe.Sizeof(RawSDKInfo{}))
		for i := uintptr(0); i < raw.SDKCount; i++ {
			sdk := (*RawSDKInfo)(unsafe.Pointer(raw.SDKs + i*stride))
			info.SDKs = append(info.SDKs, SDKInfo{
				Version: readString(sdk.Version),
				Path:    readString(sdk.Path),
			})
		}
	}
	if raw.Frameworks != 0 && raw.FrameworkCount > 0 {
		stride := elementStride(raw.Frameworks, unsafe.Sizeof(RawFrameworkInfo{}))
		for i := uintptr(0); i < raw.FrameworkCount; i++ {
			fw := (*RawFrameworkInfo)(unsafe.Pointer(raw.Frameworks + i*stride))
			info.Frameworks = append(info.Frameworks, FrameworkInfo{
				Name:    readString(fw.Name),
				Version: readString(fw.Version),
				Path:    readString(fw.Path),
			})
		}
	}
	return info
}

// elementStride returns the array stride: the size the first element
// reports, never less than the layout known here.
func elementStride(first uintptr, known uintptr) uintptr {
	size := *(*uintptr)(unsafe.Pointer(first))
	if size < known {
		return known
	}
	return size
}

func readString(p uintptr) string {
	return string(nativestr.Read(unsafe.Pointer(p)))
}
