package hostpolicy

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"unsafe"
)

// ErrUnknownHostMode is returned by ParseHostMode for an unrecognised mode.
var ErrUnknownHostMode = errors.New("hostpolicy: unknown host mode")

// HostInterface mirrors host_interface_t, the block corehost_load reads
// the host's view of the application from.
type HostInterface struct {
	VersionLow  uintptr
	VersionHigh uintptr

	ConfigKeys   StringArguments
	ConfigValues StringArguments

	FrameworkDirectory   uintptr
	FrameworkName        uintptr
	DependencyFile       uintptr
	IsFrameworkDependent uintptr
	PathsForProbing      StringArguments

	PatchRollForward      uintptr
	PrereleaseRollForward uintptr
	HostMode              uintptr

	TargetFrameworkMoniker         uintptr
	AdditionalDependencySerialized uintptr
	FrameworkVersion               uintptr

	FrameworkNames             StringArguments
	FrameworkDirectories       StringArguments
	FrameworkRequestedVersions StringArguments
	FrameworkFoundVersions     StringArguments

	HostCommand     uintptr
	HostPath        uintptr
	DotnetRoot      uintptr
	ApplicationPath uintptr

	SingleFileBundleHeaderOffset uintptr
}

// TextField names a single-string member of HostInterface.
type TextField int

const (
	FieldFrameworkDirectory TextField = iota
	FieldFrameworkName
	FieldDependencyFile
	FieldTargetFrameworkMoniker
	FieldAdditionalDependencySerialized
	FieldFrameworkVersion
	FieldHostCommand
	FieldHostPath
	FieldDotnetRoot
	FieldApplicationPath
	textFieldCount
)

// ListField names a string-vector member of HostInterface.
type ListField int

const (
	FieldConfigKeys ListField = iota
	FieldConfigValues
	FieldPathsForProbing
	FieldFrameworkNames
	FieldFrameworkDirectories
	FieldFrameworkRequestedVersions
	FieldFrameworkFoundVersions
	listFieldCount
)

// NumberField names a size_t member of HostInterface.
type NumberField int

const (
	FieldFrameworkDependent NumberField = iota
	FieldPatchRollForward
	FieldPrereleaseRollForward
	FieldHostMode
	FieldSingleFileBundleHeaderOffset
)

// HostMode values for FieldHostMode.
const (
	HostModeInvalid uintptr = iota
	HostModeMuxer
	HostModeAppHost
	HostModeSplitFx
	HostModeLibHost
)

var hostModeNames = []string{"invalid", "muxer", "apphost", "split_fx", "libhost"}

// ParseHostMode accepts a mode name such as "apphost" or an integer.
func ParseHostMode(s string) (uintptr, error) {
	for i, name := range hostModeNames {
		if s == name {
			return uintptr(i), nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHostMode, s)
	}
	return uintptr(v), nil
}

// Interface owns a pinned HostInterface and the native strings its members
// point at. Text members never hold null: unset ones point at an empty
// string.
type Interface struct {
	raw    *HostInterface
	empty  *[4]byte
	pinner runtime.Pinner
	texts  [textFieldCount]stringVector
	lists  [listFieldCount]stringVector
}

// NewInterface returns an interface initialized with version 0.
func NewInterface() *Interface {
	i := &Interface{raw: new(HostInterface), empty: new([4]byte)}
	i.pinner.Pin(i.raw)
	i.pinner.Pin(i.empty)
	i.Init(0)
	return i
}

// Raw exposes the native structure.
func (i *Interface) Raw() *HostInterface {
	if i == nil {
		return nil
	}
	return i.raw
}

// Address returns the address handed to corehost_load, or 0 for a nil i.
func (i *Interface) Address() uintptr {
	if i == nil || i.raw == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(i.raw))
}

// Init clears every member, drops the stored strings and sets the
// defaults: the structure size as the low version, versionHigh, empty text
// members and patch roll forward on.
func (i *Interface) Init(versionHigh uintptr) {
	if i == nil || i.raw == nil {
		return
	}
	for f := range i.texts {
		i.texts[f].release()
	}
	for f := range i.lists {
		i.lists[f].release()
	}
	*i.raw = HostInterface{
		VersionLow:       unsafe.Sizeof(HostInterface{}),
		VersionHigh:      versionHigh,
		PatchRollForward: 1,
	}
	for f := TextField(0); f < textFieldCount; f++ {
		*i.text(f) = i.emptyString()
	}
}

// SetText replaces a single-string member. On failure the member is left
// empty.
func (i *Interface) SetText(f TextField, value []byte) error {
	p := i.text(f)
	if p == nil {
		return fmt.Errorf("hostpolicy: text field %d out of range", f)
	}
	*p = i.emptyString()
	argv, err := i.texts[f].replace([][]byte{value}, f.isPath())
	if err != nil {
		return err
	}
	*p = argv.At(0)
	return nil
}

// SetList replaces a string-vector member. On failure the member is left
// empty.
func (i *Interface) SetList(f ListField, values [][]byte) error {
	p := i.list(f)
	if p == nil {
		return fmt.Errorf("hostpolicy: list field %d out of range", f)
	}
	argv, err := i.lists[f].replace(values, f.isPath())
	*p = vector(argv)
	return err
}

// SetNumber replaces a size_t member.
func (i *Interface) SetNumber(f NumberField, v uintptr) error {
	r := i.raw
	switch f {
	case FieldFrameworkDependent:
		r.IsFrameworkDependent = v
	case FieldPatchRollForward:
		r.PatchRollForward = v
	case FieldPrereleaseRollForward:
		r.PrereleaseRollForward = v
	case FieldHostMode:
		r.HostMode = v
	case FieldSingleFileBundleHeaderOffset:
		r.SingleFileBundleHeaderOffset = v
	default:
		return fmt.Errorf("hostpolicy: number field %d out of range", f)
	}
	return nil
}

// Release drops the stored strings and unpins the structure.
func (i *Interface) Release() {
	if i == nil || i.raw == nil {
		return
	}
	for f := range i.texts {
		i.texts[f].release()
	}
	for f := range i.lists {
		i.lists[f].release()
	}
	i.pinner.Unpin()
	i.raw = nil
}

func (i *Interface) emptyString() uintptr {
	return uintptr(unsafe.Pointer(i.empty))
}

func (i *Interface) text(f TextField) *uintptr {
	r := i.raw
	switch f {
	case FieldFrameworkDirectory:
		return &r.FrameworkDirectory
	case FieldFrameworkName:
		return &r.FrameworkName
	case FieldDependencyFile:
		return &r.DependencyFile
	case FieldTargetFrameworkMoniker:
		return &r.TargetFrameworkMoniker
	case FieldAdditionalDependencySerialized:
		return &r.AdditionalDependencySerialized
	case FieldFrameworkVersion:
		return &r.FrameworkVersion
	case FieldHostCommand:
		return &r.HostCommand
	case FieldHostPath:
		return &r.HostPath
	case FieldDotnetRoot:
		return &r.DotnetRoot
	case FieldApplicationPath:
		return &r.ApplicationPath
	}
	return nil
}

func (i *Interface) list(f ListField) *StringArguments {
	r := i.raw
	switch f {
	case FieldConfigKeys:
		return &r.ConfigKeys
	case FieldConfigValues:
		return &r.ConfigValues
	case FieldPathsForProbing:
		return &r.PathsForProbing
	case FieldFrameworkNames:
		return &r.FrameworkNames
	case FieldFrameworkDirectories:
		return &r.FrameworkDirectories
	case FieldFrameworkRequestedVersions:
		return &r.FrameworkRequestedVersions
	case FieldFrameworkFoundVersions:
		return &r.FrameworkFoundVersions
	}
	return nil
}

// isPath reports whether the member holds a file system path.
func (f TextField) isPath() bool {
	switch f {
	case FieldFrameworkDirectory, FieldDependencyFile, FieldHostPath, FieldDotnetRoot, FieldApplicationPath:
		return true
	}
	return false
}

func (f ListField) isPath() bool {
	return f == FieldPathsForProbing || f == FieldFrameworkDirectories
}
