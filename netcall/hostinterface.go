package netcall

import (
	"fmt"
	"strconv"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostpolicy"
)

// HostInterfaceInitialize implements hostinterface::initialize(version).
// It resets every member to its default and stores version as the high
// version. The output is True.
func HostInterfaceInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	version, err := parseSize(args[0])
	if err != nil {
		return err
	}
	h.hostInterface.Init(version)
	return writeBool(out, h.hostInterface.Address() != 0)
}

// setText stores its single argument in a string member. The output is
// True, or False when the value could not be encoded.
func setText(f hostpolicy.TextField) Func {
	return func(h *Host, args [][]byte, out *buffer.Buffer) error {
		if err := argCount(args, 1, 1); err != nil {
			return err
		}
		err := h.hostInterface.SetText(f, args[0])
		if err != nil {
			h.log.Warn("set host interface text", "field", int(f), "error", err)
		}
		return writeBool(out, err == nil)
	}
}

// setList stores every argument in a string-vector member, framed like
// setText.
func setList(f hostpolicy.ListField) Func {
	return func(h *Host, args [][]byte, out *buffer.Buffer) error {
		err := h.hostInterface.SetList(f, args)
		if err != nil {
			h.log.Warn("set host interface list", "field", int(f), "error", err)
		}
		return writeBool(out, err == nil)
	}
}

// setNumber stores its single integer argument in a size_t member. The
// output is True.
func setNumber(f hostpolicy.NumberField) Func {
	return func(h *Host, args [][]byte, out *buffer.Buffer) error {
		if err := argCount(args, 1, 1); err != nil {
			return err
		}
		v, err := parseSize(args[0])
		if err != nil {
			return err
		}
		if err := h.hostInterface.SetNumber(f, v); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return writeBool(out, true)
	}
}

// HostInterfaceSetHostMode implements hostinterface::set-host-mode(mode).
// mode is one of invalid, muxer, apphost, split_fx and libhost, or an
// integer. The output is True.
func HostInterfaceSetHostMode(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	mode, err := hostpolicy.ParseHostMode(string(args[0]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if err := h.hostInterface.SetNumber(hostpolicy.FieldHostMode, mode); err != nil {
		return err
	}
	return writeBool(out, true)
}

var (
	HostInterfaceSetAdditionalDependencySerialized = setText(hostpolicy.FieldAdditionalDependencySerialized)
	HostInterfaceSetApplicationPath                = setText(hostpolicy.FieldApplicationPath)
	HostInterfaceSetDependencyFile                 = setText(hostpolicy.FieldDependencyFile)
	HostInterfaceSetDotnetRoot                     = setText(hostpolicy.FieldDotnetRoot)
	HostInterfaceSetFrameworkDirectory             = setText(hostpolicy.FieldFrameworkDirectory)
	HostInterfaceSetFrameworkName                  = setText(hostpolicy.FieldFrameworkName)
	HostInterfaceSetFrameworkVersion               = setText(hostpolicy.FieldFrameworkVersion)
	HostInterfaceSetHostCommand                    = setText(hostpolicy.FieldHostCommand)
	HostInterfaceSetHostPath                       = setText(hostpolicy.FieldHostPath)
	HostInterfaceSetTargetFrameworkMoniker         = setText(hostpolicy.FieldTargetFrameworkMoniker)

	HostInterfaceSetConfigKeys                 = setList(hostpolicy.FieldConfigKeys)
	HostInterfaceSetConfigValues               = setList(hostpolicy.FieldConfigValues)
	HostInterfaceSetFrameworkDirectories       = setList(hostpolicy.FieldFrameworkDirectories)
	HostInterfaceSetFrameworkFoundVersions     = setList(hostpolicy.FieldFrameworkFoundVersions)
	HostInterfaceSetFrameworkNames             = setList(hostpolicy.FieldFrameworkNames)
	HostInterfaceSetFrameworkRequestedVersions = setList(hostpolicy.FieldFrameworkRequestedVersions)
	HostInterfaceSetPathsForProbing            = setList(hostpolicy.FieldPathsForProbing)

	HostInterfaceSetFileBundleHeaderOffset = setNumber(hostpolicy.FieldSingleFileBundleHeaderOffset)
	HostInterfaceSetFrameworkDependent     = setNumber(hostpolicy.FieldFrameworkDependent)
	HostInterfaceSetPatchRollForward       = setNumber(hostpolicy.FieldPatchRollForward)
	HostInterfaceSetPrereleaseRollForward  = setNumber(hostpolicy.FieldPrereleaseRollForward)
)

func parseSize(arg []byte) (uintptr, error) {
	v, err := strconv.ParseUint(string(arg), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidArgument, arg)
	}
	return uintptr(v), nil
}
