package netcall

import (
	"fmt"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/hostpolicy"
)

// HostPolicyInitialize implements hostpolicy::initialize(path). It loads
// the policy library, replacing any loaded one, and outputs True or False.
func HostPolicyInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	err := h.LoadHostPolicy(string(args[0]))
	if err != nil {
		h.log.Warn("hostpolicy initialize", "path", string(args[0]), "error", err)
	}
	return writeBool(out, err == nil)
}

// CoreHostFunctions implements corehost::functions([delimiter]).
func CoreHostFunctions(h *Host, args [][]byte, out *buffer.Buffer) error {
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	return listFunctions(args, policy.Functions(), out)
}

// CoreHostIsFunctionExists implements corehost::is-function-exists(name).
func CoreHostIsFunctionExists(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	return writeBool(out, policy.Exists(exportName(hostpolicy.Prefix, args[0])))
}

// CoreHostInitialize implements corehost::initialize([option[, -]]). option
// is a name such as "get_contract" or an integer and defaults to 0. The
// Host's initialize request and context contract are passed along; a
// second argument, whatever its value, suppresses the request. The output
// is the code.
func CoreHostInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 2); err != nil {
		return err
	}
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	option := hostpolicy.OptionNone
	if len(args) > 0 {
		if option, err = hostpolicy.ParseInitializeOption(string(args[0])); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	request := h.request
	if len(args) > 1 {
		request = nil
	}
	return writeCode(out, policy.Initialize(request, option, h.contract))
}

// CoreHostLoad implements corehost::load(). The host interface built by
// the hostinterface namespace is passed. The output is the code.
func CoreHostLoad(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	return writeCode(out, policy.LoadHost(h.hostInterface.Address()))
}

// CoreHostUnload implements corehost::unload(). The output is the code.
func CoreHostUnload(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	return writeCode(out, policy.Unload())
}

// CoreHostMain implements corehost::main(argv...). The output is the code.
func CoreHostMain(h *Host, args [][]byte, out *buffer.Buffer) error {
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()
	return writeCode(out, policy.Main(argv))
}

// CoreHostMainWithOutputBuffer implements
// corehost::main-with-output-buffer(argv...). The first call asks for the
// output size with an empty buffer. When it asks for more room the call is
// repeated once and the output is the captured text, followed by
// " <code>" if the second call failed. Otherwise the output is " <code>"
// when the first call failed and empty when it succeeded.
func CoreHostMainWithOutputBuffer(h *Host, args [][]byte, out *buffer.Buffer) error {
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()

	var required int32
	status := policy.MainWithOutputBuffer(argv, nil, &required)
	if status != hostfxr.HostApiBufferTooSmall || required < 1 {
		if !status.Failed() {
			return nil
		}
		return writeSuffix(out, status)
	}
	raw := charBuffer(int(required))
	status = policy.MainWithOutputBuffer(argv, raw, &required)
	if err := writeText(out, raw); err != nil {
		return err
	}
	if status.Failed() {
		return writeSuffix(out, status)
	}
	return nil
}

// writeSuffix appends " <code>".
func writeSuffix(out *buffer.Buffer, s hostfxr.Status) error {
	if err := out.PushBack(' '); err != nil {
		return err
	}
	return writeCode(out, s)
}

// CoreHostResolveComponentDependencies implements
// corehost::resolve-component-dependencies(assembly). The output is
// "<assembly paths>\n<native search paths>\n<resource search paths>\x00",
// followed by " <code>" on failure.
func CoreHostResolveComponentDependencies(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	if len(args[0]) == 0 {
		return fmt.Errorf("%w: empty assembly path", ErrInvalidArgument)
	}
	policy, err := h.hostPolicy()
	if err != nil {
		return err
	}
	f, pv, err := h.hostPaths(args)
	if err != nil {
		return err
	}
	defer f.release()

	var werr error
	status := policy.ResolveComponentDependencies(pv.At(0), func(d hostpolicy.Dependencies) {
		if werr == nil {
			werr = out.AppendString(d.AssemblyPaths + "\n" + d.NativeSearchPaths + "\n" + d.ResourceSearchPaths)
		}
		if werr == nil {
			werr = out.PushBack(0)
		}
	})
	if werr != nil {
		return werr
	}
	if status.Failed() {
		return writeSuffix(out, status)
	}
	return nil
}
