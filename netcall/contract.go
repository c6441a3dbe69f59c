package netcall

import (
	"fmt"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// ContractInitialize implements corehost-context-contract::initialize().
// It clears every entry and sets the version field, then outputs True.
func ContractInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	h.contract.Reset()
	return writeBool(out, h.contract.Address() != 0)
}

// ContractGetPropertyValue implements
// corehost-context-contract::get-property-value(name). The output is the
// value, or "\x00<code>" on failure.
func ContractGetPropertyValue(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()

	var value uintptr
	status := h.contract.PropertyValue(argv.At(0), &value)
	return writeValue(out, value, status)
}

// ContractSetPropertyValue implements
// corehost-context-contract::set-property-value(name[, value]). Without a
// value the property is removed. The output is the code.
func ContractSetPropertyValue(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 2); err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()
	return writeCode(out, h.contract.SetProperty(argv.At(0), argv.At(1)))
}

// ContractGetProperties implements
// corehost-context-contract::get-properties(), framed like
// hostfxr::get-runtime-properties.
func ContractGetProperties(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	return writeProperties(out, h.contract.Properties)
}

// ContractLoadRuntime implements corehost-context-contract::load-runtime().
// The output is the code.
func ContractLoadRuntime(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	return writeCode(out, h.contract.Load())
}

// ContractRunApp implements corehost-context-contract::run-app(argv...).
// The output is the code.
func ContractRunApp(h *Host, args [][]byte, out *buffer.Buffer) error {
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()
	return writeCode(out, h.contract.Run(argv))
}

// ContractGetRuntimeDelegate implements
// corehost-context-contract::get-runtime-delegate(type). type is a name
// such as "net_hdt_load_assembly_and_get_function_pointer" or an integer.
// The output is the delegate pointer, or " <code>" on failure.
func ContractGetRuntimeDelegate(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	t, err := hostfxr.ParseDelegateType(string(args[0]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	var delegate uintptr
	status := h.contract.Delegate(t, &delegate)
	if status.Failed() {
		return writeSuffix(out, status)
	}
	return nativestr.AppendPointer(out, delegate)
}

// RequestInitialize implements corehost-initialize-request::initialize().
// It clears the request and outputs True.
func RequestInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 0); err != nil {
		return err
	}
	h.request.Reset()
	return writeBool(out, h.request.Address() != 0)
}

// RequestSetConfigKeys implements
// corehost-initialize-request::set-config-keys(keys...). The output is
// True, or False when the keys could not be stored.
func RequestSetConfigKeys(h *Host, args [][]byte, out *buffer.Buffer) error {
	err := h.request.SetConfigKeys(args)
	if err != nil {
		h.log.Warn("set config keys", "error", err)
	}
	return writeBool(out, err == nil)
}

// RequestSetConfigValues implements
// corehost-initialize-request::set-config-values(values...), framed like
// RequestSetConfigKeys.
func RequestSetConfigValues(h *Host, args [][]byte, out *buffer.Buffer) error {
	err := h.request.SetConfigValues(args)
	if err != nil {
		h.log.Warn("set config values", "error", err)
	}
	return writeBool(out, err == nil)
}
