package netcall

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// Managed entry point of the companion assembly. A custom Options.Companion
// must expose the same type and method.
const (
	companionType     = "HostKit.Clr.Delegates, hostkit.clr"
	companionMethod   = "IsAssembly"
	companionDelegate = "HostKit.Clr.Delegates+IsAssemblyDelegate, hostkit.clr"
)

// companionRuntimeConfig selects the oldest runtime the companion assembly
// supports and lets any newer minor version serve it.
const companionRuntimeConfig = `{
  "runtimeOptions": {
    "tfm": "netcoreapp3.1",
    "rollForward": "LatestMinor",
    "framework": {
      "name": "Microsoft.NETCore.App",
      "version": "3.1.0"
    }
  }
}
`

// FileIsAssembly implements file::is-assembly(path[, delegate]) and
// outputs True or False.
//
// When the resolver exports hostfxr_get_runtime_delegate, the managed
// IsAssembly delegate is called with path. The delegate is the pointer
// given as the second argument, or it is loaded from the companion assembly
// through a temporary runtimeconfig.
//
// Older resolvers fall back to running the companion through hostfxr_main
// as ["", companion, "file", "is-assembly", path]; a second argument then
// names the companion assembly instead.
func FileIsAssembly(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 2); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	if !fxr.Has(hostfxr.FnGetRuntimeDelegate) {
		return h.isAssemblyByMain(fxr, args, out)
	}

	var delegate uintptr
	if len(args) == 1 {
		delegate, err = h.loadCompanionDelegate()
	} else {
		delegate, err = handle(args[1])
	}
	if err != nil {
		return err
	}

	f, pv, err := h.hostPaths(args[:1])
	if err != nil {
		return err
	}
	defer f.release()
	// The delegate takes struct { const char_t* path } by value, which the
	// native ABI passes like the pointer alone.
	raw, _ := fxr.CallPointer(delegate, pv.At(0))
	return writeBool(out, uint8(raw) != 0)
}

func (h *Host) isAssemblyByMain(fxr *hostfxr.Resolver, args [][]byte, out *buffer.Buffer) error {
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()

	add := func(pack func([]byte) (int, error), v []byte) {
		if err == nil {
			_, err = pack(v)
		}
	}
	add(f.str, nil)
	if len(args) == 2 {
		add(f.path, args[1])
	} else {
		add(f.str, []byte(h.opts.Companion))
	}
	add(f.str, []byte("file"))
	add(f.str, []byte("is-assembly"))
	add(f.path, args[0])
	if err != nil {
		return err
	}
	status := fxr.Main(f.seal())
	return writeBool(out, uint8(status) != 0)
}

// loadCompanionDelegate initializes a runtime from a temporary
// runtimeconfig, asks it for the companion's IsAssembly entry point and
// closes the context again.
func (h *Host) loadCompanionDelegate() (uintptr, error) {
	config, err := os.CreateTemp(h.opts.TempDir, "hostkit-*.runtimeconfig.json")
	if err != nil {
		return 0, fmt.Errorf("netcall: runtimeconfig: %w", err)
	}
	defer os.Remove(config.Name())
	if _, err := config.WriteString(companionRuntimeConfig); err != nil {
		config.Close()
		return 0, fmt.Errorf("netcall: runtimeconfig: %w", err)
	}
	if err := config.Close(); err != nil {
		return 0, fmt.Errorf("netcall: runtimeconfig: %w", err)
	}

	var ctx, delegate uintptr
	err = h.scratch(func(b *buffer.Buffer) error {
		if err := InitializeForRuntimeConfig(h, [][]byte{nil, nil, []byte(config.Name())}, b); err != nil {
			return err
		}
		text := b.Bytes()
		if i := bytes.IndexByte(text, ' '); i >= 0 {
			return fmt.Errorf("%w: initialize for runtime config: %s", ErrHostFailure, text[i+1:])
		}
		p, err := nativestr.ParsePointer(text)
		if err != nil {
			return err
		}
		ctx = p

		if err := b.Resize(0); err != nil {
			return err
		}
		err = GetRuntimeDelegate(h, [][]byte{
			[]byte(nativestr.FormatPointer(ctx)),
			[]byte(hostfxr.LoadAssemblyAndGetFunctionPointer.String()),
			[]byte(h.opts.Companion),
			[]byte(companionType),
			[]byte(companionMethod),
			[]byte(companionDelegate),
		}, b)
		if err != nil {
			return err
		}
		text = b.Bytes()
		if len(text) > 0 && text[0] == 0 {
			return fmt.Errorf("%w: get runtime delegate: %s", ErrHostFailure, text[1:])
		}
		delegate, err = nativestr.ParsePointer(text)
		return err
	})
	if ctx != 0 {
		if status := h.fxr.Close(ctx); status.Failed() && err == nil {
			err = fmt.Errorf("%w: close: %s", ErrHostFailure, status)
		}
	}
	if err != nil {
		return 0, err
	}
	if delegate == 0 {
		return 0, ErrNullHandle
	}
	return delegate, nil
}
