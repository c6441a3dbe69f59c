package netcall

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native/nativetest"
)

func newHost(t *testing.T, fake *nativetest.Host) *Host {
	t.Helper()
	h := NewHost(&Options{Opener: fake.Open, Caller: fake.Call, TempDir: t.TempDir()})
	t.Cleanup(func() { require.NoError(t, h.Close()) })
	return h
}

// withHostFxr returns a Host whose resolver is loaded from fake.
func withHostFxr(t *testing.T, fake *nativetest.Host) *Host {
	t.Helper()
	h := newHost(t, fake)
	require.Equal(t, "True", call(t, HostFxrInitialize, h, "libhostfxr.so"))
	return h
}

// withHostPolicy returns a Host whose policy library is loaded from fake.
func withHostPolicy(t *testing.T, fake *nativetest.Host) *Host {
	t.Helper()
	h := newHost(t, fake)
	require.Equal(t, "True", call(t, HostPolicyInitialize, h, "libhostpolicy.so"))
	return h
}

func values(s ...string) [][]byte {
	out := make([][]byte, len(s))
	for i, v := range s {
		out[i] = []byte(v)
	}
	return out
}

func call(t *testing.T, fn Func, h *Host, args ...string) string {
	t.Helper()
	var out buffer.Buffer
	defer out.Release()
	require.NoError(t, fn(h, values(args...), &out))
	return out.String()
}

func callErr(h *Host, fn Func, args ...string) error {
	var out buffer.Buffer
	defer out.Release()
	return fn(h, values(args...), &out)
}

func code(s hostfxr.Status) string {
	var b buffer.Buffer
	defer b.Release()
	if err := writeCode(&b, s); err != nil {
		panic(err)
	}
	return b.String()
}

func TestResultToString(t *testing.T) {
	h := newHost(t, nativetest.New())

	require.Equal(t, hostfxr.HostApiBufferTooSmall.String(), call(t, ResultToString, h, "-2147450728"))
	require.Equal(t, hostfxr.HostApiBufferTooSmall.String(), call(t, ResultToString, h, "0x80008098"))
	require.Equal(t, hostfxr.Success.String(), call(t, ResultToString, h, " 0 "))

	require.ErrorIs(t, callErr(h, ResultToString), ErrArgumentCount)
	require.ErrorIs(t, callErr(h, ResultToString, "1", "2"), ErrArgumentCount)
	require.ErrorIs(t, callErr(h, ResultToString, "nope"), ErrInvalidArgument)
}

func TestHost_NotLoaded(t *testing.T) {
	h := newHost(t, nativetest.New())

	for name, fn := range map[string]Func{
		"main":                     Main,
		"close":                    Close,
		"functions":                HostFxrFunctions,
		"corehost main":            CoreHostMain,
		"corehost functions":       CoreHostFunctions,
		"file is-assembly":         FileIsAssembly,
		"hostfxr set-error-writer": HostFxrSetErrorWriter,
	} {
		t.Run(name, func(t *testing.T) {
			err := callErr(h, fn, "0x10")
			require.True(t, errors.Is(err, ErrNotLoaded) || errors.Is(err, ErrArgumentCount), "got %v", err)
		})
	}
}

func TestHostFxrInitialize_LoadFailure(t *testing.T) {
	fake := nativetest.New()
	fake.OpenErr = errors.New("no such file")
	h := newHost(t, fake)

	require.Equal(t, "False", call(t, HostFxrInitialize, h, "missing.so"))
	require.Nil(t, h.Resolver())
	require.ErrorIs(t, callErr(h, HostFxrInitialize), ErrArgumentCount)
}

func TestHost_LoadWithDefaultOptions(t *testing.T) {
	fake := nativetest.New().
		Define("hostfxr_main", func([]uintptr) uintptr { return 0 }).
		Define("corehost_main", func([]uintptr) uintptr { return 0 })
	h := NewHost(&Options{Opener: fake.Open, Caller: fake.Call})
	t.Cleanup(func() { require.NoError(t, h.Close()) })

	require.NoError(t, h.LoadHostFxr("libhostfxr.so"))
	require.NoError(t, h.LoadHostPolicy("libhostpolicy.so"))
	require.True(t, h.Resolver().Loaded())
	require.True(t, h.Policy().Loaded())
}

func TestHostFxrInitialize_Reload(t *testing.T) {
	fake := nativetest.New().Define("hostfxr_main", func([]uintptr) uintptr { return 0 })
	h := withHostFxr(t, fake)

	require.Equal(t, "True", call(t, HostFxrInitialize, h, "libhostfxr.so"))
	require.Equal(t, 1, fake.Closed)
	require.Equal(t, []string{"libhostfxr.so", "libhostfxr.so"}, fake.Opened)
}

func TestHost_CloseUnloadsEverything(t *testing.T) {
	fake := nativetest.New().
		Define("hostfxr_main", func([]uintptr) uintptr { return 0 }).
		Define("corehost_main", func([]uintptr) uintptr { return 0 })
	h := NewHost(&Options{Opener: fake.Open, Caller: fake.Call})
	require.Equal(t, "True", call(t, HostFxrInitialize, h, "libhostfxr.so"))
	require.Equal(t, "True", call(t, HostPolicyInitialize, h, "libhostpolicy.so"))

	require.NoError(t, h.Close())
	require.Equal(t, 2, fake.Closed)
	require.Nil(t, h.Resolver())
	require.Nil(t, h.Policy())
	require.Equal(t, 0, h.pool.Len())
}

func TestFunctionsAndExists(t *testing.T) {
	fake := nativetest.New().
		Define("hostfxr_run_app", func([]uintptr) uintptr { return 0 }).
		Define("hostfxr_main", func([]uintptr) uintptr { return 0 }).
		Define("hostfxr_get_available_sdks", func([]uintptr) uintptr { return 0 })
	h := withHostFxr(t, fake)

	require.Equal(t, "get-available-sdks main run-app", call(t, HostFxrFunctions, h))
	require.Equal(t, "get-available-sdks, main, run-app", call(t, HostFxrFunctions, h, ", "))
	require.Equal(t, "True", call(t, HostFxrIsFunctionExists, h, "run-app"))
	require.Equal(t, "True", call(t, HostFxrIsFunctionExists, h, "get_available_sdks"))
	require.Equal(t, "False", call(t, HostFxrIsFunctionExists, h, "close"))
	require.ErrorIs(t, callErr(h, HostFxrFunctions, " ", " "), ErrArgumentCount)
}

func TestHandleParsing(t *testing.T) {
	var got uintptr
	fake := nativetest.New().Define("hostfxr_close", func(args []uintptr) uintptr {
		got = args[0]
		return nativetest.Status(int32(hostfxr.HostInvalidState))
	})
	h := withHostFxr(t, fake)

	require.Equal(t, code(hostfxr.HostInvalidState), call(t, Close, h, "0x5c001e20"))
	require.Equal(t, uintptr(0x5c001e20), got)

	require.ErrorIs(t, callErr(h, Close, "0x0"), ErrNullHandle)
	require.ErrorIs(t, callErr(h, Close, "(nil)"), ErrNullHandle)
	require.ErrorIs(t, callErr(h, Close, "context"), ErrInvalidArgument)
	require.Equal(t, 1, fake.Calls("hostfxr_close"))
}

func TestMissingExportIsData(t *testing.T) {
	fake := nativetest.New().Define("hostfxr_main", func([]uintptr) uintptr { return 0 })
	h := withHostFxr(t, fake)

	require.Equal(t, "-1", call(t, RunApp, h, "0x10"))
	require.Equal(t, "-1", call(t, Close, h, "0x10"))
}
