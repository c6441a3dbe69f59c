package hostpolicy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/native/nativetest"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

func load(t *testing.T, h *nativetest.Host) *Policy {
	t.Helper()
	p, err := Load("libhostpolicy.so", &Options{Storage: StorageSize, Opener: h.Open, Caller: h.Call})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func argv(t *testing.T, values ...string) *nativestr.Argv {
	t.Helper()
	var store buffer.Buffer
	args := nativestr.NewArguments(&store)
	for _, v := range values {
		_, err := args.Add([]byte(v))
		require.NoError(t, err)
	}
	v := args.Materialize()
	t.Cleanup(v.Release)
	return v
}

func TestLoad_StorageTooSmall(t *testing.T) {
	h := nativetest.New()
	_, err := Load("libhostpolicy.so", &Options{Storage: 64, Opener: h.Open, Caller: h.Call})
	require.Error(t, err)
	require.Empty(t, h.Opened)
}

func TestLoad_DefaultStorage(t *testing.T) {
	h := nativetest.New().Define("corehost_main", func(args []uintptr) uintptr { return 0 })
	p, err := Load("libhostpolicy.so", &Options{Opener: h.Open, Caller: h.Call})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	require.True(t, p.Loaded())
}

func TestParseInitializeOption(t *testing.T) {
	tests := []struct {
		in   string
		want InitializeOption
	}{
		{"none", OptionNone},
		{"wait_for_initialized", OptionWaitForInitialized},
		{"get_contract", OptionGetContract},
		{"context_contract_version_set", OptionContextContractVersionSet},
		{"2", OptionGetContract},
		{"0x80000002", OptionContextContractVersionSet | OptionGetContract},
		{"-1", InitializeOption(-1)},
	}
	for _, tt := range tests {
		got, err := ParseInitializeOption(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseInitializeOption("get-contract")
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestPolicy_Functions(t *testing.T) {
	h := nativetest.New().
		Define("corehost_main", func([]uintptr) uintptr { return 0 }).
		Define("corehost_unload", func([]uintptr) uintptr { return 0 })
	p := load(t, h)

	require.Equal(t, []string{"main", "unload"}, p.Functions())
	require.True(t, p.Exists("corehost_unload"))
	require.False(t, p.Exists("corehost_load"))
	require.Equal(t, hostfxr.Missing, p.LoadHost(0))
	require.Equal(t, hostfxr.Success, p.Unload())
}

func TestPolicy_Initialize(t *testing.T) {
	h := nativetest.New()
	getProperty := h.Register(func(args []uintptr) uintptr {
		require.Equal(t, "APP_CONTEXT_BASE_DIRECTORY", nativetest.ReadString(args[0]))
		nativetest.PutUintptr(args[1], h.String("/app/"))
		return 0
	})
	h.Define("corehost_initialize", func(args []uintptr) uintptr {
		req := (*InitializeRequest)(unsafe.Pointer(args[0]))
		require.Equal(t, uintptr(2), req.ConfigKeys.Length)
		require.Equal(t, []string{"APP_PATHS", "FX_DEPS_FILE"}, nativetest.Strings(int32(req.ConfigKeys.Length), req.ConfigKeys.Arguments))
		require.Equal(t, []string{"/app", "/fx/deps.json"}, nativetest.Strings(int32(req.ConfigValues.Length), req.ConfigValues.Arguments))
		require.Equal(t, uintptr(OptionGetContract), args[1])

		contract := (*ContextContract)(unsafe.Pointer(args[2]))
		require.Equal(t, unsafe.Sizeof(uintptr(0)), contract.Version)
		contract.GetPropertyValue = getProperty
		return 0
	})
	p := load(t, h)

	req := NewRequest()
	defer req.Release()
	require.NoError(t, req.SetConfigKeys([][]byte{[]byte("APP_PATHS"), []byte("FX_DEPS_FILE")}))
	require.NoError(t, req.SetConfigValues([][]byte{[]byte("/app"), []byte("/fx/deps.json")}))

	c := NewContract(h.Call)
	defer c.Release()
	require.Equal(t, hostfxr.Success, p.Initialize(req, OptionGetContract, c))

	key := argv(t, "APP_CONTEXT_BASE_DIRECTORY")
	var value uintptr
	require.Equal(t, hostfxr.Success, c.PropertyValue(key.At(0), &value))
	require.Equal(t, "/app/", nativetest.ReadString(value))

	require.Equal(t, Status(1), c.Load(), "missing entries report 1")

	c.Reset()
	require.Zero(t, c.Raw().GetPropertyValue)
}

func TestContract_Nil(t *testing.T) {
	var c *Contract
	require.Equal(t, hostfxr.Missing, c.Load())
	require.Zero(t, c.Address())
	require.NotPanics(t, c.Release)
}

func TestRequest_ResetClearsVectors(t *testing.T) {
	r := NewRequest()
	defer r.Release()
	require.NoError(t, r.SetConfigKeys([][]byte{[]byte("a")}))
	require.Equal(t, uintptr(1), r.Raw().ConfigKeys.Length)

	require.NoError(t, r.SetConfigKeys(nil))
	require.Equal(t, StringArguments{}, r.Raw().ConfigKeys)

	require.NoError(t, r.SetConfigValues([][]byte{[]byte("b"), []byte("c")}))
	r.Reset()
	require.Equal(t, InitializeRequest{}, *r.Raw())
}

func TestPolicy_ResolveComponentDependencies(t *testing.T) {
	h := nativetest.New()
	h.Define("corehost_resolve_component_dependencies", func(args []uintptr) uintptr {
		require.Equal(t, "/plugins/Plugin.dll", nativetest.ReadString(args[0]))
		native.DeliverTriple(h.String("/plugins/Plugin.dll:/plugins/Dep.dll"), h.String("/plugins/runtimes"), h.String(""))
		return 0
	})
	p := load(t, h)

	path := argv(t, "/plugins/Plugin.dll")
	var deps Dependencies
	status := p.ResolveComponentDependencies(path.At(0), func(d Dependencies) { deps = d })
	require.Equal(t, hostfxr.Success, status)
	require.Equal(t, "/plugins/Plugin.dll:/plugins/Dep.dll", deps.AssemblyPaths)
	require.Equal(t, "/plugins/runtimes", deps.NativeSearchPaths)
	require.Empty(t, deps.ResourceSearchPaths)
}

func TestPolicy_MainWithOutputBuffer(t *testing.T) {
	const text = "Host version: 8.0.0"
	h := nativetest.New()
	h.Define("corehost_main_with_output_buffer", func(args []uintptr) uintptr {
		need := nativetest.WriteString(args[2], int(int32(args[3])), text)
		nativetest.PutInt32(args[4], int32(need))
		if need > int(int32(args[3])) {
			return nativetest.Status(int32(hostfxr.HostApiBufferTooSmall))
		}
		return 0
	})
	p := load(t, h)
	args := argv(t, "dotnet", "--info")

	var required int32
	require.Equal(t, hostfxr.HostApiBufferTooSmall, p.MainWithOutputBuffer(args, nil, &required))
	require.Equal(t, int32(len(text)+1), required)

	out := make([]byte, int(required)*nativestr.CharSize)
	require.Equal(t, hostfxr.Success, p.MainWithOutputBuffer(args, out, &required))
	decoded, err := nativestr.Decode(nativestr.Cut(out))
	require.NoError(t, err)
	require.Equal(t, text, string(decoded))
}
