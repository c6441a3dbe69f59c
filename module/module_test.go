package module

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/hostpolicy"
	"github.com/joshuapare/hostkit/internal/native/nativetest"
	"github.com/joshuapare/hostkit/netcall"
)

func newContext(t *testing.T, fake *nativetest.Host) *Context {
	t.Helper()
	c := New(&Options{Opener: fake.Open, Caller: fake.Call, TempDir: t.TempDir()})
	t.Cleanup(func() { require.NoError(t, c.Release()) })
	return c
}

func TestEnumerateNameSpaces(t *testing.T) {
	var got []string
	for i := 0; ; i++ {
		ns, ok := EnumerateNameSpaces(i)
		if !ok {
			break
		}
		got = append(got, ns)
	}
	require.Equal(t, []string{
		"net", "nethost", "hostfxr", "hostpolicy", "hostinterface", "corehost",
		"corehost-context-contract", "corehost-initialize-request", "file",
	}, got)
	require.Equal(t, got, NameSpaces())

	_, ok := EnumerateNameSpaces(-1)
	require.False(t, ok)
}

func TestEnumerateFunctions(t *testing.T) {
	counts := map[string]int{}
	for _, ns := range NameSpaces() {
		for i := 0; ; i++ {
			name, ok := EnumerateFunctions(ns, i)
			if !ok {
				break
			}
			id, found := Lookup(ns, name)
			require.True(t, found, "%s::%s", ns, name)
			require.Equal(t, ns+"::"+name, id.String())
			counts[ns]++
		}
	}
	require.Equal(t, map[string]int{
		"net":                         1,
		"nethost":                     1,
		"hostfxr":                     20,
		"hostpolicy":                  1,
		"hostinterface":               23,
		"corehost":                    9,
		"corehost-context-contract":   7,
		"corehost-initialize-request": 3,
		"file":                        1,
	}, counts)
	require.Len(t, Functions(), int(functionCount)-1)

	first, _ := EnumerateFunctions("hostfxr", 0)
	require.Equal(t, "functions", first)
	last, _ := EnumerateFunctions("hostinterface", 22)
	require.Equal(t, "set-target-framework-moniker", last)
	_, ok := EnumerateFunctions("registry", 0)
	require.False(t, ok)
}

func TestLookup(t *testing.T) {
	id, ok := Lookup("hostfxr", "resolve-sdk2")
	require.True(t, ok)
	require.Equal(t, HostFxrResolveSDK2, id)
	require.Equal(t, "hostfxr", id.Namespace())
	require.Equal(t, "resolve-sdk2", id.Name())

	id, ok = LookupQualified("corehost::initialize")
	require.True(t, ok)
	require.Equal(t, CoreHostInitialize, id)

	_, ok = Lookup("hostpolicy", "main")
	require.False(t, ok)
	_, ok = LookupQualified("initialize")
	require.False(t, ok)
	require.False(t, FunctionID(0).Valid())
	require.Equal(t, "FunctionID(999)", FunctionID(999).String())
}

func TestEvaluate_UnknownFunction(t *testing.T) {
	c := newContext(t, nativetest.New())

	for _, id := range []FunctionID{0, -3, functionCount, 999} {
		out, err := c.Evaluate(id, [][]byte{[]byte("x")})
		require.ErrorIs(t, err, ErrUnknownFunction)
		require.Nil(t, out)
	}
	require.Zero(t, c.out.Cap())
	require.Nil(t, c.host.Resolver())
}

func TestEvaluate_ResultToString(t *testing.T) {
	c := newContext(t, nativetest.New())

	out, err := c.EvaluateStrings(NetResultToString, "0x80008098")
	require.NoError(t, err)
	require.Equal(t, hostfxr.HostApiBufferTooSmall.String(), out)

	// The output buffer is reset for every call.
	out, err = c.EvaluateStrings(NetResultToString, "0")
	require.NoError(t, err)
	require.Equal(t, hostfxr.Success.String(), out)
}

func TestEvaluate_MarshalingErrorIsWrapped(t *testing.T) {
	c := newContext(t, nativetest.New())

	_, err := c.EvaluateStrings(HostFxrMain, "dotnet")
	require.ErrorIs(t, err, netcall.ErrNotLoaded)
	require.Contains(t, err.Error(), "hostfxr::main")
}

func TestEvaluate_ResolveSDK(t *testing.T) {
	fake := nativetest.New().Define("hostfxr_resolve_sdk", func(args []uintptr) uintptr {
		return uintptr(nativetest.WriteString(args[2], int(args[3]), "sdk/8.0.100"))
	})
	c := newContext(t, fake)

	out, err := c.EvaluateString(`hostfxr::initialize("libhostfxr.so")`)
	require.NoError(t, err)
	require.Equal(t, "True", string(out))

	out, err = c.EvaluateString(`hostfxr::resolve-sdk('', .)`)
	require.NoError(t, err)
	require.Equal(t, "sdk/8.0.100", string(out))

	out, err = c.EvaluateString(`hostfxr::functions`)
	require.NoError(t, err)
	require.Equal(t, "resolve-sdk", string(out))
}

func TestEvaluate_HostInterfaceReachesLoad(t *testing.T) {
	var dotnetRoot string
	fake := nativetest.New().Define("corehost_load", func(args []uintptr) uintptr {
		hi := (*hostpolicy.HostInterface)(unsafe.Pointer(args[0]))
		dotnetRoot = nativetest.ReadString(hi.DotnetRoot)
		return 0
	})
	c := newContext(t, fake)

	for _, expr := range []string{
		`hostpolicy::initialize("libhostpolicy.so")`,
		`hostinterface::initialize(0)`,
		`hostinterface::set-dotnet-root("/usr/share/dotnet")`,
	} {
		out, err := c.EvaluateString(expr)
		require.NoError(t, err, expr)
		require.Equal(t, "True", string(out), expr)
	}
	out, err := c.EvaluateString(`corehost::load`)
	require.NoError(t, err)
	require.Equal(t, "0", string(out))
	require.Equal(t, "/usr/share/dotnet", dotnetRoot)
}

func TestRelease(t *testing.T) {
	fake := nativetest.New()
	c := New(&Options{Opener: fake.Open, Caller: fake.Call})
	_, err := c.EvaluateStrings(HostFxrInitialize, "libhostfxr.so")
	require.NoError(t, err)

	require.NoError(t, c.Release())
	require.Equal(t, 1, fake.Closed)
	require.NoError(t, c.Release())

	_, err = c.EvaluateStrings(NetResultToString, "0")
	require.ErrorIs(t, err, ErrReleased)
	_, err = c.Evaluate(0, nil)
	require.ErrorIs(t, err, ErrUnknownFunction)
}

func TestParseCall(t *testing.T) {
	tests := []struct {
		name string
		expr string
		id   FunctionID
		args []string
	}{
		{"no parens", "hostfxr::functions", HostFxrFunctions, nil},
		{"empty parens", " hostfxr::functions( ) ", HostFxrFunctions, nil},
		{"bare args", "hostfxr::resolve-sdk(exe dir , cwd)", HostFxrResolveSDK, []string{"exe dir", "cwd"}},
		{"quoted", `hostfxr::main('a, b', "c)d")`, HostFxrMain, []string{"a, b", "c)d"}},
		{"escapes", `hostfxr::main('it\'s\t\\', "\0")`, HostFxrMain, []string{"it's\t\\", "\x00"}},
		{"empty args", "hostfxr::main(, '',x)", HostFxrMain, []string{"", "", "x"}},
		{"hyphenated namespace", "corehost-initialize-request::set-config-keys(a)", RequestSetConfigKeys, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := ParseCall(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.id, call.ID)
			var args []string
			for _, a := range call.Args {
				args = append(args, string(a))
			}
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParseCall_Errors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrSyntax},
		{"functions()", ErrSyntax},
		{"hostfxr::", ErrSyntax},
		{"hostfxr::main(", ErrSyntax},
		{"hostfxr::main('a'", ErrSyntax},
		{"hostfxr::main('a' 'b')", ErrSyntax},
		{"hostfxr::main('abc)", ErrSyntax},
		{`hostfxr::main('\q')`, ErrSyntax},
		{"hostfxr::main() extra", ErrSyntax},
		{"hostfxr::main x", ErrSyntax},
		{"hostfxr::nope()", ErrUnknownFunction},
		{"hostinterface::set-host-shape()", ErrUnknownFunction},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParseCall(tt.expr)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
