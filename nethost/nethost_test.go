package nethost

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native/nativetest"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

func options(h *nativetest.Host) *Options {
	return &Options{Opener: h.Open, Caller: h.Call}
}

func TestGetHostFxrPath(t *testing.T) {
	const fxr = "/usr/share/dotnet/host/fxr/8.0.0/libhostfxr.so"
	h := nativetest.New().Define(Symbol, func(args []uintptr) uintptr {
		require.Zero(t, args[2], "no parameters without hints")
		size := nativetest.Uintptr(args[1])
		need := nativetest.WriteString(args[0], int(size), fxr)
		nativetest.PutUintptr(args[1], uintptr(need))
		return 0
	})

	path, err := GetHostFxrPath("libnethost.so", "", "", options(h))
	require.NoError(t, err)
	require.Equal(t, fxr, path)
	require.Equal(t, 1, h.Closed)
	require.Equal(t, 1, h.Calls(Symbol))
}

func TestGetHostFxrPath_RetriesOnce(t *testing.T) {
	long := "/" + strings.Repeat("very-long-directory/", nativestr.PathMax/10) + "libhostfxr.so"
	h := nativetest.New().Define(Symbol, func(args []uintptr) uintptr {
		size := nativetest.Uintptr(args[1])
		need := nativetest.WriteString(args[0], int(size), long)
		nativetest.PutUintptr(args[1], uintptr(need))
		if need > int(size) {
			return nativetest.Status(int32(hostfxr.HostApiBufferTooSmall))
		}
		return 0
	})

	path, err := GetHostFxrPath("libnethost.so", "", "", options(h))
	require.NoError(t, err)
	require.Equal(t, long, path)
	require.Equal(t, 2, h.Calls(Symbol))
}

func TestGetHostFxrPath_Parameters(t *testing.T) {
	h := nativetest.New().Define(Symbol, func(args []uintptr) uintptr {
		params := (*Parameters)(unsafe.Pointer(args[2]))
		require.Equal(t, unsafe.Sizeof(Parameters{}), params.Size)
		require.Zero(t, params.AssemblyPath)
		require.Equal(t, "/opt/dotnet", nativetest.ReadString(params.DotnetRoot))
		return nativetest.Status(int32(hostfxr.CoreHostLibMissingFailure))
	})

	_, err := GetHostFxrPath("libnethost.so", "", "/opt/dotnet", options(h))
	require.ErrorIs(t, err, ErrFailed)
	require.ErrorContains(t, err, "CoreHostLibMissingFailure")
	require.Equal(t, 1, h.Closed)
}

func TestGetHostFxrPath_LoadErrors(t *testing.T) {
	h := nativetest.New()
	_, err := GetHostFxrPath("libnethost.so", "", "", options(h))
	require.ErrorIs(t, err, ErrSymbolMissing)

	h.OpenErr = errors.New("libnethost.so: cannot open shared object file")
	_, err = GetHostFxrPath("libnethost.so", "", "", options(h))
	require.ErrorContains(t, err, "cannot open shared object file")
}
