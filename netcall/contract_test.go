package netcall

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native/nativetest"
)

// fillContract installs fake entries the way corehost_initialize does with
// the get_contract option.
func fillContract(t *testing.T, h *Host, fake *nativetest.Host, props map[string]string) {
	t.Helper()
	raw := h.Contract().Raw()
	require.NotNil(t, raw)
	raw.GetPropertyValue = fake.Register(func(args []uintptr) uintptr {
		v, ok := props[nativetest.ReadString(args[0])]
		if !ok {
			return nativetest.Status(int32(hostfxr.HostPropertyNotFound))
		}
		nativetest.PutUintptr(args[1], fake.String(v))
		return 0
	})
	raw.SetPropertyValue = fake.Register(func(args []uintptr) uintptr {
		name := nativetest.ReadString(args[0])
		if args[1] == 0 {
			delete(props, name)
			return 0
		}
		props[name] = nativetest.ReadString(args[1])
		return 0
	})
	raw.GetProperties = fake.Register(func(args []uintptr) uintptr {
		capacity := nativetest.Uintptr(args[0])
		nativetest.PutUintptr(args[0], uintptr(len(props)))
		if capacity < uintptr(len(props)) {
			return tooSmall()
		}
		i := 0
		for k, v := range props {
			nativetest.PutUintptr(args[1]+uintptr(i)*ptrSize, fake.String(k))
			nativetest.PutUintptr(args[2]+uintptr(i)*ptrSize, fake.String(v))
			i++
		}
		return 0
	})
	raw.LoadRuntime = fake.Register(func([]uintptr) uintptr { return 0 })
	raw.RunApp = fake.Register(func(args []uintptr) uintptr {
		return uintptr(len(nativetest.Strings(int32(args[0]), args[1])))
	})
	raw.GetRuntimeDelegate = fake.Register(func(args []uintptr) uintptr {
		if hostfxr.DelegateType(args[0]) != hostfxr.GetFunctionPointer {
			return nativetest.Status(int32(hostfxr.InvalidArgFailure))
		}
		nativetest.PutUintptr(args[1], 0xfeed)
		return 0
	})
}

func TestContract_Initialize(t *testing.T) {
	h := newHost(t, nativetest.New())
	raw := h.Contract().Raw()
	raw.RunApp = 0x1234

	require.Equal(t, "True", call(t, ContractInitialize, h))
	require.Equal(t, unsafe.Sizeof(uintptr(0)), raw.Version)
	require.Zero(t, raw.RunApp)
	require.ErrorIs(t, callErr(h, ContractInitialize, "x"), ErrArgumentCount)
}

func TestContract_MissingEntries(t *testing.T) {
	h := newHost(t, nativetest.New())

	require.Equal(t, "1", call(t, ContractLoadRuntime, h))
	require.Equal(t, "1", call(t, ContractRunApp, h, "app"))
	require.Equal(t, "1", call(t, ContractSetPropertyValue, h, "k", "v"))
	require.Equal(t, " 1", call(t, ContractGetRuntimeDelegate, h, "net_hdt_get_function_pointer"))
}

func TestContract_Properties(t *testing.T) {
	fake := nativetest.New()
	h := newHost(t, fake)
	props := map[string]string{"APP_PATHS": "app/"}
	fillContract(t, h, fake, props)

	require.Equal(t, "app/", call(t, ContractGetPropertyValue, h, "APP_PATHS"))
	require.Equal(t, "\x00"+code(hostfxr.HostPropertyNotFound), call(t, ContractGetPropertyValue, h, "NOPE"))
	require.Equal(t, "'APP_PATHS' = 'app/'\n", call(t, ContractGetProperties, h))

	require.Equal(t, "0", call(t, ContractSetPropertyValue, h, "APP_PATHS", "other/"))
	require.Equal(t, "other/", props["APP_PATHS"])
	require.Equal(t, "0", call(t, ContractSetPropertyValue, h, "APP_PATHS"))
	require.Empty(t, props)
	require.Equal(t, "0", call(t, ContractGetProperties, h))
}

func TestContract_RunAndDelegate(t *testing.T) {
	fake := nativetest.New()
	h := newHost(t, fake)
	fillContract(t, h, fake, map[string]string{})

	require.Equal(t, "0", call(t, ContractLoadRuntime, h))
	require.Equal(t, "3", call(t, ContractRunApp, h, "app", "a", "b"))
	require.Equal(t, "0xfeed", call(t, ContractGetRuntimeDelegate, h, "net_hdt_get_function_pointer"))
	require.Equal(t, "0xfeed", call(t, ContractGetRuntimeDelegate, h, "6"))
	require.Equal(t, " "+code(hostfxr.InvalidArgFailure), call(t, ContractGetRuntimeDelegate, h, "host_fxr_hdt_com_activation"))
	require.ErrorIs(t, callErr(h, ContractGetRuntimeDelegate, "net_hdt_nothing"), ErrInvalidArgument)
}

func TestRequest_ConfigKeysAndValues(t *testing.T) {
	h := newHost(t, nativetest.New())
	raw := h.Request().Raw()

	require.Equal(t, "True", call(t, RequestSetConfigKeys, h, "System.GC.Server", "APP_CONTEXT_DEPS_FILES"))
	require.Equal(t, "True", call(t, RequestSetConfigValues, h, "true", ""))
	require.Equal(t, uintptr(2), raw.ConfigKeys.Length)
	require.Equal(t, []string{"System.GC.Server", "APP_CONTEXT_DEPS_FILES"},
		nativetest.Strings(int32(raw.ConfigKeys.Length), raw.ConfigKeys.Arguments))
	require.Equal(t, []string{"true", ""},
		nativetest.Strings(int32(raw.ConfigValues.Length), raw.ConfigValues.Arguments))

	require.Equal(t, "True", call(t, RequestSetConfigKeys, h, "only"))
	require.Equal(t, uintptr(1), raw.ConfigKeys.Length)

	require.Equal(t, "True", call(t, RequestInitialize, h))
	require.Zero(t, raw.ConfigKeys.Length)
	require.Zero(t, raw.ConfigValues.Arguments)
}
