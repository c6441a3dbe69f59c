//go:build windows

package native

import "golang.org/x/sys/windows"

// The hosting components declare their callbacks __cdecl. Callback slots
// are never freed, so they are created once.
var (
	stringsCallback = windows.NewCallbackCDecl(func(count, values uintptr) uintptr {
		DeliverStrings(int32(count), values)
		return 0
	})
	keyValueCallback = windows.NewCallbackCDecl(func(key, value uintptr) uintptr {
		DeliverKeyValue(int32(key), value)
		return 0
	})
	tripleCallback = windows.NewCallbackCDecl(func(a, b, c uintptr) uintptr {
		DeliverTriple(a, b, c)
		return 0
	})
	environmentCallback = windows.NewCallbackCDecl(func(info, context uintptr) uintptr {
		DeliverEnvironment(info, context)
		return 0
	})
	errorCallbacks = [errorSlots]uintptr{
		HostFxrErrors: windows.NewCallbackCDecl(func(msg uintptr) uintptr {
			DeliverError(HostFxrErrors, msg)
			return 0
		}),
		HostPolicyErrors: windows.NewCallbackCDecl(func(msg uintptr) uintptr {
			DeliverError(HostPolicyErrors, msg)
			return 0
		}),
	}
)

// StringsCallback returns the address of the (count, values) callback.
func StringsCallback() uintptr { return stringsCallback }

// KeyValueCallback returns the address of the (key, value) callback.
func KeyValueCallback() uintptr { return keyValueCallback }

// TripleCallback returns the address of the three-string callback.
func TripleCallback() uintptr { return tripleCallback }

// EnvironmentCallback returns the address of the environment-info callback.
func EnvironmentCallback() uintptr { return environmentCallback }

func errorWriter(slot ErrorSlot) uintptr {
	return errorCallbacks[slot]
}
