package hostfxr

import (
	"fmt"
	"strconv"
	"strings"
)

// DelegateType selects the runtime delegate GetRuntimeDelegate returns.
type DelegateType int32

const (
	ComActivation DelegateType = iota
	LoadInMemoryAssembly
	WinRTActivation
	ComRegister
	ComUnregister
	LoadAssemblyAndGetFunctionPointer
	GetFunctionPointer
)

const delegatePrefix = "host_fxr_hdt_"

var delegateNames = []string{
	ComActivation:                     "host_fxr_hdt_com_activation",
	LoadInMemoryAssembly:              "host_fxr_hdt_load_in_memory_assembly",
	WinRTActivation:                   "host_fxr_hdt_winrt_activation",
	ComRegister:                       "host_fxr_hdt_com_register",
	ComUnregister:                     "host_fxr_hdt_com_unregister",
	LoadAssemblyAndGetFunctionPointer: "host_fxr_hdt_load_assembly_and_get_function_pointer",
	GetFunctionPointer:                "host_fxr_hdt_get_function_pointer",
}

// DelegateTypes returns the delegate type names in value order.
func DelegateTypes() []string {
	return append([]string(nil), delegateNames...)
}

func (t DelegateType) String() string {
	if t >= 0 && int(t) < len(delegateNames) {
		return delegateNames[t]
	}
	return "DelegateType(" + strconv.Itoa(int(t)) + ")"
}

// contractPrefix is the spelling the hostpolicy context contract uses for
// the same delegate types.
const contractPrefix = "net_hdt_"

// ParseDelegateType accepts a delegate type name, with either the
// host_fxr_hdt_ or the net_hdt_ prefix, or its decimal value. Integers
// outside the known range pass through unchanged; the runtime rejects them
// itself.
func ParseDelegateType(s string) (DelegateType, error) {
	if rest, ok := strings.CutPrefix(s, contractPrefix); ok {
		s = delegatePrefix + rest
	}
	for i, n := range delegateNames {
		if n == s {
			return DelegateType(i), nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("hostfxr: unknown delegate type %q", s)
	}
	return DelegateType(v), nil
}
