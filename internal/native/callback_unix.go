//go:build unix && cgo

package native

/*
#include <stdint.h>

extern void hkDeliverStrings(int32_t, uintptr_t);
extern void hkDeliverKeyValue(int32_t, uintptr_t);
extern void hkDeliverTriple(uintptr_t, uintptr_t, uintptr_t);
extern void hkDeliverEnvironment(uintptr_t, uintptr_t);
extern void hkDeliverError(int, uintptr_t);

static void hk_strings(int32_t count, const void** values) {
	hkDeliverStrings(count, (uintptr_t)values);
}
static void hk_key_value(int32_t key, const void* value) {
	hkDeliverKeyValue(key, (uintptr_t)value);
}
static void hk_triple(const void* a, const void* b, const void* c) {
	hkDeliverTriple((uintptr_t)a, (uintptr_t)b, (uintptr_t)c);
}
static void hk_environment(const void* info, void* context) {
	hkDeliverEnvironment((uintptr_t)info, (uintptr_t)context);
}
static void hk_hostfxr_error(const void* message) {
	hkDeliverError(0, (uintptr_t)message);
}
static void hk_hostpolicy_error(const void* message) {
	hkDeliverError(1, (uintptr_t)message);
}

static uintptr_t hk_strings_addr(void) { return (uintptr_t)&hk_strings; }
static uintptr_t hk_key_value_addr(void) { return (uintptr_t)&hk_key_value; }
static uintptr_t hk_triple_addr(void) { return (uintptr_t)&hk_triple; }
static uintptr_t hk_environment_addr(void) { return (uintptr_t)&hk_environment; }
static uintptr_t hk_error_addr(int slot) {
	return slot == 0 ? (uintptr_t)&hk_hostfxr_error : (uintptr_t)&hk_hostpolicy_error;
}
*/
import "C"

// StringsCallback returns the address of the (count, values) trampoline.
func StringsCallback() uintptr { return uintptr(C.hk_strings_addr()) }

// KeyValueCallback returns the address of the (key, value) trampoline.
func KeyValueCallback() uintptr { return uintptr(C.hk_key_value_addr()) }

// TripleCallback returns the address of the three-string trampoline.
func TripleCallback() uintptr { return uintptr(C.hk_triple_addr()) }

// EnvironmentCallback returns the address of the environment-info trampoline.
func EnvironmentCallback() uintptr { return uintptr(C.hk_environment_addr()) }

func errorWriter(slot ErrorSlot) uintptr {
	return uintptr(C.hk_error_addr(C.int(slot)))
}
