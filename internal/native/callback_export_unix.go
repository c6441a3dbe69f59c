//go:build unix && cgo

package native

/*
#include <stdint.h>
*/
import "C"

//export hkDeliverStrings
func hkDeliverStrings(count C.int32_t, values C.uintptr_t) {
	DeliverStrings(int32(count), uintptr(values))
}

//export hkDeliverKeyValue
func hkDeliverKeyValue(key C.int32_t, value C.uintptr_t) {
	DeliverKeyValue(int32(key), uintptr(value))
}

//export hkDeliverTriple
func hkDeliverTriple(a, b, c C.uintptr_t) {
	DeliverTriple(uintptr(a), uintptr(b), uintptr(c))
}

//export hkDeliverEnvironment
func hkDeliverEnvironment(info, context C.uintptr_t) {
	DeliverEnvironment(uintptr(info), uintptr(context))
}

//export hkDeliverError
func hkDeliverError(slot C.int, msg C.uintptr_t) {
	DeliverError(ErrorSlot(slot), uintptr(msg))
}
