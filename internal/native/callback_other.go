//go:build !windows && !(unix && cgo)

package native

// StringsCallback returns 0: this build cannot receive native callbacks.
func StringsCallback() uintptr { return 0 }

// KeyValueCallback returns 0.
func KeyValueCallback() uintptr { return 0 }

// TripleCallback returns 0.
func TripleCallback() uintptr { return 0 }

// EnvironmentCallback returns 0.
func EnvironmentCallback() uintptr { return 0 }

func errorWriter(ErrorSlot) uintptr { return 0 }
