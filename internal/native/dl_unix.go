//go:build unix && cgo

package native

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>

static void* hk_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}
static const char* hk_dlerror(void) {
	return dlerror();
}
static void* hk_dlsym(void* h, const char* name) {
	dlerror();
	return dlsym(h, name);
}
static int hk_dlclose(void* h) {
	return dlclose(h);
}

typedef intptr_t (*hk_fn0)(void);
typedef intptr_t (*hk_fn1)(intptr_t);
typedef intptr_t (*hk_fn2)(intptr_t, intptr_t);
typedef intptr_t (*hk_fn3)(intptr_t, intptr_t, intptr_t);
typedef intptr_t (*hk_fn4)(intptr_t, intptr_t, intptr_t, intptr_t);
typedef intptr_t (*hk_fn5)(intptr_t, intptr_t, intptr_t, intptr_t, intptr_t);
typedef intptr_t (*hk_fn6)(intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t);
typedef intptr_t (*hk_fn7)(intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t);
typedef intptr_t (*hk_fn8)(intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t, intptr_t);

static intptr_t hk_call(uintptr_t fn, int n, const intptr_t* a) {
	switch (n) {
	case 0: return ((hk_fn0)fn)();
	case 1: return ((hk_fn1)fn)(a[0]);
	case 2: return ((hk_fn2)fn)(a[0], a[1]);
	case 3: return ((hk_fn3)fn)(a[0], a[1], a[2]);
	case 4: return ((hk_fn4)fn)(a[0], a[1], a[2], a[3]);
	case 5: return ((hk_fn5)fn)(a[0], a[1], a[2], a[3], a[4]);
	case 6: return ((hk_fn6)fn)(a[0], a[1], a[2], a[3], a[4], a[5]);
	case 7: return ((hk_fn7)fn)(a[0], a[1], a[2], a[3], a[4], a[5], a[6]);
	case 8: return ((hk_fn8)fn)(a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7]);
	}
	return -1;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

type dlLibrary struct {
	handle unsafe.Pointer
}

// Open loads path with dlopen(RTLD_NOW|RTLD_LOCAL).
func Open(path string) (Library, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	p, err := unix.BytePtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrLoad, path, err)
	}
	h := C.hk_dlopen((*C.char)(unsafe.Pointer(p)))
	if h == nil {
		return nil, fmt.Errorf("%w %q: %s", ErrLoad, path, C.GoString(C.hk_dlerror()))
	}
	return &dlLibrary{handle: h}, nil
}

func (l *dlLibrary) Symbol(name string) uintptr {
	if l.handle == nil {
		return 0
	}
	p, err := unix.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	return uintptr(C.hk_dlsym(l.handle, (*C.char)(unsafe.Pointer(p))))
}

func (l *dlLibrary) Close() error {
	if l.handle == nil {
		return nil
	}
	h := l.handle
	l.handle = nil
	if C.hk_dlclose(h) != 0 {
		return fmt.Errorf("native: dlclose: %s", C.GoString(C.hk_dlerror()))
	}
	return nil
}

// Call invokes fn with up to MaxArgs integer arguments.
func Call(fn uintptr, args ...uintptr) uintptr {
	if len(args) > MaxArgs {
		panic(fmt.Sprintf("native: %d arguments exceed the %d supported", len(args), MaxArgs))
	}
	var a [MaxArgs]C.intptr_t
	for i, v := range args {
		a[i] = C.intptr_t(v)
	}
	return uintptr(C.hk_call(C.uintptr_t(fn), C.int(len(args)), &a[0]))
}
