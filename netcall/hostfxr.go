package netcall

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

// HostFxrInitialize implements hostfxr::initialize(path). It loads the
// resolver, replacing any loaded one, and outputs True or False.
func HostFxrInitialize(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	err := h.LoadHostFxr(string(args[0]))
	if err != nil {
		h.log.Warn("hostfxr initialize", "path", string(args[0]), "error", err)
	}
	return writeBool(out, err == nil)
}

// HostFxrFunctions implements hostfxr::functions([delimiter]). The output
// lists the resolved entry points by their hyphenated names, joined by
// delimiter (a single space by default).
func HostFxrFunctions(h *Host, args [][]byte, out *buffer.Buffer) error {
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	return listFunctions(args, fxr.Functions(), out)
}

// HostFxrIsFunctionExists implements hostfxr::is-function-exists(name).
// name is hyphenated without the namespace, e.g. "run-app".
func HostFxrIsFunctionExists(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	return writeBool(out, fxr.Exists(exportName(hostfxr.Prefix, args[0])))
}

// exportName converts a hyphenated function name into the export it
// stands for: prefix + name with '-' replaced by '_'.
func exportName(prefix string, name []byte) string {
	return prefix + strings.ReplaceAll(string(name), "-", "_")
}

func listFunctions(args [][]byte, resolved []string, out *buffer.Buffer) error {
	if err := argCount(args, 0, 1); err != nil {
		return err
	}
	delimiter := " "
	if len(args) == 1 {
		delimiter = string(args[0])
	}
	names := make([]string, len(resolved))
	for i, n := range resolved {
		names[i] = strings.ReplaceAll(n, "_", "-")
	}
	return out.AppendString(strings.Join(names, delimiter))
}

// Close implements hostfxr::close(ctx). The output is the code.
func Close(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	return writeCode(out, fxr.Close(ctx))
}

// RunApp implements hostfxr::run-app(ctx). The output is the code.
func RunApp(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	return writeCode(out, fxr.RunApp(ctx))
}

// GetAvailableSDKs implements hostfxr::get-available-sdks([exe_dir]). Each
// directory is followed by a NUL. On failure the output is the code alone.
func GetAvailableSDKs(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if len(args) == 1 {
		if _, err := f.path(args[0]); err != nil {
			return err
		}
	}
	argv := f.seal()

	var werr error
	status := fxr.GetAvailableSDKs(argv.At(0), func(dirs []string) {
		for _, d := range dirs {
			if werr == nil {
				werr = out.AppendString(d)
			}
			if werr == nil {
				werr = out.PushBack(0)
			}
		}
	})
	if status.Failed() {
		if err := out.Resize(0); err != nil {
			return err
		}
		return writeCode(out, status)
	}
	return werr
}

// GetDotnetEnvironmentInfo implements
// hostfxr::get-dotnet-environment-info([dotnet_root]). The output is one
// line per fact:
//
//	hostfxr-version <version>
//	hostfxr-commit-hash <hash>
//	sdk <version> <path>
//	framework <name> <version> <path>
//
// On failure the output is the code.
func GetDotnetEnvironmentInfo(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 0, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if len(args) == 1 {
		if _, err := f.path(args[0]); err != nil {
			return err
		}
	}
	argv := f.seal()

	var info *hostfxr.EnvironmentInfo
	status := fxr.GetDotnetEnvironmentInfo(argv.At(0), func(i *hostfxr.EnvironmentInfo) { info = i })
	if status.Failed() || info == nil {
		return writeCode(out, status)
	}
	if err := appendLine(out, "hostfxr-version", info.HostFxrVersion); err != nil {
		return err
	}
	if err := appendLine(out, "hostfxr-commit-hash", info.HostFxrCommitHash); err != nil {
		return err
	}
	for _, sdk := range info.SDKs {
		if err := appendLine(out, "sdk", sdk.Version, sdk.Path); err != nil {
			return err
		}
	}
	for _, fw := range info.Frameworks {
		if err := appendLine(out, "framework", fw.Name, fw.Version, fw.Path); err != nil {
			return err
		}
	}
	return nil
}

func appendLine(out *buffer.Buffer, fields ...string) error {
	if err := out.AppendString(strings.Join(fields, " ")); err != nil {
		return err
	}
	return out.PushBack('\n')
}

// GetNativeSearchDirectories implements
// hostfxr::get-native-search-directories(argv...). The output is the
// directory list. Any failure other than one buffer-too-small round is an
// error.
func GetNativeSearchDirectories(h *Host, args [][]byte, out *buffer.Buffer) error {
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if _, err := f.strs(args); err != nil {
		return err
	}
	argv := f.seal()

	var required int32
	raw := charBuffer(nativestr.PathMax)
	status := fxr.GetNativeSearchDirectories(argv, raw, &required)
	if status == hostfxr.HostApiBufferTooSmall {
		if int(required) < nativestr.PathMax {
			return fmt.Errorf("%w: %d units requested", ErrBufferTooSmall, required)
		}
		raw = charBuffer(int(required))
		status = fxr.GetNativeSearchDirectories(argv, raw, &required)
	}
	if status.Failed() {
		return fmt.Errorf("%w: %s", ErrHostFailure, status)
	}
	return writeText(out, raw)
}

// GetRuntimeDelegate implements hostfxr::get-runtime-delegate(ctx, type,
// assembly, type_name, method[, delegate_type]). The delegate of type is
// obtained from the context and called as load_assembly_and_get_function_pointer
// with the remaining arguments. The output is the resulting function
// pointer, or "\x00<code>" when either step fails.
func GetRuntimeDelegate(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 5, 6); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	t, err := hostfxr.ParseDelegateType(string(args[1]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if _, err := f.path(args[2]); err != nil {
		return err
	}
	if _, err := f.strs(args[3:]); err != nil {
		return err
	}
	argv := f.seal()

	var delegate uintptr
	status := fxr.GetRuntimeDelegate(ctx, t, &delegate)
	if status.Failed() || delegate == 0 {
		return writeFailure(out, status)
	}

	var fn uintptr
	var p runtime.Pinner
	defer p.Unpin()
	raw, _ := fxr.CallPointer(delegate,
		argv.At(0), argv.At(1), argv.At(2), argv.At(3), 0, native.Ref(&p, &fn))
	if status = hostfxr.FromRaw(raw); status.Failed() {
		return writeFailure(out, status)
	}
	return nativestr.AppendPointer(out, fn)
}

// writeFailure appends "\x00<code>".
func writeFailure(out *buffer.Buffer, s hostfxr.Status) error {
	if err := out.PushBack(0); err != nil {
		return err
	}
	return writeCode(out, s)
}

// GetRuntimeProperties implements hostfxr::get-runtime-properties(ctx).
// The output is one "'key' = 'value'" line per property. With no
// properties, or on failure, the output is the code.
func GetRuntimeProperties(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	return writeProperties(out, func(count *uintptr, keys, values []uintptr) hostfxr.Status {
		return fxr.GetRuntimeProperties(ctx, count, keys, values)
	})
}

// writeProperties asks for the property count with empty arrays, fetches
// the properties into arrays of that size and renders them.
func writeProperties(out *buffer.Buffer, get func(count *uintptr, keys, values []uintptr) hostfxr.Status) error {
	var count uintptr
	status := get(&count, nil, nil)
	var keys, values []uintptr
	if status == hostfxr.HostApiBufferTooSmall && count > 0 {
		keys = make([]uintptr, count)
		values = make([]uintptr, count)
		status = get(&count, keys, values)
	}
	if status.Failed() || count == 0 {
		return writeCode(out, status)
	}
	n := min(int(count), len(keys))
	for i := 0; i < n; i++ {
		line := "'" + readString(keys[i]) + "' = '" + readString(values[i]) + "'\n"
		if err := out.AppendString(line); err != nil {
			return err
		}
	}
	return nil
}

func readString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return string(nativestr.Read(unsafe.Pointer(p)))
}

// GetRuntimePropertyValue implements
// hostfxr::get-runtime-property-value(ctx, name). The output is the value,
// followed by "\x00<code>" when the call failed.
func GetRuntimePropertyValue(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 2, 2); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if _, err := f.str(args[1]); err != nil {
		return err
	}
	argv := f.seal()

	var value uintptr
	status := fxr.GetRuntimePropertyValue(ctx, argv.At(0), &value)
	return writeValue(out, value, status)
}

func writeValue(out *buffer.Buffer, value uintptr, status hostfxr.Status) error {
	if value != 0 {
		if err := out.AppendString(readString(value)); err != nil {
			return err
		}
	}
	if status.Failed() {
		return writeFailure(out, status)
	}
	return nil
}

// SetRuntimePropertyValue implements
// hostfxr::set-runtime-property-value(ctx, name[, value]). Without a value
// the property is removed. The output is the code.
func SetRuntimePropertyValue(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 2, 3); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	ctx, err := handle(args[0])
	if err != nil {
		return err
	}
	f, err := h.frame()
	if err != nil {
		return err
	}
	defer f.release()
	if _, err := f.strs(args[1:]); err != nil {
		return err
	}
	argv := f.seal()
	return writeCode(out, fxr.SetRuntimePropertyValue(ctx, argv.At(0), argv.At(1)))
}

// hostPaths packs host path arguments. Empty values become empty strings
// rather than null.
func (h *Host) hostPaths(values [][]byte) (*frame, *nativestr.Argv, error) {
	f, err := h.frame()
	if err != nil {
		return nil, nil, err
	}
	for _, v := range values {
		if _, err := f.path(v); err != nil {
			f.release()
			return nil, nil, err
		}
	}
	return f, f.seal(), nil
}

// hostArgv packs values as an argument vector.
func (h *Host) hostArgv(values [][]byte) (*frame, *nativestr.Argv, error) {
	f, err := h.frame()
	if err != nil {
		return nil, nil, err
	}
	if _, err := f.strs(values); err != nil {
		f.release()
		return nil, nil, err
	}
	return f, f.seal(), nil
}

// writeContext appends the context pointer, followed by " <code>" when
// the call failed or produced no context. If the output cannot be written
// the context is closed so it does not leak.
func writeContext(fxr *hostfxr.Resolver, out *buffer.Buffer, ctx uintptr, status hostfxr.Status) error {
	err := nativestr.AppendPointer(out, ctx)
	if err == nil && (status.Failed() || ctx == 0) {
		if err = out.PushBack(' '); err == nil {
			err = writeCode(out, status)
		}
	}
	if err != nil && ctx != 0 {
		fxr.Close(ctx)
	}
	return err
}

// InitializeForDotnetCommandLine implements
// hostfxr::initialize-for-dotnet-command-line(assembly, dotnet_root, argv...).
// The output is the context pointer, followed by " <code>" when the call
// failed or returned no context.
func InitializeForDotnetCommandLine(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 2, -1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	paths, pv, err := h.hostPaths(args[:2])
	if err != nil {
		return err
	}
	defer paths.release()
	cmd, argv, err := h.hostArgv(args[2:])
	if err != nil {
		return err
	}
	defer cmd.release()

	params := hostfxr.NewInitializeParameters(pv.At(0), pv.At(1))
	var ctx uintptr
	status := fxr.InitializeForDotnetCommandLine(argv, params, &ctx)
	return writeContext(fxr, out, ctx, status)
}

// InitializeForRuntimeConfig implements
// hostfxr::initialize-for-runtime-config(assembly, dotnet_root, runtimeconfig),
// framed like InitializeForDotnetCommandLine.
func InitializeForRuntimeConfig(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 3, 3); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	paths, pv, err := h.hostPaths(args)
	if err != nil {
		return err
	}
	defer paths.release()

	params := hostfxr.NewInitializeParameters(pv.At(0), pv.At(1))
	var ctx uintptr
	status := fxr.InitializeForRuntimeConfig(pv.At(2), params, &ctx)
	return writeContext(fxr, out, ctx, status)
}

// Main implements hostfxr::main(argv...). The output is the code.
func Main(h *Host, args [][]byte, out *buffer.Buffer) error {
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()
	return writeCode(out, fxr.Main(argv))
}

// MainStartupInfo implements
// hostfxr::main-startupinfo(host_path, dotnet_root, app_path, argv...).
// The output is the code.
func MainStartupInfo(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 3, -1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	paths, pv, err := h.hostPaths(args[:3])
	if err != nil {
		return err
	}
	defer paths.release()
	cmd, argv, err := h.hostArgv(args[3:])
	if err != nil {
		return err
	}
	defer cmd.release()
	return writeCode(out, fxr.MainStartupInfo(argv, pv.At(0), pv.At(1), pv.At(2)))
}

// MainBundleStartupInfo implements hostfxr::main-bundle-startupinfo(
// host_path, dotnet_root, app_path, bundle_header_offset, argv...). An
// empty offset is 0. The output is the code.
func MainBundleStartupInfo(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 4, -1); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	var offset int64
	if s := strings.TrimSpace(string(args[3])); s != "" {
		if offset, err = strconv.ParseInt(s, 0, 64); err != nil {
			return fmt.Errorf("%w: bundle header offset %q", ErrInvalidArgument, s)
		}
	}
	paths, pv, err := h.hostPaths(args[:3])
	if err != nil {
		return err
	}
	defer paths.release()
	cmd, argv, err := h.hostArgv(args[4:])
	if err != nil {
		return err
	}
	defer cmd.release()
	return writeCode(out, fxr.MainBundleStartupInfo(argv, pv.At(0), pv.At(1), pv.At(2), offset))
}

// ResolveSDK implements hostfxr::resolve-sdk(exe_dir, working_dir). The
// first call uses a FILENAME_MAX buffer; when the reported length exceeds
// it the call is repeated once with exactly that length. A positive result
// outputs the path, anything else the code.
func ResolveSDK(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 2, 2); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args)
	if err != nil {
		return err
	}
	defer f.release()

	raw := charBuffer(nativestr.PathMax)
	result := fxr.ResolveSDK(argv.At(0), argv.At(1), raw)
	if int(result) > nativestr.PathMax {
		raw = charBuffer(int(result))
		result = fxr.ResolveSDK(argv.At(0), argv.At(1), raw)
	}
	if result <= 0 {
		return writeCode(out, result)
	}
	n := min(int(result), len(raw)/nativestr.CharSize)
	return writeText(out, raw[:n*nativestr.CharSize])
}

// ResolveSDK2 implements hostfxr::resolve-sdk2(exe_dir, working_dir,
// flags). Each reported value is written as "<key> <value>\x00". When
// nothing was reported the output is the code.
func ResolveSDK2(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 3, 3); err != nil {
		return err
	}
	fxr, err := h.resolver()
	if err != nil {
		return err
	}
	flags, err := parseInt32(args[2])
	if err != nil {
		return err
	}
	f, argv, err := h.hostArgv(args[:2])
	if err != nil {
		return err
	}
	defer f.release()

	var werr error
	status := fxr.ResolveSDK2(argv.At(0), argv.At(1), flags, func(key hostfxr.ResolveSDK2Key, value string) {
		if werr == nil {
			werr = out.AppendString(strconv.Itoa(int(key)) + " " + value)
		}
		if werr == nil {
			werr = out.PushBack(0)
		}
	})
	if werr != nil {
		return werr
	}
	if out.Size() == 0 {
		return writeCode(out, status)
	}
	return nil
}
