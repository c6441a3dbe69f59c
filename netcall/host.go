package netcall

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/hostpolicy"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/internal/nativestr"
)

var (
	// ErrArgumentCount indicates a call with too few or too many arguments.
	ErrArgumentCount = errors.New("netcall: wrong number of arguments")

	// ErrNullHandle indicates a context handle or pointer argument that
	// parsed to null.
	ErrNullHandle = errors.New("netcall: null handle")

	// ErrNotLoaded indicates a call that needs a library that is not loaded.
	ErrNotLoaded = errors.New("netcall: library not loaded")

	// ErrBufferTooSmall indicates an output size query that kept failing.
	ErrBufferTooSmall = errors.New("netcall: buffer too small")

	// ErrInvalidArgument indicates an argument that could not be parsed.
	ErrInvalidArgument = errors.New("netcall: invalid argument")

	// ErrHostFailure indicates a hosting call whose failure leaves nothing
	// meaningful to output.
	ErrHostFailure = errors.New("netcall: hosting call failed")
)

// Func is the shape of every marshaling function.
type Func func(h *Host, args [][]byte, out *buffer.Buffer) error

// DefaultCompanion is the managed assembly file::is-assembly loads its
// delegate from.
const DefaultCompanion = "hostkit.clr.dll"

// Options configures a Host.
type Options struct {
	// Opener loads hostfxr, hostpolicy and nethost.
	// Default: native.Open
	Opener native.Opener

	// Caller invokes native functions and delegates.
	// Default: native.Call
	Caller native.Caller

	// Logger receives diagnostics.
	// Default: a logger that discards everything
	Logger *slog.Logger

	// Companion is the managed assembly used by file::is-assembly.
	// Default: DefaultCompanion
	Companion string

	// TempDir holds the temporary runtimeconfig file::is-assembly writes.
	// Default: os.TempDir()
	TempDir string
}

// DefaultOptions returns the options NewHost uses for a nil *Options.
func DefaultOptions() *Options {
	return &Options{
		Opener:    native.Open,
		Caller:    native.Call,
		Logger:    slog.New(slog.DiscardHandler),
		Companion: DefaultCompanion,
	}
}

func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.Opener == nil {
		out.Opener = d.Opener
	}
	if out.Caller == nil {
		out.Caller = d.Caller
	}
	if out.Logger == nil {
		out.Logger = d.Logger
	}
	if out.Companion == "" {
		out.Companion = d.Companion
	}
	return &out
}

// Host owns the state the marshaling functions share: the loaded hostfxr
// and hostpolicy tables, the error-writer files, a pool of scratch buffers,
// and the context contract, initialize request and host interface handed
// to hostpolicy.
//
// A Host is not safe for concurrent use.
type Host struct {
	opts *Options
	log  *slog.Logger

	fxr    *hostfxr.Resolver
	policy *hostpolicy.Policy

	contract      *hostpolicy.Contract
	request       *hostpolicy.Request
	hostInterface *hostpolicy.Interface

	errorFiles [2]*os.File
	pool       buffer.Pool
}

// NewHost returns a Host with no library loaded.
func NewHost(opts *Options) *Host {
	o := opts.withDefaults()
	return &Host{
		opts:     o,
		log:      o.Logger,
		contract:      hostpolicy.NewContract(o.Caller),
		request:       hostpolicy.NewRequest(),
		hostInterface: hostpolicy.NewInterface(),
	}
}

// Resolver returns the loaded hostfxr table, or nil.
func (h *Host) Resolver() *hostfxr.Resolver {
	return h.fxr
}

// Policy returns the loaded hostpolicy table, or nil.
func (h *Host) Policy() *hostpolicy.Policy {
	return h.policy
}

// Contract returns the context contract passed to corehost_initialize.
func (h *Host) Contract() *hostpolicy.Contract {
	return h.contract
}

// Request returns the initialize request passed to corehost_initialize.
func (h *Host) Request() *hostpolicy.Request {
	return h.request
}

// HostInterface returns the host interface passed to corehost_load.
func (h *Host) HostInterface() *hostpolicy.Interface {
	return h.hostInterface
}

// LoadHostFxr loads the resolver at path, unloading any previous one first.
func (h *Host) LoadHostFxr(path string) error {
	if err := h.fxr.Unload(); err != nil {
		h.log.Warn("unload hostfxr", "error", err)
	}
	h.fxr = nil
	fxr, err := hostfxr.Load(path, &hostfxr.Options{
		Opener: h.opts.Opener,
		Caller: h.opts.Caller,
		Logger: h.log,
	})
	if err != nil {
		return err
	}
	h.fxr = fxr
	return nil
}

// LoadHostPolicy loads the policy library at path, closing any previous
// one first.
func (h *Host) LoadHostPolicy(path string) error {
	if err := h.policy.Close(); err != nil {
		h.log.Warn("close hostpolicy", "error", err)
	}
	h.policy = nil
	policy, err := hostpolicy.Load(path, &hostpolicy.Options{
		Opener: h.opts.Opener,
		Caller: h.opts.Caller,
		Logger: h.log,
	})
	if err != nil {
		return err
	}
	h.policy = policy
	return nil
}

// Close closes the error-writer files, resets both writers, unloads both
// libraries and frees the hostpolicy structures and the scratch pool.
// The Host must not be used afterwards.
func (h *Host) Close() error {
	var errs []error
	if h.fxr.Loaded() {
		if _, err := h.setErrorWriter(native.HostFxrErrors, nil); err != nil {
			errs = append(errs, err)
		}
	}
	if h.policy.Loaded() {
		if _, err := h.setErrorWriter(native.HostPolicyErrors, nil); err != nil {
			errs = append(errs, err)
		}
	}
	for slot := range h.errorFiles {
		if err := h.closeErrorFile(native.ErrorSlot(slot)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.fxr.Unload(); err != nil {
		errs = append(errs, err)
	}
	if err := h.policy.Close(); err != nil {
		errs = append(errs, err)
	}
	h.fxr, h.policy = nil, nil

	h.contract.Release()
	h.request.Release()
	h.hostInterface.Release()
	if !h.pool.Release() {
		h.log.Warn("scratch buffers still in use at close")
	}
	return errors.Join(errs...)
}

func (h *Host) resolver() (*hostfxr.Resolver, error) {
	if !h.fxr.Loaded() {
		return nil, fmt.Errorf("hostfxr: %w", ErrNotLoaded)
	}
	return h.fxr, nil
}

func (h *Host) hostPolicy() (*hostpolicy.Policy, error) {
	if !h.policy.Loaded() {
		return nil, fmt.Errorf("hostpolicy: %w", ErrNotLoaded)
	}
	return h.policy, nil
}

// frame collects the native strings of one call in a pooled buffer.
type frame struct {
	host  *Host
	store *buffer.Buffer
	args  *nativestr.Arguments
	argv  *nativestr.Argv
}

func (h *Host) frame() (*frame, error) {
	store, err := h.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return &frame{host: h, store: store, args: nativestr.NewArguments(store)}, nil
}

func (f *frame) str(v []byte) (int, error) {
	return f.args.Add(v)
}

func (f *frame) path(v []byte) (int, error) {
	return f.args.AddPath(v)
}

// strs adds every value and returns the index of the first one.
func (f *frame) strs(values [][]byte) (int, error) {
	first := f.args.Len()
	if err := f.args.AddAll(values); err != nil {
		return 0, err
	}
	return first, nil
}

func (f *frame) seal() *nativestr.Argv {
	f.argv = f.args.Materialize()
	return f.argv
}

func (f *frame) release() {
	f.argv.Release()
	if err := f.host.pool.Return(f.store); err != nil {
		f.host.log.Warn("return scratch buffer", "error", err)
	}
}

// scratch hands a pooled buffer to fn.
func (h *Host) scratch(fn func(b *buffer.Buffer) error) error {
	b, err := h.pool.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if rerr := h.pool.Return(b); rerr != nil {
			h.log.Warn("return scratch buffer", "error", rerr)
		}
	}()
	return fn(b)
}

// argCount checks lo <= len(args) <= hi. A negative hi means no limit.
func argCount(args [][]byte, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return fmt.Errorf("%w: got %d", ErrArgumentCount, len(args))
	}
	return nil
}

// handle parses a context handle argument.
func handle(arg []byte) (uintptr, error) {
	p, err := nativestr.ParsePointer(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if p == 0 {
		return 0, ErrNullHandle
	}
	return p, nil
}

func parseInt32(arg []byte) (int32, error) {
	v, err := strconv.ParseInt(string(arg), 0, 64)
	if err != nil || v < -0x80000000 || v > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: %q is not a 32-bit integer", ErrInvalidArgument, arg)
	}
	return int32(uint32(v)), nil
}

func writeCode(out *buffer.Buffer, s hostfxr.Status) error {
	return out.AppendString(strconv.FormatInt(int64(s), 10))
}

func writeBool(out *buffer.Buffer, v bool) error {
	if v {
		return out.AppendString("True")
	}
	return out.AppendString("False")
}

// writeText decodes a native char_t buffer up to its first NUL.
func writeText(out *buffer.Buffer, raw []byte) error {
	text, err := nativestr.Decode(nativestr.Cut(raw))
	if err != nil {
		return err
	}
	return out.Append(text)
}

// charBuffer returns a zeroed buffer of n char_t units.
func charBuffer(n int) []byte {
	if n < 1 {
		n = 1
	}
	return make([]byte, n*nativestr.CharSize)
}
