package module

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/internal/native"
	"github.com/joshuapare/hostkit/netcall"
)

var (
	// ErrUnknownFunction indicates an id that no function carries.
	ErrUnknownFunction = errors.New("module: unknown function")

	// ErrReleased indicates a call on a released Context.
	ErrReleased = errors.New("module: context released")
)

// Options configures a Context.
type Options struct {
	// Logger receives diagnostics from every layer.
	// Default: a logger that discards everything
	Logger *slog.Logger

	// Companion is the managed assembly file::is-assembly loads.
	// Default: netcall.DefaultCompanion
	Companion string

	// TempDir receives the temporary files some functions write.
	// Default: os.TempDir()
	TempDir string

	// Opener and Caller replace the native loader and call bridge.
	// Default: native.Open and native.Call
	Opener native.Opener
	Caller native.Caller
}

// DefaultOptions returns the options New uses for a nil *Options.
func DefaultOptions() *Options {
	return &Options{
		Logger:    slog.New(slog.DiscardHandler),
		Companion: netcall.DefaultCompanion,
	}
}

// Context holds everything the exported functions share: the loaded
// hosting libraries, the scratch pool, the error-writer files, the context
// contract, the initialize request and the output buffer.
//
// A Context must not be used from more than one goroutine at a time.
type Context struct {
	host *netcall.Host
	log  *slog.Logger
	out  buffer.Buffer
}

// New returns a Context with no hosting library loaded.
func New(opts *Options) *Context {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Context{
		host: netcall.NewHost(&netcall.Options{
			Opener:    opts.Opener,
			Caller:    opts.Caller,
			Logger:    log,
			Companion: opts.Companion,
			TempDir:   opts.TempDir,
		}),
		log: log,
	}
}

// Host exposes the underlying marshaling state.
func (c *Context) Host() *netcall.Host {
	return c.host
}

// Evaluate runs function id with args. The result aliases the Context's
// output buffer and stays valid until the next Evaluate or Release.
//
// A hosting failure is part of the result. The error is non-nil only when
// the call could not be marshaled.
func (c *Context) Evaluate(id FunctionID, args [][]byte) ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, int(id))
	}
	if c.host == nil {
		return nil, ErrReleased
	}
	if err := c.out.Resize(0); err != nil {
		return nil, err
	}
	c.log.Debug("evaluate", "function", id.String(), "args", len(args))
	if err := functions[id].call(c.host, args, &c.out); err != nil {
		c.log.Debug("evaluate failed", "function", id.String(), "error", err)
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return c.out.Bytes(), nil
}

// EvaluateStrings is Evaluate with string arguments and result.
func (c *Context) EvaluateStrings(id FunctionID, args ...string) (string, error) {
	values := make([][]byte, len(args))
	for i, a := range args {
		values[i] = []byte(a)
	}
	out, err := c.Evaluate(id, values)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Release resets the error writers, closes their files, unloads both
// hosting libraries and frees every buffer. The Context must not be used
// afterwards; further calls return ErrReleased.
func (c *Context) Release() error {
	if c.host == nil {
		return nil
	}
	err := c.host.Close()
	c.host = nil
	c.out.Release()
	return err
}
