package netcall

import (
	"strings"

	"github.com/joshuapare/hostkit/buffer"
	"github.com/joshuapare/hostkit/hostfxr"
	"github.com/joshuapare/hostkit/nethost"
)

// ResultToString implements net::result-to-string(code). The output is the
// symbolic name and numeric forms of the status.
func ResultToString(_ *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 1); err != nil {
		return err
	}
	code, err := parseInt32([]byte(strings.TrimSpace(string(args[0]))))
	if err != nil {
		return err
	}
	return out.AppendString(hostfxr.Status(code).String())
}

// GetHostFxrPath implements
// nethost::get-hostfxr-path(nethost[, assembly[, dotnet_root]]). It loads
// the nethost library for the duration of the call and outputs the
// resolver path it reports.
func GetHostFxrPath(h *Host, args [][]byte, out *buffer.Buffer) error {
	if err := argCount(args, 1, 3); err != nil {
		return err
	}
	var assembly, root string
	if len(args) > 1 {
		assembly = string(args[1])
	}
	if len(args) > 2 {
		root = string(args[2])
	}
	path, err := nethost.GetHostFxrPath(string(args[0]), assembly, root, &nethost.Options{
		Opener: h.opts.Opener,
		Caller: h.opts.Caller,
		Logger: h.log,
	})
	if err != nil {
		return err
	}
	return out.AppendString(path)
}
