package main

import (
	"fmt"

	"github.com/joshuapare/hostkit/cmd/hostctl/logger"
	"github.com/joshuapare/hostkit/module"
)

// hostOptions returns the options every session is created with. Tests
// replace it to route native calls to a fake.
var hostOptions = func() *module.Options {
	return &module.Options{
		Logger:    logger.L,
		Companion: cfg.Companion,
		TempDir:   cfg.TempDir,
	}
}

// openSession creates a Context, loads the configured libraries and runs
// the preload expressions. The caller releases the Context.
func openSession() (*module.Context, error) {
	ctx := module.New(hostOptions())
	if err := loadLibraries(ctx); err != nil {
		ctx.Release()
		return nil, err
	}
	for _, expr := range cfg.Preload {
		out, err := ctx.EvaluateString(expr)
		if err != nil {
			ctx.Release()
			return nil, fmt.Errorf("preload %q: %w", expr, err)
		}
		printVerbose("preload %s => %s\n", expr, out)
		logger.Debug("preload", "expr", expr, "result", string(out))
	}
	return ctx, nil
}

func loadLibraries(ctx *module.Context) error {
	fxr := cfg.HostFxr
	if fxr == "" && cfg.NetHost != "" {
		path, err := ctx.EvaluateStrings(module.NetHostGetHostFxrPath, cfg.NetHost, "", cfg.DotnetRoot)
		if err != nil {
			return fmt.Errorf("locate hostfxr: %w", err)
		}
		printVerbose("nethost resolved hostfxr to %s\n", path)
		fxr = path
	}
	if fxr != "" {
		if err := ctx.Host().LoadHostFxr(fxr); err != nil {
			return err
		}
		logger.Info("hostfxr loaded", "path", fxr)
	}
	if cfg.HostPolicy != "" {
		if err := ctx.Host().LoadHostPolicy(cfg.HostPolicy); err != nil {
			return err
		}
		logger.Info("hostpolicy loaded", "path", cfg.HostPolicy)
	}
	return nil
}

// withSession runs fn against a fresh session and releases it afterwards.
func withSession(fn func(ctx *module.Context) error) error {
	ctx, err := openSession()
	if err != nil {
		return err
	}
	runErr := fn(ctx)
	if err := ctx.Release(); err != nil {
		logger.Warn("release", "error", err)
	}
	return runErr
}
