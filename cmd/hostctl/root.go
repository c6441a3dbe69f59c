package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/cmd/hostctl/config"
	"github.com/joshuapare/hostkit/cmd/hostctl/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string

	// cfg is loaded before every command runs.
	cfg = config.Default()

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "hostctl",
	Short: "Drive the .NET hosting libraries from the command line",
	Long: `hostctl loads nethost, hostfxr and hostpolicy and calls their entry points
through the same namespaced functions a build script uses, for example
hostfxr::resolve-sdk or corehost::main.

Libraries named in the configuration file are loaded before each command.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Configuration file (default: user config dir)/hostctl/hostctl.yaml")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	path, optional := configPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path, optional = p, true
	}
	loaded, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	cfg = loaded

	level := logger.ParseLevel(cfg.Log.Level)
	if verbose && cfg.Log.Level == "" {
		level = logger.ParseLevel("debug")
	}
	closeFn, err := logger.Init(logger.Options{
		Enabled: cfg.Log.Enabled,
		LogDir:  cfg.Log.Dir,
		Level:   level,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	closeLog = closeFn
	logger.Debug("config loaded", "path", path)
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
