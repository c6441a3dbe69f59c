package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/cmd/hostctl/config"
)

func init() {
	rootCmd.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSchema()
		},
	}, &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file and print the effective settings. Without a
path the file named by --config, or the default location, is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigCheck(args)
		},
	})
	return cmd
}

func runConfigSchema() error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func runConfigCheck(args []string) error {
	checked := cfg
	if len(args) == 1 {
		loaded, err := config.Load(args[0], false)
		if err != nil {
			return err
		}
		checked = loaded
	}
	if jsonOut {
		return printJSON(checked)
	}
	printInfo("%s\n", render(resultStyle, "configuration is valid"))
	printInfo("  hostfxr:    %s\n", orUnset(checked.HostFxr))
	printInfo("  hostpolicy: %s\n", orUnset(checked.HostPolicy))
	printInfo("  nethost:    %s\n", orUnset(checked.NetHost))
	printInfo("  preload:    %d expression(s)\n", len(checked.Preload))
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return render(hintStyle, "(unset)")
	}
	return s
}
