package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/module"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [namespace]",
		Short: "List the exported functions",
		Long: `List every namespace and the functions it exports, in enumeration order.

Example:
  hostctl list
  hostctl list hostfxr
  hostctl list --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
}

type namespaceListing struct {
	Namespace string   `json:"namespace"`
	Functions []string `json:"functions"`
}

func runList(args []string) error {
	listings, err := listFunctions(args)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(listings)
	}
	for _, l := range listings {
		printInfo("%s\n", render(namespaceStyle, l.Namespace))
		for _, name := range l.Functions {
			printInfo("%s\n", render(functionStyle, l.Namespace+"::"+name))
		}
	}
	return nil
}

func listFunctions(args []string) ([]namespaceListing, error) {
	var out []namespaceListing
	for i := 0; ; i++ {
		ns, ok := module.EnumerateNameSpaces(i)
		if !ok {
			break
		}
		if len(args) == 1 && args[0] != ns {
			continue
		}
		l := namespaceListing{Namespace: ns}
		for j := 0; ; j++ {
			name, ok := module.EnumerateFunctions(ns, j)
			if !ok {
				break
			}
			l.Functions = append(l.Functions, name)
		}
		out = append(out, l)
	}
	if len(args) == 1 && len(out) == 0 {
		return nil, fmt.Errorf("unknown namespace %q", args[0])
	}
	return out, nil
}
