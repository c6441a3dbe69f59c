package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/cmd/hostctl/logger"
	"github.com/joshuapare/hostkit/module"
)

func init() {
	rootCmd.AddCommand(newCallCmd(), newEvalCmd(), newResultCmd())
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <namespace::name> [args...]",
		Short: "Call one function with literal arguments",
		Long: `Call a single function. Every argument after the function name is passed
verbatim, so no quoting beyond the shell's is needed.

Example:
  hostctl call hostfxr::get-available-sdks /usr/share/dotnet
  hostctl call net::result-to-string -2147450728`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(args)
		},
	}
}

func runCall(args []string) error {
	id, ok := module.LookupQualified(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", module.ErrUnknownFunction, args[0])
	}
	return withSession(func(ctx *module.Context) error {
		out, err := ctx.EvaluateStrings(id, args[1:]...)
		if err != nil {
			return err
		}
		return printResult(id.String(), out)
	})
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate call expressions in one session",
		Long: `Evaluate each expression in order against a single session, so handles
returned by one call can be passed to the next.

Example:
  hostctl eval "hostfxr::resolve-sdk('', '/src/app', 0)"
  hostctl eval "corehost::initialize(get_contract)" "corehost-context-contract::load-runtime"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(args)
		},
	}
}

func runEval(args []string) error {
	return withSession(func(ctx *module.Context) error {
		for _, expr := range args {
			out, err := ctx.EvaluateString(expr)
			if err != nil {
				logger.Warn("eval", "expr", expr, "error", err)
				return err
			}
			if err := printResult(expr, string(out)); err != nil {
				return err
			}
		}
		return nil
	})
}

func newResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <code>",
		Short: "Describe a hosting status code",
		Long: `Print the symbolic name of a hosting status code. No library is loaded.

Example:
  hostctl result 0x80008096
  hostctl result -2147450730`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(args)
		},
	}
}

func runResult(args []string) error {
	ctx := module.New(hostOptions())
	defer ctx.Release()
	out, err := ctx.EvaluateStrings(module.NetResultToString, args[0])
	if err != nil {
		return err
	}
	return printResult(args[0], out)
}

type callResult struct {
	Call   string `json:"call"`
	Result string `json:"result"`
}

func printResult(call, out string) error {
	if jsonOut {
		return printJSON(callResult{Call: call, Result: out})
	}
	printVerbose("%s\n", call)
	printInfo("%s\n", out)
	return nil
}
