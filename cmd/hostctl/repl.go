package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/joshuapare/hostkit/cmd/hostctl/logger"
	"github.com/joshuapare/hostkit/module"
)

func init() {
	rootCmd.AddCommand(newReplCmd())
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell with a persistent session",
		Long: `Start an interactive shell. Every line is a call expression evaluated
against the same session, so loaded libraries, contexts and error writers
persist between lines.

Features:
  - Command history (up/down arrows)
  - History search (Ctrl+R)
  - Multi-line input (end line with \)

Commands: help, list [namespace], exit, quit. Ctrl+D also exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func runRepl() error {
	historyFile := cfg.REPL.History
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".hostctl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cfg.REPL.Prompt,
		HistoryFile:       historyFile,
		HistoryLimit:      cfg.REPL.HistoryLimit,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	return withSession(func(ctx *module.Context) error {
		fmt.Fprintln(os.Stderr, "hostctl repl (type 'help' for commands, 'exit' to quit)")
		return replLoop(ctx, rl, os.Stdout, os.Stderr)
	})
}

// replLoop reads lines from rl until exit or EOF and evaluates each one.
// Evaluation errors are printed and do not end the loop.
func replLoop(ctx *module.Context, rl lineReader, stdout, stderr io.Writer) error {
	prompt := cfg.REPL.Prompt
	var multiLine strings.Builder
	inMultiLine := false

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if inMultiLine {
					multiLine.Reset()
					inMultiLine = false
					rl.SetPrompt(prompt)
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(stdout)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if strings.HasSuffix(line, "\\") {
			multiLine.WriteString(strings.TrimSuffix(line, "\\"))
			multiLine.WriteString(" ")
			inMultiLine = true
			rl.SetPrompt("... ")
			continue
		}
		if inMultiLine {
			multiLine.WriteString(line)
			line = multiLine.String()
			multiLine.Reset()
			inMultiLine = false
			rl.SetPrompt(prompt)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "help":
			fmt.Fprintln(stdout, render(hintStyle, "Enter namespace::name(arg, 'quoted arg'). Commands: list [namespace], exit."))
			continue
		case line == "list" || strings.HasPrefix(line, "list "):
			replList(strings.Fields(line)[1:], stdout, stderr)
			continue
		}

		out, err := ctx.EvaluateString(line)
		if err != nil {
			logger.Debug("repl", "expr", line, "error", err)
			fmt.Fprintln(stderr, render(failureStyle, "Error: "+err.Error()))
			continue
		}
		fmt.Fprintln(stdout, render(resultStyle, string(out)))
	}
}

func replList(args []string, stdout, stderr io.Writer) {
	if len(args) > 1 {
		args = args[:1]
	}
	listings, err := listFunctions(args)
	if err != nil {
		fmt.Fprintln(stderr, render(failureStyle, "Error: "+err.Error()))
		return
	}
	for _, l := range listings {
		fmt.Fprintln(stdout, render(namespaceStyle, l.Namespace))
		for _, name := range l.Functions {
			fmt.Fprintln(stdout, render(functionStyle, l.Namespace+"::"+name))
		}
	}
}
