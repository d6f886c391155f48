// Package cli is the todo command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

// Options carries process-level dependencies so tests can replace them.
type Options struct {
	Stdin io.Reader
}

// usageError marks errors that map to exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{fmt.Sprintf(format, a...)} }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	root, a := newRootCmd(opt)
	defer a.close()
	root.SetArgs(args)
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}

	err := root.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown ") {
		fmt.Fprintln(ui.Stderr)
		ui.Hint("Run `todo --help` for usage.")
		return 2
	}
	return 1
}

// flags are the persistent overrides applied on top of the loaded config.
type flags struct {
	configPath string
	backend    string
	apiURL     string
	dataFile   string
	timeout    time.Duration
	theme      string
	logLevel   string
	noColor    bool
	color      bool
}

func newRootCmd(opt Options) (*cobra.Command, *app) {
	var f flags
	a := &app{stdin: opt.Stdin, logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny client for a remote todo list",
		Long: `todo - a tiny client for a remote todo list

Todos live on a backend (HTTP by default, or a local JSON file with
--backend file). The interactive list keeps every filter tab in step with
the backend after each change.`,
		Example: `  todo ls
  todo list --filter pending
  todo add "Buy milk"
  todo done 2
  todo rm 3`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetColorForcing(f.color, f.noColor)
			return a.configure(cmd, f)
		},
	}
	root.SetOut(ui.Stdout)
	root.SetErr(ui.Stderr)
	root.SetIn(opt.Stdin)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ~/.tada/config.toml)")
	pf.StringVar(&f.backend, "backend", "", "backend kind: http or file")
	pf.StringVar(&f.apiURL, "api-url", "", "backend base URL")
	pf.StringVar(&f.dataFile, "data-file", "", "todos file for the file backend")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-request timeout")
	pf.StringVar(&f.theme, "theme", "", "output theme: classic, neon or mono")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&f.color, "color", false, "force colored output")

	root.AddCommand(
		newLsCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newRmCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
	)
	return root, a
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func parseID(cmd, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("%s: not a todo id: %s", cmd, s)
	}
	return id, nil
}
