package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const (
	exitOK          = 0
	exitDifferences = 1
	exitFailure     = 2
)

var commands []*cli.Command

func newApp() *cli.App {
	return &cli.App{
		Name:  "bbcountdiff",
		Usage: "Compare proxy basic block counts with LLVM PGO instrumentation counts",
		Description: "Merges the raw profile with llvm-profdata, dumps per-block counts with opt " +
			"and compares them with the proxy report.\n\n" +
			"Exit status is 0 when all shared blocks agree, 1 when any block differs " +
			"and 2 when a tool or input fails.",
		ArgsUsage:              "<proxy_path> <instr_raw_path> <ir_path>",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "The path to the config file. Defaults to ./bbcountdiff.yaml when present",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "One of debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:    "profdata",
				Usage:   "The llvm-profdata executable",
				EnvVars: []string{"BBCOUNTDIFF_PROFDATA"},
			},
			&cli.StringFlag{
				Name:    "opt",
				Usage:   "The opt executable",
				EnvVars: []string{"BBCOUNTDIFF_OPT"},
			},
			formatFlag(),
			unmatchedFlag(),
			verifyIRFlag(),
		},
		Action:   diff,
		Commands: commands,
		// main maps errors to exit codes.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	app := newApp()
	err := app.RunContext(ctx, pathArgs(app, os.Args))
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err and returns the status the process should exit with.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return exitOK
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(w, msg)
		}
		return ec.ExitCode()
	}

	fmt.Fprintln(w, color.RedString("Error: %s", err))
	return exitFailure
}

// pathArgs keeps a proxy report named like a command (ir, compare, help...)
// from being dispatched as that command. When the arguments have the shape of
// the default action, three positionals, and the first one is an existing
// file, it is passed on as "./name".
func pathArgs(app *cli.App, args []string) []string {
	if len(args) < 2 {
		return args
	}

	valued := map[string]bool{}
	addFlags := func(flags []cli.Flag) {
		for _, f := range flags {
			if _, ok := f.(*cli.BoolFlag); ok {
				continue
			}
			for _, name := range f.Names() {
				valued["-"+name] = true
				valued["--"+name] = true
			}
		}
	}
	addFlags(app.Flags)
	for _, c := range app.Commands {
		addFlags(c.Flags)
	}

	var pos []int
	for i := 1; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			for j := i + 1; j < len(args); j++ {
				pos = append(pos, j)
			}
			i = len(args)
		case len(a) > 1 && strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valued[a] {
				i++
			}
		default:
			pos = append(pos, i)
		}
	}
	if len(pos) != 3 {
		return args
	}

	first := args[pos[0]]
	if app.Command(first) == nil && first != "help" && first != "h" {
		return args
	}
	if fi, err := os.Stat(first); err != nil || fi.IsDir() {
		return args
	}

	out := append([]string(nil), args...)
	out[pos[0]] = "./" + first
	return out
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json or yaml",
	}
}

func unmatchedFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "show-unmatched",
		Aliases: []string{"u"},
		Usage: "Also list blocks seen by only one of the reports. " +
			"They never count as differences",
	}
}

func verifyIRFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "verify-ir",
		Usage: "Parse the IR file before running the LLVM tools and log its function and block counts",
	}
}
