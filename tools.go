package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/bbcountdiff/lib/config"
	"github.com/vyPal/bbcountdiff/lib/irinfo"
	"github.com/vyPal/bbcountdiff/util"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "extract",
		Usage:     "Generate the instrumentation text report without comparing",
		Category:  "llvm",
		ArgsUsage: "<instr_raw_path> <ir_path>",
		Flags: []cli.Flag{
			verifyIRFlag(),
		},
		Action: extract,
	}, &cli.Command{
		Name:      "ir",
		Usage:     "List the functions and basic blocks of an IR file",
		Category:  "llvm",
		ArgsUsage: "<ir_path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "blocks",
				Aliases: []string{"b"},
				Usage:   "Print block names under each function",
			},
		},
		Action: listIR,
	}, &cli.Command{
		Name:      "init",
		Usage:     "Write a default " + config.FileName,
		Category:  "config",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: initConfig,
	})
}

func extract(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit(color.RedString("Error: expected <instr_raw_path> <ir_path>, got %d argument(s)", c.NArg()), exitFailure)
	}
	rawPath, irPath := c.Args().Get(0), c.Args().Get(1)

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading settings: %s", err), exitFailure)
	}

	if c.Bool("verify-ir") {
		verifyIR(s, irPath)
	}

	out, err := s.extractor().Extract(c.Context, rawPath, irPath)
	if err != nil {
		return toolFailure(err)
	}

	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func listIR(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("Error: No IR file specified"), exitFailure)
	}

	sum, err := irinfo.Load(path)
	if err != nil {
		return cli.Exit(color.RedString("Error: %s", err), exitFailure)
	}

	w := c.App.Writer
	for _, f := range sum.Functions {
		fmt.Fprintf(w, "%s %d\n", f.Name, len(f.Blocks))
		if c.Bool("blocks") {
			fmt.Fprintf(w, "  %s\n", strings.Join(f.Blocks, " "))
		}
	}
	fmt.Fprintf(w, "Total: %d functions, %d basic blocks\n", len(sum.Functions), sum.BlockCount())
	return nil
}

func initConfig(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = config.FileName
	}

	err := config.Default().Save(path, c.Bool("force"))
	if errors.Is(err, fs.ErrExist) {
		if !util.PromptYN(c.App.Reader, c.App.Writer, path+" already exists. Overwrite?", false) {
			return nil
		}
		err = config.Default().Save(path, true)
	}
	if err != nil {
		return cli.Exit(color.RedString("Error writing %s: %s", path, err), exitFailure)
	}

	fmt.Fprintln(c.App.Writer, "Wrote", path)
	return nil
}
