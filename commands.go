package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/bbcountdiff/lib/counts"
	"github.com/vyPal/bbcountdiff/lib/parser"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:     "compare",
		Usage:    "Compare a proxy report with an existing instrumentation text report",
		Category: "reports",
		Description: "Skips llvm-profdata and opt. The instrumentation report is the text " +
			"opt writes with -pgo-view-raw-counts=text.",
		ArgsUsage: "<proxy_path> <instr_report_path>",
		Flags: []cli.Flag{
			formatFlag(),
			unmatchedFlag(),
		},
		Action: compare,
	}, &cli.Command{
		Name:      "counts",
		Usage:     "Parse a report and print its block counts",
		Category:  "reports",
		ArgsUsage: "<report_path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "The report format: instr or proxy",
				Value:   "proxy",
			},
			formatFlag(),
		},
		Action: dumpCounts,
	}, &cli.Command{
		Name:     "grammar",
		Usage:    "Print the EBNF grammar of both report line formats",
		Category: "reports",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, parser.Grammar())
			return nil
		},
	})
}

func compare(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit(color.RedString("Error: expected <proxy_path> <instr_report_path>, got %d argument(s)", c.NArg()), exitFailure)
	}

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading settings: %s", err), exitFailure)
	}

	return compareFiles(c, s, c.Args().Get(0), c.Args().Get(1))
}

func dumpCounts(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("Error: No report specified"), exitFailure)
	}

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading settings: %s", err), exitFailure)
	}

	var bc counts.Counts
	switch kind := c.String("kind"); kind {
	case "instr":
		bc, err = parser.ParseInstrFile(path)
		if err != nil {
			return inputFailure("instrumentation report", err)
		}
	case "proxy":
		bc, err = parser.ParseProxyFile(path)
		if err != nil {
			return inputFailure("proxy report", err)
		}
	default:
		return cli.Exit(color.RedString("Error: unknown report kind %q (want instr or proxy)", kind), exitFailure)
	}

	err = bc.Write(c.App.Writer, s.format)
	if err != nil {
		return cli.Exit(color.RedString("Error writing counts: %s", err), exitFailure)
	}
	return nil
}
