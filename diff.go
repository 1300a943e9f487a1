package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"github.com/vyPal/bbcountdiff/lib/counts"
	"github.com/vyPal/bbcountdiff/lib/irinfo"
	"github.com/vyPal/bbcountdiff/lib/parser"
	"github.com/vyPal/bbcountdiff/lib/toolchain"
)

func diff(c *cli.Context) error {
	if c.NArg() != 3 {
		cli.ShowAppHelp(c)
		return cli.Exit(color.RedString("Error: expected <proxy_path> <instr_raw_path> <ir_path>, got %d argument(s)", c.NArg()), exitFailure)
	}
	proxyPath, rawPath, irPath := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	s, err := loadSettings(c)
	if err != nil {
		return cli.Exit(color.RedString("Error loading settings: %s", err), exitFailure)
	}

	if c.Bool("verify-ir") {
		verifyIR(s, irPath)
	}

	instrPath, err := s.extractor().Extract(c.Context, rawPath, irPath)
	if err != nil {
		return toolFailure(err)
	}

	return compareFiles(c, s, proxyPath, instrPath)
}

// compareFiles parses both reports, prints the differences and maps the
// result to the process exit status.
func compareFiles(c *cli.Context, s *settings, proxyPath, instrPath string) error {
	instr, err := parser.ParseInstrFile(instrPath)
	if err != nil {
		return inputFailure("instrumentation report", err)
	}
	proxy, err := parser.ParseProxyFile(proxyPath)
	if err != nil {
		return inputFailure("proxy report", err)
	}
	s.logger.Info("parsed block counts", "instr", len(instr), "proxy", len(proxy))

	report := counts.Compare(instr, proxy)
	s.logger.Debug("compared block counts",
		"mismatches", report.Total(),
		"instr_only", len(report.InstrOnly),
		"proxy_only", len(report.ProxyOnly))

	w := c.App.Writer
	if err := report.Write(w, s.format, c.Bool("show-unmatched")); err != nil {
		return cli.Exit(color.RedString("Error writing report: %s", err), exitFailure)
	}

	if report.Total() > 0 {
		return cli.Exit("", exitDifferences)
	}
	if s.format == counts.Text {
		color.New(color.FgGreen).Fprintln(w, "No differences in basic block counts")
	}
	return nil
}

func verifyIR(s *settings, irPath string) {
	sum, err := irinfo.Load(irPath)
	if err != nil {
		s.logger.Warn("could not parse IR, continuing", "path", irPath, "error", err)
		return
	}
	s.logger.Info("parsed IR", "path", irPath, "functions", len(sum.Functions), "blocks", sum.BlockCount())
}

func toolFailure(err error) error {
	var te *toolchain.ToolError
	if errors.As(err, &te) {
		return cli.Exit(color.RedString("Error while running %s: %s", te.Tool, err), exitFailure)
	}
	return cli.Exit(color.RedString("Error generating instrumentation report: %s", err), exitFailure)
}

func inputFailure(what string, err error) error {
	var le *parser.LineError
	if errors.As(err, &le) {
		return cli.Exit(color.RedString("Error: malformed %s: %s", what, err), exitFailure)
	}
	return cli.Exit(color.RedString("Error reading %s: %s", what, err), exitFailure)
}
