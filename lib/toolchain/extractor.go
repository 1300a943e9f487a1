package toolchain

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	DefaultProfdata = "llvm-profdata"
	DefaultOpt      = "opt"

	rawExt     = ".profraw"
	profileExt = ".profdata"
	reportExt  = ".txt"
)

// Extractor produces an opt raw-counts text report from a .profraw file and
// the IR it was collected from.
type Extractor struct {
	Profdata string
	Opt      string
	// OptArgs are passed to opt before the IR path.
	OptArgs []string

	Runner Runner
	Logger *slog.Logger
}

func NewExtractor(profdata, opt string) *Extractor {
	if profdata == "" {
		profdata = DefaultProfdata
	}
	if opt == "" {
		opt = DefaultOpt
	}
	return &Extractor{
		Profdata: profdata,
		Opt:      opt,
		Runner:   ExecRunner{},
		Logger:   slog.Default(),
	}
}

// ProfdataPath names the merged profile written next to a raw profile.
func ProfdataPath(rawPath string) string {
	return swapExt(rawPath, rawExt, profileExt)
}

// ReportPath names the text report written next to a merged profile.
func ReportPath(profdataPath string) string {
	return swapExt(profdataPath, profileExt, reportExt)
}

// swapExt replaces every occurrence of from with to. A path without from
// gets to appended so the derived artifact never aliases its input.
func swapExt(p, from, to string) string {
	if strings.Contains(p, from) {
		return strings.ReplaceAll(p, from, to)
	}
	return p + to
}

// Extract merges rawPath and replays it against irPath, returning the path of
// the text report. The merge runs first; if it fails opt is never started.
func (e *Extractor) Extract(ctx context.Context, rawPath, irPath string) (string, error) {
	profdata, err := e.Merge(ctx, rawPath)
	if err != nil {
		return "", err
	}
	return e.View(ctx, profdata, irPath)
}

// Merge runs "llvm-profdata merge" and returns the merged profile path.
func (e *Extractor) Merge(ctx context.Context, rawPath string) (string, error) {
	out := ProfdataPath(rawPath)

	var stderr bytes.Buffer
	cmd := Command{
		Path:   e.Profdata,
		Args:   []string{"merge", "-output=" + out, rawPath},
		Stderr: &stderr,
	}

	e.logger().Debug("running tool", "cmd", cmd.String())
	if err := e.Runner.Run(ctx, cmd); err != nil {
		return "", &ToolError{Tool: cmd.Path, Args: cmd.Args, Err: err, Stderr: stderr.String()}
	}
	e.logger().Info("merged raw profile", "raw", rawPath, "profdata", out)
	return out, nil
}

// View runs opt with the PGO instrumentation-use pass. opt prints the raw
// counts on stderr, which is written verbatim to the report file.
func (e *Extractor) View(ctx context.Context, profdataPath, irPath string) (string, error) {
	out := ReportPath(profdataPath)

	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer f.Close()

	args := []string{
		"--passes=pgo-instr-use",
		"-pgo-test-profile-file=" + profdataPath,
		"-pgo-view-raw-counts=text",
	}
	args = append(args, e.OptArgs...)
	args = append(args, irPath)

	var stderr bytes.Buffer
	cmd := Command{
		Path:   e.Opt,
		Args:   args,
		Stdout: io.Discard,
		Stderr: io.MultiWriter(f, &stderr),
	}

	e.logger().Debug("running tool", "cmd", cmd.String())
	if err := e.Runner.Run(ctx, cmd); err != nil {
		return "", &ToolError{Tool: cmd.Path, Args: cmd.Args, Err: err, Stderr: stderr.String()}
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	e.logger().Info("wrote instrumentation report", "path", out)
	return out, nil
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
