// Package toolchain drives llvm-profdata and opt to turn a raw instrumentation
// profile into a per-block text report.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command is a single external tool invocation. A nil Stdout or Stderr
// discards that stream.
type Command struct {
	Path   string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Runner runs external tools and waits for them to exit.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// ToolError is returned when an external tool cannot be started or exits
// with a non-zero status.
type ToolError struct {
	Tool   string
	Args   []string
	Err    error
	Stderr string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", Command{Path: e.Tool, Args: e.Args}, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
