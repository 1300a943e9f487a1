// Package parser reads the two block count report formats into counts.Counts.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/vyPal/bbcountdiff/lib/counts"
	bblex "github.com/vyPal/bbcountdiff/lib/lexer"
)

const (
	blockMarker = "BB:"
	fakeNode    = "FakeNode"
)

var (
	instrParser = participle.MustBuild[InstrLine](
		participle.Lexer(bblex.Words),
		participle.Elide("Whitespace"),
	)
	proxyParser = participle.MustBuild[ProxyLine](
		participle.Lexer(bblex.Words),
		participle.Elide("Whitespace"),
	)
)

// LineError reports a report line that does not match its grammar.
type LineError struct {
	Path   string
	Line   int
	Column int
	Text   string
	Err    error
}

func (e *LineError) Error() string {
	msg := e.Err.Error()
	var perr participle.Error
	if errors.As(e.Err, &perr) {
		msg = perr.Message()
	}
	if e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %s (line %q)", e.Path, e.Line, e.Column, msg, e.Text)
	}
	return fmt.Sprintf("%s:%d: %s (line %q)", e.Path, e.Line, msg, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func lineError(path string, n int, text string, err error) *LineError {
	le := &LineError{Path: path, Line: n, Text: text, Err: err}
	var perr participle.Error
	if errors.As(err, &perr) {
		le.Column = perr.Position().Column
	}
	return le
}

// ParseInstrFile reads an opt raw-counts dump from path.
func ParseInstrFile(path string) (counts.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseInstr(f, path)
}

// ParseInstr reads block counts from an opt raw-counts dump. Only lines
// containing "BB:" are considered and synthetic FakeNode blocks are dropped.
// A block that appears more than once keeps its last count.
func ParseInstr(r io.Reader, name string) (counts.Counts, error) {
	c := counts.Counts{}
	err := scanLines(r, name, func(n int, line string) error {
		if !strings.Contains(line, blockMarker) || strings.Contains(line, fakeNode) {
			return nil
		}

		l, err := instrParser.ParseString(name, line)
		if err != nil {
			return lineError(name, n, line, err)
		}
		c[l.Block] = uint64(l.Count.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ParseProxyFile reads a proxy counter report from path.
func ParseProxyFile(path string) (counts.Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseProxy(f, path)
}

// ParseProxy reads block counts from a proxy counter report. Blank lines are
// skipped; a block that appears more than once keeps its last count.
func ParseProxy(r io.Reader, name string) (counts.Counts, error) {
	c := counts.Counts{}
	err := scanLines(r, name, func(n int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}

		l, err := proxyParser.ParseString(name, line)
		if err != nil {
			return lineError(name, n, line, err)
		}
		c[l.Block] = uint64(*l.Count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Grammar returns the EBNF of both line grammars.
func Grammar() string {
	return "// instrumentation report line\n" + instrParser.String() +
		"\n\n// proxy report line\n" + proxyParser.String()
}

// scanLines calls fn for every line of r with its 1-based number. Lines have
// no length limit; a trailing "\r\n" or "\n" is stripped.
func scanLines(r io.Reader, name string, fn func(n int, line string) error) error {
	br := bufio.NewReader(r)

	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if line == "" && err != nil {
			return nil
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if ferr := fn(n, line); ferr != nil {
			return ferr
		}
		if err != nil {
			return nil
		}
	}
}
