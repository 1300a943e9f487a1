package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Path string
	Args []string
}

// fakeRunner records invocations and replays canned stderr and errors keyed
// by tool path.
type fakeRunner struct {
	calls  []call
	stderr map[string]string
	errs   map[string]error
}

func (f *fakeRunner) Run(_ context.Context, c Command) error {
	f.calls = append(f.calls, call{Path: c.Path, Args: c.Args})
	if s, ok := f.stderr[c.Path]; ok && c.Stderr != nil {
		if _, err := io.WriteString(c.Stderr, s); err != nil {
			return err
		}
	}
	return f.errs[c.Path]
}

func TestArtifactPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		profdata string
		report   string
	}{
		{"default.profraw", "default.profdata", "default.txt"},
		{"/tmp/run/app.profraw", "/tmp/run/app.profdata", "/tmp/run/app.txt"},
		{"profile", "profile.profdata", "profile.txt"},
		{"a.profraw.profraw", "a.profdata.profdata", "a.txt.txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profdata, ProfdataPath(tt.raw), tt.raw)
		assert.Equal(t, tt.report, ReportPath(ProfdataPath(tt.raw)), tt.raw)
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := filepath.Join(dir, "default.profraw")

	runner := &fakeRunner{stderr: map[string]string{
		"opt": "  BB: entry  Index=0  Count=1\n",
	}}
	ext := NewExtractor("", "")
	ext.Runner = runner
	ext.OptArgs = []string{"-pgo-instrument-entry"}

	out, err := ext.Extract(context.Background(), raw, "main.ll")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "default.txt"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "  BB: entry  Index=0  Count=1\n", string(data))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, call{
		Path: "llvm-profdata",
		Args: []string{"merge", "-output=" + filepath.Join(dir, "default.profdata"), raw},
	}, runner.calls[0])
	assert.Equal(t, call{
		Path: "opt",
		Args: []string{
			"--passes=pgo-instr-use",
			"-pgo-test-profile-file=" + filepath.Join(dir, "default.profdata"),
			"-pgo-view-raw-counts=text",
			"-pgo-instrument-entry",
			"main.ll",
		},
	}, runner.calls[1])
}

func TestExtract_MergeFailureStopsBeforeOpt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	exitErr := errors.New("exit status 1")
	runner := &fakeRunner{
		stderr: map[string]string{"llvm-profdata-17": "error: default.profraw: invalid instrumentation profile data"},
		errs:   map[string]error{"llvm-profdata-17": exitErr},
	}
	ext := NewExtractor("llvm-profdata-17", "opt-17")
	ext.Runner = runner

	_, err := ext.Extract(context.Background(), filepath.Join(dir, "default.profraw"), "main.ll")
	require.Error(t, err)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "llvm-profdata-17", te.Tool)
	assert.Contains(t, te.Stderr, "invalid instrumentation profile data")
	assert.ErrorIs(t, err, exitErr)
	assert.Contains(t, err.Error(), "llvm-profdata-17 merge -output=")

	assert.Len(t, runner.calls, 1)
	assert.NoFileExists(t, filepath.Join(dir, "default.txt"))
}

func TestExtract_OptFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	runner := &fakeRunner{
		stderr: map[string]string{"opt": "opt: main.ll:1:1: error: expected top-level entity"},
		errs:   map[string]error{"opt": errors.New("exit status 1")},
	}
	ext := NewExtractor("", "")
	ext.Runner = runner

	_, err := ext.Extract(context.Background(), filepath.Join(dir, "default.profraw"), "main.ll")

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "opt", te.Tool)
	assert.Contains(t, err.Error(), "expected top-level entity")
	assert.Len(t, runner.calls, 2)
}

func TestExtract_ReportNotWritable(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	ext := NewExtractor("", "")
	ext.Runner = runner

	_, err := ext.Extract(context.Background(), filepath.Join(t.TempDir(), "missing", "default.profraw"), "main.ll")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Len(t, runner.calls, 1)
}
