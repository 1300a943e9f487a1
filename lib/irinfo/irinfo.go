// Package irinfo summarizes the functions and basic blocks of an LLVM IR
// assembly file.
package irinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

type Function struct {
	Name   string
	Blocks []string
}

type Summary struct {
	Path      string
	Functions []Function
}

// BlockCount is the number of basic blocks across all defined functions.
func (s *Summary) BlockCount() int {
	n := 0
	for _, f := range s.Functions {
		n += len(f.Blocks)
	}
	return n
}

// Load parses the .ll file at path. Declarations without a body are left out.
// A file with content that yields no top-level entity is rejected; the llir
// parser accepts arbitrary text as an empty module.
func Load(path string) (*Summary, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing IR %s: %w", path, err)
	}
	m, err := asm.ParseBytes(path, src)
	if err != nil {
		return nil, fmt.Errorf("parsing IR %s: %w", path, err)
	}
	if isEmpty(m) && hasContent(string(src)) {
		return nil, fmt.Errorf("parsing IR %s: no top-level entities", path)
	}

	s := &Summary{Path: path}
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		fn := Function{Name: f.Name()}
		for _, b := range f.Blocks {
			fn.Blocks = append(fn.Blocks, b.Name())
		}
		s.Functions = append(s.Functions, fn)
	}
	return s, nil
}

func isEmpty(m *ir.Module) bool {
	return len(m.Funcs) == 0 && len(m.Globals) == 0 && len(m.TypeDefs) == 0 &&
		len(m.Aliases) == 0 && len(m.IFuncs) == 0 && len(m.ComdatDefs) == 0 &&
		len(m.AttrGroupDefs) == 0 && len(m.ModuleAsms) == 0 &&
		len(m.NamedMetadataDefs) == 0 && len(m.MetadataDefs) == 0 &&
		m.SourceFilename == "" && m.DataLayout == "" && m.TargetTriple == ""
}

// hasContent reports whether src has anything besides blank lines and
// ; comments.
func hasContent(src string) bool {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, ";") {
			return true
		}
	}
	return false
}
