package counts

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []Format{Text, JSON, YAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

type reportDoc struct {
	Mismatches []Mismatch `json:"mismatches" yaml:"mismatches"`
	Total      int        `json:"total" yaml:"total"`
	InstrOnly  []Entry    `json:"instr_only,omitempty" yaml:"instr_only,omitempty"`
	ProxyOnly  []Entry    `json:"proxy_only,omitempty" yaml:"proxy_only,omitempty"`
}

// Write renders the report. Blocks seen by only one source are included
// only when unmatched is set.
func (r *Report) Write(w io.Writer, f Format, unmatched bool) error {
	if f == Text {
		return r.writeText(w, unmatched)
	}

	doc := reportDoc{Mismatches: r.Mismatches, Total: r.Total()}
	if doc.Mismatches == nil {
		doc.Mismatches = []Mismatch{}
	}
	if unmatched {
		doc.InstrOnly = r.InstrOnly
		doc.ProxyOnly = r.ProxyOnly
	}
	return encode(w, f, doc)
}

func (r *Report) writeText(w io.Writer, unmatched bool) error {
	header := color.New(color.FgYellow)
	for _, m := range r.Mismatches {
		if _, err := header.Fprintf(w, "BB: %s has different counts:\n", m.Block); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "instr:%d vs proxy:%d\n", m.Instr, m.Proxy); err != nil {
			return err
		}
	}

	if unmatched {
		for _, e := range r.InstrOnly {
			if _, err := fmt.Fprintf(w, "BB: %s only in instr (count %d)\n", e.Block, e.Count); err != nil {
				return err
			}
		}
		for _, e := range r.ProxyOnly {
			if _, err := fmt.Fprintf(w, "BB: %s only in proxy (count %d)\n", e.Block, e.Count); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "Total different basic blocks: %d\n", r.Total())
	return err
}

// Write renders the mapping sorted by block identifier.
func (c Counts) Write(w io.Writer, f Format) error {
	if f != Text {
		return encode(w, f, map[string]uint64(c))
	}

	for _, b := range c.Blocks() {
		if _, err := fmt.Fprintf(w, "%s %d\n", b, c[b]); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown format %q", f)
}
