// Package counts compares basic block execution counts from two sources.
package counts

import "sort"

// Counts maps a block identifier to its execution count. Identifiers are
// opaque and compared byte for byte.
type Counts map[string]uint64

// Blocks returns the identifiers in lexicographic order.
func (c Counts) Blocks() []string {
	blocks := make([]string, 0, len(c))
	for b := range c {
		blocks = append(blocks, b)
	}
	sort.Strings(blocks)
	return blocks
}

// Mismatch is a block present in both sources with different counts.
type Mismatch struct {
	Block string `json:"block" yaml:"block"`
	Instr uint64 `json:"instr" yaml:"instr"`
	Proxy uint64 `json:"proxy" yaml:"proxy"`
}

// Entry is a block seen by only one source.
type Entry struct {
	Block string `json:"block" yaml:"block"`
	Count uint64 `json:"count" yaml:"count"`
}

// Report is the outcome of comparing instrumentation counts against proxy
// counts.
type Report struct {
	// Mismatches are ordered by block identifier.
	Mismatches []Mismatch

	InstrOnly []Entry
	ProxyOnly []Entry
}

// Total is the number of blocks whose counts differ.
func (r *Report) Total() int {
	return len(r.Mismatches)
}

// Compare walks the instrumentation blocks in sorted order and records every
// block the proxy also saw with a different count. Blocks missing from either
// side never count as mismatches; they are collected in InstrOnly and
// ProxyOnly.
func Compare(instr, proxy Counts) *Report {
	r := &Report{}
	for _, b := range instr.Blocks() {
		p, ok := proxy[b]
		if !ok {
			r.InstrOnly = append(r.InstrOnly, Entry{Block: b, Count: instr[b]})
			continue
		}
		if instr[b] != p {
			r.Mismatches = append(r.Mismatches, Mismatch{Block: b, Instr: instr[b], Proxy: p})
		}
	}

	for _, b := range proxy.Blocks() {
		if _, ok := instr[b]; !ok {
			r.ProxyOnly = append(r.ProxyOnly, Entry{Block: b, Count: proxy[b]})
		}
	}
	return r
}
