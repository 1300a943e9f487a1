package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Count is a non-negative execution count.
type Count uint64

func (c *Count) Capture(values []string) error {
	n, err := strconv.ParseUint(values[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %q", values[0])
	}
	*c = Count(n)
	return nil
}

// KeyCount is a "key=value" word whose value is a count, e.g. "Count=42".
// Only the text between the first and second '=' is the value.
type KeyCount struct {
	Key   string
	Value Count
}

func (k *KeyCount) Capture(values []string) error {
	parts := strings.Split(values[0], "=")
	if len(parts) < 2 {
		return fmt.Errorf("expected key=value, got %q", values[0])
	}
	k.Key = parts[0]
	return k.Value.Capture(parts[1:2])
}

// InstrLine is one block line of an opt raw-counts dump:
//
//	BB: for.body  Index=3  Count=120
type InstrLine struct {
	Marker string    `parser:"@Word"`
	Block  string    `parser:"@Word"`
	Index  string    `parser:"@Word"`
	Count  *KeyCount `parser:"@Word"`
	Extra  []string  `parser:"@Word*"`
}

// ProxyLine is one line of a proxy counter report:
//
//	BB 0x401126 120
type ProxyLine struct {
	Label string   `parser:"@Word"`
	Block string   `parser:"@Word"`
	Count *Count   `parser:"@Word"`
	Extra []string `parser:"@Word*"`
}
