// Package bblex defines the lexer shared by the count report grammars.
package bblex

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Words splits a report line into whitespace separated words. Whitespace is
// emitted as its own token so grammars can elide it.
var Words lexer.Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})
