package token

import (
	"math/big"

	"github.com/kindy/goacorn/pkg/source"
)

// RegexValue is the lexeme-dependent payload of a Regexp token (spec §3).
// Host holds the result of attempting to compile the pattern with the
// regexp engine wired in pkg/regexplit; it is nil if the host engine
// could not represent the pattern, mirroring ESTree's requirement that
// Literal.regex.value be null in that case.
type RegexValue struct {
	Pattern string
	Flags   string
	Host    interface{}
}

// TemplateValue is the payload of a Template/InvalidTemplate token: the
// cooked string (escapes decoded) alongside the raw source slice, needed
// because tagged templates expose both.
type TemplateValue struct {
	Cooked string
	Raw    string
}

// SourceLocation pairs a source.Position range with an optional source
// file name (spec §6's `sourceFile` option).
type SourceLocation struct {
	Source string
	Start  source.Position
	End    source.Position
}

// Token is the `{type, value, start, end, [loc]}` record of spec §3.
// Value carries, depending on Type: a string for Name/String/keyword
// lexemes, a float64 for Num, a *big.Int for BigInt, a *RegexValue for
// Regexp, a *TemplateValue for Template/InvalidTemplate, or nil.
type Token struct {
	Type  Type
	Value interface{}
	Start int
	End   int
	Loc   *SourceLocation
	Range *[2]int
}

// StringValue returns Value as a string, or "" if Value isn't a string.
func (t Token) StringValue() string {
	s, _ := t.Value.(string)
	return s
}

// NumValue returns Value as a float64, or 0 if Value isn't numeric.
func (t Token) NumValue() float64 {
	f, _ := t.Value.(float64)
	return f
}

// BigIntValue returns Value as a *big.Int, or nil otherwise.
func (t Token) BigIntValue() *big.Int {
	b, _ := t.Value.(*big.Int)
	return b
}
