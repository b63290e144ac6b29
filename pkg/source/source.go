// Package source holds the immutable UTF-16 code-unit buffer the
// tokenizer scans, plus the lazily-computed line/column index spec §3
// describes. Real-world JavaScript files sometimes carry a leading
// byte-order mark; stripping it is delegated to golang.org/x/text's
// Unicode BOM sniffer rather than hand-rolled, the way paserati's go.mod
// (github.com/kindy/goacorn's DOMAIN STACK entry, see SPEC_FULL.md)
// pulls in golang.org/x/text for exactly this JS-source-ingestion job.
package source

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Buffer is the parser's view of the source text: a UTF-16 code-unit
// sequence (spec §3's "Source buffer") together with the original UTF-8
// text, since token lexemes are sliced and returned to callers as Go
// strings.
type Buffer struct {
	text  string
	units []uint16
	// unitOffset[i] is the byte offset in text of code unit i's first
	// UTF-8 byte, used to translate between unit offsets (what the
	// lexer counts in) and byte offsets (what Go string slicing wants).
	unitOffset []int
}

// New strips a leading BOM (if any) and builds the UTF-16 view of text.
func New(text string) *Buffer {
	text = stripBOM(text)
	units := make([]uint16, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			units = append(units, uint16(hi), uint16(lo))
			offsets = append(offsets, i, i)
		} else {
			units = append(units, uint16(r))
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return &Buffer{text: text, units: units, unitOffset: offsets}
}

// stripBOM removes a leading UTF-8/UTF-16 byte-order mark. BOMOverride
// detects the BOM's encoding and transcodes to UTF-8; when no BOM is
// present it falls through to transform.Nop, leaving text untouched.
func stripBOM(text string) string {
	out, _, err := transform.String(unicode.BOMOverride(transform.Nop), text)
	if err != nil {
		return text
	}
	return out
}

// Text returns the full UTF-8 source text (post BOM-stripping).
func (b *Buffer) Text() string { return b.text }

// Len returns the number of UTF-16 code units in the buffer.
func (b *Buffer) Len() int { return len(b.units) }

// Unit returns the code unit at offset i.
func (b *Buffer) Unit(i int) uint16 {
	if i < 0 || i >= len(b.units) {
		return 0
	}
	return b.units[i]
}

// Slice returns the UTF-8 text spanning code-unit offsets [start, end).
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.unitOffset)-1 {
		end = len(b.unitOffset) - 1
	}
	if start > end {
		return ""
	}
	return b.text[b.unitOffset[start]:b.unitOffset[end]]
}

// CodePointAt decodes the full code point starting at unit offset i,
// combining a valid surrogate pair into one supplementary code point
// (spec §4.1 "Code-point handling").
func (b *Buffer) CodePointAt(i int) (cp rune, width int) {
	if i < 0 || i >= len(b.units) {
		return 0, 0
	}
	u := b.units[i]
	if u < 0xD800 || u > 0xDBFF || i+1 >= len(b.units) {
		return rune(u), 1
	}
	next := b.units[i+1]
	if next < 0xDC00 || next > 0xDFFF {
		return rune(u), 1
	}
	return utf16.DecodeRune(rune(u), rune(next)), 2
}
