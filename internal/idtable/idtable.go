// Package idtable is the opaque identifier/astral-range predicate
// collaborator spec §1 excludes from THE CORE ("the pre-built tables of
// keyword/identifier Unicode character ranges ... treated as opaque
// predicates"). The teacher vendors a generated astral-range table
// (acorngo/src/identifier.go's `generated` import, not present in the
// retrieved pack) plus hand-rolled regexes over the non-ASCII
// identifier-character classes; neither is part of the genuine
// engineering content this repository is reimplementing, so this
// package swaps both for Go's standard `unicode` range tables, which
// are exactly the same kind of "pre-built, supplied-by-someone-else"
// data the teacher's generated package was. No third-party library in
// the retrieved pack supersedes the standard library's Unicode category
// tables for this job, so this one predicate layer stays on `unicode`
// (see DESIGN.md).
package idtable

import "unicode"

// IsIdentifierStart reports whether code point cp may begin an
// identifier (spec §4.1). astral gates support for identifier
// characters above U+FFFF, available starting ecmaVersion 6.
func IsIdentifierStart(cp rune, astral bool) bool {
	switch {
	case cp < 'A':
		return cp == '$'
	case cp < '[': // '['
		return true
	case cp < 'a':
		return cp == '_'
	case cp < '{': // '{'
		return true
	case cp <= 0xFFFF:
		return cp >= 0xAA && (unicode.IsLetter(cp) || unicode.Is(unicode.Other_ID_Start, cp))
	case !astral:
		return false
	default:
		return unicode.IsLetter(cp) || unicode.Is(unicode.Other_ID_Start, cp)
	}
}

// IsIdentifierChar reports whether code point cp may continue an
// identifier once started (spec §4.1).
func IsIdentifierChar(cp rune, astral bool) bool {
	switch {
	case cp < '0':
		return cp == '$'
	case cp < ':': // digits
		return true
	case cp < 'A':
		return false
	case cp < '[':
		return true
	case cp < 'a':
		return cp == '_'
	case cp < '{':
		return true
	case cp <= 0xFFFF:
		return cp >= 0xAA && isIdentifierPartRune(cp)
	case !astral:
		return false
	default:
		return isIdentifierPartRune(cp)
	}
}

func isIdentifierPartRune(cp rune) bool {
	return unicode.IsLetter(cp) || unicode.IsDigit(cp) || unicode.IsMark(cp) ||
		unicode.Is(unicode.Pc, cp) || unicode.Is(unicode.Other_ID_Start, cp) ||
		unicode.Is(unicode.Other_ID_Continue, cp)
}
