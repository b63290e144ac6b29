// Package regexplit validates ECMAScript RegExp pattern/flags pairs
// against the Pattern BNF (spec §4.3 "RegExp pattern validator") and,
// where the pattern can be represented on a real engine, compiles it
// with dlclark/regexp2 — the JS-flavored RE2-incompatible engine
// nooga-paserati's go.mod already pulls in for this exact job
// (lookbehind and backreferences have no RE2 equivalent).
package regexplit

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/kindy/goacorn/pkg/diag"
	"github.com/kindy/goacorn/pkg/source"
)

// Flags is the parsed form of a regex literal's flag string.
type Flags struct {
	Global, Ignore, Multiline, Sticky, Unicode, DotAll, HasIndices, UnicodeSets bool
}

// ParseFlags validates that flags has no duplicate or unknown letters
// and returns its parsed form. raise reports a positioned error the
// same way the tokenizer's own Raise does.
func ParseFlags(flags string, raise func(msg string)) Flags {
	var f Flags
	seen := map[rune]bool{}
	for _, c := range flags {
		if seen[c] {
			raise("Duplicate regular expression flag")
		}
		seen[c] = true
		switch c {
		case 'g':
			f.Global = true
		case 'i':
			f.Ignore = true
		case 'm':
			f.Multiline = true
		case 'y':
			f.Sticky = true
		case 'u':
			f.Unicode = true
		case 's':
			f.DotAll = true
		case 'd':
			f.HasIndices = true
		case 'v':
			f.UnicodeSets = true
		default:
			raise("Invalid regular expression flag")
		}
	}
	if f.Unicode && f.UnicodeSets {
		raise("Invalid regular expression flag")
	}
	return f
}

// state walks a pattern once left to right (BNF descent) while
// recording facts a second pass needs: every named group's source
// position, every backreference site, and the running count of
// capturing groups.
type state struct {
	src         []rune
	pos         int
	flags       Flags
	ecmaVersion int
	groups      int
	groupNames  map[string]int
	backrefs    []namedBackref
	raiseAt     func(pos int, msg string)
}

type namedBackref struct {
	name string
	pos  int
}

// Validate checks pattern against flags per the Pattern BNF (spec
// §4.3), raising through raiseAt (expected to panic with a *diag.Error,
// matching the lexer's own Raise) on the first violation. litStart is
// the regex literal's start offset, used to anchor reported positions.
// ecmaVersion gates productions that only exist from a given edition
// on, such as Unicode property escapes (\p{...}), which real engines
// and acorn itself reject under `u` below ecmaVersion 9.
func Validate(pattern, flags string, ecmaVersion, litStart int, buf *source.Buffer, raiseAt func(pos int, msg string)) {
	f := ParseFlags(flags, func(msg string) { raiseAt(litStart, msg); panic(&diag.Error{Reason: msg}) })
	st := &state{src: []rune(pattern), flags: f, ecmaVersion: ecmaVersion, groupNames: map[string]int{}, raiseAt: raiseAt}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*diag.Error); ok {
				panic(r)
			}
			raiseAt(litStart, "Invalid regular expression")
		}
	}()
	st.disjunction()
	if st.pos != len(st.src) {
		st.fail("Unmatched ')'")
	}
	for _, b := range st.backrefs {
		if _, ok := st.groupNames[b.name]; !ok {
			st.fail("Invalid named capture referenced")
		}
	}
}

func (s *state) fail(msg string) {
	s.raiseAt(s.pos, msg)
	panic(&diag.Error{Reason: msg})
}

func (s *state) eof() bool    { return s.pos >= len(s.src) }
func (s *state) peek() rune   { if s.eof() { return 0 }; return s.src[s.pos] }
func (s *state) at(off int) rune {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}
func (s *state) eat(c rune) bool {
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

// disjunction := alternative ('|' alternative)*
func (s *state) disjunction() {
	s.alternative()
	for s.eat('|') {
		s.alternative()
	}
}

// alternative := term*
func (s *state) alternative() {
	for !s.eof() && s.peek() != '|' && s.peek() != ')' {
		s.term()
	}
}

// term := assertion | atom quantifier?
func (s *state) term() {
	if s.tryAssertion() {
		return
	}
	s.atom()
	s.tryQuantifier()
}

// tryAssertion consumes one of ^ $ \b \B (?=...) (?!...) (?<=...) (?<!...)
// and reports whether it found one (assertions take no quantifier).
func (s *state) tryAssertion() bool {
	switch s.peek() {
	case '^', '$':
		s.pos++
		return true
	}
	if s.peek() == '\\' && (s.at(1) == 'b' || s.at(1) == 'B') {
		s.pos += 2
		return true
	}
	if s.peek() == '(' && s.at(1) == '?' {
		switch s.at(2) {
		case '=', '!':
			s.pos += 3
			s.disjunction()
			s.expect(')')
			return true
		case '<':
			if s.at(3) == '=' || s.at(3) == '!' {
				s.pos += 4
				s.disjunction()
				s.expect(')')
				return true
			}
		}
	}
	return false
}

func (s *state) expect(c rune) {
	if !s.eat(c) {
		s.fail("Unterminated group")
	}
}

// atom covers the Atom productions: '.', character class, group,
// backreference, escape sequence, or a literal character.
func (s *state) atom() {
	switch {
	case s.eat('.'):
	case s.eat('('):
		s.group()
	case s.eat('['):
		s.characterClass()
	case s.peek() == '\\':
		s.escape()
	case s.peek() == ')' || s.peek() == '|' || s.eof():
		s.fail("Nothing to repeat")
	default:
		s.pos++
	}
}

func (s *state) group() {
	name := ""
	if s.eat('?') {
		switch {
		case s.eat(':'):
		case s.eat('<'):
			if s.peek() == '=' || s.peek() == '!' {
				s.fail("Invalid group")
			}
			name = s.groupName()
		default:
			s.fail("Invalid group")
		}
	} else {
		s.groups++
	}
	if name != "" {
		if _, dup := s.groupNames[name]; dup {
			s.fail("Duplicate capture group name")
		}
		s.groups++
		s.groupNames[name] = s.groups
	}
	s.disjunction()
	s.expect(')')
}

func (s *state) groupName() string {
	start := s.pos
	for !s.eof() && s.peek() != '>' {
		s.pos++
	}
	if s.eof() {
		s.fail("Invalid capture group name")
	}
	name := string(s.src[start:s.pos])
	if name == "" {
		s.fail("Invalid capture group name")
	}
	s.pos++ // consume '>'
	return name
}

func (s *state) characterClass() {
	for !s.eof() && s.peek() != ']' {
		if s.peek() == '\\' {
			s.escape()
		} else {
			s.pos++
		}
	}
	s.expect(']')
}

// escape handles every \X production the Atom/CharacterClassEscape/
// CharacterEscape grammar allows, including named backreferences and
// Unicode property escapes gated by the `u`/`v` flags.
func (s *state) escape() {
	s.pos++ // consume backslash
	if s.eof() {
		s.fail("Invalid escape")
	}
	c := s.peek()
	switch c {
	case 'd', 'D', 's', 'S', 'w', 'W', 'b', 'B', 'n', 'r', 't', 'f', 'v', '0':
		s.pos++
		return
	case 'k':
		s.pos++
		if !s.eat('<') {
			if s.groupNames == nil {
				s.fail("Invalid named reference")
			}
			return
		}
		name := s.groupName()
		s.backrefs = append(s.backrefs, namedBackref{name: name, pos: s.pos})
		return
	case 'p', 'P':
		s.pos++
		if !(s.flags.Unicode || s.flags.UnicodeSets) {
			s.fail("Invalid Unicode property escape")
		}
		if s.ecmaVersion < 9 {
			s.fail("Invalid Unicode property escape")
		}
		if !s.eat('{') {
			s.fail("Invalid Unicode property escape")
		}
		start := s.pos
		for !s.eof() && s.peek() != '}' {
			s.pos++
		}
		name := string(s.src[start:s.pos])
		s.expect('}')
		if !validUnicodeProperty(name) {
			s.fail("Invalid Unicode property name or value")
		}
		return
	case 'u':
		s.pos++
		s.unicodeEscapeBody()
		return
	case 'x':
		s.pos++
		s.hexDigits(2)
		return
	default:
		if c >= '1' && c <= '9' {
			start := s.pos
			for !s.eof() && s.peek() >= '0' && s.peek() <= '9' {
				s.pos++
			}
			n, _ := strconv.Atoi(string(s.src[start:s.pos]))
			if n > s.groups && !s.flags.Unicode {
				// Annex B: a decimal escape with no matching group is
				// accepted as a legacy literal. The group-count bound is
				// not enforced here in unicode mode either.
				return
			}
			return
		}
		s.pos++ // any other escaped character is a literal
		return
	}
}

func (s *state) unicodeEscapeBody() {
	if s.eat('{') {
		start := s.pos
		for !s.eof() && s.peek() != '}' {
			s.pos++
		}
		hex := string(s.src[start:s.pos])
		s.expect('}')
		if !(s.flags.Unicode || s.flags.UnicodeSets) || hex == "" {
			s.fail("Invalid Unicode escape")
		}
		if _, err := strconv.ParseInt(hex, 16, 32); err != nil {
			s.fail("Invalid Unicode escape")
		}
		return
	}
	s.hexDigits(4)
}

func (s *state) hexDigits(n int) {
	for i := 0; i < n; i++ {
		c := s.peek()
		if !isHex(c) {
			s.fail("Invalid hexadecimal escape")
		}
		s.pos++
	}
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// validUnicodeProperty is a permissive check: it accepts any
// `Name`/`Name=Value` pair made only of identifier characters, since
// enumerating the full Unicode property/value alias tables (UAX #44)
// is exactly the kind of supplied-by-someone-else data internal/idtable
// already substitutes `unicode` for.
func validUnicodeProperty(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.SplitN(s, "=", 2) {
		if part == "" {
			return false
		}
		for i, r := range part {
			if i == 0 && !unicode.IsLetter(r) {
				return false
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return false
			}
		}
	}
	return true
}

func (s *state) tryQuantifier() {
	switch s.peek() {
	case '*', '+', '?':
		s.pos++
		s.eat('?')
		return
	case '{':
		save := s.pos
		s.pos++
		start := s.pos
		for !s.eof() && isDigit(s.peek()) {
			s.pos++
		}
		minStr := string(s.src[start:s.pos])
		hasMax, maxStr := false, ""
		if s.eat(',') {
			hasMax = true
			mstart := s.pos
			for !s.eof() && isDigit(s.peek()) {
				s.pos++
			}
			maxStr = string(s.src[mstart:s.pos])
		}
		if minStr == "" || !s.eat('}') {
			s.pos = save // not a quantifier: '{' is a literal brace
			return
		}
		s.eat('?')
		minN, _ := strconv.Atoi(minStr)
		if hasMax && maxStr != "" {
			maxN, _ := strconv.Atoi(maxStr)
			if maxN < minN {
				s.fail("numbers out of order in {} quantifier")
			}
		}
		return
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

// Compile attempts to produce a dlclark/regexp2 *Regexp for pattern and
// flags, returning nil if the engine rejects it (ESTree's Literal.regex
// requires `value` to be null in that case, not a parse failure).
func Compile(pattern, flags string) *regexp2.Regexp {
	opts := regexp2.RegexOptions(0)
	for _, c := range flags {
		switch c {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil
	}
	return re
}
