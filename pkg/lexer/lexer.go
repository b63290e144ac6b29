// Package lexer implements the hand-written, character-code-driven
// tokenizer of spec §4.1 and the syntactic-context stack of §4.2 that
// resolves the slash ambiguity. It mirrors the teacher's acorngo
// tokenize.go/tokentype.go/whitespace.go, restructured as a standalone
// type the parser package drives rather than methods mixed into one
// giant Parser struct.
package lexer

import (
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/kindy/goacorn/pkg/diag"
	"github.com/kindy/goacorn/pkg/source"
	"github.com/kindy/goacorn/pkg/token"
	"github.com/kindy/goacorn/internal/idtable"
)

// Hooks lets a caller observe or extend tokenizer behavior without
// subclassing (spec §6's onToken/onComment/onInsertedSemicolon/
// onTrailingComma options; spec §9's "expose equivalent hooks as trait
// methods or a callback table" guidance for the plugin mechanism).
type Hooks struct {
	OnToken             func(token.Token)
	OnComment           func(block bool, text string, start, end int, startLoc, endLoc source.Position)
	OnInsertedSemicolon func(pos int, loc source.Position)
	OnTrailingComma     func(pos int, loc source.Position)
	// RegexpCompiler attempts to produce the ESTree Literal.regex.value
	// host object for a validated pattern/flags pair (spec §4.1); wired
	// to pkg/regexplit.Compile by the parser. Left nil, regex literals
	// always get a nil host value.
	RegexpCompiler func(pattern, flags string) interface{}
	// ValidateRegexp runs the BNF pattern validator of spec §4.3 and
	// raises through Raise on failure. Wired to pkg/regexplit.Validate.
	ValidateRegexp func(l *Lexer, pattern, flags string, start int)
}

// Lexer is the tokenizer plus context stack. Field names mirror the
// teacher's state.go Parser fields that are purely lexical concerns.
type Lexer struct {
	buf *source.Buffer

	ecmaVersion   int
	sourceModule  bool
	allowHashBang bool
	locations     bool
	ranges        bool
	strict        bool

	hooks Hooks

	pos       int
	lineStart int
	curLine   int

	Type            token.Type
	Value           interface{}
	Start, End      int
	StartLoc, EndLoc source.Position
	Raw             string

	LastTokStart, LastTokEnd       int
	LastTokStartLoc, LastTokEndLoc source.Position

	ContainsEsc bool

	context              []*Context
	exprAllowed          bool
	statementAfterParenR bool
	inTemplateElement    bool

	keywordsAllowed map[string]bool // not consulted: reserved-word checks are made by the parser
}

// Config bundles the construction-time facts the lexer needs.
type Config struct {
	EcmaVersion   int
	SourceModule  bool
	AllowHashBang bool
	Locations     bool
	Ranges        bool
	StartStrict   bool
	Hooks         Hooks
}

// New builds a Lexer positioned at startPos (0 for a full-program parse,
// an arbitrary offset for parseExpressionAt).
func New(buf *source.Buffer, startPos int, cfg Config) *Lexer {
	l := &Lexer{
		buf:           buf,
		ecmaVersion:   cfg.EcmaVersion,
		sourceModule:  cfg.SourceModule,
		allowHashBang: cfg.AllowHashBang,
		locations:     cfg.Locations,
		ranges:        cfg.Ranges,
		strict:        cfg.StartStrict,
		hooks:         cfg.Hooks,
		context:       initialContext(),
		exprAllowed:   true,
	}
	if startPos > 0 {
		l.pos = startPos
		l.lineStart = lastIndexNewline(buf, startPos) + 1
		l.curLine = countLines(buf, l.lineStart)
	} else {
		l.pos = 0
		l.lineStart = 0
		l.curLine = 1
	}
	l.Type = token.EOF
	l.End = l.pos
	l.Start = l.End
	l.EndLoc = l.curPosition()
	l.StartLoc = l.EndLoc
	l.LastTokEnd = l.pos
	l.LastTokStart = l.pos

	if l.pos == 0 && l.allowHashBang && buf.Len() >= 2 && buf.Unit(0) == '#' && buf.Unit(1) == '!' {
		l.skipLineComment(2)
	}
	return l
}

func lastIndexNewline(buf *source.Buffer, upTo int) int {
	last := -1
	for i := 0; i < upTo; i++ {
		if buf.Unit(i) == '\n' {
			last = i
		}
	}
	return last
}

func countLines(buf *source.Buffer, upTo int) int {
	n := 1
	for i := 0; i < upTo; i++ {
		if source.IsLineTerminator(buf.Unit(i)) {
			n++
		}
	}
	return n
}

// ExprAllowed reports the tokenizer/parser-coupling flag of spec §4.1:
// true if a `/` encountered right now should be read as a regexp.
func (l *Lexer) ExprAllowed() bool     { return l.exprAllowed }
func (l *Lexer) SetExprAllowed(v bool) { l.exprAllowed = v }

func (l *Lexer) curPosition() source.Position {
	if !l.locations {
		return source.Position{}
	}
	return source.Position{Line: l.curLine, Column: l.pos - l.lineStart}
}

// Raise panics with a positioned diagnostic; recovered at the parser's
// public entry points (go/parser in the standard library uses the same
// panic-and-recover-at-the-boundary idiom for a hand-written recursive
// descent parser with many call sites that must abort immediately).
func (l *Lexer) Raise(pos int, message string) {
	panic(diag.New(message, pos, l.buf.PositionAt(pos), l.pos))
}

func (l *Lexer) Unexpected(pos int) {
	l.Raise(pos, "Unexpected token")
}

// Next advances past the current token, invoking OnToken first (spec
// §4.1's onToken callback fires for every token consumed).
func (l *Lexer) Next(ignoreEscapeInKeyword bool) {
	if !ignoreEscapeInKeyword && l.Type.Of().Keyword != "" && l.ContainsEsc {
		l.raiseRecoverable(l.Start, "Escape sequence in keyword "+l.Type.Of().Keyword)
	}
	if l.hooks.OnToken != nil {
		l.hooks.OnToken(l.currentToken())
	}
	l.LastTokEnd = l.End
	l.LastTokStart = l.Start
	l.LastTokEndLoc = l.EndLoc
	l.LastTokStartLoc = l.StartLoc
	l.NextToken()
}

func (l *Lexer) raiseRecoverable(pos int, msg string) { l.Raise(pos, msg) }

func (l *Lexer) currentToken() token.Token {
	t := token.Token{Type: l.Type, Value: l.Value, Start: l.Start, End: l.End}
	if l.locations {
		t.Loc = &token.SourceLocation{Start: l.StartLoc, End: l.EndLoc}
	}
	if l.ranges {
		r := [2]int{l.Start, l.End}
		t.Range = &r
	}
	return t
}

// GetToken advances to the next token and returns it (spec §6's
// tokenizer-iterator surface).
func (l *Lexer) GetToken() token.Token {
	l.Next(false)
	return l.currentToken()
}

// NextToken reads the next token into the lexer's current-token fields.
func (l *Lexer) NextToken() {
	cc := l.curContext()
	if cc == nil || !cc.PreserveSpace {
		l.skipSpace()
	}
	l.Start = l.pos
	l.StartLoc = l.curPosition()
	if l.pos >= l.buf.Len() {
		l.finishToken(token.EOF, nil)
		return
	}
	if cc != nil && cc.Kind == QTmpl {
		l.readTmplToken()
		return
	}
	cp, _ := l.buf.CodePointAt(l.pos)
	l.readToken(cp)
}

func (l *Lexer) readToken(cp rune) {
	if idtable.IsIdentifierStart(cp, l.ecmaVersion >= 6) || cp == '\\' {
		l.readWord()
		return
	}
	l.getTokenFromCode(cp)
}

func (l *Lexer) skipBlockComment() {
	var startLoc source.Position
	if l.hooks.OnComment != nil {
		startLoc = l.curPosition()
	}
	start := l.pos
	l.pos += 2
	end := -1
	for i := l.pos; i+1 < l.buf.Len(); i++ {
		if l.buf.Unit(i) == '*' && l.buf.Unit(i+1) == '/' {
			end = i
			break
		}
	}
	if end == -1 {
		l.Raise(l.pos-2, "Unterminated comment")
	}
	textEnd := end
	l.pos = end + 2
	if l.locations {
		for next := l.buf.NextLineBreak(start, l.pos); next > -1; next = l.buf.NextLineBreak(l.lineStart, l.pos) {
			l.curLine++
			l.lineStart = next
		}
	}
	if l.hooks.OnComment != nil {
		l.hooks.OnComment(true, l.buf.Slice(start+2, textEnd), start, l.pos, startLoc, l.curPosition())
	}
}

func (l *Lexer) skipLineComment(startSkip int) {
	start := l.pos
	var startLoc source.Position
	if l.hooks.OnComment != nil {
		startLoc = l.curPosition()
	}
	l.pos += startSkip
	for l.pos < l.buf.Len() && !source.IsLineTerminator(l.buf.Unit(l.pos)) {
		l.pos++
	}
	if l.hooks.OnComment != nil {
		l.hooks.OnComment(false, l.buf.Slice(start+startSkip, l.pos), start, l.pos, startLoc, l.curPosition())
	}
}

// skipSpace consumes whitespace, comments, and the legacy HTML-style
// line comments (spec §4.1's "Whitespace and comments" paragraph).
func (l *Lexer) skipSpace() {
	for l.pos < l.buf.Len() {
		ch := l.buf.Unit(l.pos)
		switch ch {
		case ' ', ' ':
			l.pos++
		case '\r':
			l.pos++
			if l.pos < l.buf.Len() && l.buf.Unit(l.pos) == '\n' {
				l.pos++
			}
			l.curLine++
			l.lineStart = l.pos
		case '\n', 0x2028, 0x2029:
			l.pos++
			l.curLine++
			l.lineStart = l.pos
		case '/':
			next := l.buf.Unit(l.pos + 1)
			if next == '*' {
				l.skipBlockComment()
			} else if next == '/' {
				l.skipLineComment(2)
			} else {
				return
			}
		default:
			if (ch > 8 && ch < 14) || (ch >= 5760 && isNonASCIIWhitespace(ch)) {
				l.pos++
			} else {
				return
			}
		}
	}
}

func isNonASCIIWhitespace(u uint16) bool {
	switch u {
	case 0x1680, 0x2000, 0x2001, 0x2002, 0x2003, 0x2004, 0x2005, 0x2006,
		0x2007, 0x2008, 0x2009, 0x200a, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return unicode.IsSpace(rune(u))
}

func (l *Lexer) finishToken(t token.Type, val interface{}) {
	l.End = l.pos
	l.EndLoc = l.curPosition()
	prevType := l.Type
	l.Type = t
	l.Value = val
	l.updateContext(prevType)
}

func (l *Lexer) finishOp(t token.Type, size int) {
	str := l.buf.Slice(l.pos, l.pos+size)
	l.pos += size
	l.finishToken(t, str)
}

func (l *Lexer) u(off int) uint16 { return l.buf.Unit(l.pos + off) }

func (l *Lexer) readTokenDot() {
	next := l.u(1)
	if next >= '0' && next <= '9' {
		l.readNumber(true)
		return
	}
	if l.ecmaVersion >= 6 && next == '.' && l.u(2) == '.' {
		l.pos += 3
		l.finishToken(token.Ellipsis, nil)
		return
	}
	l.pos++
	l.finishToken(token.Dot, nil)
}

func (l *Lexer) readTokenSlash() {
	next := l.u(1)
	if l.exprAllowed {
		l.pos++
		l.readRegexp()
		return
	}
	if next == '=' {
		l.finishOp(token.Assign, 2)
	} else {
		l.finishOp(token.Slash, 1)
	}
}

func (l *Lexer) readTokenMultModuloExp(code uint16) {
	next := l.u(1)
	size := 1
	t := token.Star
	if code == '%' {
		t = token.Modulo
	}
	if l.ecmaVersion >= 7 && code == '*' && next == '*' {
		size++
		t = token.StarStar
		next = l.u(2)
	}
	if next == '=' {
		l.finishOp(token.Assign, size+1)
	} else {
		l.finishOp(t, size)
	}
}

func (l *Lexer) readTokenPipeAmp(code uint16) {
	next := l.u(1)
	if next == code {
		if l.ecmaVersion >= 12 && l.u(2) == '=' {
			l.finishOp(token.Assign, 3)
			return
		}
		if code == '|' {
			l.finishOp(token.LogicalOR, 2)
		} else {
			l.finishOp(token.LogicalAND, 2)
		}
		return
	}
	if next == '=' {
		l.finishOp(token.Assign, 2)
		return
	}
	if code == '|' {
		l.finishOp(token.BitwiseOR, 1)
	} else {
		l.finishOp(token.BitwiseAND, 1)
	}
}

func (l *Lexer) readTokenCaret() {
	if l.u(1) == '=' {
		l.finishOp(token.Assign, 2)
	} else {
		l.finishOp(token.BitwiseXOR, 1)
	}
}

func (l *Lexer) readTokenPlusMin(code uint16) {
	next := l.u(1)
	if next == code {
		if next == '-' && !l.sourceModule && l.u(2) == '>' &&
			(l.LastTokEnd == 0 || l.buf.NextLineBreak(l.LastTokEnd, l.pos) >= 0) {
			l.skipLineComment(3)
			l.skipSpace()
			l.NextToken()
			return
		}
		l.finishOp(token.IncDec, 2)
		return
	}
	if next == '=' {
		l.finishOp(token.Assign, 2)
		return
	}
	l.finishOp(token.PlusMin, 1)
}

func (l *Lexer) readTokenLtGt(code uint16) {
	next := l.u(1)
	size := 1
	if next == code {
		size = 2
		if code == '>' && l.u(2) == '>' {
			size = 3
		}
		if l.u(size) == '=' {
			l.finishOp(token.Assign, size+1)
		} else {
			l.finishOp(token.BitShift, size)
		}
		return
	}
	if next == '!' && code == '<' && !l.sourceModule && l.u(2) == '-' && l.u(3) == '-' {
		l.skipLineComment(4)
		l.skipSpace()
		l.NextToken()
		return
	}
	if next == '=' {
		size = 2
	}
	l.finishOp(token.Relational, size)
}

func (l *Lexer) readTokenEqExcl(code uint16) {
	next := l.u(1)
	if next == '=' {
		if l.u(2) == '=' {
			l.finishOp(token.Equality, 3)
		} else {
			l.finishOp(token.Equality, 2)
		}
		return
	}
	if code == '=' && next == '>' && l.ecmaVersion >= 6 {
		l.pos += 2
		l.finishToken(token.Arrow, nil)
		return
	}
	if code == '=' {
		l.finishOp(token.Eq, 1)
		return
	}
	l.finishOp(token.Prefix, 1)
}

func (l *Lexer) readTokenQuestion() {
	if l.ecmaVersion >= 11 {
		next := l.u(1)
		if next == '.' {
			next2 := l.u(2)
			if next2 < '0' || next2 > '9' {
				l.finishOp(token.QuestionDot, 2)
				return
			}
		}
		if next == '?' {
			if l.ecmaVersion >= 12 && l.u(2) == '=' {
				l.finishOp(token.Assign, 3)
				return
			}
			l.finishOp(token.Coalesce, 2)
			return
		}
	}
	l.finishOp(token.Question, 1)
}

func (l *Lexer) readTokenNumberSign() {
	if l.ecmaVersion >= 13 {
		l.pos++
		cp, _ := l.buf.CodePointAt(l.pos)
		if idtable.IsIdentifierStart(cp, true) || cp == '\\' {
			l.finishToken(token.PrivateID, l.readWord1())
			return
		}
	}
	l.Raise(l.pos, "Unexpected character '#'")
}

func (l *Lexer) getTokenFromCode(cp rune) {
	switch cp {
	case '.':
		l.readTokenDot()
		return
	case '(':
		l.pos++
		l.finishToken(token.ParenL, nil)
		return
	case ')':
		l.pos++
		l.finishToken(token.ParenR, nil)
		return
	case ';':
		l.pos++
		l.finishToken(token.Semi, nil)
		return
	case ',':
		l.pos++
		l.finishToken(token.Comma, nil)
		return
	case '[':
		l.pos++
		l.finishToken(token.BracketL, nil)
		return
	case ']':
		l.pos++
		l.finishToken(token.BracketR, nil)
		return
	case '{':
		l.pos++
		l.finishToken(token.BraceL, nil)
		return
	case '}':
		l.pos++
		l.finishToken(token.BraceR, nil)
		return
	case ':':
		l.pos++
		l.finishToken(token.Colon, nil)
		return
	case '`':
		if l.ecmaVersion < 6 {
			break
		}
		l.pos++
		l.finishToken(token.BackQuote, nil)
		return
	case '0':
		next := l.u(1)
		if next == 'x' || next == 'X' {
			l.readRadixNumber(16)
			return
		}
		if l.ecmaVersion >= 6 {
			if next == 'o' || next == 'O' {
				l.readRadixNumber(8)
				return
			}
			if next == 'b' || next == 'B' {
				l.readRadixNumber(2)
				return
			}
		}
		l.readNumber(false)
		return
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		l.readNumber(false)
		return
	case '"', '\'':
		l.readString(uint16(cp))
		return
	case '/':
		l.readTokenSlash()
		return
	case '%', '*':
		l.readTokenMultModuloExp(uint16(cp))
		return
	case '|', '&':
		l.readTokenPipeAmp(uint16(cp))
		return
	case '^':
		l.readTokenCaret()
		return
	case '+', '-':
		l.readTokenPlusMin(uint16(cp))
		return
	case '<', '>':
		l.readTokenLtGt(uint16(cp))
		return
	case '=', '!':
		l.readTokenEqExcl(uint16(cp))
		return
	case '?':
		l.readTokenQuestion()
		return
	case '~':
		l.finishOp(token.Prefix, 1)
		return
	case '#':
		l.readTokenNumberSign()
		return
	}
	l.Raise(l.pos, "Unexpected character '"+string(cp)+"'")
}

// ---- regexp literal ----

func (l *Lexer) readRegexp() {
	start := l.pos
	escaped, inClass := false, false
	for {
		if l.pos >= l.buf.Len() {
			l.Raise(start, "Unterminated regular expression")
		}
		ch := l.buf.Unit(l.pos)
		if source.IsLineTerminator(ch) {
			l.Raise(start, "Unterminated regular expression")
		}
		if !escaped {
			if ch == '[' {
				inClass = true
			} else if ch == ']' && inClass {
				inClass = false
			} else if ch == '/' && !inClass {
				break
			}
			escaped = ch == '\\'
		} else {
			escaped = false
		}
		l.pos++
	}
	pattern := l.buf.Slice(start, l.pos)
	l.pos++
	flagsStart := l.pos
	flags := l.readWord1()
	if l.ContainsEsc {
		l.Unexpected(flagsStart)
	}

	if l.hooks.ValidateRegexp != nil {
		l.hooks.ValidateRegexp(l, pattern, flags, start)
	}
	var host interface{}
	if l.hooks.RegexpCompiler != nil {
		host = l.hooks.RegexpCompiler(pattern, flags)
	}
	l.finishToken(token.Regexp, &token.RegexValue{Pattern: pattern, Flags: flags, Host: host})
}

// ---- numbers ----

// readInt reads an integer in the given radix, honoring numeric
// separators (spec §4.1). length < 0 means "as many digits as match";
// length >= 0 requires exactly that many. Returns (value, digitCount).
func (l *Lexer) readInt(radix int, length int, maybeLegacyOctal bool) (*big.Int, int) {
	allowSeparators := l.ecmaVersion >= 12 && length < 0
	isLegacyOctal := maybeLegacyOctal && l.pos < l.buf.Len() && l.buf.Unit(l.pos) == '0'

	start := l.pos
	total := new(big.Int)
	var lastCode uint16
	limit := 1 << 30
	if length >= 0 {
		limit = length
	}
	count := 0
	for i := 0; i < limit && l.pos < l.buf.Len(); i++ {
		code := l.buf.Unit(l.pos)
		if allowSeparators && code == '_' {
			if isLegacyOctal {
				l.Raise(l.pos, "Numeric separator is not allowed in legacy octal numeric literals")
			}
			if lastCode == '_' {
				l.Raise(l.pos, "Numeric separator must be exactly one underscore")
			}
			if i == 0 {
				l.Raise(l.pos, "Numeric separator is not allowed at the first of digits")
			}
			lastCode = code
			l.pos++
			continue
		}
		val := digitValue(code)
		if val >= radix {
			break
		}
		lastCode = code
		total.Mul(total, big.NewInt(int64(radix)))
		total.Add(total, big.NewInt(int64(val)))
		l.pos++
		count++
	}
	if allowSeparators && lastCode == '_' {
		l.Raise(l.pos-1, "Numeric separator is not allowed at the last of digits")
	}
	if count == 0 || (length >= 0 && l.pos-start != length) {
		return nil, 0
	}
	return total, count
}

func digitValue(code uint16) int {
	switch {
	case code >= 'a':
		return int(code) - 'a' + 10
	case code >= 'A':
		return int(code) - 'A' + 10
	case code >= '0' && code <= '9':
		return int(code) - '0'
	}
	return 1 << 30
}

func (l *Lexer) readRadixNumber(radix int) {
	start := l.pos
	l.pos += 2
	val, _ := l.readInt(radix, -1, false)
	if val == nil {
		l.Raise(l.Start+2, "Expected number in radix "+strconv.Itoa(radix))
	}
	if l.ecmaVersion >= 11 && l.pos < l.buf.Len() && l.buf.Unit(l.pos) == 'n' {
		big := stringToBigInt(l.buf.Slice(start, l.pos))
		l.pos++
		l.finishToken(token.BigInt, big)
		return
	}
	if cp, _ := l.buf.CodePointAt(l.pos); idtable.IsIdentifierStart(cp, false) {
		l.Raise(l.pos, "Identifier directly after number")
	}
	f, _ := new(big.Float).SetInt(val).Float64()
	l.finishToken(token.Num, f)
}

func (l *Lexer) readNumber(startsWithDot bool) {
	start := l.pos
	if !startsWithDot {
		if _, n := l.readInt(10, -1, true); n == 0 {
			l.Raise(start, "Invalid number")
		}
	}
	octal := l.pos-start >= 2 && l.buf.Unit(start) == '0'
	if octal && l.strict {
		l.Raise(start, "Invalid number")
	}
	next := l.safeUnit(l.pos)
	if !octal && !startsWithDot && l.ecmaVersion >= 11 && next == 'n' {
		big := stringToBigInt(l.buf.Slice(start, l.pos))
		l.pos++
		if cp, _ := l.buf.CodePointAt(l.pos); idtable.IsIdentifierStart(cp, false) {
			l.Raise(l.pos, "Identifier directly after number")
		}
		l.finishToken(token.BigInt, big)
		return
	}
	raw := l.buf.Slice(start, l.pos)
	if octal && strings.ContainsAny(raw, "89") {
		octal = false
	}
	if next == '.' && !octal {
		l.pos++
		l.readInt(10, -1, false)
		next = l.safeUnit(l.pos)
	}
	if (next == 'e' || next == 'E') && !octal {
		l.pos++
		next = l.safeUnit(l.pos)
		if next == '+' || next == '-' {
			l.pos++
		}
		if _, n := l.readInt(10, -1, false); n == 0 {
			l.Raise(start, "Invalid number")
		}
		next = l.safeUnit(l.pos)
	}
	if cp, _ := l.buf.CodePointAt(l.pos); idtable.IsIdentifierStart(cp, false) {
		l.Raise(l.pos, "Identifier directly after number")
	}
	val := stringToNumber(l.buf.Slice(start, l.pos), octal)
	l.finishToken(token.Num, val)
}

func (l *Lexer) safeUnit(i int) uint16 {
	if i >= l.buf.Len() {
		return 0
	}
	return l.buf.Unit(i)
}

func stringToNumber(s string, isLegacyOctal bool) float64 {
	if isLegacyOctal {
		n, err := strconv.ParseInt(s, 8, 64)
		if err == nil {
			return float64(n)
		}
	}
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	return f
}

func stringToBigInt(s string) *big.Int {
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimSuffix(s, "n")
	n := new(big.Int)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if _, ok := n.SetString(s, base); !ok {
		return nil
	}
	return n
}

// ---- strings ----

func (l *Lexer) readString(quote uint16) {
	l.pos++
	var out strings.Builder
	chunkStart := l.pos
	for {
		if l.pos >= l.buf.Len() {
			l.Raise(l.Start, "Unterminated string constant")
		}
		ch := l.buf.Unit(l.pos)
		if ch == quote {
			break
		}
		if ch == '\\' {
			out.WriteString(l.buf.Slice(chunkStart, l.pos))
			out.WriteString(l.readEscapedChar(false))
			chunkStart = l.pos
		} else if ch == 0x2028 || ch == 0x2029 {
			if l.ecmaVersion < 10 {
				l.Raise(l.Start, "Unterminated string constant")
			}
			l.pos++
			l.curLine++
			l.lineStart = l.pos
		} else if source.IsLineTerminator(ch) {
			l.Raise(l.Start, "Unterminated string constant")
		} else {
			l.pos++
		}
	}
	out.WriteString(l.buf.Slice(chunkStart, l.pos))
	l.pos++
	l.finishToken(token.String, out.String())
}

const invalidTemplateEscape = "\x00invalid-template-escape\x00"

func (l *Lexer) invalidStringToken(pos int, msg string) string {
	if l.inTemplateElement && l.ecmaVersion >= 9 {
		return invalidTemplateEscape
	}
	l.Raise(pos, msg)
	return ""
}

func (l *Lexer) readTmplToken() {
	out := &strings.Builder{}
	chunkStart := l.pos
	for {
		if l.pos >= l.buf.Len() {
			l.Raise(l.Start, "Unterminated template")
		}
		ch := l.safeUnit(l.pos)
		if ch == '`' || (ch == '$' && l.safeUnit(l.pos+1) == '{') {
			if l.pos == l.Start && (l.Type == token.Template || l.Type == token.InvalidTemplate) {
				if ch == '$' {
					l.pos += 2
					l.finishToken(token.DollarBraceL, nil)
					return
				}
				l.pos++
				l.finishToken(token.BackQuote, nil)
				return
			}
			out.WriteString(l.buf.Slice(chunkStart, l.pos))
			l.finishTemplateToken(out.String())
			return
		}
		if ch == '\\' {
			out.WriteString(l.buf.Slice(chunkStart, l.pos))
			l.inTemplateElement = true
			esc := l.readEscapedCharChecked(true)
			l.inTemplateElement = false
			if esc == invalidTemplateEscape {
				l.readInvalidTemplateToken()
				return
			}
			out.WriteString(esc)
			chunkStart = l.pos
		} else if source.IsLineTerminator(ch) {
			out.WriteString(l.buf.Slice(chunkStart, l.pos))
			l.pos++
			switch ch {
			case '\r':
				if l.safeUnit(l.pos) == '\n' {
					l.pos++
				}
				out.WriteString("\n")
			case '\n':
				out.WriteString("\n")
			default:
				out.WriteRune(rune(ch))
			}
			l.curLine++
			l.lineStart = l.pos
			chunkStart = l.pos
		} else {
			l.pos++
		}
	}
}

func (l *Lexer) finishTemplateToken(cooked string) {
	raw := l.buf.Slice(l.Start, l.pos)
	l.finishToken(token.Template, &token.TemplateValue{Cooked: cooked, Raw: raw})
}

// readInvalidTemplateToken scans to the template end without validating
// escapes, producing an invalidTemplate token so tagged templates can
// tolerate otherwise-illegal escape sequences (spec §4.1).
func (l *Lexer) readInvalidTemplateToken() {
	for l.pos < l.buf.Len() {
		ch := l.buf.Unit(l.pos)
		switch ch {
		case '\\':
			l.pos += 2
			continue
		case '$':
			if l.safeUnit(l.pos+1) != '{' {
				l.pos++
				continue
			}
			fallthrough
		case '`':
			raw := l.buf.Slice(l.Start, l.pos)
			l.finishToken(token.InvalidTemplate, &token.TemplateValue{Raw: raw})
			return
		default:
			l.pos++
		}
	}
	l.Raise(l.Start, "Unterminated template")
}

// readEscapedChar decodes one backslash escape in a string literal,
// returning its decoded text.
func (l *Lexer) readEscapedChar(inTemplate bool) string {
	s := l.readEscapedCharChecked(inTemplate)
	if s == invalidTemplateEscape {
		// Only reachable for strings, where invalidStringToken always
		// raises instead of returning the sentinel.
		return ""
	}
	return s
}

func (l *Lexer) readEscapedCharChecked(inTemplate bool) string {
	l.pos++
	ch := l.safeUnit(l.pos)
	l.pos++
	switch ch {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 'x':
		cp := l.readHexChar(2)
		if cp < 0 {
			return ""
		}
		return string(rune(cp))
	case 'u':
		cp := l.readCodePoint()
		if cp < 0 {
			return ""
		}
		return string(rune(cp))
	case 't':
		return "\t"
	case 'b':
		return "\b"
	case 'v':
		return ""
	case 'f':
		return "\f"
	case '\r':
		if l.safeUnit(l.pos) == '\n' {
			l.pos++
		}
		return ""
	case '\n':
		l.lineStart = l.pos
		l.curLine++
		return ""
	case 0x2028, 0x2029:
		return ""
	case '8', '9':
		if l.strict {
			res := l.invalidStringToken(l.pos-1, "Invalid escape sequence")
			if res == invalidTemplateEscape {
				return invalidTemplateEscape
			}
		}
		if inTemplate {
			res := l.invalidStringToken(l.pos-1, "Invalid escape sequence in template string")
			if res == invalidTemplateEscape {
				return invalidTemplateEscape
			}
		}
		return string(rune(ch))
	}
	if ch >= '0' && ch <= '7' {
		octalStart := l.pos - 1
		octalLen := 1
		for octalLen < 3 && l.safeUnit(octalStart+octalLen) >= '0' && l.safeUnit(octalStart+octalLen) <= '7' {
			octalLen++
		}
		octalStr := l.buf.Slice(octalStart, octalStart+octalLen)
		octal, _ := strconv.ParseInt(octalStr, 8, 32)
		if octal > 255 {
			octalStr = octalStr[:len(octalStr)-1]
			octal, _ = strconv.ParseInt(octalStr, 8, 32)
		}
		l.pos = octalStart + len(octalStr)
		next := l.safeUnit(l.pos)
		if (octalStr != "0" || next == '8' || next == '9') && (l.strict || inTemplate) {
			msg := "Octal literal in strict mode"
			if inTemplate {
				msg = "Octal literal in template string"
			}
			res := l.invalidStringToken(octalStart, msg)
			if res == invalidTemplateEscape {
				return invalidTemplateEscape
			}
		}
		return string(rune(octal))
	}
	if source.IsLineTerminator(ch) {
		return ""
	}
	return string(rune(ch))
}

func (l *Lexer) readCodePoint() int {
	ch := l.safeUnit(l.pos)
	if ch == '{' {
		if l.ecmaVersion < 6 {
			l.Unexpected(l.pos)
		}
		l.pos++
		codePos := l.pos
		end := -1
		for i := l.pos; i < l.buf.Len(); i++ {
			if l.buf.Unit(i) == '}' {
				end = i
				break
			}
		}
		if end == -1 {
			l.Unexpected(l.pos)
		}
		code := l.readHexChar(end - codePos)
		l.pos++
		if code > 0x10FFFF {
			s := l.invalidStringToken(codePos, "Code point out of bounds")
			if s == invalidTemplateEscape {
				return -1
			}
		}
		return code
	}
	return l.readHexChar(4)
}

func (l *Lexer) readHexChar(length int) int {
	codePos := l.pos
	n, count := l.readInt(16, length, false)
	if n == nil || count != length {
		s := l.invalidStringToken(codePos, "Bad character escape sequence")
		if s == invalidTemplateEscape {
			return -1
		}
	}
	if n == nil {
		return 0
	}
	return int(n.Int64())
}

// ---- identifiers ----

func (l *Lexer) readWord1() string {
	l.ContainsEsc = false
	var out strings.Builder
	first := true
	chunkStart := l.pos
	astral := l.ecmaVersion >= 6
	for l.pos < l.buf.Len() {
		cp, width := l.buf.CodePointAt(l.pos)
		if idtable.IsIdentifierChar(cp, astral) {
			l.pos += width
		} else if cp == '\\' {
			l.ContainsEsc = true
			out.WriteString(l.buf.Slice(chunkStart, l.pos))
			escStart := l.pos
			l.pos++
			if l.safeUnit(l.pos) != 'u' {
				l.invalidStringToken(l.pos, "Expecting Unicode escape sequence \\uXXXX")
			}
			l.pos++
			esc := l.readCodePoint()
			ok := false
			if esc >= 0 {
				if first {
					ok = idtable.IsIdentifierStart(rune(esc), astral)
				} else {
					ok = idtable.IsIdentifierChar(rune(esc), astral)
				}
			}
			if !ok {
				l.invalidStringToken(escStart, "Invalid Unicode escape")
			}
			out.WriteRune(rune(esc))
			chunkStart = l.pos
		} else {
			break
		}
		first = false
	}
	out.WriteString(l.buf.Slice(chunkStart, l.pos))
	return out.String()
}

func (l *Lexer) readWord() {
	word := l.readWord1()
	t := token.Name
	if kw, ok := token.Keywords[word]; ok && l.keywordAllowed(word) {
		t = kw
	}
	l.finishToken(t, word)
}

// keywordAllowed gates ecmaVersion-sensitive keywords. Older editions
// lack `class`/`const`/`extends`/`export`/`import`/`super`, which must
// lex as plain Name tokens so callers on ecmaVersion < 6 can still use
// them as identifiers.
func (l *Lexer) keywordAllowed(word string) bool {
	if l.ecmaVersion >= 6 {
		return true
	}
	switch word {
	case "class", "const", "extends", "export", "import", "super":
		return false
	}
	return true
}
