// Package parser implements the recursive-descent expression and
// statement grammar of spec §4.4–§4.7: operator-precedence climbing,
// the arrow-parameter and object/array destructuring cover grammars,
// automatic semicolon insertion, and scope/binding checks, built on
// top of pkg/lexer's tokenizer and pkg/scope's binding stack.
//
// Error propagation mirrors the standard library's own go/parser: a
// syntax error panics with a *diag.Error from deep inside the call
// stack and is recovered at the public entry points below, instead of
// threading an error return through every one of the hundred-odd
// mutually recursive parse* methods the way the teacher's JS source
// (which just throws) does not need to.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/diag"
	"github.com/kindy/goacorn/pkg/lexer"
	"github.com/kindy/goacorn/pkg/regexplit"
	"github.com/kindy/goacorn/pkg/scope"
	"github.com/kindy/goacorn/pkg/source"
	"github.com/kindy/goacorn/pkg/token"
)

// Config is the normalized option set spec §6 describes (the teacher's
// options.go RawOptions/getOptions split: a loosely-typed options bag
// the caller fills in, normalized once at Parse time).
type Config struct {
	EcmaVersion   int  // 3, 5, 6..13, or a year 2015..2022 (normalized to 6..13); 0 means "latest", normalized to 13
	SourceType    string // "script" | "module"
	AllowHashBang bool
	Locations     bool
	Ranges        bool
	SourceFile    string
	StrictMode    *bool // nil means "infer from sourceType/directive prologue"

	// DirectSourceFile, when set, is copied onto every node's SourceFile
	// field directly, independent of Locations/SourceFile's loc.source —
	// for embedding environments that track a fragment's origin file
	// without wanting full Loc objects built.
	DirectSourceFile string

	// AllowReserved relaxes the reserved-word check in parseIdent: the
	// teacher's three-state allowReserved (true/false/"never") collapses
	// to a boolean here since no caller of this package has needed the
	// ecmaVersion-3-only "never" state, documented as an accepted
	// simplification in DESIGN.md.
	AllowReserved bool

	// AllowReturnOutsideFunction, AllowImportExportEverywhere, and
	// AllowAwaitOutsideFunction relax spec §6's default-reject rules for
	// `return`, `import`/`export`, and top-level `await` respectively —
	// the acorn options of the same name.
	AllowReturnOutsideFunction  bool
	AllowImportExportEverywhere bool
	AllowAwaitOutsideFunction   bool

	// PreserveParens keeps parenthesized expressions wrapped in a
	// ParenthesizedExpression node instead of discarding the parens.
	PreserveParens bool

	// Program, when non-nil, is appended to instead of allocating a
	// fresh Program node (spec §6's "append across multiple calls").
	Program *ast.Node

	Hooks lexer.Hooks

	// Recoverable is consulted for spec §7's "recoverable" errors
	// (duplicate property keys, a redundant "use strict", and similar);
	// nil means treat them as fatal, matching the teacher's default.
	Recoverable diag.RecoverableHandler

	Logger *logrus.Logger
}

func (c Config) normalized() Config {
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.EcmaVersion == 0 {
		c.Logger.Warn("ecmaVersion is required, defaulting to the latest supported version")
		c.EcmaVersion = 13
	} else if c.EcmaVersion > 13 && c.EcmaVersion >= 2015 {
		c.EcmaVersion -= 2009
	}
	if c.SourceType == "" {
		c.SourceType = "script"
	}
	return c
}

// Parser drives the lexer/scope stack pair through the grammar. Its
// fields split, the way the teacher's state.go Parser does, between
// construction-time config and token/scope running state.
type Parser struct {
	cfg Config
	lex *lexer.Lexer
	buf *source.Buffer
	scopes *scope.Stack

	inModule bool
	strict   bool

	potentialArrowAt     int
	potentialArrowInForAwait bool
	yieldPos, awaitPos, awaitIdentPos int

	exports map[string]bool

	// undefinedExports tracks local names referenced by `export { name }`
	// that are not (yet) bound in the top-level scope, keyed by name with
	// the export specifier's position as the value. parseTopLevel raises
	// on whatever is still unresolved once the whole program has been
	// parsed, since a name exported before its declaration (e.g. a
	// hoisted function) is legal.
	undefinedExports map[string]int
}

// New constructs a Parser positioned at the start of text.
func New(text string, cfg Config) *Parser {
	cfg = cfg.normalized()
	buf := source.New(text)
	p := &Parser{cfg: cfg, buf: buf, scopes: scope.NewStack(), exports: map[string]bool{}, undefinedExports: map[string]int{}}
	p.inModule = cfg.SourceType == "module"
	p.strict = p.inModule
	p.scopes.SetModule(p.inModule)
	if cfg.StrictMode != nil {
		p.strict = *cfg.StrictMode
	}
	hooks := cfg.Hooks
	hooks.ValidateRegexp = func(l *lexer.Lexer, pattern, flags string, start int) {
		regexplit.Validate(pattern, flags, cfg.EcmaVersion, start, buf, func(pos int, msg string) { l.Raise(start, msg) })
	}
	hooks.RegexpCompiler = func(pattern, flags string) interface{} {
		re := regexplit.Compile(pattern, flags)
		if re == nil {
			return nil
		}
		return re
	}
	p.lex = lexer.New(buf, 0, lexer.Config{
		EcmaVersion:   cfg.EcmaVersion,
		SourceModule:  p.inModule,
		AllowHashBang: cfg.AllowHashBang,
		Locations:     cfg.Locations,
		Ranges:        cfg.Ranges,
		StartStrict:   p.strict,
		Hooks:         hooks,
	})
	return p
}

// Parse parses a complete program (spec §4's top-level entry point).
func Parse(text string, cfg Config) (prog *ast.Node, err error) {
	p := New(text, cfg)
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	return p.parseTopLevel(), nil
}

// ParseExpressionAt parses a single expression starting at code-unit
// offset pos, without requiring it to consume the whole buffer (spec
// §6's parseExpressionAt).
func ParseExpressionAt(text string, pos int, cfg Config) (expr *ast.Node, err error) {
	cfg = cfg.normalized()
	buf := source.New(text)
	p := &Parser{cfg: cfg, buf: buf, scopes: scope.NewStack(), exports: map[string]bool{}, undefinedExports: map[string]int{}}
	p.inModule = cfg.SourceType == "module"
	p.strict = p.inModule
	p.scopes.SetModule(p.inModule)
	if cfg.StrictMode != nil {
		p.strict = *cfg.StrictMode
	}
	hooks := cfg.Hooks
	hooks.ValidateRegexp = func(l *lexer.Lexer, pattern, flags string, start int) {
		regexplit.Validate(pattern, flags, cfg.EcmaVersion, start, buf, func(pos int, msg string) { l.Raise(start, msg) })
	}
	hooks.RegexpCompiler = func(pattern, flags string) interface{} {
		re := regexplit.Compile(pattern, flags)
		if re == nil {
			return nil
		}
		return re
	}
	p.lex = lexer.New(buf, pos, lexer.Config{
		EcmaVersion: cfg.EcmaVersion, SourceModule: p.inModule, Locations: cfg.Locations,
		Ranges: cfg.Ranges, StartStrict: p.strict, Hooks: hooks,
	})
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	p.next()
	return p.parseExpression(false), nil
}

// Tokenize runs the lexer alone over text, invoking yield for every
// token it produces (spec §6's standalone tokenizer surface).
func Tokenize(text string, cfg Config, yield func(token.Token) bool) (err error) {
	cfg = cfg.normalized()
	buf := source.New(text)
	l := lexer.New(buf, 0, lexer.Config{
		EcmaVersion: cfg.EcmaVersion, SourceModule: cfg.SourceType == "module",
		AllowHashBang: cfg.AllowHashBang, Locations: cfg.Locations, Ranges: cfg.Ranges, Hooks: cfg.Hooks,
	})
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diag.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	for {
		t := l.GetToken()
		if !yield(t) || t.Type == token.EOF {
			return nil
		}
	}
}

func (p *Parser) next() {
	p.lex.Next(false)
	p.cfg.Logger.Debug("token ", p.lex.Type, " at ", p.lex.Start)
}

func (p *Parser) cur() token.Type       { return p.lex.Type }
func (p *Parser) curVal() interface{}   { return p.lex.Value }
func (p *Parser) start() int            { return p.lex.Start }
func (p *Parser) end() int              { return p.lex.End }
func (p *Parser) lastEnd() int          { return p.lex.LastTokEnd }
func (p *Parser) lastStart() int        { return p.lex.LastTokStart }

func (p *Parser) raise(pos int, msg string) { p.lex.Raise(pos, msg) }

func (p *Parser) unexpected() { p.raise(p.start(), "Unexpected token") }

func (p *Parser) recoverable(pos int, msg string) {
	err := diag.New(msg, pos, p.buf.PositionAt(pos), p.lex.Start)
	if p.cfg.Recoverable != nil {
		if handled := p.cfg.Recoverable(err); handled == nil {
			p.cfg.Logger.Warn("recoverable error swallowed by caller: ", msg)
			return
		}
	}
	panic(err)
}

// eat advances past the current token if it matches t.
func (p *Parser) eat(t token.Type) bool {
	if p.cur() == t {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t token.Type) {
	if !p.eat(t) {
		p.unexpected()
	}
}

func (p *Parser) isContextual(name string) bool {
	return p.cur() == token.Name && p.lex.Value == name && !p.lex.ContainsEsc
}

func (p *Parser) eatContextual(name string) bool {
	if p.isContextual(name) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expectContextual(name string) {
	if !p.eatContextual(name) {
		p.unexpected()
	}
}

// canInsertSemicolon reports whether ASI (spec §4.6) may fire here: at
// EOF, before a `}`, or after a line break.
func (p *Parser) canInsertSemicolon() bool {
	return p.cur() == token.EOF || p.cur() == token.BraceR || p.lineBreakBeforeCurrent()
}

func (p *Parser) lineBreakBeforeCurrent() bool {
	return p.buf.NextLineBreak(p.lastEnd(), p.start()) >= 0
}

// semicolon implements spec §4.6: consume an explicit `;`, or rely on
// ASI, or raise if neither applies.
func (p *Parser) semicolon() {
	if p.eat(token.Semi) {
		return
	}
	if !p.canInsertSemicolon() {
		p.unexpected()
	}
	if p.cfg.Hooks.OnInsertedSemicolon != nil {
		p.cfg.Hooks.OnInsertedSemicolon(p.lastEnd(), p.lex.LastTokEndLoc)
	}
}

func (p *Parser) afterTrailingComma(t token.Type) bool {
	if p.cur() == t {
		if p.cfg.Hooks.OnTrailingComma != nil {
			p.cfg.Hooks.OnTrailingComma(p.lastStart(), p.lex.LastTokStartLoc)
		}
		p.next()
		return true
	}
	return false
}
