package lexer

import "github.com/kindy/goacorn/pkg/token"

// ContextKind is one of the syntactic-context descriptors spec §4.2
// enumerates: brace-delimited statement vs. expression bodies,
// parenthesized statement vs. expression, function declaration vs.
// expression (generator or not), and template substitution contexts.
type ContextKind int

const (
	BStat ContextKind = iota
	BExpr
	BTmpl
	PStat
	PExpr
	FStat
	FExpr
	FExprGen
	FGen
	QTmpl
)

// Context is one entry on the context stack (spec §4.2's descriptor:
// "isExpr, preserveSpace, override, token, generator").
type Context struct {
	Kind          ContextKind
	IsExpr        bool
	PreserveSpace bool
}

func newContext(kind ContextKind, isExpr, preserveSpace bool) *Context {
	return &Context{Kind: kind, IsExpr: isExpr, PreserveSpace: preserveSpace}
}

// initialContext is the single b_stat entry every parse starts with
// (spec invariant: "context.length == 1" after parse completes, so it
// must also start at exactly one).
func initialContext() []*Context {
	return []*Context{newContext(BStat, false, false)}
}

func (l *Lexer) curContext() *Context {
	if len(l.context) == 0 {
		return nil
	}
	return l.context[len(l.context)-1]
}

func (l *Lexer) pushContext(c *Context) { l.context = append(l.context, c) }

func (l *Lexer) popContext() *Context {
	n := len(l.context)
	top := l.context[n-1]
	l.context = l.context[:n-1]
	return top
}

// inGeneratorContext walks the context stack from the top looking for
// the nearest function-kind entry (f_stat/f_expr/f_expr_gen/f_gen) and
// reports whether that function is a generator, the way real acorn's
// inGeneratorContext() does — so a bare `yield` token inside a
// generator still permits a following `/` to start a regexp literal
// (spec §4.2's updateContext "name" rule).
func (l *Lexer) inGeneratorContext() bool {
	for i := len(l.context) - 1; i >= 0; i-- {
		switch l.context[i].Kind {
		case FExprGen, FGen:
			return true
		case FStat, FExpr:
			return false
		}
	}
	return false
}

// braceIsBlock decides, per spec §4.2's `{` rule, whether the brace just
// seen opens a statement block (true) or an object/class-body/function-
// body expression (false).
func (l *Lexer) braceIsBlock(prevType token.Type) bool {
	parent := l.curContext()
	switch prevType {
	case token.Colon, token.BraceL:
		if parent != nil && parent.Kind == BStat {
			return true
		}
		return false
	case token.ParenR:
		return l.statementAfterParenR
	case token.Function, token.Class:
		// handled by caller before context is considered for these.
	}
	if prevType == token.EOF || prevType == token.Semi || prevType == token.Else || prevType == token.Arrow {
		return true
	}
	return !l.exprAllowed
}

// updateContext runs after every finished token (spec §4.2): it may
// push/pop the context stack and always refreshes exprAllowed.
func (l *Lexer) updateContext(prevType token.Type) {
	t := l.Type
	info := t.Of()
	switch t {
	case token.BraceL:
		kind := BExpr
		if l.braceIsBlock(prevType) {
			kind = BStat
		}
		l.pushContext(newContext(kind, kind == BExpr, false))
		l.exprAllowed = true

	case token.BraceR, token.ParenR:
		if len(l.context) == 1 {
			l.exprAllowed = true
			return
		}
		popped := l.popContext()
		if t == token.BraceR && popped.Kind == BStat {
			if top := l.curContext(); top != nil && (top.Kind == FExpr || top.Kind == FExprGen) {
				l.popContext()
				l.exprAllowed = false
				return
			}
		}
		if popped.Kind == BTmpl {
			l.exprAllowed = true
			return
		}
		l.statementAfterParenR = popped.Kind == PStat
		l.exprAllowed = !popped.IsExpr

	case token.ParenL:
		statementParens := prevType == token.If || prevType == token.For || prevType == token.With || prevType == token.While
		kind := PExpr
		if statementParens {
			kind = PStat
		}
		l.pushContext(newContext(kind, true, false))
		l.exprAllowed = true

	case token.DollarBraceL:
		l.pushContext(newContext(BTmpl, true, false))
		l.exprAllowed = true

	case token.BackQuote:
		if l.curContext() != nil && l.curContext().Kind == QTmpl {
			l.popContext()
		} else {
			l.pushContext(newContext(QTmpl, false, true))
		}
		l.exprAllowed = false

	case token.Function, token.Class:
		exprPosition := info.BeforeExpr && prevType != token.Else &&
			!(prevType == token.Semi && l.curContext() != nil && l.curContext().Kind != PStat) &&
			!(prevType == token.Return && l.lineBreakBeforeCurrent()) &&
			!((prevType == token.Colon || prevType == token.BraceL) && l.curContext() != nil && l.curContext().Kind == BStat)
		kind := FStat
		if exprPosition {
			kind = FExpr
		}
		l.pushContext(newContext(kind, kind == FExpr, false))
		l.exprAllowed = false

	case token.Star:
		if prevType == token.Function {
			idx := len(l.context) - 1
			if idx >= 0 {
				if l.context[idx].Kind == FExpr {
					l.context[idx].Kind = FExprGen
				} else {
					l.context[idx].Kind = FGen
				}
			}
		}
		l.exprAllowed = true

	case token.Name:
		allowed := false
		if l.ecmaVersion >= 6 && prevType != token.Dot {
			if s, _ := l.Value.(string); s == "of" && !l.exprAllowed {
				allowed = true
			} else if s == "yield" && l.inGeneratorContext() {
				allowed = true
			}
		}
		l.exprAllowed = allowed

	default:
		l.exprAllowed = info.BeforeExpr
	}
}

// lineBreakBeforeCurrent reports whether a line terminator appears
// between the previous token's end and the current token's start.
func (l *Lexer) lineBreakBeforeCurrent() bool {
	return l.buf.NextLineBreak(l.LastTokEnd, l.Start) >= 0
}
