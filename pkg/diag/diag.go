// Package diag implements the positioned-diagnostic channel spec §6/§7
// describes: every fatal parse error carries message, offset, {line,
// column}, and the offset the scanner had reached when it gave up.
// Construction wraps github.com/pkg/errors at the boundary between the
// parser's deep recursive-descent call stack and its public entry
// points, so a caller that needs the Go call stack that produced a
// parse failure (not just the JS source position) can still get one —
// grounded on kiteco-kiteco-public's use of pkg/errors for exactly this
// "attribute a failure to its call site" job.
package diag

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kindy/goacorn/pkg/source"
)

// Error is the exception object spec §6 requires: `message` of the form
// "<reason> (<line>:<column>)", `pos`, `loc`, and `raisedAt`.
type Error struct {
	Reason   string
	Pos      int
	Loc      source.Position
	RaisedAt int
	cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Reason, e.Loc.Line, e.Loc.Column)
}

// Unwrap exposes the pkg/errors-wrapped cause for errors.Is/As callers.
func (e *Error) Unwrap() error { return e.cause }

// New builds a positioned Error. raisedAt is the scanner offset at the
// moment the error was raised (spec §6); for most call sites this is the
// same as pos, but a tokenizer in the middle of an unterminated literal
// reports the offset it reached before giving up, distinct from the
// literal's start.
func New(reason string, pos int, loc source.Position, raisedAt int) *Error {
	return &Error{
		Reason:   reason,
		Pos:      pos,
		Loc:      loc,
		RaisedAt: raisedAt,
		cause:    errors.Errorf("%s (%d:%d)", reason, loc.Line, loc.Column),
	}
}

// StackTrace exposes the pkg/errors-captured stack, for callers that log
// diagnostics with frame information rather than just the JS position.
func (e *Error) StackTrace() errors.StackTrace {
	type tracer interface{ StackTrace() errors.StackTrace }
	if t, ok := e.cause.(tracer); ok {
		return t.StackTrace()
	}
	return nil
}

// RecoverableHandler is invoked for "recoverable" errors (spec §7):
// duplicate property, illegal new.target outside a function, a
// redundant "use strict" directive, and similarly non-fatal conditions.
// The default handler (see parser.Config) simply treats them as fatal,
// matching acorn's default; a caller may substitute a handler that
// collects them instead.
type RecoverableHandler func(err *Error) error
