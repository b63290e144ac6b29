// Package scope implements the binding-duplication checks of spec §5
// ("Scope and binding checks"): a stack of
// lexical scopes tagged with bitmask flags, each tracking the names
// declared as `var` and as lexical bindings within it.
package scope

// Flag bits describe what kind of scope a Scope entry represents,
// mirroring the teacher's scope.go SCOPE_* bit constants.
type Flag int

const (
	Top Flag = 1 << iota
	Function
	Async
	Generator
	Arrow
	SimpleCatch
	Super
	DirectSuper
	ClassStaticBlock
	Var = Top | Function | ClassStaticBlock
)

// Scope is one entry in the Stack, tracking every name bound directly
// inside it (spec §5's "lexical scope frame").
type Scope struct {
	Flags     Flag
	Var       map[string]bool // var/function declarations
	Lexical   map[string]bool // let/const/class and catch-parameter bindings
	Functions map[string]bool // function declarations, tracked separately for annex B semantics
}

func newScope(flags Flag) *Scope {
	return &Scope{Flags: flags, Var: map[string]bool{}, Lexical: map[string]bool{}, Functions: map[string]bool{}}
}

func (s *Scope) Is(flag Flag) bool { return s.Flags&flag != 0 }

// Stack is the parser's scope stack (spec §5). The zero value is not
// usable; call NewStack.
type Stack struct {
	frames   []*Scope
	inModule bool
}

// NewStack returns a stack containing a single top-level scope,
// mirroring the teacher's enterScope(SCOPE_TOP) done once at the
// start of state.go's NewParser. The top frame carries only Top, not
// Function: top-level script code is not "in a function" (InFunction
// must report false there), though Top is still part of the Var mask
// so `var` declarations bind into it.
func NewStack() *Stack {
	return &Stack{frames: []*Scope{newScope(Top)}}
}

// SetModule tells the stack whether the program being parsed is a
// module, which affects whether a top-level function declaration is
// treated as var-like (spec §4.6's `treatFunctionsAsVar`).
func (s *Stack) SetModule(v bool) { s.inModule = v }

// treatFunctionsAsVar reports whether a function declaration bound in
// the current scope follows Annex B var-hoisting semantics: true
// inside any function body, or at the top level of a non-module
// script (spec §4.6's FUNCTION row).
func (s *Stack) treatFunctionsAsVar() bool {
	cur := s.Current()
	return cur.Is(Function) || (!s.inModule && cur.Is(Top))
}

func (s *Stack) Enter(flags Flag) { s.frames = append(s.frames, newScope(flags)) }

func (s *Stack) Exit() { s.frames = s.frames[:len(s.frames)-1] }

func (s *Stack) Current() *Scope { return s.frames[len(s.frames)-1] }

// TopScope returns the outermost (module/script) scope frame, which is
// never popped for the life of the stack — used by the parser's
// undefined-export check to see every name bound at module top level.
func (s *Stack) TopScope() *Scope { return s.frames[0] }

// CurrentVar returns the nearest enclosing scope a `var` declaration
// binds into: the innermost Function/Top/ClassStaticBlock frame.
func (s *Stack) CurrentVar() *Scope {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Is(Var) {
			return s.frames[i]
		}
	}
	return s.frames[0]
}

// InFunction reports whether any enclosing scope is a function body.
// The search runs through every frame; a class static block does not
// stop it.
func (s *Stack) InFunction() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Is(Function) {
			return true
		}
	}
	return false
}

func (s *Stack) InGenerator() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.Is(Generator) {
			return true
		}
		if f.Is(Function) {
			return false
		}
	}
	return false
}

func (s *Stack) InAsync() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.Is(Async) {
			return true
		}
		if f.Is(Function) {
			return false
		}
	}
	return false
}

func (s *Stack) AllowSuper() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Is(Super) {
			return true
		}
	}
	return false
}

func (s *Stack) AllowDirectSuper() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Is(DirectSuper) {
			return true
		}
	}
	return false
}

func (s *Stack) InClassStaticBlock() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Is(ClassStaticBlock) {
			return true
		}
		if s.frames[i].Is(Var) {
			return false
		}
	}
	return false
}

// BindingKind distinguishes the redeclaration rules spec §5 applies to
// each binding form.
type BindingKind int

const (
	// BindNone is the zero value: checking a target (plain assignment or
	// update expression) without declaring anything.
	BindNone BindingKind = iota
	BindVar
	BindLexical
	BindFunction
	BindSimpleCatch
	BindOuterCatch // catch parameter bound by a pattern with no inner var-shadowing restriction
)

// Declare records name as bound with the given kind in the stack's
// current scope, returning an error message if spec §5's duplicate-
// declaration rule is violated. An empty return means the declaration is
// fine (or kind is BindNone, which never declares).
func (s *Stack) Declare(name string, kind BindingKind) string {
	switch kind {
	case BindNone:
		return ""
	case BindLexical:
		scope := s.Current()
		if scope.Lexical[name] || scope.Functions[name] ||
			(scope.Is(Var) && scope.Var[name]) {
			return "Identifier '" + name + "' has already been declared"
		}
		scope.Lexical[name] = true
		if s.frames[0] == scope {
			// top-level lexical bindings also exclude future var shadowing
		}
		return ""
	case BindSimpleCatch:
		scope := s.Current()
		if scope.Lexical[name] {
			return "Identifier '" + name + "' has already been declared"
		}
		scope.Lexical[name] = true
		return ""
	case BindFunction:
		scope := s.Current()
		if scope.Lexical[name] {
			return "Identifier '" + name + "' has already been declared"
		}
		if !s.treatFunctionsAsVar() && scope.Var[name] {
			return "Identifier '" + name + "' has already been declared"
		}
		scope.Functions[name] = true
		return ""
	default: // BindVar, BindOuterCatch
		for i := len(s.frames) - 1; ; i-- {
			scope := s.frames[i]
			if scope.Lexical[name] && !(scope.Is(SimpleCatch) && kind == BindOuterCatch) {
				return "Identifier '" + name + "' has already been declared"
			}
			scope.Var[name] = true
			if scope.Is(Var) {
				break
			}
		}
		return ""
	}
}
