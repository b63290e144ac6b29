// Package ast defines the ESTree-compatible concrete syntax tree the
// parser produces (spec §3 "AST node", §4.7 "AST construction"). The
// teacher represents every node as one dynamically-typed JS object with
// whatever fields its type happens to use; Go has no structural typing,
// so this package keeps the teacher's "one wide struct, start/end first"
// shape but gives every field a real type instead of `interface{}`
// everywhere; the scope/precision loss that would otherwise come from
// modeling ESTree's duck-typed node shapes as N separate Go structs (and
// the resulting N-way switch-on-type across the parser) is exactly what
// the teacher's single-struct design was built to avoid, so it is kept.
package ast

import (
	"math/big"

	"github.com/kindy/goacorn/pkg/source"
	"github.com/kindy/goacorn/pkg/token"
)

// Type is an ESTree node-type tag (the closed vocabulary in spec §6's
// "AST dialect" paragraph — Program, Literal, Identifier, and so on).
type Type string

const (
	Program                   Type = "Program"
	Identifier                Type = "Identifier"
	PrivateIdentifier         Type = "PrivateIdentifier"
	Literal                   Type = "Literal"
	ThisExpression            Type = "ThisExpression"
	Super                     Type = "Super"
	ArrayExpression           Type = "ArrayExpression"
	ObjectExpression          Type = "ObjectExpression"
	Property                  Type = "Property"
	FunctionExpression        Type = "FunctionExpression"
	ArrowFunctionExpression   Type = "ArrowFunctionExpression"
	ClassExpression           Type = "ClassExpression"
	ClassBody                 Type = "ClassBody"
	MethodDefinition          Type = "MethodDefinition"
	PropertyDefinition        Type = "PropertyDefinition"
	StaticBlock               Type = "StaticBlock"
	TaggedTemplateExpression  Type = "TaggedTemplateExpression"
	TemplateLiteral           Type = "TemplateLiteral"
	TemplateElement           Type = "TemplateElement"
	UnaryExpression           Type = "UnaryExpression"
	UpdateExpression          Type = "UpdateExpression"
	BinaryExpression          Type = "BinaryExpression"
	LogicalExpression         Type = "LogicalExpression"
	AssignmentExpression      Type = "AssignmentExpression"
	ConditionalExpression     Type = "ConditionalExpression"
	CallExpression            Type = "CallExpression"
	NewExpression             Type = "NewExpression"
	SequenceExpression        Type = "SequenceExpression"
	SpreadElement             Type = "SpreadElement"
	YieldExpression           Type = "YieldExpression"
	AwaitExpression           Type = "AwaitExpression"
	ImportExpression          Type = "ImportExpression"
	MemberExpression          Type = "MemberExpression"
	ChainExpression           Type = "ChainExpression"
	MetaProperty              Type = "MetaProperty"
	ParenthesizedExpression   Type = "ParenthesizedExpression"
	ArrayPattern              Type = "ArrayPattern"
	ObjectPattern             Type = "ObjectPattern"
	AssignmentPattern         Type = "AssignmentPattern"
	RestElement               Type = "RestElement"
	ExpressionStatement       Type = "ExpressionStatement"
	BlockStatement            Type = "BlockStatement"
	EmptyStatement            Type = "EmptyStatement"
	DebuggerStatement         Type = "DebuggerStatement"
	WithStatement             Type = "WithStatement"
	ReturnStatement           Type = "ReturnStatement"
	LabeledStatement          Type = "LabeledStatement"
	BreakStatement            Type = "BreakStatement"
	ContinueStatement         Type = "ContinueStatement"
	IfStatement               Type = "IfStatement"
	SwitchStatement           Type = "SwitchStatement"
	SwitchCase                Type = "SwitchCase"
	ThrowStatement            Type = "ThrowStatement"
	TryStatement              Type = "TryStatement"
	CatchClause               Type = "CatchClause"
	WhileStatement            Type = "WhileStatement"
	DoWhileStatement          Type = "DoWhileStatement"
	ForStatement              Type = "ForStatement"
	ForInStatement            Type = "ForInStatement"
	ForOfStatement            Type = "ForOfStatement"
	FunctionDeclaration       Type = "FunctionDeclaration"
	VariableDeclaration       Type = "VariableDeclaration"
	VariableDeclarator        Type = "VariableDeclarator"
	ClassDeclaration          Type = "ClassDeclaration"
	ImportDeclaration         Type = "ImportDeclaration"
	ImportSpecifier           Type = "ImportSpecifier"
	ImportDefaultSpecifier    Type = "ImportDefaultSpecifier"
	ImportNamespaceSpecifier  Type = "ImportNamespaceSpecifier"
	ExportNamedDeclaration    Type = "ExportNamedDeclaration"
	ExportSpecifier           Type = "ExportSpecifier"
	ExportDefaultDeclaration  Type = "ExportDefaultDeclaration"
	ExportAllDeclaration      Type = "ExportAllDeclaration"
)

// Node is the single ESTree node representation. Only the fields that
// matter to a given Type are populated; the parser's construction
// helpers (see pkg/parser/node.go) set exactly the fields a type needs,
// mirroring the teacher's per-constructor field assignments.
type Node struct {
	Type  Type
	Start int
	End   int
	Loc   *token.SourceLocation
	Range *[2]int

	// Identifier / PrivateIdentifier
	Name string

	// Literal
	Value    interface{} // string, float64, bool, *big.Int, *token.RegexValue, or nil
	Raw      string
	Regex    *token.RegexValue
	BigInt   *big.Int

	// Program / BlockStatement / ClassBody / StaticBlock / SwitchCase
	// consequent list
	Body []*Node

	// Function-like (FunctionDeclaration/Expression, ArrowFunctionExpression)
	ID        *Node
	Params    []*Node
	FuncBody  *Node // BlockStatement, or an expression for concise arrows
	Generator bool
	Async     bool
	Expression bool // arrow body is a bare expression, not a block

	// ArrayExpression/Pattern, ObjectExpression/Pattern
	Elements   []*Node
	Properties []*Node

	// Property / PropertyDefinition / MethodDefinition
	Key       *Node
	PropValue *Node
	Kind      string // "init" | "get" | "set" | "constructor" | "method"
	Computed  bool
	Method    bool
	Shorthand bool
	Static    bool

	// Unary/Update/Binary/Logical/Assignment
	Operator string
	Prefix   bool
	Left     *Node
	Right    *Node
	Argument *Node

	// Conditional
	Test       *Node
	Consequent *Node
	Alternate  *Node

	// Call/New/Member
	Callee    *Node
	Arguments []*Node
	Object         *Node
	MemberProperty *Node
	Optional       bool

	// Sequence/Template
	Expressions []*Node
	Quasis      []*Node
	Tag         *Node
	Tail        bool
	Cooked      string

	// Yield/Await/Spread/Rest/Paren wrap a single sub-expression via Argument.
	Delegate bool

	// Statements
	Label       *Node
	Discriminant *Node
	Cases       []*Node
	Handler     *Node
	Finalizer   *Node
	Block       *Node
	Param       *Node
	Init        interface{} // *Node, for ForStatement.Init may be VariableDeclaration or expr or nil
	Update      *Node

	// Declarations
	Declarations []*Node
	Declaration  *Node
	Specifiers   []*Node
	Source       *Node
	Imported     *Node
	Local        *Node
	Exported     *Node
	SuperClass   *Node

	// Directive prologue (see pkg/parser's directivePrologueStep)
	Directive string

	// Misc
	Meta       *Node
	SourceType string

	// SourceFile is set directly from Config.DirectSourceFile when that
	// option is in use, independent of Loc.Source.
	SourceFile string

	// Chain/optional-chain marker: set on the ChainExpression wrapper.
	ChainExpr *Node
}

// Pos returns the node's {line, column} start position if locations
// were requested, for error messages that want to describe a node.
func (n *Node) Pos() source.Position {
	if n == nil || n.Loc == nil {
		return source.Position{}
	}
	return n.Loc.Start
}
