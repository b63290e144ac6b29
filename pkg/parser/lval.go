package parser

import (
	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/scope"
)

// toAssignable converts an expression parsed under the expression
// cover grammar into its pattern form once the parser learns it is
// actually an assignment target (spec §4.5): ObjectExpression becomes
// ObjectPattern, ArrayExpression becomes ArrayPattern, AssignmentExpression
// with `=` becomes AssignmentPattern, and so on recursively.
func (p *Parser) toAssignable(node *ast.Node, isBinding bool, d *DestructuringErrors) *ast.Node {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ast.Identifier, ast.ObjectPattern, ast.ArrayPattern, ast.AssignmentPattern, ast.RestElement:
		// already a pattern
	case ast.ObjectExpression:
		node.Type = ast.ObjectPattern
		for _, prop := range node.Properties {
			if prop.Type == ast.RestElement {
				continue
			}
			if prop.Type == ast.SpreadElement {
				prop.Type = ast.RestElement
				prop.Argument = p.toAssignable(prop.Argument, isBinding, nil)
				continue
			}
			prop.PropValue = p.toAssignable(prop.PropValue, isBinding, nil)
		}
	case ast.ArrayExpression:
		node.Type = ast.ArrayPattern
		p.toAssignableList(node.Elements, isBinding)
	case ast.AssignmentExpression:
		if node.Operator != "=" {
			p.raise(node.Left.End, "Only '=' operator can be used for specifying default value.")
		}
		node.Type = ast.AssignmentPattern
		node.Left = p.toAssignable(node.Left, isBinding, nil)
	case ast.SpreadElement:
		node.Type = ast.RestElement
		node.Argument = p.toAssignable(node.Argument, isBinding, nil)
	case ast.ParenthesizedExpression:
		node.Argument = p.toAssignable(node.Argument, isBinding, d)
		return node
	case ast.MemberExpression:
		if !isBinding {
			break
		}
		fallthrough
	default:
		p.raise(node.Start, "Assigning to rvalue")
	}
	return node
}

func (p *Parser) toAssignableList(elts []*ast.Node, isBinding bool) []*ast.Node {
	n := len(elts)
	for i, elt := range elts {
		if elt == nil {
			continue
		}
		elts[i] = p.toAssignable(elt, isBinding, nil)
		if elt.Type == ast.RestElement && i != n-1 {
			p.raise(elt.Start, "Rest element must be last element")
		}
	}
	return elts
}

// checkLValSimple validates an assignment/update target that is not a
// binding declaration: identifiers, member expressions, and patterns
// (spec §4.5/§5's LeftHandSideExpression restrictions).
func (p *Parser) checkLValSimple(expr *ast.Node, bindingType scope.BindingKind, checkClashes map[string]bool) {
	isBind := bindingType != scope.BindNone
	switch expr.Type {
	case ast.Identifier:
		if p.strict && isReservedInStrictMode(expr.Name) {
			word := "Binding"
			if !isBind {
				word = "Assigning to"
			}
			p.raise(expr.Start, word+" "+expr.Name+" in strict mode")
		}
		if isBind {
			if bindingType == scope.BindLexical && expr.Name == "let" {
				p.raise(expr.Start, "let is disallowed as a lexically bound name")
			}
			if checkClashes != nil {
				if checkClashes[expr.Name] {
					p.raise(expr.Start, "Argument name clash")
				}
				checkClashes[expr.Name] = true
			}
			if bindingType != scope.BindOuterCatch {
				if msg := p.scopes.Declare(expr.Name, bindingType); msg != "" {
					p.raise(expr.Start, msg)
				}
			}
		}
	case ast.ChainExpression:
		p.raise(expr.Start, "Optional chaining cannot appear in a lvalue expression")
	case ast.MemberExpression:
		if isBind {
			p.raise(expr.Start, "Binding member expression")
		}
	case ast.ParenthesizedExpression:
		p.checkLValSimple(expr.Argument, bindingType, checkClashes)
		return
	case ast.ObjectPattern:
		for _, prop := range expr.Properties {
			p.checkLValInnerPattern(prop, bindingType, checkClashes)
		}
		return
	case ast.ArrayPattern:
		for _, elt := range expr.Elements {
			if elt != nil {
				p.checkLValInnerPattern(elt, bindingType, checkClashes)
			}
		}
		return
	case ast.AssignmentPattern:
		p.checkLValSimple(expr.Left, bindingType, checkClashes)
		return
	case ast.RestElement:
		p.checkLValSimple(expr.Argument, bindingType, checkClashes)
		return
	default:
		word := "Binding"
		if !isBind {
			word = "Assigning to"
		}
		p.raise(expr.Start, word+" rvalue")
	}
}

// checkLValInnerPattern handles the Property/RestElement wrapping that
// appears only inside an object pattern's property list, delegating the
// actual target back to checkLValSimple.
func (p *Parser) checkLValInnerPattern(n *ast.Node, bindingType scope.BindingKind, checkClashes map[string]bool) {
	if n.Type == ast.Property {
		p.checkLValSimple(n.PropValue, bindingType, checkClashes)
		return
	}
	p.checkLValSimple(n, bindingType, checkClashes)
}

func isReservedInStrictMode(name string) bool {
	switch name {
	case "implements", "interface", "let", "package", "private", "protected", "public", "static", "yield",
		"eval", "arguments":
		return true
	}
	return false
}

// parseFunctionParamsBindings declares every binding identifier in
// params into the current (already-entered) function scope, enforcing
// spec §5's "no duplicate parameter names" rule outside strict/arrow/
// non-simple-parameter-list functions.
func (p *Parser) parseFunctionParamsBindings(params []*ast.Node) {
	clashes := map[string]bool{}
	for _, param := range params {
		if param != nil {
			p.checkLValSimple(param, scope.BindVar, clashes)
		}
	}
}
