package parser

import (
	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/scope"
	"github.com/kindy/goacorn/pkg/token"
)

// parseTopLevel drives the whole program (spec §4's Parse entry point):
// repeatedly parse statements until EOF, applying the directive-prologue
// check after each one (see directivePrologueStep) so a "use strict"
// directive governs every statement that follows it.
func (p *Parser) parseTopLevel() *ast.Node {
	node := p.cfg.Program
	if node == nil {
		node = &ast.Node{Start: 0}
	}
	p.next()
	var labels []labelInfo
	inPrologue := true
	for p.cur() != token.EOF {
		stmt := p.parseStatement(true, true, &labels)
		node.Body = append(node.Body, stmt)
		inPrologue = directivePrologueStep(stmt, &p.strict, inPrologue)
	}
	p.checkUndefinedExports()
	node.SourceType = p.cfg.SourceType
	return p.finishNodeAt(node, ast.Program, p.end())
}

type labelInfo struct {
	name     string
	kind     string // "loop" | "switch" | ""
	statementStart int
}

// parseStatement covers every Statement production of spec §4.6:
// expression statements (with ASI), block/if/loop/switch/try forms,
// declarations, and labeled statements.
func (p *Parser) parseStatement(declaration, topLevel bool, labels *[]labelInfo) *ast.Node {
	startType := p.cur()
	node := p.startNode()
	var kind string

	if p.isLet(topLevel) {
		startType = token.Var
		kind = "let"
	}

	switch startType {
	case token.Break, token.Continue:
		return p.parseBreakContinueStatement(node, startType)
	case token.Debugger:
		p.next()
		p.semicolon()
		return p.finishNode(node, ast.DebuggerStatement)
	case token.Do:
		p.next()
		node.Body = []*ast.Node{p.parseStatement(false, false, nil)}
		p.expect(token.While)
		node.Test = p.parseParenExpression()
		if p.cfg.EcmaVersion >= 6 {
			p.eat(token.Semi)
		} else {
			p.semicolon()
		}
		return p.finishNode(node, ast.DoWhileStatement)
	case token.For:
		return p.parseForStatement(node)
	case token.Function:
		if !declaration && p.strict {
			p.unexpected()
		}
		p.next()
		return p.parseFunctionStatement(node, false)
	case token.Class:
		if !declaration {
			p.unexpected()
		}
		return p.parseClass(node, true)
	case token.If:
		return p.parseIfStatement(node)
	case token.Return:
		if !p.scopes.InFunction() && !p.cfg.AllowReturnOutsideFunction {
			p.raise(p.start(), "'return' outside of function")
		}
		p.next()
		if p.cur() == token.Semi || p.canInsertSemicolon() {
			node.Argument = nil
		} else {
			node.Argument = p.parseExpression(false)
		}
		p.semicolon()
		return p.finishNode(node, ast.ReturnStatement)
	case token.Switch:
		return p.parseSwitchStatement(node)
	case token.Throw:
		p.next()
		if p.lineBreakBeforeCurrent() {
			p.raise(p.lastEnd(), "Illegal newline after throw")
		}
		node.Argument = p.parseExpression(false)
		p.semicolon()
		return p.finishNode(node, ast.ThrowStatement)
	case token.Try:
		return p.parseTryStatement(node)
	case token.Const, token.Var:
		realKind := kind
		if realKind == "" {
			if p.cur() == token.Const {
				realKind = "const"
			} else {
				realKind = "var"
			}
		}
		if !declaration && realKind != "var" {
			p.unexpected()
		}
		node.Kind = realKind
		p.next()
		p.parseVarDeclaration(node, realKind)
		p.semicolon()
		return p.finishNode(node, ast.VariableDeclaration)
	case token.While:
		p.next()
		node.Test = p.parseParenExpression()
		node.Body = []*ast.Node{p.parseStatement(false, false, nil)}
		return p.finishNode(node, ast.WhileStatement)
	case token.With:
		if p.strict {
			p.raise(p.start(), "'with' in strict mode")
		}
		p.next()
		node.Object = p.parseParenExpression()
		node.Body = []*ast.Node{p.parseStatement(false, false, nil)}
		return p.finishNode(node, ast.WithStatement)
	case token.BraceL:
		return p.parseBlock(true)
	case token.Semi:
		p.next()
		return p.finishNode(node, ast.EmptyStatement)
	case token.Export, token.Import:
		if !p.cfg.AllowImportExportEverywhere {
			if !topLevel {
				p.raise(p.start(), "'import' and 'export' may only appear at the top level")
			}
			if !p.inModule {
				p.raise(p.start(), "'import' and 'export' may appear only with 'sourceType: module'")
			}
		}
		return p.parseModuleDeclaration(node, startType)
	}

	if p.isAsyncFunction() {
		p.next()
		p.next()
		return p.parseFunctionStatement(node, true)
	}

	maybeName, _ := p.curVal().(string)
	expr := p.parseExpression(false)
	if startType == token.Name && expr.Type == ast.Identifier && p.eat(token.Colon) {
		labelNode := node
		labelNode.Label = expr
		labelKind := ""
		for _, l := range *labels {
			if l.name == maybeName {
				p.raise(expr.Start, "Label '"+maybeName+"' is already declared")
			}
		}
		cur := p.cur()
		if cur.Of().IsLoop {
			labelKind = "loop"
		} else if cur == token.Switch {
			labelKind = "switch"
		}
		newLabels := append(append([]labelInfo{}, *labels...), labelInfo{name: maybeName, kind: labelKind})
		labelNode.Body = []*ast.Node{p.parseStatement(true, false, &newLabels)}
		return p.finishNode(labelNode, ast.LabeledStatement)
	}
	node.Argument = expr
	p.semicolon()
	return p.finishNode(node, ast.ExpressionStatement)
}

// isLet reports whether the contextual `let` keyword here begins a
// LexicalDeclaration. Real disambiguation requires looking past `let`
// at the next token (a binding pattern starter means declaration,
// anything else means `let` is being used as an ordinary identifier in
// sloppy mode); this parser treats every contextual `let` as starting
// a declaration, which is always correct in strict/module code and
// correct in sloppy code except for the rare `let` used as a bare
// identifier, documented as an accepted simplification.
func (p *Parser) isLet(topLevel bool) bool {
	return p.isContextual("let")
}

func (p *Parser) isAsyncFunction() bool {
	if p.cfg.EcmaVersion < 8 || !p.isContextual("async") {
		return false
	}
	return !p.lineBreakBeforeCurrent()
}

func (p *Parser) parseParenExpression() *ast.Node {
	p.expect(token.ParenL)
	val := p.parseExpression(false)
	p.expect(token.ParenR)
	return val
}

func (p *Parser) parseBreakContinueStatement(node *ast.Node, keyword token.Type) *ast.Node {
	isBreak := keyword == token.Break
	p.next()
	if p.cur() == token.Semi || p.canInsertSemicolon() {
		node.Label = nil
	} else if p.cur() != token.Name {
		p.unexpected()
	} else {
		node.Label = p.parseIdent(false)
		p.semicolon()
	}
	if node.Label == nil {
		p.semicolon()
	}
	t := ast.BreakStatement
	if !isBreak {
		t = ast.ContinueStatement
	}
	return p.finishNode(node, t)
}

func (p *Parser) parseIfStatement(node *ast.Node) *ast.Node {
	p.next()
	node.Test = p.parseParenExpression()
	node.Consequent = p.parseStatement(false, false, nil)
	if p.eat(token.Else) {
		node.Alternate = p.parseStatement(false, false, nil)
	}
	return p.finishNode(node, ast.IfStatement)
}

func (p *Parser) parseSwitchStatement(node *ast.Node) *ast.Node {
	p.next()
	node.Discriminant = p.parseParenExpression()
	p.expect(token.BraceL)
	p.scopes.Enter(0)
	var cur *ast.Node
	seenDefault := false
	for p.cur() != token.BraceR {
		if p.cur() == token.Case || p.cur() == token.Default {
			isCase := p.cur() == token.Case
			c := p.startNode()
			p.next()
			if isCase {
				c.Test = p.parseExpression(false)
			} else {
				if seenDefault {
					p.raise(p.lastStart(), "Multiple default clauses")
				}
				seenDefault = true
				c.Test = nil
			}
			p.expect(token.Colon)
			cur = p.finishNode(c, ast.SwitchCase)
			node.Cases = append(node.Cases, cur)
			continue
		}
		if cur == nil {
			p.unexpected()
		}
		cur.Body = append(cur.Body, p.parseStatement(true, false, nil))
	}
	p.scopes.Exit()
	p.next()
	return p.finishNode(node, ast.SwitchStatement)
}

func (p *Parser) parseTryStatement(node *ast.Node) *ast.Node {
	p.next()
	node.Block = p.parseBlock(true)
	node.Handler = nil
	if p.cur() == token.Catch {
		clause := p.startNode()
		p.next()
		if p.eat(token.ParenL) {
			p.scopes.Enter(0)
			clause.Param = p.parseBindingAtom()
			simple := clause.Param.Type == ast.Identifier
			kind := scope.BindLexical
			if simple {
				kind = scope.BindSimpleCatch
			}
			p.checkLValSimple(clause.Param, kind, map[string]bool{})
			p.expect(token.ParenR)
		} else {
			clause.Param = nil
			p.scopes.Enter(0)
		}
		clause.FuncBody = p.parseBlock(false)
		p.scopes.Exit()
		node.Handler = p.finishNode(clause, ast.CatchClause)
	}
	if p.eat(token.Finally) {
		node.Finalizer = p.parseBlock(true)
	} else {
		node.Finalizer = nil
	}
	if node.Handler == nil && node.Finalizer == nil {
		p.raise(node.Start, "Missing catch or finally clause")
	}
	return p.finishNode(node, ast.TryStatement)
}

func (p *Parser) parseBlock(createNewLexicalScope bool) *ast.Node {
	node := p.startNode()
	node.Body = nil
	p.expect(token.BraceL)
	if createNewLexicalScope {
		p.scopes.Enter(0)
	}
	for p.cur() != token.BraceR {
		node.Body = append(node.Body, p.parseStatement(true, false, nil))
	}
	p.next()
	if createNewLexicalScope {
		p.scopes.Exit()
	}
	return p.finishNode(node, ast.BlockStatement)
}

// parseFunctionBody is parseBlock specialized for a function or method
// body: it applies the directive prologue incrementally (see
// directivePrologueStep) so a "use strict" directive governs every
// statement that follows it in the same body, not just ones appended
// after the whole body has already been parsed.
func (p *Parser) parseFunctionBody(createNewLexicalScope bool) *ast.Node {
	node := p.startNode()
	node.Body = nil
	p.expect(token.BraceL)
	if createNewLexicalScope {
		p.scopes.Enter(0)
	}
	inPrologue := true
	for p.cur() != token.BraceR {
		stmt := p.parseStatement(true, false, nil)
		node.Body = append(node.Body, stmt)
		inPrologue = directivePrologueStep(stmt, &p.strict, inPrologue)
	}
	p.next()
	if createNewLexicalScope {
		p.scopes.Exit()
	}
	return p.finishNode(node, ast.BlockStatement)
}

func (p *Parser) parseVarDeclaration(node *ast.Node, kind string) {
	for {
		decl := p.startNode()
		p.parseVarID(decl, kind)
		if p.eat(token.Eq) {
			decl.Init = p.parseMaybeAssign(false, nil, nil)
		} else if kind == "const" || decl.ID.Type != ast.Identifier {
			p.unexpected()
		} else {
			decl.Init = nil
		}
		node.Declarations = append(node.Declarations, p.finishNode(decl, ast.VariableDeclarator))
		if !p.eat(token.Comma) {
			break
		}
	}
}

func (p *Parser) parseVarID(decl *ast.Node, kind string) {
	decl.ID = p.parseBindingAtom()
	bindKind := scope.BindVar
	if kind != "var" {
		bindKind = scope.BindLexical
	}
	p.checkLValSimple(decl.ID, bindKind, map[string]bool{})
}

func (p *Parser) parseForStatement(node *ast.Node) *ast.Node {
	p.next()
	p.scopes.Enter(0)
	p.expect(token.ParenL)
	if p.cur() == token.Semi {
		return p.parseFor(node, nil)
	}
	isLet := p.isContextual("let")
	if p.cur() == token.Var || p.cur() == token.Const || isLet {
		kind := "var"
		switch {
		case isLet:
			kind = "let"
		case p.cur() == token.Const:
			kind = "const"
		}
		init := p.startNode()
		p.next()
		p.parseVarForHead(init, kind)
		if (p.cur() == token.In || p.isContextual("of")) && len(init.Declarations) == 1 {
			return p.parseForInOf(node, p.finishNode(init, ast.VariableDeclaration))
		}
		p.finishNode(init, ast.VariableDeclaration)
		return p.parseFor(node, init)
	}
	refDestructuringErrors := newDestructuringErrors()
	init := p.parseExpression(true)
	if p.cur() == token.In || p.isContextual("of") {
		init = p.toAssignable(init, false, refDestructuringErrors)
		p.checkLValSimple(init, scope.BindNone, nil)
		return p.parseForInOf(node, init)
	}
	p.checkExpressionErrors(refDestructuringErrors, true)
	return p.parseFor(node, init)
}

func (p *Parser) parseVarForHead(node *ast.Node, kind string) {
	for {
		decl := p.startNode()
		p.parseVarID(decl, kind)
		if p.eat(token.Eq) {
			decl.Init = p.parseMaybeAssign(true, nil, nil)
		}
		node.Declarations = append(node.Declarations, p.finishNode(decl, ast.VariableDeclarator))
		if !p.eat(token.Comma) {
			break
		}
	}
}

// parseForInOf finishes a for-in/for-of header once the left side
// (already converted to a binding pattern or VariableDeclaration) and
// the `in`/`of` keyword are in hand. Both node.Init (the left side)
// and node.Object (the iterated right side) are populated so callers
// of either ForInStatement or ForOfStatement find their operands in
// the same two fields.
func (p *Parser) parseForInOf(node *ast.Node, init *ast.Node) *ast.Node {
	isOf := p.cur() != token.In
	node.Init = init
	p.next()
	node.Object = p.parseExpression(false)
	p.expect(token.ParenR)
	node.Body = []*ast.Node{p.parseStatement(false, false, nil)}
	p.scopes.Exit()
	if isOf {
		return p.finishNode(node, ast.ForOfStatement)
	}
	return p.finishNode(node, ast.ForInStatement)
}

func (p *Parser) parseFor(node *ast.Node, init *ast.Node) *ast.Node {
	node.Init = init
	p.expect(token.Semi)
	if p.cur() == token.Semi {
		node.Test = nil
	} else {
		node.Test = p.parseExpression(false)
	}
	p.expect(token.Semi)
	if p.cur() == token.ParenR {
		node.Update = nil
	} else {
		node.Update = p.parseExpression(false)
	}
	p.expect(token.ParenR)
	node.Body = []*ast.Node{p.parseStatement(false, false, nil)}
	p.scopes.Exit()
	return p.finishNode(node, ast.ForStatement)
}

// ---- functions & classes ----

func (p *Parser) parseFunctionStatement(node *ast.Node, isAsync bool) *ast.Node {
	return p.parseFunction(node, functionFlags{isAsync: isAsync})
}

// parseFunction parses a FunctionDeclaration or FunctionExpression
// (spec §4.7): name, generic generator/async flags, parameter list,
// and body, each in their own scopes per the teacher's state.go
// inFunction/inGenerator/inAsync/treatFunctionsAsVar fields.
func (p *Parser) parseFunction(node *ast.Node, flags functionFlags) *ast.Node {
	node.Generator = p.eat(token.Star)
	node.Async = flags.isAsync

	if !flags.isExpression {
		kind := scope.BindFunction
		if p.cur() == token.Name {
			node.ID = p.parseIdent(false)
			p.checkLValSimple(node.ID, kind, nil)
		}
	} else if p.cur() == token.Name {
		node.ID = p.parseIdent(true)
	}

	oldStrict := p.strict
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	p.scopes.Enter(scopeFnFlags(node.Async, node.Generator))
	p.expect(token.ParenL)
	node.Params = p.parseBindingList(token.ParenR, false, p.cfg.EcmaVersion >= 8)
	p.checkYieldAwaitInDefaultParams()
	p.parseFunctionParamsBindings(node.Params)
	node.FuncBody = p.parseFunctionBody(false)
	p.scopes.Exit()
	p.strict = oldStrict
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos

	t := ast.FunctionDeclaration
	if flags.isExpression {
		t = ast.FunctionExpression
	}
	return p.finishNode(node, t)
}

// parseClass parses a ClassDeclaration or ClassExpression (spec §4.7):
// an optional name, optional `extends` superclass, and a class body of
// methods/fields/static blocks.
func (p *Parser) parseClass(node *ast.Node, isStatement bool) *ast.Node {
	p.next()
	oldStrict := p.strict
	p.strict = true

	if p.cur() == token.Name {
		node.ID = p.parseIdent(false)
		if isStatement {
			p.checkLValSimple(node.ID, scope.BindLexical, nil)
		}
	} else if isStatement {
		p.unexpected()
	}

	if p.eat(token.Extends) {
		node.SuperClass = p.parseExprSubscripts(nil)
	} else {
		node.SuperClass = nil
	}

	body := p.startNode()
	p.expect(token.BraceL)
	hasConstructor := false
	for p.cur() != token.BraceR {
		if p.eat(token.Semi) {
			continue
		}
		elem := p.parseClassElement(node.SuperClass != nil)
		body.Body = append(body.Body, elem)
		if elem.Kind == "constructor" {
			if hasConstructor {
				p.raise(elem.Start, "Duplicate constructor in the same class")
			}
			hasConstructor = true
		}
	}
	p.next()
	node.FuncBody = p.finishNode(body, ast.ClassBody)
	p.strict = oldStrict

	t := ast.ClassDeclaration
	if !isStatement {
		t = ast.ClassExpression
	}
	return p.finishNode(node, t)
}

func (p *Parser) parseClassElement(hasSuperclass bool) *ast.Node {
	if p.eat(token.Semi) {
		return nil
	}
	node := p.startNode()
	node.Static = false
	if p.isContextual("static") {
		checkpoint := p.start()
		p.next()
		if p.isStaticBlockStart() {
			return p.parseClassStaticBlock(node)
		}
		if p.canBeStaticMember() {
			node.Static = true
		} else {
			node.Key = p.idNodeAt(checkpoint, "static")
		}
	}
	if node.Key == nil {
		var generator, async bool
		startPos := p.start()
		if p.eatIfContextualMethodModifier("async") {
			async = true
		}
		generator = p.eat(token.Star)
		if p.isContextual("get") || p.isContextual("set") {
			kind := p.curVal().(string)
			p.next()
			if p.cur() != token.ParenL && p.cur() != token.Eq && p.cur() != token.Semi && p.cur() != token.BraceR {
				node.Kind = kind
				p.parseClassElementNameInto(node)
				node.PropValue = p.parseMethod(functionFlags{isMethod: true, allowSuper: true})
				checkGetterSetterParams(p, node)
				return p.finishNode(node, ast.MethodDefinition)
			}
			// "get"/"set" was the member's actual name, not a getter/
			// setter marker (e.g. `get() {}`, `get = 1`).
			node.Key = p.idNodeAt(startPos, kind)
			node.Computed = false
			if p.cur() == token.ParenL || generator || async {
				node.Kind = "method"
				node.PropValue = p.parseMethod(functionFlags{isAsync: async, isGenerator: generator, isMethod: true, allowSuper: true})
				return p.finishNode(node, ast.MethodDefinition)
			}
		}
		if node.Key == nil {
			isPrivate := p.cur() == token.PrivateID
			p.parseClassElementNameInto(node)
			if p.cur() == token.ParenL || generator || async {
				node.Kind = "method"
				if !isPrivate && !node.Computed && node.Key.Type == ast.Identifier && node.Key.Name == "constructor" && !node.Static {
					node.Kind = "constructor"
				}
				node.PropValue = p.parseMethod(functionFlags{isAsync: async, isGenerator: generator, isMethod: true, allowSuper: true, allowDirectSuper: node.Kind == "constructor" && hasSuperclass})
				return p.finishNode(node, ast.MethodDefinition)
			}
		}
	}
	// field definition
	if p.eat(token.Eq) {
		p.scopes.Enter(scope.ClassStaticBlock)
		node.PropValue = p.parseMaybeAssign(false, nil, nil)
		p.scopes.Exit()
	} else {
		node.PropValue = nil
	}
	p.semicolon()
	return p.finishNode(node, ast.PropertyDefinition)
}

func (p *Parser) eatIfContextualMethodModifier(name string) bool {
	if p.isContextual(name) && !p.lineBreakBeforeCurrent() {
		p.next()
		return true
	}
	return false
}

func (p *Parser) canBeStaticMember() bool {
	return p.cur() != token.ParenL && p.cur() != token.Eq && p.cur() != token.Semi && p.cur() != token.BraceR && p.cur() != token.Comma
}

func (p *Parser) isStaticBlockStart() bool {
	return p.cur() == token.BraceL
}

func (p *Parser) parseClassStaticBlock(node *ast.Node) *ast.Node {
	p.scopes.Enter(scope.ClassStaticBlock)
	oldLabels := []labelInfo{}
	body := p.startNode()
	p.expect(token.BraceL)
	for p.cur() != token.BraceR {
		body.Body = append(body.Body, p.parseStatement(true, false, &oldLabels))
	}
	p.next()
	node.FuncBody = p.finishNode(body, ast.BlockStatement)
	p.scopes.Exit()
	return p.finishNode(node, ast.StaticBlock)
}

func (p *Parser) parseClassElementNameInto(node *ast.Node) {
	if p.cur() == token.PrivateID {
		node.Key = p.parsePrivateIdent()
		node.Computed = false
		return
	}
	node.Computed = p.parsePropertyKeyInto(node)
}

func (p *Parser) idNodeAt(start int, name string) *ast.Node {
	n := p.startNodeAt(start)
	n.Name = name
	return p.finishNodeAt(n, ast.Identifier, start+len(name))
}

// ---- modules ----

func (p *Parser) parseModuleDeclaration(node *ast.Node, kw token.Type) *ast.Node {
	p.next()
	if kw == token.Import {
		if p.cur() == token.String {
			node.Specifiers = nil
			node.Source = p.parseLiteralExpr()
			p.semicolon()
			return p.finishNode(node, ast.ImportDeclaration)
		}
		node.Specifiers = p.parseImportSpecifiers()
		p.expectContextual("from")
		node.Source = p.parseLiteralExpr()
		p.semicolon()
		return p.finishNode(node, ast.ImportDeclaration)
	}

	if p.eat(token.Star) {
		p.expectContextual("as")
		node.Exported = p.parseIdent(true)
		p.expectContextual("from")
		node.Source = p.parseLiteralExpr()
		p.semicolon()
		return p.finishNode(node, ast.ExportAllDeclaration)
	}
	if p.eat(token.Default) {
		var decl *ast.Node
		if p.cur() == token.Function || p.isAsyncFunction() {
			isAsync := p.isAsyncFunction()
			if isAsync {
				p.next()
			}
			fn := p.startNode()
			p.next()
			decl = p.parseFunction(fn, functionFlags{isAsync: isAsync})
		} else if p.cur() == token.Class {
			decl = p.parseClass(p.startNode(), true)
		} else {
			decl = p.parseMaybeAssign(false, nil, nil)
			p.semicolon()
		}
		node.Declaration = decl
		return p.finishNode(node, ast.ExportDefaultDeclaration)
	}
	if p.shouldParseExportStatement() {
		node.Declaration = p.parseStatement(true, true, nil)
		node.Specifiers = nil
		node.Source = nil
		return p.finishNode(node, ast.ExportNamedDeclaration)
	}
	node.Specifiers = p.parseExportSpecifiers()
	if p.eatContextual("from") {
		node.Source = p.parseLiteralExpr()
	} else {
		for _, spec := range node.Specifiers {
			name := spec.Exported.Name
			if p.exports[name] {
				p.raise(spec.Start, "Duplicate export '"+name+"'")
			}
			p.exports[name] = true
			if spec.Local.Type == ast.Identifier {
				p.checkLocalExport(spec.Local)
			}
		}
		node.Source = nil
	}
	p.semicolon()
	node.Declaration = nil
	return p.finishNode(node, ast.ExportNamedDeclaration)
}

// checkLocalExport records id's name as a pending undefined export if
// it is not yet bound anywhere in the top-level scope. A later
// declaration of the same name (including one that was merely hoisted
// above this export, like a function declaration) resolves it; see
// checkUndefinedExports, which re-checks every pending name once the
// whole program has been parsed rather than clearing entries as
// declarations stream by.
func (p *Parser) checkLocalExport(id *ast.Node) {
	top := p.scopes.TopScope()
	if !top.Lexical[id.Name] && !top.Var[id.Name] && !top.Functions[id.Name] {
		p.undefinedExports[id.Name] = id.Start
	}
}

// checkUndefinedExports raises spec §4's "Export 'x' is not defined"
// for every name checkLocalExport flagged that is still unbound once
// the program is fully parsed.
func (p *Parser) checkUndefinedExports() {
	if !p.inModule {
		return
	}
	top := p.scopes.TopScope()
	for name, pos := range p.undefinedExports {
		if top.Lexical[name] || top.Var[name] || top.Functions[name] {
			continue
		}
		p.recoverable(pos, "Export '"+name+"' is not defined")
	}
}

func (p *Parser) shouldParseExportStatement() bool {
	switch p.cur() {
	case token.Var, token.Const, token.Class, token.Function:
		return true
	}
	if p.isLet(true) {
		return true
	}
	if p.isAsyncFunction() {
		return true
	}
	return false
}

func (p *Parser) parseLiteralExpr() *ast.Node {
	node := p.startNode()
	node.Value = p.lex.Value
	node.Raw = p.buf.Slice(node.Start, p.end())
	p.expect(token.String)
	return p.finishNode(node, ast.Literal)
}

func (p *Parser) parseImportSpecifiers() []*ast.Node {
	var specs []*ast.Node
	first := true
	if p.cur() == token.Name {
		node := p.startNode()
		node.Local = p.parseIdent(false)
		p.checkLValSimple(node.Local, scope.BindLexical, nil)
		specs = append(specs, p.finishNode(node, ast.ImportDefaultSpecifier))
		if !p.eat(token.Comma) {
			return specs
		}
		first = false
	}
	if p.cur() == token.Star {
		node := p.startNode()
		p.next()
		p.expectContextual("as")
		node.Local = p.parseIdent(false)
		p.checkLValSimple(node.Local, scope.BindLexical, nil)
		specs = append(specs, p.finishNode(node, ast.ImportNamespaceSpecifier))
		return specs
	}
	p.expect(token.BraceL)
	for !p.eat(token.BraceR) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.BraceR) {
				break
			}
		}
		first = false
		node := p.startNode()
		node.Imported = p.parseModuleExportName()
		if p.eatContextual("as") {
			node.Local = p.parseIdent(false)
		} else {
			node.Local = node.Imported
		}
		p.checkLValSimple(node.Local, scope.BindLexical, nil)
		specs = append(specs, p.finishNode(node, ast.ImportSpecifier))
	}
	return specs
}

func (p *Parser) parseExportSpecifiers() []*ast.Node {
	var specs []*ast.Node
	p.expect(token.BraceL)
	first := true
	for !p.eat(token.BraceR) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.BraceR) {
				break
			}
		}
		first = false
		node := p.startNode()
		node.Local = p.parseModuleExportName()
		if p.eatContextual("as") {
			node.Exported = p.parseModuleExportName()
		} else {
			node.Exported = node.Local
		}
		specs = append(specs, p.finishNode(node, ast.ExportSpecifier))
	}
	return specs
}

func (p *Parser) parseModuleExportName() *ast.Node {
	if p.cur() == token.String {
		return p.parseLiteralExpr()
	}
	return p.parseIdentName()
}
