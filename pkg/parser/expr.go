package parser

import (
	"math/big"

	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/scope"
	"github.com/kindy/goacorn/pkg/token"
)

// parseExpression parses the comma-separated SequenceExpression
// production at the top of the expression grammar (spec §4.4).
func (p *Parser) parseExpression(noIn bool) *ast.Node {
	start := p.start()
	expr := p.parseMaybeAssign(noIn, nil, nil)
	if p.cur() == token.Comma {
		node := p.startNodeAt(start)
		node.Expressions = []*ast.Node{expr}
		for p.eat(token.Comma) {
			node.Expressions = append(node.Expressions, p.parseMaybeAssign(noIn, nil, nil))
		}
		return p.finishNode(node, ast.SequenceExpression)
	}
	return expr
}

// parseMaybeAssign is the cover-grammar hinge of spec §4.5: it parses a
// conditional expression and, if an assignment operator follows,
// converts the left side into an assignment target via toAssignable.
// afterLeftParse lets callers (arrow-parameter detection) intercept the
// parsed left side before the `=`/assignment-operator check.
func (p *Parser) parseMaybeAssign(noIn bool, refDestructuringErrors *DestructuringErrors, afterLeftParse func(*Parser, *ast.Node, int) *ast.Node) *ast.Node {
	if p.isContextual("yield") && p.scopes.InGenerator() {
		return p.parseYield(noIn)
	}
	ownErrors := refDestructuringErrors == nil
	var d *DestructuringErrors
	if ownErrors {
		d = newDestructuringErrors()
	} else {
		d = refDestructuringErrors
	}
	startPos := p.start()

	if p.cur() == token.ParenL || p.cur() == token.Name {
		p.potentialArrowAt = p.start()
		p.potentialArrowInForAwait = noIn
	}
	left := p.parseMaybeConditional(noIn, d)
	if afterLeftParse != nil {
		left = afterLeftParse(p, left, startPos)
	}
	if p.cur().Of().IsAssign {
		node := p.startNodeAt(startPos)
		op := p.lex.Value.(string)
		node.Operator = op
		if p.cur() == token.Eq {
			left = p.toAssignable(left, false, d)
		} else {
			p.checkLValSimple(left, scope.BindNone, nil)
		}
		node.Left = left
		d.ShorthandAssign = -1
		d.TrailingComma = -1
		d.ParenthesizedAssign = -1
		d.ParenthesizedBind = -1
		d.DoubleProto = -1
		p.next()
		node.Right = p.parseMaybeAssign(noIn, nil, nil)
		return p.finishNode(node, ast.AssignmentExpression)
	} else if ownErrors {
		p.checkExpressionErrors(d, true)
	}
	return left
}

func (p *Parser) parseMaybeConditional(noIn bool, d *DestructuringErrors) *ast.Node {
	startPos := p.start()
	expr := p.parseExprOps(noIn, d)
	if p.checkExpressionErrors(d, false) {
		return expr
	}
	if p.cur() == token.Question {
		node := p.startNodeAt(startPos)
		p.next()
		node.Test = expr
		node.Consequent = p.parseMaybeAssign(false, nil, nil)
		p.expect(token.Colon)
		node.Alternate = p.parseMaybeAssign(noIn, nil, nil)
		return p.finishNode(node, ast.ConditionalExpression)
	}
	return expr
}

func (p *Parser) parseExprOps(noIn bool, d *DestructuringErrors) *ast.Node {
	startPos := p.start()
	expr := p.parseMaybeUnary(d, false)
	if p.checkExpressionErrors(d, false) {
		return expr
	}
	return p.parseExprOp(expr, startPos, -1, noIn)
}

// parseExprOp implements binary/logical-operator precedence climbing
// (spec §4.4's "Operator-precedence climbing"), with `**` handled
// right-associatively and `??` forbidden from mixing with `||`/`&&`
// without parentheses.
func (p *Parser) parseExprOp(left *ast.Node, leftStart int, minPrec int, noIn bool) *ast.Node {
	if noIn && p.cur() == token.In {
		return left
	}
	info := p.cur().Of()
	prec := info.BinOp
	if p.cur() == token.StarStar {
		prec = token.PrecMultiplicative + 1
	}
	// `??` binds its right operand at `&&`'s level but only continues an
	// expression at `||`'s level, so `a || b ?? c` reaches the mixing check.
	bindPrec := prec
	if p.cur() == token.Coalesce {
		bindPrec = token.LogicalOR.Of().BinOp
	}
	if prec > 0 && bindPrec > minPrec {
		op := p.tokenOperatorString()
		logical := p.cur() == token.LogicalOR || p.cur() == token.LogicalAND
		coalesce := p.cur() == token.Coalesce
		p.next()
		startPos := p.start()
		right := p.parseMaybeUnary(nil, false)
		nextMin := prec
		if p.cur() == token.StarStar {
			nextMin = prec - 1
		}
		right = p.parseExprOp(right, startPos, nextMin, noIn)
		node := p.startNodeAt(leftStart)
		node.Left = left
		node.Right = right
		node.Operator = op
		t := ast.BinaryExpression
		if logical || coalesce {
			t = ast.LogicalExpression
		}
		finished := p.finishNode(node, t)
		if (logical && p.cur() == token.Coalesce) ||
			(coalesce && (p.cur() == token.LogicalOR || p.cur() == token.LogicalAND)) {
			p.recoverable(p.start(), "Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
		}
		return p.parseExprOp(finished, leftStart, minPrec, noIn)
	}
	return left
}

func (p *Parser) tokenOperatorString() string {
	switch v := p.lex.Value.(type) {
	case string:
		return v
	}
	return p.cur().Of().Label
}

// parseMaybeUnary covers prefix unary operators, `await`, and the
// `**` left-operand restriction (a unary expression may not be the
// base of `**` without parentheses).
func (p *Parser) parseMaybeUnary(d *DestructuringErrors, sawUnary bool) *ast.Node {
	startPos := p.start()
	if p.isContextual("await") && p.canAwait() {
		return p.parseAwait()
	}
	if p.cur().Of().Prefix {
		node := p.startNode()
		update := p.cur() == token.IncDec
		node.Operator = p.tokenOperatorString()
		node.Prefix = true
		isDelete := p.cur() == token.Delete
		p.next()
		node.Argument = p.parseMaybeUnary(nil, true)
		p.checkExpressionErrors(d, true)
		if isDelete && p.strict && node.Argument.Type == ast.Identifier {
			p.recoverable(node.Start, "Deleting local variable in strict mode")
		}
		if !update && p.cur() == token.StarStar {
			p.unexpected()
		}
		if update {
			p.checkLValSimple(node.Argument, scope.BindNone, nil)
			return p.finishNode(node, ast.UpdateExpression)
		}
		return p.finishNode(node, ast.UnaryExpression)
	}
	if !sawUnary && p.cur() == token.IncDec {
		node := p.startNode()
		node.Operator = p.tokenOperatorString()
		node.Prefix = true
		p.next()
		node.Argument = p.parseMaybeUnary(nil, true)
		p.checkLValSimple(node.Argument, scope.BindNone, nil)
		return p.finishNode(node, ast.UpdateExpression)
	}
	expr := p.parseExprSubscripts(d)
	if p.checkExpressionErrors(d, false) {
		return expr
	}
	for p.cur() == token.IncDec && !p.canInsertSemicolon() {
		node := p.startNodeAt(startPos)
		node.Operator = p.tokenOperatorString()
		node.Prefix = false
		node.Argument = expr
		p.checkLValSimple(expr, scope.BindNone, nil)
		p.next()
		expr = p.finishNode(node, ast.UpdateExpression)
	}
	return expr
}

// canAwait mirrors real acorn's canAwait: inside a function, `await`
// is only the keyword if that function is async; class static blocks
// and field initializers never allow it; otherwise it's allowed at
// module top level from ecmaVersion 13 on, or when the caller opted
// into AllowAwaitOutsideFunction.
func (p *Parser) canAwait() bool {
	if p.scopes.InClassStaticBlock() {
		return false
	}
	if p.scopes.InFunction() {
		return p.scopes.InAsync()
	}
	return (p.inModule && p.cfg.EcmaVersion >= 13) || p.cfg.AllowAwaitOutsideFunction
}

func (p *Parser) parseAwait() *ast.Node {
	if p.awaitPos == 0 {
		p.awaitPos = p.start()
	}
	node := p.startNode()
	p.next()
	node.Argument = p.parseMaybeUnary(nil, true)
	return p.finishNode(node, ast.AwaitExpression)
}

func (p *Parser) parseYield(noIn bool) *ast.Node {
	if p.yieldPos == 0 {
		p.yieldPos = p.start()
	}
	node := p.startNode()
	p.next()
	if p.cur() == token.Semi || p.canInsertSemicolon() ||
		(p.cur() != token.Star && !p.cur().Of().StartsExpr) {
		node.Delegate = false
		node.Argument = nil
	} else {
		node.Delegate = p.eat(token.Star)
		node.Argument = p.parseMaybeAssign(noIn, nil, nil)
	}
	return p.finishNode(node, ast.YieldExpression)
}

// parseExprSubscripts parses MemberExpression/CallExpression chains,
// wrapping the result in a ChainExpression if any link used `?.`
// (spec §4.4's optional-chaining rule).
func (p *Parser) parseExprSubscripts(d *DestructuringErrors) *ast.Node {
	startPos := p.start()
	expr := p.parseExprAtom(d)
	if expr.Type == ast.ArrowFunctionExpression {
		return expr
	}
	return p.parseSubscripts(expr, startPos, false)
}

func (p *Parser) parseSubscripts(base *ast.Node, startPos int, noCalls bool) *ast.Node {
	maybeAsyncArrow := base.Type == ast.Identifier && base.Name == "async" && p.lastEnd() == base.End && !p.canInsertSemicolon()
	sawOptional := false
	expr := base
	for {
		optional := false
		if p.eat(token.QuestionDot) {
			optional = true
			sawOptional = true
		}
		if (!optional && p.cur() == token.Dot) || (optional && p.cur() != token.BracketL && p.cur() != token.ParenL) {
			node := p.startNodeAt(startPos)
			node.Object = expr
			if !optional {
				p.next()
			}
			node.Computed = false
			node.Optional = optional
			if p.cur() == token.PrivateID {
				node.MemberProperty = p.parsePrivateIdent()
			} else {
				node.MemberProperty = p.parseIdentName()
			}
			expr = p.finishNode(node, ast.MemberExpression)
			continue
		}
		if p.cur() == token.BracketL {
			node := p.startNodeAt(startPos)
			node.Object = expr
			node.Computed = true
			node.Optional = optional
			p.next()
			node.MemberProperty = p.parseExpression(false)
			p.expect(token.BracketR)
			expr = p.finishNode(node, ast.MemberExpression)
			continue
		}
		if !noCalls && p.cur() == token.ParenL {
			if maybeAsyncArrow && !p.canInsertSemicolon() {
				args, trailing := p.parseBindingListForArrow()
				if !trailing {
					arrow := p.startNodeAt(startPos)
					arrow.Async = true
					return p.parseArrowExpression(arrow, args)
				}
			}
			node := p.startNodeAt(startPos)
			node.Callee = expr
			node.Optional = optional
			node.Arguments = p.parseExprList(token.ParenR, p.cfg.EcmaVersion >= 8, false, nil)
			expr = p.finishNode(node, ast.CallExpression)
			continue
		}
		if p.cur() == token.BackQuote {
			node := p.startNodeAt(startPos)
			node.Tag = expr
			node.FuncBody = p.parseTemplate(true)
			expr = p.finishNode(node, ast.TaggedTemplateExpression)
			continue
		}
		break
	}
	if sawOptional {
		wrap := p.startNodeAt(startPos)
		wrap.ChainExpr = expr
		return p.finishNode(wrap, ast.ChainExpression)
	}
	return expr
}

// parseBindingListForArrow speculatively parses "(" possibleParams ")"
// for the `async (` maybe-arrow case, reporting whether a trailing
// comma or some other shape disqualifies it as an arrow params list.
// It is a best-effort lookahead: real backtracking in a hand-written
// recursive-descent parser over a forward-only token stream is done,
// the way the teacher does it, by re-entering parseExprList and
// converting its results with toAssignable rather than a true
// save/restore of lexer state.
func (p *Parser) parseBindingListForArrow() ([]*ast.Node, bool) {
	d := newDestructuringErrors()
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	params := p.parseExprList(token.ParenR, true, false, d)
	if !p.eat(token.Arrow) {
		p.yieldPos = firstNonZero(oldYieldPos, p.yieldPos)
		p.awaitPos = firstNonZero(oldAwaitPos, p.awaitPos)
		p.awaitIdentPos = firstNonZero(oldAwaitIdentPos, p.awaitIdentPos)
		return nil, true
	}
	p.checkPatternErrors(d, true)
	p.checkYieldAwaitInDefaultParams()
	if p.awaitIdentPos != 0 {
		p.raise(p.awaitIdentPos, "Cannot use 'await' as identifier inside an async function")
	}
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	for i, param := range params {
		params[i] = p.toAssignable(param, false, d)
	}
	return params, false
}

// parseExprAtom covers the Primary/ExpressionAtom productions: this,
// super, identifiers, literals, arrays, objects, functions, classes,
// templates, parenthesized/arrow cover grammar, and `new`.
func (p *Parser) parseExprAtom(d *DestructuringErrors) *ast.Node {
	canBeArrow := p.potentialArrowAt == p.start()
	switch p.cur() {
	case token.Super:
		if !p.scopes.AllowSuper() {
			p.raise(p.start(), "'super' keyword outside a method")
		}
		node := p.startNode()
		p.next()
		if p.cur() == token.ParenL && !p.scopes.AllowDirectSuper() {
			p.raise(node.Start, "super() call outside constructor of a subclass")
		}
		if p.cur() != token.Dot && p.cur() != token.BracketL && p.cur() != token.ParenL {
			p.unexpected()
		}
		return p.finishNode(node, ast.Super)
	case token.This:
		node := p.startNode()
		p.next()
		return p.finishNode(node, ast.ThisExpression)
	case token.Name:
		start := p.start()
		id := p.parseIdent(false)
		if p.cfg.EcmaVersion >= 8 && id.Name == "async" && !p.canInsertSemicolon() && p.cur() == token.Function {
			p.next()
			return p.parseFunction(p.startNodeAt(start), functionFlags{isAsync: true, isExpression: true})
		}
		if canBeArrow && !p.canInsertSemicolon() {
			if p.cur() == token.Arrow {
				p.next()
				return p.parseArrowExpression(p.startNodeAt(start), []*ast.Node{id})
			}
		}
		return id
	case token.Regexp:
		node := p.startNode()
		rv := p.lex.Value.(*token.RegexValue)
		node.Regex = rv
		node.Value = rv.Host
		node.Raw = p.buf.Slice(node.Start, p.end())
		p.next()
		return p.finishNode(node, ast.Literal)
	case token.Num, token.String:
		node := p.startNode()
		node.Value = p.lex.Value
		node.Raw = p.buf.Slice(node.Start, p.end())
		p.next()
		return p.finishNode(node, ast.Literal)
	case token.BigInt:
		node := p.startNode()
		bi := p.lex.Value.(*big.Int)
		node.BigInt = bi
		node.Value = bi
		node.Raw = p.buf.Slice(node.Start, p.end())
		p.next()
		return p.finishNode(node, ast.Literal)
	case token.Null, token.True, token.False:
		node := p.startNode()
		switch p.cur() {
		case token.Null:
			node.Value = nil
		case token.True:
			node.Value = true
		case token.False:
			node.Value = false
		}
		node.Raw = p.cur().Of().Label
		p.next()
		return p.finishNode(node, ast.Literal)
	case token.ParenL:
		return p.parseParenAndDistinguishExpression(canBeArrow)
	case token.BracketL:
		node := p.startNode()
		p.next()
		node.Elements = p.parseExprList(token.BracketR, true, true, d)
		return p.finishNode(node, ast.ArrayExpression)
	case token.BraceL:
		return p.parseObj(false, d)
	case token.Function:
		node := p.startNode()
		p.next()
		return p.parseFunction(node, functionFlags{isExpression: true})
	case token.Class:
		return p.parseClass(p.startNode(), false)
	case token.New:
		return p.parseNew()
	case token.BackQuote:
		return p.parseTemplate(false)
	case token.Import:
		node := p.startNode()
		p.next()
		if p.cur() == token.Dot {
			p.next()
			node.Meta = p.idNode("import")
			p.expectContextual("meta")
			node.MemberProperty = p.idNode("meta")
			return p.finishNode(node, ast.MetaProperty)
		}
		p.expect(token.ParenL)
		node.Arguments = []*ast.Node{p.parseMaybeAssign(false, nil, nil)}
		if p.eat(token.Comma) && p.cur() != token.ParenR {
			node.Arguments = append(node.Arguments, p.parseMaybeAssign(false, nil, nil))
		}
		p.expect(token.ParenR)
		return p.finishNode(node, ast.ImportExpression)
	case token.PrivateID:
		id := p.parsePrivateIdent()
		if p.cur() != token.In {
			p.unexpected()
		}
		return id
	}
	p.unexpected()
	return nil
}

func (p *Parser) idNode(name string) *ast.Node {
	node := p.startNode()
	node.Name = name
	return p.finishNode(node, ast.Identifier)
}

func (p *Parser) parseIdentName() *ast.Node {
	node := p.startNode()
	if p.cur().Of().Keyword != "" {
		node.Name = p.cur().Of().Keyword
	} else {
		node.Name, _ = p.lex.Value.(string)
	}
	p.next()
	return p.finishNode(node, ast.Identifier)
}

func (p *Parser) parsePrivateIdent() *ast.Node {
	node := p.startNode()
	node.Name, _ = p.lex.Value.(string)
	p.expect(token.PrivateID)
	return p.finishNode(node, ast.PrivateIdentifier)
}

// parseIdent parses a BindingIdentifier/IdentifierReference. A reserved
// word may only stand in for one when liberal is set by the call site
// (the few internal positions, like the "new" in new.target, that
// consume a keyword token as a pseudo-identifier) or when the caller
// set Config.AllowReserved.
func (p *Parser) parseIdent(liberal bool) *ast.Node {
	node := p.startNode()
	if p.cur() == token.Name {
		node.Name, _ = p.lex.Value.(string)
	} else if p.cur().Of().Keyword != "" {
		if !liberal && !p.cfg.AllowReserved {
			p.unexpected()
		}
		node.Name = p.cur().Of().Keyword
	} else {
		p.unexpected()
	}
	p.next()
	id := p.finishNode(node, ast.Identifier)
	if !liberal && id.Name == "await" && p.awaitIdentPos == 0 {
		p.awaitIdentPos = id.Start
	}
	return id
}

func (p *Parser) parseNew() *ast.Node {
	node := p.startNode()
	startID := p.parseIdent(true)
	if p.cfg.EcmaVersion >= 6 && p.eat(token.Dot) {
		node.Meta = startID
		node.MemberProperty = p.parseIdentName()
		if node.MemberProperty.Name != "target" {
			p.recoverable(node.MemberProperty.Start, "The only valid meta property for new is new.target")
		}
		if !p.scopes.InFunction() && !p.scopes.InClassStaticBlock() {
			p.recoverable(node.Start, "new.target can only be used in functions")
		}
		return p.finishNode(node, ast.MetaProperty)
	}
	startPos := node.Start
	node.Callee = p.parseSubscriptsForNew(p.parseExprAtom(nil), startPos)
	if p.cur() == token.ParenL {
		node.Arguments = p.parseExprList(token.ParenR, p.cfg.EcmaVersion >= 8, false, nil)
	} else {
		node.Arguments = nil
	}
	return p.finishNode(node, ast.NewExpression)
}

// parseSubscriptsForNew parses the callee of a `new` expression: member
// access chains only, stopping before a call (the call belongs to `new`
// itself, per the NewExpression grammar).
func (p *Parser) parseSubscriptsForNew(base *ast.Node, startPos int) *ast.Node {
	return p.parseSubscripts(base, startPos, true)
}

// parseTemplate parses a template literal (spec §4.1's cooked/raw
// quasis). Tagged templates tolerate otherwise-invalid escapes by
// letting the lexer emit InvalidTemplate tokens (spec §9's resolution
// of the teacher's thrown-sentinel mechanism: a discriminated token
// type instead of a control-flow exception).
func (p *Parser) parseTemplate(isTagged bool) *ast.Node {
	node := p.startNode()
	p.next()
	node.Expressions = nil
	node.Quasis = []*ast.Node{p.parseTemplateElement(isTagged)}
	for !node.Quasis[len(node.Quasis)-1].Tail {
		p.expect(token.DollarBraceL)
		node.Expressions = append(node.Expressions, p.parseExpression(false))
		p.expect(token.BraceR)
		node.Quasis = append(node.Quasis, p.parseTemplateElement(isTagged))
	}
	p.next()
	return p.finishNode(node, ast.TemplateLiteral)
}

func (p *Parser) parseTemplateElement(isTagged bool) *ast.Node {
	node := p.startNode()
	if p.cur() == token.InvalidTemplate {
		if !isTagged {
			p.raise(node.Start, "Invalid escape sequence in template string")
		}
		tv := p.lex.Value.(*token.TemplateValue)
		node.Cooked = ""
		node.Raw = tv.Raw
	} else {
		tv := p.lex.Value.(*token.TemplateValue)
		node.Cooked = tv.Cooked
		node.Raw = tv.Raw
	}
	p.next()
	node.Tail = p.cur() == token.BackQuote
	return p.finishNode(node, ast.TemplateElement)
}

// parseExprList parses a parenthesized/bracketed comma list, allowing
// holes (for array literals) and a trailing comma when allowTrailingComma
// is set (always for array literals; for call arguments from ES2017 on).
func (p *Parser) parseExprList(close token.Type, allowTrailingComma, allowEmpty bool, d *DestructuringErrors) []*ast.Node {
	var elts []*ast.Node
	first := true
	for !p.eat(close) {
		if !first {
			p.expect(token.Comma)
			if allowTrailingComma && p.afterTrailingComma(close) {
				break
			}
		}
		first = false
		var elt *ast.Node
		if allowEmpty && p.cur() == token.Comma {
			elt = nil
		} else if p.cur() == token.Ellipsis {
			elt = p.parseSpread(d)
		} else {
			elt = p.parseMaybeAssign(false, d, nil)
		}
		elts = append(elts, elt)
	}
	return elts
}

func (p *Parser) parseSpread(d *DestructuringErrors) *ast.Node {
	node := p.startNode()
	p.next()
	node.Argument = p.parseMaybeAssign(false, d, nil)
	return p.finishNode(node, ast.SpreadElement)
}

// parseParenAndDistinguishExpression resolves the cover grammar of
// spec §4.5: "(" ... ")" is either a parenthesized expression or the
// parameter list of an arrow function, distinguished by whether `=>`
// follows the closing paren.
func (p *Parser) parseParenAndDistinguishExpression(canBeArrow bool) *ast.Node {
	startPos := p.start()
	p.next()
	d := newDestructuringErrors()
	firstStart := p.start()
	var exprList []*ast.Node
	spreadStart := -1
	first := true

	oldYieldPos, oldAwaitPos := p.yieldPos, p.awaitPos
	p.yieldPos, p.awaitPos = 0, 0

	for p.cur() != token.ParenR {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(token.ParenR) {
				spreadStart = -2 // marker: trailing comma seen (and `)` consumed); only valid as arrow params
				break
			}
		} else {
			first = false
		}
		if p.cur() == token.Ellipsis {
			spreadStart = p.start()
			exprList = append(exprList, p.parseParenItem(p.parseRestBinding()))
			if p.cur() == token.Comma {
				p.raise(p.start(), "Comma is not permitted after the rest element")
			}
			break
		}
		exprList = append(exprList, p.parseMaybeAssign(false, d, p.parseParenItemHook))
	}
	lastEnd := p.end()
	if spreadStart == -2 {
		lastEnd = p.lastEnd()
	} else {
		p.expect(token.ParenR)
	}

	if canBeArrow && !p.canInsertSemicolon() && p.eat(token.Arrow) {
		p.checkPatternErrors(d, false)
		p.checkYieldAwaitInDefaultParams()
		p.yieldPos, p.awaitPos = oldYieldPos, oldAwaitPos
		for i, e := range exprList {
			exprList[i] = p.toAssignable(e, false, d)
		}
		return p.parseArrowExpression(p.startNodeAt(startPos), exprList)
	}
	if spreadStart >= 0 {
		p.unexpected()
	}
	if len(exprList) == 0 {
		p.unexpected()
	}
	if spreadStart == -2 {
		p.unexpected()
	}
	p.checkExpressionErrors(d, true)
	p.yieldPos = firstNonZero(oldYieldPos, p.yieldPos)
	p.awaitPos = firstNonZero(oldAwaitPos, p.awaitPos)
	var val *ast.Node
	if len(exprList) > 1 {
		seq := p.startNodeAt(firstStart)
		seq.Expressions = exprList
		val = p.finishNodeAt(seq, ast.SequenceExpression, lastEnd)
	} else {
		val = exprList[0]
	}
	if p.cfg.PreserveParens {
		paren := p.startNodeAt(startPos)
		paren.Argument = val
		return p.finishNodeAt(paren, ast.ParenthesizedExpression, lastEnd)
	}
	return val
}

func (p *Parser) parseParenItemHook(pp *Parser, node *ast.Node, startPos int) *ast.Node {
	return node
}

func (p *Parser) parseParenItem(item *ast.Node) *ast.Node { return item }

func (p *Parser) parseRestBinding() *ast.Node {
	node := p.startNode()
	p.next()
	node.Argument = p.parseBindingAtom()
	return p.finishNode(node, ast.RestElement)
}

// parseBindingAtom parses a BindingIdentifier or destructuring pattern
// target: plain identifier, array pattern, or object pattern.
func (p *Parser) parseBindingAtom() *ast.Node {
	switch p.cur() {
	case token.BracketL:
		node := p.startNode()
		p.next()
		node.Elements = p.parseBindingList(token.BracketR, true, true)
		return p.finishNode(node, ast.ArrayPattern)
	case token.BraceL:
		return p.parseObj(true, nil)
	}
	return p.parseIdent(false)
}

func (p *Parser) parseBindingList(close token.Type, allowEmpty, allowTrailingComma bool) []*ast.Node {
	var elts []*ast.Node
	first := true
	for !p.eat(close) {
		if !first {
			p.expect(token.Comma)
		}
		first = false
		if allowEmpty && p.cur() == token.Comma {
			elts = append(elts, nil)
			continue
		}
		if allowTrailingComma && p.afterTrailingComma(close) {
			break
		}
		if p.cur() == token.Ellipsis {
			rest := p.parseRestBinding()
			p.parseBindingListItem(rest)
			elts = append(elts, rest)
			if p.cur() == token.Comma {
				p.raise(p.start(), "Comma is not permitted after the rest element")
			}
			p.expect(close)
			break
		}
		elts = append(elts, p.parseMaybeDefault(p.start(), p.parseBindingAtom()))
	}
	return elts
}

func (p *Parser) parseBindingListItem(n *ast.Node) *ast.Node { return n }

func (p *Parser) parseMaybeDefault(startPos int, left *ast.Node) *ast.Node {
	if !p.eat(token.Eq) {
		return left
	}
	node := p.startNodeAt(startPos)
	node.Left = left
	node.Right = p.parseMaybeAssign(false, nil, nil)
	return p.finishNode(node, ast.AssignmentPattern)
}

// parseArrowExpression finishes an arrow function once its parameter
// list (already parsed as a cover-grammar expression list and
// converted via toAssignable) and the `=>` are consumed.
func (p *Parser) parseArrowExpression(node *ast.Node, params []*ast.Node) *ast.Node {
	oldStrict := p.strict
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	p.scopes.Enter(scopeFnFlags(node.Async, false) | scopeArrow())
	node.Params = p.toAssignableParams(params)
	p.parseFunctionParamsBindings(node.Params)
	node.Generator = false
	p.parseFunctionBodyArrow(node)
	p.scopes.Exit()
	p.strict = oldStrict
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	return p.finishNode(node, ast.ArrowFunctionExpression)
}

func (p *Parser) toAssignableParams(params []*ast.Node) []*ast.Node {
	for i, pr := range params {
		params[i] = p.toAssignable(pr, true, nil)
	}
	return params
}

func (p *Parser) parseFunctionBodyArrow(node *ast.Node) {
	isExpression := p.cur() != token.BraceL
	node.Expression = isExpression
	if isExpression {
		node.FuncBody = p.parseMaybeAssign(false, nil, nil)
	} else {
		node.FuncBody = p.parseFunctionBody(true)
	}
}

// parseObj parses an object literal or, when isPattern is true, an
// object destructuring pattern (spec §4.5's cover grammar for object
// literals: a shorthand property like `{x}` is ambiguous between a
// literal and a pattern until assignment context resolves it).
func (p *Parser) parseObj(isPattern bool, d *DestructuringErrors) *ast.Node {
	node := p.startNode()
	first := true
	propHash := map[string]bool{}
	p.next()
	close := token.BraceR
	if isPattern {
		node.Type = ast.ObjectPattern
	}
	for !p.eat(close) {
		if !first {
			p.expect(token.Comma)
			if p.afterTrailingComma(close) {
				break
			}
		}
		first = false
		if p.cur() == token.Ellipsis {
			prop := p.parseSpread(d)
			if isPattern {
				prop.Type = ast.RestElement
			}
			node.Properties = append(node.Properties, prop)
			if p.cur() == token.Comma && isPattern {
				p.raise(p.start(), "Comma is not permitted after the rest element")
			}
			continue
		}
		node.Properties = append(node.Properties, p.parseProperty(isPattern, d, propHash))
	}
	if isPattern {
		return p.finishNode(node, ast.ObjectPattern)
	}
	return p.finishNode(node, ast.ObjectExpression)
}

func (p *Parser) parseProperty(isPattern bool, d *DestructuringErrors, propHash map[string]bool) *ast.Node {
	node := p.startNode()
	if p.cfg.EcmaVersion >= 9 && p.cur() == token.Ellipsis {
		return p.parseSpread(d)
	}
	var generator, async bool
	if p.cfg.EcmaVersion >= 6 {
		node.Method = false
		node.Shorthand = false
		if !isPattern {
			generator = p.eat(token.Star)
		}
	}
	keyStart := p.start()
	if !isPattern && p.cfg.EcmaVersion >= 8 && p.isContextual("async") && !generator {
		async = true
		p.next()
		generator = p.eat(token.Star)
	}
	computed := p.parsePropertyKeyInto(node)
	node.Kind = "init"
	switch {
	case !isPattern && (generator || async || p.cur() == token.ParenL):
		node.Method = true
		node.Kind = "init"
		fn := functionFlags{isAsync: async, isGenerator: generator, isMethod: true}
		node.PropValue = p.parseMethod(fn)
	case !isPattern && !computed && node.Key.Type == ast.Identifier &&
		(node.Key.Name == "get" || node.Key.Name == "set") && p.cur() != token.Comma && p.cur() != token.BraceR && p.cur() != token.Eq:
		node.Kind = node.Key.Name
		computed = p.parsePropertyKeyInto(node)
		node.PropValue = p.parseMethod(functionFlags{isMethod: true})
		checkGetterSetterParams(p, node)
	case p.cur() == token.Colon:
		p.next()
		node.PropValue = p.parseMaybeAssignOrPattern(isPattern, d)
	case p.cfg.EcmaVersion >= 6 && p.cur() == token.ParenL:
		node.Method = true
		node.PropValue = p.parseMethod(functionFlags{isMethod: true})
	case p.cfg.EcmaVersion >= 6 && node.Key.Type == ast.Identifier && !computed &&
		(p.cur() == token.Eq || p.cur() == token.Comma || p.cur() == token.BraceR):
		node.Shorthand = true
		if p.cur() == token.Eq {
			if d != nil {
				if d.ShorthandAssign < 0 {
					d.ShorthandAssign = p.start()
				}
			}
			p.next()
			ap := p.startNodeAt(keyStart)
			ap.Left = node.Key
			ap.Right = p.parseMaybeAssign(false, nil, nil)
			node.PropValue = p.finishNode(ap, ast.AssignmentPattern)
		} else {
			node.PropValue = node.Key
		}
	default:
		p.unexpected()
	}
	node.Computed = computed
	if node.Key != nil && !computed {
		keyName := node.Key.Name
		if node.Key.Type == ast.Literal {
			if s, ok := node.Key.Value.(string); ok {
				keyName = s
			}
		}
		if keyName == "__proto__" && node.Kind == "init" {
			if propHash["proto"] {
				if d != nil && d.DoubleProto < 0 {
					d.DoubleProto = keyStart
				} else {
					p.raise(keyStart, "Redefinition of __proto__ property")
				}
			}
			propHash["proto"] = true
		}
	}
	return p.finishNode(node, ast.Property)
}

func (p *Parser) parseMaybeAssignOrPattern(isPattern bool, d *DestructuringErrors) *ast.Node {
	if isPattern {
		return p.parseMaybeDefault(p.start(), p.parseBindingAtom())
	}
	return p.parseMaybeAssign(false, d, nil)
}

func checkGetterSetterParams(p *Parser, node *ast.Node) {
	fn := node.PropValue
	nparams := len(fn.Params)
	if node.Kind == "get" && nparams != 0 {
		p.raise(fn.Start, "getter should have no params")
	}
	if node.Kind == "set" && nparams != 1 {
		p.raise(fn.Start, "setter should have exactly one param")
	}
	if node.Kind == "set" && nparams == 1 && fn.Params[0].Type == ast.RestElement {
		p.raise(fn.Params[0].Start, "Setter cannot use rest params")
	}
}

// parsePropertyKeyInto fills node.Key from a Literal, Identifier, or
// computed `[expr]` key, returning whether it was computed.
func (p *Parser) parsePropertyKeyInto(node *ast.Node) bool {
	if p.cfg.EcmaVersion >= 6 && p.eat(token.BracketL) {
		node.Key = p.parseMaybeAssign(false, nil, nil)
		p.expect(token.BracketR)
		return true
	}
	switch p.cur() {
	case token.Num, token.String:
		lit := p.startNode()
		lit.Value = p.lex.Value
		lit.Raw = p.buf.Slice(lit.Start, p.end())
		p.next()
		node.Key = p.finishNode(lit, ast.Literal)
	case token.PrivateID:
		node.Key = p.parsePrivateIdent()
	default:
		node.Key = p.parseIdentName()
	}
	return false
}

// parseMethod parses a class/object method's function value: params,
// optional generator/await, and body, inside its own scope.
func (p *Parser) parseMethod(flags functionFlags) *ast.Node {
	node := p.startNode()
	node.Generator = flags.isGenerator
	node.Async = flags.isAsync
	oldStrict := p.strict
	oldYieldPos, oldAwaitPos, oldAwaitIdentPos := p.yieldPos, p.awaitPos, p.awaitIdentPos
	p.yieldPos, p.awaitPos, p.awaitIdentPos = 0, 0, 0
	p.scopes.Enter(scopeFnFlags(flags.isAsync, flags.isGenerator) | scopeMethodFlags(flags))
	p.expect(token.ParenL)
	node.Params = p.parseBindingList(token.ParenR, false, p.cfg.EcmaVersion >= 8)
	p.checkYieldAwaitInDefaultParams()
	p.parseFunctionParamsBindings(node.Params)
	node.FuncBody = p.parseFunctionBody(true)
	p.scopes.Exit()
	p.strict = oldStrict
	p.yieldPos, p.awaitPos, p.awaitIdentPos = oldYieldPos, oldAwaitPos, oldAwaitIdentPos
	return p.finishNodeAsFunction(node, ast.FunctionExpression)
}

func (p *Parser) finishNodeAsFunction(node *ast.Node, t ast.Type) *ast.Node {
	return p.finishNode(node, t)
}

// functionFlags bundles the function-shape facts needed while parsing
// a function's header and body (spec §4.7's function-node construction).
type functionFlags struct {
	isAsync          bool
	isGenerator      bool
	isExpression     bool
	isMethod         bool
	allowDirectSuper bool
	allowSuper       bool
}

func scopeFnFlags(isAsync, isGenerator bool) scope.Flag {
	f := scope.Function
	if isAsync {
		f |= scope.Async
	}
	if isGenerator {
		f |= scope.Generator
	}
	return f
}

func scopeArrow() scope.Flag { return scope.Arrow }

func scopeMethodFlags(f functionFlags) scope.Flag {
	var out scope.Flag
	if f.allowSuper || f.isMethod {
		out |= scope.Super
	}
	if f.allowDirectSuper {
		out |= scope.DirectSuper
	}
	return out
}
