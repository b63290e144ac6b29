package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindy/goacorn/pkg/ast"
	"github.com/kindy/goacorn/pkg/parser"
)

func mustParse(t *testing.T, src string, cfg parser.Config) *ast.Node {
	t.Helper()
	prog, err := parser.Parse(src, cfg)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog
}

func TestParseBasicExpressionStatement(t *testing.T) {
	prog := mustParse(t, "1 + 2;", parser.Config{})
	require.Len(t, prog.Body, 1)
	stmt := prog.Body[0]
	assert.Equal(t, ast.ExpressionStatement, stmt.Type)
	assert.Equal(t, ast.BinaryExpression, stmt.Argument.Type)
	assert.Equal(t, "+", stmt.Argument.Operator)
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	// no semicolons: each line ends where a line break or EOF permits ASI.
	prog := mustParse(t, "a = 1\nb = 2", parser.Config{})
	require.Len(t, prog.Body, 2)
	assert.Equal(t, ast.ExpressionStatement, prog.Body[0].Type)
	assert.Equal(t, ast.ExpressionStatement, prog.Body[1].Type)
}

func TestIllegalNewlineAfterThrowIsRejected(t *testing.T) {
	_, err := parser.Parse("throw\n1;", parser.Config{})
	require.Error(t, err)
}

func TestExponentiationIsRightAssociative(t *testing.T) {
	prog := mustParse(t, "2 ** 3 ** 2;", parser.Config{})
	bin := prog.Body[0].Argument
	require.Equal(t, ast.BinaryExpression, bin.Type)
	assert.Equal(t, "**", bin.Operator)
	// right child should itself be the `3 ** 2` group, not `2 ** 3`.
	require.Equal(t, ast.BinaryExpression, bin.Right.Type)
	assert.Equal(t, float64(3), bin.Right.Left.Value)
}

func TestSlashIsDivisionAfterValue(t *testing.T) {
	prog := mustParse(t, "a / b;", parser.Config{})
	bin := prog.Body[0].Argument
	require.Equal(t, ast.BinaryExpression, bin.Type)
	assert.Equal(t, "/", bin.Operator)
}

func TestSlashIsRegexpAfterOperator(t *testing.T) {
	prog := mustParse(t, "var a = /abc/g;", parser.Config{})
	decl := prog.Body[0].Declarations[0]
	lit := decl.Init.(*ast.Node)
	assert.Equal(t, ast.Literal, lit.Type)
	require.NotNil(t, lit.Regex)
	assert.Equal(t, "abc", lit.Regex.Pattern)
	assert.Equal(t, "g", lit.Regex.Flags)
}

func TestArrowParameterListCoverGrammar(t *testing.T) {
	prog := mustParse(t, "var f = (a, b) => a + b;", parser.Config{EcmaVersion: 2017})
	decl := prog.Body[0].Declarations[0]
	fn := decl.Init.(*ast.Node)
	assert.Equal(t, ast.ArrowFunctionExpression, fn.Type)
	assert.Len(t, fn.Params, 2)
	assert.True(t, fn.Expression)
}

func TestObjectDestructuringPattern(t *testing.T) {
	prog := mustParse(t, "var {a, b: c, ...rest} = obj;", parser.Config{EcmaVersion: 2018})
	decl := prog.Body[0].Declarations[0]
	assert.Equal(t, ast.ObjectPattern, decl.ID.Type)
	require.Len(t, decl.ID.Properties, 3)
	assert.True(t, decl.ID.Properties[0].Shorthand)
	assert.Equal(t, ast.RestElement, decl.ID.Properties[2].Type)
}

func TestDuplicateProtoInObjectPatternIsRejected(t *testing.T) {
	_, err := parser.Parse("var {__proto__: a, __proto__: b} = x;", parser.Config{})
	require.Error(t, err)
}

func TestDuplicateLexicalDeclarationIsRejected(t *testing.T) {
	_, err := parser.Parse("let x; let x;", parser.Config{EcmaVersion: 2015})
	require.Error(t, err)
}

func TestVarInNestedBlockCannotRedeclareOuterLexical(t *testing.T) {
	_, err := parser.Parse("let x; { var x; }", parser.Config{EcmaVersion: 2015})
	require.Error(t, err)
}

func TestWithStatementRejectedInStrictMode(t *testing.T) {
	_, err := parser.Parse(`"use strict"; with (a) { b; }`, parser.Config{})
	require.Error(t, err)
}

func TestWithStatementAllowedInSloppyMode(t *testing.T) {
	prog := mustParse(t, "with (a) { b; }", parser.Config{})
	assert.Equal(t, ast.WithStatement, prog.Body[0].Type)
}

func TestClassBodyMethodsAndFields(t *testing.T) {
	prog := mustParse(t, `class C extends Base {
		x = 1;
		static y = 2;
		constructor() { super(); }
		get z() { return this.x; }
		*gen() { yield 1; }
	}`, parser.Config{EcmaVersion: 2022})
	cls := prog.Body[0]
	assert.Equal(t, ast.ClassDeclaration, cls.Type)
	require.NotNil(t, cls.SuperClass)
	body := cls.FuncBody.Body
	kinds := map[string]int{}
	for _, elem := range body {
		kinds[elem.Kind]++
	}
	assert.Equal(t, 1, kinds["constructor"])
	assert.Equal(t, 1, kinds["get"])
}

func TestForOfAndForInLoops(t *testing.T) {
	prog := mustParse(t, "for (let x of xs) { y(x); } for (let k in obj) { z(k); }", parser.Config{EcmaVersion: 2015})
	require.Len(t, prog.Body, 2)
	assert.Equal(t, ast.ForOfStatement, prog.Body[0].Type)
	assert.Equal(t, ast.ForInStatement, prog.Body[1].Type)
}

func TestLabeledBreakAndContinue(t *testing.T) {
	prog := mustParse(t, "outer: for (;;) { break outer; }", parser.Config{})
	assert.Equal(t, ast.LabeledStatement, prog.Body[0].Type)
	loop := prog.Body[0].Body[0]
	assert.Equal(t, ast.ForStatement, loop.Type)
}

func TestDuplicateLabelIsRejected(t *testing.T) {
	_, err := parser.Parse("a: { a: { 1; } }", parser.Config{})
	require.Error(t, err)
}

func TestTryCatchFinally(t *testing.T) {
	prog := mustParse(t, "try { f(); } catch (e) { g(e); } finally { h(); }", parser.Config{})
	st := prog.Body[0]
	assert.Equal(t, ast.TryStatement, st.Type)
	require.NotNil(t, st.Handler)
	require.NotNil(t, st.Finalizer)
}

func TestTryWithoutCatchOrFinallyIsRejected(t *testing.T) {
	_, err := parser.Parse("try { f(); }", parser.Config{})
	require.Error(t, err)
}

func TestModuleImportExport(t *testing.T) {
	prog := mustParse(t, `import {a, b as c} from "mod"; export default function f() {}`, parser.Config{
		SourceType: "module", EcmaVersion: 2015,
	})
	require.Len(t, prog.Body, 2)
	assert.Equal(t, ast.ImportDeclaration, prog.Body[0].Type)
	assert.Equal(t, ast.ExportDefaultDeclaration, prog.Body[1].Type)
}

func TestDuplicateNamedExportIsRejected(t *testing.T) {
	_, err := parser.Parse(`const a = 1, b = 2; export {a, b as a};`, parser.Config{SourceType: "module", EcmaVersion: 2015})
	require.Error(t, err)
}

func TestUseStrictDirectiveIsRecorded(t *testing.T) {
	prog := mustParse(t, `"use strict"; var x = 1;`, parser.Config{})
	assert.Equal(t, "use strict", prog.Body[0].Directive)
}

func TestUseStrictDirectiveTakesEffectWithinSameArrowBody(t *testing.T) {
	_, err := parser.Parse(`var f = () => { "use strict"; with (a) { b; } };`, parser.Config{})
	require.Error(t, err)
}

func TestUseStrictDirectiveDoesNotLeakOutOfArrowBody(t *testing.T) {
	prog := mustParse(t, `var f = () => { "use strict"; };
with (a) { b; }`, parser.Config{})
	assert.Equal(t, ast.WithStatement, prog.Body[1].Type)
}

func TestParseExpressionAt(t *testing.T) {
	expr, err := parser.ParseExpressionAt("var x = 1; y + z;", 11, parser.Config{})
	require.NoError(t, err)
	assert.Equal(t, ast.BinaryExpression, expr.Type)
	assert.Equal(t, "+", expr.Operator)
}

func TestTemplateLiteralWithSubstitutions(t *testing.T) {
	prog := mustParse(t, "var s = `a${b}c`;", parser.Config{EcmaVersion: 2015})
	tpl := prog.Body[0].Declarations[0].Init.(*ast.Node)
	assert.Equal(t, ast.TemplateLiteral, tpl.Type)
	require.Len(t, tpl.Quasis, 2)
	require.Len(t, tpl.Expressions, 1)
}

func TestOptionalChainingProducesChainExpression(t *testing.T) {
	prog := mustParse(t, "a?.b.c;", parser.Config{EcmaVersion: 2020})
	assert.Equal(t, ast.ChainExpression, prog.Body[0].Argument.Type)
}

func TestCoalesceCannotMixWithLogicalWithoutParens(t *testing.T) {
	_, err := parser.Parse("a ?? b || c;", parser.Config{EcmaVersion: 2020})
	require.Error(t, err)

	_, err = parser.Parse("a || b ?? c;", parser.Config{EcmaVersion: 2020})
	require.Error(t, err)

	_, err = parser.Parse("a ?? b && c;", parser.Config{EcmaVersion: 2020})
	require.Error(t, err)

	prog := mustParse(t, "(a || b) ?? c;", parser.Config{EcmaVersion: 2020})
	require.Len(t, prog.Body, 1)
	assert.Equal(t, ast.LogicalExpression, prog.Body[0].Argument.Type)
	assert.Equal(t, "??", prog.Body[0].Argument.Operator)
}

func TestReturnOutsideFunctionIsRejected(t *testing.T) {
	_, err := parser.Parse("return 1;", parser.Config{})
	require.Error(t, err)
}

func TestReturnOutsideFunctionAllowedWithOption(t *testing.T) {
	prog := mustParse(t, "return 1;", parser.Config{AllowReturnOutsideFunction: true})
	assert.Equal(t, ast.ReturnStatement, prog.Body[0].Type)
}

func TestReturnInsideFunctionIsAlwaysAllowed(t *testing.T) {
	prog := mustParse(t, "function f() { return 1; }", parser.Config{})
	assert.Equal(t, ast.FunctionDeclaration, prog.Body[0].Type)
}

func TestImportNotAtTopLevelIsRejected(t *testing.T) {
	_, err := parser.Parse(`if (a) { import {x} from "mod"; }`, parser.Config{
		SourceType: "module", EcmaVersion: 2015,
	})
	require.Error(t, err)
}

func TestExportWithoutModuleSourceTypeIsRejected(t *testing.T) {
	_, err := parser.Parse(`export default 1;`, parser.Config{EcmaVersion: 2015})
	require.Error(t, err)
}

func TestImportExportEverywhereAllowsNestedAndScript(t *testing.T) {
	prog := mustParse(t, `if (true) { export default 1; }`, parser.Config{
		EcmaVersion: 2015, AllowImportExportEverywhere: true,
	})
	require.Len(t, prog.Body, 1)
}

func TestYieldAsDefaultParameterValueIsRejected(t *testing.T) {
	_, err := parser.Parse("function* g(a = yield 1) {}", parser.Config{EcmaVersion: 2015})
	require.Error(t, err)
}

func TestAwaitAsDefaultParameterValueIsRejected(t *testing.T) {
	_, err := parser.Parse("async function f(a = await 1) {}", parser.Config{EcmaVersion: 2017})
	require.Error(t, err)
}

func TestAwaitAsIdentifierInsideAsyncArrowParamsIsRejected(t *testing.T) {
	_, err := parser.Parse("async (await) => 1;", parser.Config{EcmaVersion: 2017})
	require.Error(t, err)
}

func TestYieldExpressionInGeneratorBodyIsFine(t *testing.T) {
	prog := mustParse(t, "function* g() { yield 1; }", parser.Config{EcmaVersion: 2015})
	assert.Equal(t, ast.FunctionDeclaration, prog.Body[0].Type)
}

func TestUndefinedExportIsRejected(t *testing.T) {
	_, err := parser.Parse(`export {missing};`, parser.Config{SourceType: "module", EcmaVersion: 2015})
	require.Error(t, err)
}

func TestExportOfHoistedFunctionIsNotUndefined(t *testing.T) {
	prog := mustParse(t, `export {f}; function f() {}`, parser.Config{SourceType: "module", EcmaVersion: 2015})
	require.Len(t, prog.Body, 2)
}

func TestExportOfLaterLexicalDeclarationIsNotUndefined(t *testing.T) {
	prog := mustParse(t, `export {x}; let x = 1;`, parser.Config{SourceType: "module", EcmaVersion: 2015})
	require.Len(t, prog.Body, 2)
}

func TestDefaultEcmaVersionIsLatest(t *testing.T) {
	prog := mustParse(t, "a?.b;", parser.Config{})
	assert.Equal(t, ast.ChainExpression, prog.Body[0].Argument.Type)
}

func TestAllowReservedPermitsKeywordAsIdentifier(t *testing.T) {
	prog := mustParse(t, "var class = 1;", parser.Config{AllowReserved: true})
	assert.Equal(t, "class", prog.Body[0].Declarations[0].ID.Name)
}

func TestReservedWordRejectedAsIdentifierByDefault(t *testing.T) {
	_, err := parser.Parse("var class = 1;", parser.Config{})
	require.Error(t, err)
}

func TestPreserveParensWrapsParenthesizedExpression(t *testing.T) {
	prog := mustParse(t, "(1 + 2);", parser.Config{PreserveParens: true})
	assert.Equal(t, ast.ParenthesizedExpression, prog.Body[0].Argument.Type)
	assert.Equal(t, ast.BinaryExpression, prog.Body[0].Argument.Argument.Type)
}

func TestParensDiscardedByDefault(t *testing.T) {
	prog := mustParse(t, "(1 + 2);", parser.Config{})
	assert.Equal(t, ast.BinaryExpression, prog.Body[0].Argument.Type)
}

func TestTopLevelAwaitAllowedInModuleAtEcmaVersion13(t *testing.T) {
	prog := mustParse(t, "await p;", parser.Config{SourceType: "module", EcmaVersion: 2022})
	assert.Equal(t, ast.AwaitExpression, prog.Body[0].Argument.Type)
}

func TestTopLevelAwaitRejectedInScript(t *testing.T) {
	_, err := parser.Parse("await p;", parser.Config{EcmaVersion: 2022})
	require.Error(t, err)
}

func TestAwaitOutsideFunctionAllowedWithOption(t *testing.T) {
	prog := mustParse(t, "await p;", parser.Config{EcmaVersion: 2017, AllowAwaitOutsideFunction: true})
	assert.Equal(t, ast.AwaitExpression, prog.Body[0].Argument.Type)
}
