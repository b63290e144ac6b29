package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kindy/goacorn/pkg/scope"
)

func TestDuplicateLexicalDeclarationIsRejected(t *testing.T) {
	s := scope.NewStack()
	assert.Equal(t, "", s.Declare("x", scope.BindLexical))
	assert.NotEqual(t, "", s.Declare("x", scope.BindLexical))
}

func TestVarRedeclarationIsAllowed(t *testing.T) {
	s := scope.NewStack()
	assert.Equal(t, "", s.Declare("x", scope.BindVar))
	assert.Equal(t, "", s.Declare("x", scope.BindVar))
}

func TestVarCannotShadowOuterLexical(t *testing.T) {
	s := scope.NewStack()
	assert.Equal(t, "", s.Declare("x", scope.BindLexical))
	s.Enter(0)
	assert.NotEqual(t, "", s.Declare("x", scope.BindVar))
}

func TestLexicalInNestedBlockDoesNotClashWithOuter(t *testing.T) {
	s := scope.NewStack()
	assert.Equal(t, "", s.Declare("x", scope.BindLexical))
	s.Enter(0)
	assert.Equal(t, "", s.Declare("x", scope.BindLexical))
}

func TestSimpleCatchParamMayBeRedeclaredByOuterVar(t *testing.T) {
	s := scope.NewStack()
	s.Enter(scope.SimpleCatch)
	assert.Equal(t, "", s.Declare("e", scope.BindSimpleCatch))
	assert.Equal(t, "", s.Declare("e", scope.BindOuterCatch))
}

func TestInFunctionAndInGeneratorTracking(t *testing.T) {
	s := scope.NewStack()
	assert.False(t, s.InFunction())
	s.Enter(scope.Function | scope.Generator)
	assert.True(t, s.InFunction())
	assert.True(t, s.InGenerator())
	// an arrow function shares its enclosing function's generator-ness:
	// yield inside it refers to the generator it closes over.
	s.Enter(scope.Arrow)
	assert.True(t, s.InFunction())
	assert.True(t, s.InGenerator())
}

func TestCurrentVarSkipsBlockScopes(t *testing.T) {
	s := scope.NewStack()
	s.Enter(scope.Function)
	top := s.CurrentVar()
	s.Enter(0)
	assert.Same(t, top, s.CurrentVar())
}

func TestFunctionDeclarationClashesWithVarOutsideTreatFunctionsAsVar(t *testing.T) {
	s := scope.NewStack()
	s.SetModule(true) // module top level does not treat functions as var
	assert.Equal(t, "", s.Declare("f", scope.BindVar))
	assert.NotEqual(t, "", s.Declare("f", scope.BindFunction))
}

func TestFunctionDeclarationMayShadowVarAtScriptTopLevel(t *testing.T) {
	s := scope.NewStack()
	assert.Equal(t, "", s.Declare("f", scope.BindVar))
	assert.Equal(t, "", s.Declare("f", scope.BindFunction))
}

func TestTopScopeStaysTheBottomFrame(t *testing.T) {
	s := scope.NewStack()
	top := s.TopScope()
	s.Declare("x", scope.BindVar)
	s.Enter(scope.Function)
	assert.Same(t, top, s.TopScope())
	assert.True(t, top.Var["x"])
}

func TestAllowSuperRequiresEnclosingMethodScope(t *testing.T) {
	s := scope.NewStack()
	assert.False(t, s.AllowSuper())
	s.Enter(scope.Function | scope.Super)
	assert.True(t, s.AllowSuper())
}
