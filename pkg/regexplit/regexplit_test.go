package regexplit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindy/goacorn/pkg/regexplit"
	"github.com/kindy/goacorn/pkg/source"
)

func validatesAt(pattern, flags string, ecmaVersion int) (panicked bool, msg string) {
	buf := source.New("/" + pattern + "/" + flags)
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			if e, ok := r.(error); ok {
				msg = e.Error()
			}
		}
	}()
	regexplit.Validate(pattern, flags, ecmaVersion, 0, buf, func(pos int, m string) {})
	return false, ""
}

func validates(pattern, flags string) (panicked bool, msg string) {
	return validatesAt(pattern, flags, 13)
}

func TestValidPatternsDoNotPanic(t *testing.T) {
	cases := []string{
		`abc`,
		`a|b|c`,
		`a*b+c?d{2,4}`,
		`(a)(b)\1`,
		`(?<name>a)\k<name>`,
		`[a-z0-9_]`,
		`[^abc]`,
		`(?:non-capturing)`,
		`(?=lookahead)`,
		`(?!neg-lookahead)`,
		`\p{Letter}`,
		`^anchored$`,
		`a\bb`,
	}
	for _, c := range cases {
		panicked, msg := validates(c, "u")
		assert.False(t, panicked, "pattern %q should validate, got panic: %s", c, msg)
	}
}

func TestUnmatchedParenIsRejected(t *testing.T) {
	panicked, _ := validates(`(a`, "")
	assert.True(t, panicked)
}

func TestUnmatchedCloseParenIsRejected(t *testing.T) {
	panicked, _ := validates(`a)`, "")
	assert.True(t, panicked)
}

func TestInvalidNamedBackreferenceIsRejected(t *testing.T) {
	panicked, _ := validates(`\k<missing>`, "u")
	assert.True(t, panicked)
}

func TestDuplicateFlagIsRejected(t *testing.T) {
	panicked, _ := validates(`abc`, "gg")
	assert.True(t, panicked)
}

func TestUnknownFlagIsRejected(t *testing.T) {
	panicked, _ := validates(`abc`, "z")
	assert.True(t, panicked)
}

func TestUnicodeAndUnicodeSetsFlagsAreExclusive(t *testing.T) {
	panicked, _ := validates(`abc`, "uv")
	assert.True(t, panicked)
}

func TestUnicodePropertyEscapeRejectedBelowEcmaVersion9(t *testing.T) {
	panicked, _ := validatesAt(`\p{Letter}`, "u", 8)
	assert.True(t, panicked)
}

func TestUnicodePropertyEscapeAllowedFromEcmaVersion9(t *testing.T) {
	panicked, msg := validatesAt(`\p{Letter}`, "u", 9)
	assert.False(t, panicked, "unexpected failure: %s", msg)
}

func TestQuantifierOutOfOrderMessage(t *testing.T) {
	panicked, msg := validates(`a{4,2}`, "")
	require.True(t, panicked)
	assert.Contains(t, msg, "numbers out of order in {} quantifier")
}

func TestCompileProducesAHostRegexpForValidPattern(t *testing.T) {
	re := regexplit.Compile(`a+b`, "i")
	require.NotNil(t, re)
	ok, err := re.MatchString("AAAB")
	require.NoError(t, err)
	assert.True(t, ok)
}
