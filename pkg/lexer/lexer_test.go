package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindy/goacorn/pkg/lexer"
	"github.com/kindy/goacorn/pkg/source"
	"github.com/kindy/goacorn/pkg/token"
)

func collect(t *testing.T, src string, cfg lexer.Config) []token.Token {
	t.Helper()
	buf := source.New(src)
	l := lexer.New(buf, 0, cfg)
	var out []token.Token
	for {
		tok := l.GetToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return out
}

func TestTokenizeSimpleProgram(t *testing.T) {
	toks := collect(t, "var x = 1;", lexer.Config{EcmaVersion: 2020})
	require.Len(t, toks, 6) // var, x, =, 1, ;, EOF
	assert.Equal(t, token.Var, toks[0].Type)
	assert.Equal(t, token.Name, toks[1].Type)
	assert.Equal(t, "x", toks[1].StringValue())
	assert.Equal(t, token.Eq, toks[2].Type)
	assert.Equal(t, token.Num, toks[3].Type)
	assert.Equal(t, float64(1), toks[3].NumValue())
	assert.Equal(t, token.Semi, toks[4].Type)
	assert.Equal(t, token.EOF, toks[5].Type)
}

func TestTokenizeStringLiteralWithEscapes(t *testing.T) {
	toks := collect(t, `"a\nb"`, lexer.Config{EcmaVersion: 2020})
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.String, toks[0].Type)
	assert.Equal(t, "a\nb", toks[0].StringValue())
}

func TestTokenizeRegexpLiteral(t *testing.T) {
	toks := collect(t, "/abc/gi", lexer.Config{EcmaVersion: 2020})
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.Regexp, toks[0].Type)
}

func TestTokenizeTemplateLiteral(t *testing.T) {
	toks := collect(t, "`hi ${x}`", lexer.Config{EcmaVersion: 2020})
	var sawDollarBrace bool
	for _, tk := range toks {
		if tk.Type == token.DollarBraceL {
			sawDollarBrace = true
		}
	}
	assert.True(t, sawDollarBrace)
}

func TestHashBangIsSkippedWhenAllowed(t *testing.T) {
	toks := collect(t, "#!/usr/bin/env node\nvar x;", lexer.Config{EcmaVersion: 2020, AllowHashBang: true})
	assert.Equal(t, token.Var, toks[0].Type)
}

func TestSlashAfterYieldInGeneratorIsRegexp(t *testing.T) {
	toks := collect(t, "function* g(){ yield /a/g }", lexer.Config{EcmaVersion: 2020})
	var sawRegexp bool
	for _, tk := range toks {
		if tk.Type == token.Regexp {
			sawRegexp = true
		}
	}
	assert.True(t, sawRegexp)
}

func TestSlashAfterYieldOutsideGeneratorIsDivision(t *testing.T) {
	toks := collect(t, "function g(){ yield / a / g }", lexer.Config{EcmaVersion: 2020})
	var sawRegexp, sawSlash bool
	for _, tk := range toks {
		if tk.Type == token.Regexp {
			sawRegexp = true
		}
		if tk.Type == token.Slash {
			sawSlash = true
		}
	}
	assert.False(t, sawRegexp)
	assert.True(t, sawSlash)
}

func TestBigIntLiteral(t *testing.T) {
	toks := collect(t, "10n", lexer.Config{EcmaVersion: 2020})
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, token.BigInt, toks[0].Type)
	require.NotNil(t, toks[0].BigIntValue())
	assert.Equal(t, "10", toks[0].BigIntValue().String())
}
