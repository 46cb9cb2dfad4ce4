package scanner_test

import (
	"testing"

	"github.com/emberlang/ember/lang/scanner"
	"github.com/emberlang/ember/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var s scanner.Scanner
	s.Init([]byte(src))
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuatorsAndOperators(t *testing.T) {
	toks := scanAll(t, "(){};,.-+/*!!====<<=>>=")
	want := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMICOLON,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SLASH, token.STAR,
		token.BANG, token.BANG_EQ, token.EQ_EQ, token.EQ, token.LESS, token.LESS_EQ,
		token.GREATER, token.GREATER_EQ, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdent(t *testing.T) {
	toks := scanAll(t, "class else false fun for if nil or print return super this true var while notAKeyword")
	for _, tok := range toks[:len(toks)-2] {
		assert.NotEqual(t, token.IDENT, tok.Kind)
	}
	assert.Equal(t, token.IDENT, toks[len(toks)-2].Kind)
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "123 1.5 1e10 1.2e-3")
	for _, tok := range toks[:4] {
		assert.Equal(t, token.NUMBER, tok.Kind)
	}
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"oops`)
	require.Equal(t, token.ERROR, toks[0].Kind)
}

func TestScanLineTracking(t *testing.T) {
	toks := scanAll(t, "var a = 1;\nvar b = 2;")
	// the second `var` keyword is on line 2
	var sawSecondVar bool
	for _, tok := range toks {
		if tok.Kind == token.VAR && tok.Line == 2 {
			sawSecondVar = true
		}
	}
	assert.True(t, sawSecondVar)
}

func TestScanComments(t *testing.T) {
	toks := scanAll(t, "// a comment\nvar a = 1;")
	assert.Equal(t, token.VAR, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Line)
}
