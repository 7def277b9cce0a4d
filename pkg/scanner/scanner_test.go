package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wyvernscript/smog/pkg/scanner"
	"github.com/wyvernscript/smog/pkg/token"
)

func scanAll(source string) []token.Token {
	s := scanner.New(source)
	var toks []token.Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestScansPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.+-*/ == != <= >= < > = !")
	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	require.Equal(t, []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Semicolon, token.Comma, token.Dot, token.Plus, token.Minus,
		token.Star, token.Slash, token.EqualEqual, token.BangEqual,
		token.LessEqual, token.GreaterEqual, token.Less, token.Greater,
		token.Equal, token.Bang, token.EOF,
	}, types)
}

func TestScansKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll("class fun orbit")
	require.Equal(t, token.Class, toks[0].Type)
	require.Equal(t, token.Fun, toks[1].Type)
	require.Equal(t, token.Identifier, toks[2].Type)
	require.Equal(t, "orbit", toks[2].Lexeme)
}

func TestStringLexemeIncludesQuotes(t *testing.T) {
	toks := scanAll(`"hi"`)
	require.Equal(t, token.String, toks[0].Type)
	require.Equal(t, `"hi"`, toks[0].Lexeme)
}

func TestUnterminatedStringIsErrorToken(t *testing.T) {
	toks := scanAll(`"hi`)
	require.Equal(t, token.Error, toks[0].Type)
}

func TestLineCommentsAreSkipped(t *testing.T) {
	toks := scanAll("1 // a comment\n2")
	require.Equal(t, token.Number, toks[0].Type)
	require.Equal(t, token.Number, toks[1].Type)
	require.Equal(t, 2, toks[1].Line)
}

func TestEOFIsIdempotent(t *testing.T) {
	s := scanner.New("")
	first := s.ScanToken()
	second := s.ScanToken()
	require.Equal(t, token.EOF, first.Type)
	require.Equal(t, token.EOF, second.Type)
}
