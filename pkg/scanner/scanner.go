// Package scanner turns source text into a stream of tokens. It
// implements the scanner contract (§6.1): New then repeated ScanToken,
// with ERROR tokens carrying a diagnostic message and EOF idempotent
// once the source is exhausted.
//
// Structurally this follows the teacher's hand-written lexer (a cursor
// and line state machine, here start/current/line with advance/peek/
// peekNext helpers) retargeted from the teacher's Smalltalk token set
// to this language's C-like grammar.
package scanner

import "github.com/wyvernscript/smog/pkg/token"

// Scanner holds the cursor into the source string.
type Scanner struct {
	source  string
	start   int
	current int
	line    int
}

// New creates a Scanner positioned at the start of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

func (s *Scanner) isAtEnd() bool { return s.current >= len(s.source) }

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) lexeme() string { return s.source[s.start:s.current] }

func (s *Scanner) make(t token.Type) token.Token {
	return token.Token{Type: t, Lexeme: s.lexeme(), Line: s.line}
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.Token{Type: token.Error, Lexeme: message, Line: s.line}
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// ScanToken returns the next token. Calling it again after EOF keeps
// returning EOF, matching the idempotence the contract requires.
func (s *Scanner) ScanToken() token.Token {
	s.skipWhitespace()
	s.start = s.current

	if s.isAtEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ';':
		return s.make(token.Semicolon)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case '/':
		return s.make(token.Slash)
	case '*':
		return s.make(token.Star)
	case '!':
		if s.match('=') {
			return s.make(token.BangEqual)
		}
		return s.make(token.Bang)
	case '=':
		if s.match('=') {
			return s.make(token.EqualEqual)
		}
		return s.make(token.Equal)
	case '<':
		if s.match('=') {
			return s.make(token.LessEqual)
		}
		return s.make(token.Less)
	case '>':
		if s.match('=') {
			return s.make(token.GreaterEqual)
		}
		return s.make(token.Greater)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	return s.make(token.Lookup(s.lexeme()))
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.Number)
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // closing quote
	return s.make(token.String)
}
