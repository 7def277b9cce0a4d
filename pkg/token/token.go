// Package token defines the lexical token set the scanner produces and
// the compiler consumes.
package token

// Type enumerates every token kind the scanner can emit.
type Type uint8

const (
	// Single-character punctuation.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One- or two-character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	Error
	EOF
)

var keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Lookup returns the keyword token type for ident, or Identifier if it
// is not a reserved word.
func Lookup(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return Identifier
}

// Token is a single lexical unit: its type, the exact source lexeme,
// and the line it started on. Per the scanner contract, a String
// token's Lexeme includes both surrounding quotes and an Error token's
// Lexeme carries the diagnostic message in place of source text.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
}
