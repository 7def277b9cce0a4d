package compiler

import (
	"github.com/wyvernscript/smog/pkg/chunk"
	"github.com/wyvernscript/smog/pkg/token"
	"github.com/wyvernscript/smog/pkg/value"
)

// Precedence levels, ascending, matching the grammar's operator tiers.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Type]rule

func init() {
	rules = map[token.Type]rule{
		token.LeftParen:    {(*Compiler).grouping, (*Compiler).call, precCall},
		token.Dot:          {nil, (*Compiler).dot, precCall},
		token.Minus:        {(*Compiler).unary, (*Compiler).binary, precTerm},
		token.Plus:         {nil, (*Compiler).binary, precTerm},
		token.Slash:        {nil, (*Compiler).binary, precFactor},
		token.Star:         {nil, (*Compiler).binary, precFactor},
		token.Bang:         {(*Compiler).unary, nil, precNone},
		token.BangEqual:    {nil, (*Compiler).binary, precEquality},
		token.EqualEqual:   {nil, (*Compiler).binary, precEquality},
		token.Greater:      {nil, (*Compiler).binary, precComparison},
		token.GreaterEqual: {nil, (*Compiler).binary, precComparison},
		token.Less:         {nil, (*Compiler).binary, precComparison},
		token.LessEqual:    {nil, (*Compiler).binary, precComparison},
		token.Identifier:   {(*Compiler).variable, nil, precNone},
		token.String:       {(*Compiler).stringLiteral, nil, precNone},
		token.Number:       {(*Compiler).number, nil, precNone},
		token.And:          {nil, (*Compiler).and, precAnd},
		token.Or:           {nil, (*Compiler).or, precOr},
		token.False:        {(*Compiler).literal, nil, precNone},
		token.Nil:          {(*Compiler).literal, nil, precNone},
		token.True:         {(*Compiler).literal, nil, precNone},
		token.Super:        {(*Compiler).super_, nil, precNone},
		token.This:         {(*Compiler).this_, nil, precNone},
	}
}

func getRule(t token.Type) rule {
	if r, ok := rules[t]; ok {
		return r
	}
	return rule{precedence: precNone}
}

// parsePrecedence implements the core Pratt loop: consume one token,
// dispatch its prefix rule, then keep consuming infix operators whose
// precedence is at least p.
func (c *Compiler) parsePrecedence(p precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Type).prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := p <= precAssignment
	prefixRule(c, canAssign)

	for p <= getRule(c.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) expression() { c.parsePrecedence(precAssignment) }

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) number(canAssign bool) { c.emitConstant(parseNumber(c.previous.Lexeme)) }

func (c *Compiler) stringLiteral(canAssign bool) {
	raw := c.previous.Lexeme
	s := raw[1 : len(raw)-1] // strip the surrounding quotes
	c.emitConstant(value.FromObj(c.heap.InternString(s)))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Type {
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	case token.True:
		c.emitOp(chunk.OpTrue)
	}
}

func (c *Compiler) variable(canAssign bool) { c.namedVariable(c.previous, canAssign) }

func syntheticToken(text string) token.Token { return token.Token{Type: token.Identifier, Lexeme: text} }

func (c *Compiler) this_(canAssign bool) {
	if c.class == nil {
		c.error("Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

func (c *Compiler) super_(canAssign bool) {
	if c.class == nil {
		c.error("Can't use 'super' outside of a class.")
	} else if !c.class.hasSuperclass {
		c.error("Can't use 'super' in a class with no superclass.")
	}

	c.consume(token.Dot, "Expect '.' after 'super'.")
	c.consume(token.Identifier, "Expect superclass method name.")
	name := c.identifierConstant(c.previous)

	c.namedVariable(syntheticToken("this"), false)
	if c.match(token.LeftParen) {
		argCount := c.argumentList()
		c.namedVariable(syntheticToken("super"), false)
		c.emitOp(chunk.OpSuperInvoke)
		c.emitByte(name)
		c.emitByte(argCount)
	} else {
		c.namedVariable(syntheticToken("super"), false)
		c.emitOpByte(chunk.OpGetSuper, name)
	}
}

func (c *Compiler) unary(canAssign bool) {
	opType := c.previous.Type
	c.parsePrecedence(precUnary)
	switch opType {
	case token.Bang:
		c.emitOp(chunk.OpNot)
	case token.Minus:
		c.emitOp(chunk.OpNegate)
	}
}

func (c *Compiler) binary(canAssign bool) {
	opType := c.previous.Type
	r := getRule(opType)
	c.parsePrecedence(r.precedence + 1)

	switch opType {
	case token.BangEqual:
		c.emitOps(chunk.OpEqual, chunk.OpNot)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		c.emitOps(chunk.OpLess, chunk.OpNot)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.LessEqual:
		c.emitOps(chunk.OpGreater, chunk.OpNot)
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSubtract)
	case token.Star:
		c.emitOp(chunk.OpMultiply)
	case token.Slash:
		c.emitOp(chunk.OpDivide)
	}
}

func (c *Compiler) and(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)
	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) argumentList() byte {
	var argCount int
	if !c.check(token.RightParen) {
		for {
			c.expression()
			if argCount == maxArity {
				c.error("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "Expect ')' after arguments.")
	return byte(argCount)
}

func (c *Compiler) call(canAssign bool) {
	argCount := c.argumentList()
	c.emitOpByte(chunk.OpCall, argCount)
}

func (c *Compiler) dot(canAssign bool) {
	c.consume(token.Identifier, "Expect property name after '.'.")
	name := c.identifierConstant(c.previous)

	switch {
	case canAssign && c.match(token.Equal):
		c.expression()
		c.emitOpByte(chunk.OpSetProperty, name)
	case c.match(token.LeftParen):
		argCount := c.argumentList()
		c.emitOp(chunk.OpInvoke)
		c.emitByte(name)
		c.emitByte(argCount)
	default:
		c.emitOpByte(chunk.OpGetProperty, name)
	}
}
