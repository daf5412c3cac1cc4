package parser

import "github.com/dhamidi/jresolve/java/token"

// The helpers below scan ahead over tokens without building nodes. The
// is* predicates always restore the position; the skip* helpers advance it
// and report whether the construct was well formed.

func (p *Parser) skipAnnotation() bool {
	if !p.check(token.At) {
		return false
	}
	p.pos++
	if !p.skipQualifiedName() {
		return false
	}
	if p.check(token.LParen) {
		return p.skipBalanced(token.LParen, token.RParen)
	}
	return true
}

func (p *Parser) skipBalanced(open, close token.Kind) bool {
	depth := 0
	for !p.check(token.EOF) {
		switch p.peek().Kind {
		case open:
			depth++
		case close:
			depth--
		}
		p.pos++
		if depth == 0 {
			return true
		}
	}
	return false
}

func (p *Parser) skipQualifiedName() bool {
	if !p.check(token.Ident) {
		return false
	}
	p.pos++
	for p.check(token.Dot) && p.peekN(1).Kind == token.Ident {
		p.pos += 2
	}
	return true
}

// skipTypeArguments skips "<...>". Closing brackets always lex as single
// ">" tokens, so counting suffices.
func (p *Parser) skipTypeArguments() bool {
	if !p.check(token.LT) {
		return false
	}
	depth := 0
	for !p.check(token.EOF) {
		switch p.peek().Kind {
		case token.LT:
			depth++
		case token.GT:
			depth--
		case token.Ident, token.Dot, token.Comma, token.Question, token.Extends,
			token.Super, token.LBracket, token.RBracket, token.At, token.BitAnd:
		default:
			if !p.peek().Kind.IsPrimitive() {
				return false
			}
		}
		p.pos++
		if depth == 0 {
			return true
		}
	}
	return false
}

// skipType skips a type: primitive or dotted class name with type
// arguments, followed by array brackets.
func (p *Parser) skipType() bool {
	for p.check(token.At) {
		if !p.skipAnnotation() {
			return false
		}
	}
	switch {
	case p.peek().Kind.IsPrimitive(), p.check(token.Void):
		p.pos++
	case p.check(token.Ident):
		p.pos++
		if p.check(token.LT) && !p.skipTypeArguments() {
			return false
		}
		for p.check(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.pos += 2
			if p.check(token.LT) && !p.skipTypeArguments() {
				return false
			}
		}
	default:
		return false
	}
	for p.check(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.pos += 2
	}
	return true
}

func (p *Parser) skipModifiers() bool {
	for {
		switch {
		case p.check(token.At) && p.peekN(1).Kind != token.Interface:
			if !p.skipAnnotation() {
				return false
			}
		case p.peek().Kind.IsModifier():
			p.pos++
		default:
			return true
		}
	}
}

// isLocalVarDecl recognizes "[modifiers] Type name" at statement start.
func (p *Parser) isLocalVarDecl() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipModifiers() || !p.skipType() {
		return false
	}
	return p.check(token.Ident)
}

// isLocalClass recognizes "[modifiers] class|interface|enum" at statement
// start.
func (p *Parser) isLocalClass() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipModifiers() {
		return false
	}
	return p.match(token.Class, token.Interface, token.Enum)
}

// isEnhancedFor recognizes "[modifiers] Type name :" after "for (".
func (p *Parser) isEnhancedFor() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipModifiers() || !p.skipType() {
		return false
	}
	return p.check(token.Ident) && p.peekN(1).Kind == token.Colon
}

// isLambda recognizes "x ->" and "( ... ) ->".
func (p *Parser) isLambda() bool {
	if p.check(token.Ident) && p.peekN(1).Kind == token.Arrow {
		return true
	}
	if !p.check(token.LParen) {
		return false
	}
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipBalanced(token.LParen, token.RParen) {
		return false
	}
	return p.check(token.Arrow)
}

func (p *Parser) isLambdaTypedParam() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipModifiers() || !p.skipType() {
		return false
	}
	return p.check(token.Ident) || p.check(token.Ellipsis)
}

// isCast recognizes "(Type) operand". A parenthesized class name only
// counts as a cast when an operand that cannot continue a binary
// expression follows.
func (p *Parser) isCast() bool {
	if !p.check(token.LParen) {
		return false
	}
	save := p.pos
	defer func() { p.pos = save }()
	p.pos++
	primitive := p.peek().Kind.IsPrimitive()
	if !p.skipType() {
		return false
	}
	for p.check(token.BitAnd) {
		p.pos++
		if !p.skipType() {
			return false
		}
	}
	if !p.check(token.RParen) {
		return false
	}
	p.pos++
	if primitive {
		return true
	}
	switch p.peek().Kind {
	case token.Ident, token.This, token.Super, token.New, token.LParen,
		token.Not, token.BitNot, token.IntLiteral, token.FloatLiteral,
		token.CharLiteral, token.StringLiteral, token.TextBlock,
		token.True, token.False, token.Null, token.Switch:
		return true
	}
	return false
}

// isArrayCreation looks past "new Type" for "[".
func (p *Parser) isArrayCreation() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.pos++
	for p.check(token.At) {
		if !p.skipAnnotation() {
			return false
		}
	}
	switch {
	case p.peek().Kind.IsPrimitive():
		p.pos++
	case p.check(token.Ident):
		p.pos++
		if p.check(token.LT) && !p.skipTypeArguments() {
			return false
		}
		for p.check(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.pos += 2
			if p.check(token.LT) && !p.skipTypeArguments() {
				return false
			}
		}
	default:
		return false
	}
	return p.check(token.LBracket)
}
