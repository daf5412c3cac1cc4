package parser

import (
	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/token"
)

func (p *Parser) parseExpression() ast.NodeID {
	if p.isLambda() {
		return p.parseLambda()
	}
	lhs := p.parseTernary()
	width := p.assignOp()
	if width == 0 {
		return lhs
	}
	id := p.s.NewNode(ast.KindAssignExpr)
	p.s.AddChild(id, lhs)
	p.takeN(id, width)
	p.s.AddChild(id, p.parseExpression())
	return id
}

// assignOp returns the number of tokens spelling an assignment operator at
// the current position, or 0. ">>=" and ">>>=" arrive as separate ">"
// tokens followed by ">=".
func (p *Parser) assignOp() int {
	switch p.peek().Kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign,
		token.SlashAssign, token.PercentAssign, token.AndAssign, token.OrAssign,
		token.XorAssign, token.ShlAssign:
		return 1
	}
	if width, assign := p.rightShift(); assign {
		return width
	}
	return 0
}

// rightShift recognizes ">>", ">>>" and their compound assignments from
// adjacent ">" tokens.
func (p *Parser) rightShift() (int, bool) {
	if !p.check(token.GT) {
		return 0, false
	}
	n := 1
	for n < 3 && p.peekN(n).Kind == token.GT && p.adjacent(n-1) {
		n++
	}
	if n < 3 && p.peekN(n).Kind == token.GE && p.adjacent(n-1) {
		return n + 1, true
	}
	if n >= 2 {
		return n, false
	}
	return 0, false
}

func (p *Parser) parseTernary() ast.NodeID {
	cond := p.parseBinary(1)
	if !p.check(token.Question) {
		return cond
	}
	id := p.s.NewNode(ast.KindTernaryExpr)
	p.s.AddChild(id, cond)
	p.take(id)
	p.s.AddChild(id, p.parseExpression())
	p.expect(id, token.Colon)
	if p.isLambda() {
		p.s.AddChild(id, p.parseLambda())
	} else {
		p.s.AddChild(id, p.parseTernary())
	}
	return id
}

// binaryOp returns the precedence of the binary operator at the current
// position and the number of tokens spelling it, or 0.
func (p *Parser) binaryOp() (int, int) {
	switch p.peek().Kind {
	case token.Or:
		return 1, 1
	case token.And:
		return 2, 1
	case token.BitOr:
		return 3, 1
	case token.BitXor:
		return 4, 1
	case token.BitAnd:
		return 5, 1
	case token.EQ, token.NE:
		return 6, 1
	case token.LT, token.LE, token.GE, token.Instanceof:
		return 7, 1
	case token.GT:
		width, assign := p.rightShift()
		switch {
		case assign:
			return 0, 0
		case width > 0:
			return 8, width
		}
		return 7, 1
	case token.Shl:
		return 8, 1
	case token.Plus, token.Minus:
		return 9, 1
	case token.Star, token.Slash, token.Percent:
		return 10, 1
	}
	return 0, 0
}

func (p *Parser) parseBinary(minPrec int) ast.NodeID {
	left := p.parseUnary()
	for {
		prec, width := p.binaryOp()
		if prec == 0 || prec < minPrec {
			return left
		}
		if p.check(token.Instanceof) {
			id := p.s.NewNode(ast.KindInstanceofExpr)
			p.s.AddChild(id, left)
			p.take(id)
			if p.check(token.Final) {
				p.take(id)
			}
			p.s.AddChild(id, p.parseType(true))
			if p.check(token.Ident) {
				p.s.SetName(id, p.peek().Text)
				p.take(id)
			}
			left = id
			continue
		}
		id := p.s.NewNode(ast.KindBinaryExpr)
		p.s.AddChild(id, left)
		p.takeN(id, width)
		p.s.AddChild(id, p.parseBinary(prec+1))
		left = id
	}
}

func (p *Parser) parseUnary() ast.NodeID {
	switch p.peek().Kind {
	case token.Plus, token.Minus, token.Not, token.BitNot, token.Increment, token.Decrement:
		id := p.s.NewNode(ast.KindUnaryExpr)
		p.take(id)
		p.s.AddChild(id, p.parseUnary())
		return id
	case token.LParen:
		if p.isCast() {
			return p.parseCast()
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parseCast() ast.NodeID {
	id := p.s.NewNode(ast.KindCastExpr)
	p.take(id)
	p.s.AddChild(id, p.parseType(true))
	for p.check(token.BitAnd) {
		p.take(id)
		p.s.AddChild(id, p.parseType(true))
	}
	p.expect(id, token.RParen)
	if p.isLambda() {
		p.s.AddChild(id, p.parseLambda())
	} else {
		p.s.AddChild(id, p.parseUnary())
	}
	return id
}

func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLiteral, token.FloatLiteral, token.CharLiteral, token.StringLiteral,
		token.TextBlock, token.True, token.False, token.Null:
		id := p.s.NewNode(ast.KindLiteral)
		p.take(id)
		return id
	case token.LParen:
		id := p.s.NewNode(ast.KindParenExpr)
		p.take(id)
		p.s.AddChild(id, p.parseExpression())
		p.expect(id, token.RParen)
		return id
	case token.This, token.Super:
		if p.peekN(1).Kind == token.LParen {
			id := p.s.NewNode(ast.KindCallExpr)
			p.s.SetName(id, tok.Text)
			p.take(id)
			p.s.AddChild(id, p.parseArguments())
			return id
		}
		kind := ast.KindThis
		if tok.Kind == token.Super {
			kind = ast.KindSuper
		}
		id := p.s.NewNode(kind)
		p.take(id)
		return id
	case token.New:
		return p.parseNew(ast.NoNode)
	case token.Ident:
		if p.peekN(1).Kind == token.LParen {
			id := p.s.NewNode(ast.KindCallExpr)
			p.s.SetName(id, tok.Text)
			p.take(id)
			p.s.AddChild(id, p.parseArguments())
			return id
		}
		id := p.s.NewNode(ast.KindName)
		p.s.SetName(id, tok.Text)
		p.take(id)
		return id
	case token.LT:
		return p.errorNode("explicit type arguments need a qualifier", token.Semicolon, token.RParen, token.RBrace)
	}
	if tok.Kind.IsPrimitive() || tok.Kind == token.Void {
		id := p.s.NewNode(ast.KindClassLiteral)
		p.s.AddChild(id, p.parseType(true))
		if p.check(token.ColonColon) {
			// int[]::new
			ref := p.s.NewNode(ast.KindMethodRef)
			p.s.AddChild(ref, id)
			p.take(ref)
			p.s.SetName(ref, "new")
			p.expect(ref, token.New)
			return ref
		}
		p.expect(id, token.Dot)
		p.expect(id, token.Class)
		return id
	}
	return p.errorNode("expected expression, found "+describe(tok),
		token.Semicolon, token.RParen, token.RBrace, token.RBracket, token.Comma)
}

func (p *Parser) parsePostfix(expr ast.NodeID) ast.NodeID {
	for {
		switch p.peek().Kind {
		case token.Dot:
			expr = p.parseSelector(expr)
		case token.LBracket:
			if p.peekN(1).Kind == token.RBracket {
				return p.parseArrayTypeSuffix(expr)
			}
			id := p.s.NewNode(ast.KindArrayAccess)
			p.s.AddChild(id, expr)
			p.take(id)
			p.s.AddChild(id, p.parseExpression())
			p.expect(id, token.RBracket)
			expr = id
		case token.Increment, token.Decrement:
			id := p.s.NewNode(ast.KindPostfixExpr)
			p.s.AddChild(id, expr)
			p.take(id)
			expr = id
		case token.ColonColon:
			id := p.s.NewNode(ast.KindMethodRef)
			p.s.AddChild(id, expr)
			p.take(id)
			if p.check(token.LT) {
				p.s.AddChild(id, p.parseTypeArguments())
			}
			if p.check(token.New) {
				p.s.SetName(id, "new")
				p.take(id)
			} else {
				p.s.SetName(id, p.expectIdent(id))
			}
			expr = id
		default:
			return expr
		}
	}
}

// parseArrayTypeSuffix finishes "Name[].class" and "Name[]::new", where
// the name parsed so far turns out to be an array element type.
func (p *Parser) parseArrayTypeSuffix(elem ast.NodeID) ast.NodeID {
	id := p.s.NewNode(ast.KindClassLiteral)
	p.s.AddChild(id, elem)
	for p.check(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.takeN(id, 2)
	}
	if p.check(token.ColonColon) {
		ref := p.s.NewNode(ast.KindMethodRef)
		p.s.AddChild(ref, id)
		p.take(ref)
		p.s.SetName(ref, "new")
		p.expect(ref, token.New)
		return ref
	}
	p.expect(id, token.Dot)
	p.expect(id, token.Class)
	return id
}

// parseSelector parses what follows a "." after expr: a method call, a
// field access, a class literal, a qualified this or super, or an inner
// class creation.
func (p *Parser) parseSelector(expr ast.NodeID) ast.NodeID {
	next := p.peekN(1)
	switch next.Kind {
	case token.New:
		return p.parseNew(expr)
	case token.Class:
		id := p.s.NewNode(ast.KindClassLiteral)
		p.s.AddChild(id, expr)
		p.takeN(id, 2)
		return id
	case token.This, token.Super:
		kind := ast.KindThis
		if next.Kind == token.Super {
			kind = ast.KindSuper
		}
		id := p.s.NewNode(kind)
		p.s.AddChild(id, expr)
		p.takeN(id, 2)
		return id
	case token.LT:
		id := p.s.NewNode(ast.KindCallExpr)
		p.s.AddChild(id, expr)
		p.take(id)
		p.s.AddChild(id, p.parseTypeArguments())
		p.s.SetName(id, p.expectIdent(id))
		p.s.AddChild(id, p.parseArguments())
		return id
	case token.Ident:
		if p.peekN(2).Kind == token.LParen {
			id := p.s.NewNode(ast.KindCallExpr)
			p.s.AddChild(id, expr)
			p.take(id)
			p.s.SetName(id, next.Text)
			p.take(id)
			p.s.AddChild(id, p.parseArguments())
			return id
		}
		id := p.s.NewNode(ast.KindFieldAccess)
		p.s.AddChild(id, expr)
		p.take(id)
		p.s.SetName(id, next.Text)
		p.take(id)
		return id
	}
	id := p.s.NewNode(ast.KindFieldAccess)
	p.s.AddChild(id, expr)
	p.take(id)
	p.expectIdent(id)
	return id
}

func (p *Parser) parseArguments() ast.NodeID {
	id := p.s.NewNode(ast.KindArguments)
	if !p.expect(id, token.LParen) {
		return id
	}
	for !p.check(token.RParen) && !p.check(token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseExpression())
		if p.check(token.Comma) {
			p.take(id)
		} else if !p.check(token.RParen) {
			p.syntaxError("expected , or ) in arguments, found %s", describe(p.peek()))
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.RParen)
	return id
}

// parseNew parses an instance or array creation. outer is the qualifying
// expression of "outer.new Inner()", or ast.NoNode.
func (p *Parser) parseNew(outer ast.NodeID) ast.NodeID {
	if outer != ast.NoNode {
		id := p.s.NewNode(ast.KindNewExpr)
		p.s.AddChild(id, outer)
		p.take(id)
		return p.finishNew(id)
	}
	if p.isArrayCreation() {
		return p.parseNewArray()
	}
	return p.finishNew(p.s.NewNode(ast.KindNewExpr))
}

func (p *Parser) finishNew(id ast.NodeID) ast.NodeID {
	p.expect(id, token.New)
	if p.check(token.LT) {
		p.s.AddChild(id, p.parseTypeArguments())
	}
	typ := p.parseType(false)
	p.s.AddChild(id, typ)
	p.s.AddChild(id, p.parseArguments())
	if p.check(token.LBrace) {
		anon := p.s.BeginAnonymousType()
		p.s.AddExtends(anon, typ)
		p.s.AddChild(anon, p.parseClassBody(false))
		p.s.EndType(anon)
		p.s.AddChild(id, anon)
	}
	return id
}

func (p *Parser) parseNewArray() ast.NodeID {
	id := p.s.NewNode(ast.KindNewArrayExpr)
	p.take(id)
	p.s.AddChild(id, p.parseType(false))
	for p.check(token.LBracket) {
		p.take(id)
		if !p.check(token.RBracket) {
			p.s.AddChild(id, p.parseExpression())
		}
		p.expect(id, token.RBracket)
	}
	if p.check(token.LBrace) {
		p.s.AddChild(id, p.parseArrayInit())
	}
	return id
}

// parseLambda parses a lambda expression. Its node opens the scope of the
// parameters; the body runs elsewhere and never completes into the
// surrounding statement.
func (p *Parser) parseLambda() ast.NodeID {
	id := p.s.OpenScope(ast.KindLambdaExpr, ast.ScopeLambda)
	params := p.s.NewNode(ast.KindParameters)
	p.s.AddChild(id, params)
	if p.check(token.Ident) {
		param := p.s.NewNode(ast.KindParameter)
		p.s.AddChild(params, param)
		p.s.SetName(param, p.peek().Text)
		p.take(param)
	} else {
		p.take(params)
		for !p.check(token.RParen) && !p.check(token.EOF) {
			progress := p.progress(params)
			if p.isLambdaTypedParam() {
				p.s.AddChild(params, p.parseParameter())
			} else {
				param := p.s.NewNode(ast.KindParameter)
				p.s.AddChild(params, param)
				p.s.SetName(param, p.expectIdent(param))
			}
			if p.check(token.Comma) {
				p.take(params)
			} else if !p.check(token.RParen) {
				p.syntaxError("expected , or ) in lambda parameters, found %s", describe(p.peek()))
				break
			}
			if !progress() {
				break
			}
		}
		p.expect(params, token.RParen)
	}
	p.s.Introduce(params)
	p.expect(id, token.Arrow)
	if p.check(token.LBrace) {
		p.s.AddChild(id, p.parseBlock())
	} else {
		p.s.AddChild(id, p.parseExpression())
	}
	p.s.CloseScope(id)
	return id
}
