package parser

import (
	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/token"
)

func (p *Parser) parseBlock() ast.NodeID {
	id := p.s.OpenScope(ast.KindBlock, ast.ScopeBlock)
	p.expect(id, token.LBrace)
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseStatement())
		if !progress() {
			break
		}
	}
	p.expect(id, token.RBrace)
	p.s.CloseScope(id)
	return id
}

func (p *Parser) parseStatement() ast.NodeID {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		id := p.s.NewNode(ast.KindEmptyStmt)
		p.take(id)
		return id
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.Do:
		return p.parseDoStmt()
	case token.For:
		return p.parseForStmt()
	case token.Switch:
		return p.parseSwitchStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.Break, token.Continue:
		return p.parseJumpStmt()
	case token.Throw:
		return p.parseThrowStmt()
	case token.Try:
		return p.parseTryStmt()
	case token.Synchronized:
		if p.peekN(1).Kind == token.LParen {
			return p.parseSynchronizedStmt()
		}
	case token.Assert:
		return p.parseAssertStmt()
	case token.Ident:
		if p.peekN(1).Kind == token.Colon {
			return p.parseLabeledStmt()
		}
	case token.Case, token.Default, token.RBrace, token.Catch, token.Finally, token.Else:
		return p.errorNode("unexpected "+describe(p.peek())+" in statement position", token.Semicolon, token.RBrace, token.Case, token.Default)
	}
	if p.isLocalClass() {
		return p.parseLocalClassDecl()
	}
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) parseLocalClassDecl() ast.NodeID {
	id := p.s.NewNode(ast.KindLocalClassDecl)
	mods := p.parseModifiers()
	p.s.AddChild(id, p.parseTypeDecl(mods))
	return id
}

func (p *Parser) parseLocalVarDecl() ast.NodeID {
	id := p.s.NewNode(ast.KindLocalVarDecl)
	p.s.AddChild(id, p.parseModifiers())
	p.s.AddChild(id, p.parseType(true))
	p.parseDeclarators(id)
	p.expect(id, token.Semicolon)
	p.s.Introduce(id)
	return id
}

func (p *Parser) parseExprStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindExprStmt)
	p.s.AddChild(id, p.parseExpression())
	if !p.expect(id, token.Semicolon) && !p.match(token.RBrace, token.EOF) {
		p.s.AddChild(id, p.errorNode("malformed expression statement", token.Semicolon, token.RBrace))
		if p.check(token.Semicolon) {
			p.take(id)
		}
	}
	return id
}

// parseCondition parses "( expr )" into parent.
func (p *Parser) parseCondition(parent ast.NodeID) {
	p.expect(parent, token.LParen)
	p.s.AddChild(parent, p.parseExpression())
	p.expect(parent, token.RParen)
}

func (p *Parser) parseIfStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindIfStmt)
	p.take(id)
	p.parseCondition(id)
	p.s.AddChild(id, p.parseStatement())
	if p.check(token.Else) {
		p.take(id)
		p.s.AddChild(id, p.parseStatement())
	}
	return id
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindWhileStmt)
	p.take(id)
	p.parseCondition(id)
	p.s.AddChild(id, p.parseStatement())
	return id
}

func (p *Parser) parseDoStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindDoStmt)
	p.take(id)
	p.s.AddChild(id, p.parseStatement())
	p.expect(id, token.While)
	p.parseCondition(id)
	p.expect(id, token.Semicolon)
	return id
}

func (p *Parser) parseForStmt() ast.NodeID {
	if p.peekN(1).Kind == token.LParen {
		save := p.pos
		p.pos += 2
		enhanced := p.isEnhancedFor()
		p.pos = save
		if enhanced {
			return p.parseEnhancedForStmt()
		}
	}
	id := p.s.OpenScope(ast.KindForStmt, ast.ScopeFor)
	p.take(id)
	p.expect(id, token.LParen)
	if !p.check(token.Semicolon) {
		init := p.s.NewNode(ast.KindForInit)
		p.s.AddChild(id, init)
		if p.isLocalVarDecl() {
			p.s.AddChild(init, p.parseModifiers())
			p.s.AddChild(init, p.parseType(true))
			p.parseDeclarators(init)
			p.s.Introduce(init)
		} else {
			p.parseExpressionList(init)
		}
	}
	p.expect(id, token.Semicolon)
	if !p.check(token.Semicolon) {
		p.s.AddChild(id, p.parseExpression())
	}
	p.expect(id, token.Semicolon)
	if !p.check(token.RParen) {
		update := p.s.NewNode(ast.KindForUpdate)
		p.s.AddChild(id, update)
		p.parseExpressionList(update)
	}
	p.expect(id, token.RParen)
	p.s.AddChild(id, p.parseStatement())
	p.s.CloseScope(id)
	return id
}

func (p *Parser) parseExpressionList(parent ast.NodeID) {
	for {
		p.s.AddChild(parent, p.parseExpression())
		if !p.check(token.Comma) {
			return
		}
		p.take(parent)
	}
}

func (p *Parser) parseEnhancedForStmt() ast.NodeID {
	id := p.s.OpenScope(ast.KindEnhancedForStmt, ast.ScopeFor)
	p.take(id)
	p.take(id)
	param := p.s.NewNode(ast.KindParameter)
	p.s.AddChild(id, param)
	p.s.AddChild(param, p.parseModifiers())
	p.s.AddChild(param, p.parseType(true))
	p.s.SetName(param, p.expectIdent(param))
	p.s.Introduce(id)
	p.expect(id, token.Colon)
	p.s.AddChild(id, p.parseExpression())
	p.expect(id, token.RParen)
	p.s.AddChild(id, p.parseStatement())
	p.s.CloseScope(id)
	return id
}

func (p *Parser) parseSwitchStmt() ast.NodeID {
	id := p.s.OpenScope(ast.KindSwitchStmt, ast.ScopeSwitch)
	p.take(id)
	p.parseCondition(id)
	p.expect(id, token.LBrace)
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.progress(id)
		if p.match(token.Case, token.Default) {
			p.s.AddChild(id, p.parseSwitchCase())
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.RBrace)
	p.s.CloseScope(id)
	return id
}

// parseSwitchCase parses one case group: its labels and the statements
// they share, or the single body of an arrow case.
func (p *Parser) parseSwitchCase() ast.NodeID {
	id := p.s.NewNode(ast.KindSwitchCase)
	arrow := false
	for p.match(token.Case, token.Default) && !arrow {
		label := p.s.NewNode(ast.KindSwitchLabel)
		p.s.AddChild(id, label)
		if p.check(token.Case) {
			p.take(label)
			for {
				if p.check(token.Default) {
					p.take(label)
				} else {
					p.s.AddChild(label, p.parseTernary())
				}
				if !p.check(token.Comma) {
					break
				}
				p.take(label)
			}
		} else {
			p.take(label)
		}
		if p.check(token.Arrow) {
			arrow = true
			p.take(label)
		} else {
			p.expect(label, token.Colon)
		}
	}
	if arrow {
		switch {
		case p.check(token.LBrace):
			p.s.AddChild(id, p.parseBlock())
		case p.check(token.Throw):
			p.s.AddChild(id, p.parseThrowStmt())
		default:
			p.s.AddChild(id, p.parseExprStmt())
		}
		return id
	}
	for !p.match(token.Case, token.Default, token.RBrace, token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseStatement())
		if !progress() {
			break
		}
	}
	return id
}

func (p *Parser) parseReturnStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindReturnStmt)
	p.take(id)
	if !p.check(token.Semicolon) {
		p.s.AddChild(id, p.parseExpression())
	}
	p.expect(id, token.Semicolon)
	return id
}

func (p *Parser) parseJumpStmt() ast.NodeID {
	kind := ast.KindBreakStmt
	if p.check(token.Continue) {
		kind = ast.KindContinueStmt
	}
	id := p.s.NewNode(kind)
	p.take(id)
	if p.check(token.Ident) {
		p.s.SetName(id, p.peek().Text)
		p.take(id)
	}
	p.expect(id, token.Semicolon)
	return id
}

func (p *Parser) parseThrowStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindThrowStmt)
	p.take(id)
	p.s.AddChild(id, p.parseExpression())
	p.expect(id, token.Semicolon)
	return id
}

// parseTryStmt parses try, try-with-resources, catch and finally. The
// resources scope covers the try block only.
func (p *Parser) parseTryStmt() ast.NodeID {
	withResources := p.peekN(1).Kind == token.LParen
	var id ast.NodeID
	if withResources {
		id = p.s.OpenScope(ast.KindTryStmt, ast.ScopeResources)
	} else {
		id = p.s.NewNode(ast.KindTryStmt)
	}
	p.take(id)
	if withResources {
		p.s.AddChild(id, p.parseResources())
	}
	p.s.AddChild(id, p.parseBlock())
	if withResources {
		p.s.CloseScope(id)
	}
	for p.check(token.Catch) {
		p.s.AddChild(id, p.parseCatchClause())
	}
	if p.check(token.Finally) {
		fin := p.s.NewNode(ast.KindFinallyClause)
		p.s.AddChild(id, fin)
		p.take(fin)
		p.s.AddChild(fin, p.parseBlock())
	}
	if !withResources && p.tree.FirstChildOfKind(id, ast.KindCatchClause) == ast.NoNode &&
		p.tree.FirstChildOfKind(id, ast.KindFinallyClause) == ast.NoNode {
		p.syntaxError("try without catch, finally or resources")
	}
	return id
}

func (p *Parser) parseResources() ast.NodeID {
	id := p.s.NewNode(ast.KindResources)
	p.take(id)
	for !p.check(token.RParen) && !p.check(token.EOF) {
		progress := p.progress(id)
		res := p.s.NewNode(ast.KindResource)
		p.s.AddChild(id, res)
		if p.isLocalVarDecl() {
			p.s.AddChild(res, p.parseModifiers())
			p.s.AddChild(res, p.parseType(true))
			p.s.SetName(res, p.expectIdent(res))
			p.expect(res, token.Assign)
			p.s.AddChild(res, p.parseExpression())
		} else {
			p.s.AddChild(res, p.parseExpression())
		}
		if p.check(token.Semicolon) {
			p.take(id)
		} else if !p.check(token.RParen) {
			p.syntaxError("expected ; or ) in resources, found %s", describe(p.peek()))
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.RParen)
	p.s.Introduce(id)
	return id
}

func (p *Parser) parseCatchClause() ast.NodeID {
	id := p.s.OpenScope(ast.KindCatchClause, ast.ScopeCatch)
	p.take(id)
	p.expect(id, token.LParen)
	param := p.s.NewNode(ast.KindParameter)
	p.s.AddChild(id, param)
	p.s.AddChild(param, p.parseModifiers())
	p.s.AddChild(param, p.parseType(true))
	for p.check(token.BitOr) {
		p.take(param)
		p.s.AddChild(param, p.parseType(true))
	}
	p.s.SetName(param, p.expectIdent(param))
	p.expect(id, token.RParen)
	p.s.Introduce(id)
	p.s.AddChild(id, p.parseBlock())
	p.s.CloseScope(id)
	return id
}

func (p *Parser) parseSynchronizedStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindSynchronizedStmt)
	p.take(id)
	p.parseCondition(id)
	p.s.AddChild(id, p.parseBlock())
	return id
}

func (p *Parser) parseAssertStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindAssertStmt)
	p.take(id)
	p.s.AddChild(id, p.parseExpression())
	if p.check(token.Colon) {
		p.take(id)
		p.s.AddChild(id, p.parseExpression())
	}
	p.expect(id, token.Semicolon)
	return id
}

func (p *Parser) parseLabeledStmt() ast.NodeID {
	id := p.s.NewNode(ast.KindLabeledStmt)
	p.s.SetName(id, p.peek().Text)
	p.takeN(id, 2)
	p.s.AddChild(id, p.parseStatement())
	return id
}
