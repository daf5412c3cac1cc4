package parser

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

var log = commonlog.GetLogger("jresolve.parser")

type Option func(*Parser)

// WithFile sets the path recorded for the compilation unit and its
// positions.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser builds a resolved-ready syntax tree for one compilation unit by
// issuing construction calls on an ast.Session. Every significant token
// ends up as a leaf, hidden tokens ride along as trivia, so the tree
// reproduces its source exactly even when the input has syntax errors.
type Parser struct {
	s      *ast.Session
	tree   *ast.Tree
	diags  *diag.Bag
	file   string
	tokens []token.Token
	pos    int

	lastError int
	errors    int
}

func newParser(s *ast.Session, src []byte, opts ...Option) *Parser {
	p := &Parser{
		s:         s,
		tree:      s.Tree(),
		diags:     s.Context().Diagnostics(),
		file:      "<input>",
		lastError: -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokens = NewLexer(src, p.file).Tokenize()
	return p
}

// Parse constructs the compilation unit in src and registers it with the
// session's context. Syntax errors become S001 diagnostics and error nodes;
// the returned error only reports registration failures.
func Parse(s *ast.Session, src []byte, opts ...Option) (ast.NodeID, error) {
	p := newParser(s, src, opts...)
	file := p.parseCompilationUnit()
	if err := s.EndFile(file); err != nil {
		return file, fmt.Errorf("parse %s: %w", p.file, err)
	}
	log.Debugf("parsed %s: %d tokens, %d syntax errors", p.file, len(p.tokens), p.errors)
	return file, nil
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// adjacent reports whether the tokens at offsets i and i+1 from the current
// position touch, with no hidden tokens in between.
func (p *Parser) adjacent(i int) bool {
	a, b := p.peekN(i), p.peekN(i+1)
	return len(a.Trailing) == 0 && len(b.Leading) == 0 && a.Span.End.Offset == b.Span.Start.Offset
}

// take consumes the current token as a leaf of parent. With parent
// ast.NoNode the leaf is returned unattached.
func (p *Parser) take(parent ast.NodeID) ast.NodeID {
	tok := p.peek()
	leaf := p.s.NewLeaf(tok)
	if parent != ast.NoNode {
		p.s.AddChild(parent, leaf)
	}
	if tok.Kind != token.EOF {
		p.pos++
	}
	return leaf
}

// takeN consumes n tokens, such as the pieces of a glued shift operator.
func (p *Parser) takeN(parent ast.NodeID, n int) {
	for i := 0; i < n; i++ {
		p.take(parent)
	}
}

func (p *Parser) expect(parent ast.NodeID, kind token.Kind) bool {
	if p.check(kind) {
		p.take(parent)
		return true
	}
	p.syntaxError("expected %s, found %s", kind, describe(p.peek()))
	return false
}

// expectIdent consumes an identifier and returns its text.
func (p *Parser) expectIdent(parent ast.NodeID) string {
	if p.check(token.Ident) {
		name := p.peek().Text
		p.take(parent)
		return name
	}
	p.syntaxError("expected identifier, found %s", describe(p.peek()))
	return ""
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.Text)
}

// syntaxError reports at the current token, once per position.
func (p *Parser) syntaxError(format string, args ...any) {
	if p.lastError == p.pos {
		return
	}
	p.lastError = p.pos
	p.errors++
	p.diags.Errorf(diag.CodeSyntax, p.peek().Span, format, args...)
}

// errorNode reports msg and swallows tokens up to, not including, one of
// recoverTo.
func (p *Parser) errorNode(msg string, recoverTo ...token.Kind) ast.NodeID {
	p.syntaxError("%s", msg)
	id := p.s.NewError(msg)
	for !p.check(token.EOF) && !p.match(recoverTo...) {
		p.take(id)
	}
	return id
}

// progress returns a guard for parse loops. Called at the end of an
// iteration, it swallows one token into an error node under parent when
// the iteration consumed nothing, and reports false at end of input.
func (p *Parser) progress(parent ast.NodeID) func() bool {
	saved := p.pos
	return func() bool {
		if p.pos != saved {
			return true
		}
		if p.check(token.EOF) {
			return false
		}
		msg := "unexpected " + describe(p.peek())
		p.syntaxError("%s", msg)
		id := p.s.NewError(msg)
		p.take(id)
		p.s.AddChild(parent, id)
		return true
	}
}

func (p *Parser) parseCompilationUnit() ast.NodeID {
	file := p.s.BeginFile(p.file)
	if p.check(token.Package) || p.check(token.At) && p.annotatedPackage() {
		p.s.AddChild(file, p.parsePackageDecl())
	}
	for p.check(token.Import) {
		p.s.AddChild(file, p.parseImportDecl())
	}
	for !p.check(token.EOF) {
		progress := p.progress(file)
		if p.check(token.Semicolon) {
			p.take(file)
		} else {
			p.s.AddChild(file, p.parseTypeDecl(p.parseModifiers()))
		}
		if !progress() {
			break
		}
	}
	p.take(file)
	return file
}

// annotatedPackage reports annotations that precede a package
// declaration rather than a type.
func (p *Parser) annotatedPackage() bool {
	save := p.pos
	defer func() { p.pos = save }()
	for p.check(token.At) {
		if !p.skipAnnotation() {
			return false
		}
	}
	return p.check(token.Package)
}

func (p *Parser) parsePackageDecl() ast.NodeID {
	id := p.s.NewNode(ast.KindPackageDecl)
	for p.check(token.At) {
		p.s.AddChild(id, p.parseAnnotation())
	}
	p.expect(id, token.Package)
	name, _ := p.parseQualifiedName(id, false)
	p.expect(id, token.Semicolon)
	p.s.SetName(id, name)
	p.s.SetPackage(name)
	return id
}

func (p *Parser) parseImportDecl() ast.NodeID {
	id := p.s.NewNode(ast.KindImportDecl)
	p.take(id)
	static := false
	if p.check(token.Static) {
		static = true
		p.take(id)
	}
	name, onDemand := p.parseQualifiedName(id, true)
	p.expect(id, token.Semicolon)
	p.s.SetName(id, name)
	p.s.AddImport(id, name, static, onDemand)
	return id
}

// parseQualifiedName parses a dotted name into a QualifiedName child of
// parent. With wildcard set a trailing ".*" is accepted and reported.
func (p *Parser) parseQualifiedName(parent ast.NodeID, wildcard bool) (string, bool) {
	id := p.s.NewNode(ast.KindQualifiedName)
	p.s.AddChild(parent, id)
	var sb strings.Builder
	sb.WriteString(p.expectIdent(id))
	onDemand := false
	for p.check(token.Dot) {
		if wildcard && p.peekN(1).Kind == token.Star {
			p.takeN(id, 2)
			onDemand = true
			break
		}
		p.take(id)
		sb.WriteByte('.')
		sb.WriteString(p.expectIdent(id))
	}
	p.s.SetName(id, sb.String())
	return sb.String(), onDemand
}

// parseModifiers collects modifier keywords and annotations. It returns
// ast.NoNode when there are none.
func (p *Parser) parseModifiers() ast.NodeID {
	id := ast.NoNode
	for {
		isAnnotation := p.check(token.At) && p.peekN(1).Kind != token.Interface
		if !p.peek().Kind.IsModifier() && !isAnnotation && !p.contextualModifier() {
			return id
		}
		if id == ast.NoNode {
			id = p.s.NewNode(ast.KindModifiers)
		}
		switch {
		case isAnnotation:
			p.s.AddChild(id, p.parseAnnotation())
		case p.peek().Text == "non":
			p.takeN(id, 3)
		default:
			p.take(id)
		}
	}
}

// contextualModifier matches sealed and non-sealed, which lex as
// identifiers.
func (p *Parser) contextualModifier() bool {
	tok := p.peek()
	if tok.Kind != token.Ident {
		return false
	}
	switch tok.Text {
	case "sealed":
		return p.peekN(1).Kind.IsModifier() || p.peekN(1).Kind == token.Class || p.peekN(1).Kind == token.Interface
	case "non":
		return p.peekN(1).Kind == token.Minus && p.peekN(2).Text == "sealed"
	}
	return false
}

func (p *Parser) parseAnnotation() ast.NodeID {
	id := p.s.NewNode(ast.KindAnnotation)
	p.take(id)
	name, _ := p.parseQualifiedName(id, false)
	p.s.SetName(id, name)
	if p.check(token.LParen) {
		p.takeBalanced(id, token.LParen, token.RParen)
	}
	return id
}

// takeBalanced consumes a bracketed token run, nested brackets included,
// as leaves of parent.
func (p *Parser) takeBalanced(parent ast.NodeID, open, close token.Kind) {
	depth := 0
	for !p.check(token.EOF) {
		switch p.peek().Kind {
		case open:
			depth++
		case close:
			depth--
		}
		p.take(parent)
		if depth == 0 {
			return
		}
	}
	p.syntaxError("expected %s, found end of file", close)
}

func (p *Parser) parseTypeDecl(mods ast.NodeID) ast.NodeID {
	var kind ast.Kind
	switch p.peek().Kind {
	case token.Class:
		kind = ast.KindClassDecl
	case token.Interface:
		kind = ast.KindInterfaceDecl
	case token.Enum:
		kind = ast.KindEnumDecl
	default:
		id := p.errorNode("expected class, interface or enum declaration",
			token.Class, token.Interface, token.Enum, token.RBrace)
		if mods != ast.NoNode {
			wrapper := p.s.NewError("dangling modifiers")
			p.s.AddChild(wrapper, mods)
			p.s.AddChild(wrapper, id)
			return wrapper
		}
		return id
	}
	if p.peekN(1).Kind != token.Ident {
		id := p.s.NewError("missing type name")
		p.s.AddChild(id, mods)
		p.take(id)
		p.syntaxError("expected identifier, found %s", describe(p.peek()))
		return id
	}
	id := p.s.BeginType(kind, p.peekN(1).Text)
	p.s.AddChild(id, mods)
	p.takeN(id, 2)
	if p.check(token.LT) {
		p.s.AddChild(id, p.parseTypeParameters())
	}
	if p.check(token.Extends) {
		ext := p.s.NewNode(ast.KindExtendsClause)
		p.s.AddChild(id, ext)
		p.take(ext)
		p.parseTypeList(ext, func(t ast.NodeID) { p.s.AddExtends(id, t) })
	}
	if p.check(token.Implements) {
		impl := p.s.NewNode(ast.KindImplementsClause)
		p.s.AddChild(id, impl)
		p.take(impl)
		p.parseTypeList(impl, func(t ast.NodeID) { p.s.AddImplements(id, t) })
	}
	if p.check(token.Ident) && p.peek().Text == "permits" {
		perm := p.s.NewNode(ast.KindImplementsClause)
		p.s.AddChild(id, perm)
		p.take(perm)
		p.parseTypeList(perm, func(ast.NodeID) {})
	}
	p.s.AddChild(id, p.parseClassBody(kind == ast.KindEnumDecl))
	p.s.EndType(id)
	return id
}

func (p *Parser) parseTypeList(parent ast.NodeID, each func(ast.NodeID)) {
	for {
		t := p.parseType(true)
		p.s.AddChild(parent, t)
		each(t)
		if !p.check(token.Comma) {
			return
		}
		p.take(parent)
	}
}

func (p *Parser) parseTypeParameters() ast.NodeID {
	id := p.s.NewNode(ast.KindTypeParameters)
	p.take(id)
	for !p.check(token.GT) && !p.check(token.EOF) {
		progress := p.progress(id)
		param := p.s.NewNode(ast.KindTypeParameter)
		p.s.AddChild(id, param)
		for p.check(token.At) {
			p.s.AddChild(param, p.parseAnnotation())
		}
		p.s.SetName(param, p.expectIdent(param))
		if p.check(token.Extends) {
			p.take(param)
			p.s.AddChild(param, p.parseType(true))
			for p.check(token.BitAnd) {
				p.take(param)
				p.s.AddChild(param, p.parseType(true))
			}
		}
		if p.check(token.Comma) {
			p.take(id)
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.GT)
	p.s.Introduce(id)
	return id
}

// parseType parses a type reference into a KindType node. Array brackets
// are only consumed when dims is set; array creation parses its own.
func (p *Parser) parseType(dims bool) ast.NodeID {
	id := p.s.NewNode(ast.KindType)
	for p.check(token.At) {
		p.s.AddChild(id, p.parseAnnotation())
	}
	var name strings.Builder
	switch {
	case p.peek().Kind.IsPrimitive(), p.check(token.Void):
		name.WriteString(p.peek().Text)
		p.take(id)
	case p.check(token.Ident):
		name.WriteString(p.peek().Text)
		p.take(id)
		if p.check(token.LT) {
			p.s.AddChild(id, p.parseTypeArguments())
		}
		for p.check(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.take(id)
			name.WriteByte('.')
			name.WriteString(p.peek().Text)
			p.take(id)
			if p.check(token.LT) {
				p.s.AddChild(id, p.parseTypeArguments())
			}
		}
	default:
		p.syntaxError("expected type, found %s", describe(p.peek()))
	}
	n := 0
	for dims && p.check(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.takeN(id, 2)
		n++
	}
	p.s.SetTypeRef(id, name.String(), n)
	return id
}

func (p *Parser) parseTypeArguments() ast.NodeID {
	id := p.s.NewNode(ast.KindTypeArguments)
	p.take(id)
	for !p.check(token.GT) && !p.check(token.EOF) {
		progress := p.progress(id)
		if p.check(token.Question) {
			wild := p.s.NewNode(ast.KindType)
			p.s.AddChild(id, wild)
			p.take(wild)
			if p.match(token.Extends, token.Super) {
				p.take(wild)
				p.s.AddChild(wild, p.parseType(true))
			}
		} else {
			p.s.AddChild(id, p.parseType(true))
		}
		if p.check(token.Comma) {
			p.take(id)
		} else if !p.check(token.GT) {
			p.syntaxError("expected > or , in type arguments, found %s", describe(p.peek()))
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.GT)
	return id
}

func (p *Parser) parseClassBody(enum bool) ast.NodeID {
	id := p.s.NewNode(ast.KindClassBody)
	p.expect(id, token.LBrace)
	if enum {
		p.parseEnumConstants(id)
	}
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseMember())
		if !progress() {
			break
		}
	}
	p.expect(id, token.RBrace)
	return id
}

func (p *Parser) parseEnumConstants(body ast.NodeID) {
	for p.check(token.Ident) || p.check(token.At) {
		c := p.s.NewNode(ast.KindEnumConstant)
		p.s.AddChild(body, c)
		for p.check(token.At) {
			p.s.AddChild(c, p.parseAnnotation())
		}
		p.s.SetName(c, p.expectIdent(c))
		if p.check(token.LParen) {
			p.s.AddChild(c, p.parseArguments())
		}
		if p.check(token.LBrace) {
			anon := p.s.BeginAnonymousType()
			p.s.AddChild(anon, p.parseClassBody(false))
			p.s.EndType(anon)
			p.s.AddChild(c, anon)
		}
		p.s.Introduce(c)
		if !p.check(token.Comma) {
			break
		}
		p.take(body)
	}
	if p.check(token.Semicolon) {
		p.take(body)
	}
}

func (p *Parser) parseMember() ast.NodeID {
	switch {
	case p.check(token.Semicolon):
		return p.take(ast.NoNode)
	case p.check(token.LBrace), p.check(token.Static) && p.peekN(1).Kind == token.LBrace:
		id := p.s.NewNode(ast.KindInitializer)
		if p.check(token.Static) {
			p.take(id)
		}
		p.s.AddChild(id, p.parseBlock())
		return id
	}
	mods := p.parseModifiers()
	switch {
	case p.match(token.Class, token.Interface, token.Enum):
		return p.parseTypeDecl(mods)
	case p.check(token.LT), p.check(token.Ident) && p.peekN(1).Kind == token.LParen:
		return p.parseMethod(mods)
	}
	if p.isMethod() {
		return p.parseMethod(mods)
	}
	return p.parseField(mods)
}

// isMethod looks past a result type for a name followed by "(".
func (p *Parser) isMethod() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if !p.skipType() {
		return false
	}
	return p.check(token.Ident) && p.peekN(1).Kind == token.LParen
}

// methodName finds the name of the method or constructor starting at the
// current token without consuming anything.
func (p *Parser) methodName() (string, bool) {
	save := p.pos
	defer func() { p.pos = save }()
	if p.check(token.LT) {
		p.skipTypeArguments()
	}
	if p.check(token.Ident) && p.peekN(1).Kind == token.LParen {
		return p.peek().Text, true
	}
	p.skipType()
	return p.peek().Text, false
}

func (p *Parser) parseMethod(mods ast.NodeID) ast.NodeID {
	name, ctor := p.methodName()
	kind := ast.KindMethodDecl
	if ctor {
		kind = ast.KindConstructorDecl
	}
	id := p.s.BeginMethod(kind, name)
	p.s.AddChild(id, mods)
	if p.check(token.LT) {
		p.s.AddChild(id, p.parseTypeParameters())
	}
	if !ctor {
		p.s.AddChild(id, p.parseType(true))
	}
	p.expectIdent(id)
	params := p.parseParameters()
	p.s.AddChild(id, params)
	p.s.Introduce(params)
	for p.check(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.takeN(id, 2)
	}
	if p.check(token.Throws) {
		throws := p.s.NewNode(ast.KindThrowsList)
		p.s.AddChild(id, throws)
		p.take(throws)
		p.parseTypeList(throws, func(ast.NodeID) {})
	}
	switch {
	case p.check(token.LBrace):
		p.s.AddChild(id, p.parseBlock())
	case p.check(token.Default):
		p.take(id)
		p.s.AddChild(id, p.parseExpression())
		p.expect(id, token.Semicolon)
	default:
		p.expect(id, token.Semicolon)
	}
	p.s.EndMethod(id)
	return id
}

func (p *Parser) parseParameters() ast.NodeID {
	id := p.s.NewNode(ast.KindParameters)
	if !p.expect(id, token.LParen) {
		return id
	}
	for !p.check(token.RParen) && !p.check(token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseParameter())
		if p.check(token.Comma) {
			p.take(id)
		} else if !p.check(token.RParen) {
			p.syntaxError("expected , or ) in parameters, found %s", describe(p.peek()))
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.RParen)
	return id
}

func (p *Parser) parseParameter() ast.NodeID {
	id := p.s.NewNode(ast.KindParameter)
	p.s.AddChild(id, p.parseModifiers())
	p.s.AddChild(id, p.parseType(true))
	if p.check(token.Ellipsis) {
		p.take(id)
	}
	p.s.SetName(id, p.expectIdent(id))
	p.s.SetDims(id, p.parseDims(id))
	return id
}

// parseDims consumes "[]" pairs written after a declarator name.
func (p *Parser) parseDims(parent ast.NodeID) int {
	n := 0
	for p.check(token.LBracket) && p.peekN(1).Kind == token.RBracket {
		p.takeN(parent, 2)
		n++
	}
	return n
}

func (p *Parser) parseField(mods ast.NodeID) ast.NodeID {
	id := p.s.NewNode(ast.KindFieldDecl)
	p.s.AddChild(id, mods)
	p.s.AddChild(id, p.parseType(true))
	p.parseDeclarators(id)
	p.expect(id, token.Semicolon)
	p.s.Introduce(id)
	return id
}

// parseDeclarators parses "a = 1, b[] = {}" into VarDeclarator children.
func (p *Parser) parseDeclarators(parent ast.NodeID) {
	for {
		d := p.s.NewNode(ast.KindVarDeclarator)
		p.s.AddChild(parent, d)
		p.s.SetName(d, p.expectIdent(d))
		p.s.SetDims(d, p.parseDims(d))
		if p.check(token.Assign) {
			p.take(d)
			p.s.AddChild(d, p.parseVarInitializer())
		}
		if !p.check(token.Comma) {
			return
		}
		p.take(parent)
	}
}

func (p *Parser) parseVarInitializer() ast.NodeID {
	if p.check(token.LBrace) {
		return p.parseArrayInit()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInit() ast.NodeID {
	id := p.s.NewNode(ast.KindArrayInit)
	p.take(id)
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		progress := p.progress(id)
		p.s.AddChild(id, p.parseVarInitializer())
		if p.check(token.Comma) {
			p.take(id)
		} else if !p.check(token.RBrace) {
			p.syntaxError("expected , or } in array initializer, found %s", describe(p.peek()))
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(id, token.RBrace)
	return id
}
