package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jresolve/java/token"
)

// Lexer splits Java source into tokens. NextToken returns every token,
// hidden ones included; Tokenize groups hidden tokens onto their neighbours.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() token.Position {
	return token.Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Tokenize returns the significant tokens of the input, ending with EOF.
// Hidden tokens are attached as trivia: a token's Trailing run extends to
// the end of its line, everything else becomes Leading of the next token.
// Concatenating Full() over the result reproduces the input exactly.
func (l *Lexer) Tokenize() []token.Token {
	var raw []token.Token
	for {
		tok := l.NextToken()
		raw = append(raw, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	var out []token.Token
	var pending []token.Token
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		if tok.Kind.IsHidden() {
			pending = append(pending, tok)
			continue
		}
		tok.Leading = pending
		pending = nil
		if tok.Kind == token.EOF {
			out = append(out, tok)
			break
		}
		for i+1 < len(raw) && raw[i+1].Kind.IsHidden() {
			next := raw[i+1]
			nl := strings.IndexByte(next.Text, '\n')
			if nl < 0 {
				tok.Trailing = append(tok.Trailing, next)
				i++
				continue
			}
			if next.Kind == token.Whitespace {
				head, rest := splitAfter(next, nl)
				tok.Trailing = append(tok.Trailing, head)
				if rest.Text != "" {
					pending = append(pending, rest)
				}
				i++
			}
			break
		}
		out = append(out, tok)
	}
	return out
}

// splitAfter cuts a whitespace token after the byte at index nl, which must
// be a newline.
func splitAfter(tok token.Token, nl int) (token.Token, token.Token) {
	mid := token.Position{
		File:   tok.Span.Start.File,
		Offset: tok.Span.Start.Offset + nl + 1,
		Line:   tok.Span.Start.Line + 1,
		Column: 1,
	}
	head := token.Token{
		Kind: tok.Kind,
		Span: token.Span{Start: tok.Span.Start, End: mid},
		Text: tok.Text[:nl+1],
	}
	rest := token.Token{
		Kind: tok.Kind,
		Span: token.Span{Start: mid, End: tok.Span.End},
		Text: tok.Text[nl+1:],
	}
	return head, rest
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() token.Token {
	start := l.Position()

	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Span: token.Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case isSpace(ch):
		return l.scanWhitespace(start)
	case isJavaLetter(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanQuoted(start, '\'', token.CharLiteral)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', token.StringLiteral)
	}
	return l.scanOperator(start)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func (l *Lexer) scanWhitespace(start token.Position) token.Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(token.Whitespace, start)
}

func (l *Lexer) scanLineComment(start token.Position) token.Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(token.LineComment, start)
}

func (l *Lexer) scanBlockComment(start token.Position) token.Token {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(token.Comment, start)
}

func (l *Lexer) scanIdentOrKeyword(start token.Position) token.Token {
	for l.pos < len(l.input) && isJavaLetterOrDigit(l.peek()) {
		l.advance()
	}
	tok := l.token(token.Ident, start)
	tok.Kind = token.Lookup(tok.Text)
	return tok
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == 'l' || l.peek() == 'L' {
			l.advance()
		}
		return l.token(token.IntLiteral, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == 'l' || l.peek() == 'L' {
			l.advance()
		}
		return l.token(token.IntLiteral, start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'l', 'L':
		l.advance()
	}
	if isFloat {
		return l.token(token.FloatLiteral, start)
	}
	return l.token(token.IntLiteral, start)
}

func (l *Lexer) scanQuoted(start token.Position, quote byte, kind token.Kind) token.Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanTextBlock(start token.Position) token.Token {
	l.advanceN(3)
	for l.pos < len(l.input) {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			break
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	return l.token(token.TextBlock, start)
}

// operators is ordered so that longer spellings win.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.ShlAssign},
	{"...", token.Ellipsis},
	{"::", token.ColonColon},
	{"->", token.Arrow},
	{"==", token.EQ},
	{"!=", token.NE},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.And},
	{"||", token.Or},
	{"<<", token.Shl},
	{"++", token.Increment},
	{"--", token.Decrement},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AndAssign},
	{"|=", token.OrAssign},
	{"^=", token.XorAssign},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
	{"@", token.At},
	{":", token.Colon},
	{"=", token.Assign},
	{"<", token.LT},
	{">", token.GT},
	{"!", token.Not},
	{"&", token.BitAnd},
	{"|", token.BitOr},
	{"^", token.BitXor},
	{"~", token.BitNot},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"?", token.Question},
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		// ">=" is kept whole; ">>" and ">>>" are glued by the parser.
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	_, size := utf8.DecodeRune(rest)
	l.advanceN(size)
	return l.token(token.Illegal, start)
}

func (l *Lexer) token(kind token.Kind, start token.Position) token.Token {
	end := l.Position()
	return token.Token{
		Kind: kind,
		Span: token.Span{Start: start, End: end},
		Text: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetterOrDigit(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return isJavaLetter(ch) || isDigit(ch)
}

// IsIdentifier reports whether s is a valid Java identifier that is not a
// reserved word.
func IsIdentifier(s string) bool {
	if s == "" || token.Lookup(s) != token.Ident {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
