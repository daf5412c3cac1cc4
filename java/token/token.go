// Package token defines the lexical vocabulary shared by the Java lexer, the
// parser and the resolved syntax tree.
package token

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the 1-based line/column lies inside the span.
func (s Span) Contains(line, column int) bool {
	if line < s.Start.Line || line > s.End.Line {
		return false
	}
	if line == s.Start.Line && column < s.Start.Column {
		return false
	}
	if line == s.End.Line && column >= s.End.Column {
		return false
	}
	return true
}

type Kind int

const (
	EOF Kind = iota
	Illegal
	Whitespace
	Comment
	LineComment

	// Literals
	Ident
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral
	TextBlock
	True
	False
	Null

	// Keywords
	Abstract
	Assert
	Boolean
	Break
	Byte
	Case
	Catch
	Char
	Class
	Const
	Continue
	Default
	Do
	Double
	Else
	Enum
	Extends
	Final
	Finally
	Float
	For
	Goto
	If
	Implements
	Import
	Instanceof
	Int
	Interface
	Long
	Native
	New
	Package
	Private
	Protected
	Public
	Return
	Short
	Static
	Strictfp
	Super
	Switch
	Synchronized
	This
	Throw
	Throws
	Transient
	Try
	Void
	Volatile
	While

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Ellipsis
	At
	ColonColon

	// Operators. '>' is always produced alone so that nested type arguments
	// never need token splitting; the parser glues shifts back together.
	Assign
	EQ
	NE
	LT
	LE
	GT
	GE
	And
	Or
	Not
	BitAnd
	BitOr
	BitXor
	BitNot
	Shl
	Plus
	Minus
	Star
	Slash
	Percent
	Increment
	Decrement
	Question
	Colon
	Arrow
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	Illegal:       "Illegal",
	Whitespace:    "Whitespace",
	Comment:       "Comment",
	LineComment:   "LineComment",
	Ident:         "Identifier",
	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	CharLiteral:   "CharLiteral",
	StringLiteral: "StringLiteral",
	TextBlock:     "TextBlock",
	True:          "true",
	False:         "false",
	Null:          "null",
	Abstract:      "abstract",
	Assert:        "assert",
	Boolean:       "boolean",
	Break:         "break",
	Byte:          "byte",
	Case:          "case",
	Catch:         "catch",
	Char:          "char",
	Class:         "class",
	Const:         "const",
	Continue:      "continue",
	Default:       "default",
	Do:            "do",
	Double:        "double",
	Else:          "else",
	Enum:          "enum",
	Extends:       "extends",
	Final:         "final",
	Finally:       "finally",
	Float:         "float",
	For:           "for",
	Goto:          "goto",
	If:            "if",
	Implements:    "implements",
	Import:        "import",
	Instanceof:    "instanceof",
	Int:           "int",
	Interface:     "interface",
	Long:          "long",
	Native:        "native",
	New:           "new",
	Package:       "package",
	Private:       "private",
	Protected:     "protected",
	Public:        "public",
	Return:        "return",
	Short:         "short",
	Static:        "static",
	Strictfp:      "strictfp",
	Super:         "super",
	Switch:        "switch",
	Synchronized:  "synchronized",
	This:          "this",
	Throw:         "throw",
	Throws:        "throws",
	Transient:     "transient",
	Try:           "try",
	Void:          "void",
	Volatile:      "volatile",
	While:         "while",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	Ellipsis:      "...",
	At:            "@",
	ColonColon:    "::",
	Assign:        "=",
	EQ:            "==",
	NE:            "!=",
	LT:            "<",
	LE:            "<=",
	GT:            ">",
	GE:            ">=",
	And:           "&&",
	Or:            "||",
	Not:           "!",
	BitAnd:        "&",
	BitOr:         "|",
	BitXor:        "^",
	BitNot:        "~",
	Shl:           "<<",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Increment:     "++",
	Decrement:     "--",
	Question:      "?",
	Colon:         ":",
	Arrow:         "->",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AndAssign:     "&=",
	OrAssign:      "|=",
	XorAssign:     "^=",
	ShlAssign:     "<<=",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsHidden reports whether tokens of this kind carry no meaning and are only
// kept so the source can be reproduced.
func (k Kind) IsHidden() bool {
	return k == Whitespace || k == Comment || k == LineComment
}

// Token is a significant token together with the hidden tokens that
// surround it. Leading holds everything between the previous significant
// token's trailing run and this token; Trailing holds whitespace and comments
// after this token up to and including the first newline.
type Token struct {
	Kind     Kind
	Span     Span
	Text     string
	Leading  []Token
	Trailing []Token
}

// Full returns the token text with its hidden tokens, as it appeared in the
// source.
func (t Token) Full() string {
	if len(t.Leading) == 0 && len(t.Trailing) == 0 {
		return t.Text
	}
	var buf []byte
	for _, h := range t.Leading {
		buf = append(buf, h.Text...)
	}
	buf = append(buf, t.Text...)
	for _, h := range t.Trailing {
		buf = append(buf, h.Text...)
	}
	return string(buf)
}

var keywords = map[string]Kind{
	"abstract":     Abstract,
	"assert":       Assert,
	"boolean":      Boolean,
	"break":        Break,
	"byte":         Byte,
	"case":         Case,
	"catch":        Catch,
	"char":         Char,
	"class":        Class,
	"const":        Const,
	"continue":     Continue,
	"default":      Default,
	"do":           Do,
	"double":       Double,
	"else":         Else,
	"enum":         Enum,
	"extends":      Extends,
	"final":        Final,
	"finally":      Finally,
	"float":        Float,
	"for":          For,
	"goto":         Goto,
	"if":           If,
	"implements":   Implements,
	"import":       Import,
	"instanceof":   Instanceof,
	"int":          Int,
	"interface":    Interface,
	"long":         Long,
	"native":       Native,
	"new":          New,
	"package":      Package,
	"private":      Private,
	"protected":    Protected,
	"public":       Public,
	"return":       Return,
	"short":        Short,
	"static":       Static,
	"strictfp":     Strictfp,
	"super":        Super,
	"switch":       Switch,
	"synchronized": Synchronized,
	"this":         This,
	"throw":        Throw,
	"throws":       Throws,
	"transient":    Transient,
	"try":          Try,
	"void":         Void,
	"volatile":     Volatile,
	"while":        While,
	"true":         True,
	"false":        False,
	"null":         Null,
}

// Lookup maps an identifier to its keyword kind. Contextual keywords such as
// var, record or yield stay identifiers.
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Ident
}

// IsPrimitive reports whether the kind names a primitive type.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Boolean, Byte, Char, Short, Int, Long, Float, Double:
		return true
	}
	return false
}

// IsModifier reports whether the kind is a declaration modifier keyword.
func (k Kind) IsModifier() bool {
	switch k {
	case Public, Protected, Private, Abstract, Static, Final, Strictfp,
		Native, Synchronized, Transient, Volatile, Default:
		return true
	}
	return false
}
