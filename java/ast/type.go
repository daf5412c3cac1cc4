package ast

import (
	"strings"
)

type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypePrimitive
	TypeVoid
	TypeNull
	TypeClass
	TypeVariable
)

// Type is an immutable descriptor of a Java type. Class types carry their
// qualified name; arrays are the element type plus an array depth. Two Type
// values denote the same Java type exactly when they compare equal with ==.
type Type struct {
	Kind       TypeKind
	Name       string
	ArrayDepth int
}

// NoTypes is shared by every construct that has no types to report, so that
// empty parameter, throws and exception lists never allocate.
var NoTypes = []Type{}

var (
	ObjectType           = ClassType("java.lang.Object")
	ThrowableType        = ClassType("java.lang.Throwable")
	ExceptionType        = ClassType("java.lang.Exception")
	RuntimeExceptionType = ClassType("java.lang.RuntimeException")
	ErrorType            = ClassType("java.lang.Error")
	StringType           = ClassType("java.lang.String")
	VoidType             = Type{Kind: TypeVoid, Name: "void"}
	NullType             = Type{Kind: TypeNull, Name: "null"}
)

func ClassType(qualifiedName string) Type {
	return Type{Kind: TypeClass, Name: qualifiedName}
}

func PrimitiveType(name string) Type {
	return Type{Kind: TypePrimitive, Name: name}
}

// UnknownType names a type that could not be resolved.
func UnknownType(name string) Type {
	return Type{Kind: TypeUnknown, Name: name}
}

func ArrayOf(elem Type, depth int) Type {
	if depth <= 0 || elem.Kind == TypeUnknown && elem.Name == "" {
		return elem
	}
	elem.ArrayDepth += depth
	return elem
}

func (t Type) String() string {
	if t.Kind == TypeUnknown && t.Name == "" {
		return "<unknown>"
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// SimpleName strips the package and enclosing type qualifiers.
func (t Type) SimpleName() string {
	name := t.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (t Type) IsPrimitive() bool {
	return t.Kind == TypePrimitive && t.ArrayDepth == 0
}

func (t Type) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t Type) IsVoid() bool {
	return t.Kind == TypeVoid
}

func (t Type) IsKnown() bool {
	return t.Kind != TypeUnknown
}

// IsClass reports whether t is a (non-array) class or interface type.
func (t Type) IsClass() bool {
	return t.Kind == TypeClass && t.ArrayDepth == 0
}

func (t Type) ElementType() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	return Type{Kind: t.Kind, Name: t.Name, ArrayDepth: t.ArrayDepth - 1}
}

func isPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

// typeSet accumulates types in encounter order without duplicates.
type typeSet struct {
	list []Type
}

func (s *typeSet) add(types ...Type) {
outer:
	for _, t := range types {
		for _, have := range s.list {
			if have == t {
				continue outer
			}
		}
		s.list = append(s.list, t)
	}
}

func (s *typeSet) result() []Type {
	if len(s.list) == 0 {
		return NoTypes
	}
	return s.list
}
