package ast

// FileInfo is the payload of a compilation unit node.
type FileInfo struct {
	Path    string
	Package string
	Imports []Import
	// Types lists the top-level type declarations in source order.
	Types []NodeID
}

type Import struct {
	Name     string
	Static   bool
	OnDemand bool
	Node     NodeID
}

// TypeDecl is the payload of a class, interface or enum declaration.
type TypeDecl struct {
	Name          string
	QualifiedName string
	Kind          Kind
	// Members is the declaration scope of the type's members.
	Members *SymbolTable
	// Outer is the lexically enclosing type declaration, or NoNode.
	Outer     NodeID
	Local     bool
	Anonymous bool
	Body      NodeID
	Methods   []*Method

	extends    []NodeID
	implements []NodeID
	supers     []Type
	resolved   bool
	resolving  bool
	// duplicate marks a name already taken in the enclosing scope.
	duplicate bool
}

// Method describes a method or constructor declared in source.
type Method struct {
	Name        string
	Node        NodeID
	Constructor bool
	Params      []NodeID
	Varargs     bool
	// Result is the declared return type node; NoNode for void and
	// constructors.
	Result NodeID
	// ThrowsList holds the type nodes of the throws clause.
	ThrowsList []NodeID
	Body       NodeID

	throws   []Type
	resolved bool
}

// Accepts reports whether a call with n arguments can select this method.
func (m *Method) Accepts(n int) bool {
	if m.Varargs {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// typeRef is the payload of a KindType node: the written name without type
// arguments and the number of array dimensions.
type typeRef struct {
	name     string
	dims     int
	resolved bool
	busy     bool
	typ      Type
}

// stmtState memoizes the computed attributes of a statement.
type stmtState struct {
	control    []NodeID
	exceptions []Type
	vars       VarList
	done       attrSet
	busy       attrSet
}

type attrSet uint8

const (
	attrControl attrSet = 1 << iota
	attrExceptions
	attrVars
)
