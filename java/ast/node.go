package ast

import (
	"github.com/dhamidi/jresolve/java/token"
)

// NodeID addresses a node in its Tree. Parent, child and sibling links are
// NodeIDs; ownership runs from a parent to its children only.
type NodeID int32

// NoNode marks an absent link, such as the parent of a file or the
// enclosing type of a top-level declaration.
const NoNode NodeID = -1

// Node is one element of the syntax tree. Its scope, file and type context
// is captured when the node is constructed and never changes afterwards.
type Node struct {
	Kind  Kind
	Token *token.Token

	id       NodeID
	parent   NodeID
	children []NodeID
	next     NodeID

	scope *SymbolTable
	file  NodeID
	typ   NodeID

	// name is the declared or referenced identifier for declarators,
	// parameters, labels, names, calls, member accesses and jumps.
	name string
	// dims counts array brackets written after a declarator name.
	dims int
	// message describes a KindError node.
	message string

	fileInfo *FileInfo
	typeDecl *TypeDecl
	method   *Method
	typeRef  *typeRef
	stmt     *stmtState
}

func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) Parent() NodeID {
	return n.parent
}

// Children returns the node's children in source order. The slice must not
// be modified.
func (n *Node) Children() []NodeID {
	return n.children
}

// Next returns the statement that follows this one in the same block or
// switch group, or NoNode.
func (n *Node) Next() NodeID {
	return n.next
}

// Scope returns the scope that was current when the node was constructed.
// For scope-introducing nodes it is the scope the node opened.
func (n *Node) Scope() *SymbolTable {
	return n.scope
}

// File returns the compilation unit the node was parsed in.
func (n *Node) File() NodeID {
	return n.file
}

// EnclosingType returns the innermost type declaration being parsed when
// the node was constructed, or NoNode at top level.
func (n *Node) EnclosingType() NodeID {
	return n.typ
}

// Name returns the identifier attached to the node, if any.
func (n *Node) Name() string {
	return n.name
}

// Text returns the token text of a leaf; interior nodes have none.
func (n *Node) Text() string {
	if n.Token == nil {
		return ""
	}
	return n.Token.Text
}

func (n *Node) IsLeaf() bool {
	return n.Token != nil
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

// ErrorMessage describes what went wrong for KindError nodes.
func (n *Node) ErrorMessage() string {
	return n.message
}
