package ast

import (
	"strings"

	"github.com/dhamidi/jresolve/java/token"
)

// Tree is the node arena of one compilation run. Nodes are appended during
// construction and never removed; a NodeID stays valid for the life of the
// tree.
type Tree struct {
	nodes []*Node
	ctx   *CompileContext
	calls map[NodeID]*callee
	// inferring guards var declarators whose initializer is being typed.
	inferring map[NodeID]bool
}

func newTree(ctx *CompileContext) *Tree {
	return &Tree{
		ctx:       ctx,
		calls:     make(map[NodeID]*callee),
		inferring: make(map[NodeID]bool),
	}
}

// Context returns the compilation run this tree belongs to.
func (t *Tree) Context() *CompileContext {
	return t.ctx
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. It panics on an invalid id.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(invariantf("node %d out of range (tree has %d nodes)", id, len(t.nodes)))
	}
	return t.nodes[id]
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

func (t *Tree) add(n *Node) NodeID {
	n.id = NodeID(len(t.nodes))
	n.parent = NoNode
	n.next = NoNode
	t.nodes = append(t.nodes, n)
	return n.id
}

func (t *Tree) Kind(id NodeID) Kind {
	if !t.valid(id) {
		return KindError
	}
	return t.nodes[id].Kind
}

func (t *Tree) Parent(id NodeID) NodeID {
	return t.Node(id).parent
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.Node(id).children
}

func (t *Tree) Next(id NodeID) NodeID {
	return t.Node(id).next
}

// AddChild appends child to parent. Statements appended to a block or
// switch group are linked to the preceding statement of that sequence.
func (t *Tree) AddChild(parent, child NodeID) {
	if child == NoNode {
		return
	}
	p := t.Node(parent)
	c := t.Node(child)
	if c.parent != NoNode {
		panic(invariantf("%s node %d already has parent %d", c.Kind, child, c.parent))
	}
	if p.Kind.isSequence() && c.Kind.IsStatement() {
		for i := len(p.children) - 1; i >= 0; i-- {
			prev := t.nodes[p.children[i]]
			if prev.Kind.IsStatement() {
				prev.next = child
				break
			}
		}
	}
	c.parent = parent
	p.children = append(p.children, child)
}

// FirstChildOfKind returns the first direct child of the given kind.
func (t *Tree) FirstChildOfKind(id NodeID, kind Kind) NodeID {
	for _, c := range t.Node(id).children {
		if t.nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

func (t *Tree) ChildrenOfKind(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Node(id).children {
		if t.nodes[c].Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Statements returns the direct statement children of id.
func (t *Tree) Statements(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Node(id).children {
		if t.nodes[c].Kind.IsStatement() {
			out = append(out, c)
		}
	}
	return out
}

// Expressions returns the direct expression children of id.
func (t *Tree) Expressions(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Node(id).children {
		if t.nodes[c].Kind.IsExpression() {
			out = append(out, c)
		}
	}
	return out
}

// HasToken reports whether id has a direct leaf child of the given token
// kind.
func (t *Tree) HasToken(id NodeID, kind token.Kind) bool {
	for _, c := range t.Node(id).children {
		if tok := t.nodes[c].Token; tok != nil && tok.Kind == kind {
			return true
		}
	}
	return false
}

// Ancestor returns the nearest proper ancestor of id for which match
// returns true, or NoNode.
func (t *Tree) Ancestor(id NodeID, match func(*Node) bool) NodeID {
	for p := t.Node(id).parent; p != NoNode; p = t.nodes[p].parent {
		if match(t.nodes[p]) {
			return p
		}
	}
	return NoNode
}

// IsAncestor reports whether anc is id or one of its ancestors.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for n := id; n != NoNode; n = t.nodes[n].parent {
		if n == anc {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants depth-first in source order. Returning
// false from fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.Node(id).children {
		t.Walk(c, fn)
	}
}

// Leaves returns the token leaves under id in source order.
func (t *Tree) Leaves(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) bool {
		if t.nodes[n].Token != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Span covers the first through last token under id.
func (t *Tree) Span(id NodeID) token.Span {
	leaves := t.Leaves(id)
	if len(leaves) == 0 {
		return token.Span{}
	}
	return token.Span{
		Start: t.nodes[leaves[0]].Token.Span.Start,
		End:   t.nodes[leaves[len(leaves)-1]].Token.Span.End,
	}
}

// Text joins the token texts under id with single spaces, dropping hidden
// tokens. It is meant for messages, not for reproducing source.
func (t *Tree) Text(id NodeID) string {
	var parts []string
	for _, leaf := range t.Leaves(id) {
		if text := t.nodes[leaf].Token.Text; text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// compactText joins token texts without separators, for dotted names.
func (t *Tree) compactText(id NodeID) string {
	var sb strings.Builder
	for _, leaf := range t.Leaves(id) {
		sb.WriteString(t.nodes[leaf].Token.Text)
	}
	return sb.String()
}

// NodeAt returns the innermost node under root whose span contains the
// 1-based line and column, or NoNode.
func (t *Tree) NodeAt(root NodeID, line, column int) NodeID {
	found := NoNode
	t.Walk(root, func(id NodeID) bool {
		if t.nodes[id].Token != nil {
			if t.nodes[id].Token.Span.Contains(line, column) {
				found = id
			}
			return false
		}
		span := t.Span(id)
		if !span.Contains(line, column) {
			return false
		}
		found = id
		return true
	})
	return found
}

// EnclosingStatement returns id if it is a statement, else its nearest
// statement ancestor, or NoNode.
func (t *Tree) EnclosingStatement(id NodeID) NodeID {
	for n := id; n != NoNode; n = t.nodes[n].parent {
		if t.nodes[n].Kind.IsStatement() {
			return n
		}
	}
	return NoNode
}
