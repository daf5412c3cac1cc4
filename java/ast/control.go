package ast

import "github.com/dhamidi/jresolve/java/token"

// noNodes is the shared empty successor set.
var noNodes = []NodeID{}

func (t *Tree) state(n *Node) *stmtState {
	if n.stmt == nil {
		n.stmt = &stmtState{}
	}
	return n.stmt
}

// memo runs compute for attr at most once per node. A computation that
// re-enters itself for the same node is a defect and panics.
func (t *Tree) memo(n *Node, attr attrSet, compute func(*stmtState)) *stmtState {
	st := t.state(n)
	if st.done&attr != 0 {
		return st
	}
	if st.busy&attr != 0 {
		panic(invariantf("%s attribute of %s node %d depends on itself", attrName(attr), n.Kind, n.id))
	}
	st.busy |= attr
	compute(st)
	st.busy &^= attr
	st.done |= attr
	return st
}

func attrName(attr attrSet) string {
	switch attr {
	case attrControl:
		return "control"
	case attrExceptions:
		return "exceptions"
	case attrVars:
		return "varlist"
	}
	return "unknown"
}

// Control returns the statements control may reach when stmt completes
// normally or jumps. An empty result means control returns to the caller.
// The slice is memoized and must not be modified.
func (t *Tree) Control(stmt NodeID) []NodeID {
	n := t.Node(stmt)
	if !n.Kind.IsStatement() {
		panic(invariantf("control of %s node %d", n.Kind, stmt))
	}
	return t.memo(n, attrControl, func(st *stmtState) {
		st.control = t.computeControl(n)
	}).control
}

type nodeSet struct {
	list []NodeID
}

func (s *nodeSet) add(ids ...NodeID) {
outer:
	for _, id := range ids {
		if id == NoNode {
			continue
		}
		for _, have := range s.list {
			if have == id {
				continue outer
			}
		}
		s.list = append(s.list, id)
	}
}

func (s *nodeSet) result() []NodeID {
	if len(s.list) == 0 {
		return noNodes
	}
	return s.list
}

func (t *Tree) computeControl(n *Node) []NodeID {
	var out nodeSet
	id := n.id
	stmts := t.Statements(id)
	switch n.Kind {
	case KindBlock:
		if len(stmts) > 0 {
			out.add(stmts[0])
		} else {
			out.add(t.follow(id)...)
		}
	case KindIfStmt:
		out.add(stmts...)
		if len(stmts) < 2 {
			out.add(t.follow(id)...)
		}
	case KindWhileStmt, KindForStmt:
		out.add(stmts...)
		if !t.loopsForever(n) {
			out.add(t.follow(id)...)
		}
	case KindDoStmt:
		out.add(stmts...)
		if !t.loopsForever(n) {
			out.add(t.follow(id)...)
		}
	case KindEnhancedForStmt:
		out.add(stmts...)
		out.add(t.follow(id)...)
	case KindSwitchStmt:
		hasDefault := false
		cases := t.ChildrenOfKind(id, KindSwitchCase)
		for i, c := range cases {
			if t.hasDefaultLabel(c) {
				hasDefault = true
			}
			if first := t.caseEntry(cases, i); first != NoNode {
				out.add(first)
			} else {
				out.add(t.follow(id)...)
			}
		}
		if !hasDefault {
			out.add(t.follow(id)...)
		}
	case KindLabeledStmt, KindSynchronizedStmt:
		out.add(stmts...)
		if len(stmts) == 0 {
			out.add(t.follow(id)...)
		}
	case KindTryStmt:
		out.add(t.FirstChildOfKind(id, KindBlock))
	case KindBreakStmt:
		target := t.breakTarget(n)
		if target == NoNode {
			return noNodes
		}
		out.add(t.jump(id, target, t.follow(target))...)
	case KindContinueStmt:
		target := t.continueTarget(n)
		if target == NoNode {
			return noNodes
		}
		out.add(t.jump(id, target, []NodeID{target})...)
	case KindReturnStmt:
		out.add(t.jump(id, NoNode, noNodes)...)
	case KindThrowStmt:
		out.add(t.throwTarget(n)...)
	default:
		out.add(t.follow(id)...)
	}
	return out.result()
}

// follow is where control goes when s completes normally: the next
// statement of its sequence, or wherever its enclosing construct sends
// control once the construct itself completes.
func (t *Tree) follow(s NodeID) []NodeID {
	n := t.nodes[s]
	if n.next != NoNode {
		return []NodeID{n.next}
	}
	p := n.parent
	if p == NoNode {
		return noNodes
	}
	pn := t.nodes[p]
	switch pn.Kind {
	case KindBlock, KindIfStmt, KindLabeledStmt, KindSynchronizedStmt:
		return t.follow(p)
	case KindWhileStmt, KindDoStmt, KindForStmt, KindEnhancedForStmt:
		return []NodeID{p}
	case KindSwitchCase:
		sw := pn.parent
		if t.isArrowCase(p) {
			return t.follow(sw)
		}
		cases := t.ChildrenOfKind(sw, KindSwitchCase)
		for i, c := range cases {
			if c != p {
				continue
			}
			for j := i + 1; j < len(cases); j++ {
				if first := t.firstStatement(cases[j]); first != NoNode {
					return []NodeID{first}
				}
			}
		}
		return t.follow(sw)
	case KindTryStmt:
		if fin := t.finallyBlock(p); fin != NoNode && fin != s {
			return []NodeID{fin}
		}
		return t.follow(p)
	case KindCatchClause:
		try := pn.parent
		if fin := t.finallyBlock(try); fin != NoNode {
			return []NodeID{fin}
		}
		return t.follow(try)
	case KindFinallyClause:
		return t.follow(pn.parent)
	}
	return noNodes
}

func (t *Tree) firstStatement(id NodeID) NodeID {
	for _, c := range t.nodes[id].children {
		if t.nodes[c].Kind.IsStatement() {
			return c
		}
	}
	return NoNode
}

// caseEntry is the first statement executed when cases[i] matches: its own
// first statement, or for an empty colon group the next group's.
func (t *Tree) caseEntry(cases []NodeID, i int) NodeID {
	if first := t.firstStatement(cases[i]); first != NoNode || t.isArrowCase(cases[i]) {
		return first
	}
	for j := i + 1; j < len(cases); j++ {
		if first := t.firstStatement(cases[j]); first != NoNode {
			return first
		}
	}
	return NoNode
}

func (t *Tree) isArrowCase(c NodeID) bool {
	for _, label := range t.ChildrenOfKind(c, KindSwitchLabel) {
		if t.HasToken(label, token.Arrow) {
			return true
		}
	}
	return false
}

func (t *Tree) hasDefaultLabel(c NodeID) bool {
	for _, label := range t.ChildrenOfKind(c, KindSwitchLabel) {
		if t.HasToken(label, token.Default) {
			return true
		}
	}
	return false
}

// finallyBlock returns the block of a try statement's finally clause.
func (t *Tree) finallyBlock(try NodeID) NodeID {
	fin := t.FirstChildOfKind(try, KindFinallyClause)
	if fin == NoNode {
		return NoNode
	}
	return t.FirstChildOfKind(fin, KindBlock)
}

// loopsForever reports a while or do loop whose condition is the literal
// true, or a for loop without condition.
func (t *Tree) loopsForever(n *Node) bool {
	exprs := t.Expressions(n.id)
	if n.Kind == KindForStmt {
		return len(exprs) == 0 || isTrueLiteral(t, exprs[0])
	}
	return len(exprs) > 0 && isTrueLiteral(t, exprs[0])
}

func isTrueLiteral(t *Tree, expr NodeID) bool {
	n := t.nodes[expr]
	switch n.Kind {
	case KindParenExpr:
		exprs := t.Expressions(expr)
		return len(exprs) == 1 && isTrueLiteral(t, exprs[0])
	case KindLiteral:
		return t.HasToken(expr, token.True)
	}
	return false
}

// breakTarget is the statement a break leaves: the labeled statement named
// by its label, else the innermost loop or switch.
func (t *Tree) breakTarget(n *Node) NodeID {
	if n.name != "" {
		return t.labeled(n.id, n.name)
	}
	return t.Ancestor(n.id, func(a *Node) bool {
		return a.Kind.IsLoop() || a.Kind == KindSwitchStmt || a.Kind.isBoundary()
	})
}

// continueTarget is the loop a continue resumes.
func (t *Tree) continueTarget(n *Node) NodeID {
	if n.name != "" {
		lbl := t.labeled(n.id, n.name)
		if lbl == NoNode {
			return NoNode
		}
		inner := t.Statements(lbl)
		for len(inner) == 1 && t.nodes[inner[0]].Kind == KindLabeledStmt {
			inner = t.Statements(inner[0])
		}
		if len(inner) == 1 && t.nodes[inner[0]].Kind.IsLoop() {
			return inner[0]
		}
		return NoNode
	}
	target := t.Ancestor(n.id, func(a *Node) bool {
		return a.Kind.IsLoop() || a.Kind.isBoundary()
	})
	if target != NoNode && t.nodes[target].Kind.isBoundary() {
		return NoNode
	}
	return target
}

func (t *Tree) labeled(from NodeID, label string) NodeID {
	target := t.Ancestor(from, func(a *Node) bool {
		return (a.Kind == KindLabeledStmt && a.name == label) || a.Kind.isBoundary()
	})
	if target != NoNode && t.nodes[target].Kind.isBoundary() {
		return NoNode
	}
	return target
}

// jump computes the successors of a statement transferring control out to
// target, which is NoNode for leaving the method. A finally block lying
// between the two runs first.
func (t *Tree) jump(from, target NodeID, dest []NodeID) []NodeID {
	if target != NoNode && t.nodes[target].Kind.isBoundary() {
		return noNodes
	}
	child := from
	for p := t.nodes[from].parent; p != NoNode && p != target; p = t.nodes[p].parent {
		pn := t.nodes[p]
		if pn.Kind.isBoundary() {
			break
		}
		if pn.Kind == KindTryStmt && t.nodes[child].Kind != KindFinallyClause {
			if fin := t.finallyBlock(p); fin != NoNode {
				return []NodeID{fin}
			}
		}
		child = p
	}
	return dest
}

// throwTarget finds the catch block that receives the exception a throw
// statement raises, passing through finally blocks of try statements that
// do not catch it.
func (t *Tree) throwTarget(n *Node) []NodeID {
	thrown := Type{}
	if exprs := t.Expressions(n.id); len(exprs) > 0 {
		thrown = t.ExprType(exprs[0])
	}
	child := n.id
	for p := n.parent; p != NoNode; p = t.nodes[p].parent {
		pn := t.nodes[p]
		if pn.Kind.isBoundary() {
			break
		}
		if pn.Kind == KindTryStmt {
			inTry := t.nodes[child].Kind == KindBlock && child == t.FirstChildOfKind(p, KindBlock)
			if inTry && thrown.IsClass() {
				for _, cc := range t.ChildrenOfKind(p, KindCatchClause) {
					if t.catches(cc, thrown) {
						return []NodeID{t.FirstChildOfKind(cc, KindBlock)}
					}
				}
			}
			if t.nodes[child].Kind != KindFinallyClause {
				if fin := t.finallyBlock(p); fin != NoNode {
					return []NodeID{fin}
				}
			}
		}
		child = p
	}
	return noNodes
}

// catches reports whether a catch clause catches the thrown type.
func (t *Tree) catches(catchClause NodeID, thrown Type) bool {
	for _, ct := range t.CatchTypes(catchClause) {
		if t.ctx.IsSubtype(thrown, ct) {
			return true
		}
	}
	return false
}
