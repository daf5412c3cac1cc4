package ast

// Exceptions returns the checked exception types that may escape stmt, in
// encounter order without duplicates. Statements that raise nothing share
// NoTypes. The slice is memoized and must not be modified.
func (t *Tree) Exceptions(stmt NodeID) []Type {
	n := t.Node(stmt)
	if !n.Kind.IsStatement() {
		panic(invariantf("exceptions of %s node %d", n.Kind, stmt))
	}
	return t.memo(n, attrExceptions, func(st *stmtState) {
		st.exceptions = t.computeExceptions(n)
	}).exceptions
}

func (t *Tree) computeExceptions(n *Node) []Type {
	var set typeSet
	switch n.Kind {
	case KindLocalClassDecl:
		return NoTypes
	case KindThrowStmt:
		t.collect(n.id, &set)
		if exprs := t.Expressions(n.id); len(exprs) > 0 {
			thrown := t.ExprType(exprs[0])
			if t.ctx.IsChecked(thrown) {
				set.add(thrown)
			}
		}
	case KindTryStmt:
		t.tryExceptions(n, &set)
	default:
		t.collect(n.id, &set)
	}
	return set.result()
}

func (t *Tree) tryExceptions(n *Node, set *typeSet) {
	var escaping typeSet
	if res := t.FirstChildOfKind(n.id, KindResources); res != NoNode {
		t.collectNode(res, &escaping)
		for _, r := range t.ChildrenOfKind(res, KindResource) {
			escaping.add(t.closeExceptions(r)...)
		}
	}
	if body := t.FirstChildOfKind(n.id, KindBlock); body != NoNode {
		escaping.add(t.Exceptions(body)...)
	}
	catches := t.ChildrenOfKind(n.id, KindCatchClause)
	for _, thrown := range escaping.list {
		caught := false
		for _, cc := range catches {
			if t.catches(cc, thrown) {
				caught = true
				break
			}
		}
		if !caught {
			set.add(thrown)
		}
	}
	for _, cc := range catches {
		if blk := t.FirstChildOfKind(cc, KindBlock); blk != NoNode {
			set.add(t.Exceptions(blk)...)
		}
	}
	if fin := t.finallyBlock(n.id); fin != NoNode {
		set.add(t.Exceptions(fin)...)
	}
}

// closeExceptions are the checked exceptions of the close() call a
// try-with-resources statement makes on a resource.
func (t *Tree) closeExceptions(resource NodeID) []Type {
	rt := t.DeclaredType(resource)
	if t.nodes[resource].name == "" {
		if exprs := t.Expressions(resource); len(exprs) > 0 {
			rt = t.ExprType(exprs[0])
		}
	}
	if !rt.IsClass() {
		return NoTypes
	}
	c, _ := t.findMethod(rt, "close", 0)
	return t.checked(c.throws)
}

func (t *Tree) checked(types []Type) []Type {
	var set typeSet
	for _, ty := range types {
		if t.ctx.IsChecked(ty) {
			set.add(ty)
		}
	}
	return set.result()
}

// collect adds the exceptions of id's children: memoized sets of nested
// statements, and the calls and instance creations of everything else.
// Lambda bodies and class bodies run elsewhere and contribute nothing.
func (t *Tree) collect(id NodeID, set *typeSet) {
	for _, c := range t.nodes[id].children {
		t.collectNode(c, set)
	}
}

func (t *Tree) collectNode(id NodeID, set *typeSet) {
	n := t.nodes[id]
	switch {
	case n.Token != nil:
		return
	case n.Kind.IsStatement():
		set.add(t.Exceptions(id)...)
		return
	case n.Kind == KindLambdaExpr, n.Kind == KindClassBody, n.Kind.IsTypeDecl():
		return
	case n.Kind == KindCallExpr, n.Kind == KindNewExpr:
		set.add(t.checked(t.Throws(id))...)
	}
	t.collect(id, set)
}
