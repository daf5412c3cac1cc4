package ast

// Complete runs the completion phase over every constructed file, once per
// file. Files registered while completing, such as ones the loader
// brings in, are completed in later rounds. Calling Complete again only
// completes files registered since.
func (c *CompileContext) Complete() {
	for round := 1; ; round++ {
		var pending []NodeID
		for _, f := range c.files {
			if c.states[f] == FileConstructed {
				pending = append(pending, f)
			}
		}
		if len(pending) == 0 {
			return
		}
		log.Debugf("completion round %d: %d files", round, len(pending))
		for _, f := range pending {
			c.states[f] = FileCompleted
			c.tree.complete(f)
		}
	}
}

// CompleteFile runs the completion phase for one constructed file.
func (c *CompileContext) CompleteFile(file NodeID) {
	if c.states[file] != FileConstructed {
		return
	}
	c.states[file] = FileCompleted
	c.tree.complete(file)
}

// complete forces the attributes of id and its descendants that need the
// whole tree, reporting what cannot be resolved.
func (t *Tree) complete(id NodeID) {
	n := t.nodes[id]
	switch {
	case n.Token != nil:
		return
	case n.Kind == KindCompilationUnit:
		t.checkImports(id)
	case n.Kind.IsTypeDecl():
		t.supertypes(id)
	case n.Kind == KindMethodDecl, n.Kind == KindConstructorDecl:
		t.methodThrows(n.method)
	case n.Kind == KindLocalClassDecl:
		t.Control(id)
		t.Exceptions(id)
		t.VarList(id)
		if def := t.TypeDef(id); def != NoNode {
			t.complete(def)
		}
		return
	case n.Kind == KindCatchClause:
		t.CatchTypes(id)
		t.VarList(id)
	case n.Kind == KindType:
		t.ResolveType(id)
	case n.Kind == KindName:
		t.checkName(id)
	case n.Kind.IsStatement():
		t.Control(id)
		t.Exceptions(id)
		t.VarList(id)
	case n.Kind == KindFieldDecl, n.Kind == KindParameters:
		t.VarList(id)
	}
	for _, c := range n.children {
		t.complete(c)
	}
}
