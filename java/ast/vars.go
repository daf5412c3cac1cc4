package ast

// VarList returns the variables a construct introduces into the scope it
// contributes to: the declarators of a local variable, field or for-init
// declaration, the parameter of a catch clause, the loop variable of an
// enhanced for, method parameters and resources. Every other construct,
// a local class statement included, introduces nothing.
func (t *Tree) VarList(id NodeID) VarList {
	n := t.Node(id)
	return t.memo(n, attrVars, func(st *stmtState) {
		st.vars = t.computeVarList(n)
	}).vars
}

func (t *Tree) computeVarList(n *Node) VarList {
	switch n.Kind {
	case KindLocalVarDecl, KindFieldDecl, KindForInit, KindCatchClause,
		KindEnhancedForStmt, KindParameters, KindParameter, KindResources,
		KindResource, KindVarDeclarator:
	default:
		return VarList{}
	}
	decls := t.declarators(n.id)
	if len(decls) == 0 {
		return VarList{}
	}
	vars := make([]Var, 0, len(decls))
	for _, d := range decls {
		vars = append(vars, Var{
			Name: t.nodes[d].name,
			Type: t.DeclaredType(d),
			Node: d,
		})
	}
	return NewVarList(vars...)
}
