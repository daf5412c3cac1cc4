package ast

import (
	"strings"

	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

// declarators returns the nodes that declare the names id introduces.
func (t *Tree) declarators(id NodeID) []NodeID {
	n := t.Node(id)
	switch n.Kind {
	case KindLocalVarDecl, KindFieldDecl, KindForInit:
		return t.ChildrenOfKind(id, KindVarDeclarator)
	case KindParameters:
		return t.ChildrenOfKind(id, KindParameter)
	case KindTypeParameters:
		return t.ChildrenOfKind(id, KindTypeParameter)
	case KindResources:
		var out []NodeID
		for _, r := range t.ChildrenOfKind(id, KindResource) {
			if t.nodes[r].name != "" {
				out = append(out, r)
			}
		}
		return out
	case KindCatchClause, KindEnhancedForStmt:
		if p := t.FirstChildOfKind(id, KindParameter); p != NoNode {
			return []NodeID{p}
		}
	case KindParameter, KindResource, KindEnumConstant, KindTypeParameter, KindVarDeclarator:
		if n.name != "" {
			return []NodeID{id}
		}
	}
	return nil
}

// DeclaredType returns the type of the variable a declarator, parameter,
// resource or enum constant node declares.
func (t *Tree) DeclaredType(decl NodeID) Type {
	n := t.Node(decl)
	switch n.Kind {
	case KindVarDeclarator:
		ref := t.FirstChildOfKind(n.parent, KindType)
		if ref == NoNode {
			return Type{}
		}
		declared := t.ResolveType(ref)
		if declared == UnknownType("var") {
			return t.inferred(decl)
		}
		return ArrayOf(declared, n.dims)
	case KindParameter:
		ref := t.FirstChildOfKind(decl, KindType)
		if ref == NoNode {
			return Type{}
		}
		dims := n.dims
		if t.HasToken(decl, token.Ellipsis) {
			dims++
		}
		return ArrayOf(t.ResolveType(ref), dims)
	case KindResource:
		if ref := t.FirstChildOfKind(decl, KindType); ref != NoNode {
			return t.ResolveType(ref)
		}
	case KindEnumConstant:
		return t.TypeOf(n.typ)
	}
	return Type{}
}

// inferred types a var declarator from its initializer.
func (t *Tree) inferred(decl NodeID) Type {
	exprs := t.Expressions(decl)
	if len(exprs) == 0 || t.inferring[decl] {
		return UnknownType("var")
	}
	t.inferring[decl] = true
	defer delete(t.inferring, decl)
	if it := t.ExprType(exprs[0]); it.IsKnown() {
		return it
	}
	return UnknownType("var")
}

// CatchTypes returns the types a catch clause catches, one per alternative
// of a multi-catch.
func (t *Tree) CatchTypes(catchClause NodeID) []Type {
	param := t.FirstChildOfKind(catchClause, KindParameter)
	if param == NoNode {
		return NoTypes
	}
	var set typeSet
	for _, ref := range t.ChildrenOfKind(param, KindType) {
		if ct := t.ResolveType(ref); ct.IsKnown() {
			set.add(ct)
		}
	}
	return set.result()
}

// LookupVar resolves a simple variable name used at node from: locals and
// parameters in scope, then fields of the enclosing types and their
// supertypes.
func (t *Tree) LookupVar(from NodeID, name string) (Type, bool) {
	n := t.Node(from)
	if d := n.scope.LookupVisible(name, from); d != nil {
		return t.DeclaredType(d.Node), true
	}
	for typ := n.typ; typ != NoNode; typ = t.nodes[typ].typeDecl.Outer {
		if ft, ok := t.fieldType(t.TypeOf(typ), name); ok {
			return ft, true
		}
	}
	return Type{}, false
}

// checkName reports a simple name used inside a block that is neither a
// variable in scope nor a type. Names that could be fields of an unknown
// supertype, statically imported members or packages are left alone.
func (t *Tree) checkName(id NodeID) {
	n := t.nodes[id]
	if n.parent == NoNode || !t.inBlock(id) {
		return
	}
	switch parent := t.nodes[n.parent]; parent.Kind {
	case KindSwitchLabel, KindError:
		return
	case KindFieldAccess:
		if t.Receiver(parent.id) == id {
			// Possibly the head of a package name.
			return
		}
	}
	if _, ok := t.LookupVar(id, n.name); ok {
		return
	}
	if t.boundByPattern(id, n.name) {
		return
	}
	if _, ok := t.resolveName(id, n.name); ok {
		return
	}
	if _, ok := t.failedImport(n, n.name); ok {
		return
	}
	if !t.reportsUnknownTypes(n.file) && isUpper(n.name) {
		return
	}
	for _, imp := range t.nodes[n.file].fileInfo.Imports {
		if imp.Static && (imp.OnDemand || strings.HasSuffix(imp.Name, "."+n.name)) {
			return
		}
	}
	for typ := n.typ; typ != NoNode; typ = t.nodes[typ].typeDecl.Outer {
		if !t.hierarchyKnown(t.TypeOf(typ)) {
			return
		}
	}
	t.ctx.errorf(diag.CodeUnknownVariable, t.Span(id), "cannot find symbol: variable %s", n.name)
}

// boundByPattern reports whether an instanceof pattern before id in the
// same member body binds name. Flow scoping is not tracked.
func (t *Tree) boundByPattern(id NodeID, name string) bool {
	root := NoNode
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		if k := t.nodes[p].Kind; k == KindClassBody || k.IsTypeDecl() {
			break
		}
		root = p
	}
	if root == NoNode {
		return false
	}
	found := false
	t.Walk(root, func(c NodeID) bool {
		if t.nodes[c].Kind == KindInstanceofExpr && c < id && t.nodes[c].name == name {
			found = true
		}
		return !found
	})
	return found
}

// inBlock reports whether id sits in a block of code rather than in a
// field initializer or annotation.
func (t *Tree) inBlock(id NodeID) bool {
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		switch k := t.nodes[p].Kind; {
		case k == KindBlock:
			return true
		case k == KindClassBody, k.IsTypeDecl():
			return false
		}
	}
	return false
}

// hierarchyKnown reports whether owner and all of its supertypes are
// declared in source or described in the library table.
func (t *Tree) hierarchyKnown(owner Type) bool {
	seen := make(map[Type]bool)
	queue := []Type{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if !cur.IsClass() {
			return false
		}
		if t.ctx.declOf(cur) == NoNode && !t.ctx.registered(cur.Name) {
			return false
		}
		queue = append(queue, t.ctx.Supertypes(cur)...)
	}
	return true
}

func isUpper(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// fieldType finds a field declared in or inherited by owner.
func (t *Tree) fieldType(owner Type, name string) (Type, bool) {
	seen := make(map[Type]bool)
	queue := []Type{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] || !cur.IsClass() {
			continue
		}
		seen[cur] = true
		if id := t.ctx.declOf(cur); id != NoNode {
			if d := t.nodes[id].typeDecl.Members.LookupLocal(name); d != nil {
				return t.DeclaredType(d.Node), true
			}
		} else if lt, ok := t.ctx.library[cur.Name]; ok {
			if ft, ok := lt.Fields[name]; ok {
				return libraryType(ft), true
			}
		}
		queue = append(queue, t.ctx.Supertypes(cur)...)
	}
	return Type{}, false
}

// ExprType returns the static type of an expression as far as it can be
// told without full type checking; the zero Type when it cannot.
func (t *Tree) ExprType(expr NodeID) Type {
	n := t.Node(expr)
	exprs := t.Expressions(expr)
	switch n.Kind {
	case KindName:
		if vt, ok := t.LookupVar(expr, n.name); ok {
			return vt
		}
		if tt, ok := t.resolveName(expr, n.name); ok {
			return tt
		}
	case KindFieldAccess:
		if len(exprs) == 0 {
			break
		}
		rt := t.ExprType(exprs[0])
		if rt.IsArray() && n.name == "length" {
			return PrimitiveType("int")
		}
		if rt.IsClass() {
			if ft, ok := t.fieldType(rt, n.name); ok {
				return ft
			}
			if mt, ok := t.memberType(rt, n.name, true); ok {
				return mt
			}
			break
		}
		if dotted, ok := t.dottedName(expr); ok {
			if tt, ok := t.resolveName(expr, dotted); ok {
				return tt
			}
		}
	case KindThis:
		if n.typ != NoNode {
			return t.TypeOf(n.typ)
		}
	case KindSuper:
		if n.typ != NoNode {
			if supers := t.ctx.Supertypes(t.TypeOf(n.typ)); len(supers) > 0 {
				return supers[0]
			}
		}
	case KindNewExpr, KindCastExpr, KindClassLiteral:
		if n.Kind == KindClassLiteral {
			return ClassType("java.lang.Class")
		}
		if ref := t.FirstChildOfKind(expr, KindType); ref != NoNode {
			return t.ResolveType(ref)
		}
	case KindNewArrayExpr:
		if ref := t.FirstChildOfKind(expr, KindType); ref != NoNode {
			dims := 0
			for _, c := range n.children {
				if tok := t.nodes[c].Token; tok != nil && tok.Kind == token.LBracket {
					dims++
				}
			}
			return ArrayOf(t.ResolveType(ref), dims)
		}
	case KindCallExpr:
		return t.resolveCall(expr).result
	case KindParenExpr, KindAssignExpr:
		if len(exprs) > 0 {
			return t.ExprType(exprs[0])
		}
	case KindTernaryExpr:
		if len(exprs) == 3 {
			return t.ExprType(exprs[1])
		}
	case KindArrayAccess:
		if len(exprs) > 0 {
			if at := t.ExprType(exprs[0]); at.IsArray() {
				return at.ElementType()
			}
		}
	case KindInstanceofExpr:
		return PrimitiveType("boolean")
	case KindLiteral:
		return literalType(n, t)
	}
	return Type{}
}

func literalType(n *Node, t *Tree) Type {
	for _, c := range n.children {
		tok := t.nodes[c].Token
		if tok == nil {
			continue
		}
		switch tok.Kind {
		case token.StringLiteral, token.TextBlock:
			return StringType
		case token.Null:
			return NullType
		case token.True, token.False:
			return PrimitiveType("boolean")
		case token.CharLiteral:
			return PrimitiveType("char")
		case token.IntLiteral:
			if last := tok.Text[len(tok.Text)-1]; last == 'l' || last == 'L' {
				return PrimitiveType("long")
			}
			return PrimitiveType("int")
		case token.FloatLiteral:
			if last := tok.Text[len(tok.Text)-1]; last == 'f' || last == 'F' {
				return PrimitiveType("float")
			}
			return PrimitiveType("double")
		}
	}
	return Type{}
}

// dottedName spells a chain of names and field accesses such as
// java.io.File, which may denote a type rather than a value.
func (t *Tree) dottedName(expr NodeID) (string, bool) {
	n := t.nodes[expr]
	switch n.Kind {
	case KindName:
		return n.name, true
	case KindFieldAccess:
		exprs := t.Expressions(expr)
		if len(exprs) == 0 {
			return "", false
		}
		prefix, ok := t.dottedName(exprs[0])
		if !ok {
			return "", false
		}
		return prefix + "." + n.name, true
	}
	return "", false
}

// callee is the resolved target of a call or instance creation.
type callee struct {
	throws []Type
	result Type
	found  bool
}

// Receiver returns the qualifying expression of a call or field access, or
// NoNode for an unqualified call.
func (t *Tree) Receiver(expr NodeID) NodeID {
	n := t.Node(expr)
	if n.Kind != KindCallExpr && n.Kind != KindFieldAccess {
		return NoNode
	}
	if !t.HasToken(expr, token.Dot) {
		return NoNode
	}
	for _, c := range n.children {
		if t.nodes[c].Kind.IsExpression() {
			return c
		}
	}
	return NoNode
}

func (t *Tree) argCount(expr NodeID) int {
	args := t.FirstChildOfKind(expr, KindArguments)
	if args == NoNode {
		return 0
	}
	return len(t.Expressions(args))
}

// Throws returns the exceptions the method or constructor invoked by a
// call or instance creation declares, checked or not. The slice must not
// be modified.
func (t *Tree) Throws(expr NodeID) []Type {
	return t.resolveCall(expr).throws
}

func (t *Tree) resolveCall(expr NodeID) *callee {
	if c, ok := t.calls[expr]; ok {
		return c
	}
	c := &callee{throws: NoTypes}
	t.calls[expr] = c
	n := t.Node(expr)
	arity := t.argCount(expr)
	switch n.Kind {
	case KindNewExpr:
		if ref := t.FirstChildOfKind(expr, KindType); ref != NoNode {
			*c = t.findConstructor(t.ResolveType(ref), arity)
		}
	case KindCallExpr:
		*c = t.resolveMethodCall(n, arity)
		if !c.found {
			log.Debugf("unresolved call %s at %s", n.name, t.Span(expr).Start)
		}
	}
	return c
}

func (t *Tree) resolveMethodCall(n *Node, arity int) callee {
	if n.name == "this" || n.name == "super" {
		if n.typ == NoNode {
			return callee{throws: NoTypes}
		}
		owner := t.TypeOf(n.typ)
		if n.name == "super" {
			supers := t.ctx.Supertypes(owner)
			if len(supers) == 0 {
				return callee{throws: NoTypes}
			}
			owner = supers[0]
		}
		return t.findConstructor(owner, arity)
	}
	if recv := t.Receiver(n.id); recv != NoNode {
		rt := t.ExprType(recv)
		if !rt.IsClass() {
			return callee{throws: NoTypes}
		}
		c, complete := t.findMethod(rt, n.name, arity)
		if !c.found && complete && t.ctx.declOf(rt) != NoNode {
			t.ctx.warnf(diag.CodeUnresolvedMethod, t.Span(n.id), "cannot find method %s(%d) in %s", n.name, arity, rt)
		}
		return c
	}
	allComplete := true
	for typ := n.typ; typ != NoNode; typ = t.nodes[typ].typeDecl.Outer {
		c, complete := t.findMethod(t.TypeOf(typ), n.name, arity)
		if c.found {
			return c
		}
		allComplete = allComplete && complete
	}
	for _, imp := range t.nodes[n.file].fileInfo.Imports {
		if !imp.Static {
			continue
		}
		owner := imp.Name
		if !imp.OnDemand {
			head, last := splitLast(imp.Name)
			if last != n.name {
				continue
			}
			owner = head
		}
		c, complete := t.findMethod(ClassType(owner), n.name, arity)
		if c.found {
			return c
		}
		allComplete = allComplete && complete
	}
	if allComplete {
		t.ctx.warnf(diag.CodeUnresolvedMethod, t.Span(n.id), "cannot find method %s(%d)", n.name, arity)
	}
	return callee{throws: NoTypes}
}

func splitLast(name string) (string, string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

// findMethod searches owner and its supertypes for a method called name
// accepting arity arguments; the first match wins. complete is false when
// part of the hierarchy is unknown, so a miss proves nothing.
func (t *Tree) findMethod(owner Type, name string, arity int) (callee, bool) {
	complete := true
	seen := make(map[Type]bool)
	queue := []Type{owner}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] || !cur.IsClass() {
			continue
		}
		seen[cur] = true
		if id := t.ctx.declOf(cur); id != NoNode {
			for _, m := range t.nodes[id].typeDecl.Methods {
				if !m.Constructor && m.Name == name && m.Accepts(arity) {
					return callee{throws: t.methodThrows(m), result: t.methodResult(m), found: true}, true
				}
			}
		} else if lt, ok := t.ctx.library[cur.Name]; ok {
			for _, lm := range lt.Methods {
				if lm.Name == name && lm.accepts(arity) {
					return callee{throws: libraryTypes(lm.Throws), result: libraryType(lm.Result), found: true}, true
				}
			}
		} else {
			complete = false
		}
		queue = append(queue, t.ctx.Supertypes(cur)...)
		if len(queue) == 0 && !seen[ObjectType] {
			queue = append(queue, ObjectType)
		}
	}
	return callee{throws: NoTypes}, complete
}

// findConstructor selects the constructor of owner accepting arity
// arguments. A class without declared constructors has a default one that
// throws nothing.
func (t *Tree) findConstructor(owner Type, arity int) callee {
	if !owner.IsClass() {
		return callee{throws: NoTypes}
	}
	if id := t.ctx.declOf(owner); id != NoNode {
		declared := false
		for _, m := range t.nodes[id].typeDecl.Methods {
			if !m.Constructor {
				continue
			}
			declared = true
			if m.Accepts(arity) {
				return callee{throws: t.methodThrows(m), result: owner, found: true}
			}
		}
		if declared {
			return callee{throws: NoTypes, result: owner}
		}
		return callee{throws: NoTypes, result: owner, found: true}
	}
	if lt, ok := t.ctx.library[owner.Name]; ok {
		for _, lm := range lt.Methods {
			if lm.Name == "<init>" && lm.accepts(arity) {
				return callee{throws: libraryTypes(lm.Throws), result: owner, found: true}
			}
		}
	}
	return callee{throws: NoTypes, result: owner, found: true}
}

// methodThrows resolves the throws clause of a source method once.
func (t *Tree) methodThrows(m *Method) []Type {
	if m.resolved {
		return m.throws
	}
	m.resolved = true
	var set typeSet
	for _, ref := range m.ThrowsList {
		set.add(t.ResolveType(ref))
	}
	m.throws = set.result()
	return m.throws
}

func (t *Tree) methodResult(m *Method) Type {
	if m.Result == NoNode {
		return VoidType
	}
	return t.ResolveType(m.Result)
}

// MethodThrows returns the resolved throws clause of a method or
// constructor node. The slice must not be modified.
func (t *Tree) MethodThrows(id NodeID) []Type {
	m := t.Node(id).method
	if m == nil {
		return NoTypes
	}
	return t.methodThrows(m)
}
