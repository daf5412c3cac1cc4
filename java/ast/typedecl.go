package ast

import (
	"errors"
	"strconv"

	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

// BeginType starts a class, interface or enum declaration called name. The
// name is declared in the current scope, the declaration node opens the
// member scope and the type becomes current until EndType.
func (s *Session) BeginType(kind Kind, name string) NodeID {
	if !kind.IsTypeDecl() {
		panic(invariantf("BeginType with %s", kind))
	}
	return s.beginType(kind, name, false)
}

// BeginAnonymousType starts the body of an anonymous class.
func (s *Session) BeginAnonymousType() NodeID {
	return s.beginType(KindClassDecl, "", true)
}

func (s *Session) beginType(kind Kind, name string, anonymous bool) NodeID {
	outer := s.CurrentType()
	local := anonymous || (s.scope != nil && s.scope.kind != ScopeFile && s.scope.kind != ScopeType)
	n := s.newNode(kind)
	td := &TypeDecl{
		Name:      name,
		Kind:      kind,
		Outer:     outer,
		Local:     local && !anonymous,
		Anonymous: anonymous,
		Body:      NoNode,
	}
	switch {
	case outer == NoNode:
		td.QualifiedName = name
		if pkg := s.fileInfo().Package; pkg != "" {
			td.QualifiedName = pkg + "." + name
		}
		fi := s.fileInfo()
		fi.Types = append(fi.Types, n.id)
	case local:
		td.QualifiedName = s.tree.Node(outer).typeDecl.QualifiedName + "$" + strconv.Itoa(s.ctx.nextLocal()) + name
	default:
		td.QualifiedName = s.tree.Node(outer).typeDecl.QualifiedName + "." + name
	}
	n.typeDecl = td
	if _, ok := s.ctx.decls[td.QualifiedName]; !ok {
		s.ctx.decls[td.QualifiedName] = n.id
	}
	if !anonymous {
		// Reported by EndType, once the declaration has a span.
		td.duplicate = errors.Is(s.scope.Declare(&Decl{Name: name, Kind: DeclType, Node: n.id}), ErrDuplicate)
	}
	s.push(n, ScopeType)
	td.Members = n.scope
	s.types = append(s.types, n.id)
	return n.id
}

// EndType closes the type declaration id.
func (s *Session) EndType(id NodeID) {
	if s.CurrentType() != id {
		panic(invariantf("ending type %d but the current type is %d", id, s.CurrentType()))
	}
	s.pop(id)
	s.types = s.types[:len(s.types)-1]
	td := s.tree.Node(id).typeDecl
	td.Body = s.tree.FirstChildOfKind(id, KindClassBody)
	if td.duplicate {
		s.ctx.errorf(diag.CodeDuplicate, s.tree.nameSpan(id, td.Name), "type %s is already defined in this scope", td.Name)
	}
}

// nameSpan is the span of the identifier a declaration introduces, or of
// the whole declaration when no such token is a direct child.
func (t *Tree) nameSpan(id NodeID, name string) token.Span {
	for _, c := range t.Children(id) {
		if tok := t.nodes[c].Token; tok != nil && tok.Kind == token.Ident && tok.Text == name {
			return tok.Span
		}
	}
	return t.Span(id)
}

// AddExtends records a Type node naming a superclass, or a
// superinterface of an interface or anonymous class.
func (s *Session) AddExtends(typeDecl, typeNode NodeID) {
	td := s.mustTypeDecl(typeDecl)
	td.extends = append(td.extends, typeNode)
}

func (s *Session) AddImplements(typeDecl, typeNode NodeID) {
	td := s.mustTypeDecl(typeDecl)
	td.implements = append(td.implements, typeNode)
}

func (s *Session) mustTypeDecl(id NodeID) *TypeDecl {
	td := s.tree.Node(id).typeDecl
	if td == nil {
		panic(invariantf("node %d is not a type declaration", id))
	}
	return td
}

// BeginMethod starts a method or constructor of the current type. Its node
// opens the method scope holding type parameters and parameters.
func (s *Session) BeginMethod(kind Kind, name string) NodeID {
	if kind != KindMethodDecl && kind != KindConstructorDecl {
		panic(invariantf("BeginMethod with %s", kind))
	}
	owner := s.CurrentType()
	if owner == NoNode {
		panic(invariantf("method %s outside of any type", name))
	}
	n := s.newNode(kind)
	n.name = name
	n.method = &Method{
		Name:        name,
		Node:        n.id,
		Constructor: kind == KindConstructorDecl,
		Result:      NoNode,
		Body:        NoNode,
	}
	s.push(n, ScopeMethod)
	td := s.tree.Node(owner).typeDecl
	td.Methods = append(td.Methods, n.method)
	return n.id
}

// EndMethod closes the method id and records its signature.
func (s *Session) EndMethod(id NodeID) {
	s.pop(id)
	t := s.tree
	m := t.Node(id).method
	if params := t.FirstChildOfKind(id, KindParameters); params != NoNode {
		m.Params = t.ChildrenOfKind(params, KindParameter)
		if n := len(m.Params); n > 0 && t.HasToken(m.Params[n-1], token.Ellipsis) {
			m.Varargs = true
		}
	}
	if res := t.FirstChildOfKind(id, KindType); res != NoNode && !m.Constructor {
		if ref := t.Node(res).typeRef; ref == nil || ref.name != "void" || ref.dims > 0 {
			m.Result = res
		}
	}
	if throws := t.FirstChildOfKind(id, KindThrowsList); throws != NoNode {
		m.ThrowsList = t.ChildrenOfKind(throws, KindType)
	}
	m.Body = t.FirstChildOfKind(id, KindBlock)
}

// TypeDecl returns the payload of a type declaration node, or nil.
func (t *Tree) TypeDecl(id NodeID) *TypeDecl {
	return t.Node(id).typeDecl
}

// Method returns the payload of a method or constructor node, or nil.
func (t *Tree) Method(id NodeID) *Method {
	return t.Node(id).method
}

// TypeDef returns the class declared by a local class statement.
func (t *Tree) TypeDef(localClassStmt NodeID) NodeID {
	n := t.Node(localClassStmt)
	if n.Kind != KindLocalClassDecl {
		panic(invariantf("TypeDef of %s node %d", n.Kind, localClassStmt))
	}
	for _, c := range n.children {
		if t.nodes[c].Kind.IsTypeDecl() {
			return c
		}
	}
	return NoNode
}

// TypeOf returns the type a type declaration node declares.
func (t *Tree) TypeOf(typeDecl NodeID) Type {
	td := t.Node(typeDecl).typeDecl
	if td == nil {
		return Type{}
	}
	return ClassType(td.QualifiedName)
}

// declType turns a type-namespace declaration into the type it names.
func (t *Tree) declType(d *Decl) Type {
	if d.Kind == DeclTypeParam {
		return Type{Kind: TypeVariable, Name: d.Name}
	}
	return t.TypeOf(d.Node)
}

// memberTypePath resolves a dotted path of member type names below owner.
// Inherited member types are only searched when inherited is set, since
// that needs resolved supertypes.
func (t *Tree) memberTypePath(owner Type, path string, inherited bool) (Type, bool) {
	cur := owner
	for path != "" {
		var head string
		head, path = splitName(path)
		next, ok := t.memberType(cur, head, inherited)
		if !ok {
			return Type{}, false
		}
		cur = next
	}
	return cur, true
}

// memberType finds a member type called name declared in, or when
// inherited is set inherited by, owner.
func (t *Tree) memberType(owner Type, name string, inherited bool) (Type, bool) {
	seen := make(map[Type]bool)
	var find func(Type) (Type, bool)
	find = func(cur Type) (Type, bool) {
		if seen[cur] || !cur.IsClass() {
			return Type{}, false
		}
		seen[cur] = true
		if id := t.ctx.declOf(cur); id != NoNode {
			if d := t.nodes[id].typeDecl.Members.LookupLocalType(name); d != nil && d.Kind == DeclType {
				return t.TypeOf(d.Node), true
			}
		} else if t.ctx.registered(cur.Name + "." + name) {
			return ClassType(cur.Name + "." + name), true
		} else if _, lib := t.ctx.library[cur.Name]; lib && t.ctx.Known(cur.Name+"."+name) {
			// Nested classes of compiled types load on first mention.
			return ClassType(cur.Name + "." + name), true
		}
		if !inherited {
			return Type{}, false
		}
		for _, super := range t.ctx.Supertypes(cur) {
			if found, ok := find(super); ok {
				return found, true
			}
		}
		return Type{}, false
	}
	return find(owner)
}

// supertypes resolves the direct supertypes of a type declaration once.
func (t *Tree) supertypes(id NodeID) []Type {
	n := t.Node(id)
	td := n.typeDecl
	if td.resolved {
		return td.supers
	}
	if td.resolving {
		return nil
	}
	td.resolving = true
	defer func() { td.resolving = false }()
	var set typeSet
	for _, ref := range td.extends {
		if st := t.ResolveType(ref); st.IsClass() {
			set.add(st)
		}
	}
	for _, ref := range td.implements {
		if st := t.ResolveType(ref); st.IsClass() {
			set.add(st)
		}
	}
	if len(td.extends) == 0 && td.QualifiedName != ObjectType.Name {
		if td.Kind == KindEnumDecl {
			set.add(ClassType("java.lang.Enum"))
		} else {
			set.add(ObjectType)
		}
	}
	td.supers = set.result()
	td.resolved = true
	return td.supers
}
