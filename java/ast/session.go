package ast

import (
	"errors"

	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

// Session is the construction state of one parse: the current scope, the
// file being parsed and the stack of type declarations being parsed. Every
// node built through the session captures these three at creation time.
//
// A parser drives the session bracket-wise:
//
//	file := s.BeginFile(path)
//	cls := s.BeginType(ast.KindClassDecl, "A")
//	m := s.BeginMethod(ast.KindMethodDecl, "m")
//	blk := s.OpenScope(ast.KindBlock, ast.ScopeBlock)
//	...
//	s.CloseScope(blk)
//	s.EndMethod(m)
//	s.EndType(cls)
//	err := s.EndFile(file)
//
// Unbalanced brackets panic with *InvariantError.
type Session struct {
	ctx  *CompileContext
	tree *Tree

	scope  *SymbolTable
	file   NodeID
	types  []NodeID
	frames []scopeFrame
}

type scopeFrame struct {
	owner NodeID
	prev  *SymbolTable
}

func NewSession(ctx *CompileContext) *Session {
	return &Session{
		ctx:  ctx,
		tree: ctx.tree,
		file: NoNode,
	}
}

func (s *Session) Context() *CompileContext {
	return s.ctx
}

func (s *Session) Tree() *Tree {
	return s.tree
}

// Scope returns the current scope, nil outside a file.
func (s *Session) Scope() *SymbolTable {
	return s.scope
}

// CurrentFile returns the compilation unit being parsed, or NoNode.
func (s *Session) CurrentFile() NodeID {
	return s.file
}

// CurrentType returns the innermost type declaration being parsed, or
// NoNode.
func (s *Session) CurrentType() NodeID {
	if len(s.types) == 0 {
		return NoNode
	}
	return s.types[len(s.types)-1]
}

func (s *Session) newNode(kind Kind) *Node {
	if s.file == NoNode || s.scope == nil {
		panic(invariantf("%s node constructed outside of any file", kind))
	}
	n := &Node{
		Kind:  kind,
		scope: s.scope,
		file:  s.file,
		typ:   s.CurrentType(),
	}
	s.tree.add(n)
	return n
}

// NewNode builds an interior node tagged with the current context.
func (s *Session) NewNode(kind Kind) NodeID {
	return s.newNode(kind).id
}

// NewLeaf wraps a significant token, with its trivia, in a leaf node.
func (s *Session) NewLeaf(tok token.Token) NodeID {
	kind := KindToken
	if tok.Kind == token.EOF {
		kind = KindEOF
	}
	n := s.newNode(kind)
	n.Token = &tok
	return n.id
}

// NewError builds an error node; the parser attaches the skipped tokens to
// it as children.
func (s *Session) NewError(message string) NodeID {
	n := s.newNode(KindError)
	n.message = message
	return n.id
}

// AddChild appends child to parent; see Tree.AddChild.
func (s *Session) AddChild(parent, child NodeID) {
	s.tree.AddChild(parent, child)
}

// OpenScope builds a scope-introducing node. The new scope's parent is the
// current scope, it becomes current, and the node captures it.
func (s *Session) OpenScope(kind Kind, scopeKind ScopeKind) NodeID {
	n := s.newNode(kind)
	s.push(n, scopeKind)
	return n.id
}

func (s *Session) push(n *Node, scopeKind ScopeKind) {
	scope := NewSymbolTable(scopeKind, s.scope)
	scope.owner = n.id
	s.frames = append(s.frames, scopeFrame{owner: n.id, prev: s.scope})
	s.scope = scope
	n.scope = scope
}

// CloseScope restores the scope that was current before id opened its own.
func (s *Session) CloseScope(id NodeID) {
	s.pop(id)
}

func (s *Session) pop(id NodeID) {
	if len(s.frames) == 0 {
		panic(invariantf("closing scope of node %d but no scope is open", id))
	}
	top := s.frames[len(s.frames)-1]
	if top.owner != id {
		panic(invariantf("closing scope of node %d but innermost scope belongs to %d", id, top.owner))
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.scope = top.prev
}

// SetName attaches the declared or referenced identifier to a node.
func (s *Session) SetName(id NodeID, name string) {
	s.tree.Node(id).name = name
}

// SetDims records array brackets written after a declarator name.
func (s *Session) SetDims(id NodeID, dims int) {
	s.tree.Node(id).dims = dims
}

// SetTypeRef records the name and array depth a KindType node spells. A
// name already bound in the scope chain, such as a type parameter or a
// local class declared earlier, is resolved right away; everything else
// waits for completion.
func (s *Session) SetTypeRef(id NodeID, name string, dims int) {
	n := s.tree.Node(id)
	if n.Kind != KindType {
		panic(invariantf("type reference on %s node %d", n.Kind, id))
	}
	n.typeRef = &typeRef{name: name, dims: dims}
	if t, ok := s.ResolveTypeName(name); ok {
		n.typeRef.typ = ArrayOf(t, dims)
		n.typeRef.resolved = true
	}
}

// ResolveTypeName resolves a simple or member-qualified name against the
// scopes parsed so far. It is the construction-time counterpart of the
// completion-time resolution and never consults imports or the registry.
func (s *Session) ResolveTypeName(name string) (Type, bool) {
	if s.scope == nil {
		return Type{}, false
	}
	if isPrimitiveName(name) {
		return PrimitiveType(name), true
	}
	if name == "void" {
		return VoidType, true
	}
	head, rest := splitName(name)
	d := s.scope.LookupType(head)
	if d == nil {
		return Type{}, false
	}
	t := s.tree.declType(d)
	if rest == "" {
		return t, true
	}
	return s.tree.memberTypePath(t, rest, false)
}

// Introduce declares the variables, enum constants or type parameters id
// introduces into the current scope. The parser calls it once the
// construct is built; duplicates are reported as E003.
func (s *Session) Introduce(id NodeID) {
	kind := declKindFor(s.tree, id)
	for _, d := range s.tree.declarators(id) {
		name := s.tree.Node(d).name
		if name == "" {
			continue
		}
		s.declare(&Decl{Name: name, Kind: kind, Node: d})
	}
}

func (s *Session) declare(d *Decl) {
	err := s.scope.Declare(d)
	if errors.Is(err, ErrDuplicate) {
		s.ctx.errorf(diag.CodeDuplicate, s.tree.Span(d.Node), "%s %s is already defined in this scope", d.Kind, d.Name)
	}
}

func declKindFor(t *Tree, id NodeID) DeclKind {
	switch t.Kind(id) {
	case KindFieldDecl:
		return DeclField
	case KindParameter, KindParameters, KindCatchClause, KindEnhancedForStmt:
		return DeclParam
	case KindEnumConstant:
		return DeclEnumConstant
	case KindTypeParameter, KindTypeParameters:
		return DeclTypeParam
	}
	return DeclLocal
}

// SetPackage records the package declaration of the current file.
func (s *Session) SetPackage(name string) {
	s.fileInfo().Package = name
}

// AddImport records an import declaration of the current file.
func (s *Session) AddImport(node NodeID, name string, static, onDemand bool) {
	fi := s.fileInfo()
	fi.Imports = append(fi.Imports, Import{Name: name, Static: static, OnDemand: onDemand, Node: node})
}

func (s *Session) fileInfo() *FileInfo {
	if s.file == NoNode {
		panic(invariantf("file-level declaration outside of any file"))
	}
	return s.tree.Node(s.file).fileInfo
}

func splitName(name string) (string, string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
