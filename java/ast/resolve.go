package ast

import (
	"strings"

	"github.com/dhamidi/jresolve/java/diag"
)

// ResolveType resolves the type a KindType node spells. The result is
// memoized; an unknown name is reported once as E001 and yields an unknown
// type.
func (t *Tree) ResolveType(id NodeID) Type {
	n := t.Node(id)
	ref := n.typeRef
	if n.Kind != KindType || ref == nil {
		return Type{}
	}
	if ref.resolved {
		return ref.typ
	}
	if ref.busy {
		return Type{}
	}
	ref.busy = true
	base, ok := t.resolveName(id, ref.name)
	if !ok {
		base = UnknownType(ref.name)
		if imp, ok := t.failedImport(n, ref.name); ok {
			log.Debugf("type %s comes from unresolved import %s", ref.name, imp.Name)
		} else if t.reportsUnknownTypes(n.file) {
			t.ctx.errorf(diag.CodeUnknownType, t.Span(id), "cannot find symbol: class %s", ref.name)
		} else {
			log.Debugf("unresolved type %s in %s", ref.name, t.nodes[n.file].fileInfo.Path)
		}
	}
	ref.typ = ArrayOf(base, ref.dims)
	ref.resolved = true
	ref.busy = false
	return ref.typ
}

// reportsUnknownTypes is false for files with on-demand imports: an
// unknown simple name may come from a package nobody loaded.
func (t *Tree) reportsUnknownTypes(file NodeID) bool {
	for _, imp := range t.nodes[file].fileInfo.Imports {
		if imp.OnDemand {
			return false
		}
	}
	return true
}

// checkImports reports single-type imports naming no known type. Type
// references through such an import stay unknown without a report of
// their own.
func (t *Tree) checkImports(file NodeID) {
	n := t.nodes[file]
	for _, imp := range n.fileInfo.Imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		if _, ok := t.knownQualified(n, imp.Name); !ok {
			t.ctx.errorf(diag.CodeUnknownType, t.Span(imp.Node), "cannot find symbol: class %s", imp.Name)
		}
	}
}

// failedImport finds the single-type import that binds the first segment
// of name when that import names no known type.
func (t *Tree) failedImport(n *Node, name string) (Import, bool) {
	head, _ := splitName(name)
	imp, ok := t.singleImport(n.file, head)
	if !ok {
		return Import{}, false
	}
	if _, known := t.knownQualified(n, imp.Name); known {
		return Import{}, false
	}
	return imp, true
}

// singleImport finds the single-type import of file that binds a simple
// name.
func (t *Tree) singleImport(file NodeID, name string) (Import, bool) {
	for _, imp := range t.nodes[file].fileInfo.Imports {
		if imp.OnDemand || imp.Static {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			return imp, true
		}
	}
	return Import{}, false
}

// ResolveTypeName resolves a type name as seen from node from, using the
// scope chain, enclosing types, imports, the file's package and java.lang.
func (t *Tree) ResolveTypeName(from NodeID, name string) (Type, bool) {
	return t.resolveName(from, name)
}

func (t *Tree) resolveName(from NodeID, name string) (Type, bool) {
	switch {
	case isPrimitiveName(name):
		return PrimitiveType(name), true
	case name == "void":
		return VoidType, true
	case name == "var":
		return UnknownType("var"), true
	}
	n := t.Node(from)
	head, rest := splitName(name)
	if rest == "" {
		return t.resolveSimple(n, name)
	}
	if base, ok := t.resolveSimple(n, head); ok {
		return t.memberTypePath(base, rest, true)
	}
	return t.resolveQualified(n, name)
}

func (t *Tree) resolveSimple(n *Node, name string) (Type, bool) {
	if d := n.scope.LookupType(name); d != nil {
		return t.declType(d), true
	}
	for typ := n.typ; typ != NoNode; typ = t.nodes[typ].typeDecl.Outer {
		if mt, ok := t.memberType(t.TypeOf(typ), name, true); ok {
			return mt, true
		}
	}
	fi := t.nodes[n.file].fileInfo
	if imp, ok := t.singleImport(n.file, name); ok {
		// An import shadows the package and java.lang even when it names
		// nothing.
		return t.knownQualified(n, imp.Name)
	}
	qn := name
	if fi.Package != "" {
		qn = fi.Package + "." + name
	}
	if id, ok := t.ctx.LookupType(qn); ok {
		t.ctx.addDependency(n.file, t.nodes[id].file)
		return ClassType(qn), true
	}
	for _, imp := range fi.Imports {
		if !imp.OnDemand {
			continue
		}
		if cand := imp.Name + "." + name; t.ctx.Known(cand) {
			return t.qualified(n, cand), true
		}
	}
	if cand := "java.lang." + name; t.ctx.Known(cand) {
		return ClassType(cand), true
	}
	return Type{}, false
}

// resolveQualified resolves a name whose first segment is not a type: a
// package-qualified name, possibly followed by member type names.
func (t *Tree) resolveQualified(n *Node, name string) (Type, bool) {
	if typ, ok := t.knownQualified(n, name); ok {
		return typ, true
	}
	if looksLikePackage(name) {
		return ClassType(name), true
	}
	return Type{}, false
}

// knownQualified resolves a qualified name only through types the context
// knows, either directly or as members of a known outer type.
func (t *Tree) knownQualified(n *Node, name string) (Type, bool) {
	if t.ctx.Known(name) {
		return t.qualified(n, name), true
	}
	for i := 0; i < len(name); i++ {
		if name[i] != '.' {
			continue
		}
		prefix := name[:i]
		if !t.ctx.Known(prefix) {
			continue
		}
		return t.memberTypePath(t.qualified(n, prefix), name[i+1:], true)
	}
	return Type{}, false
}

// qualified names a type by its qualified name, recording a dependency
// when a registered file declares it.
func (t *Tree) qualified(n *Node, qualifiedName string) Type {
	if id, ok := t.ctx.LookupType(qualifiedName); ok {
		t.ctx.addDependency(n.file, t.nodes[id].file)
	}
	return ClassType(qualifiedName)
}

// looksLikePackage accepts names such as com.acme.Widget whose leading
// segment is lower case and whose last segment is capitalized, so that
// references into unloaded libraries resolve by their spelling.
func looksLikePackage(name string) bool {
	head, _ := splitName(name)
	last := name[strings.LastIndexByte(name, '.')+1:]
	if head == "" || last == "" {
		return false
	}
	return head[0] >= 'a' && head[0] <= 'z' && last[0] >= 'A' && last[0] <= 'Z'
}

// libraryType parses a type name from the library table.
func libraryType(name string) Type {
	switch {
	case name == "" || name == "void":
		return VoidType
	case strings.HasSuffix(name, "[]"):
		return ArrayOf(libraryType(strings.TrimSuffix(name, "[]")), 1)
	case isPrimitiveName(name):
		return PrimitiveType(name)
	}
	return ClassType(name)
}

func libraryTypes(names []string) []Type {
	if len(names) == 0 {
		return NoTypes
	}
	out := make([]Type, len(names))
	for i, name := range names {
		out[i] = libraryType(name)
	}
	return out
}
