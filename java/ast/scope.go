package ast

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicate is returned when a name is declared twice in one scope.
var ErrDuplicate = errors.New("duplicate declaration")

type ScopeKind int

const (
	ScopeFile ScopeKind = iota
	ScopeType
	ScopeMethod
	ScopeBlock
	ScopeFor
	ScopeCatch
	ScopeSwitch
	ScopeResources
	ScopeLambda
)

var scopeKindNames = map[ScopeKind]string{
	ScopeFile:      "file",
	ScopeType:      "type",
	ScopeMethod:    "method",
	ScopeBlock:     "block",
	ScopeFor:       "for",
	ScopeCatch:     "catch",
	ScopeSwitch:    "switch",
	ScopeResources: "resources",
	ScopeLambda:    "lambda",
}

func (k ScopeKind) String() string {
	if name, ok := scopeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type DeclKind int

const (
	DeclLocal DeclKind = iota
	DeclParam
	DeclField
	DeclEnumConstant
	DeclType
	DeclTypeParam
)

var declKindNames = map[DeclKind]string{
	DeclLocal:        "local",
	DeclParam:        "parameter",
	DeclField:        "field",
	DeclEnumConstant: "enum constant",
	DeclType:         "type",
	DeclTypeParam:    "type parameter",
}

func (k DeclKind) String() string {
	if name, ok := declKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsType reports whether declarations of this kind live in the type
// namespace rather than the variable namespace.
func (k DeclKind) IsType() bool {
	return k == DeclType || k == DeclTypeParam
}

// Decl binds a name to the node that declares it: a variable declarator,
// parameter, enum constant, type parameter or type declaration.
type Decl struct {
	Name string
	Kind DeclKind
	Node NodeID
}

// SymbolTable is one scope of the scope chain. Variables and types are kept
// in separate namespaces, each unique per scope.
type SymbolTable struct {
	kind   ScopeKind
	owner  NodeID
	parent *SymbolTable
	vars   map[string]*Decl
	types  map[string]*Decl
}

// NewSymbolTable creates a scope. A nil parent is only valid for the
// compilation-unit scope.
func NewSymbolTable(kind ScopeKind, parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		kind:   kind,
		owner:  NoNode,
		parent: parent,
		vars:   make(map[string]*Decl),
		types:  make(map[string]*Decl),
	}
}

func (s *SymbolTable) Kind() ScopeKind {
	return s.kind
}

// Owner returns the node whose construction opened this scope.
func (s *SymbolTable) Owner() NodeID {
	return s.owner
}

func (s *SymbolTable) Parent() *SymbolTable {
	return s.parent
}

// Depth counts the scopes between s and the compilation-unit scope.
func (s *SymbolTable) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

func (s *SymbolTable) namespace(kind DeclKind) map[string]*Decl {
	if kind.IsType() {
		return s.types
	}
	return s.vars
}

// Declare adds d to this scope. It fails with ErrDuplicate when the name is
// already bound in the same namespace of this scope.
func (s *SymbolTable) Declare(d *Decl) error {
	ns := s.namespace(d.Kind)
	if prev, ok := ns[d.Name]; ok {
		return fmt.Errorf("%s %q already declared as %s: %w", d.Kind, d.Name, prev.Kind, ErrDuplicate)
	}
	ns[d.Name] = d
	return nil
}

// LookupLocal finds a variable declared directly in this scope.
func (s *SymbolTable) LookupLocal(name string) *Decl {
	return s.vars[name]
}

// LookupLocalType finds a type declared directly in this scope.
func (s *SymbolTable) LookupLocalType(name string) *Decl {
	return s.types[name]
}

// Lookup walks outward through the scope chain for a variable; the nearest
// declaration wins.
func (s *SymbolTable) Lookup(name string) *Decl {
	for scope := s; scope != nil; scope = scope.parent {
		if d, ok := scope.vars[name]; ok {
			return d
		}
	}
	return nil
}

// LookupType walks outward through the scope chain for a type name.
func (s *SymbolTable) LookupType(name string) *Decl {
	for scope := s; scope != nil; scope = scope.parent {
		if d, ok := scope.types[name]; ok {
			return d
		}
	}
	return nil
}

// LookupVisible is Lookup restricted to what is in scope at node from: local
// variables and parameters declared after from are skipped, since a local's
// scope starts at its declarator. Fields are visible throughout their type.
func (s *SymbolTable) LookupVisible(name string, from NodeID) *Decl {
	for scope := s; scope != nil; scope = scope.parent {
		d, ok := scope.vars[name]
		if !ok {
			continue
		}
		if (d.Kind == DeclLocal || d.Kind == DeclParam) && d.Node > from {
			continue
		}
		return d
	}
	return nil
}

// Names returns the variable and type names declared directly in this
// scope, sorted.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.vars)+len(s.types))
	for name := range s.vars {
		names = append(names, name)
	}
	for name := range s.types {
		if _, dup := s.vars[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
