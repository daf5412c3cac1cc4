package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

var log = commonlog.GetLogger("jresolve.ast")

type FileState int

const (
	FileUnknown FileState = iota
	FileConstructing
	FileConstructed
	FileCompleted
)

var fileStateNames = map[FileState]string{
	FileUnknown:      "unknown",
	FileConstructing: "constructing",
	FileConstructed:  "constructed",
	FileCompleted:    "completed",
}

func (s FileState) String() string {
	if name, ok := fileStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Loader supplies types that are neither registered nor part of the known
// library, for instance by parsing sources from a classpath. Load must
// construct and register the file declaring qualifiedName, or define it as
// a library type, and report whether it did.
type Loader interface {
	Load(ctx *CompileContext, qualifiedName string) bool
}

type Option func(*CompileContext)

// WithLibrary makes additional source-less types known to the run.
func WithLibrary(types ...LibraryType) Option {
	return func(c *CompileContext) {
		for i := range types {
			t := types[i]
			c.library[t.Name] = &t
		}
	}
}

// WithoutJDK drops the built-in JDK type table.
func WithoutJDK() Option {
	return func(c *CompileContext) {
		c.library = make(map[string]*LibraryType)
	}
}

func WithLoader(l Loader) Option {
	return func(c *CompileContext) {
		c.loader = l
	}
}

// CompileContext holds the state of one compilation run: the node arena, the
// registry of files and types, the diagnostics and the configuration. It is
// not safe for concurrent use; independent runs use independent contexts.
type CompileContext struct {
	tree    *Tree
	diags   *diag.Bag
	library map[string]*LibraryType
	loader  Loader

	files       []NodeID
	filesByPath map[string]NodeID
	states      map[NodeID]FileState
	// types holds every type nameable by its qualified name; decls also
	// holds local and anonymous types under their synthetic names.
	types map[string]NodeID
	decls map[string]NodeID
	deps  map[NodeID]map[NodeID]bool

	loading  map[string]bool
	localSeq int
}

func NewCompileContext(opts ...Option) *CompileContext {
	c := &CompileContext{
		diags:       diag.NewBag(),
		library:     make(map[string]*LibraryType),
		filesByPath: make(map[string]NodeID),
		states:      make(map[NodeID]FileState),
		types:       make(map[string]NodeID),
		decls:       make(map[string]NodeID),
		deps:        make(map[NodeID]map[NodeID]bool),
		loading:     make(map[string]bool),
	}
	for i := range jdkTypes {
		c.library[jdkTypes[i].Name] = &jdkTypes[i]
	}
	c.tree = newTree(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CompileContext) Tree() *Tree {
	return c.tree
}

func (c *CompileContext) Diagnostics() *diag.Bag {
	return c.diags
}

func (c *CompileContext) errorf(code string, span token.Span, format string, args ...any) {
	c.diags.Errorf(code, span, format, args...)
}

func (c *CompileContext) warnf(code string, span token.Span, format string, args ...any) {
	c.diags.Warnf(code, span, format, args...)
}

// RegisterFile records a constructed compilation unit and the types it
// declares. Session.EndFile calls it; a file is registered once.
func (c *CompileContext) RegisterFile(file NodeID) error {
	n := c.tree.Node(file)
	if n.Kind != KindCompilationUnit || n.fileInfo == nil {
		return fmt.Errorf("register file: node %d is a %s", file, n.Kind)
	}
	path := n.fileInfo.Path
	if prev, ok := c.filesByPath[path]; ok && prev != file {
		return fmt.Errorf("register file %s: already registered as node %d", path, prev)
	}
	if c.states[file] >= FileConstructed {
		return fmt.Errorf("register file %s: already registered", path)
	}
	c.filesByPath[path] = file
	c.files = append(c.files, file)
	c.states[file] = FileConstructed
	for _, td := range n.fileInfo.Types {
		c.registerType(td)
	}
	log.Debugf("registered %s (%d types)", path, len(n.fileInfo.Types))
	return nil
}

func (c *CompileContext) registerType(id NodeID) {
	td := c.tree.Node(id).typeDecl
	if td == nil || td.Local || td.Anonymous || td.duplicate {
		return
	}
	if prev, ok := c.types[td.QualifiedName]; ok && prev != id {
		c.errorf(diag.CodeDuplicate, c.tree.Span(id), "duplicate class %s", td.QualifiedName)
		return
	}
	c.types[td.QualifiedName] = id
	if td.Body == NoNode {
		return
	}
	c.tree.Walk(td.Body, func(n NodeID) bool {
		if n != td.Body && c.tree.Kind(n).IsTypeDecl() {
			c.registerType(n)
			return false
		}
		return c.tree.Kind(n) != KindBlock
	})
}

// LookupType returns the source declaration registered under a qualified
// name, consulting the loader for names not seen yet.
func (c *CompileContext) LookupType(qualifiedName string) (NodeID, bool) {
	if id, ok := c.types[qualifiedName]; ok {
		return id, true
	}
	if c.loader == nil || c.loading[qualifiedName] {
		return NoNode, false
	}
	if _, ok := c.library[qualifiedName]; ok {
		return NoNode, false
	}
	c.loading[qualifiedName] = true
	if c.loader.Load(c, qualifiedName) {
		log.Debugf("loaded %s", qualifiedName)
	}
	id, ok := c.types[qualifiedName]
	return id, ok
}

// Library returns the source-less description of a type, if known.
func (c *CompileContext) Library(qualifiedName string) (*LibraryType, bool) {
	lt, ok := c.library[qualifiedName]
	return lt, ok
}

// DefineLibrary makes a source-less type known after the context was
// created, typically from a compiled class. A source declaration of the
// same name still takes precedence.
func (c *CompileContext) DefineLibrary(t LibraryType) {
	c.library[t.Name] = &t
}

// Known reports whether a qualified name denotes a source or library type.
func (c *CompileContext) Known(qualifiedName string) bool {
	if _, ok := c.LookupType(qualifiedName); ok {
		return true
	}
	_, ok := c.library[qualifiedName]
	return ok
}

// registered is Known without consulting the loader.
func (c *CompileContext) registered(qualifiedName string) bool {
	if _, ok := c.types[qualifiedName]; ok {
		return true
	}
	_, ok := c.library[qualifiedName]
	return ok
}

// declOf finds the declaration node of a class type, including local and
// anonymous ones.
func (c *CompileContext) declOf(t Type) NodeID {
	if !t.IsClass() {
		return NoNode
	}
	if id, ok := c.decls[t.Name]; ok {
		return id
	}
	if id, ok := c.LookupType(t.Name); ok {
		return id
	}
	return NoNode
}

func (c *CompileContext) nextLocal() int {
	c.localSeq++
	return c.localSeq
}

// File returns the compilation unit registered for path.
func (c *CompileContext) File(path string) (NodeID, bool) {
	id, ok := c.filesByPath[path]
	return id, ok
}

// Files returns the registered compilation units in registration order.
func (c *CompileContext) Files() []NodeID {
	out := make([]NodeID, len(c.files))
	copy(out, c.files)
	return out
}

func (c *CompileContext) FileState(file NodeID) FileState {
	return c.states[file]
}

// FileInfo returns the payload of a compilation unit.
func (c *CompileContext) FileInfo(file NodeID) *FileInfo {
	return c.tree.Node(file).fileInfo
}

func (c *CompileContext) addDependency(from, to NodeID) {
	if from == to || from == NoNode || to == NoNode {
		return
	}
	set, ok := c.deps[from]
	if !ok {
		set = make(map[NodeID]bool)
		c.deps[from] = set
	}
	set[to] = true
}

// Dependencies returns the files whose declarations file referred to while
// being resolved, ordered by node id.
func (c *CompileContext) Dependencies(file NodeID) []NodeID {
	var out []NodeID
	for dep := range c.deps[file] {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supertypes returns the direct superclass and superinterfaces of a class
// type. Class types nobody knows about are assumed to extend Exception or
// Error when their name says so, and Object otherwise.
func (c *CompileContext) Supertypes(t Type) []Type {
	if !t.IsClass() || t == ObjectType {
		return nil
	}
	if id := c.declOf(t); id != NoNode {
		return c.tree.supertypes(id)
	}
	if lt, ok := c.library[t.Name]; ok {
		var out []Type
		if lt.Super != "" {
			out = append(out, ClassType(lt.Super))
		}
		for _, name := range lt.Interfaces {
			out = append(out, ClassType(name))
		}
		return out
	}
	switch {
	case strings.HasSuffix(t.Name, "Exception"):
		return []Type{ExceptionType}
	case strings.HasSuffix(t.Name, "Error"):
		return []Type{ErrorType}
	}
	return []Type{ObjectType}
}

// IsSubtype reports whether a is b or a (transitive) subtype of b.
func (c *CompileContext) IsSubtype(a, b Type) bool {
	if a == b {
		return true
	}
	if b == ObjectType && (a.Kind == TypeClass || a.IsArray()) {
		return true
	}
	if a.IsArray() || b.IsArray() {
		if a.ArrayDepth != b.ArrayDepth {
			return false
		}
		return c.IsSubtype(a.ElementType(), b.ElementType())
	}
	if !a.IsClass() || !b.IsClass() {
		return false
	}
	seen := map[Type]bool{a: true}
	queue := []Type{a}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range c.Supertypes(cur) {
			if s == b {
				return true
			}
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
	return false
}

// IsChecked reports whether t is a checked exception type: a Throwable that
// is neither a RuntimeException nor an Error.
func (c *CompileContext) IsChecked(t Type) bool {
	if !t.IsClass() {
		return false
	}
	return c.IsSubtype(t, ThrowableType) &&
		!c.IsSubtype(t, RuntimeExceptionType) &&
		!c.IsSubtype(t, ErrorType)
}
