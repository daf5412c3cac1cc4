// Package codebase keeps the Java sources of a workspace in memory and
// re-resolves them whenever one changes. Every change compiles the whole
// workspace in a fresh compile context, so results never mix trees from
// different revisions.
package codebase

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/compile"
	"github.com/dhamidi/jresolve/java/diag"
)

var log = commonlog.GetLogger("jresolve.codebase")

type Option func(*Codebase)

// WithClasspath sets the source roots consulted for types the workspace
// does not declare.
func WithClasspath(dirs ...string) Option {
	return func(c *Codebase) {
		c.classpath = append(c.classpath, dirs...)
	}
}

type Codebase struct {
	// mu guards everything below. Tree queries memoize their results, so
	// anything that asks the compiler a question holds the write lock.
	mu        sync.RWMutex
	rootDir   string
	classpath []string
	files     map[string][]byte
	compiler  *compile.Compiler
	revision  int
}

type FileInfo struct {
	Path        string
	Content     []byte
	Node        ast.NodeID
	State       ast.FileState
	Diagnostics []diag.Diagnostic
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		files:   make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.compiler = c.newCompiler()
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// Revision counts the recompilations so far.
func (c *Codebase) Revision() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// ScanAll reads every source file below the root and recompiles once.
func (c *Codebase) ScanAll() error {
	found := make(map[string][]byte)
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !compile.IsSource(path) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			return nil
		}
		found[path] = content
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.rootDir, err)
	}
	return c.UpdateFiles(found)
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	return c.UpdateFiles(map[string][]byte{path: content})
}

// UpdateFiles replaces the content of the given files, forgets the removed
// ones and recompiles.
func (c *Codebase) UpdateFiles(changed map[string][]byte, removed ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, content := range changed {
		c.files[path] = content
	}
	for _, path := range removed {
		delete(c.files, path)
	}
	return c.rebuildLocked()
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	if err := c.rebuildLocked(); err != nil {
		log.Errorf("%s", err)
	}
}

func (c *Codebase) newCompiler() *compile.Compiler {
	return compile.New(compile.WithClasspath(c.classpath...))
}

func (c *Codebase) rebuildLocked() error {
	compiler := c.newCompiler()
	var failed []string
	for _, path := range c.pathsLocked() {
		if _, err := compiler.AddSource(path, c.files[path]); err != nil {
			log.Warningf("%s", err)
			failed = append(failed, path)
		}
	}
	if err := compiler.Complete(); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	c.compiler = compiler
	c.revision++
	log.Debugf("revision %d: %d files, %d diagnostics", c.revision, len(c.files), compiler.Context().Diagnostics().Len())
	if len(failed) > 0 {
		return fmt.Errorf("rebuild: could not add %s", strings.Join(failed, ", "))
	}
	return nil
}

func (c *Codebase) pathsLocked() []string {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Paths lists the workspace files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pathsLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.files[path]
	if !ok {
		return nil
	}
	ctx := c.compiler.Context()
	info := &FileInfo{
		Path:        path,
		Content:     content,
		Node:        ast.NoNode,
		Diagnostics: ctx.Diagnostics().ForFile(path),
	}
	if id, ok := ctx.File(path); ok {
		info.Node = id
		info.State = ctx.FileState(id)
	}
	return info
}

// Diagnostics returns what the last recompilation reported for path.
func (c *Codebase) Diagnostics(path string) []diag.Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compiler.Context().Diagnostics().ForFile(path)
}

// AllDiagnostics returns every diagnostic of the last recompilation,
// including those for files loaded from the classpath.
func (c *Codebase) AllDiagnostics() []diag.Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compiler.Diagnostics()
}

// Inspect runs fn against the current compile context.
func (c *Codebase) Inspect(fn func(ctx *ast.CompileContext)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.compiler.Context())
}
