// Package compile drives one resolution run: it reads Java sources, builds
// their trees through a parse session, completes them and collects the
// diagnostics of both phases.
//
//	c := compile.New(compile.WithClasspath("src/main/java"))
//	if err := c.Run("src/main/java/com/acme"); err != nil {
//		return err
//	}
//	for _, d := range c.Diagnostics() {
//		fmt.Println(d)
//	}
//
// A Compiler is not safe for concurrent use. Independent runs use
// independent compilers.
package compile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/parser"
)

var log = commonlog.GetLogger("jresolve.compile")

// ClasspathEnv names the environment variable consulted for the classpath
// when no classpath option is given. It holds a filepath.ListSeparator
// separated list.
const ClasspathEnv = "JRESOLVE_CLASSPATH"

type Option func(*Compiler)

// WithClasspath adds classpath entries searched for types that no added
// file declares. Directories are searched for sources first and compiled
// classes second; .jar files for compiled classes only.
func WithClasspath(dirs ...string) Option {
	return func(c *Compiler) {
		c.classpath = append(c.classpath, dirs...)
	}
}

// WithContextOptions passes options through to the compile context.
func WithContextOptions(opts ...ast.Option) Option {
	return func(c *Compiler) {
		c.ctxOpts = append(c.ctxOpts, opts...)
	}
}

type Compiler struct {
	classpath []string
	ctxOpts   []ast.Option
	ctx       *ast.CompileContext
}

func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.classpath) == 0 {
		if env := os.Getenv(ClasspathEnv); env != "" {
			c.classpath = filepath.SplitList(env)
		}
	}
	ctxOpts := append([]ast.Option(nil), c.ctxOpts...)
	if len(c.classpath) > 0 {
		ctxOpts = append(ctxOpts, ast.WithLoader(loaders{
			NewSourceLoader(c.classpath...),
			NewClassLoader(c.classpath...),
		}))
	}
	c.ctx = ast.NewCompileContext(ctxOpts...)
	return c
}

func (c *Compiler) Context() *ast.CompileContext {
	return c.ctx
}

func (c *Compiler) Classpath() []string {
	return c.classpath
}

// AddSource constructs the tree of one source file and registers it.
func (c *Compiler) AddSource(path string, src []byte) (file ast.NodeID, err error) {
	defer ast.Recover(&err)
	if prev, ok := c.ctx.File(path); ok {
		return prev, fmt.Errorf("add source %s: already added", path)
	}
	file, err = parser.Parse(ast.NewSession(c.ctx), src, parser.WithFile(path))
	if err != nil {
		return file, fmt.Errorf("add source %s: %w", path, err)
	}
	return file, nil
}

// AddFile reads and adds one source file.
func (c *Compiler) AddFile(path string) (ast.NodeID, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return ast.NoNode, fmt.Errorf("add file: %w", err)
	}
	return c.AddSource(path, src)
}

// AddDir adds every .java file below root in lexical order, skipping
// hidden directories and module or package descriptors.
func (c *Compiler) AddDir(root string) ([]ast.NodeID, error) {
	var files []ast.NodeID
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSource(path) {
			return nil
		}
		if _, ok := c.ctx.File(path); ok {
			return nil
		}
		file, err := c.AddFile(path)
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("add dir %s: %w", root, err)
	}
	return files, nil
}

// IsSource reports whether path names a Java compilation unit that
// declares types. Module and package descriptors do not.
func IsSource(path string) bool {
	switch filepath.Base(path) {
	case "module-info.java", "package-info.java":
		return false
	}
	return filepath.Ext(path) == ".java"
}

// Add adds a file, or every source file below a directory.
func (c *Compiler) Add(path string) ([]ast.NodeID, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	if info.IsDir() {
		return c.AddDir(path)
	}
	file, err := c.AddFile(path)
	if err != nil {
		return nil, err
	}
	return []ast.NodeID{file}, nil
}

// Complete runs the completion phase over everything added so far.
func (c *Compiler) Complete() (err error) {
	defer ast.Recover(&err)
	c.ctx.Complete()
	return nil
}

// Run adds every path and completes the run.
func (c *Compiler) Run(paths ...string) error {
	for _, path := range paths {
		if _, err := c.Add(path); err != nil {
			return err
		}
	}
	if err := c.Complete(); err != nil {
		return fmt.Errorf("complete: %w", err)
	}
	bag := c.ctx.Diagnostics()
	log.Infof("resolved %d files: %d errors, %d warnings", len(c.ctx.Files()), bag.ErrorCount(), bag.WarningCount())
	return nil
}

// Diagnostics returns what both phases reported, sorted by file and
// position.
func (c *Compiler) Diagnostics() []diag.Diagnostic {
	return c.ctx.Diagnostics().Diagnostics()
}

func (c *Compiler) HasErrors() bool {
	return c.ctx.Diagnostics().HasErrors()
}
