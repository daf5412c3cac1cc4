// Package project works out which directories hold a Java project's
// sources and which classpath entries supply its compiled dependencies.
// Three layouts are recognised: Maven projects with a pom.xml, module
// projects laid out as src/<project>/<module>/module-info.java, and plain
// directories of sources. Jars in a lib directory next to the sources are
// on the classpath in every layout.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jresolve.project")

type Kind string

const (
	Maven   Kind = "maven"
	Modules Kind = "modules"
	Plain   Kind = "plain"
)

// Layout is a detected project.
type Layout struct {
	RootDir    string   `json:"root"`
	Kind       Kind     `json:"kind"`
	SourceDirs []string `json:"sources"`
	// Classpath holds compiled dependencies: jars and class directories.
	Classpath []string `json:"classpath"`
	// Dependencies lists declared Maven dependencies; Missing the ones
	// whose jar is not in the local repository.
	Dependencies []Dependency `json:"dependencies,omitempty"`
	Missing      []Dependency `json:"missing,omitempty"`
}

type Option func(*detector)

// WithLocalRepository sets the Maven repository searched for dependency
// jars. It defaults to ~/.m2/repository.
func WithLocalRepository(dir string) Option {
	return func(d *detector) {
		d.repo = dir
	}
}

// WithTests includes test sources and test-scoped dependencies.
func WithTests() Option {
	return func(d *detector) {
		d.tests = true
	}
}

type detector struct {
	repo  string
	tests bool
}

// Detect inspects rootDir and reports its layout.
func Detect(rootDir string, opts ...Option) (*Layout, error) {
	d := &detector{}
	for _, opt := range opts {
		opt(d)
	}
	if d.repo == "" {
		if home, err := os.UserHomeDir(); err == nil {
			d.repo = filepath.Join(home, ".m2", "repository")
		}
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("detect project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("detect project: %s is not a directory", rootDir)
	}

	l := &Layout{RootDir: rootDir}
	switch {
	case exists(filepath.Join(rootDir, "pom.xml")):
		l.Kind = Maven
		if err := d.maven(l, rootDir, make(map[string]bool)); err != nil {
			return nil, fmt.Errorf("detect project: %w", err)
		}
	default:
		dirs, err := moduleDirs(rootDir)
		if err != nil {
			return nil, fmt.Errorf("detect project: %w", err)
		}
		if len(dirs) > 0 {
			l.Kind = Modules
			l.SourceDirs = dirs
		} else {
			l.Kind = Plain
			l.SourceDirs = []string{rootDir}
		}
	}

	jars, err := libJars(filepath.Join(rootDir, "lib"))
	if err != nil {
		return nil, fmt.Errorf("detect project: %w", err)
	}
	l.Classpath = append(l.Classpath, jars...)
	log.Infof("%s project at %s: %d source dirs, %d classpath entries", l.Kind, rootDir, len(l.SourceDirs), len(l.Classpath))
	return l, nil
}

func (d *detector) maven(l *Layout, dir string, seen map[string]bool) error {
	if seen[dir] {
		return nil
	}
	seen[dir] = true
	p, err := loadPOM(dir)
	if err != nil {
		return err
	}

	src, test := "src/main/java", "src/test/java"
	if p.Build != nil {
		if p.Build.SourceDirectory != "" {
			src = p.Build.SourceDirectory
		}
		if p.Build.TestSourceDirectory != "" {
			test = p.Build.TestSourceDirectory
		}
	}
	dirs := []string{src}
	if d.tests {
		dirs = append(dirs, test)
	}
	for _, rel := range dirs {
		if path := resolvePath(dir, rel); exists(path) {
			l.SourceDirs = append(l.SourceDirs, path)
		}
	}

	for _, dep := range p.dependencies() {
		if !d.wanted(dep) {
			continue
		}
		l.Dependencies = append(l.Dependencies, dep)
		jar := dep.SystemPath
		if jar == "" && d.repo != "" && dep.Version != "" {
			jar = jarPath(d.repo, dep)
		}
		if jar != "" && exists(jar) {
			l.Classpath = append(l.Classpath, jar)
			continue
		}
		log.Warningf("%s: %s not in local repository", dir, dep)
		l.Missing = append(l.Missing, dep)
	}

	for _, m := range p.Modules {
		if err := d.maven(l, filepath.Join(dir, m), seen); err != nil {
			return fmt.Errorf("module %s: %w", m, err)
		}
	}
	return nil
}

func (d *detector) wanted(dep Dependency) bool {
	if dep.Type != "" && dep.Type != "jar" {
		return false
	}
	switch dep.Scope {
	case "", "compile", "provided", "system":
		return true
	case "test":
		return d.tests
	}
	return false
}

// moduleDirs finds src/<project>/<module> directories holding a
// module-info.java.
func moduleDirs(rootDir string) ([]string, error) {
	projects, err := os.ReadDir(filepath.Join(rootDir, "src"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		projectDir := filepath.Join(rootDir, "src", p.Name())
		modules, err := os.ReadDir(projectDir)
		if err != nil {
			return nil, err
		}
		for _, m := range modules {
			moduleDir := filepath.Join(projectDir, m.Name())
			if m.IsDir() && exists(filepath.Join(moduleDir, "module-info.java")) {
				dirs = append(dirs, moduleDir)
			}
		}
	}
	return dirs, nil
}

func libJars(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var jars []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".jar" {
			jars = append(jars, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(jars)
	return jars, nil
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, filepath.FromSlash(path))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
