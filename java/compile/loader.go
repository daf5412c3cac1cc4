package compile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/parser"
)

// SourceLoader finds the source of a type below a list of root
// directories, the way javac's -sourcepath does: p.q.Name is read from
// root/p/q/Name.java. A member type p.Outer.Inner is looked for in
// root/p/Outer/Inner.java, then in root/p/Outer.java.
type SourceLoader struct {
	roots []string
}

func NewSourceLoader(roots ...string) *SourceLoader {
	return &SourceLoader{roots: roots}
}

func (l *SourceLoader) Load(ctx *ast.CompileContext, qualifiedName string) bool {
	for _, rel := range sourceCandidates(qualifiedName) {
		for _, root := range l.roots {
			path := filepath.Join(root, rel)
			if _, ok := ctx.File(path); ok {
				continue
			}
			src, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if _, err := parser.Parse(ast.NewSession(ctx), src, parser.WithFile(path)); err != nil {
				log.Warningf("load %s: %s", qualifiedName, err)
				return false
			}
			log.Debugf("loaded %s from %s", qualifiedName, path)
			return true
		}
	}
	return false
}

// sourceCandidates lists the relative paths that may declare a type, most
// specific first. Names whose last segment is not capitalized are taken to
// be packages and have none.
func sourceCandidates(qualifiedName string) []string {
	parts := strings.Split(qualifiedName, ".")
	if !capitalized(parts[len(parts)-1]) {
		return nil
	}
	var out []string
	for n := len(parts); n > 0; n-- {
		if !capitalized(parts[n-1]) {
			break
		}
		out = append(out, filepath.Join(parts[:n]...)+".java")
	}
	return out
}

func capitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
