package compile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dhamidi/jresolve/classfile"
	"github.com/dhamidi/jresolve/java/ast"
)

// ClassLoader defines library types from compiled classes found below
// classpath directories or inside .jar files on the classpath. The
// hierarchy, method arities, results and declared exceptions are taken
// from the class file.
type ClassLoader struct {
	roots []string
}

func NewClassLoader(roots ...string) *ClassLoader {
	return &ClassLoader{roots: roots}
}

func (l *ClassLoader) Load(ctx *ast.CompileContext, qualifiedName string) bool {
	entry := classEntry(qualifiedName)
	if entry == "" {
		return false
	}
	for _, root := range l.roots {
		data, err := readClass(root, entry)
		if err != nil {
			continue
		}
		cf, err := classfile.Parse(bytes.NewReader(data))
		if err != nil {
			log.Warningf("load %s from %s: %s", qualifiedName, root, err)
			return false
		}
		lt, err := libraryType(cf)
		if err != nil {
			log.Warningf("load %s from %s: %s", qualifiedName, root, err)
			return false
		}
		ctx.DefineLibrary(lt)
		log.Debugf("loaded %s from %s", qualifiedName, root)
		return true
	}
	return false
}

// classEntry maps p.Outer.Inner to p/Outer$Inner.class: the first
// capitalized segment starts the class name.
func classEntry(qualifiedName string) string {
	parts := strings.Split(qualifiedName, ".")
	for i, part := range parts {
		if capitalized(part) {
			pkg := strings.Join(parts[:i], "/")
			return path.Join(pkg, strings.Join(parts[i:], "$")+".class")
		}
	}
	return ""
}

func readClass(root, entry string) ([]byte, error) {
	if strings.HasSuffix(root, ".jar") || strings.HasSuffix(root, ".zip") {
		return readJarEntry(root, entry)
	}
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(entry)))
}

func readJarEntry(jar, entry string) ([]byte, error) {
	r, err := zip.OpenReader(jar)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	f, err := r.Open(entry)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func libraryType(cf *classfile.ClassFile) (ast.LibraryType, error) {
	lt := ast.LibraryType{
		Name:      classfile.JavaName(cf.Name),
		Interface: cf.AccessFlags.IsInterface(),
	}
	if cf.SuperName != "" {
		lt.Super = classfile.JavaName(cf.SuperName)
	}
	for _, name := range cf.Interfaces {
		lt.Interfaces = append(lt.Interfaces, classfile.JavaName(name))
	}
	for _, f := range cf.Fields {
		if !f.AccessFlags.IsStatic() || f.AccessFlags.IsPrivate() {
			continue
		}
		typ, err := classfile.ParseFieldDescriptor(f.Descriptor)
		if err != nil {
			return lt, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if lt.Fields == nil {
			lt.Fields = make(map[string]string)
		}
		lt.Fields[f.Name] = typ
	}
	for _, m := range cf.Methods {
		if m.Name == "<clinit>" || m.AccessFlags.IsPrivate() || m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() {
			continue
		}
		md, err := classfile.ParseMethodDescriptor(m.Descriptor)
		if err != nil {
			return lt, fmt.Errorf("method %s: %w", m.Name, err)
		}
		lm := ast.LibraryMethod{
			Name:   m.Name,
			Arity:  len(md.Parameters),
			Result: md.Result,
		}
		if m.AccessFlags.IsVarargs() {
			lm.Arity = -1
		}
		for _, e := range m.Exceptions {
			lm.Throws = append(lm.Throws, classfile.JavaName(e))
		}
		lt.Methods = append(lt.Methods, lm)
	}
	return lt, nil
}

// loaders tries each loader in turn.
type loaders []ast.Loader

func (ls loaders) Load(ctx *ast.CompileContext, qualifiedName string) bool {
	for _, l := range ls {
		if l.Load(ctx, qualifiedName) {
			return true
		}
	}
	return false
}
