package ast_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/parser"
)

func TestFileStates(t *testing.T) {
	ctx, files := build(t,
		source{"A.java", "class A { void m() { B.run(); } }"},
		source{"B.java", "class B { static void run() {} }"},
	)
	for _, f := range files {
		assert.Equal(t, ast.FileConstructed, ctx.FileState(f))
	}
	assert.Equal(t, files, ctx.Files())
	id, ok := ctx.File("B.java")
	require.True(t, ok)
	assert.Equal(t, files[1], id)
	_, ok = ctx.File("C.java")
	assert.False(t, ok)

	ctx.CompleteFile(files[0])
	assert.Equal(t, ast.FileCompleted, ctx.FileState(files[0]))
	assert.Equal(t, ast.FileConstructed, ctx.FileState(files[1]))

	ctx.Complete()
	n := ctx.Diagnostics().Len()
	for _, f := range files {
		assert.Equal(t, ast.FileCompleted, ctx.FileState(f))
	}
	ctx.Complete()
	ctx.CompleteFile(files[1])
	assert.Equal(t, n, ctx.Diagnostics().Len())
	assert.Equal(t, "completed", ast.FileCompleted.String())
}

func TestRegisterFileErrors(t *testing.T) {
	ctx, files := build(t, source{"A.java", "class A {}"})
	assert.Error(t, ctx.RegisterFile(files[0]), "registered twice")

	cls := firstOf(t, ctx.Tree(), files[0], ast.KindClassDecl)
	assert.Error(t, ctx.RegisterFile(cls))

	_, err := parser.Parse(ast.NewSession(ctx), []byte("class B {}"), parser.WithFile("A.java"))
	assert.Error(t, err, "path reused")
}

// snapshot records what construction captured for a node.
type snapshot struct {
	scope  *ast.SymbolTable
	file   ast.NodeID
	typ    ast.NodeID
	parent ast.NodeID
}

func TestCompletionKeepsConstructionContext(t *testing.T) {
	src, err := os.ReadFile("../parser/testdata/Statements.java")
	require.NoError(t, err)
	ctx, _ := build(t,
		source{"Statements.java", string(src)},
		source{"p/A.java", fmt.Sprintf(exceptionsFixture, "try { both(); } catch (InterruptedException e) { io(); }")},
	)
	tree := ctx.Tree()
	before := make([]snapshot, tree.Len())
	for i := range before {
		n := tree.Node(ast.NodeID(i))
		before[i] = snapshot{n.Scope(), n.File(), n.EnclosingType(), n.Parent()}
	}

	ctx.Complete()

	require.Equal(t, len(before), tree.Len(), "completion adds no nodes")
	for i, want := range before {
		n := tree.Node(ast.NodeID(i))
		assert.Same(t, want.scope, n.Scope(), "scope of node %d", i)
		assert.Equal(t, want.file, n.File(), "file of node %d", i)
		assert.Equal(t, want.typ, n.EnclosingType(), "type of node %d", i)
		assert.Equal(t, want.parent, n.Parent(), "parent of node %d", i)
	}
}

type mapLoader struct {
	sources map[string]string
	asked   map[string]int
	loaded  []string
}

func (l *mapLoader) Load(ctx *ast.CompileContext, qualifiedName string) bool {
	l.asked[qualifiedName]++
	src, ok := l.sources[qualifiedName]
	if !ok {
		return false
	}
	l.loaded = append(l.loaded, qualifiedName)
	_, err := parser.Parse(ast.NewSession(ctx), []byte(src), parser.WithFile(qualifiedName+".java"))
	return err == nil
}

func TestLoader(t *testing.T) {
	loader := &mapLoader{sources: map[string]string{
		"q.Dep": `package q;
import java.io.IOException;
public class Dep {
	public void run() throws IOException {}
}`,
	}, asked: make(map[string]int)}
	ctx := ast.NewCompileContext(ast.WithLoader(loader))
	file, err := parser.Parse(ast.NewSession(ctx), []byte(`import q.Dep;
class A {
	Dep d;
	void m() throws Exception {
		d.run();
	}
}`), parser.WithFile("A.java"))
	require.NoError(t, err)
	ctx.Complete()

	assert.Equal(t, []string{"q.Dep"}, loader.loaded)
	dep, ok := ctx.File("q.Dep.java")
	require.True(t, ok)
	assert.Equal(t, ast.FileCompleted, ctx.FileState(dep))
	assert.Equal(t, []ast.NodeID{dep}, ctx.Dependencies(file))

	tree := ctx.Tree()
	stmt := body(t, tree, file, "m")[0]
	assert.Equal(t, []string{"java.io.IOException"}, typeNames(tree.Exceptions(stmt)))
	assert.Empty(t, codes(ctx))

	// A name the loader failed on is not asked for again.
	assert.False(t, ctx.Known("q.Missing"))
	assert.False(t, ctx.Known("q.Missing"))
	assert.Equal(t, 1, loader.asked["q.Missing"])
	assert.Equal(t, 1, loader.asked["q.Dep"])
}

func TestIsChecked(t *testing.T) {
	ctx, _ := compile(t, `class MyException extends Exception {}
class MyState extends IllegalStateException {}
class Plain {}`)
	tests := []struct {
		typ  ast.Type
		want bool
	}{
		{ast.ClassType("java.io.IOException"), true},
		{ast.ClassType("java.io.FileNotFoundException"), true},
		{ast.ExceptionType, true},
		{ast.ThrowableType, true},
		{ast.RuntimeExceptionType, false},
		{ast.ClassType("java.lang.IllegalArgumentException"), false},
		{ast.ErrorType, false},
		{ast.ClassType("java.lang.StackOverflowError"), false},
		{ast.StringType, false},
		{ast.ClassType("MyException"), true},
		{ast.ClassType("MyState"), false},
		{ast.ClassType("Plain"), false},
		{ast.ClassType("com.acme.WidgetException"), true},
		{ast.ClassType("com.acme.WidgetError"), false},
		{ast.ClassType("com.acme.Widget"), false},
		{ast.PrimitiveType("int"), false},
		{ast.ArrayOf(ast.ClassType("java.io.IOException"), 1), false},
		{ast.UnknownType("Missing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ctx.IsChecked(tt.typ))
		})
	}
}

func TestIsSubtype(t *testing.T) {
	ctx, _ := compile(t, `interface Shape {}
class Square implements Shape {}
class Cube extends Square {}`)
	tests := []struct {
		a, b ast.Type
		want bool
	}{
		{ast.ClassType("Cube"), ast.ClassType("Shape"), true},
		{ast.ClassType("Cube"), ast.ObjectType, true},
		{ast.ClassType("Shape"), ast.ClassType("Cube"), false},
		{ast.ArrayOf(ast.ClassType("Cube"), 1), ast.ArrayOf(ast.ClassType("Square"), 1), true},
		{ast.ArrayOf(ast.ClassType("Cube"), 1), ast.ClassType("Square"), false},
		{ast.ArrayOf(ast.PrimitiveType("int"), 2), ast.ObjectType, true},
		{ast.ClassType("java.io.FileNotFoundException"), ast.ThrowableType, true},
		{ast.PrimitiveType("int"), ast.ObjectType, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.IsSubtype(tt.a, tt.b), "%s <: %s", tt.a, tt.b)
	}
}

func TestLibraryOptions(t *testing.T) {
	bare := ast.NewCompileContext(ast.WithoutJDK())
	assert.False(t, bare.Known("java.lang.String"))
	_, ok := bare.Library("java.io.IOException")
	assert.False(t, ok)

	ctx := ast.NewCompileContext(ast.WithLibrary(
		ast.LibraryType{Name: "com.acme.ClientException", Super: "java.lang.Exception"},
		ast.LibraryType{Name: "com.acme.Client", Super: "java.lang.Object", Methods: []ast.LibraryMethod{
			{Name: "call", Arity: 0, Throws: []string{"com.acme.ClientException"}, Result: "void"},
		}},
	))
	assert.True(t, ctx.Known("java.lang.String"))
	lt, ok := ctx.Library("com.acme.Client")
	require.True(t, ok)
	assert.Len(t, lt.Methods, 1)

	file, err := parser.Parse(ast.NewSession(ctx), []byte(`import com.acme.Client;
class A {
	void m(Client c) throws Exception {
		c.call();
	}
}`), parser.WithFile("A.java"))
	require.NoError(t, err)
	ctx.Complete()
	tree := ctx.Tree()
	stmt := body(t, tree, file, "m")[0]
	assert.Equal(t, []string{"com.acme.ClientException"}, typeNames(tree.Exceptions(stmt)))
}
