package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
)

const useSource = `package app;

import lib.Store;
import jarred.Thing;

class Use {
	void run(Store s, Store.Entry e) throws Exception {
		s.save("x");
		e.open();
		Thing.pause();
		s.log("a", 1, 2);
		Store.find(1, 2);
	}

	void hidden(Store s) {
		s.secret();
	}
}
`

func statementExceptions(tree *ast.Tree, file ast.NodeID) [][]string {
	var out [][]string
	tree.Walk(file, func(id ast.NodeID) bool {
		if tree.Kind(id) != ast.KindExprStmt {
			return true
		}
		names := []string{}
		for _, typ := range tree.Exceptions(id) {
			names = append(names, typ.String())
		}
		out = append(out, names)
		return true
	})
	return out
}

func TestClassLoader(t *testing.T) {
	c := New(WithClasspath("testdata/classes", "testdata/jars/things.jar"))
	file, err := c.AddSource("Use.java", []byte(useSource))
	require.NoError(t, err)
	require.NoError(t, c.Complete())

	want := [][]string{
		{"java.io.IOException"},
		{"lib.StoreException"},
		{"java.lang.InterruptedException"},
		{},
		{},
		{},
	}
	assert.Equal(t, want, statementExceptions(c.Context().Tree(), file))

	// Library members may be incomplete, so a miss such as the private
	// secret is not reported.
	assert.Empty(t, c.Diagnostics())

	ctx := c.Context()
	store, ok := ctx.Library("lib.Store")
	require.True(t, ok)
	assert.Equal(t, "java.lang.Object", store.Super)
	assert.Equal(t, []string{"java.io.Closeable"}, store.Interfaces)
	assert.Equal(t, map[string]string{"DEFAULT": "lib.Store"}, store.Fields)

	exc, ok := ctx.Library("lib.StoreException")
	require.True(t, ok)
	assert.Equal(t, "java.io.IOException", exc.Super)
	assert.True(t, ctx.IsChecked(ast.ClassType("lib.StoreException")))
}

func TestLibraryTypeMethods(t *testing.T) {
	c := New(WithClasspath("testdata/classes"))
	require.True(t, c.Context().Known("lib.Store"))
	store, _ := c.Context().Library("lib.Store")

	byName := make(map[string]ast.LibraryMethod)
	for _, m := range store.Methods {
		assert.NotContains(t, byName, m.Name, "bridge methods are skipped")
		byName[m.Name] = m
	}
	assert.NotContains(t, byName, "secret")
	assert.Equal(t, ast.LibraryMethod{Name: "<init>", Arity: 0, Result: "void"}, byName["<init>"])
	assert.Equal(t, -1, byName["log"].Arity)
	assert.Equal(t, []string{"java.io.IOException"}, byName["close"].Throws)
	assert.Equal(t, "java.util.Map.Entry[][]", byName["find"].Result)
	assert.Equal(t, 2, byName["find"].Arity)
}

func TestClassLoaderJarInterface(t *testing.T) {
	c := New(WithClasspath("testdata/jars/things.jar"))
	ctx := c.Context()
	require.True(t, ctx.Known("jarred.Task"))
	task, _ := ctx.Library("jarred.Task")
	assert.True(t, task.Interface)
	assert.Equal(t, []string{"java.lang.Runnable"}, task.Interfaces)

	assert.False(t, ctx.Known("jarred.Missing"))
}

func TestClassEntry(t *testing.T) {
	tests := map[string]string{
		"lib.Store":          "lib/Store.class",
		"lib.Store.Entry":    "lib/Store$Entry.class",
		"Top":                "Top.class",
		"com.acme.A.B.C":     "com/acme/A$B$C.class",
		"com.acme.lowercase": "",
	}
	for name, want := range tests {
		assert.Equal(t, want, classEntry(name), name)
	}
}
