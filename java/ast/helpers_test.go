package ast_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/parser"
)

type source struct {
	path string
	src  string
}

// build parses every source into one context without completing it.
func build(t *testing.T, sources ...source) (*ast.CompileContext, []ast.NodeID) {
	t.Helper()
	ctx := ast.NewCompileContext()
	s := ast.NewSession(ctx)
	var files []ast.NodeID
	for _, src := range sources {
		file, err := parser.Parse(s, []byte(src.src), parser.WithFile(src.path))
		require.NoError(t, err)
		files = append(files, file)
	}
	return ctx, files
}

// compile parses and completes a single file.
func compile(t *testing.T, src string) (*ast.CompileContext, ast.NodeID) {
	t.Helper()
	ctx, files := build(t, source{"Test.java", src})
	ctx.Complete()
	return ctx, files[0]
}

func nodesOf(tree *ast.Tree, root ast.NodeID, kind ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	tree.Walk(root, func(id ast.NodeID) bool {
		if tree.Kind(id) == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

func firstOf(t *testing.T, tree *ast.Tree, root ast.NodeID, kind ast.Kind) ast.NodeID {
	t.Helper()
	nodes := nodesOf(tree, root, kind)
	require.NotEmpty(t, nodes, "no %v under node %d", kind, root)
	return nodes[0]
}

// method finds a method or constructor declaration by name.
func method(t *testing.T, tree *ast.Tree, root ast.NodeID, name string) ast.NodeID {
	t.Helper()
	for _, kind := range []ast.Kind{ast.KindMethodDecl, ast.KindConstructorDecl} {
		for _, id := range nodesOf(tree, root, kind) {
			if tree.Node(id).Name() == name {
				return id
			}
		}
	}
	t.Fatalf("no method %s", name)
	return ast.NoNode
}

// body returns the statements of a method body.
func body(t *testing.T, tree *ast.Tree, root ast.NodeID, name string) []ast.NodeID {
	t.Helper()
	m := tree.Method(method(t, tree, root, name))
	require.NotEqual(t, ast.NoNode, m.Body)
	return tree.Statements(m.Body)
}

func typeNames(types []ast.Type) []string {
	names := make([]string, 0, len(types))
	for _, ty := range types {
		names = append(names, ty.String())
	}
	return names
}

func codes(ctx *ast.CompileContext) []string {
	var out []string
	for _, d := range ctx.Diagnostics().Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func diagnostics(ctx *ast.CompileContext, code string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ctx.Diagnostics().Diagnostics() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func describe(tree *ast.Tree, ids []ast.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprintf("%v %q", tree.Kind(id), tree.Text(id)))
	}
	return out
}
