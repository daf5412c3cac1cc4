package ast_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
)

type namedVar struct {
	Name string
	Type string
}

func vars(l ast.VarList) []namedVar {
	var out []namedVar
	for _, v := range l.Vars() {
		out = append(out, namedVar{v.Name, v.Type.String()})
	}
	return out
}

const varsFixture = `import java.io.IOException;
import java.io.FileInputStream;
import java.util.ArrayList;
class A {
	int f, g[];
	void m(int x, String... rest) throws Exception {
		int a = 1, b[] = {};
		for (int i = 0, j = 1; i < j; i++) {}
		for (String s : rest) {}
		try (FileInputStream in = new FileInputStream(rest[0])) {
		} catch (IOException | RuntimeException e) {
		}
		var list = new ArrayList<String>();
		var n = 1;
		a++;
		class Local {}
	}
}`

func TestVarList(t *testing.T) {
	ctx, file := compile(t, varsFixture)
	tree := ctx.Tree()
	root := method(t, tree, file, "m")
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 8)

	tests := []struct {
		name string
		node ast.NodeID
		want []namedVar
	}{
		{"fields", firstOf(t, tree, file, ast.KindFieldDecl), []namedVar{{"f", "int"}, {"g", "int[]"}}},
		{"parameters", firstOf(t, tree, root, ast.KindParameters), []namedVar{{"x", "int"}, {"rest", "java.lang.String[]"}}},
		{"local variables", stmts[0], []namedVar{{"a", "int"}, {"b", "int[]"}}},
		{"for init", firstOf(t, tree, stmts[1], ast.KindForInit), []namedVar{{"i", "int"}, {"j", "int"}}},
		{"for statement", stmts[1], nil},
		{"enhanced for", stmts[2], []namedVar{{"s", "java.lang.String"}}},
		{"resources", firstOf(t, tree, stmts[3], ast.KindResources), []namedVar{{"in", "java.io.FileInputStream"}}},
		{"multi-catch", firstOf(t, tree, stmts[3], ast.KindCatchClause), []namedVar{{"e", "java.io.IOException"}}},
		{"inferred class", stmts[4], []namedVar{{"list", "java.util.ArrayList"}}},
		{"inferred primitive", stmts[5], []namedVar{{"n", "int"}}},
		{"expression statement", stmts[6], nil},
		{"local class", stmts[7], nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.VarList(tt.node)
			if diff := deep.Equal(vars(got), tt.want); diff != nil {
				t.Error(diff)
			}
			assert.Equal(t, len(tt.want), got.Len())
		})
	}
	assert.Empty(t, codes(ctx))
}

func TestVarListIsMemoized(t *testing.T) {
	ctx, file := compile(t, varsFixture)
	tree := ctx.Tree()
	for _, stmt := range body(t, tree, file, "m") {
		first := tree.VarList(stmt)
		if diff := deep.Equal(vars(first), vars(tree.VarList(stmt))); diff != nil {
			t.Errorf("%v: %v", tree.Kind(stmt), diff)
		}
	}
}

func TestVarListLookup(t *testing.T) {
	l := ast.NewVarList(
		ast.Var{Name: "a", Type: ast.PrimitiveType("int")},
		ast.Var{Name: "b", Type: ast.StringType},
	)
	assert.Equal(t, []string{"a", "b"}, l.Names())
	v, ok := l.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, ast.StringType, v.Type)
	_, ok = l.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, "a", l.At(0).Name)

	copied := l.Vars()
	copied[0].Name = "changed"
	assert.Equal(t, "a", l.At(0).Name)

	var empty ast.VarList
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Names())
}
