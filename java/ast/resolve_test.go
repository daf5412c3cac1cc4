package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
)

func TestResolveTypeNames(t *testing.T) {
	ctx, files := build(t,
		source{"p/Base.java", `package p;
public class Base {
	public static class Nested {}
}`},
		source{"p/Helper.java", `package p;
public class Helper {}`},
		source{"p/A.java", `package p;
import java.io.IOException;
import java.util.List;
public class A extends Base {
	class Inner {}
	void m() {
		class Local {}
		Local a;
		Inner b;
		Nested c;
		Helper d;
		IOException e;
		String f;
		List g;
		java.io.File h;
		A.Inner i;
		int[][] j;
		com.acme.Widget k;
	}
}`},
	)
	ctx.Complete()
	tree := ctx.Tree()
	stmts := body(t, tree, files[2], "m")
	want := []string{
		"p.A$1Local",
		"p.A.Inner",
		"p.Base.Nested",
		"p.Helper",
		"java.io.IOException",
		"java.lang.String",
		"java.util.List",
		"java.io.File",
		"p.A.Inner",
		"int[][]",
		"com.acme.Widget",
	}
	require.Len(t, stmts, len(want)+1)
	for i, stmt := range stmts[1:] {
		vl := tree.VarList(stmt)
		require.Equal(t, 1, vl.Len(), "statement %d", i)
		assert.Equal(t, want[i], vl.At(0).Type.String(), "variable %s", vl.At(0).Name)
	}
	assert.Empty(t, codes(ctx))
	assert.Equal(t, []ast.NodeID{files[0], files[1]}, ctx.Dependencies(files[2]))
}

func TestUnknownType(t *testing.T) {
	ctx, _ := compile(t, `class A {
	Missing field;
	Missing again() { return null; }
}`)
	found := diagnostics(ctx, diag.CodeUnknownType)
	require.Len(t, found, 2)
	for _, d := range found {
		assert.Contains(t, d.Message, "Missing")
		assert.Equal(t, diag.Error, d.Severity)
	}
}

func TestUnknownTypeWithOnDemandImport(t *testing.T) {
	ctx, file := compile(t, `import com.acme.*;
class A {
	Missing field;
}`)
	assert.Empty(t, diagnostics(ctx, diag.CodeUnknownType))
	vl := ctx.Tree().VarList(firstOf(t, ctx.Tree(), file, ast.KindFieldDecl))
	assert.False(t, vl.At(0).Type.IsKnown())
}

func TestDuplicateDeclarations(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"locals", "class A { void m() { int x; int x; } }", 1},
		{"parameters", "class A { void m(int x, int x) {} }", 1},
		{"fields", "class A { int f; String f; }", 1},
		{"member types", "class A { class B {} interface B {} }", 1},
		{"sibling blocks", "class A { void m() { { int y; } { int y; } } }", 0},
		{"field and method", "class A { int f; void f() {} }", 0},
		{"variable and type", "class A { class x {} int x; }", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := compile(t, tt.src)
			assert.Len(t, diagnostics(ctx, diag.CodeDuplicate), tt.want)
		})
	}
}

func TestDuplicateTypeReportedOnce(t *testing.T) {
	ctx, _ := compile(t, "class A {}\nclass A {}")
	found := diagnostics(ctx, diag.CodeDuplicate)
	require.Len(t, found, 1)
	assert.Equal(t, "Test.java", found[0].File())
	assert.Equal(t, 2, found[0].Span.Start.Line)
	assert.Equal(t, 7, found[0].Span.Start.Column)

	id, ok := ctx.LookupType("A")
	require.True(t, ok)
	assert.Equal(t, 1, ctx.Tree().Span(id).Start.Line, "the first declaration wins")
}

func TestDuplicateClassAcrossFiles(t *testing.T) {
	ctx, files := build(t,
		source{"one/A.java", "package p; class A {}"},
		source{"two/A.java", "package p; class A {}"},
	)
	ctx.Complete()
	found := diagnostics(ctx, diag.CodeDuplicate)
	require.Len(t, found, 1)
	assert.Equal(t, "two/A.java", found[0].File())
	id, ok := ctx.LookupType("p.A")
	require.True(t, ok)
	assert.Equal(t, files[0], ctx.Tree().Node(id).File())
}

func TestLookupVarNearestScope(t *testing.T) {
	ctx, file := compile(t, `class A {
	String x;
	void m() {
		int x = 1;
		use(x);
	}
	void n() {
		use(x);
	}
	void k() {
		use(x);
		long x = 2;
	}
	void use(Object o) {}
}`)
	tree := ctx.Tree()
	tests := []struct {
		method string
		want   string
	}{
		{"m", "int"},
		{"n", "java.lang.String"},
		{"k", "java.lang.String"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var use ast.NodeID = ast.NoNode
			for _, id := range nodesOf(tree, method(t, tree, file, tt.method), ast.KindName) {
				if tree.Node(id).Name() == "x" {
					use = id
				}
			}
			require.NotEqual(t, ast.NoNode, use)
			got, ok := tree.LookupVar(use, "x")
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
	assert.Empty(t, codes(ctx))
}

func TestUnresolvedMethodWarning(t *testing.T) {
	ctx, _ := compile(t, `class A {
	void m(B b) {
		missing();
		b.gone();
		b.present();
		toString();
	}
}
class B {
	void present() {}
}
class C extends com.acme.Base {
	void m() { inherited(); }
}`)
	found := diagnostics(ctx, diag.CodeUnresolvedMethod)
	require.Len(t, found, 2)
	assert.Contains(t, found[0].Message, "missing")
	assert.Contains(t, found[1].Message, "gone")
	for _, d := range found {
		assert.Equal(t, diag.Warning, d.Severity)
	}
	assert.False(t, ctx.Diagnostics().HasErrors())
}

func TestInheritedMethodThrows(t *testing.T) {
	ctx, file := compile(t, `import java.io.IOException;
class Base {
	void load() throws IOException {}
}
class A extends Base {
	void m() throws IOException {
		load();
		super.load();
		this.load();
	}
}`)
	tree := ctx.Tree()
	for _, stmt := range body(t, tree, file, "m") {
		assert.Equal(t, []string{"java.io.IOException"}, typeNames(tree.Exceptions(stmt)), tree.Text(stmt))
	}
	assert.Empty(t, codes(ctx))
}

func TestUnresolvedSingleTypeImport(t *testing.T) {
	ctx, file := compile(t, `import lib.Missing;
import com.acme.*;
class A {
	Missing m;
	Missing.Inner n;
}`)
	found := diagnostics(ctx, diag.CodeUnknownType)
	require.Len(t, found, 1, "reported once, at the import")
	assert.Contains(t, found[0].Message, "lib.Missing")
	assert.Equal(t, 1, found[0].Span.Start.Line)

	tree := ctx.Tree()
	for _, field := range nodesOf(tree, file, ast.KindFieldDecl) {
		assert.False(t, tree.VarList(field).At(0).Type.IsKnown(), tree.Text(field))
	}
}

func TestSingleTypeImportOfMemberType(t *testing.T) {
	ctx, _ := compile(t, `import p.Outer.Inner;
import p.Outer;
class A {
	Inner i;
}`)
	assert.Len(t, diagnostics(ctx, diag.CodeUnknownType), 2)

	ctx, files := build(t,
		source{"p/Outer.java", "package p; public class Outer { public static class Inner {} }"},
		source{"A.java", "import p.Outer.Inner;\nclass A { Inner i; }"},
	)
	ctx.Complete()
	assert.Empty(t, codes(ctx))
	tree := ctx.Tree()
	vl := tree.VarList(firstOf(t, tree, files[1], ast.KindFieldDecl))
	assert.Equal(t, "p.Outer.Inner", vl.At(0).Type.String())

	ctx, _ = build(t,
		source{"p/Outer.java", "package p; public class Outer {}"},
		source{"B.java", "import p.Outer;\nclass B { Outer.Nope n; }"},
	)
	ctx.Complete()
	found := diagnostics(ctx, diag.CodeUnknownType)
	require.Len(t, found, 1, "the import resolves but the member type does not")
	assert.Contains(t, found[0].Message, "Outer.Nope")
	assert.Equal(t, 2, found[0].Span.Start.Line)
}

func TestUnknownVariables(t *testing.T) {
	ctx, _ := compile(t, `class A {
	int f;
	void m(int p) {
		int a = missing;
		undeclared.close();
		missing2 = 3;
		int ok = a + p + f;
		String s = String.valueOf(ok);
		java.io.File.separator.length();
		switch (p) { case 1: break; }
		Object o = s;
		if (o instanceof String str && str.isEmpty()) {}
	}
}`)
	found := diagnostics(ctx, diag.CodeUnknownVariable)
	var names []string
	for _, d := range found {
		names = append(names, d.Message)
		assert.Equal(t, diag.Error, d.Severity)
	}
	assert.Equal(t, []string{
		"cannot find symbol: variable missing",
		"cannot find symbol: variable undeclared",
		"cannot find symbol: variable missing2",
	}, names)
	assert.Equal(t, 4, found[0].Span.Start.Line)
}

func TestStaticImportMayDeclareName(t *testing.T) {
	ctx, _ := compile(t, `import static com.acme.Config.LIMIT;
class A {
	int m() { return LIMIT + other; }
}`)
	found := diagnostics(ctx, diag.CodeUnknownVariable)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "other")
}

func TestUnknownVariableInheritedFromUnknownType(t *testing.T) {
	ctx, _ := compile(t, `class A extends com.acme.Base {
	void m() {
		int a = inherited;
		Object o = new Runnable() {
			public void run() { int b = alsoInherited; }
		};
	}
}`)
	assert.Empty(t, diagnostics(ctx, diag.CodeUnknownVariable))
}
