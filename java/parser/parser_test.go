package parser

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
)

func parse(t *testing.T, src string) (*ast.CompileContext, ast.NodeID) {
	t.Helper()
	ctx := ast.NewCompileContext()
	s := ast.NewSession(ctx)
	file, err := Parse(s, []byte(src), WithFile("Test.java"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return ctx, file
}

// find returns the first node of the given kind in preorder.
func find(tree *ast.Tree, root ast.NodeID, kind ast.Kind) ast.NodeID {
	found := ast.NoNode
	tree.Walk(root, func(id ast.NodeID) bool {
		if found != ast.NoNode {
			return false
		}
		if tree.Kind(id) == kind {
			found = id
			return false
		}
		return true
	})
	return found
}

func findAll(tree *ast.Tree, root ast.NodeID, kind ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	tree.Walk(root, func(id ast.NodeID) bool {
		if tree.Kind(id) == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

func syntaxErrors(ctx *ast.CompileContext) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ctx.Diagnostics().Diagnostics() {
		if d.Code == diag.CodeSyntax {
			out = append(out, d)
		}
	}
	return out
}

func source(t *testing.T, tree *ast.Tree, id ast.NodeID) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tree.WriteSource(&buf, id); err != nil {
		t.Fatalf("WriteSource: %v", err)
	}
	return buf.String()
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.Kind
	}{
		{"42", ast.KindLiteral},
		{"\"s\"", ast.KindLiteral},
		{"x", ast.KindName},
		{"x + y", ast.KindBinaryExpr},
		{"x * y + z", ast.KindBinaryExpr},
		{"a >> 2", ast.KindBinaryExpr},
		{"a >>> 2", ast.KindBinaryExpr},
		{"a < b", ast.KindBinaryExpr},
		{"-x", ast.KindUnaryExpr},
		{"!x", ast.KindUnaryExpr},
		{"x++", ast.KindPostfixExpr},
		{"a ? b : c", ast.KindTernaryExpr},
		{"x = 5", ast.KindAssignExpr},
		{"x >>= 5", ast.KindAssignExpr},
		{"x >>>= 5", ast.KindAssignExpr},
		{"(x)", ast.KindParenExpr},
		{"(x) + 1", ast.KindBinaryExpr},
		{"obj.field", ast.KindFieldAccess},
		{"obj.method()", ast.KindCallExpr},
		{"method(1, 2)", ast.KindCallExpr},
		{"List.<String>of()", ast.KindCallExpr},
		{"arr[0]", ast.KindArrayAccess},
		{"new Foo()", ast.KindNewExpr},
		{"new java.util.ArrayList<>()", ast.KindNewExpr},
		{"new int[10]", ast.KindNewArrayExpr},
		{"new String[] {\"a\"}", ast.KindNewArrayExpr},
		{"x -> x + 1", ast.KindLambdaExpr},
		{"(a, b) -> a + b", ast.KindLambdaExpr},
		{"(String s) -> s", ast.KindLambdaExpr},
		{"() -> {}", ast.KindLambdaExpr},
		{"obj::method", ast.KindMethodRef},
		{"Foo::new", ast.KindMethodRef},
		{"int[]::new", ast.KindMethodRef},
		{"x instanceof Foo", ast.KindInstanceofExpr},
		{"x instanceof Foo f", ast.KindInstanceofExpr},
		{"(int) x", ast.KindCastExpr},
		{"(String) x", ast.KindCastExpr},
		{"(Runnable & java.io.Serializable) () -> {}", ast.KindCastExpr},
		{"String.class", ast.KindClassLiteral},
		{"String[].class", ast.KindClassLiteral},
		{"String[][].class", ast.KindClassLiteral},
		{"int.class", ast.KindClassLiteral},
		{"int[].class", ast.KindClassLiteral},
		{"this", ast.KindThis},
		{"Outer.this", ast.KindThis},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := fmt.Sprintf("class T { Object f = %s; }", tt.input)
			ctx, file := parse(t, src)
			tree := ctx.Tree()
			decl := find(tree, file, ast.KindVarDeclarator)
			if decl == ast.NoNode {
				t.Fatalf("no declarator in %q", src)
			}
			children := tree.Children(decl)
			init := children[len(children)-1]
			if got := tree.Kind(init); got != tt.kind {
				t.Errorf("got %v, want %v", got, tt.kind)
			}
			if errs := syntaxErrors(ctx); len(errs) > 0 {
				t.Errorf("unexpected syntax errors: %v", errs)
			}
		})
	}
}

func TestParseShiftOperators(t *testing.T) {
	ctx, file := parse(t, "class T { int f = a >>> 2 > b >> 1 ? 1 : 0; }")
	tree := ctx.Tree()
	bins := findAll(tree, file, ast.KindBinaryExpr)
	if len(bins) != 3 {
		t.Fatalf("got %d binary expressions, want 3", len(bins))
	}
	// (a >>> 2) > (b >> 1)
	top := bins[0]
	ops := 0
	for _, c := range tree.Children(top) {
		if tree.Node(c).IsLeaf() {
			ops++
		}
	}
	if ops != 1 {
		t.Errorf("top-level comparison has %d operator tokens, want 1", ops)
	}
	if got := tree.Text(bins[1]); got != "a > > > 2" {
		t.Errorf("left operand = %q, want %q", got, "a > > > 2")
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		types []string
	}{
		{"empty class", "class Foo {}", []string{"Foo"}},
		{"class with package", "package com.example;\nclass Foo {}", []string{"com.example.Foo"}},
		{"class with import", "import java.util.List;\nclass Foo {}", []string{"Foo"}},
		{"class with field", "class Foo { int x; }", []string{"Foo"}},
		{"class with method", "class Foo { void bar() {} }", []string{"Foo"}},
		{"class with constructor", "class Foo { Foo() {} }", []string{"Foo"}},
		{"class extends", "class Foo extends Bar {}", []string{"Foo"}},
		{"class implements", "class Foo implements Bar, Baz {}", []string{"Foo"}},
		{"generic class", "class Foo<T> {}", []string{"Foo"}},
		{"interface", "interface Foo {}", []string{"Foo"}},
		{"enum", "enum Color { RED, GREEN, BLUE }", []string{"Color"}},
		{"member types", "package p; class A { class B { interface C {} } enum D {} }", []string{"p.A", "p.A.B", "p.A.B.C", "p.A.D"}},
		{"two top-level types", "class A {} class B {}", []string{"A", "B"}},
		{"method with throws", "class Foo { void bar() throws Exception {} }", []string{"Foo"}},
		{"annotated class", "@Deprecated public class Foo {}", []string{"Foo"}},
		{"annotated package", "@Deprecated package p;\nclass Foo {}", []string{"p.Foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, file := parse(t, tt.input)
			if errs := syntaxErrors(ctx); len(errs) > 0 {
				t.Errorf("unexpected syntax errors: %v", errs)
			}
			for _, name := range tt.types {
				if _, ok := ctx.LookupType(name); !ok {
					t.Errorf("type %s not registered", name)
				}
			}
			if got := ctx.FileState(file); got != ast.FileConstructed {
				t.Errorf("file state = %v, want %v", got, ast.FileConstructed)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.Kind
	}{
		{"{}", ast.KindBlock},
		{";", ast.KindEmptyStmt},
		{"x = 1;", ast.KindExprStmt},
		{"int x = 1;", ast.KindLocalVarDecl},
		{"final var x = 1;", ast.KindLocalVarDecl},
		{"java.util.List<String> xs = null;", ast.KindLocalVarDecl},
		{"if (a) b(); else c();", ast.KindIfStmt},
		{"while (a) {}", ast.KindWhileStmt},
		{"do {} while (a);", ast.KindDoStmt},
		{"for (int i = 0; i < 10; i++) {}", ast.KindForStmt},
		{"for (;;) {}", ast.KindForStmt},
		{"for (String s : xs) {}", ast.KindEnhancedForStmt},
		{"switch (x) { case 1: break; default: }", ast.KindSwitchStmt},
		{"switch (x) { case 1, 2 -> a(); default -> {} }", ast.KindSwitchStmt},
		{"return;", ast.KindReturnStmt},
		{"break;", ast.KindBreakStmt},
		{"continue;", ast.KindContinueStmt},
		{"throw e;", ast.KindThrowStmt},
		{"try {} finally {}", ast.KindTryStmt},
		{"try (var r = open()) {}", ast.KindTryStmt},
		{"try {} catch (A | B e) {}", ast.KindTryStmt},
		{"synchronized (this) {}", ast.KindSynchronizedStmt},
		{"assert x : \"m\";", ast.KindAssertStmt},
		{"label: for (;;) {}", ast.KindLabeledStmt},
		{"class Local {}", ast.KindLocalClassDecl},
		{"abstract class Local {}", ast.KindLocalClassDecl},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := fmt.Sprintf("class T { void m() { %s } }", tt.input)
			ctx, file := parse(t, src)
			tree := ctx.Tree()
			method := find(tree, file, ast.KindMethodDecl)
			body := tree.FirstChildOfKind(method, ast.KindBlock)
			stmts := tree.Statements(body)
			if len(stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(stmts))
			}
			if got := tree.Kind(stmts[0]); got != tt.kind {
				t.Errorf("got %v, want %v", got, tt.kind)
			}
			if errs := syntaxErrors(ctx); len(errs) > 0 {
				t.Errorf("unexpected syntax errors: %v", errs)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"class A {}",
		"// leading\npackage p; /* c */ import java.util.*;\n\nclass A {\n\tint x = 1; // one\n}\n",
		"class A { void m() { int x = ; } void n() {} }",
		"class A { void m() { foo( } }",
		"class { }",
		"class A { int }",
		"class A { void m() { try { } } }",
		"class A { void m() { else x(); } }",
		"@ # $ class A",
		"class A { Map<String, List<Integer>> m; int s = a >>> b; }",
		"class A {\r\n  String t = \"\"\"\r\n    x\r\n    \"\"\";\r\n}",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			ctx, file := parse(t, src)
			if got := source(t, ctx.Tree(), file); got != src {
				t.Errorf("round trip mismatch\n got: %q\nwant: %q", got, src)
			}
		})
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		methods int
	}{
		{"missing initializer", "class A { void m() { int x = ; } void n() {} }", 2},
		{"unclosed call", "class A { void m() { foo(; } void n() {} }", 2},
		{"dangling operator", "class A { void m() { x + ; } void n() {} }", 2},
		{"try without handlers", "class A { void m() { try { } } void n() {} }", 2},
		{"missing type name", "class { void m() {} }", 0},
		{"stray else", "class A { void m() { else x(); } void n() {} }", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, file := parse(t, tt.input)
			errs := syntaxErrors(ctx)
			if len(errs) == 0 {
				t.Fatalf("expected a syntax error")
			}
			for _, d := range errs {
				if d.File() != "Test.java" {
					t.Errorf("diagnostic file = %q, want Test.java", d.File())
				}
			}
			if got := len(findAll(ctx.Tree(), file, ast.KindMethodDecl)); got < tt.methods {
				t.Errorf("recovered %d methods, want at least %d", got, tt.methods)
			}
		})
	}
}

func TestSyntaxErrorReportedOncePerPosition(t *testing.T) {
	ctx, _ := parse(t, "class A { void m() { int x = ; } }")
	errs := syntaxErrors(ctx)
	seen := map[int]bool{}
	for _, d := range errs {
		if seen[d.Span.Start.Offset] {
			t.Errorf("duplicate diagnostic at offset %d: %v", d.Span.Start.Offset, d)
		}
		seen[d.Span.Start.Offset] = true
	}
}

func TestParseCapturesScopes(t *testing.T) {
	src := `class A {
    int field;
    void m(int p) {
        int x = p;
        {
            int y = x;
        }
        Runnable r = () -> { int z = y; };
    }
}`
	ctx, file := parse(t, src)
	tree := ctx.Tree()

	names := findAll(tree, file, ast.KindName)
	byName := map[string]ast.NodeID{}
	for _, id := range names {
		byName[tree.Node(id).Name()] = id
	}

	p := tree.Node(byName["p"]).Scope()
	if p.Kind() != ast.ScopeBlock {
		t.Errorf("scope of p reference = %v, want %v", p.Kind(), ast.ScopeBlock)
	}
	if p.Lookup("p") == nil {
		t.Errorf("parameter p not visible from the method body")
	}

	x := tree.Node(byName["x"]).Scope()
	if x.Parent() == nil || x.Parent().Kind() != ast.ScopeBlock {
		t.Errorf("inner block scope should nest in the method body scope")
	}
	if x.Lookup("x") == nil {
		t.Errorf("x not visible from the inner block")
	}

	y := tree.Node(byName["y"]).Scope()
	if y.Lookup("y") != nil {
		t.Errorf("y leaked out of its block")
	}
	lambda := find(tree, file, ast.KindLambdaExpr)
	if got := tree.Node(lambda).Scope().Kind(); got != ast.ScopeLambda {
		t.Errorf("lambda scope = %v, want %v", got, ast.ScopeLambda)
	}
}

func TestParseTestdata(t *testing.T) {
	for _, name := range []string{"Declarations.java", "Statements.java"} {
		t.Run(name, func(t *testing.T) {
			src := readTestdata(t, name)
			ctx := ast.NewCompileContext()
			file, err := Parse(ast.NewSession(ctx), src, WithFile(name))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			for _, d := range syntaxErrors(ctx) {
				t.Errorf("%v", d)
			}
			if got := source(t, ctx.Tree(), file); got != string(src) {
				t.Errorf("round trip mismatch")
				diffLines(t, string(src), got)
			}
		})
	}
}

func diffLines(t *testing.T, want, got string) {
	t.Helper()
	w, g := strings.Split(want, "\n"), strings.Split(got, "\n")
	for i := 0; i < len(w) && i < len(g); i++ {
		if w[i] != g[i] {
			t.Logf("first difference at line %d:\n got: %q\nwant: %q", i+1, g[i], w[i])
			return
		}
	}
	t.Logf("line counts differ: got %d, want %d", len(g), len(w))
}
