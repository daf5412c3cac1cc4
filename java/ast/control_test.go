package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jresolve/java/ast"
)

func TestControlSequence(t *testing.T) {
	ctx, file := compile(t, `class A {
	void m(boolean c) {
		if (c) {
			a();
			b();
		}
		d();
	}
	void a() {}
	void b() {}
	void d() {}
}`)
	tree := ctx.Tree()
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 2)
	ifStmt, call := stmts[0], stmts[1]
	then := tree.Statements(ifStmt)[0]
	inner := tree.Statements(then)

	assert.Equal(t, []ast.NodeID{then, call}, tree.Control(ifStmt))
	assert.Equal(t, []ast.NodeID{inner[0]}, tree.Control(then))
	assert.Equal(t, []ast.NodeID{inner[1]}, tree.Control(inner[0]))
	// The last statement of the branch falls out past the if.
	assert.Equal(t, []ast.NodeID{call}, tree.Control(inner[1]))
	assert.Empty(t, tree.Control(call))
	assert.Empty(t, codes(ctx))
}

func TestControlIfElse(t *testing.T) {
	ctx, file := compile(t, `class A {
	int m(boolean c) {
		if (c) return 1; else return 2;
	}
}`)
	tree := ctx.Tree()
	ifStmt := body(t, tree, file, "m")[0]
	branches := tree.Statements(ifStmt)
	require.Len(t, branches, 2)
	assert.Equal(t, branches, tree.Control(ifStmt))
	assert.Empty(t, tree.Control(branches[0]))
	assert.Empty(t, tree.Control(branches[1]))
}

func TestControlLoops(t *testing.T) {
	ctx, file := compile(t, `class A {
	void m(boolean c) {
		while (c) { a(); }
		do { a(); } while (c);
		for (int i = 0; i < 3; i++) a();
		for (;;) { a(); }
	}
	void n(int[] xs) {
		for (int x : xs) a();
		while (true) {}
	}
	void a() {}
}`)
	tree := ctx.Tree()
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 4)
	for i, loop := range stmts[:3] {
		loopBody := tree.Statements(loop)[0]
		assert.Equal(t, []ast.NodeID{loopBody, stmts[i+1]}, tree.Control(loop), "loop %d", i)
	}
	forever := stmts[3]
	foreverBody := tree.Statements(forever)[0]
	assert.Equal(t, []ast.NodeID{foreverBody}, tree.Control(forever))

	// The last statement of a loop body goes back to the loop.
	last := tree.Statements(tree.Statements(stmts[0])[0])[0]
	assert.Equal(t, []ast.NodeID{stmts[0]}, tree.Control(last))
	assert.Equal(t, []ast.NodeID{stmts[2]}, tree.Control(tree.Statements(stmts[2])[0]))

	other := body(t, tree, file, "n")
	require.Len(t, other, 2)
	each := tree.Statements(other[0])[0]
	assert.Equal(t, []ast.NodeID{each, other[1]}, tree.Control(other[0]))
	assert.Equal(t, []ast.NodeID{other[0]}, tree.Control(each))
	whileTrue := tree.Statements(other[1])[0]
	assert.Equal(t, []ast.NodeID{whileTrue}, tree.Control(other[1]))
	// An empty block completes immediately.
	assert.Equal(t, []ast.NodeID{other[1]}, tree.Control(whileTrue))
}

func TestControlJumps(t *testing.T) {
	ctx, file := compile(t, `class A {
	void m(boolean c) {
		outer:
		for (;;) {
			while (c) {
				if (c) break outer;
				if (c) continue outer;
				if (c) break;
				continue;
			}
			try {
				break;
			} finally {
				x();
			}
		}
		y();
	}
	void x() {}
	void y() {}
}`)
	tree := ctx.Tree()
	root := method(t, tree, file, "m")
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 2)
	labeled, after := stmts[0], stmts[1]
	forStmt := tree.Statements(labeled)[0]
	whileStmt := firstOf(t, tree, root, ast.KindWhileStmt)
	try := firstOf(t, tree, root, ast.KindTryStmt)
	fin := firstOf(t, tree, try, ast.KindFinallyClause)
	finBlock := tree.FirstChildOfKind(fin, ast.KindBlock)

	breaks := nodesOf(tree, root, ast.KindBreakStmt)
	continues := nodesOf(tree, root, ast.KindContinueStmt)
	require.Len(t, breaks, 3)
	require.Len(t, continues, 2)

	assert.Equal(t, []ast.NodeID{after}, tree.Control(breaks[0]), "break outer")
	assert.Equal(t, []ast.NodeID{forStmt}, tree.Control(continues[0]), "continue outer")
	assert.Equal(t, []ast.NodeID{try}, tree.Control(breaks[1]), "break")
	assert.Equal(t, []ast.NodeID{whileStmt}, tree.Control(continues[1]), "continue")
	assert.Equal(t, []ast.NodeID{finBlock}, tree.Control(breaks[2]), "break through finally")

	// Finishing the finally block continues after the try statement.
	x := tree.Statements(finBlock)[0]
	assert.Equal(t, []ast.NodeID{forStmt}, tree.Control(x))
	assert.Equal(t, []ast.NodeID{forStmt}, tree.Control(labeled))
}

func TestControlReturnThroughFinally(t *testing.T) {
	ctx, file := compile(t, `class A {
	int m(boolean c) {
		try {
			if (c) return 1;
		} finally {
			f();
		}
		return 0;
	}
	void f() {}
}`)
	tree := ctx.Tree()
	root := method(t, tree, file, "m")
	returns := nodesOf(tree, root, ast.KindReturnStmt)
	require.Len(t, returns, 2)
	try := firstOf(t, tree, root, ast.KindTryStmt)
	finBlock := tree.FirstChildOfKind(tree.FirstChildOfKind(try, ast.KindFinallyClause), ast.KindBlock)

	assert.Equal(t, []ast.NodeID{finBlock}, tree.Control(returns[0]))
	assert.Empty(t, tree.Control(returns[1]))
	tryBlock := tree.FirstChildOfKind(try, ast.KindBlock)
	assert.Equal(t, []ast.NodeID{tryBlock}, tree.Control(try))
}

func TestControlSwitch(t *testing.T) {
	ctx, file := compile(t, `class A {
	void m(int k) {
		switch (k) {
		case 1:
		case 2:
			a();
		case 3:
			b();
			break;
		default:
			c();
		}
		d();
	}
	void n(int k) {
		switch (k) {
		case 1 -> a();
		case 2 -> { b(); }
		}
		d();
	}
	void a() {}
	void b() {}
	void c() {}
	void d() {}
}`)
	tree := ctx.Tree()
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 2)
	sw, after := stmts[0], stmts[1]
	cases := tree.ChildrenOfKind(sw, ast.KindSwitchCase)
	require.Len(t, cases, 3)
	a := tree.Statements(cases[0])[0]
	group := tree.Statements(cases[1])
	b, brk := group[0], group[1]
	c := tree.Statements(cases[2])[0]

	assert.Equal(t, []ast.NodeID{a, b, c}, tree.Control(sw))
	assert.Equal(t, []ast.NodeID{b}, tree.Control(a), "fall through")
	assert.Equal(t, []ast.NodeID{after}, tree.Control(brk))
	assert.Equal(t, []ast.NodeID{after}, tree.Control(c))

	stmts = body(t, tree, file, "n")
	require.Len(t, stmts, 2)
	sw, after = stmts[0], stmts[1]
	cases = tree.ChildrenOfKind(sw, ast.KindSwitchCase)
	require.Len(t, cases, 2)
	first := tree.Statements(cases[0])[0]
	block := tree.Statements(cases[1])[0]
	assert.Equal(t, []ast.NodeID{first, block, after}, tree.Control(sw))
	assert.Equal(t, []ast.NodeID{after}, tree.Control(first), "arrow cases do not fall through")
}

func TestControlThrow(t *testing.T) {
	ctx, file := compile(t, `import java.io.IOException;
class A {
	void m() throws IOException {
		try {
			throw new IOException();
		} catch (IOException e) {
			h();
		}
		try {
			throw new InterruptedException();
		} catch (IOException e) {
		} finally {
			h();
		}
		throw new IOException();
	}
	void h() {}
}`)
	tree := ctx.Tree()
	root := method(t, tree, file, "m")
	throws := nodesOf(tree, root, ast.KindThrowStmt)
	require.Len(t, throws, 3)
	tries := nodesOf(tree, root, ast.KindTryStmt)
	require.Len(t, tries, 2)

	catchBlock := tree.FirstChildOfKind(tree.FirstChildOfKind(tries[0], ast.KindCatchClause), ast.KindBlock)
	assert.Equal(t, []ast.NodeID{catchBlock}, tree.Control(throws[0]))
	finBlock := tree.FirstChildOfKind(tree.FirstChildOfKind(tries[1], ast.KindFinallyClause), ast.KindBlock)
	assert.Equal(t, []ast.NodeID{finBlock}, tree.Control(throws[1]), "uncaught exceptions run finally first")
	assert.Empty(t, tree.Control(throws[2]))
}

func TestLocalClassStatement(t *testing.T) {
	ctx, file := compile(t, "class A { void m() { class B {} } }")
	tree := ctx.Tree()
	stmts := body(t, tree, file, "m")
	require.Len(t, stmts, 1)
	stmt := stmts[0]
	require.Equal(t, ast.KindLocalClassDecl, tree.Kind(stmt))

	assert.Empty(t, tree.Control(stmt))
	exc := tree.Exceptions(stmt)
	assert.NotNil(t, exc)
	assert.Empty(t, exc)
	assert.True(t, tree.VarList(stmt).IsEmpty())

	def := tree.TypeDef(stmt)
	require.NotEqual(t, ast.NoNode, def)
	td := tree.TypeDecl(def)
	assert.Equal(t, "B", td.Name)
	assert.True(t, td.Local)
	assert.Empty(t, codes(ctx))
}

func TestControlIsMemoized(t *testing.T) {
	ctx, file := compile(t, `class A {
	void m(boolean c) {
		while (c) { if (c) break; }
		m(c);
	}
}`)
	tree := ctx.Tree()
	root := method(t, tree, file, "m")
	tree.Walk(root, func(id ast.NodeID) bool {
		if !tree.Kind(id).IsStatement() {
			return true
		}
		first := tree.Control(id)
		second := tree.Control(id)
		assert.Equal(t, first, second)
		if len(first) > 0 {
			assert.Same(t, &first[0], &second[0], "%v %d recomputed", tree.Kind(id), id)
		}
		return true
	})
}
