package codebase

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
)

const helperSource = `package p;

class Helper {
	static void load() throws java.io.IOException {}
}
`

const mainSource = `package p;

class Main {
	Helper helper;

	void m() throws Exception {
		int x = 1;
		helper.load();
		throw new Exception();
	}
}
`

func codes(ds []diag.Diagnostic) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func TestUpdateRecompiles(t *testing.T) {
	c := New(t.TempDir())
	require.NoError(t, c.UpdateFile("p/Main.java", []byte(mainSource)))
	assert.Equal(t, []string{diag.CodeUnknownType}, codes(c.Diagnostics("p/Main.java")), "Helper is missing")

	require.NoError(t, c.UpdateFile("p/Helper.java", []byte(helperSource)))
	assert.Empty(t, c.Diagnostics("p/Main.java"))
	assert.Equal(t, 2, c.Revision())
	assert.Equal(t, []string{"p/Helper.java", "p/Main.java"}, c.Paths())

	f := c.GetFile("p/Main.java")
	require.NotNil(t, f)
	assert.Equal(t, ast.FileCompleted, f.State)
	assert.NotEqual(t, ast.NoNode, f.Node)
	assert.Equal(t, mainSource, string(f.Content))

	c.RemoveFile("p/Helper.java")
	assert.Nil(t, c.GetFile("p/Helper.java"))
	assert.Equal(t, []string{diag.CodeUnknownType}, codes(c.Diagnostics("p/Main.java")))
}

func TestUpdateReportsSyntaxErrors(t *testing.T) {
	c := New(t.TempDir())
	require.NoError(t, c.UpdateFile("A.java", []byte("class A { void m() { int = ; } }")))
	ds := c.Diagnostics("A.java")
	require.NotEmpty(t, ds)
	assert.Equal(t, diag.CodeSyntax, ds[0].Code)
	assert.Equal(t, ds, c.GetFile("A.java").Diagnostics)
}

func TestStatementAt(t *testing.T) {
	c := New(t.TempDir())
	require.NoError(t, c.UpdateFiles(map[string][]byte{
		"p/Main.java":   []byte(mainSource),
		"p/Helper.java": []byte(helperSource),
	}))

	decl, ok := c.StatementAt("p/Main.java", 7, 3)
	require.True(t, ok)
	assert.Equal(t, ast.KindLocalVarDecl, decl.Kind)
	assert.Equal(t, []string{"int x"}, decl.Vars)
	assert.Empty(t, decl.Exceptions)
	require.Len(t, decl.Successors, 1)
	assert.Equal(t, ast.KindExprStmt, decl.Successors[0].Kind)
	assert.Equal(t, 8, decl.Successors[0].Span.Start.Line)

	call, ok := c.StatementAt("p/Main.java", 8, 10)
	require.True(t, ok)
	assert.Equal(t, []string{"java.io.IOException"}, call.Exceptions)

	throw, ok := c.StatementAt("p/Main.java", 9, 3)
	require.True(t, ok)
	assert.Equal(t, ast.KindThrowStmt, throw.Kind)
	assert.Equal(t, []string{"java.lang.Exception"}, throw.Exceptions)
	assert.Empty(t, throw.Successors)

	md := decl.Markdown()
	assert.Contains(t, md, "**LocalVarDecl**")
	assert.Contains(t, md, "- `ExprStmt at 8:3`")
	assert.Contains(t, md, "Throws: none")
	assert.Contains(t, md, "- `int x`")

	_, ok = c.StatementAt("p/Main.java", 1, 1)
	assert.False(t, ok, "package declaration is no statement")
	_, ok = c.StatementAt("p/Other.java", 7, 3)
	assert.False(t, ok)
}

func TestScanAllSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "Main.java"), mainSource)
	writeFile(t, filepath.Join(root, "p", "Helper.java"), helperSource)
	writeFile(t, filepath.Join(root, ".cache", "Junk.java"), "class Junk {")

	c := New(root)
	require.NoError(t, c.ScanAll())
	assert.Len(t, c.Paths(), 2)
	assert.Empty(t, c.AllDiagnostics())
}

func TestWatcherScan(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "p", "Main.java")
	helper := filepath.Join(root, "p", "Helper.java")
	writeFile(t, main, mainSource)

	c := New(root)
	var batches [][]string
	w := NewFileWatcher(c, WithPollInterval(time.Hour), OnChange(func(changed []string) {
		batches = append(batches, changed)
	}))

	assert.Equal(t, []string{main}, w.Scan())
	assert.Equal(t, []string{diag.CodeUnknownType}, codes(c.Diagnostics(main)))
	assert.Nil(t, w.Scan(), "nothing changed")

	writeFile(t, helper, helperSource)
	assert.Equal(t, []string{helper}, w.Scan())
	assert.Empty(t, c.Diagnostics(main))

	require.NoError(t, os.Remove(helper))
	assert.Equal(t, []string{helper}, w.Scan())
	assert.Equal(t, []string{diag.CodeUnknownType}, codes(c.Diagnostics(main)))

	assert.Len(t, batches, 3)
}

func TestWatcherScanWhileRunning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "Main.java"), mainSource)

	var mu sync.Mutex
	reported := 0
	w := NewFileWatcher(New(root), WithPollInterval(time.Millisecond), OnChange(func(changed []string) {
		mu.Lock()
		reported += len(changed)
		mu.Unlock()
	}))
	w.Start()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Scan()
		}()
	}
	wg.Wait()
	w.Stop()
	w.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, reported, "each change is seen by exactly one scan")
}

func TestDiagnosticParams(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "Main.java")
	helper := filepath.Join(root, "Helper.java")
	c := New(root)
	published := make(map[string]bool)

	require.NoError(t, c.UpdateFile(main, []byte(mainSource)))
	params := diagnosticParams(c, published)
	require.Len(t, params, 1)
	assert.Equal(t, pathToURI(main), params[0].URI)
	require.Len(t, params[0].Diagnostics, 1)
	d := params[0].Diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, diag.CodeUnknownType, d.Code.Value)
	assert.Equal(t, protocol.UInteger(3), d.Range.Start.Line)

	require.NoError(t, c.UpdateFile(helper, []byte(helperSource)))
	params = diagnosticParams(c, published)
	require.Len(t, params, 1, "only the cleared file is sent")
	assert.Empty(t, params[0].Diagnostics)
	assert.NotNil(t, params[0].Diagnostics, "an empty list clears the client")

	assert.Empty(t, diagnosticParams(c, published))
}

func TestToRange(t *testing.T) {
	r := toRange(token.Span{
		Start: token.Position{Line: 3, Column: 5},
		End:   token.Position{Line: 3, Column: 9},
	})
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 8},
	}, r)
	assert.Equal(t, protocol.Range{}, toRange(token.Span{}))
}

func TestURIs(t *testing.T) {
	path, err := uriToPath("file:///src/My%20App/A.java")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/src/My App/A.java"), path)

	path, err = uriToPath("A.java")
	require.NoError(t, err)
	assert.Equal(t, "A.java", path)

	assert.Equal(t, "file:///src/My%20App/A.java", pathToURI("/src/My App/A.java"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
