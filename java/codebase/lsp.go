package codebase

import (
	"maps"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jresolve/java/diag"
	"github.com/dhamidi/jresolve/java/token"
	"github.com/dhamidi/jresolve/project"
)

const lsName = "jresolve"

type LSPServer struct {
	codebase  *Codebase
	classpath []string
	handler   protocol.Handler
	server    *server.Server
	version   string
	published map[string]bool
}

func NewLSPServer(version string, classpath ...string) *LSPServer {
	ls := &LSPServer{
		version:   version,
		classpath: classpath,
		published: make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	classpath := ls.classpath
	if layout, err := project.Detect(rootDir); err == nil {
		classpath = append(slices.Clone(classpath), layout.Classpath...)
	} else {
		log.Warningf("%s", err)
	}
	ls.codebase = New(rootDir, WithClasspath(classpath...))

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Warningf("%s", err)
	}
	ls.publishDiagnostics(ctx)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(ctx, path, []byte(*params.Text))
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("%s", err)
	}
	ls.publishDiagnostics(ctx)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, path string, content []byte) {
	if err := ls.codebase.UpdateFile(path, content); err != nil {
		log.Warningf("%s", err)
	}
	ls.publishDiagnostics(ctx)
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line := int(params.Position.Line) + 1
	col := int(params.Position.Character) + 1

	info, ok := ls.codebase.StatementAt(path, line, col)
	if !ok {
		return nil, nil
	}
	rng := toRange(info.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: info.Markdown(),
		},
		Range: &rng,
	}, nil
}

// publishDiagnostics sends the diagnostics of every workspace file, and an
// empty list for files that had some last time and have none now.
func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context) {
	for _, p := range diagnosticParams(ls.codebase, ls.published) {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, p)
	}
}

func diagnosticParams(c *Codebase, published map[string]bool) []protocol.PublishDiagnosticsParams {
	byFile := make(map[string][]protocol.Diagnostic)
	for _, path := range c.Paths() {
		byFile[path] = []protocol.Diagnostic{}
	}
	for _, d := range c.AllDiagnostics() {
		if _, ok := byFile[d.File()]; ok {
			byFile[d.File()] = append(byFile[d.File()], toDiagnostic(d))
		}
	}
	for path := range published {
		if _, ok := byFile[path]; !ok {
			byFile[path] = []protocol.Diagnostic{}
		}
	}

	var out []protocol.PublishDiagnosticsParams
	for _, path := range slices.Sorted(maps.Keys(byFile)) {
		ds := byFile[path]
		if len(ds) == 0 && !published[path] {
			continue
		}
		published[path] = len(ds) > 0
		out = append(out, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: ds,
		})
	}
	return out
}

func toDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == diag.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := lsName
	return protocol.Diagnostic{
		Range:    toRange(d.Span),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   &source,
		Message:  d.Message,
	}
}

// toRange converts 1-based positions to the protocol's 0-based ones.
func toRange(s token.Span) protocol.Range {
	pos := func(p token.Position) protocol.Position {
		if !p.IsValid() {
			return protocol.Position{}
		}
		return protocol.Position{
			Line:      protocol.UInteger(p.Line - 1),
			Character: protocol.UInteger(max(p.Column-1, 0)),
		}
	}
	end := s.End
	if !end.IsValid() {
		end = s.Start
	}
	return protocol.Range{Start: pos(s.Start), End: pos(end)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
