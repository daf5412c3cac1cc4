package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/token"
)

// TreeJSONEncoder dumps a tree as nested JSON objects. Statements carry
// their resolved successors, exceptions and introduced variables.
type TreeJSONEncoder struct {
	w    io.Writer
	opts options
	tree *ast.Tree
	root ast.NodeID
}

func NewTreeJSONEncoder(w io.Writer, opts ...Option) *TreeJSONEncoder {
	return &TreeJSONEncoder{w: w, opts: newOptions(opts)}
}

func (e *TreeJSONEncoder) Encode(tree *ast.Tree, root ast.NodeID) error {
	e.tree, e.root = tree, root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err = e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *TreeJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.nodeToJSON(e.root), "", "  ")
}

type astJSONNode struct {
	ID       ast.NodeID     `json:"id"`
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Token    string         `json:"token,omitempty"`
	Name     string         `json:"name,omitempty"`
	Type     string         `json:"type,omitempty"`
	Error    string         `json:"error,omitempty"`
	Resolved *resolution    `json:"resolved,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func toJSONSpan(s token.Span) *astJSONSpan {
	if !s.Start.IsValid() {
		return nil
	}
	return &astJSONSpan{
		Start: astJSONPosition{Line: s.Start.Line, Column: s.Start.Column},
		End:   astJSONPosition{Line: s.End.Line, Column: s.End.Column},
	}
}

func (e *TreeJSONEncoder) nodeToJSON(id ast.NodeID) *astJSONNode {
	t := e.tree
	n := t.Node(id)
	jn := &astJSONNode{
		ID:       id,
		Kind:     n.Kind.String(),
		Span:     toJSONSpan(t.Span(id)),
		Token:    n.Text(),
		Name:     n.Name(),
		Error:    n.ErrorMessage(),
		Resolved: resolve(t, id),
	}
	if n.Kind == ast.KindType {
		jn.Type = t.ResolveType(id).String()
	}

	for _, child := range n.Children() {
		if t.Node(child).IsLeaf() && !e.opts.leaves {
			continue
		}
		jn.Children = append(jn.Children, e.nodeToJSON(child))
	}
	return jn
}
