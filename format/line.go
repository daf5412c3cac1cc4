package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jresolve/java/ast"
)

// LineEncoder dumps a tree one node per line, indented by depth, with
// tab-separated fields:
//
//	Kind	#id	line:col	name
//
// Statements add scope, successor, exception and variable columns.
type LineEncoder struct {
	w    io.Writer
	opts options
	tree *ast.Tree
	root ast.NodeID
}

func NewLineEncoder(w io.Writer, opts ...Option) *LineEncoder {
	return &LineEncoder{w: w, opts: newOptions(opts)}
}

func (e *LineEncoder) Encode(tree *ast.Tree, root ast.NodeID) error {
	e.tree, e.root = tree, root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.root, 0)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, id ast.NodeID, depth int) {
	t := e.tree
	n := t.Node(id)
	if n.IsLeaf() && !e.opts.leaves {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))
	span := t.Span(id)
	fmt.Fprintf(sb, "%s\t#%d\t%d:%d\t%s", n.Kind, id, span.Start.Line, span.Start.Column, e.label(n))
	if r := resolve(t, id); r != nil {
		fmt.Fprintf(sb, "\tscope=%s\tnext=%s\tthrows=%s\tvars=%s",
			r.Scope, nodeList(r.Successors), list(r.Exceptions), variableList(r.Vars))
	}
	sb.WriteString("\n")

	for _, child := range n.Children() {
		e.writeNode(sb, child, depth+1)
	}
}

func (e *LineEncoder) label(n *ast.Node) string {
	switch {
	case n.IsError():
		return "error: " + n.ErrorMessage()
	case n.IsLeaf():
		return strconv.Quote(n.Text())
	case n.Kind == ast.KindType:
		if typ := e.tree.ResolveType(n.ID()).String(); typ != "" {
			return typ
		}
	case n.Name() != "":
		return n.Name()
	}
	return "-"
}

func nodeList(ids []ast.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(int(id))
	}
	return list(parts)
}

func variableList(vars []variable) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.Type + " " + v.Name
	}
	return list(parts)
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
