package codebase

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/token"
)

// StatementInfo describes the resolved attributes of one statement.
type StatementInfo struct {
	Kind       ast.Kind
	Span       token.Span
	Successors []Successor
	Exceptions []string
	Vars       []string
}

type Successor struct {
	Kind ast.Kind
	Span token.Span
}

func (s Successor) String() string {
	return fmt.Sprintf("%s at %d:%d", s.Kind, s.Span.Start.Line, s.Span.Start.Column)
}

// StatementAt describes the innermost statement covering the 1-based line
// and column of path.
func (c *Codebase) StatementAt(path string, line, column int) (*StatementInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := c.compiler.Context()
	file, ok := ctx.File(path)
	if !ok {
		return nil, false
	}
	tree := ctx.Tree()
	stmt := tree.EnclosingStatement(tree.NodeAt(file, line, column))
	if stmt == ast.NoNode {
		return nil, false
	}
	return describeStatement(tree, stmt), true
}

func describeStatement(tree *ast.Tree, stmt ast.NodeID) *StatementInfo {
	info := &StatementInfo{Kind: tree.Kind(stmt), Span: tree.Span(stmt)}
	for _, s := range tree.Control(stmt) {
		info.Successors = append(info.Successors, Successor{Kind: tree.Kind(s), Span: tree.Span(s)})
	}
	for _, t := range tree.Exceptions(stmt) {
		info.Exceptions = append(info.Exceptions, t.String())
	}
	for _, v := range tree.VarList(stmt).Vars() {
		info.Vars = append(info.Vars, v.Type.String()+" "+v.Name)
	}
	return info
}

// Markdown renders the description for a hover popup.
func (s *StatementInfo) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", s.Kind)
	section := func(title string, items []string) {
		if len(items) == 0 {
			fmt.Fprintf(&sb, "%s: none\n\n", title)
			return
		}
		fmt.Fprintf(&sb, "%s:\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "- `%s`\n", item)
		}
		sb.WriteString("\n")
	}
	successors := make([]string, len(s.Successors))
	for i, succ := range s.Successors {
		successors[i] = succ.String()
	}
	section("Successors", successors)
	section("Throws", s.Exceptions)
	section("Introduces", s.Vars)
	return strings.TrimRight(sb.String(), "\n")
}
