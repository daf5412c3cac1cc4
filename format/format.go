// Package format renders resolved syntax trees and diagnostics as JSON, as
// indented text and as Java source.
package format

import (
	"encoding"

	"github.com/dhamidi/jresolve/java/ast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *ast.Tree, root ast.NodeID) error
}

type Option func(*options)

type options struct {
	leaves        bool
	stripComments bool
}

// WithLeaves includes token leaves in tree dumps.
func WithLeaves() Option {
	return func(o *options) {
		o.leaves = true
	}
}

// WithoutComments drops comments when writing source.
func WithoutComments() Option {
	return func(o *options) {
		o.stripComments = true
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolution carries the attributes computed for a statement.
type resolution struct {
	Scope      string       `json:"scope"`
	Successors []ast.NodeID `json:"successors"`
	Exceptions []string     `json:"exceptions"`
	Vars       []variable   `json:"vars"`
}

type variable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func resolve(tree *ast.Tree, id ast.NodeID) *resolution {
	n := tree.Node(id)
	if !n.Kind.IsStatement() {
		return nil
	}
	r := &resolution{
		Successors: append([]ast.NodeID{}, tree.Control(id)...),
		Exceptions: []string{},
		Vars:       []variable{},
	}
	if n.Scope() != nil {
		r.Scope = n.Scope().Kind().String()
	}
	for _, t := range tree.Exceptions(id) {
		r.Exceptions = append(r.Exceptions, t.String())
	}
	for _, v := range tree.VarList(id).Vars() {
		r.Vars = append(r.Vars, variable{Name: v.Name, Type: v.Type.String()})
	}
	return r
}
