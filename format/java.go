package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/token"
)

// JavaEncoder writes the source text of a tree. By default the output is
// the input byte for byte; WithoutComments drops comments, keeping a space
// where a block comment separated two tokens and every line break.
type JavaEncoder struct {
	w    io.Writer
	opts options
	tree *ast.Tree
	root ast.NodeID
}

func NewJavaEncoder(w io.Writer, opts ...Option) *JavaEncoder {
	return &JavaEncoder{w: w, opts: newOptions(opts)}
}

func (e *JavaEncoder) Encode(tree *ast.Tree, root ast.NodeID) error {
	e.tree, e.root = tree, root
	if !e.opts.stripComments {
		return tree.WriteSource(e.w, root)
	}
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if !e.opts.stripComments {
		err := e.tree.WriteSource(&buf, e.root)
		return buf.Bytes(), err
	}
	for _, leaf := range e.tree.Leaves(e.root) {
		tok := e.tree.Node(leaf).Token
		writeHidden(&buf, tok.Leading)
		buf.WriteString(tok.Text)
		writeHidden(&buf, tok.Trailing)
	}
	return buf.Bytes(), nil
}

func writeHidden(buf *bytes.Buffer, hidden []token.Token) {
	for _, h := range hidden {
		switch h.Kind {
		case token.Whitespace:
			buf.WriteString(h.Text)
		case token.Comment:
			if n := strings.Count(h.Text, "\n"); n > 0 {
				buf.WriteString(strings.Repeat("\n", n))
			} else {
				buf.WriteString(" ")
			}
		}
	}
}
