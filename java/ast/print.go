package ast

import (
	"bufio"
	"io"
)

// WriteSource writes the source text under id exactly as it was read:
// every leaf's leading hidden tokens, its text and its trailing hidden
// tokens, in tree order. Written for a compilation unit, the output is the
// original file byte for byte.
func (t *Tree) WriteSource(w io.Writer, id NodeID) error {
	bw := bufio.NewWriter(w)
	for _, leaf := range t.Leaves(id) {
		tok := t.nodes[leaf].Token
		for _, h := range tok.Leading {
			bw.WriteString(h.Text)
		}
		bw.WriteString(tok.Text)
		for _, h := range tok.Trailing {
			bw.WriteString(h.Text)
		}
	}
	return bw.Flush()
}

// WriteHiddenBefore writes the comments and whitespace preceding the first
// token under id.
func (t *Tree) WriteHiddenBefore(w io.Writer, id NodeID) error {
	leaves := t.Leaves(id)
	if len(leaves) == 0 {
		return nil
	}
	for _, h := range t.nodes[leaves[0]].Token.Leading {
		if _, err := io.WriteString(w, h.Text); err != nil {
			return err
		}
	}
	return nil
}

// WriteHiddenAfter writes the comments and whitespace trailing the last
// token under id.
func (t *Tree) WriteHiddenAfter(w io.Writer, id NodeID) error {
	leaves := t.Leaves(id)
	if len(leaves) == 0 {
		return nil
	}
	for _, h := range t.nodes[leaves[len(leaves)-1]].Token.Trailing {
		if _, err := io.WriteString(w, h.Text); err != nil {
			return err
		}
	}
	return nil
}
