package ast

import "fmt"

// InvariantError reports a defect in how the tree is being constructed or
// queried: a node built outside any file, unbalanced scope or type
// brackets, or a memoized attribute that depends on itself. It is raised
// with panic and is never a user-facing problem.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "ast invariant violated: " + e.Message
}

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

// Recover converts a panic carrying an *InvariantError into an error. Call it
// deferred at a run boundary:
//
//	defer ast.Recover(&err)
//
// Other panics are re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*err = ie
		return
	}
	panic(r)
}
