// Package diag collects the problems found during a compilation run so they
// can be reported together once the run ends.
package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/jresolve/java/token"
)

type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic codes.
const (
	CodeSyntax           = "S001"
	CodeUnknownType      = "E001"
	CodeUnknownVariable  = "E002"
	CodeDuplicate        = "E003"
	CodeUnresolvedMethod = "W001"
)

type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Span     token.Span
}

func (d Diagnostic) File() string {
	return d.Span.Start.File
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Span.Start, d.Severity, d.Code, d.Message)
}

// Bag accumulates diagnostics for one run.
type Bag struct {
	items    []Diagnostic
	errors   int
	warnings int
}

func NewBag() *Bag {
	return &Bag{}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
	switch d.Severity {
	case Error:
		b.errors++
	case Warning:
		b.warnings++
	}
}

func (b *Bag) Errorf(code string, span token.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

func (b *Bag) Warnf(code string, span token.Span, format string, args ...any) {
	b.Add(Diagnostic{Severity: Warning, Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

func (b *Bag) Len() int {
	return len(b.items)
}

func (b *Bag) HasErrors() bool {
	return b.errors > 0
}

func (b *Bag) ErrorCount() int {
	return b.errors
}

func (b *Bag) WarningCount() int {
	return b.warnings
}

// Diagnostics returns the collected diagnostics ordered by file and
// position; diagnostics at the same place keep their reporting order.
func (b *Bag) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i].Span.Start, out[j].Span.Start
		if a.File != c.File {
			return a.File < c.File
		}
		return a.Offset < c.Offset
	})
	return out
}

// ForFile returns the diagnostics reported against one file.
func (b *Bag) ForFile(path string) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.Diagnostics() {
		if d.File() == path {
			out = append(out, d)
		}
	}
	return out
}

// WriteTo prints every diagnostic on its own line followed by a summary.
func (b *Bag) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, d := range b.Diagnostics() {
		n, err := fmt.Fprintln(w, d.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if len(b.items) > 0 {
		n, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", b.errors, b.warnings)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
