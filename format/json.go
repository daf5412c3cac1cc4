package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jresolve/java/diag"
)

// DiagnosticsJSONEncoder writes diagnostics as a JSON array.
type DiagnosticsJSONEncoder struct {
	w           io.Writer
	diagnostics []diag.Diagnostic
}

func NewDiagnosticsJSONEncoder(w io.Writer) *DiagnosticsJSONEncoder {
	return &DiagnosticsJSONEncoder{w: w}
}

func (e *DiagnosticsJSONEncoder) Encode(diagnostics []diag.Diagnostic) error {
	e.diagnostics = diagnostics
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

func (e *DiagnosticsJSONEncoder) MarshalText() ([]byte, error) {
	data := make([]jsonDiagnostic, len(e.diagnostics))
	for i, d := range e.diagnostics {
		data[i] = jsonDiagnostic{
			File:     d.File(),
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Span:     toJSONSpan(d.Span),
		}
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonDiagnostic struct {
	File     string       `json:"file"`
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Span     *astJSONSpan `json:"span,omitempty"`
}
