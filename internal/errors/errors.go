// Package errors formats evaluator failures for display at the edges of
// the system (cmd/gua). The evaluator core itself never formats or prints;
// it returns a plain Go (status.Status, error) pair, and this package
// renders the pair with source context when a caller has a file/line to
// show (SPEC_FULL.md §10.1).
package errors

import (
	"fmt"
	"strings"

	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
)

// Diagnostic pairs an evaluator failure with everything needed to show a
// human exactly where evaluation stopped: which status.Status classified
// the failure (spec.md §7's status family — every Diagnostic names a real
// IsError() status, never a bare string), the position, the up-to-64-byte
// token snippet the evaluator was looking at (spec.md §7 "up to 64
// bytes"), and the full source buffer for the offending line.
type Diagnostic struct {
	Status  status.Status
	Message string
	Snippet string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a Diagnostic from a failing (status, error) pair, the
// snippet of source text the evaluator had last scanned (Evaluator.Snippet),
// a position, and the full source buffer it was read from.
func New(st status.Status, pos token.Position, err error, snippet, source, file string) *Diagnostic {
	return &Diagnostic{
		Status:  st,
		Pos:     pos,
		Message: err.Error(),
		Snippet: snippet,
		Source:  source,
		File:    file,
	}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders a status-tagged header (file:line:column plus the
// offending status.Status name, e.g. "division by zero"), the source line
// with a caret under the failing column, and the error message. When the
// position has no addressable source line, the raw token snippet that
// triggered the failure is shown in place of the source line and caret.
// color wraps the caret and the message in ANSI codes for terminal output.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	tag := d.Status.String()
	if d.File != "" {
		fmt.Fprintf(&sb, "Error [%s] in %s:%d:%d\n", tag, d.File, d.Pos.Line, d.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error [%s] at line %d:%d\n", tag, d.Pos.Line, d.Pos.Column)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteByte('\n')

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteByte('^')
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	} else if d.Snippet != "" {
		// No addressable source line (the source is empty or the position
		// lies past its last line) — fall back to the raw snippet the
		// evaluator was scanning when it stopped.
		fmt.Fprintf(&sb, "near: %s\n", d.Snippet)
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatDiagnostics renders a batch of diagnostics, numbering them when
// there is more than one (spec.md has no multi-error accumulation pass —
// the evaluator stops at the first failing statement — and cmd/gua
// formats each failure on its own with Diagnostic.Format), and
// summarizing how many of each status.Status occurred.
func FormatDiagnostics(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s): %s\n\n", len(diags), summarizeStatuses(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// summarizeStatuses renders a "division by zero x2, illegal operand x1"
// style tally of the distinct statuses present in diags, in first-seen
// order.
func summarizeStatuses(diags []*Diagnostic) string {
	counts := make(map[status.Status]int)
	var order []status.Status
	for _, d := range diags {
		if counts[d.Status] == 0 {
			order = append(order, d.Status)
		}
		counts[d.Status]++
	}
	parts := make([]string, 0, len(order))
	for _, st := range order {
		parts = append(parts, fmt.Sprintf("%s x%d", st, counts[st]))
	}
	return strings.Join(parts, ", ")
}
