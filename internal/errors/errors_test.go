package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/souzamonteiro/guash/internal/status"
	"github.com/souzamonteiro/guash/internal/token"
)

func TestDiagnosticErrorImplementsErrorInterface(t *testing.T) {
	d := New(status.DivisionByZero, token.Position{Line: 1, Column: 1}, fmt.Errorf("boom"), "1/0", "a=1", "")
	var err error = d
	if err.Error() != d.Format(false) {
		t.Errorf("Error() = %q, want it to match Format(false)", err.Error())
	}
}

func TestFormatWithFile(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		file        string
		pos         token.Position
		st          status.Status
		msg         string
		wantContain []string
	}{
		{
			name:   "with file name points at column and names its status",
			source: "a = 1 +\nb",
			file:   "script.gua",
			pos:    token.Position{Line: 1, Column: 5},
			st:     status.DivisionByZero,
			msg:    "division by zero",
			wantContain: []string{
				"Error [division by zero] in script.gua:1:5",
				"a = 1 +",
				"division by zero",
			},
		},
		{
			name:   "without a file name falls back to a bare line reference",
			source: "a = 1",
			file:   "",
			pos:    token.Position{Line: 1, Column: 1},
			st:     status.IllegalOperand,
			msg:    "undefined variable",
			wantContain: []string{
				"Error [illegal operand] at line 1:1",
				"undefined variable",
			},
		},
		{
			name:   "position past the end of the source still names file, position and message",
			source: "a = 1",
			file:   "script.gua",
			pos:    token.Position{Line: 99, Column: 1},
			st:     status.Error,
			msg:    "internal error",
			wantContain: []string{
				"Error [error] in script.gua:99:1",
				"internal error",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.st, tt.pos, fmt.Errorf("%s", tt.msg), "", tt.source, tt.file)
			got := d.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, want it to contain %q", got, want)
				}
			}
		})
	}
}

func TestFormatFallsBackToSnippetWhenNoSourceLine(t *testing.T) {
	d := New(status.UnexpectedToken, token.Position{Line: 5, Column: 1}, fmt.Errorf("unexpected token"), "foo(bar", "", "<eval>")
	got := d.Format(false)
	if !strings.Contains(got, "near: foo(bar") {
		t.Errorf("Format() = %q, want it to fall back to the scanned snippet", got)
	}
}

func TestFormatCaretColumn(t *testing.T) {
	d := New(status.UnexpectedToken, token.Position{Line: 1, Column: 5}, fmt.Errorf("bad token"), "", "1234567890", "")
	snaps.MatchSnapshot(t, d.Format(false))
}

func TestFormatColorWrapsCaretAndMessage(t *testing.T) {
	d := New(status.UnexpectedToken, token.Position{Line: 1, Column: 1}, fmt.Errorf("bad token"), "", "x", "")
	got := d.Format(true)
	if !strings.Contains(got, "\033[1;31m^\033[0m") {
		t.Errorf("Format(true) = %q, want a colorized caret", got)
	}
	if !strings.Contains(got, "\033[1mbad token\033[0m") {
		t.Errorf("Format(true) = %q, want a colorized message", got)
	}
}

func TestFormatDiagnosticsEmpty(t *testing.T) {
	if got := FormatDiagnostics(nil, false); got != "" {
		t.Errorf("FormatDiagnostics(nil) = %q, want empty string", got)
	}
}

func TestFormatDiagnosticsSingleIsUnnumbered(t *testing.T) {
	d := New(status.Error, token.Position{Line: 1, Column: 1}, fmt.Errorf("boom"), "", "a", "")
	got := FormatDiagnostics([]*Diagnostic{d}, false)
	if strings.Contains(got, "error(s)") {
		t.Errorf("a single diagnostic should not be numbered, got %q", got)
	}
	if got != d.Format(false) {
		t.Errorf("single-diagnostic FormatDiagnostics should equal Format()")
	}
}

func TestFormatDiagnosticsMultipleAreNumberedAndSummarized(t *testing.T) {
	d1 := New(status.DivisionByZero, token.Position{Line: 1, Column: 1}, fmt.Errorf("first"), "", "a", "s1.gua")
	d2 := New(status.DivisionByZero, token.Position{Line: 2, Column: 3}, fmt.Errorf("second"), "", "a\nb", "s1.gua")
	d3 := New(status.IllegalOperand, token.Position{Line: 3, Column: 1}, fmt.Errorf("third"), "", "a\nb\nc", "s1.gua")
	got := FormatDiagnostics([]*Diagnostic{d1, d2, d3}, false)
	if !strings.Contains(got, "division by zero x2") || !strings.Contains(got, "illegal operand x1") {
		t.Errorf("FormatDiagnostics() = %q, want a per-status tally", got)
	}
	snaps.MatchSnapshot(t, got)
}
