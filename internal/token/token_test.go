package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Illegal, "illegal"},
		{End, "end-of-source"},
		{Integer, "integer"},
		{FunctionKw, "function"},
		{ParenOpen, "("},
		{Power, "**"},
		{LogicAndOr, "&|"},
		{Kind(9999), "unknown-kind"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindIsOperator(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{Not, true},
		{Indirect, true},
		{Power, true},
		{Integer, false},
		{If, false},
		{ParenOpen, false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsOperator(); got != tt.want {
			t.Errorf("%s.IsOperator() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestKeywordsTable(t *testing.T) {
	want := map[string]Kind{
		"if": If, "elseif": ElseIf, "else": Else, "while": While, "do": Do,
		"for": For, "foreach": ForEach, "function": FunctionKw, "try": Try,
		"catch": Catch, "test": Test,
		"break": Break, "continue": Continue, "return": ReturnKw, "exit": ExitKw,
	}
	if len(Keywords) != len(want) {
		t.Fatalf("Keywords has %d entries, want %d", len(Keywords), len(want))
	}
	for name, kind := range want {
		if got, ok := Keywords[name]; !ok || got != kind {
			t.Errorf("Keywords[%q] = %v, %v; want %v, true", name, got, ok, kind)
		}
	}
	// break/continue/return/exit must NOT be classified as Function: they
	// are reserved keywords, never scanned as callable identifiers.
	for _, kw := range []string{"break", "continue", "return", "exit"} {
		if Keywords[kw] == Function {
			t.Errorf("%q must not classify as Function", kw)
		}
	}
}
