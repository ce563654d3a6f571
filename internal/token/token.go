// Package token defines the lexical token kinds produced by internal/lexer
// and consumed by internal/eval's precedence-climbing evaluator.
package token

// Kind identifies the grammatical category of a Token.
type Kind int

// Token kind constants, grouped by category.
const (
	// Special tokens.
	Illegal Kind = iota // unrecognized input byte; Token.Status stays OK
	End                 // end of source

	// Primaries.
	Integer  // 123, 0x7F, 017
	Real     // 1.5, 1e10, .5
	String   // "double quoted"; Lexeme is the raw interior, escapes unexpanded
	Script   // 'single quoted', raw, used for try/catch-style code bodies
	Variable // identifier resolving to a known variable or constant
	Function // identifier resolving to a known function
	Unknown  // identifier resolving to nothing yet known

	// Keywords.
	If
	ElseIf
	Else
	While
	Do
	For
	ForEach
	FunctionKw
	Try
	Catch
	Test
	Break
	Continue
	ReturnKw
	ExitKw

	// Brackets. Openers and closers have distinct kinds.
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
	BraceOpen
	BraceClose

	// Structural separators.
	ArgSeparator // ,
	Separator    // ; or newline
	Comment      // # to end of line

	// Operators, tightest to loosest per spec.md §4.4 / §6.
	Not        // !
	BitNot     // ~
	Plus       // +
	Minus      // -
	Power      // **
	Mul        // *
	Div        // /
	Mod        // %
	ShiftLeft  // <<
	ShiftRight // >>
	Less       // <
	LessEq     // <=
	Greater    // >
	GreaterEq  // >=
	Equal      // ==
	NotEqual   // !=
	BitAnd     // &
	BitXor     // ^
	BitOr      // |
	LogicAndOr // &|
	LogicAnd   // &&
	LogicOr    // ||
	Assign     // =
	Macro      // $
	Indirect   // @
)

// Status is the scanner-level outcome attached to a Token. A non-OK status
// is surfaced the first time the evaluator inspects the token, per spec.md §7.
type Status int

const (
	OK Status = iota
	OutOfRange
	Underflow
	Overflow
	UnterminatedString
	UnclosedExpression
)

// Position is a 1-indexed line/column plus a 0-indexed byte offset into the
// source buffer, recorded at the first byte of a token.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Token is the unit the scanner hands to the evaluator: a kind, the source
// span it came from (as absolute offsets into the shared source buffer, per
// spec.md §4.1 "Tokens carry absolute pointers into the source buffer"), a
// decoded literal payload where applicable, and a scan-time status.
type Token struct {
	Kind      Kind
	Start     int // byte offset of the first byte of the lexeme
	Length    int // byte length of the raw lexeme
	Lexeme    string
	IntValue  int64
	RealValue float64
	Pos       Position
	Status    Status
}

// IsOperator reports whether k is one of the binary/unary operator kinds.
func (k Kind) IsOperator() bool {
	return k >= Not && k <= Indirect
}

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-kind"
}

var kindNames = map[Kind]string{
	Illegal: "illegal", End: "end-of-source",
	Integer: "integer", Real: "real", String: "string", Script: "script",
	Variable: "variable", Function: "function", Unknown: "unknown",
	If: "if", ElseIf: "elseif", Else: "else", While: "while", Do: "do",
	For: "for", ForEach: "foreach", FunctionKw: "function", Try: "try",
	Catch: "catch", Test: "test", Break: "break", Continue: "continue",
	ReturnKw: "return", ExitKw: "exit",
	ParenOpen: "(", ParenClose: ")", BracketOpen: "[", BracketClose: "]",
	BraceOpen: "{", BraceClose: "}",
	ArgSeparator: ",", Separator: ";", Comment: "#",
	Not: "!", BitNot: "~", Plus: "+", Minus: "-", Power: "**",
	Mul: "*", Div: "/", Mod: "%", ShiftLeft: "<<", ShiftRight: ">>",
	Less: "<", LessEq: "<=", Greater: ">", GreaterEq: ">=",
	Equal: "==", NotEqual: "!=", BitAnd: "&", BitXor: "^", BitOr: "|",
	LogicAndOr: "&|", LogicAnd: "&&", LogicOr: "||",
	Assign: "=", Macro: "$", Indirect: "@",
}

// Keywords maps a scanned identifier lexeme to its keyword Kind. Identifiers
// absent from this table are classified by the lexer against the live
// namespace (spec.md §4.1, §9 "Late binding at scan time").
var Keywords = map[string]Kind{
	"if": If, "elseif": ElseIf, "else": Else, "while": While, "do": Do,
	"for": For, "foreach": ForEach, "function": FunctionKw, "try": Try,
	"catch": Catch, "test": Test,
	"break": Break, "continue": Continue, "return": ReturnKw, "exit": ExitKw,
}
