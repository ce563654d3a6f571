package namespace

import "github.com/souzamonteiro/guash/internal/value"

// constants is the process-wide, immutable constants table of spec.md §3.
// These names can never be rebound or unset (invariant #5).
var constants = map[string]value.Value{
	"TRUE":  value.Int(1),
	"FALSE": value.Int(0),
	"NULL":  value.Unknown(),
	"i":     value.Complex(0, 1),

	// Each GUA_<KIND> tag holds its own name, matching what
	// value.TypeTag/the type() builtin return for that Kind, so scripts can
	// write `type(v) == GUA_INTEGER` (spec.md lines 54, 197).
	"GUA_UNKNOWN": value.Str("GUA_UNKNOWN"),
	"GUA_INTEGER": value.Str("GUA_INTEGER"),
	"GUA_REAL":    value.Str("GUA_REAL"),
	"GUA_COMPLEX": value.Str("GUA_COMPLEX"),
	"GUA_STRING":  value.Str("GUA_STRING"),
	"GUA_ARRAY":   value.Str("GUA_ARRAY"),
	"GUA_MATRIX":  value.Str("GUA_MATRIX"),
	"GUA_HANDLE":  value.Str("GUA_HANDLE"),
	"GUA_FILE":    value.Str("GUA_FILE"),

	// GUA_NAMESPACE and GUA_VERSION are not Kind tags (there is no
	// namespace-valued or version-valued Kind type() can report) so they
	// keep descriptive string payloads instead.
	"GUA_NAMESPACE": value.Str("namespace"),
	"GUA_VERSION":   value.Str("1.0.0"),
}

// LookupConstant returns the constant-table value for name, if any.
func LookupConstant(name string) (value.Value, bool) {
	v, ok := constants[name]
	return v, ok
}

// IsConstant reports whether name is a constant-table entry (invariant #5).
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}
