package expr

import (
	"strconv"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

// Expression is a compiled instance of the mini-language described in the
// package doc comment. Its source text is kept for String() / schema
// round-tripping; the compiled AST is what Evaluate actually walks.
type Expression struct {
	source string
	root   node
}

// Compile parses source, which may optionally be wrapped in the brace
// delimiters used in textual schemas ("{x + 1}"), and returns a compiled
// Expression. A bare integer literal with no braces is also accepted so
// that constant dtype sizes compile the same way as dynamic ones.
func Compile(source string) (*Expression, error) {
	trimmed := strings.TrimSpace(source)
	inner := trimmed
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		inner = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if inner == "" {
		return nil, bferr.NewExpression("empty expression")
	}
	root, err := parse(inner)
	if err != nil {
		return nil, err
	}
	return &Expression{source: trimmed, root: root}, nil
}

// FromInt builds a constant Expression wrapping a fixed integer, used when
// a schema field carries a literal size rather than a "{...}" expression.
func FromInt(n int64) *Expression {
	return &Expression{source: strconv.FormatInt(n, 10), root: &intLit{v: n}}
}

// Evaluate binds the expression's free identifiers against env and returns
// the result: arithmetic yields int64 or float64 and comparisons and not
// yield bool, while a bare name, a subscript or an and/or yields the
// operand's value as it is (e.g. a uint64 bound by a Field). Undefined names surface as
// ExpressionError, per the package's compilation contract.
func (e *Expression) Evaluate(env map[string]interface{}) (interface{}, error) {
	return e.root.eval(env)
}

// EvaluateInt is a convenience wrapper for the common case of a dynamic
// bit-length or repeat count: the result must be an integer (or an integral
// float64); its sign is not checked here.
func (e *Expression) EvaluateInt(env map[string]interface{}) (int, error) {
	v, err := e.Evaluate(env)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, bferr.NewExpression("expression %q did not evaluate to an integer", e.source)
		}
		return int(n), nil
	default:
		return 0, bferr.NewExpression("expression %q did not evaluate to a number", e.source)
	}
}

// String returns the expression's original source text, braced if it was
// given braced (matching the textual schema form from §6.2).
func (e *Expression) String() string { return e.source }
