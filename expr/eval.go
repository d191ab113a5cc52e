package expr

import (
	"math"

	"github.com/scgriffiths/bitformat-go/bferr"
)

func (n *intLit) eval(env map[string]interface{}) (interface{}, error)   { return n.v, nil }
func (n *floatLit) eval(env map[string]interface{}) (interface{}, error) { return n.v, nil }

func (n *ident) eval(env map[string]interface{}) (interface{}, error) {
	v, ok := env[n.name]
	if !ok {
		return nil, bferr.NewExpression("undefined name %q", n.name)
	}
	return v, nil
}

func (n *subscript) eval(env map[string]interface{}) (interface{}, error) {
	target, err := n.target.eval(env)
	if err != nil {
		return nil, err
	}
	idxVal, err := n.index.eval(env)
	if err != nil {
		return nil, err
	}
	idx, err := asInt(idxVal)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case []interface{}:
		if idx < 0 {
			idx += len(t)
		}
		if idx < 0 || idx >= len(t) {
			return nil, bferr.NewExpression("subscript index %d out of range", idx)
		}
		return t[idx], nil
	case string:
		r := []rune(t)
		if idx < 0 {
			idx += len(r)
		}
		if idx < 0 || idx >= len(r) {
			return nil, bferr.NewExpression("subscript index %d out of range", idx)
		}
		return string(r[idx]), nil
	default:
		return nil, bferr.NewExpression("value is not subscriptable")
	}
}

func (n *unary) eval(env map[string]interface{}) (interface{}, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "-":
		switch x := v.(type) {
		case int64:
			return -x, nil
		case uint64:
			return -int64(x), nil
		case float64:
			return -x, nil
		}
		return nil, bferr.NewExpression("unary '-' requires a number")
	case "not":
		b, err := asBool(v)
		if err != nil {
			return nil, err
		}
		return !b, nil
	}
	return nil, bferr.NewExpression("unknown unary operator %q", n.op)
}

func (n *boolOp) eval(env map[string]interface{}) (interface{}, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	lb, err := asBool(left)
	if err != nil {
		return nil, err
	}
	// Short-circuit, matching Python's "and"/"or".
	if n.op == "and" && !lb {
		return left, nil
	}
	if n.op == "or" && lb {
		return left, nil
	}
	right, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}
	return right, nil
}

func (n *compare) eval(env map[string]interface{}) (interface{}, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}
	lf, lok := asNumber(l)
	rf, rok := asNumber(r)
	if !lok || !rok {
		return nil, bferr.NewExpression("comparison requires numeric operands")
	}
	switch n.op {
	case "==":
		return lf == rf, nil
	case "!=":
		return lf != rf, nil
	case "<":
		return lf < rf, nil
	case "<=":
		return lf <= rf, nil
	case ">":
		return lf > rf, nil
	case ">=":
		return lf >= rf, nil
	}
	return nil, bferr.NewExpression("unknown comparison operator %q", n.op)
}

func (n *binary) eval(env map[string]interface{}) (interface{}, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "&", "|", "^", "<<", ">>", "//", "%":
		li, lerr := asInt(l)
		ri, rerr := asInt(r)
		if lerr != nil || rerr != nil {
			return nil, bferr.NewExpression("operator %q requires integer operands", n.op)
		}
		return evalIntOp(n.op, li, ri)
	default:
		return evalArithOp(n.op, l, r)
	}
}

func evalIntOp(op string, l, r int64) (interface{}, error) {
	switch op {
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	case "<<":
		if r < 0 {
			return nil, bferr.NewExpression("negative shift amount")
		}
		return l << uint(r), nil
	case ">>":
		if r < 0 {
			return nil, bferr.NewExpression("negative shift amount")
		}
		return l >> uint(r), nil
	case "//":
		if r == 0 {
			return nil, bferr.NewExpression("integer division by zero")
		}
		return floorDiv(l, r), nil
	case "%":
		if r == 0 {
			return nil, bferr.NewExpression("modulo by zero")
		}
		return floorMod(l, r), nil
	}
	return nil, bferr.NewExpression("unknown operator %q", op)
}

// floorDiv/floorMod implement Python's floor-division semantics (result
// rounds toward negative infinity), which differ from Go's truncating /
// and % for mixed-sign operands.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func evalArithOp(op string, l, r interface{}) (interface{}, error) {
	lf, lIsFloat, lok := asNumberKind(l)
	rf, rIsFloat, rok := asNumberKind(r)
	if !lok || !rok {
		return nil, bferr.NewExpression("operator %q requires numeric operands", op)
	}
	bothInt := !lIsFloat && !rIsFloat
	// When both operands are integral, keep their own int64 conversion
	// (asInt, not the float64 roundtrip lf/rf took) so values above 2^53
	// don't lose precision in the bothInt arithmetic below.
	var li, ri int64
	if bothInt {
		li, _ = asInt(l)
		ri, _ = asInt(r)
	}

	switch op {
	case "+":
		if bothInt {
			return li + ri, nil
		}
		return lf + rf, nil
	case "-":
		if bothInt {
			return li - ri, nil
		}
		return lf - rf, nil
	case "*":
		if bothInt {
			return li * ri, nil
		}
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, bferr.NewExpression("division by zero")
		}
		return lf / rf, nil
	case "**":
		if bothInt && ri >= 0 {
			return intPow(li, ri), nil
		}
		return floatPow(lf, rf), nil
	}
	return nil, bferr.NewExpression("unknown operator %q", op)
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func floatPow(base, exp float64) float64 { return math.Pow(base, exp) }

// asInt coerces an int64 or uint64 (the shape dtype.Unpack returns for
// signed/unsigned fields respectively) to int64; anything else, including
// a float, is not an integer.
func asInt(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	}
	return 0, bferr.NewExpression("expected an integer")
}

func asNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// asNumberKind normalizes v to a float64 plus whether it was integral, so
// evalArithOp can recombine two operands as int64 (when both are integral)
// without panicking on a uint64 that a dtype.Unpack handed back.
func asNumberKind(v interface{}) (f float64, isFloat bool, ok bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), false, true
	case uint64:
		return float64(x), false, true
	case float64:
		return x, true, true
	}
	return 0, false, false
}

func asBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	}
	return false, bferr.NewExpression("value is not usable as a boolean")
}
