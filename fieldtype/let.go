package fieldtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/expr"
)

// Let binds a computed value into the environment; it consumes no bits and
// produces none (§4.4.6). Like Pass, Let forbids a
// name of its own — the name it carries is the binding target, not an
// identity for lookup, so NewLet takes it as bindName rather than calling
// it the node's Name().
type Let struct {
	bindName   string
	expression *expr.Expression
	value      interface{}
	hasValue   bool
}

// NewLet builds a Let node. bindName must itself be a valid identifier
// (it is what later Expressions will reference), even though the node has
// no FieldType-level name of its own.
func NewLet(bindName string, expression *expr.Expression) (*Let, error) {
	if bindName == "" {
		return nil, bferr.NewValue("let: binding name must not be empty")
	}
	if err := validateName(bindName); err != nil {
		return nil, err
	}
	return &Let{bindName: bindName, expression: expression}, nil
}

// Name always reports "" — Let/Pass forbid a FieldType-level name (§3.3).
func (l *Let) Name() string { return "" }

func (l *Let) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	v, err := l.expression.Evaluate(env)
	if err != nil {
		return 0, err
	}
	env[l.bindName] = v
	l.value = v
	l.hasValue = true
	return 0, nil
}

func (l *Let) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	v, err := l.expression.Evaluate(env)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	env[l.bindName] = v
	l.value = v
	l.hasValue = true
	return bitseq.FromZeros(0)
}

func (l *Let) Unpack() (interface{}, error) {
	if !l.hasValue {
		return nil, bferr.NewValue("let %q: not yet evaluated", l.bindName)
	}
	return l.value, nil
}

func (l *Let) ToBits() (bitseq.BitSeq, error) { return bitseq.FromZeros(0) }

func (l *Let) Clear() {
	l.value = nil
	l.hasValue = false
}

func (l *Let) BitLength() (int, error) { return 0, nil }

func (l *Let) HasDynamicSize() bool { return false }

func (l *Let) IsConst() bool { return false }

func (l *Let) String() string { return fmt.Sprintf("let %s = %s", l.bindName, l.expression) }

func (l *Let) Repr() string {
	return fmt.Sprintf("Let{BindName: %q, Expression: %q}", l.bindName, l.expression)
}

func (l *Let) Clone() FieldType {
	return &Let{bindName: l.bindName, expression: l.expression}
}
