package fieldtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/expr"
)

// If is a conditional branch (§4.4.3): condition selects between then and
// else at both parse and pack time. taken records which branch fired, so
// Unpack/ToBits can answer for "the branch that was actually used" once
// one has been; BitLength does not consult it.
type If struct {
	name      string
	condition *expr.Expression
	then      FieldType
	els       FieldType
	taken     int // 0 = unevaluated, 1 = then, 2 = else
}

// NewIf builds an If node. els may be nil, in which case an untaken
// condition consumes and produces nothing (equivalent to an implicit Pass
// else-branch).
func NewIf(name string, condition *expr.Expression, then, els FieldType) (*If, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &If{name: name, condition: condition, then: then, els: els}, nil
}

func (n *If) Name() string { return n.name }

func (n *If) branch(taken int) FieldType {
	if taken == 1 {
		return n.then
	}
	if n.els != nil {
		return n.els
	}
	return Pass()
}

func (n *If) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	cond, err := n.condition.Evaluate(env)
	if err != nil {
		return 0, err
	}
	taken := 2
	if truthy(cond) {
		taken = 1
	}
	consumed, err := n.branch(taken).Parse(bits, env)
	if err != nil {
		return 0, err
	}
	n.taken = taken
	return consumed, nil
}

func (n *If) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	cond, err := n.condition.Evaluate(env)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	taken := 2
	if truthy(cond) {
		taken = 1
	}
	bits, err := n.branch(taken).Pack(cur, env)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	n.taken = taken
	return bits, nil
}

func (n *If) Unpack() (interface{}, error) {
	if n.taken == 0 {
		return nil, bferr.NewValue("if %q: condition not yet evaluated", n.name)
	}
	return n.branch(n.taken).Unpack()
}

func (n *If) ToBits() (bitseq.BitSeq, error) {
	if n.taken == 0 {
		return bitseq.BitSeq{}, bferr.NewValue("if %q: condition not yet evaluated", n.name)
	}
	return n.branch(n.taken).ToBits()
}

func (n *If) Clear() {
	n.taken = 0
	n.then.Clear()
	if n.els != nil {
		n.els.Clear()
	}
}

// BitLength is the then-branch length when both branches agree; otherwise,
// when the condition is a compile-time constant (no free identifiers), it
// is the length of the branch that constant selects (else when false); it
// raises otherwise because it cannot be determined without parsing (§4.4.3).
func (n *If) BitLength() (int, error) {
	thenLen, thenErr := n.then.BitLength()
	elsNode := n.els
	if elsNode == nil {
		elsNode = Pass()
	}
	elsLen, elsErr := elsNode.BitLength()
	if thenErr == nil && elsErr == nil && thenLen == elsLen {
		return thenLen, nil
	}
	if v, err := n.condition.Evaluate(Env{}); err == nil {
		if truthy(v) {
			return thenLen, thenErr
		}
		return elsLen, elsErr
	}
	return 0, bferr.NewValue("if %q: bit_length depends on a runtime condition", n.name)
}

func (n *If) HasDynamicSize() bool {
	_, err := n.BitLength()
	return err != nil
}

func (n *If) IsConst() bool {
	elsConst := n.els == nil || n.els.IsConst()
	return n.then.IsConst() && elsConst
}

func (n *If) Clone() FieldType {
	var els FieldType
	if n.els != nil {
		els = n.els.Clone()
	}
	return &If{name: n.name, condition: n.condition, then: n.then.Clone(), els: els}
}

func (n *If) Repr() string {
	elsRepr := "nil"
	if n.els != nil {
		elsRepr = n.els.Repr()
	}
	return fmt.Sprintf("If{Name: %q, Condition: %q, Then: %s, Else: %s}", n.name, n.condition, n.then.Repr(), elsRepr)
}

func (n *If) String() string {
	s := fmt.Sprintf("if %s: %s", n.condition, n.then)
	if n.els != nil {
		s += fmt.Sprintf(" else: %s", n.els)
	}
	return s
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	default:
		return v != nil
	}
}
