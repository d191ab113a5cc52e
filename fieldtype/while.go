package fieldtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/expr"
)

// While is conditional repetition (§4.4.5): condition is re-evaluated
// against env before each iteration, and body is expected to advance env
// (typically via a Let, or a named Field it contains) so the condition
// eventually goes false. bit_length is never statically known.
type While struct {
	name      string
	condition *expr.Expression
	body      FieldType
	instances []FieldType
}

func NewWhile(name string, condition *expr.Expression, body FieldType) (*While, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &While{name: name, condition: condition, body: body}, nil
}

func (w *While) Name() string { return w.name }

func (w *While) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	var instances []FieldType
	pos := 0
	for {
		cond, err := w.condition.Evaluate(env)
		if err != nil {
			return 0, err
		}
		if !truthy(cond) {
			break
		}
		remaining, err := bits.Slice(pos, bits.Len())
		if err != nil {
			return 0, err
		}
		inst := w.body.Clone()
		consumed, err := inst.Parse(remaining, env)
		if err != nil {
			return 0, err
		}
		instances = append(instances, inst)
		pos += consumed
	}
	w.instances = instances
	return pos, nil
}

// Pack evaluates condition before each iteration and, while it is true,
// packs a clone of body from cur (one value per iteration for a Field
// body; a container body takes as many as it needs). If the condition is
// still true when cur is exhausted, Pack returns a ValueError. When the
// condition goes false, Pack stops without error and any values left in
// cur stay there for later siblings; it does not check them.
func (w *While) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	var instances []FieldType
	var parts []bitseq.BitSeq
	for {
		cond, err := w.condition.Evaluate(env)
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		if !truthy(cond) {
			break
		}
		if cur.Exhausted() {
			return bitseq.BitSeq{}, bferr.NewValue("while %q: condition still true but no values remain to pack", w.name)
		}
		inst := w.body.Clone()
		bits, err := inst.Pack(cur, env)
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		instances = append(instances, inst)
		parts = append(parts, bits)
	}
	w.instances = instances
	return bitseq.FromJoined(parts), nil
}

func (w *While) Unpack() (interface{}, error) {
	out := make([]interface{}, len(w.instances))
	for i, inst := range w.instances {
		v, err := inst.Unpack()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (w *While) ToBits() (bitseq.BitSeq, error) {
	parts := make([]bitseq.BitSeq, len(w.instances))
	for i, inst := range w.instances {
		bits, err := inst.ToBits()
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts[i] = bits
	}
	return bitseq.FromJoined(parts), nil
}

func (w *While) Clear() { w.instances = nil }

func (w *While) BitLength() (int, error) {
	return 0, bferr.NewValue("while %q: bit_length is never statically known", w.name)
}

func (w *While) HasDynamicSize() bool { return true }

func (w *While) IsConst() bool { return false }

func (w *While) Repr() string {
	return fmt.Sprintf("While{Name: %q, Condition: %q, Body: %s}", w.name, w.condition, w.body.Repr())
}

func (w *While) String() string {
	s := fmt.Sprintf("while %s: %s", w.condition, w.body)
	if w.name != "" {
		s = w.name + " = " + s
	}
	return s
}

func (w *While) Clone() FieldType {
	return &While{name: w.name, condition: w.condition, body: w.body.Clone()}
}
