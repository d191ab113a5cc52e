package fieldtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/expr"
)

// Repeat is fixed-count repetition (§4.4.4): count may be a compile-time
// integer or an Expression evaluated lazily against env. Each repetition
// gets its own clone of body so their parsed/packed values don't overwrite
// one another.
type Repeat struct {
	name      string
	count     *expr.Expression
	body      FieldType
	instances []FieldType
}

// NewRepeat builds a Repeat node. Pass expr.FromInt(n) for a compile-time
// constant count.
func NewRepeat(name string, count *expr.Expression, body FieldType) (*Repeat, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Repeat{name: name, count: count, body: body}, nil
}

func (r *Repeat) Name() string { return r.name }

func (r *Repeat) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	n, err := r.count.EvaluateInt(env)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	instances := make([]FieldType, n)
	pos := 0
	for i := 0; i < n; i++ {
		remaining, err := bits.Slice(pos, bits.Len())
		if err != nil {
			return 0, err
		}
		inst := r.body.Clone()
		consumed, err := inst.Parse(remaining, env)
		if err != nil {
			return 0, err
		}
		instances[i] = inst
		pos += consumed
	}
	r.instances = instances
	if r.name != "" {
		env[r.name] = mustUnpackAll(instances)
	}
	return pos, nil
}

// Pack draws count instances of body from cur in sequence; a body that is
// itself a multi-value container (a Format, say) consumes as many
// positional values per iteration as its own Pack needs, so in aggregate
// packing a Repeat of n consumes the n "iterables matching the body's
// shape" the common contract describes.
func (r *Repeat) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	n, err := r.count.EvaluateInt(env)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	if n < 0 {
		n = 0
	}
	instances := make([]FieldType, n)
	parts := make([]bitseq.BitSeq, n)
	for i := 0; i < n; i++ {
		inst := r.body.Clone()
		bits, err := inst.Pack(cur, env)
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		instances[i] = inst
		parts[i] = bits
	}
	r.instances = instances
	if r.name != "" {
		env[r.name] = mustUnpackAll(instances)
	}
	return bitseq.FromJoined(parts), nil
}

func mustUnpackAll(instances []FieldType) []interface{} {
	out := make([]interface{}, len(instances))
	for i, inst := range instances {
		v, err := inst.Unpack()
		if err == nil {
			out[i] = v
		}
	}
	return out
}

func (r *Repeat) Unpack() (interface{}, error) {
	if r.instances == nil {
		return nil, bferr.NewValue("repeat %q: not yet parsed or packed", r.name)
	}
	out := make([]interface{}, len(r.instances))
	for i, inst := range r.instances {
		v, err := inst.Unpack()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *Repeat) ToBits() (bitseq.BitSeq, error) {
	parts := make([]bitseq.BitSeq, len(r.instances))
	for i, inst := range r.instances {
		bits, err := inst.ToBits()
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts[i] = bits
	}
	return bitseq.FromJoined(parts), nil
}

func (r *Repeat) Clear() { r.instances = nil }

func (r *Repeat) BitLength() (int, error) {
	n, err := r.count.EvaluateInt(Env{})
	if err != nil {
		return 0, bferr.NewValue("repeat %q: count is not a compile-time constant", r.name)
	}
	if n < 0 {
		n = 0
	}
	bodyLen, err := r.body.BitLength()
	if err != nil {
		return 0, err
	}
	return n * bodyLen, nil
}

func (r *Repeat) HasDynamicSize() bool {
	_, err := r.BitLength()
	return err != nil
}

func (r *Repeat) IsConst() bool { return false }

func (r *Repeat) Repr() string {
	return fmt.Sprintf("Repeat{Name: %q, Count: %q, Body: %s}", r.name, r.count, r.body.Repr())
}

func (r *Repeat) String() string {
	s := fmt.Sprintf("repeat %s: %s", r.count, r.body)
	if r.name != "" {
		s = r.name + " = " + s
	}
	return s
}

func (r *Repeat) Clone() FieldType {
	return &Repeat{name: r.name, count: r.count, body: r.body.Clone()}
}
