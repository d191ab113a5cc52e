package fieldtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/dtype"
)

// Field is a leaf node: one value of one Dtype (§4.4.1).
type Field struct {
	dt       dtype.Dtype
	name     string
	value    interface{}
	hasValue bool
	isConst  bool
}

// NewField builds a Field. A const Field must be given a value up front;
// non-const Fields start out with no recorded value.
func NewField(dt dtype.Dtype, name string, isConst bool, value interface{}) (*Field, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if isConst && value == nil {
		return nil, bferr.NewValue("const field %q must carry a value", name)
	}
	return &Field{dt: dt, name: name, value: value, hasValue: value != nil, isConst: isConst}, nil
}

func (f *Field) Name() string    { return f.name }
func (f *Field) IsConst() bool   { return f.isConst }
func (f *Field) Dtype() dtype.Dtype { return f.dt }

func (f *Field) HasDynamicSize() bool { return f.dt.Stretchy() }

func (f *Field) BitLength() (int, error) {
	n, err := f.dt.BitLength()
	if err == nil {
		return n, nil
	}
	if f.hasValue {
		bits, perr := f.dt.Pack(f.value)
		if perr != nil {
			return 0, perr
		}
		return bits.Len(), nil
	}
	return 0, err
}

// effectiveLen resolves how many bits of avail this field should consume:
// its own resolved length, or (when stretchy) every bit remaining — valid
// only because a stretchy Field may only occur as a Format's last child.
func (f *Field) effectiveLen(avail int) int {
	if n, err := f.dt.BitLength(); err == nil {
		return n
	}
	return avail
}

func (f *Field) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	n := f.effectiveLen(bits.Len())
	if n > bits.Len() {
		return 0, errInsufficientBits(n, bits.Len())
	}
	chunk, err := bits.Slice(0, n)
	if err != nil {
		return 0, err
	}
	value, err := f.dt.Unpack(chunk)
	if err != nil {
		return 0, err
	}
	if f.isConst {
		if !valuesEqual(value, f.value) {
			return 0, bferr.NewValue("field %q: const mismatch, expected %v, got %v", f.name, f.value, value)
		}
	} else {
		f.value = value
		f.hasValue = true
	}
	if f.name != "" {
		env[f.name] = value
	}
	return n, nil
}

func (f *Field) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	var value interface{}
	switch {
	case f.isConst:
		value = f.value
	case f.name != "" && cur.KWArgs != nil && hasKey(cur.KWArgs, f.name):
		value = cur.KWArgs[f.name]
	default:
		v, ok := cur.next()
		if !ok {
			return bitseq.BitSeq{}, bferr.NewValue("field %q: no value supplied to pack", f.name)
		}
		value = v
	}
	bits, err := f.dt.Pack(value)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	if !f.isConst {
		f.value = value
		f.hasValue = true
	}
	if f.name != "" {
		env[f.name] = value
	}
	return bits, nil
}

func hasKey(m map[string]interface{}, k string) bool {
	_, ok := m[k]
	return ok
}

func (f *Field) Unpack() (interface{}, error) {
	if !f.hasValue {
		return nil, bferr.NewValue("field %q: no value parsed or packed yet", f.name)
	}
	return f.value, nil
}

func (f *Field) ToBits() (bitseq.BitSeq, error) {
	if !f.hasValue {
		return bitseq.BitSeq{}, bferr.NewValue("field %q: no value to serialize", f.name)
	}
	return f.dt.Pack(f.value)
}

func (f *Field) Clear() {
	if !f.isConst {
		f.value = nil
		f.hasValue = false
	}
}

func (f *Field) Clone() FieldType {
	clone := &Field{dt: f.dt, name: f.name, isConst: f.isConst}
	if f.isConst {
		clone.value = f.value
		clone.hasValue = f.hasValue
	}
	return clone
}

func (f *Field) Repr() string {
	return fmt.Sprintf("Field{Name: %q, Dtype: %q, Const: %v, Value: %#v}", f.name, f.dt, f.isConst, f.value)
}

func (f *Field) String() string {
	s := ""
	if f.name != "" {
		s += f.name + ": "
	}
	if f.isConst {
		s += "const "
	}
	s += f.dt.String()
	if f.isConst {
		s += fmt.Sprintf(" = %v", f.value)
	}
	return s
}
