package fieldtype

import (
	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// Env is the shared name→value binding environment threaded through a tree
// walk. Names published by a Field, a Format's named children, or a Let
// become visible to Expression evaluation in later siblings and
// descendants, per §5's ordering guarantee; they never propagate upward
// out of the Format that introduced them (Format.Parse and Format.Pack
// work on env.clone()).
type Env map[string]interface{}

// clone makes a shallow copy so a Format's children can add bindings
// without leaking them back into the parent's Env.
func (e Env) clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Cursor hands out pack values left to right, matching the common
// contract's "non-const Fields consume one value from values in
// left-to-right order". KWArgs overlays positional consumption for named
// fields, mirroring structex's tagReference/fieldMap name-based lookup
// generalized from sizeOf/countOf references to arbitrary named overrides.
type Cursor struct {
	Values []interface{}
	KWArgs map[string]interface{}
	pos    int
}

// NewCursor builds a Cursor over values with no named overrides.
func NewCursor(values ...interface{}) *Cursor {
	return &Cursor{Values: values}
}

func (c *Cursor) next() (interface{}, bool) {
	if c.pos >= len(c.Values) {
		return nil, false
	}
	v := c.Values[c.pos]
	c.pos++
	return v, true
}

// Exhausted reports whether every positional value has been consumed.
func (c *Cursor) Exhausted() bool { return c.pos >= len(c.Values) }

// FieldType is the common contract every tree node satisfies (§4.4).
type FieldType interface {
	// Name returns the node's optional name ("" if unnamed).
	Name() string
	// Parse consumes bits from the front of bits, binds any named value(s)
	// into env, and returns the number of bits consumed.
	Parse(bits bitseq.BitSeq, env Env) (int, error)
	// Pack draws values from cur (by position or by name), binds named
	// value(s) into env, and returns the packed bits.
	Pack(cur *Cursor, env Env) (bitseq.BitSeq, error)
	// Unpack returns the value(s) recorded by the most recent Parse/Pack.
	Unpack() (interface{}, error)
	// ToBits re-serializes the most recently parsed/packed state.
	ToBits() (bitseq.BitSeq, error)
	// Clear drops parsed/packed state; const Fields retain their constant.
	Clear()
	// BitLength returns the node's bit length, or an error if it cannot be
	// resolved without parsing (e.g. a stretchy Field, or While).
	BitLength() (int, error)
	// HasDynamicSize reports whether some descendant's size depends on a
	// runtime Env rather than being fixed at construction.
	HasDynamicSize() bool
	// IsConst reports whether the whole subtree is fixed, constant data.
	IsConst() bool
	// String renders the node in the §6.2 textual grammar.
	String() string
	// Repr renders the node in a Go-constructor-shaped detailed form,
	// distinct from String's canonical textual grammar — supplemented from
	// the original's __str__/__repr__ split (§9.2).
	Repr() string
	// Clone returns an independent copy with no parsed/packed state
	// (const Fields keep their constant). Repeat and While use this to
	// give each repetition of body its own value storage.
	Clone() FieldType
}

func errInsufficientBits(need, have int) error {
	return bferr.NewValue("insufficient bits: need %d, have %d", need, have)
}

// isStretchyChild reports whether c is a Field whose dtype absorbs all
// remaining bits at parse time. Only a Field can be stretchy in this
// sense — If/Repeat/While have a size that is merely unknown until
// evaluated, not one that swallows whatever is left, so they are never
// subject to the "stretchy child must be last" placement rule (§3.3).
func isStretchyChild(c FieldType) bool {
	f, ok := c.(*Field)
	return ok && f.dt.Stretchy()
}
