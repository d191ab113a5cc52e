package fieldtype

import "github.com/scgriffiths/bitformat-go/bitseq"

// passNode is the singleton no-op placeholder (§4.4.7): zero bit length,
// parse/pack are no-ops, and it compares equal to every other Pass.
type passNode struct{}

var passSingleton = &passNode{}

// Pass returns the Pass singleton.
func Pass() FieldType { return passSingleton }

func (p *passNode) Name() string { return "" }

func (p *passNode) Parse(bits bitseq.BitSeq, env Env) (int, error) { return 0, nil }

func (p *passNode) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	return bitseq.FromZeros(0)
}

func (p *passNode) Unpack() (interface{}, error) { return nil, nil }

func (p *passNode) ToBits() (bitseq.BitSeq, error) { return bitseq.FromZeros(0) }

func (p *passNode) Clear() {}

func (p *passNode) BitLength() (int, error) { return 0, nil }

func (p *passNode) HasDynamicSize() bool { return false }

func (p *passNode) IsConst() bool { return true }

func (p *passNode) String() string { return "pass" }

func (p *passNode) Repr() string { return "Pass{}" }

// Clone returns the same singleton: Pass is stateless and immutable.
func (p *passNode) Clone() FieldType { return p }
