package dtype

import "github.com/scgriffiths/bitformat-go/bitseq"

// Dtype is the common interface satisfied by Single, Array and Tuple, the
// three variants of the Dtype sum type (§3.2).
type Dtype interface {
	// BitLength returns the dtype's bit length, or an error if it is
	// stretchy and so not resolvable without parsing.
	BitLength() (int, error)
	// Stretchy reports whether the dtype's size is unresolved.
	Stretchy() bool
	// Pack encodes value as this dtype's bits.
	Pack(value interface{}) (bitseq.BitSeq, error)
	// Unpack decodes bits (expected to be exactly BitLength() long for a
	// resolved dtype) into a value of this dtype's Go representation.
	Unpack(bits bitseq.BitSeq) (interface{}, error)
	// BitsToChars estimates the printed character width of a value of this
	// dtype's resolved bit length. schema.Format does not call it.
	BitsToChars() (int, error)
	// String renders the dtype in the §6.2 token grammar.
	String() string
}
