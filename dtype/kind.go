// Package dtype implements the Dtype sum type (Single, Array, Tuple) and
// the process-wide DtypeRegistry that maps each Kind to its pack/unpack
// behaviour, per SPEC_FULL.md §4.2. The registry is the generalisation of
// structex's per-field tag resolution (tags.go resolves a struct tag string
// into bit width + endianness + layout for one reflect.Value) into a
// standalone, struct-free descriptor keyed purely by a dtype token.
package dtype

import "github.com/scgriffiths/bitformat-go/bitseq"

// Kind identifies one of the closed set of primitive interpretations.
type Kind int

const (
	Uint Kind = iota
	Int
	Float
	Bin
	Oct
	Hex
	Bytes
	Bits
	Bool
	Pad
)

func (k Kind) String() string {
	switch k {
	case Uint:
		return "u"
	case Int:
		return "i"
	case Float:
		return "f"
	case Bin:
		return "bin"
	case Oct:
		return "oct"
	case Hex:
		return "hex"
	case Bytes:
		return "bytes"
	case Bits:
		return "bits"
	case Bool:
		return "bool"
	case Pad:
		return "pad"
	default:
		return "?"
	}
}

// ReturnType describes the Go type a Kind's Unpack produces, so callers can
// type-check a literal token before attempting to pack. Bits and Pad report
// RTBytes, although Bits unpacks to a bitseq.BitSeq and Pad to nil. Supplemented from
// original_source/bitformat/_dtypes.py's DtypeDefinition.return_type field
// (see SPEC_FULL.md §9.2).
type ReturnType int

const (
	RTInt ReturnType = iota
	RTUint
	RTFloat
	RTString
	RTBytes
	RTBool
)

// Endianness re-exports bitseq.Endianness so callers of dtype need not
// import bitseq directly just to name an endianness.
type Endianness = bitseq.Endianness

const (
	Unspecified = bitseq.Unspecified
	Big         = bitseq.Big
	Little      = bitseq.Little
	Native      = bitseq.Native
)
