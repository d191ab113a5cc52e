package bitseq

import (
	"math"
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/scgriffiths/bitformat-go/bferr"
)

// Endianness selects the byte order applied to fixed-width scalar codecs.
// It mirrors structex's little/big tag pair, generalized with the two
// additional values the dtype registry needs.
type Endianness int

const (
	Unspecified Endianness = iota
	Big
	Little
	Native
)

// resolvedEndianness returns Big or Little, resolving Native to the host
// order and Unspecified to Big (per §3.2: "unspecified means big-endian").
func resolvedEndianness(e Endianness) Endianness {
	switch e {
	case Native:
		if nativeIsLittle {
			return Little
		}
		return Big
	case Unspecified:
		return Big
	default:
		return e
	}
}

var nativeIsLittle = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// fitsInBits reports whether v needs no more than nbits bits to represent,
// generic over the unsigned accumulator width (sneller/ints's constraints.
// Unsigned-bounded shape) so a future narrower-width packer shares this
// check with PackUint's uint64 accumulator rather than re-deriving it.
func fitsInBits[T constraints.Unsigned](v T, nbits int) bool {
	if nbits >= 64 {
		return true
	}
	return uint64(v) < uint64(1)<<uint(nbits)
}

// signedRange returns the inclusive [lo, hi] two's-complement range a
// signed value encoded in nbits bits may hold, generic over the signed
// accumulator width for the same reason as fitsInBits.
func signedRange[T constraints.Signed](nbits int) (T, T) {
	if nbits >= 64 {
		return T(math.MinInt64), T(math.MaxInt64)
	}
	return T(int64(-1) << uint(nbits-1)), T(int64(1)<<uint(nbits-1) - 1)
}

// PackUint returns the nbits-long big-endian two's-complement encoding of
// the unsigned value v, then applies the requested byte-order swap when
// nbits is a whole number of bytes.
func PackUint(v uint64, nbits int, e Endianness) (BitSeq, error) {
	if nbits <= 0 {
		return BitSeq{}, bferr.NewValue("pack uint: size must be positive")
	}
	if !fitsInBits(v, nbits) {
		return BitSeq{}, bferr.NewValue("pack uint: %d does not fit in %d bits", v, nbits)
	}
	buf := make([]byte, byteLen(nbits))
	for i := 0; i < nbits; i++ {
		if (v>>uint(nbits-1-i))&1 == 1 {
			setBit(buf, i, true)
		}
	}
	if err := swapScalarBytes(buf, nbits, e); err != nil {
		return BitSeq{}, err
	}
	return fromTight(buf, nbits), nil
}

// UnpackUint decodes an nbits-long big-endian two's-complement buffer as an
// unsigned value, undoing any byte-order swap first.
func UnpackUint(s BitSeq, e Endianness) (uint64, error) {
	if s.Len() == 0 {
		return 0, bferr.NewValue("unpack uint: empty bits")
	}
	if s.Len() > 64 {
		return 0, bferr.NewValue("unpack uint: %d bits exceeds 64-bit result", s.Len())
	}
	buf := extractBits(s.buf, s.start, s.end)
	if err := swapScalarBytes(buf, s.Len(), e); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < s.Len(); i++ {
		v <<= 1
		if getBit(buf, i) {
			v |= 1
		}
	}
	return v, nil
}

// PackInt returns the nbits-long two's-complement encoding of the signed
// value v.
func PackInt(v int64, nbits int, e Endianness) (BitSeq, error) {
	if nbits <= 0 {
		return BitSeq{}, bferr.NewValue("pack int: size must be positive")
	}
	lo, hi := signedRange[int64](nbits)
	if v < lo || v > hi {
		return BitSeq{}, bferr.NewValue("pack int: %d out of range [%d, %d] for %d bits", v, lo, hi, nbits)
	}
	mask := uint64(1)<<uint(nbits) - 1
	if nbits >= 64 {
		mask = math.MaxUint64
	}
	return PackUint(uint64(v)&mask, nbits, e)
}

// UnpackInt decodes an nbits-long two's-complement buffer as a signed
// value.
func UnpackInt(s BitSeq, e Endianness) (int64, error) {
	u, err := UnpackUint(s, e)
	if err != nil {
		return 0, err
	}
	n := s.Len()
	if n < 64 && u&(1<<uint(n-1)) != 0 {
		return int64(u) - int64(1)<<uint(n), nil
	}
	return int64(u), nil
}

// PackBool packs v as a single bit.
func PackBool(v bool) BitSeq {
	buf := make([]byte, 1)
	if v {
		setBit(buf, 0, true)
	}
	return fromTight(buf, 1)
}

// UnpackBool decodes a single-bit BitSeq as a bool.
func UnpackBool(s BitSeq) (bool, error) {
	if s.Len() != 1 {
		return false, bferr.NewValue("unpack bool: expected 1 bit, got %d", s.Len())
	}
	return getBit(s.buf, s.start), nil
}

// PackFloat16/32/64 encode f per IEEE 754 binary16/32/64; on overflow
// during the 64->16 or 64->32 narrowing, the result saturates to +/-Inf
// rather than raising, per §4.1.

func PackFloat16(f float64, e Endianness) (BitSeq, error) {
	return PackUint(uint64(float64ToFloat16Bits(f)), 16, e)
}

func PackFloat32(f float64, e Endianness) (BitSeq, error) {
	return PackUint(uint64(math.Float32bits(saturateFloat32(f))), 32, e)
}

func PackFloat64(f float64, e Endianness) (BitSeq, error) {
	return PackUint(math.Float64bits(f), 64, e)
}

func UnpackFloat16(s BitSeq, e Endianness) (float64, error) {
	u, err := UnpackUint(s, e)
	if err != nil {
		return 0, err
	}
	return float16BitsToFloat64(uint16(u)), nil
}

func UnpackFloat32(s BitSeq, e Endianness) (float64, error) {
	u, err := UnpackUint(s, e)
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(uint32(u))), nil
}

func UnpackFloat64(s BitSeq, e Endianness) (float64, error) {
	u, err := UnpackUint(s, e)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func saturateFloat32(f float64) float32 {
	if f > math.MaxFloat32 {
		return float32(math.Inf(1))
	}
	if f < -math.MaxFloat32 {
		return float32(math.Inf(-1))
	}
	return float32(f)
}

// swapScalarBytes reverses the byte order of buf (a tightly packed,
// zero-padded nbits-long buffer) in place when e resolves to Little and
// nbits is a whole number of bytes, per §4.1's endianness rule: swapping
// acts on the scalar's byte width only, and never applies to a
// non-byte-aligned size.
func swapScalarBytes(buf []byte, nbits int, e Endianness) error {
	re := resolvedEndianness(e)
	if re != Little {
		return nil
	}
	if nbits%8 != 0 {
		return bferr.NewByteAlign("endianness swap: %d bits is not a whole number of bytes", nbits)
	}
	reverseBytes(buf[:nbits/8])
	return nil
}

// reverseBytes reverses b in place, mirroring structex's ReverseBytes*
// helpers (math/bits.ReverseBytesNN) generalized to arbitrary width. It is
// the byte-order reversal behind ByteSwap; MutBitSeq.Reverse does not use it.
func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// reverseByteBits reverses the bits within a single byte. Nothing in the
// package calls it: MutBitSeq.Reverse moves bits one at a time and ByteSwap
// uses reverseBytes. Grounded on dsnet-compress's internal.ReverseLUT
// bit-reversal approach, expressed with math/bits instead of a 256-entry table.
func reverseByteBits(b byte) byte {
	return bits.Reverse8(b)
}

