// Package bitseq implements BitSeq, an immutable bit-granularity sequence,
// and MutBitSeq, its mutable counterpart. Both share the same tightly
// packed, MSB-first storage model: a backing []byte together with a start
// and end bit offset into it, so that slices and views can share storage
// without copying until a mutation forces a copy-on-write.
//
// The bit-cursor read/write primitives are the generalisation of
// HewlettPackard/structex's decoder/encoder byte-cursor (structex reads and
// writes whole struct fields one at a time from an io.ByteReader/Writer);
// here the cursor operates directly on an in-memory buffer and any bit
// span, not just struct-tag-sized fields.
package bitseq

import (
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

// BitSeq is an immutable, shareable bit sequence.
type BitSeq struct {
	buf   []byte // backing bytes, shared read-only across views
	start int    // inclusive bit offset into buf
	end   int    // exclusive bit offset into buf
}

// Len returns the number of bits in s.
func (s BitSeq) Len() int { return s.end - s.start }

// Empty reports whether s has zero length.
func (s BitSeq) Empty() bool { return s.end == s.start }

func newBitSeq(buf []byte, start, end int) BitSeq {
	return BitSeq{buf: buf, start: start, end: end}
}

// fromTight wraps a freshly allocated, tightly packed buffer of exactly n
// bits as a BitSeq; the caller gives up ownership of buf.
func fromTight(buf []byte, n int) BitSeq {
	return BitSeq{buf: buf, start: 0, end: n}
}

// FromZeros returns a BitSeq of n zero bits.
func FromZeros(n int) (BitSeq, error) {
	if n < 0 {
		return BitSeq{}, bferr.NewValue("from_zeros: negative length %d", n)
	}
	return fromTight(make([]byte, byteLen(n)), n), nil
}

// FromOnes returns a BitSeq of n one bits.
func FromOnes(n int) (BitSeq, error) {
	if n < 0 {
		return BitSeq{}, bferr.NewValue("from_ones: negative length %d", n)
	}
	buf := make([]byte, byteLen(n))
	for i := range buf {
		buf[i] = 0xff
	}
	s := fromTight(buf, n)
	s.clearTrailingPad()
	return s, nil
}

// clearTrailingPad zeroes the unused low-order bits of the final byte so
// that two BitSeq of equal logical content always compare byte-equal.
func (s BitSeq) clearTrailingPad() {
	if s.end%8 == 0 {
		return
	}
	last := s.end / 8
	keep := uint(8 - s.end%8)
	mask := byte(0xff) << keep
	s.buf[last] &= mask
}

// FromBytes returns a BitSeq of 8*len(b) bits, one per bit of b.
func FromBytes(b []byte) BitSeq {
	buf := make([]byte, len(b))
	copy(buf, b)
	return fromTight(buf, 8*len(b))
}

// FromBin parses a binary digit string, tolerant of a leading "0b" and
// internal whitespace/underscores.
func FromBin(s string) (BitSeq, error) {
	digits := cleanDigits(s, "0b")
	buf := make([]byte, byteLen(len(digits)))
	for i, r := range digits {
		switch r {
		case '0':
		case '1':
			setBit(buf, i, true)
		default:
			return BitSeq{}, bferr.NewValue("from_bin: invalid digit %q", r)
		}
	}
	return fromTight(buf, len(digits)), nil
}

// FromOct parses an octal digit string (3 bits/digit), tolerant of a
// leading "0o" and internal whitespace/underscores.
func FromOct(s string) (BitSeq, error) {
	digits := cleanDigits(s, "0o")
	buf := make([]byte, byteLen(len(digits)*3))
	for i, r := range digits {
		if r < '0' || r > '7' {
			return BitSeq{}, bferr.NewValue("from_oct: invalid digit %q", r)
		}
		v := int(r - '0')
		for b := 0; b < 3; b++ {
			setBit(buf, i*3+b, v&(1<<uint(2-b)) != 0)
		}
	}
	return fromTight(buf, len(digits)*3), nil
}

// FromHex parses a hex digit string (4 bits/digit), tolerant of a leading
// "0x" and internal whitespace/underscores.
func FromHex(s string) (BitSeq, error) {
	digits := cleanDigits(s, "0x")
	buf := make([]byte, byteLen(len(digits)*4))
	for i, r := range digits {
		v, ok := hexVal(r)
		if !ok {
			return BitSeq{}, bferr.NewValue("from_hex: invalid digit %q", r)
		}
		for b := 0; b < 4; b++ {
			setBit(buf, i*4+b, v&(1<<uint(3-b)) != 0)
		}
	}
	return fromTight(buf, len(digits)*4), nil
}

func hexVal(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

func cleanDigits(s, prefix string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, prefix)
	s = strings.TrimPrefix(s, strings.ToUpper(prefix))
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromBools packs one bit per element of bits, true meaning 1.
func FromBools(bits []bool) BitSeq {
	buf := make([]byte, byteLen(len(bits)))
	for i, v := range bits {
		if v {
			setBit(buf, i, true)
		}
	}
	return fromTight(buf, len(bits))
}

// FromJoined concatenates every element of seqs in order.
func FromJoined(seqs []BitSeq) BitSeq {
	total := 0
	for _, s := range seqs {
		total += s.Len()
	}
	buf := make([]byte, byteLen(total))
	pos := 0
	for _, s := range seqs {
		copyBits(buf, pos, s.buf, s.start, s.end)
		pos += s.Len()
	}
	return fromTight(buf, total)
}

// Slice returns the bits in [start, end) (step 1, a zero-copy view). A
// non-unit step is handled by SliceStep, which must materialize.
func (s BitSeq) Slice(start, end int) (BitSeq, error) {
	n := s.Len()
	start, end, err := normalizeRange(start, end, n)
	if err != nil {
		return BitSeq{}, err
	}
	return newBitSeq(s.buf, s.start+start, s.start+end), nil
}

// SliceStep returns every step'th bit of [start, end); step must be
// nonzero. A non-unit step always materializes a new buffer.
func (s BitSeq) SliceStep(start, end, step int) (BitSeq, error) {
	if step == 0 {
		return BitSeq{}, bferr.NewValue("slice: step must not be 0")
	}
	if step == 1 {
		return s.Slice(start, end)
	}
	n := s.Len()
	start, end, err := normalizeRange(start, end, n)
	if err != nil {
		return BitSeq{}, err
	}
	var bits []bool
	if step > 0 {
		for i := start; i < end; i += step {
			bits = append(bits, getBit(s.buf, s.start+i))
		}
	} else {
		for i := end - 1; i >= start; i += step {
			bits = append(bits, getBit(s.buf, s.start+i))
		}
	}
	return FromBools(bits), nil
}

func normalizeRange(start, end, n int) (int, int, error) {
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	return start, end, nil
}

// At returns the bit at logical index i, which may be negative to index
// from the end.
func (s BitSeq) At(i int) (bool, error) {
	n := s.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return false, bferr.NewIndex(i, n)
	}
	return getBit(s.buf, s.start+i), nil
}

// Concat returns a+b, a freshly allocated sequence.
func Concat(a, b BitSeq) BitSeq {
	return FromJoined([]BitSeq{a, b})
}

// Repeat returns a concatenated with itself n times; n must be >= 0.
func Repeat(a BitSeq, n int) (BitSeq, error) {
	if n < 0 {
		return BitSeq{}, bferr.NewValue("repeat: negative count %d", n)
	}
	seqs := make([]BitSeq, n)
	for i := range seqs {
		seqs[i] = a
	}
	return FromJoined(seqs), nil
}

// Equal reports whether a and b have the same length and bit content.
func Equal(a, b BitSeq) bool {
	if a.Len() != b.Len() {
		return false
	}
	n := a.Len()
	for i := 0; i < n; i++ {
		if getBit(a.buf, a.start+i) != getBit(b.buf, b.start+i) {
			return false
		}
	}
	return true
}

// Bin returns the binary-digit representation of s.
func (s BitSeq) Bin() string {
	var b strings.Builder
	b.Grow(s.Len())
	for i := 0; i < s.Len(); i++ {
		if getBit(s.buf, s.start+i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Hex returns the hexadecimal representation of s; s must be a whole
// number of nibbles (length a multiple of 4).
func (s BitSeq) Hex() (string, error) {
	if s.Len()%4 != 0 {
		return "", bferr.NewByteAlign("hex: length %d is not a multiple of 4", s.Len())
	}
	const digits = "0123456789abcdef"
	var b strings.Builder
	for i := 0; i < s.Len(); i += 4 {
		v := 0
		for j := 0; j < 4; j++ {
			v <<= 1
			if getBit(s.buf, s.start+i+j) {
				v |= 1
			}
		}
		b.WriteByte(digits[v])
	}
	return b.String(), nil
}

// Oct returns the octal representation of s; s must be a whole number of
// 3-bit groups.
func (s BitSeq) Oct() (string, error) {
	if s.Len()%3 != 0 {
		return "", bferr.NewByteAlign("oct: length %d is not a multiple of 3", s.Len())
	}
	const digits = "01234567"
	var b strings.Builder
	for i := 0; i < s.Len(); i += 3 {
		v := 0
		for j := 0; j < 3; j++ {
			v <<= 1
			if getBit(s.buf, s.start+i+j) {
				v |= 1
			}
		}
		b.WriteByte(digits[v])
	}
	return b.String(), nil
}

// ToBytes returns s packed into bytes, zero-padded at the tail up to the
// next byte boundary.
func (s BitSeq) ToBytes() []byte {
	return extractBits(s.buf, s.start, s.end)
}

// String implements fmt.Stringer with the binary representation, matching
// the textual form used throughout the schema grammar's bit literals.
func (s BitSeq) String() string {
	return "0b" + s.Bin()
}
