package bitseq

import (
	"github.com/scgriffiths/bitformat-go/bferr"
)

// MutBitSeq is the mutable counterpart to BitSeq. It is exclusively owned
// by its holder; every mutating method copies the backing buffer the first
// time it would otherwise alias an immutable view (copy-on-write), then
// mutates in place for the rest of its lifetime. Every mutating method
// returns self, mirroring structex's encoder/decoder chainable-cursor
// style generalized from a one-shot byte cursor to a persistent buffer.
type MutBitSeq struct {
	buf   []byte
	start int
	end   int
	owned bool
}

// NewMutBitSeq returns a MutBitSeq view over s; the buffer is copied lazily
// on first mutation.
func NewMutBitSeq(s BitSeq) *MutBitSeq {
	return &MutBitSeq{buf: s.buf, start: s.start, end: s.end, owned: false}
}

// Len returns the number of bits.
func (m *MutBitSeq) Len() int { return m.end - m.start }

// ToBitSeq returns an immutable snapshot of m's current content.
func (m *MutBitSeq) ToBitSeq() BitSeq {
	return fromTight(extractBits(m.buf, m.start, m.end), m.Len())
}

// own ensures m exclusively owns a tightly packed copy of its own bits,
// copying once if it currently aliases shared storage.
func (m *MutBitSeq) own() {
	if m.owned {
		return
	}
	n := m.Len()
	m.buf = extractBits(m.buf, m.start, m.end)
	m.start = 0
	m.end = n
	m.owned = true
}

func (m *MutBitSeq) At(i int) (bool, error) {
	n := m.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return false, bferr.NewIndex(i, n)
	}
	return getBit(m.buf, m.start+i), nil
}

// Append concatenates bits onto the end of m.
func (m *MutBitSeq) Append(bits BitSeq) *MutBitSeq {
	joined := FromJoined([]BitSeq{m.ToBitSeq(), bits})
	m.buf, m.start, m.end, m.owned = joined.buf, joined.start, joined.end, true
	return m
}

// Prepend concatenates bits onto the start of m.
func (m *MutBitSeq) Prepend(bits BitSeq) *MutBitSeq {
	joined := FromJoined([]BitSeq{bits, m.ToBitSeq()})
	m.buf, m.start, m.end, m.owned = joined.buf, joined.start, joined.end, true
	return m
}

// Insert splices bits into m at position pos.
func (m *MutBitSeq) Insert(pos int, bits BitSeq) (*MutBitSeq, error) {
	n := m.Len()
	if pos < 0 || pos > n {
		return nil, bferr.NewIndex(pos, n)
	}
	cur := m.ToBitSeq()
	before, _ := cur.Slice(0, pos)
	after, _ := cur.Slice(pos, n)
	joined := FromJoined([]BitSeq{before, bits, after})
	m.buf, m.start, m.end, m.owned = joined.buf, joined.start, joined.end, true
	return m, nil
}

// Overwrite replaces the bits of m starting at pos with bits, which must
// fit within m's current length.
func (m *MutBitSeq) Overwrite(pos int, bits BitSeq) (*MutBitSeq, error) {
	n := m.Len()
	if pos < 0 || pos+bits.Len() > n {
		return nil, bferr.NewIndex(pos, n)
	}
	m.own()
	copyBits(m.buf, m.start+pos, bits.buf, bits.start, bits.end)
	return m, nil
}

// Reverse reverses the bit order of m in place.
func (m *MutBitSeq) Reverse() *MutBitSeq {
	cur := m.ToBitSeq()
	n := cur.Len()
	buf := make([]byte, byteLen(n))
	for i := 0; i < n; i++ {
		if getBit(cur.buf, cur.start+i) {
			setBit(buf, n-1-i, true)
		}
	}
	m.buf, m.start, m.end, m.owned = buf, 0, n, true
	return m
}

// Ror rotates the bits in [start, end) of m right by n positions in place.
// A nil end means the end of m.
func (m *MutBitSeq) Ror(n int, start int, end *int) (*MutBitSeq, error) {
	return m.rotate(n, start, end, true)
}

// Rol rotates the bits in [start, end) of m left by n positions in place.
func (m *MutBitSeq) Rol(n int, start int, end *int) (*MutBitSeq, error) {
	return m.rotate(n, start, end, false)
}

func (m *MutBitSeq) rotate(n, start int, end *int, right bool) (*MutBitSeq, error) {
	total := m.Len()
	e := total
	if end != nil {
		e = *end
	}
	if start < 0 || e > total || start > e {
		return nil, bferr.NewIndex(start, total)
	}
	span := e - start
	if span == 0 {
		return m, nil
	}
	n = ((n % span) + span) % span
	if !right {
		n = (span - n) % span
	}
	cur := m.ToBitSeq()
	region, _ := cur.Slice(start, e)
	head, _ := region.Slice(span-n, span)
	tail, _ := region.Slice(0, span-n)
	rotated := FromJoined([]BitSeq{head, tail})
	m.own()
	copyBits(m.buf, m.start+start, rotated.buf, rotated.start, rotated.end)
	return m, nil
}

// ByteSwap reverses the byte order of m (or, with a nonzero width, of each
// width-byte group) in place; m's length must be a whole number of bytes
// (or of width bytes).
func (m *MutBitSeq) ByteSwap(width int) (*MutBitSeq, error) {
	n := m.Len()
	if n%8 != 0 {
		return nil, bferr.NewByteAlign("byte_swap: %d bits is not a whole number of bytes", n)
	}
	nbytes := n / 8
	if width <= 0 {
		width = nbytes
	}
	if nbytes%width != 0 {
		return nil, bferr.NewByteAlign("byte_swap: %d bytes is not a multiple of width %d", nbytes, width)
	}
	m.own()
	for g := 0; g < nbytes; g += width {
		reverseBytes(m.buf[m.start/8+g : m.start/8+g+width])
	}
	return m, nil
}

// Set forces every bit position in positions to value.
func (m *MutBitSeq) Set(value bool, positions []int) (*MutBitSeq, error) {
	m.own()
	n := m.Len()
	for _, p := range positions {
		if p < 0 {
			p += n
		}
		if p < 0 || p >= n {
			return nil, bferr.NewIndex(p, n)
		}
		setBit(m.buf, m.start+p, value)
	}
	return m, nil
}

// InvertPositions flips every bit position in positions; with no
// positions given, the whole sequence is inverted.
func (m *MutBitSeq) InvertPositions(positions []int) (*MutBitSeq, error) {
	m.own()
	n := m.Len()
	if len(positions) == 0 {
		for i := 0; i < n; i++ {
			setBit(m.buf, m.start+i, !getBit(m.buf, m.start+i))
		}
		return m, nil
	}
	for _, p := range positions {
		if p < 0 {
			p += n
		}
		if p < 0 || p >= n {
			return nil, bferr.NewIndex(p, n)
		}
		setBit(m.buf, m.start+p, !getBit(m.buf, m.start+p))
	}
	return m, nil
}

// AndInPlace, OrInPlace and XorInPlace require equal lengths, per §4.1
// Mutation.
func (m *MutBitSeq) AndInPlace(other BitSeq) (*MutBitSeq, error) {
	return m.logicalInPlace(other, func(x, y bool) bool { return x && y })
}

func (m *MutBitSeq) OrInPlace(other BitSeq) (*MutBitSeq, error) {
	return m.logicalInPlace(other, func(x, y bool) bool { return x || y })
}

func (m *MutBitSeq) XorInPlace(other BitSeq) (*MutBitSeq, error) {
	return m.logicalInPlace(other, func(x, y bool) bool { return x != y })
}

func (m *MutBitSeq) logicalInPlace(other BitSeq, op func(x, y bool) bool) (*MutBitSeq, error) {
	if m.Len() != other.Len() {
		return nil, bferr.NewValue("logical op: length mismatch %d != %d", m.Len(), other.Len())
	}
	m.own()
	for i := 0; i < m.Len(); i++ {
		v := op(getBit(m.buf, m.start+i), getBit(other.buf, other.start+i))
		setBit(m.buf, m.start+i, v)
	}
	return m, nil
}

// Replace scans [start, end) left to right for non-overlapping matches of
// old, honouring byteAligned, and substitutes new for each of the first
// count matches (count<0 means unbounded; count==0 is a no-op per §4.1). A fresh buffer is built from interleaved original
// slices and new, then installed in place.
func (m *MutBitSeq) Replace(old, new BitSeq, start int, end *int, count int, byteAligned *bool) (*MutBitSeq, error) {
	if count == 0 {
		return m, nil
	}
	if old.Empty() {
		return nil, bferr.NewValue("replace: empty old value")
	}
	n := m.Len()
	e := n
	if end != nil {
		e = *end
	}
	if start < 0 || e > n || start > e {
		return nil, bferr.NewIndex(start, n)
	}
	cur := m.ToBitSeq()
	head, _ := cur.Slice(0, start)
	region, _ := cur.Slice(start, e)
	tail, _ := cur.Slice(e, n)

	candidates, err := FindAll(region, old, 0, byteAligned)
	if err != nil {
		return nil, err
	}

	var pieces []BitSeq
	pieces = append(pieces, head)
	pos := 0
	substitutions := 0
	for _, p := range candidates {
		if p < pos {
			continue // overlaps the previous substitution
		}
		if count > 0 && substitutions >= count {
			break
		}
		before, _ := region.Slice(pos, p)
		pieces = append(pieces, before, new)
		pos = p + old.Len()
		substitutions++
	}
	rest, _ := region.Slice(pos, region.Len())
	pieces = append(pieces, rest, tail)

	joined := FromJoined(pieces)
	m.buf, m.start, m.end, m.owned = joined.buf, joined.start, joined.end, true
	return m, nil
}
