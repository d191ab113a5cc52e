package bitseq

import (
	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/options"
)

// And returns the bitwise AND of a and b, which must have equal length.
func And(a, b BitSeq) (BitSeq, error) { return logical(a, b, func(x, y bool) bool { return x && y }) }

// Or returns the bitwise OR of a and b, which must have equal length.
func Or(a, b BitSeq) (BitSeq, error) { return logical(a, b, func(x, y bool) bool { return x || y }) }

// Xor returns the bitwise XOR of a and b, which must have equal length.
func Xor(a, b BitSeq) (BitSeq, error) {
	return logical(a, b, func(x, y bool) bool { return x != y })
}

func logical(a, b BitSeq, op func(x, y bool) bool) (BitSeq, error) {
	if a.Len() != b.Len() {
		return BitSeq{}, bferr.NewValue("logical op: length mismatch %d != %d", a.Len(), b.Len())
	}
	n := a.Len()
	buf := make([]byte, byteLen(n))
	for i := 0; i < n; i++ {
		if op(getBit(a.buf, a.start+i), getBit(b.buf, b.start+i)) {
			setBit(buf, i, true)
		}
	}
	return fromTight(buf, n), nil
}

// Invert returns the bitwise complement of s.
func Invert(s BitSeq) BitSeq {
	n := s.Len()
	buf := make([]byte, byteLen(n))
	for i := 0; i < n; i++ {
		if !getBit(s.buf, s.start+i) {
			setBit(buf, i, true)
		}
	}
	return fromTight(buf, n)
}

// ShiftLeft returns s shifted left by n bits, zero-filled at the right and
// saturating at s.Len(); s must be nonempty and n must be >= 0.
func ShiftLeft(s BitSeq, n int) (BitSeq, error) {
	if s.Empty() {
		return BitSeq{}, bferr.NewValue("shift_left: empty sequence")
	}
	if n < 0 {
		return BitSeq{}, bferr.NewValue("shift_left: negative amount %d", n)
	}
	length := s.Len()
	if n >= length {
		return FromZeros(length)
	}
	buf := make([]byte, byteLen(length))
	copyBits(buf, 0, s.buf, s.start+n, s.end)
	return fromTight(buf, length), nil
}

// ShiftRight returns s shifted right by n bits, zero-filled at the left and
// saturating at s.Len(); s must be nonempty and n must be >= 0.
func ShiftRight(s BitSeq, n int) (BitSeq, error) {
	if s.Empty() {
		return BitSeq{}, bferr.NewValue("shift_right: empty sequence")
	}
	if n < 0 {
		return BitSeq{}, bferr.NewValue("shift_right: negative amount %d", n)
	}
	length := s.Len()
	if n >= length {
		return FromZeros(length)
	}
	buf := make([]byte, byteLen(length))
	copyBits(buf, n, s.buf, s.start, s.end-n)
	return fromTight(buf, length), nil
}

// StartsWith reports whether s begins with prefix.
func StartsWith(s, prefix BitSeq) bool {
	if prefix.Len() > s.Len() {
		return false
	}
	sub, _ := s.Slice(0, prefix.Len())
	return Equal(sub, prefix)
}

// EndsWith reports whether s ends with suffix.
func EndsWith(s, suffix BitSeq) bool {
	if suffix.Len() > s.Len() {
		return false
	}
	sub, _ := s.Slice(s.Len()-suffix.Len(), s.Len())
	return Equal(sub, suffix)
}

// Count returns the number of bits in s equal to value (0 or 1 is accepted
// via the bool: true counts set bits).
func Count(s BitSeq, value bool) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if getBit(s.buf, s.start+i) == value {
			n++
		}
	}
	return n
}

// resolveByteAligned applies the process-wide default when byteAligned is
// nil.
func resolveByteAligned(byteAligned *bool) bool {
	if byteAligned != nil {
		return *byteAligned
	}
	return options.Get().ByteAligned
}

func matchesAt(s, sub BitSeq, pos int) bool {
	if pos+sub.Len() > s.Len() {
		return false
	}
	for i := 0; i < sub.Len(); i++ {
		if getBit(s.buf, s.start+pos+i) != getBit(sub.buf, sub.start+i) {
			return false
		}
	}
	return true
}

// Find returns the first bit position at which sub occurs in s, honouring
// byteAligned (nil defers to the process-wide default), or -1 if absent.
// sub must be nonempty.
func Find(s, sub BitSeq, byteAligned *bool) (int, error) {
	if sub.Empty() {
		return -1, bferr.NewValue("find: empty substring")
	}
	ba := resolveByteAligned(byteAligned)
	step := 1
	if ba {
		step = 8
	}
	for pos := 0; pos+sub.Len() <= s.Len(); pos += step {
		if matchesAt(s, sub, pos) {
			return pos, nil
		}
	}
	return -1, nil
}

// RFind returns the last bit position at which sub occurs in s, or -1 if
// absent.
func RFind(s, sub BitSeq, byteAligned *bool) (int, error) {
	if sub.Empty() {
		return -1, bferr.NewValue("rfind: empty substring")
	}
	ba := resolveByteAligned(byteAligned)
	step := 1
	if ba {
		step = 8
	}
	last := -1
	for pos := 0; pos+sub.Len() <= s.Len(); pos += step {
		if matchesAt(s, sub, pos) {
			last = pos
		}
	}
	return last, nil
}

// FindAll returns every bit position at which sub occurs in s, overlapping
// matches included, honouring byteAligned and bounded by count (<=0 means
// unbounded).
func FindAll(s, sub BitSeq, count int, byteAligned *bool) ([]int, error) {
	if sub.Empty() {
		return nil, bferr.NewValue("find_all: empty substring")
	}
	if count < 0 {
		return nil, bferr.NewValue("find_all: negative count %d", count)
	}
	ba := resolveByteAligned(byteAligned)
	step := 1
	if ba {
		step = 8
	}
	var out []int
	for pos := 0; pos+sub.Len() <= s.Len(); pos += step {
		if matchesAt(s, sub, pos) {
			out = append(out, pos)
			if count > 0 && len(out) >= count {
				break
			}
		}
	}
	return out, nil
}

// RFindAll returns the positions FindAll would, reversed. This is the
// "straightforward scan, reverse the output" reading of the spec's
// ambiguous rfind_all: positions are still found by a left-to-right,
// overlap-allowing scan and the resulting slice is then reversed, rather
// than performed as an independent right-to-left scan with its own overlap
// rules. See SPEC_FULL.md §9.1.
func RFindAll(s, sub BitSeq, count int, byteAligned *bool) ([]int, error) {
	all, err := FindAll(s, sub, 0, byteAligned)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if count > 0 && len(all) > count {
		all = all[:count]
	}
	return all, nil
}
