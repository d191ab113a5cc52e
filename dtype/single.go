package dtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// Single is one scalar value: a kind, a size (0 meaning stretchy), and,
// when permitted, an endianness.
type Single struct {
	reg    *Registry
	kind   Kind
	size   int
	endian Endianness
}

// NewSingle builds and validates a Single dtype against reg.
func NewSingle(reg *Registry, kind Kind, size int, endian Endianness) (*Single, error) {
	d, err := reg.lookup(kind)
	if err != nil {
		return nil, err
	}
	if size != 0 {
		if err := d.validateSize(size); err != nil {
			return nil, err
		}
		if err := d.validateEndianness(size, endian); err != nil {
			return nil, err
		}
	} else if endian != Unspecified {
		return nil, bferr.NewValue("dtype %s: endianness requires a concrete size", kind)
	}
	return &Single{reg: reg, kind: kind, size: size, endian: endian}, nil
}

func (s *Single) Kind() Kind         { return s.kind }
func (s *Single) Size() int         { return s.size }
func (s *Single) Endianness() Endianness { return s.endian }

// Stretchy defers to BitLength's own resolution rather than checking
// size==0 directly: most kinds are genuinely unresolvable with no size
// (sizeOrStretchy errors), but Bool's bit_length is always 1 regardless of
// size, so an omitted size on a bool token must not count as stretchy.
func (s *Single) Stretchy() bool {
	_, err := s.BitLength()
	return err != nil
}

func (s *Single) BitLength() (int, error) {
	d, err := s.reg.lookup(s.kind)
	if err != nil {
		return 0, err
	}
	return d.bitLength(s.size)
}

// ReturnType reports the Go type this dtype's Unpack produces, supplemented
// from original_source/bitformat/_dtypes.py's DtypeDefinition.return_type.
func (s *Single) ReturnType() (ReturnType, error) {
	d, err := s.reg.lookup(s.kind)
	if err != nil {
		return 0, err
	}
	return d.returnType, nil
}

// BitsToChars estimates the printed character width of a value of this
// dtype, per its registered bits2chars function (§9.2 supplement).
func (s *Single) BitsToChars() (int, error) {
	d, err := s.reg.lookup(s.kind)
	if err != nil {
		return 0, err
	}
	if d.bitsToChars == nil {
		return 0, bferr.NewValue("dtype %s: bits_to_chars not supported", s.kind)
	}
	bitLen, err := s.BitLength()
	if err != nil {
		return 0, err
	}
	return d.bitsToChars(bitLen)
}

func (s *Single) Pack(value interface{}) (bitseq.BitSeq, error) {
	d, err := s.reg.lookup(s.kind)
	if err != nil {
		return bitseq.BitSeq{}, err
	}
	size := s.size
	if size == 0 {
		size = inferStretchySize(s.kind, value, d.bitsPerChar)
	}
	bits, err := d.pack(value, size, s.endian)
	if err != nil {
		return bitseq.BitSeq{}, bferr.WrapValue(err, fmt.Sprintf("pack %s", s))
	}
	return bits, nil
}

func (s *Single) Unpack(bits bitseq.BitSeq) (interface{}, error) {
	d, err := s.reg.lookup(s.kind)
	if err != nil {
		return nil, err
	}
	size := s.size
	if size == 0 {
		if d.bitsPerChar == 0 {
			size = bits.Len()
		} else {
			size = bits.Len() / d.bitsPerChar
		}
	}
	if resolved, rerr := d.bitLength(size); rerr == nil && resolved != bits.Len() {
		return nil, bferr.NewValue("unpack %s: expected %d bits, got %d", s, resolved, bits.Len())
	}
	return d.unpack(bits, size, s.endian)
}

// inferStretchySize derives the "size" field a stretchy dtype's pack
// function needs from the runtime value: a stretchy bin/hex/oct takes the
// string's character count, bytes its byte count and bits its bit count.
// Every other kind (uint, int, float, ...) gets 0, which the uint, int and
// float pack functions reject as an invalid size.
func inferStretchySize(kind Kind, value interface{}, bitsPerChar int) int {
	switch kind {
	case Bin, Oct, Hex:
		if s, ok := value.(string); ok {
			return len(s)
		}
	case Bytes:
		if b, ok := value.([]byte); ok {
			return len(b)
		}
	case Bits:
		if b, ok := value.(bitseq.BitSeq); ok {
			return b.Len()
		}
	case Pad:
		return 0
	}
	return 0
}

func (s *Single) String() string {
	name := s.kind.String()
	endianSuffix := ""
	switch s.endian {
	case Big:
		endianSuffix = "_be"
	case Little:
		endianSuffix = "_le"
	case Native:
		endianSuffix = "_ne"
	}
	if s.size == 0 {
		return name + endianSuffix
	}
	return fmt.Sprintf("%s%s%d", name, endianSuffix, s.size)
}
