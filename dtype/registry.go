package dtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// definition is the per-kind record the registry holds: a description, the
// sizes it accepts, whether endianness variants are meaningful, and the
// pack/unpack pair. This is the standalone analogue of structex's per-tag
// resolution in tags.go, generalized from "one struct field's tag" to "one
// registered dtype kind".
type definition struct {
	kind               Kind
	description        string
	allowedSize        func(size int) bool
	bitsPerChar        int // 0 for non-string kinds
	isSigned           bool
	returnType         ReturnType
	endiannessVariants bool
	bitLength          func(size int) (int, error)
	pack               func(value interface{}, size int, e Endianness) (bitseq.BitSeq, error)
	unpack             func(bits bitseq.BitSeq, size int, e Endianness) (interface{}, error)
	// bitsToChars estimates the printed width, in characters, of a value
	// bitLen bits long. Supplemented from original_source/bitformat/
	// _dtype_definitions.py's per-kind u_bits2chars/i_bits2chars/etc.
	// (SPEC_FULL.md §9.2). nil for kinds with no stable estimate (Pad).
	bitsToChars func(bitLen int) (int, error)
}

// Registry is a process-wide, append-only table of dtype definitions. Per
// SPEC_FULL.md §5, entries may be added (Register) but never removed once
// an instance is built with NewRegistry.
type Registry struct {
	defs map[Kind]*definition
}

// NewRegistry returns a Registry pre-populated with the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[Kind]*definition)}
	for _, d := range builtinDefinitions() {
		r.defs[d.kind] = d
	}
	return r
}

// Register adds or overwrites the definition for kind. Intended for use at
// initialization time only, not mid-flight, per SPEC_FULL.md §9 Design
// Notes ("expose registration at initialization time only").
func (r *Registry) Register(kind Kind, description string, allowedSize func(int) bool, bitsPerChar int, isSigned bool, rt ReturnType, endianVariants bool, bitLength func(int) (int, error), pack func(interface{}, int, Endianness) (bitseq.BitSeq, error), unpack func(bitseq.BitSeq, int, Endianness) (interface{}, error), bitsToChars func(int) (int, error)) {
	r.defs[kind] = &definition{
		kind:               kind,
		description:        description,
		allowedSize:        allowedSize,
		bitsPerChar:        bitsPerChar,
		isSigned:           isSigned,
		returnType:         rt,
		endiannessVariants: endianVariants,
		bitLength:          bitLength,
		pack:               pack,
		unpack:             unpack,
		bitsToChars:        bitsToChars,
	}
}

func (r *Registry) lookup(k Kind) (*definition, error) {
	d, ok := r.defs[k]
	if !ok {
		return nil, bferr.NewValue("dtype: unknown kind %v", k)
	}
	return d, nil
}

func atLeast(n int) func(int) bool {
	return func(size int) bool { return size >= n }
}

func exactly(values ...int) func(int) bool {
	return func(size int) bool {
		for _, v := range values {
			if size == v {
				return true
			}
		}
		return false
	}
}

func anyNonNegative(size int) bool { return size >= 0 }

func builtinDefinitions() []*definition {
	return []*definition{
		{
			kind: Uint, description: "a two's complement unsigned int", allowedSize: atLeast(1),
			isSigned: false, returnType: RTUint, endiannessVariants: true,
			bitLength: func(size int) (int, error) { return sizeOrStretchy(size) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				u, err := toUint64(v)
				if err != nil {
					return bitseq.BitSeq{}, err
				}
				return bitseq.PackUint(u, size, e)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return bitseq.UnpackUint(b, e)
			},
			bitsToChars: uintBitsToChars,
		},
		{
			kind: Int, description: "a two's complement signed int", allowedSize: atLeast(1),
			isSigned: true, returnType: RTInt, endiannessVariants: true,
			bitLength: func(size int) (int, error) { return sizeOrStretchy(size) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				i, err := toInt64(v)
				if err != nil {
					return bitseq.BitSeq{}, err
				}
				return bitseq.PackInt(i, size, e)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return bitseq.UnpackInt(b, e)
			},
			bitsToChars: intBitsToChars,
		},
		{
			kind: Float, description: "an IEEE floating point number", allowedSize: exactly(16, 32, 64),
			isSigned: true, returnType: RTFloat, endiannessVariants: true,
			bitLength: func(size int) (int, error) { return sizeOrStretchy(size) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				f, err := toFloat64(v)
				if err != nil {
					return bitseq.BitSeq{}, err
				}
				switch size {
				case 16:
					return bitseq.PackFloat16(f, e)
				case 32:
					return bitseq.PackFloat32(f, e)
				case 64:
					return bitseq.PackFloat64(f, e)
				default:
					return bitseq.BitSeq{}, bferr.NewValue("float: unsupported size %d", size)
				}
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				switch size {
				case 16:
					return bitseq.UnpackFloat16(b, e)
				case 32:
					return bitseq.UnpackFloat32(b, e)
				case 64:
					return bitseq.UnpackFloat64(b, e)
				default:
					return nil, bferr.NewValue("float: unsupported size %d", size)
				}
			},
			bitsToChars: floatBitsToChars,
		},
		{
			kind: Bool, description: "a single bit boolean", allowedSize: exactly(1),
			returnType: RTBool,
			bitLength:  func(int) (int, error) { return 1, nil },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				b, ok := v.(bool)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("bool: value %v is not a bool", v)
				}
				return bitseq.PackBool(b), nil
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return bitseq.UnpackBool(b)
			},
			bitsToChars: func(int) (int, error) { return 1, nil },
		},
		{
			kind: Bin, description: "a binary string", allowedSize: anyNonNegative, bitsPerChar: 1,
			returnType: RTString,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 1) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				s, ok := v.(string)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("bin: value %v is not a string", v)
				}
				return bitseq.FromBin(s)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return b.Bin(), nil
			},
			bitsToChars: charsPerBit(1),
		},
		{
			kind: Oct, description: "an octal string", allowedSize: anyNonNegative, bitsPerChar: 3,
			returnType: RTString,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 3) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				s, ok := v.(string)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("oct: value %v is not a string", v)
				}
				return bitseq.FromOct(s)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return b.Oct()
			},
			bitsToChars: charsPerBit(3),
		},
		{
			kind: Hex, description: "a hexadecimal string", allowedSize: anyNonNegative, bitsPerChar: 4,
			returnType: RTString,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 4) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				s, ok := v.(string)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("hex: value %v is not a string", v)
				}
				return bitseq.FromHex(s)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return b.Hex()
			},
			bitsToChars: charsPerBit(4),
		},
		{
			kind: Bytes, description: "a raw byte string", allowedSize: anyNonNegative, bitsPerChar: 8,
			returnType: RTBytes,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 8) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				b, ok := v.([]byte)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("bytes: value %v is not []byte", v)
				}
				return bitseq.FromBytes(b), nil
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return b.ToBytes(), nil
			},
			bitsToChars: charsPerBit(8),
		},
		{
			kind: Bits, description: "a raw bit sequence", allowedSize: anyNonNegative,
			returnType: RTBytes,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 1) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				b, ok := v.(bitseq.BitSeq)
				if !ok {
					return bitseq.BitSeq{}, bferr.NewValue("bits: value %v is not a BitSeq", v)
				}
				return b, nil
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return b, nil
			},
			bitsToChars: bitsBitsToChars,
		},
		{
			kind: Pad, description: "reserved padding", allowedSize: anyNonNegative,
			returnType: RTBytes,
			bitLength:  func(size int) (int, error) { return sizeOrStretchy(size, 1) },
			pack: func(v interface{}, size int, e Endianness) (bitseq.BitSeq, error) {
				return bitseq.FromZeros(size)
			},
			unpack: func(b bitseq.BitSeq, size int, e Endianness) (interface{}, error) {
				return nil, nil
			},
		},
	}
}

// sizeOrStretchy returns size*charBits (charBits defaults to 1, i.e. the
// size IS the bit length) or, for size==0, reports that the bit length is
// unresolved (stretchy) via the second return tweaked into an error by
// callers that cannot tolerate it; BitLength() on Single surfaces this as
// "not resolvable without parsing" per §3.3.
func sizeOrStretchy(size int, charBits ...int) (int, error) {
	mul := 1
	if len(charBits) > 0 {
		mul = charBits[0]
	}
	if size == 0 {
		return 0, bferr.NewValue("dtype: size is stretchy, bit_length not resolvable without parsing")
	}
	return size * mul, nil
}

// uintBitsToChars mirrors _dtype_definitions.py's u_bits2chars: the decimal
// width of the largest unsigned value representable in bitLen bits.
func uintBitsToChars(bitLen int) (int, error) {
	if bitLen <= 0 {
		return 0, bferr.NewValue("dtype: bits_to_chars needs a resolved bit length")
	}
	if bitLen >= 64 {
		return len(fmt.Sprintf("%d", uint64(1)<<63)) + 1, nil // overflow guard, approximate
	}
	max := (uint64(1) << uint(bitLen)) - 1
	return len(fmt.Sprintf("%d", max)), nil
}

// intBitsToChars mirrors i_bits2chars: the width of the most negative value
// (including its sign), the longest printed form a two's complement int of
// this length can take.
func intBitsToChars(bitLen int) (int, error) {
	if bitLen <= 0 {
		return 0, bferr.NewValue("dtype: bits_to_chars needs a resolved bit length")
	}
	if bitLen > 63 {
		bitLen = 63
	}
	min := -(int64(1) << uint(bitLen-1))
	return len(fmt.Sprintf("%d", min)), nil
}

// floatBitsToChars mirrors f_bits2chars's empirical constants.
func floatBitsToChars(bitLen int) (int, error) {
	if bitLen == 16 || bitLen == 32 {
		return 23, nil
	}
	return 24, nil
}

// bitsBitsToChars approximates bits_bits2chars (the original renders a
// zero-filled Bits of this length and measures its hex form, "0x" + nibbles).
func bitsBitsToChars(bitLen int) (int, error) {
	if bitLen <= 0 {
		return 0, bferr.NewValue("dtype: bits_to_chars needs a resolved bit length")
	}
	return 2 + (bitLen+3)/4, nil
}

// charsPerBit builds a bitsToChars func for the string-like kinds (bin, oct,
// hex, bytes) whose size field already counts characters, so bit length
// divides out cleanly.
func charsPerBit(bitsPerChar int) func(int) (int, error) {
	return func(bitLen int) (int, error) {
		if bitLen <= 0 {
			return 0, bferr.NewValue("dtype: bits_to_chars needs a resolved bit length")
		}
		return bitLen / bitsPerChar, nil
	}
}

func toUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, bferr.NewValue("uint: negative value %d", n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, bferr.NewValue("uint: negative value %d", n)
		}
		return uint64(n), nil
	default:
		return 0, bferr.NewValue("uint: unsupported value type %T", v)
	}
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, bferr.NewValue("int: unsupported value type %T", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, bferr.NewValue("float: unsupported value type %T", v)
	}
}

func (d *definition) validateSize(size int) error {
	if !d.allowedSize(size) {
		return bferr.NewValue("dtype %s: size %d is not allowed", d.kind, size)
	}
	return nil
}

func (d *definition) validateEndianness(size int, e Endianness) error {
	if e == Unspecified {
		return nil
	}
	if !d.endiannessVariants {
		return bferr.NewValue("dtype %s: endianness not permitted", d.kind)
	}
	if size%8 != 0 {
		return bferr.NewByteAlign("dtype %s: endianness requires a whole number of bytes, got %d bits", d.kind, size)
	}
	return nil
}
