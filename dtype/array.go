package dtype

import (
	"fmt"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// Array is a homogeneous, optionally stretchy sequence of one Single
// element dtype; Items < 0 means "stretchy / unresolved count".
type Array struct {
	Element *Single
	Items   int // -1 means None / stretchy
}

// NewArray validates and builds an Array dtype.
func NewArray(elem *Single, items int) (*Array, error) {
	if items < -1 {
		return nil, bferr.NewValue("array: invalid item count %d", items)
	}
	return &Array{Element: elem, Items: items}, nil
}

func (a *Array) Stretchy() bool { return a.Items < 0 || a.Element.Stretchy() }

func (a *Array) BitLength() (int, error) {
	if a.Items < 0 {
		return 0, bferr.NewValue("array: stretchy item count, bit_length not resolvable without parsing")
	}
	elemLen, err := a.Element.BitLength()
	if err != nil {
		return 0, err
	}
	return elemLen * a.Items, nil
}

// Pack expects a []interface{} of exactly a.Items values (or any length
// when stretchy).
func (a *Array) Pack(value interface{}) (bitseq.BitSeq, error) {
	values, ok := value.([]interface{})
	if !ok {
		return bitseq.BitSeq{}, bferr.NewValue("array: value must be a slice, got %T", value)
	}
	if a.Items >= 0 && len(values) != a.Items {
		return bitseq.BitSeq{}, bferr.NewValue("array: expected %d items, got %d", a.Items, len(values))
	}
	parts := make([]bitseq.BitSeq, len(values))
	for i, v := range values {
		bits, err := a.Element.Pack(v)
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts[i] = bits
	}
	return bitseq.FromJoined(parts), nil
}

// Unpack splits bits into a.Items (or, when stretchy, as many as fit)
// equal-sized chunks and decodes each with Element.
func (a *Array) Unpack(bits bitseq.BitSeq) (interface{}, error) {
	elemLen, err := a.Element.BitLength()
	if err != nil {
		return nil, err
	}
	items := a.Items
	if items < 0 {
		if elemLen == 0 {
			return nil, bferr.NewValue("array: cannot infer item count from a zero-length element")
		}
		if bits.Len()%elemLen != 0 {
			return nil, bferr.NewValue("array: %d bits is not a multiple of element size %d", bits.Len(), elemLen)
		}
		items = bits.Len() / elemLen
	}
	if bits.Len() != elemLen*items {
		return nil, bferr.NewValue("array: expected %d bits, got %d", elemLen*items, bits.Len())
	}
	out := make([]interface{}, items)
	for i := 0; i < items; i++ {
		chunk, err := bits.Slice(i*elemLen, (i+1)*elemLen)
		if err != nil {
			return nil, err
		}
		v, err := a.Element.Unpack(chunk)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// BitsToChars sums the element's estimated width over every item, since an
// array prints as a list of its elements.
func (a *Array) BitsToChars() (int, error) {
	if a.Items < 0 {
		return 0, bferr.NewValue("array: stretchy item count, bits_to_chars not resolvable without parsing")
	}
	elemChars, err := a.Element.BitsToChars()
	if err != nil {
		return 0, err
	}
	return elemChars * a.Items, nil
}

func (a *Array) String() string {
	if a.Items < 0 {
		return fmt.Sprintf("[%s;]", a.Element)
	}
	return fmt.Sprintf("[%s; %d]", a.Element, a.Items)
}
