package dtype

import (
	"fmt"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// Tuple is an ordered, heterogeneous sequence of Dtype elements.
type Tuple struct {
	Elements []Dtype
}

// NewTuple builds a Tuple; only its last element may be stretchy, mirroring
// the Format stretchy-child rule of §3.3 (a stretchy member could not be
// positioned if anything followed it).
func NewTuple(elements []Dtype) (*Tuple, error) {
	cut := len(elements) - 1
	if cut < 0 {
		cut = 0
	}
	for i, e := range elements[:cut] {
		if e.Stretchy() {
			return nil, bferr.NewValue("tuple: element %d is stretchy but not last", i)
		}
	}
	return &Tuple{Elements: elements}, nil
}

func (t *Tuple) Stretchy() bool {
	if len(t.Elements) == 0 {
		return false
	}
	return t.Elements[len(t.Elements)-1].Stretchy()
}

func (t *Tuple) BitLength() (int, error) {
	total := 0
	for _, e := range t.Elements {
		n, err := e.BitLength()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (t *Tuple) Pack(value interface{}) (bitseq.BitSeq, error) {
	values, ok := value.([]interface{})
	if !ok || len(values) != len(t.Elements) {
		return bitseq.BitSeq{}, bferr.NewValue("tuple: expected %d values", len(t.Elements))
	}
	parts := make([]bitseq.BitSeq, len(t.Elements))
	for i, e := range t.Elements {
		bits, err := e.Pack(values[i])
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts[i] = bits
	}
	return bitseq.FromJoined(parts), nil
}

func (t *Tuple) Unpack(bits bitseq.BitSeq) (interface{}, error) {
	out := make([]interface{}, len(t.Elements))
	pos := 0
	for i, e := range t.Elements {
		var n int
		if e.Stretchy() {
			n = bits.Len() - pos
		} else {
			var err error
			n, err = e.BitLength()
			if err != nil {
				return nil, err
			}
		}
		if pos+n > bits.Len() {
			return nil, bferr.NewValue("tuple: insufficient bits for element %d", i)
		}
		chunk, err := bits.Slice(pos, pos+n)
		if err != nil {
			return nil, err
		}
		v, err := e.Unpack(chunk)
		if err != nil {
			return nil, err
		}
		out[i] = v
		pos += n
	}
	if pos != bits.Len() {
		return nil, bferr.NewValue("tuple: %d leftover bits after unpacking", bits.Len()-pos)
	}
	return out, nil
}

// BitsToChars sums each element's estimated printed width.
func (t *Tuple) BitsToChars() (int, error) {
	total := 0
	for _, e := range t.Elements {
		n, err := e.BitsToChars()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
