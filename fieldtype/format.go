package fieldtype

import (
	"fmt"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/bitseq"
)

// Format is a named, ordered group of children (§4.4.2). At most one
// child may be stretchy, and if so it must be last (§3.3's invariant) —
// enforced once, at construction, the same place Tuple enforces it for
// dtypes.
type Format struct {
	name     string
	children []FieldType
	byName   map[string]int
}

// NewFormat builds and validates a Format.
func NewFormat(name string, children []FieldType) (*Format, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	cut := len(children) - 1
	if cut < 0 {
		cut = 0
	}
	for i, c := range children[:cut] {
		if isStretchyChild(c) {
			return nil, bferr.NewValue("format %q: child %d is stretchy but not last", name, i)
		}
	}
	byName := make(map[string]int)
	for i, c := range children {
		if c.Name() != "" {
			byName[c.Name()] = i
		}
	}
	return &Format{name: name, children: children, byName: byName}, nil
}

func (fm *Format) Name() string { return fm.name }

// Get looks up a child's current value by name, per §4.4.2's named lookup.
func (fm *Format) Get(name string) (interface{}, bool) {
	i, ok := fm.byName[name]
	if !ok {
		return nil, false
	}
	v, err := fm.children[i].Unpack()
	if err != nil {
		return nil, false
	}
	return v, true
}

// Child returns the i'th child, for callers that want direct tree access.
func (fm *Format) Child(i int) FieldType { return fm.children[i] }

// NumChildren returns the number of children.
func (fm *Format) NumChildren() int { return len(fm.children) }

func (fm *Format) Parse(bits bitseq.BitSeq, env Env) (int, error) {
	local := env.clone()
	pos := 0
	for _, c := range fm.children {
		remaining, err := bits.Slice(pos, bits.Len())
		if err != nil {
			return 0, err
		}
		n, err := c.Parse(remaining, local)
		if err != nil {
			return 0, err
		}
		pos += n
	}
	return pos, nil
}

func (fm *Format) Pack(cur *Cursor, env Env) (bitseq.BitSeq, error) {
	local := env.clone()
	parts := make([]bitseq.BitSeq, 0, len(fm.children))
	for _, c := range fm.children {
		bits, err := c.Pack(cur, local)
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts = append(parts, bits)
	}
	return bitseq.FromJoined(parts), nil
}

func (fm *Format) Unpack() (interface{}, error) {
	out := make([]interface{}, len(fm.children))
	for i, c := range fm.children {
		v, err := c.Unpack()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (fm *Format) ToBits() (bitseq.BitSeq, error) {
	parts := make([]bitseq.BitSeq, len(fm.children))
	for i, c := range fm.children {
		bits, err := c.ToBits()
		if err != nil {
			return bitseq.BitSeq{}, err
		}
		parts[i] = bits
	}
	return bitseq.FromJoined(parts), nil
}

func (fm *Format) Clear() {
	for _, c := range fm.children {
		c.Clear()
	}
}

func (fm *Format) BitLength() (int, error) {
	total := 0
	for _, c := range fm.children {
		n, err := c.BitLength()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (fm *Format) HasDynamicSize() bool {
	for _, c := range fm.children {
		if c.HasDynamicSize() {
			return true
		}
	}
	return false
}

func (fm *Format) IsConst() bool {
	for _, c := range fm.children {
		if !c.IsConst() {
			return false
		}
	}
	return true
}

func (fm *Format) Clone() FieldType {
	children := make([]FieldType, len(fm.children))
	byName := make(map[string]int, len(fm.byName))
	for i, c := range fm.children {
		children[i] = c.Clone()
		if c.Name() != "" {
			byName[c.Name()] = i
		}
	}
	return &Format{name: fm.name, children: children, byName: byName}
}

func (fm *Format) Repr() string {
	parts := make([]string, len(fm.children))
	for i, c := range fm.children {
		parts[i] = c.Repr()
	}
	return fmt.Sprintf("Format{Name: %q, Children: [%s]}", fm.name, strings.Join(parts, ", "))
}

func (fm *Format) String() string {
	parts := make([]string, len(fm.children))
	for i, c := range fm.children {
		parts[i] = c.String()
	}
	body := strings.Join(parts, ", ")
	if body != "" {
		body += ","
	}
	if fm.name != "" {
		return fm.name + " = (" + body + ")"
	}
	return "(" + body + ")"
}
