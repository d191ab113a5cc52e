package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/dtype"
	"github.com/scgriffiths/bitformat-go/expr"
)

func mustSingle(t *testing.T, reg *dtype.Registry, kind dtype.Kind, size int, endian dtype.Endianness) *dtype.Single {
	t.Helper()
	d, err := dtype.NewSingle(reg, kind, size, endian)
	require.NoError(t, err)
	return d
}

// buildS7 builds the schema scenario S7 programmatically:
// (header: hex2 = 0x47, flag: bool, if {flag}: data: [u8; 6] else: data: bool, f32)
func buildS7(t *testing.T) (*Format, *expr.Expression) {
	t.Helper()
	reg := dtype.NewRegistry()

	hexDt := mustSingle(t, reg, dtype.Hex, 2, dtype.Unspecified)
	header, err := NewField(hexDt, "header", true, "47")
	require.NoError(t, err)

	boolDt := mustSingle(t, reg, dtype.Bool, 1, dtype.Unspecified)
	flag, err := NewField(boolDt, "flag", false, nil)
	require.NoError(t, err)

	arrElem := mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified)
	arrDt, err := dtype.NewArray(arrElem, 6)
	require.NoError(t, err)
	thenField, err := NewField(arrDt, "data", false, nil)
	require.NoError(t, err)

	elseField, err := NewField(boolDt, "data", false, nil)
	require.NoError(t, err)

	cond, err := expr.Compile("{flag}")
	require.NoError(t, err)
	ifNode, err := NewIf("", cond, thenField, elseField)
	require.NoError(t, err)

	floatDt := mustSingle(t, reg, dtype.Float, 32, dtype.Unspecified)
	floatField, err := NewField(floatDt, "", false, nil)
	require.NoError(t, err)

	format, err := NewFormat("", []FieldType{header, flag, ifNode, floatField})
	require.NoError(t, err)
	return format, cond
}

func TestScenarioS7ParseTrueBranch(t *testing.T) {
	format, _ := buildS7(t)
	reg := dtype.NewRegistry()

	headerBits, err := mustSingle(t, reg, dtype.Hex, 2, dtype.Unspecified).Pack("47")
	require.NoError(t, err)
	flagBits, err := mustSingle(t, reg, dtype.Bool, 1, dtype.Unspecified).Pack(true)
	require.NoError(t, err)
	arrDt, _ := dtype.NewArray(mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified), 6)
	dataBits, err := arrDt.Pack([]interface{}{uint64(5), uint64(4), uint64(3), uint64(2), uint64(1), uint64(0)})
	require.NoError(t, err)
	floatBits, err := mustSingle(t, reg, dtype.Float, 32, dtype.Unspecified).Pack(6.5)
	require.NoError(t, err)

	all := bitseq.FromJoined([]bitseq.BitSeq{headerBits, flagBits, dataBits, floatBits})

	env := Env{}
	consumed, err := format.Parse(all, env)
	require.NoError(t, err)
	assert.Equal(t, all.Len(), consumed)

	flagVal, ok := format.Get("flag")
	require.True(t, ok)
	assert.Equal(t, true, flagVal)
	values, err := format.Unpack()
	require.NoError(t, err)
	vs := values.([]interface{})
	assert.Equal(t, "47", vs[0])
	assert.Equal(t, true, vs[1])
	assert.Equal(t, []interface{}{uint64(5), uint64(4), uint64(3), uint64(2), uint64(1), uint64(0)}, vs[2])
	assert.Equal(t, 6.5, vs[3])
}

func TestConstFieldMismatchRaises(t *testing.T) {
	reg := dtype.NewRegistry()
	hexDt := mustSingle(t, reg, dtype.Hex, 2, dtype.Unspecified)
	header, err := NewField(hexDt, "header", true, "47")
	require.NoError(t, err)

	wrongBits, err := hexDt.Pack("48")
	require.NoError(t, err)

	_, err = header.Parse(wrongBits, Env{})
	assert.Error(t, err)
}

func TestPassIsIdentityInFormat(t *testing.T) {
	reg := dtype.NewRegistry()
	u8 := mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified)
	f, err := NewField(u8, "x", false, nil)
	require.NoError(t, err)

	withPass, err := NewFormat("", []FieldType{Pass(), f})
	require.NoError(t, err)
	withoutPass, err := NewFormat("", []FieldType{f.Clone()})
	require.NoError(t, err)

	bits, err := u8.Pack(uint64(200))
	require.NoError(t, err)

	n1, err := withPass.Parse(bits, Env{})
	require.NoError(t, err)
	n2, err := withoutPass.Parse(bits, Env{})
	require.NoError(t, err)
	assert.Equal(t, n2, n1)

	v1, _ := withPass.Unpack()
	v2, _ := withoutPass.Unpack()
	assert.Equal(t, v2.([]interface{})[0], v1.([]interface{})[1])
}

func TestParseThenPackRoundTrip(t *testing.T) {
	reg := dtype.NewRegistry()
	u16 := mustSingle(t, reg, dtype.Uint, 16, dtype.Unspecified)
	f, err := NewField(u16, "x", false, nil)
	require.NoError(t, err)

	bits, err := u16.Pack(uint64(4242))
	require.NoError(t, err)

	n, err := f.Parse(bits, Env{})
	require.NoError(t, err)
	assert.Equal(t, bits.Len(), n)

	repacked, err := f.ToBits()
	require.NoError(t, err)
	assert.True(t, bitseq.Equal(bits, repacked))
}

func TestRepeatFixedCount(t *testing.T) {
	reg := dtype.NewRegistry()
	u8 := mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified)
	body, err := NewField(u8, "", false, nil)
	require.NoError(t, err)

	rep, err := NewRepeat("items", expr.FromInt(3), body)
	require.NoError(t, err)

	cur := NewCursor(uint64(1), uint64(2), uint64(3))
	bits, err := rep.Pack(cur, Env{})
	require.NoError(t, err)
	assert.Equal(t, 24, bits.Len())

	env := Env{}
	consumed, err := rep.Parse(bits, env)
	require.NoError(t, err)
	assert.Equal(t, 24, consumed)

	v, err := rep.Unpack()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(1), uint64(2), uint64(3)}, v)
	assert.Equal(t, []interface{}{uint64(1), uint64(2), uint64(3)}, env["items"])
}

func TestWhileStopsOnCondition(t *testing.T) {
	reg := dtype.NewRegistry()
	u8 := mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified)

	notZero, err := expr.Compile("{x != 0}")
	require.NoError(t, err)
	body, err := NewField(u8, "x", false, nil)
	require.NoError(t, err)

	w, err := NewWhile("", notZero, body)
	require.NoError(t, err)

	b1, _ := u8.Pack(uint64(5))
	b2, _ := u8.Pack(uint64(9))
	b3, _ := u8.Pack(uint64(0))
	bits := bitseq.FromJoined([]bitseq.BitSeq{b1, b2, b3})

	env := Env{"x": int64(1)} // seed so the first condition check passes
	consumed, err := w.Parse(bits, env)
	require.NoError(t, err)
	assert.Equal(t, 24, consumed) // stops after consuming the terminating zero

	v, err := w.Unpack()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(5), uint64(9), uint64(0)}, v)
}

func TestLetBindsWithoutConsumingBits(t *testing.T) {
	e, err := expr.Compile("{2 + 2}")
	require.NoError(t, err)
	l, err := NewLet("four", e)
	require.NoError(t, err)

	env := Env{}
	n, err := l.Parse(bitseq.BitSeq{}, env)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(4), env["four"])
}

func TestStretchyFieldMustBeLast(t *testing.T) {
	reg := dtype.NewRegistry()
	stretchy := mustSingle(t, reg, dtype.Bits, 0, dtype.Unspecified)
	stretchyField, err := NewField(stretchy, "s", false, nil)
	require.NoError(t, err)
	u8 := mustSingle(t, reg, dtype.Uint, 8, dtype.Unspecified)
	after, err := NewField(u8, "a", false, nil)
	require.NoError(t, err)

	_, err = NewFormat("", []FieldType{stretchyField, after})
	assert.Error(t, err)

	_, err = NewFormat("", []FieldType{after, stretchyField})
	assert.NoError(t, err)
}

func TestFormatStringRoundTripShape(t *testing.T) {
	format, _ := buildS7(t)
	s := format.String()
	assert.Contains(t, s, "header: const hex2 = 47")
	assert.Contains(t, s, "if {flag}:")
}

func TestFormatRepr(t *testing.T) {
	format, _ := buildS7(t)
	r := format.Repr()
	assert.Contains(t, r, "Format{Name:")
	assert.Contains(t, r, `Field{Name: "header"`)
}
