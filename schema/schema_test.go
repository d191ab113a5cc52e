package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/dtype"
	"github.com/scgriffiths/bitformat-go/fieldtype"
)

func TestParseField(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "flag: bool")
	require.NoError(t, err)
	f, ok := ft.(*fieldtype.Field)
	require.True(t, ok)
	assert.Equal(t, "flag", f.Name())
	assert.False(t, f.IsConst())
}

func TestParseConstFieldWithHexLiteral(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "header: const hex2 = 0x47")
	require.NoError(t, err)
	f := ft.(*fieldtype.Field)
	assert.True(t, f.IsConst())
	v, err := f.Unpack()
	require.NoError(t, err)
	assert.Equal(t, "47", v)
}

func TestParseUnnamedField(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "u8")
	require.NoError(t, err)
	assert.Equal(t, "", ft.Name())
}

func TestParseArrayField(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "data: [u8; 6]")
	require.NoError(t, err)
	assert.Equal(t, "data", ft.Name())
}

func TestParseTupleField(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "pair: (u8, bool)")
	require.NoError(t, err)
	assert.Equal(t, "pair", ft.Name())
}

func TestParseFormat(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "(header: hex2 = 0x47, flag: bool,)")
	require.NoError(t, err)
	fm, ok := ft.(*fieldtype.Format)
	require.True(t, ok)
	assert.Equal(t, 2, fm.NumChildren())
}

func TestParseFormatRequiresTrailingComma(t *testing.T) {
	reg := dtype.NewRegistry()
	_, err := Parse(reg, "(header: hex2 = 0x47, flag: bool)")
	assert.Error(t, err)
}

func TestParseNamedFormat(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "packet = (flag: bool,)")
	require.NoError(t, err)
	assert.Equal(t, "packet", ft.Name())
}

func TestParseIfElse(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "if {flag}: data: [u8; 6] else: data: bool")
	require.NoError(t, err)
	_, ok := ft.(*fieldtype.If)
	require.True(t, ok)
}

func TestParseIfWithoutElse(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "if {flag}: data: u8")
	require.NoError(t, err)
	_, ok := ft.(*fieldtype.If)
	require.True(t, ok)
}

func TestParseRepeatWithBraceCount(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "items = repeat {3}: u8")
	require.NoError(t, err)
	r, ok := ft.(*fieldtype.Repeat)
	require.True(t, ok)
	assert.Equal(t, "items", r.Name())
}

func TestParseRepeatWithBareIntCount(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "repeat 3: u8")
	require.NoError(t, err)
	_, ok := ft.(*fieldtype.Repeat)
	require.True(t, ok)
}

func TestParseWhile(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "while {x != 0}: x: u8")
	require.NoError(t, err)
	_, ok := ft.(*fieldtype.While)
	require.True(t, ok)
}

func TestParseLet(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "let four = {2 + 2}")
	require.NoError(t, err)
	_, ok := ft.(*fieldtype.Let)
	require.True(t, ok)
}

func TestParsePass(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "pass")
	require.NoError(t, err)
	assert.Same(t, fieldtype.Pass(), ft)
}

func TestParseNestedFormat(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "(header: hex2 = 0x47, inner = (a: u8, b: u8,),)")
	require.NoError(t, err)
	fm := ft.(*fieldtype.Format)
	assert.Equal(t, 2, fm.NumChildren())
	inner, ok := fm.Child(1).(*fieldtype.Format)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name())
	assert.Equal(t, 2, inner.NumChildren())
}

// TestScenarioS7TextualForm builds scenario S7 from its textual form and
// parses a matching bit sequence end to end.
func TestScenarioS7TextualForm(t *testing.T) {
	reg := dtype.NewRegistry()
	ft, err := Parse(reg, "(header: const hex2 = 0x47, flag: bool, if {flag}: data: [u8; 6] else: data: bool, f32,)")
	require.NoError(t, err)
	fm := ft.(*fieldtype.Format)

	headerDt, _ := dtype.NewSingle(reg, dtype.Hex, 2, dtype.Unspecified)
	headerBits, err := headerDt.Pack("47")
	require.NoError(t, err)
	flagDt, _ := dtype.NewSingle(reg, dtype.Bool, 1, dtype.Unspecified)
	flagBits, err := flagDt.Pack(true)
	require.NoError(t, err)
	elemDt, _ := dtype.NewSingle(reg, dtype.Uint, 8, dtype.Unspecified)
	arrDt, _ := dtype.NewArray(elemDt, 6)
	dataBits, err := arrDt.Pack([]interface{}{uint64(1), uint64(2), uint64(3), uint64(4), uint64(5), uint64(6)})
	require.NoError(t, err)
	floatDt, _ := dtype.NewSingle(reg, dtype.Float, 32, dtype.Unspecified)
	floatBits, err := floatDt.Pack(1.5)
	require.NoError(t, err)

	all := bitseq.FromJoined([]bitseq.BitSeq{headerBits, flagBits, dataBits, floatBits})

	env := fieldtype.Env{}
	consumed, err := fm.Parse(all, env)
	require.NoError(t, err)
	assert.Equal(t, all.Len(), consumed)

	values, err := fm.Unpack()
	require.NoError(t, err)
	vs := values.([]interface{})
	assert.Equal(t, "47", vs[0])
	assert.Equal(t, true, vs[1])
	assert.Equal(t, []interface{}{uint64(1), uint64(2), uint64(3), uint64(4), uint64(5), uint64(6)}, vs[2])
	assert.Equal(t, 1.5, vs[3])
}

// TestSchemaTextRoundTrip exercises the universal property that
// Parse(reg, ft.String()) reconstructs a tree shaped the same as ft (§8.1.9).
func TestSchemaTextRoundTrip(t *testing.T) {
	reg := dtype.NewRegistry()
	u8, err := dtype.NewSingle(reg, dtype.Uint, 8, dtype.Unspecified)
	require.NoError(t, err)
	f32, err := dtype.NewSingle(reg, dtype.Float, 32, dtype.Unspecified)
	require.NoError(t, err)
	boolDt, err := dtype.NewSingle(reg, dtype.Bool, 1, dtype.Unspecified)
	require.NoError(t, err)

	a, err := fieldtype.NewField(u8, "a", false, nil)
	require.NoError(t, err)
	b, err := fieldtype.NewField(f32, "b", false, nil)
	require.NoError(t, err)
	c, err := fieldtype.NewField(boolDt, "flag", true, true)
	require.NoError(t, err)
	format, err := fieldtype.NewFormat("msg", []fieldtype.FieldType{a, b, c})
	require.NoError(t, err)

	text := format.String()
	reparsed, err := Parse(reg, text)
	require.NoError(t, err)
	assert.Equal(t, text, reparsed.String())
}

func TestFormatAndFormatDtypeWrapUnderlyingString(t *testing.T) {
	reg := dtype.NewRegistry()
	u16, err := dtype.NewSingle(reg, dtype.Uint, 16, dtype.Unspecified)
	require.NoError(t, err)
	field, err := fieldtype.NewField(u16, "n", false, nil)
	require.NoError(t, err)

	assert.Equal(t, field.String(), Format(field))
	assert.Equal(t, u16.String(), FormatDtype(u16))
}

func TestSchemaParseDtypeDelegatesToDtypePackage(t *testing.T) {
	reg := dtype.NewRegistry()
	d, err := ParseDtype(reg, "u8")
	require.NoError(t, err)
	assert.Equal(t, "u8", d.String())
}
