package dtype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintRoundTrip(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSingle(reg, Uint, 12, Unspecified)
	require.NoError(t, err)

	bits, err := d.Pack(uint64(3000))
	require.NoError(t, err)
	v, err := d.Unpack(bits)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), v)
}

func TestIntRoundTripNegative(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSingle(reg, Int, 8, Unspecified)
	require.NoError(t, err)

	bits, err := d.Pack(int64(-100))
	require.NoError(t, err)
	v, err := d.Unpack(bits)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), v)
}

func TestFloatRoundTripNaN(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSingle(reg, Float, 64, Unspecified)
	require.NoError(t, err)

	bits, err := d.Pack(math.NaN())
	require.NoError(t, err)
	v, err := d.Unpack(bits)
	require.NoError(t, err)
	f, ok := v.(float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

func TestFloatOverflowSaturates(t *testing.T) {
	reg := NewRegistry()
	d, err := NewSingle(reg, Float, 32, Unspecified)
	require.NoError(t, err)

	bits, err := d.Pack(1e300)
	require.NoError(t, err)
	v, err := d.Unpack(bits)
	require.NoError(t, err)
	f := v.(float64)
	assert.True(t, math.IsInf(f, 1))
}

func TestDtypeFromStringSingle(t *testing.T) {
	reg := NewRegistry()
	d, err := ParseDtype(reg, "u8")
	require.NoError(t, err)
	assert.Equal(t, "u8", d.String())

	d2, err := ParseDtype(reg, "i_le16")
	require.NoError(t, err)
	assert.Equal(t, "i_le16", d2.String())

	n, err := d2.BitLength()
	require.NoError(t, err)
	assert.Equal(t, 16, n)
}

func TestDtypeFromStringArray(t *testing.T) {
	reg := NewRegistry()
	d, err := ParseDtype(reg, "[u8; 6]")
	require.NoError(t, err)
	arr, ok := d.(*Array)
	require.True(t, ok)
	assert.Equal(t, 6, arr.Items)

	bits, err := arr.Pack([]interface{}{uint64(5), uint64(4), uint64(3), uint64(2), uint64(1), uint64(0)})
	require.NoError(t, err)
	v, err := arr.Unpack(bits)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(5), uint64(4), uint64(3), uint64(2), uint64(1), uint64(0)}, v)
}

func TestDtypeFromStringTuple(t *testing.T) {
	reg := NewRegistry()
	d, err := ParseDtype(reg, "(u8, bool, f32)")
	require.NoError(t, err)
	tup, ok := d.(*Tuple)
	require.True(t, ok)
	assert.Len(t, tup.Elements, 3)
}

func TestEndiannessRejectedOnNonByteAligned(t *testing.T) {
	reg := NewRegistry()
	_, err := NewSingle(reg, Uint, 12, Little)
	assert.Error(t, err)
}

func TestBitsToChars(t *testing.T) {
	reg := NewRegistry()

	u8, err := NewSingle(reg, Uint, 8, Unspecified)
	require.NoError(t, err)
	chars, err := u8.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 3, chars) // "255"

	i8, err := NewSingle(reg, Int, 8, Unspecified)
	require.NoError(t, err)
	chars, err = i8.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 4, chars) // "-128"

	f32, err := NewSingle(reg, Float, 32, Unspecified)
	require.NoError(t, err)
	chars, err = f32.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 23, chars)

	hex2, err := NewSingle(reg, Hex, 2, Unspecified)
	require.NoError(t, err)
	chars, err = hex2.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 2, chars)

	pad, err := NewSingle(reg, Pad, 4, Unspecified)
	require.NoError(t, err)
	_, err = pad.BitsToChars()
	assert.Error(t, err)
}

func TestReturnType(t *testing.T) {
	reg := NewRegistry()
	u8, err := NewSingle(reg, Uint, 8, Unspecified)
	require.NoError(t, err)
	rt, err := u8.ReturnType()
	require.NoError(t, err)
	assert.Equal(t, RTUint, rt)

	boolDt, err := NewSingle(reg, Bool, 1, Unspecified)
	require.NoError(t, err)
	rt, err = boolDt.ReturnType()
	require.NoError(t, err)
	assert.Equal(t, RTBool, rt)
}

func TestArrayAndTupleBitsToChars(t *testing.T) {
	reg := NewRegistry()
	u8, err := NewSingle(reg, Uint, 8, Unspecified)
	require.NoError(t, err)

	arr, err := NewArray(u8, 3)
	require.NoError(t, err)
	chars, err := arr.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 9, chars) // 3 chars * 3 items

	boolDt, err := NewSingle(reg, Bool, 1, Unspecified)
	require.NoError(t, err)
	tup, err := NewTuple([]Dtype{u8, boolDt})
	require.NoError(t, err)
	chars, err = tup.BitsToChars()
	require.NoError(t, err)
	assert.Equal(t, 4, chars) // 3 + 1
}
