package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scgriffiths/bitformat-go/bitseq"
	"github.com/scgriffiths/bitformat-go/dtype"
	"github.com/scgriffiths/bitformat-go/fieldtype"
)

func TestReadAdvancesPosition(t *testing.T) {
	reg := dtype.NewRegistry()
	u8, err := dtype.NewSingle(reg, dtype.Uint, 8, dtype.Unspecified)
	require.NoError(t, err)
	bits, err := u8.Pack(uint64(0xAB))
	require.NoError(t, err)

	r := New(bits)
	assert.Equal(t, 8, r.Len())
	assert.Equal(t, 8, r.Remaining())

	chunk, err := r.Read(4)
	require.NoError(t, err)
	assert.Equal(t, 4, chunk.Len())
	assert.Equal(t, 4, r.Pos())
	assert.Equal(t, 4, r.Remaining())
}

func TestPeekDoesNotAdvance(t *testing.T) {
	reg := dtype.NewRegistry()
	u16, err := dtype.NewSingle(reg, dtype.Uint, 16, dtype.Unspecified)
	require.NoError(t, err)
	bits, err := u16.Pack(uint64(4242))
	require.NoError(t, err)

	r := New(bits)
	peeked, err := r.Peek(16)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Pos())

	read, err := r.Read(16)
	require.NoError(t, err)
	assert.True(t, bitseq.Equal(peeked, read))
}

func TestReadPastEndErrors(t *testing.T) {
	bits, err := bitseq.FromBin("101")
	require.NoError(t, err)
	r := New(bits)
	_, err = r.Read(4)
	assert.Error(t, err)
}

func TestReadDtypeAndPeekDtype(t *testing.T) {
	reg := dtype.NewRegistry()
	f32, err := dtype.NewSingle(reg, dtype.Float, 32, dtype.Unspecified)
	require.NoError(t, err)
	bits, err := f32.Pack(6.5)
	require.NoError(t, err)

	r := New(bits)
	peeked, err := r.PeekDtype(f32)
	require.NoError(t, err)
	assert.Equal(t, 6.5, peeked)
	assert.Equal(t, 0, r.Pos())

	v, err := r.ReadDtype(f32)
	require.NoError(t, err)
	assert.Equal(t, 6.5, v)
	assert.Equal(t, 32, r.Pos())
}

func TestParseAdvancesPastConsumedBits(t *testing.T) {
	reg := dtype.NewRegistry()
	u8, err := dtype.NewSingle(reg, dtype.Uint, 8, dtype.Unspecified)
	require.NoError(t, err)
	u16, err := dtype.NewSingle(reg, dtype.Uint, 16, dtype.Unspecified)
	require.NoError(t, err)

	first, err := fieldtype.NewField(u8, "a", false, nil)
	require.NoError(t, err)
	second, err := fieldtype.NewField(u16, "b", false, nil)
	require.NoError(t, err)

	aBits, err := u8.Pack(uint64(7))
	require.NoError(t, err)
	bBits, err := u16.Pack(uint64(1000))
	require.NoError(t, err)
	all := bitseq.FromJoined([]bitseq.BitSeq{aBits, bBits})

	r := New(all)
	env := fieldtype.Env{}
	require.NoError(t, r.Parse(first, env))
	assert.Equal(t, 8, r.Pos())
	require.NoError(t, r.Parse(second, env))
	assert.Equal(t, 24, r.Pos())
	assert.Equal(t, 0, r.Remaining())

	v1, err := first.Unpack()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v1)
	v2, err := second.Unpack()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v2)
}
