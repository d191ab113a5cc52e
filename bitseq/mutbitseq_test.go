package bitseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutBitSeqAppendPrependChain(t *testing.T) {
	base, _ := FromBin("1010")
	m := NewMutBitSeq(base)
	extra, _ := FromBin("1111")
	m.Append(extra).Prepend(extra)
	assert.Equal(t, "1111"+"1010"+"1111", m.ToBitSeq().Bin())
}

func TestMutBitSeqCopyOnWrite(t *testing.T) {
	shared, _ := FromBin("00001111")
	view, err := shared.Slice(0, 8)
	require.NoError(t, err)

	m := NewMutBitSeq(view)
	_, err = m.Overwrite(0, func() BitSeq { b, _ := FromBin("1111"); return b }())
	require.NoError(t, err)

	assert.Equal(t, "00001111", shared.Bin(), "mutation must not alias the shared immutable buffer")
	assert.Equal(t, "11111111", m.ToBitSeq().Bin())
}

func TestMutBitSeqOverwriteBounds(t *testing.T) {
	base, _ := FromZeros(4)
	m := NewMutBitSeq(base)
	ones, _ := FromOnes(8)
	_, err := m.Overwrite(0, ones)
	assert.Error(t, err)
}

func TestMutBitSeqRorRol(t *testing.T) {
	base, _ := FromBin("11000000")
	m := NewMutBitSeq(base)
	_, err := m.Ror(2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "00110000", m.ToBitSeq().Bin())

	m2 := NewMutBitSeq(base)
	_, err = m2.Rol(2, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "00000011", m2.ToBitSeq().Bin())
}

func TestMutBitSeqByteSwap(t *testing.T) {
	base := FromBytes([]byte{0x01, 0x02, 0x03, 0x04})
	m := NewMutBitSeq(base)
	_, err := m.ByteSwap(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, m.ToBitSeq().ToBytes())
}

func TestMutBitSeqSetInvert(t *testing.T) {
	base, _ := FromZeros(8)
	m := NewMutBitSeq(base)
	_, err := m.Set(true, []int{0, 2, 4})
	require.NoError(t, err)
	assert.Equal(t, "10101000", m.ToBitSeq().Bin())

	_, err = m.InvertPositions([]int{0})
	require.NoError(t, err)
	assert.Equal(t, "00101000", m.ToBitSeq().Bin())
}

func TestMutBitSeqLogicalInPlaceMismatch(t *testing.T) {
	a, _ := FromZeros(4)
	b, _ := FromZeros(8)
	m := NewMutBitSeq(a)
	_, err := m.AndInPlace(b)
	assert.Error(t, err)
}

func TestMutBitSeqInsert(t *testing.T) {
	base, _ := FromBin("1111")
	m := NewMutBitSeq(base)
	mid, _ := FromBin("00")
	_, err := m.Insert(2, mid)
	require.NoError(t, err)
	assert.Equal(t, "11" + "00" + "11", m.ToBitSeq().Bin())
}
