package bitseq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromZerosFromOnes(t *testing.T) {
	z, err := FromZeros(10)
	require.NoError(t, err)
	assert.Equal(t, "0000000000", z.Bin())

	o, err := FromOnes(8)
	require.NoError(t, err)
	hex, err := o.Hex()
	require.NoError(t, err)
	assert.Equal(t, "ff", hex)
}

func TestFromBytesRoundTrip(t *testing.T) {
	b := []byte("hello")
	s := FromBytes(b)
	hex, err := s.Hex()
	require.NoError(t, err)
	assert.Equal(t, "68656c6c6f", hex)
	assert.Equal(t, 8*len(b), s.Len())

	sub, err := s.Slice(8, 40)
	require.NoError(t, err)
	assert.Equal(t, []byte("ello"), sub.ToBytes())
}

func TestJoinReverseAnd(t *testing.T) {
	z, _ := FromZeros(4)
	o, _ := FromOnes(4)
	joined := FromJoined([]BitSeq{z, o})
	assert.Equal(t, "00001111", joined.Bin())

	rev := NewMutBitSeq(joined).Reverse().ToBitSeq()
	assert.Equal(t, "11110000", rev.Bin())

	anded, err := And(z, o)
	require.NoError(t, err)
	assert.Equal(t, "0000", anded.Bin())
}

func TestFindByteAligned(t *testing.T) {
	s, err := FromBin("00000110001110")
	require.NoError(t, err)
	sub, err := FromBin("11")
	require.NoError(t, err)

	pos, err := Find(s, sub, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, pos)

	ba := true
	pos, err = Find(s, sub, &ba)
	require.NoError(t, err)
	assert.Equal(t, -1, pos)
}

func TestFromOct(t *testing.T) {
	s, err := FromOct("776")
	require.NoError(t, err)
	assert.Equal(t, "111111110", s.Bin())

	_, err = FromOct("abc")
	assert.Error(t, err)
}

func TestToBytesSlice(t *testing.T) {
	s, err := FromOnes(16)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff}, s.ToBytes())

	sub, err := s.Slice(7, 16)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x80}, sub.ToBytes())
}

func TestSliceIdentityAndEmpty(t *testing.T) {
	s, _ := FromBin("1010")
	whole, err := s.Slice(0, s.Len())
	require.NoError(t, err)
	assert.True(t, Equal(whole, s))

	empty, err := s.Slice(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	tail, err := s.Slice(-s.Len(), s.Len())
	require.NoError(t, err)
	assert.True(t, Equal(tail, s))
}

func TestConcatLength(t *testing.T) {
	a, _ := FromZeros(3)
	b, _ := FromOnes(5)
	c := Concat(a, b)
	assert.Equal(t, a.Len()+b.Len(), c.Len())
}

func TestReplaceNoninterference(t *testing.T) {
	s, _ := FromBin("1100110011")
	x, _ := FromBin("11")

	m := NewMutBitSeq(s)
	_, err := m.Replace(x, x, 0, nil, 0, nil)
	require.NoError(t, err)
	assert.True(t, Equal(m.ToBitSeq(), s))

	m2 := NewMutBitSeq(s)
	y, _ := FromBin("00")
	_, err = m2.Replace(x, y, 0, nil, 0, nil)
	require.NoError(t, err)
	assert.True(t, Equal(m2.ToBitSeq(), s))
}

func TestHashCompatibleWithEqual(t *testing.T) {
	x := FromBytes([]byte("same content"))
	y := FromBytes([]byte("same content"))
	assert.True(t, Equal(x, y))
	assert.Equal(t, x.Hash(), y.Hash())
}

func TestRoundTripUintIntFloat(t *testing.T) {
	bits, err := PackUint(200, 9, Unspecified)
	require.NoError(t, err)
	v, err := UnpackUint(bits, Unspecified)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), v)

	ibits, err := PackInt(-5, 8, Unspecified)
	require.NoError(t, err)
	iv, err := UnpackInt(ibits, Unspecified)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), iv)

	fbits, err := PackFloat32(6.5, Unspecified)
	require.NoError(t, err)
	fv, err := UnpackFloat32(fbits, Unspecified)
	require.NoError(t, err)
	if diff := cmp.Diff(6.5, fv); diff != "" {
		t.Fatalf("float round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPackUintRejectsOverflow(t *testing.T) {
	_, err := PackUint(256, 8, Unspecified)
	assert.Error(t, err)

	ok, err := PackUint(255, 8, Unspecified)
	require.NoError(t, err)
	assert.Equal(t, 8, ok.Len())
}

func TestPackIntRejectsOutOfRange(t *testing.T) {
	_, err := PackInt(128, 8, Unspecified)
	assert.Error(t, err)

	_, err = PackInt(-129, 8, Unspecified)
	assert.Error(t, err)

	ok, err := PackInt(127, 8, Unspecified)
	require.NoError(t, err)
	assert.Equal(t, 8, ok.Len())
}

func TestFromStringConcatenatesMixedTokens(t *testing.T) {
	s, err := FromString("0x47, uint8=3, bool=True")
	require.NoError(t, err)
	assert.Equal(t, 8+8+1, s.Len())

	header, err := s.Slice(0, 8)
	require.NoError(t, err)
	hex, err := header.Hex()
	require.NoError(t, err)
	assert.Equal(t, "47", hex)

	flag, err := s.Slice(16, 17)
	require.NoError(t, err)
	assert.True(t, Equal(flag, PackBool(true)))
}

func TestFromStringBareLiteralForms(t *testing.T) {
	s, err := FromString("0b1010, 0o17, 0xff")
	require.NoError(t, err)
	assert.Equal(t, 4+6+8, s.Len())
}

func TestFromStringRejectsUnknownToken(t *testing.T) {
	_, err := FromString("not_a_token")
	assert.Error(t, err)
}

func TestEndiannessDuality(t *testing.T) {
	be, err := PackUint(0x1234, 16, Big)
	require.NoError(t, err)
	le, err := PackUint(0x1234, 16, Little)
	require.NoError(t, err)
	beBytes := be.ToBytes()
	leBytes := le.ToBytes()
	assert.Equal(t, beBytes[0], leBytes[1])
	assert.Equal(t, beBytes[1], leBytes[0])
}
