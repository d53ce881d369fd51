package bitstring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitString_FromBytes(t *testing.T) {
	tests := []struct {
		description  string // Test case description
		input        []byte // Input bytes
		endian       Endian // Byte mapping order
		expectedLen  uint   // expected result from Len()
		expectedBits string // expected result from String()
	}{
		{
			description:  "empty input, big endian",
			input:        []byte{},
			endian:       BigEndian,
			expectedLen:  0,
			expectedBits: "",
		},
		{
			description:  "single byte, big endian",
			input:        []byte{0xa5},
			endian:       BigEndian,
			expectedLen:  8,
			expectedBits: "10100101",
		},
		{
			description:  "single byte, little endian",
			input:        []byte{0xa5},
			endian:       LittleEndian,
			expectedLen:  8,
			expectedBits: "10100101",
		},
		{
			description:  "asymmetric byte, big endian",
			input:        []byte{0x80},
			endian:       BigEndian,
			expectedLen:  8,
			expectedBits: "10000000",
		},
		{
			description:  "asymmetric byte, little endian",
			input:        []byte{0x80},
			endian:       LittleEndian,
			expectedLen:  8,
			expectedBits: "00000001",
		},
		{
			description:  "two bytes, big endian",
			input:        []byte{0x12, 0x34},
			endian:       BigEndian,
			expectedLen:  16,
			expectedBits: "0001001000110100",
		},
	}

	require := require.New(t)

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		b := FromBytes(test.input, test.endian)
		require.Equal(test.expectedLen, b.Len())
		require.Equal(test.expectedBits, b.String())
		require.Equal(test.endian, b.Endian())

		// conversion back to bytes must reproduce the input
		if len(test.input) == 0 {
			require.Empty(b.Bytes())
		} else {
			require.Equal(test.input, b.Bytes())
		}
	}
}

func TestBitString_RaggedBytes(t *testing.T) {
	require := require.New(t)

	b, err := Parse("101", BigEndian)
	require.NoError(err)
	require.Equal([]byte{0xa0}, b.Bytes())

	b, err = Parse("101", LittleEndian)
	require.NoError(err)
	require.Equal([]byte{0x05}, b.Bytes())
}

func TestBitString_Uint(t *testing.T) {
	tests := []struct {
		description string
		value       uint64
		nbits       uint
		endian      Endian
		expected    string
	}{
		{
			description: "5 in 8 big endian bits",
			value:       5,
			nbits:       8,
			endian:      BigEndian,
			expected:    "00000101",
		},
		{
			description: "5 in 8 little endian bits",
			value:       5,
			nbits:       8,
			endian:      LittleEndian,
			expected:    "10100000",
		},
		{
			description: "max value in 4 bits",
			value:       15,
			nbits:       4,
			endian:      BigEndian,
			expected:    "1111",
		},
		{
			description: "zero in 1 bit",
			value:       0,
			nbits:       1,
			endian:      BigEndian,
			expected:    "0",
		},
	}

	require := require.New(t)

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		b, err := FromUint(test.value, test.nbits, test.endian)
		require.NoError(err)
		require.Equal(test.expected, b.String())

		v, err := b.Uint()
		require.NoError(err)
		require.Equal(test.value, v)
	}
}

func TestBitString_UintErrors(t *testing.T) {
	require := require.New(t)

	_, err := FromUint(1, 0, BigEndian)
	require.ErrorIs(err, ErrBitWidth)

	_, err = FromUint(1, 65, BigEndian)
	require.ErrorIs(err, ErrBitWidth)

	_, err = FromUint(16, 4, BigEndian)
	require.ErrorIs(err, ErrValueTooLarge)

	_, err = New(0, BigEndian).Uint()
	require.ErrorIs(err, ErrBitWidth)
}

func TestBitString_SetOperations(t *testing.T) {
	require := require.New(t)

	b := New(8, BigEndian)
	require.Equal("00000000", b.String())
	require.Equal(uint(0), b.OnesCount())

	b.SetAll()
	require.Equal("11111111", b.String())
	require.Equal(uint(8), b.OnesCount())

	b.ClearAll()
	require.Equal("00000000", b.String())

	b.SetRange(2, 5)
	require.Equal("00111000", b.String())
	require.Equal(uint(3), b.OnesCount())

	b.ClearAll().SetBit(0, true).SetBit(7, true)
	require.Equal("10000001", b.String())
	require.True(b.Bit(0))
	require.False(b.Bit(1))
	require.True(b.Bit(7))

	// an empty range is a no-op
	b.SetRange(4, 4)
	require.Equal("10000001", b.String())
}

func TestBitString_Equal(t *testing.T) {
	require := require.New(t)

	a, err := Parse("0101", BigEndian)
	require.NoError(err)
	b, err := Parse("0101", BigEndian)
	require.NoError(err)
	c, err := Parse("0101", LittleEndian)
	require.NoError(err)
	d, err := Parse("0100", BigEndian)
	require.NoError(err)

	require.True(a.Equal(b))
	require.False(a.Equal(c), "same bits with different endianness must not be equal")
	require.False(a.Equal(d))
	require.False(a.Equal(nil))

	clone := a.Clone()
	require.True(a.Equal(clone))
	clone.SetBit(0, true)
	require.False(a.Equal(clone), "clone must be independent of the original")
}

func TestBitString_ParseErrors(t *testing.T) {
	require := require.New(t)

	_, err := Parse("01021", BigEndian)
	require.ErrorIs(err, ErrInvalidBitChar)
}

func TestBitString_Concat(t *testing.T) {
	require := require.New(t)

	a, err := Parse("00000101", BigEndian)
	require.NoError(err)
	b, err := Parse("101", BigEndian)
	require.NoError(err)

	joined, err := Concat(a, b)
	require.NoError(err)
	require.Equal("00000101101", joined.String())
	require.Equal(uint(11), joined.Len())

	empty, err := Concat()
	require.NoError(err)
	require.Equal(uint(0), empty.Len())

	c, err := Parse("1", LittleEndian)
	require.NoError(err)
	_, err = Concat(a, c)
	require.ErrorIs(err, ErrEndianMismatch)
}

func TestBitString_IndexPanics(t *testing.T) {
	require := require.New(t)

	b := New(4, BigEndian)
	require.Panics(func() { b.Bit(4) })
	require.Panics(func() { b.SetBit(4, true) })
	require.Panics(func() { b.SetRange(0, 5) })
}
