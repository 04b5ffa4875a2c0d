package sml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLengthSingleByte(t *testing.T) {
	for n := 1; n <= 15; n++ {
		b := NewBuffer([]byte{byte(n), 0xaa})
		h, err := b.DecodeLength()
		require.NoError(t, err)
		assert.Equal(t, 1, b.Pos())
		assert.Equal(t, 1, h.Size)
		// the length nibble counts the TL byte itself
		assert.Equal(t, n-1, h.Length)
		assert.False(t, h.IsList())
	}

	for n := 0; n <= 15; n++ {
		b := NewBuffer([]byte{0x70 | byte(n)})
		h, err := b.DecodeLength()
		require.NoError(t, err)
		assert.Equal(t, 1, b.Pos())
		assert.True(t, h.IsList())
		assert.Equal(t, n, h.Length)
	}
}

func TestDecodeLengthEndOfMessage(t *testing.T) {
	b := NewBuffer([]byte{0x00})
	h, err := b.DecodeLength()
	require.NoError(t, err)
	assert.Equal(t, 0, h.Length)
	assert.Equal(t, 1, b.Pos())
}

func TestDecodeLengthExtended(t *testing.T) {
	// octet string of 0x32 bytes including two TL bytes
	b := NewBuffer([]byte{0x83, 0x02})
	h, err := b.DecodeLength()
	require.NoError(t, err)
	assert.Equal(t, 2, h.Size)
	assert.Equal(t, 48, h.Length)
	assert.Equal(t, typeOctetString, h.Type)

	// list of 0x12 elements
	b = NewBuffer([]byte{0xf1, 0x02})
	h, err = b.DecodeLength()
	require.NoError(t, err)
	assert.True(t, h.IsList())
	assert.Equal(t, 18, h.Length)

	// three TL bytes
	b = NewBuffer([]byte{0x81, 0x80, 0x05})
	h, err = b.DecodeLength()
	require.NoError(t, err)
	assert.Equal(t, 3, h.Size)
	assert.Equal(t, 0x105-3, h.Length)
}

func TestDecodeLengthCapped(t *testing.T) {
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x8f, 0x0f}
	b := NewBuffer(data)
	h, err := b.DecodeLength()
	require.NoError(t, err)
	assert.Equal(t, 8, h.Size)
	assert.Equal(t, 0x0f-8, h.Length)
	assert.Equal(t, 8, b.Pos())
}

func TestDecodeLengthIncomplete(t *testing.T) {
	b := NewBuffer([]byte{0x81})
	_, err := b.DecodeLength()
	assert.True(t, errors.Is(err, ErrIncomplete))

	b = NewBuffer([]byte{0x50})
	_, err = b.DecodeLength()
	assert.True(t, errors.Is(err, ErrGeneric))
}

func TestSigned(t *testing.T) {
	tests := []struct {
		data []byte
		want int64
	}{
		{[]byte{0x52, 0xff}, -1},
		{[]byte{0x52, 0x01}, 1},
		{[]byte{0x52, 0x80}, -128},
		{[]byte{0x53, 0xff, 0x38}, -200},
		{[]byte{0x53, 0x7f, 0xff}, 32767},
		{[]byte{0x55, 0xff, 0xff, 0xff, 0xfe}, -2},
		{[]byte{0x56, 0xff, 0xff, 0xff, 0xff, 0xfe}, -2},
		{[]byte{0x59, 0x80, 0, 0, 0, 0, 0, 0, 0}, -1 << 63},
		// unsigned types are not sign extended
		{[]byte{0x62, 0xff}, 255},
		// absent optional value
		{[]byte{0x01}, 0},
	}
	for _, tc := range tests {
		b := NewBuffer(tc.data)
		v, err := b.Signed()
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, "% x", tc.data)
		assert.Equal(t, len(tc.data), b.Pos())
	}

	v, err := NewBuffer([]byte{0x52, 0xff}).Signed()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffffffffffff), uint64(v))
}

func TestUnsigned(t *testing.T) {
	tests := []struct {
		data []byte
		want uint64
	}{
		{[]byte{0x62, 0x1e}, 30},
		{[]byte{0x63, 0x07, 0x01}, 0x0701},
		{[]byte{0x65, 0x00, 0x00, 0x02, 0x01}, 0x0201},
		{[]byte{0x69, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0xffffffffffffffff},
		{[]byte{0x52, 0xff}, 0xff},
	}
	for _, tc := range tests {
		b := NewBuffer(tc.data)
		v, err := b.Unsigned()
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, "% x", tc.data)
	}

	_, err := NewBuffer([]byte{0x42, 0x01}).Unsigned()
	assert.True(t, errors.Is(err, ErrGeneric))

	_, err = NewBuffer([]byte{0x65, 0x00, 0x01}).Unsigned()
	assert.True(t, errors.Is(err, ErrIncomplete))

	// nine byte integers are not supported
	_, err = NewBuffer([]byte{0x6a, 0, 0, 0, 0, 0, 0, 0, 0, 0}).Unsigned()
	assert.True(t, errors.Is(err, ErrGeneric))
}

func TestBool(t *testing.T) {
	v, err := NewBuffer([]byte{0x42, 0x01}).Bool()
	require.NoError(t, err)
	assert.True(t, v)

	v, err = NewBuffer([]byte{0x42, 0x00}).Bool()
	require.NoError(t, err)
	assert.False(t, v)

	_, err = NewBuffer([]byte{0x62, 0x01}).Bool()
	assert.True(t, errors.Is(err, ErrGeneric))

	_, err = NewBuffer([]byte{0x42}).Bool()
	assert.True(t, errors.Is(err, ErrIncomplete))
}

func TestOctetString(t *testing.T) {
	b := NewBuffer([]byte{0x04, 'E', 'M', 'H', 0x62, 0x01})
	var dst [4]byte
	n, err := b.OctetString(dst[:])
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "EMH", string(dst[:n]))
	assert.Equal(t, 4, b.Pos())

	// a string must leave room in the destination
	b = NewBuffer([]byte{0x05, 'a', 'b', 'c', 'd', 0x62, 0x01})
	_, err = b.OctetString(dst[:])
	assert.True(t, errors.Is(err, ErrBufferTooSmall))
	assert.Equal(t, 5, b.Pos())
	v, err := b.Unsigned()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	_, err = NewBuffer([]byte{0x72, 0x01, 0x01}).OctetString(dst[:])
	assert.True(t, errors.Is(err, ErrGeneric))
}

func TestSkip(t *testing.T) {
	data := []byte{
		0x73,       // list of 3
		0x02, 0xaa, // octet string
		0x72,       // list of 2
		0x62, 0x01, // uint8
		0x71, 0x01, // list of 1, optional
		0x63, 0x01, 0x02, // uint16
		0x62, 0x05, // next element
	}
	b := NewBuffer(data)
	require.NoError(t, b.Skip(DefaultMaxDepth))
	assert.Equal(t, 11, b.Pos())

	b = NewBuffer([]byte{0x72, 0x62, 0x01})
	assert.True(t, errors.Is(b.Skip(DefaultMaxDepth), ErrIncomplete))

	b = NewBuffer([]byte{0x05, 0x01})
	assert.True(t, errors.Is(b.Skip(DefaultMaxDepth), ErrIncomplete))
}

func TestSkipDepth(t *testing.T) {
	b := NewBuffer([]byte{0x71, 0x71, 0x01})
	assert.NoError(t, b.Skip(2))

	b = NewBuffer([]byte{0x71, 0x71, 0x71, 0x01})
	assert.True(t, errors.Is(b.Skip(2), ErrFormat))
}
