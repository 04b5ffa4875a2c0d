package sml

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader hands out data a few bytes at a time, like a serial port
type chunkReader struct {
	data []byte
	n    int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestReader(t *testing.T) {
	first := meterFile(importEntry)
	second := meterFile(entry(exportTotal, UnitWattHour, 0, 0x62, 0x01))

	var stream []byte
	stream = append(stream, 0x00, 0x1b, 0x1b, 0x42) // tail of a previous file
	stream = append(stream, first...)
	stream = append(stream, 0x55, 0xaa) // line noise
	stream = append(stream, second...)

	r := NewReader(&chunkReader{data: stream, n: 7})

	fr, err := r.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, first, fr)

	fr, err = r.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, second, fr)

	_, err = r.ReadFile()
	assert.Equal(t, io.EOF, err)
}

func TestReaderEscapedPayload(t *testing.T) {
	// escape sequence inside the payload is doubled by the sender
	f := []byte{
		0x1b, 0x1b, 0x1b, 0x1b, 0x01, 0x01, 0x01, 0x01,
		0x76, 0x05, 0x01, 0x02,
		0x1b, 0x1b, 0x1b, 0x1b, 0x1b, 0x1b, 0x1b, 0x1b,
		0x03, 0x04, 0x00, 0x00,
		0x1b, 0x1b, 0x1b, 0x1a, // three escape bytes only, payload
		0x1b, 0x1b, 0x1b, 0x1b, 0x1a, 0x02, 0x12, 0x34,
	}
	r := NewReader(bytes.NewReader(f))
	fr, err := r.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, f, fr)
}

func TestReaderTruncatedFile(t *testing.T) {
	full := meterFile(importEntry)
	var stream []byte
	stream = append(stream, full[:40]...)
	stream = append(stream, full...)

	r := NewReader(bytes.NewReader(stream))
	fr, err := r.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, full, fr)
}

func TestReaderDecode(t *testing.T) {
	r := NewReader(bytes.NewReader(meterFile(importEntry)))
	fr, err := r.ReadFile()
	require.NoError(t, err)

	reading, err := Unmarshal(fr, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, uint32(12345), *reading.EnergyImportActive)
}
