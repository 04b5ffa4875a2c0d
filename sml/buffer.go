package sml

import (
	"encoding/binary"
	"fmt"
)

// Buffer is a read cursor over an SML byte buffer. The position is always
// relative to the start of the buffer and only moves forward.
type Buffer struct {
	data []byte
	pos  int
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Pos is the cursor position. After trailer bookkeeping it may point past
// the end of the buffer.
func (b *Buffer) Pos() int {
	return b.pos
}

// Remaining is the number of unread bytes.
func (b *Buffer) Remaining() int {
	if b.pos >= len(b.data) {
		return 0
	}
	return len(b.data) - b.pos
}

func (b *Buffer) need(n int) error {
	if n < 0 || b.Remaining() < n {
		return fmt.Errorf("need %d bytes at 0x%x, have %d: %w", n, b.pos, b.Remaining(), ErrIncomplete)
	}
	return nil
}

func (b *Buffer) peek() (uint8, error) {
	if err := b.need(1); err != nil {
		return 0, err
	}
	return b.data[b.pos], nil
}

func (b *Buffer) readByte() (uint8, error) {
	c, err := b.peek()
	if err != nil {
		return 0, err
	}
	b.pos++
	return c, nil
}

func (b *Buffer) advance(n int) error {
	if err := b.need(n); err != nil {
		return err
	}
	b.pos += n
	return nil
}

// expectRepeated consumes n bytes that must all equal c.
func (b *Buffer) expectRepeated(c uint8, n int, mismatch error) error {
	for i := 0; i < n; i++ {
		got, err := b.readByte()
		if err != nil {
			return err
		}
		if got != c {
			return fmt.Errorf("got 0x%02x at 0x%x, want 0x%02x: %w", got, b.pos-1, c, mismatch)
		}
	}
	return nil
}

// DecodeLength reads a TL field of one to eight bytes. For lists and the
// end of message marker the length is the element count, for everything
// else it is the payload size with the TL bytes subtracted.
func (b *Buffer) DecodeLength() (Header, error) {
	first, err := b.peek()
	if err != nil {
		return Header{}, err
	}
	h := Header{
		TL:   first,
		Type: first & typeMask,
	}

	var length int
	for h.Size < maxTLBytes {
		c, err := b.readByte()
		if err != nil {
			return h, err
		}
		length = length<<4 | int(c&lengthMask)
		h.Size++
		if c&tlMoreMask == 0 {
			break
		}
	}

	if h.IsList() || first == endOfMessage {
		h.Length = length
		return h, nil
	}
	h.Length = length - h.Size
	if h.Length < 0 {
		return h, fmt.Errorf("TL 0x%02x at 0x%x declares %d bytes: %w", first, b.pos-h.Size, length, ErrGeneric)
	}
	return h, nil
}

// OctetString copies the next octet string into dst and returns its length.
// The string must be shorter than dst, otherwise ErrBufferTooSmall is
// returned with the cursor moved past the whole string.
func (b *Buffer) OctetString(dst []byte) (int, error) {
	h, err := b.DecodeLength()
	if err != nil {
		return 0, err
	}
	if h.Type != typeOctetString {
		return 0, fmt.Errorf("TL 0x%02x is not an octet string: %w", h.TL, ErrGeneric)
	}
	if err := b.need(h.Length); err != nil {
		return 0, err
	}
	if h.Length >= len(dst) {
		b.pos += h.Length
		return 0, fmt.Errorf("octet string of %d bytes, capacity %d: %w", h.Length, len(dst), ErrBufferTooSmall)
	}
	n := copy(dst, b.data[b.pos:b.pos+h.Length])
	b.pos += h.Length
	return n, nil
}

func (b *Buffer) Bool() (bool, error) {
	tl, err := b.peek()
	if err != nil {
		return false, err
	}
	if tl != typeBool {
		return false, fmt.Errorf("TL 0x%02x is not a boolean: %w", tl, ErrGeneric)
	}
	if err := b.need(2); err != nil {
		return false, err
	}
	v := b.data[b.pos+1] != 0
	b.pos += 2
	return v, nil
}

// integer reads a big endian integer of up to eight bytes. An absent
// optional value reads as zero.
func (b *Buffer) integer() (uint64, Header, error) {
	h, err := b.DecodeLength()
	if err != nil {
		return 0, h, err
	}
	if h.TL == optional {
		return 0, h, nil
	}
	if h.Type != typeInt && h.Type != typeUint {
		return 0, h, fmt.Errorf("TL 0x%02x is not an integer: %w", h.TL, ErrGeneric)
	}
	if h.Length < 1 || h.Length > 8 {
		return 0, h, fmt.Errorf("integer of %d bytes: %w", h.Length, ErrGeneric)
	}
	if err := b.need(h.Length); err != nil {
		return 0, h, err
	}

	var buf [8]byte
	copy(buf[8-h.Length:], b.data[b.pos:b.pos+h.Length])
	b.pos += h.Length
	return binary.BigEndian.Uint64(buf[:]), h, nil
}

func (b *Buffer) Unsigned() (uint64, error) {
	v, _, err := b.integer()
	return v, err
}

// Signed reads an integer and sign extends it to 64 bits when the TL
// marks it as signed and the top bit of the first payload byte is set.
func (b *Buffer) Signed() (int64, error) {
	start := b.pos
	v, h, err := b.integer()
	if err != nil || h.TL == optional {
		return int64(v), err
	}
	if h.Type == typeInt && h.Length < 8 && b.data[start+h.Size]&0x80 != 0 {
		v |= ^uint64(0) << (8 * uint(h.Length))
	}
	return int64(v), nil
}

// Skip moves the cursor past the next element, descending into lists.
// Lists nested deeper than maxDepth yield ErrFormat.
func (b *Buffer) Skip(maxDepth int) error {
	return b.skip(0, maxDepth)
}

func (b *Buffer) skip(depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("lists nested deeper than %d at 0x%x: %w", maxDepth, b.pos, ErrFormat)
	}
	h, err := b.DecodeLength()
	if err != nil {
		return err
	}
	if !h.IsList() {
		return b.advance(h.Length)
	}
	for i := 0; i < h.Length; i++ {
		if err := b.skip(depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}
