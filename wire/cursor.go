package wire

import "encoding/binary"

// cursor is a zero-copy little-endian reader over a borrowed byte slice.
// Modeled directly on the teacher's consensus package cursor: unaligned
// reads only, never a reinterpret of the underlying buffer, so callers
// need not guarantee buffer alignment (spec §4.2, §9).
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, errTruncatedTLV(c.pos)
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16LE() (uint16, error) {
	b, err := c.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}
