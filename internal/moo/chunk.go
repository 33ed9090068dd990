// Package moo decodes the MOO binary CPU test-vector container format.
//
// A MOO file is a sequence of tagged, length-prefixed chunks that may nest
// further chunks inside their payloads. The decoder performs a single pass
// over an in-memory buffer and produces an immutable Container; it never
// reads past a chunk's declared length and never writes the format back.
package moo

import (
	"encoding/binary"
)

const chunkHeaderSize = 8 // 4 byte ASCII tag + 4 byte little-endian length

// cursor walks a byte buffer with explicit bounds checks on every read.
// base is the absolute file offset of data[0] so that errors reported from
// nested payload cursors still carry file-relative positions.
type cursor struct {
	data []byte
	off  int
	base int
}

func newCursor(data []byte, base int) *cursor {
	return &cursor{data: data, base: base}
}

func (c *cursor) remaining() int {
	return len(c.data) - c.off
}

// abs returns the absolute file offset of the cursor position.
func (c *cursor) abs() int {
	return c.base + c.off
}

func (c *cursor) need(n int) error {
	if c.remaining() < n {
		return &TruncatedChunkError{Offset: c.abs(), Need: n, Remaining: c.remaining()}
	}
	return nil
}

func (c *cursor) readU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

func (c *cursor) readU16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) readU32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) readU64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.data[c.off:])
	c.off += 8
	return v, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// chunk is one tagged block read from a cursor. payload aliases the cursor's
// buffer, bounded to the declared chunk length.
type chunk struct {
	tag        string
	payload    []byte
	tagOffset  int // absolute offset of the tag
	dataOffset int // absolute offset of the payload
}

// nextChunk reads the chunk header at the cursor position and advances the
// cursor past the payload. The caller decides whether to decode or ignore
// the payload; the cursor advances by exactly the declared length either way.
func (c *cursor) nextChunk() (chunk, error) {
	tagOffset := c.abs()
	tag, err := c.readBytes(4)
	if err != nil {
		return chunk{}, err
	}
	length, err := c.readU32()
	if err != nil {
		return chunk{}, err
	}
	dataOffset := c.abs()
	payload, err := c.readBytes(int(length))
	if err != nil {
		return chunk{}, err
	}
	return chunk{
		tag:        string(tag),
		payload:    payload,
		tagOffset:  tagOffset,
		dataOffset: dataOffset,
	}, nil
}

// sub returns a cursor over the chunk payload, keeping absolute offsets.
func (ch chunk) sub() *cursor {
	return newCursor(ch.payload, ch.dataOffset)
}
