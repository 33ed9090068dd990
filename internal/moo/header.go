package moo

import "strings"

const (
	magic           = "MOO "
	headerFixedSize = 12 // version byte, 3 reserved, u32 test count, 4 byte CPU name
)

// header holds the decoded file header fields.
type header struct {
	version   uint8
	testCount uint32
	cpuName   string
	next      int // absolute offset of the first body chunk
}

// parseHeader validates the file magic and decodes the fixed-layout header.
// The declared header length may exceed the known fields; the body starts
// after the declared length regardless.
func parseHeader(data []byte) (header, error) {
	c := newCursor(data, 0)
	m, err := c.readBytes(4)
	if err != nil {
		return header{}, err
	}
	if string(m) != magic {
		return header{}, ErrBadMagic
	}
	length, err := c.readU32()
	if err != nil {
		return header{}, err
	}
	payload, err := c.readBytes(int(length))
	if err != nil {
		return header{}, err
	}
	if len(payload) < headerFixedSize {
		return header{}, &TruncatedChunkError{
			Offset:    chunkHeaderSize,
			Need:      headerFixedSize,
			Remaining: len(payload),
		}
	}

	h := newCursor(payload, chunkHeaderSize)
	version, _ := h.readU8()
	_, _ = h.readBytes(3) // reserved
	testCount, _ := h.readU32()
	name, _ := h.readBytes(4)

	return header{
		version:   version,
		testCount: testCount,
		cpuName:   strings.TrimRight(string(name), " \x00"),
		next:      c.abs(),
	}, nil
}
