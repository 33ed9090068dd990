package moo

import (
	"errors"
	"fmt"
)

// ErrBadMagic is returned when the input does not start with the MOO file magic.
var ErrBadMagic = errors.New("not a MOO file")

// TruncatedChunkError is returned when a chunk header or a fixed-size
// structure does not fit into the remaining buffer.
type TruncatedChunkError struct {
	Offset    int // absolute buffer offset of the failed read
	Need      int
	Remaining int
}

func (e *TruncatedChunkError) Error() string {
	return fmt.Sprintf("truncated chunk at offset %d: need %d bytes, %d remaining",
		e.Offset, e.Need, e.Remaining)
}

// DecodeError wraps a decoding failure with the tag and absolute offset of
// the chunk that was being decoded.
type DecodeError struct {
	Offset int
	Tag    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %q chunk at offset %d: %s", e.Tag, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
