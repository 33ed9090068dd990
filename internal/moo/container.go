package moo

// Container holds the decoded contents of one MOO file. It is built by a
// single decode pass and not mutated afterwards.
type Container struct {
	CPUName   string
	Family    Family
	Version   uint8
	TestCount uint32 // declared in the header, not validated against Tests
	Metadata  *FileMetadata
	Tests     []TestRecord
}

// TestRecord is one decoded test case. Optional fields are nil when the
// corresponding sub-chunk was absent from the source; Bytes, Cycles and the
// state slices distinguish nil (absent) from empty (present with zero
// elements).
type TestRecord struct {
	Index     uint32
	Name      *string
	Bytes     []byte
	Initial   *CPUState
	Final     *CPUState
	Cycles    []Cycle
	Exception *Exception
	Hash      *string
}

// CPUState is a register and memory snapshot attached to a test.
// Regs, RAM and Queue are always present, possibly empty; EA only exists
// when the source contained an EA32 chunk.
type CPUState struct {
	Regs  []Register
	EA    *EffectiveAddress
	RAM   []RAMEntry
	Queue []byte
}

// Register is one named register value. Registers keep the fixed family
// order; a register absent from the presence bitmask has no entry.
type Register struct {
	Name  string
	Value uint32
}

// RAMEntry is one sparse memory delta.
type RAMEntry struct {
	Address uint32
	Value   uint8
}

// EffectiveAddress is a decoded memory-addressing descriptor.
type EffectiveAddress struct {
	Segment  string
	Selector uint16
	Base     uint32
	Limit    uint32
	Offset   uint32
	Linear   uint32
	Physical uint32
}

// Exception records a CPU exception raised during a test.
type Exception struct {
	Number      uint8
	FlagAddress uint32
}

// Decode parses a complete MOO buffer into a Container. It walks the
// top-level chunks after the header, decoding TEST and META chunks and
// skipping any other tag by its declared length. All reads are bounds
// checked; a declared length running past the buffer fails the decode.
func Decode(data []byte) (*Container, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	container := &Container{
		CPUName:   h.cpuName,
		Family:    familyFor(h.cpuName),
		Version:   h.version,
		TestCount: h.testCount,
	}

	c := newCursor(data[h.next:], h.next)
	for c.remaining() > 0 {
		ch, err := c.nextChunk()
		if err != nil {
			return nil, err
		}

		switch ch.tag {
		case "TEST":
			test, err := decodeTest(ch, container.Family)
			if err != nil {
				return nil, err
			}
			container.Tests = append(container.Tests, test)
		case "META":
			// Older writers do not emit metadata and readers that predate
			// it skip the chunk, so a short payload is ignored, not fatal.
			if md, ok := parseMetadata(ch.payload); ok {
				container.Metadata = md
			}
		}
	}

	return container, nil
}
