package moo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestDecodeMinimalFile(t *testing.T) {
	data := buildFile("8086", 1, 1,
		buildChunk("TEST", u32le(0),
			buildChunk("BYTS", u32le(1), []byte{0x90})))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, "8086", container.CPUName)
	assert.Equal(t, Family8086, container.Family)
	assert.Equal(t, uint8(1), container.Version)
	assert.Equal(t, uint32(1), container.TestCount)
	assert.Len(t, container.Tests, 1)

	want := TestRecord{Index: 0, Bytes: []byte{0x90}}
	if diff := cmp.Diff(want, container.Tests[0]); diff != "" {
		t.Fatalf("test record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFullTest(t *testing.T) {
	initState := buildChunk("INIT",
		buildChunk("REGS", u16le(1<<0|1<<13), u16le(0x1234), u16le(0xf202)),
		buildChunk("RAM ", u32le(1), u32le(0x400), []byte{15}),
		buildChunk("QUEU", u32le(2), []byte{0x12, 0x34}))
	finalState := buildChunk("FINA",
		buildChunk("REGS", u16le(1<<1), u16le(0x55aa)),
		buildChunk("RAM ", u32le(0)),
		buildChunk("QUEU", u32le(0)))
	cycles := buildChunk("CYCL", u32le(1),
		buildCycle(1, 0xffff0, 2, 0b101, 0, 1, 0x01d8, 6, 4, 1, 0x90))

	data := buildFile("8086", 1, 1,
		buildChunk("TEST", u32le(5),
			buildChunk("NAME", u32le(10), []byte("add ax, bx")),
			buildChunk("BYTS", u32le(2), []byte{0x01, 0xd8}),
			initState, finalState, cycles,
			buildChunk("HASH", []byte{0xde, 0xad, 0xbe, 0xef}),
			buildChunk("EXCP", []byte{13}, u32le(0x1000))))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Len(t, container.Tests, 1)

	want := TestRecord{
		Index: 5,
		Name:  strPtr("add ax, bx"),
		Bytes: []byte{0x01, 0xd8},
		Initial: &CPUState{
			Regs: []Register{
				{Name: "ax", Value: 0x1234},
				{Name: "flags", Value: 0xf202},
			},
			RAM:   []RAMEntry{{Address: 0x400, Value: 15}},
			Queue: []byte{0x12, 0x34},
		},
		Final: &CPUState{
			Regs:  []Register{{Name: "bx", Value: 0x55aa}},
			RAM:   []RAMEntry{},
			Queue: []byte{},
		},
		Cycles: []Cycle{
			{
				Pin: 1, Address: 0xffff0, Segment: "CS", MemFlags: "R-W",
				IOFlags: "---", BHE: 1, DataBus: 0x01d8, BusStatus: "CODE",
				TState: "T4", QueueOp: "F", QueueRead: 0x90,
			},
		},
		Exception: &Exception{Number: 13, FlagAddress: 0x1000},
		Hash:      strPtr("deadbeef"),
	}
	if diff := cmp.Diff(want, container.Tests[0]); diff != "" {
		t.Fatalf("test record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePreservesTestOrder(t *testing.T) {
	// idx is not a sort key; source order wins
	data := buildFile("8086", 1, 3,
		buildChunk("TEST", u32le(7)),
		buildChunk("TEST", u32le(3)),
		buildChunk("TEST", u32le(5)))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Len(t, container.Tests, 3)
	assert.Equal(t, uint32(7), container.Tests[0].Index)
	assert.Equal(t, uint32(3), container.Tests[1].Index)
	assert.Equal(t, uint32(5), container.Tests[2].Index)
}

func TestDecodeSkipsUnknownTopLevelChunks(t *testing.T) {
	data := buildFile("8086", 1, 2,
		buildChunk("GMET", u64le(42), u16le(1)),
		buildChunk("TEST", u32le(0)),
		buildChunk("WHAT", []byte{1, 2, 3, 4, 5}),
		buildChunk("TEST", u32le(1)))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Len(t, container.Tests, 2)
}

func TestDecodeSkipsUnknownTestSubChunks(t *testing.T) {
	data := buildFile("8086", 1, 1,
		buildChunk("TEST", u32le(0),
			buildChunk("ZZZZ", []byte{1, 2}),
			buildChunk("BYTS", u32le(1), []byte{0x90})))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, "\x90", string(container.Tests[0].Bytes))
}

func TestDecodeMetadata(t *testing.T) {
	meta := cat([]byte{2, 1, 0}, u32le(0xc0), []byte("ADD     "),
		u32le(1000), u64le(0xfeedface), u32le(0xffff))
	data := buildFile("8086", 1, 0, buildChunk("META", meta))

	container, err := Decode(data)
	assert.NoError(t, err)

	want := &FileMetadata{
		SetVersionMajor: 2,
		SetVersionMinor: 1,
		Opcode:          0xc0,
		Mnemonic:        "ADD",
		TestCount:       1000,
		FileSeed:        0xfeedface,
		FlagMask:        0xffff,
	}
	if diff := cmp.Diff(want, container.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeShortMetadataIgnored(t *testing.T) {
	data := buildFile("8086", 1, 0, buildChunk("META", []byte{1, 2, 3}))

	container, err := Decode(data)
	assert.NoError(t, err)
	assert.Nil(t, container.Metadata)
}

func TestDecodeTruncatedTestChunk(t *testing.T) {
	data := buildFile("8086", 1, 1, buildChunk("TEST", u32le(0)))
	// corrupt the TEST length to run past the buffer
	data[24] = 0xff

	_, err := Decode(data)
	var truncated *TruncatedChunkError
	assert.True(t, errors.As(err, &truncated))
}

func TestDecodeTruncatedSubChunk(t *testing.T) {
	byts := buildChunk("BYTS", u32le(1), []byte{0x90})
	// declared BYTS count exceeds the sub chunk payload
	byts[8] = 0xf0

	data := buildFile("8086", 1, 1, buildChunk("TEST", u32le(0), byts))

	_, err := Decode(data)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "BYTS", decodeErr.Tag)
}

func TestDecodeNeverReadsPastBuffer(t *testing.T) {
	data := buildFile("8086", 1, 1,
		buildChunk("TEST", u32le(0),
			buildChunk("BYTS", u32le(1), []byte{0x90})))

	// every truncation either decodes fewer tests or fails cleanly
	for cut := range len(data) {
		container, err := Decode(data[:cut])
		if err == nil {
			assert.True(t, len(container.Tests) <= 1)
		}
	}
}

func TestDecodeDeterministic(t *testing.T) {
	data := buildFile("286", 2, 1,
		buildChunk("TEST", u32le(3),
			buildChunk("CYCL", u32le(1),
				buildCycle(2, 0xabcde, 1, 1, 2, 1, 0x1234, 0x14, 1, 2, 1))))

	first, err := Decode(data)
	assert.NoError(t, err)
	second, err := Decode(data)
	assert.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("decode not deterministic (-first +second):\n%s", diff)
	}
}
