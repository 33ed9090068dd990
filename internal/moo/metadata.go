package moo

import "strings"

const metadataChunkSize = 31

// FileMetadata describes the test set a MOO file belongs to. The chunk is
// informational; it is surfaced for diagnostics and never serialized to the
// canonical JSON output.
type FileMetadata struct {
	SetVersionMajor uint8
	SetVersionMinor uint8
	CPUType         uint8
	Opcode          uint32
	Mnemonic        string
	TestCount       uint32
	FileSeed        uint64
	FlagMask        uint32
}

// parseMetadata decodes a META chunk payload. Payloads shorter than the
// fixed structure are treated like an unknown chunk and reported as not ok.
func parseMetadata(payload []byte) (*FileMetadata, bool) {
	if len(payload) < metadataChunkSize {
		return nil, false
	}

	c := newCursor(payload, 0)
	major, _ := c.readU8()
	minor, _ := c.readU8()
	cpuType, _ := c.readU8()
	opcode, _ := c.readU32()
	mnemonic, _ := c.readBytes(8)
	testCount, _ := c.readU32()
	fileSeed, _ := c.readU64()
	flagMask, _ := c.readU32()

	return &FileMetadata{
		SetVersionMajor: major,
		SetVersionMinor: minor,
		CPUType:         cpuType,
		Opcode:          opcode,
		Mnemonic:        strings.TrimRight(string(mnemonic), " "),
		TestCount:       testCount,
		FileSeed:        fileSeed,
		FlagMask:        flagMask,
	}, true
}
