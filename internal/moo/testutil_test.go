package moo

import "encoding/binary"

// Builders for synthetic MOO buffers used across the decoder tests.

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// buildChunk prefixes a payload with its 4-byte tag and u32 length.
func buildChunk(tag string, parts ...[]byte) []byte {
	payload := cat(parts...)
	return cat([]byte(tag), u32le(uint32(len(payload))), payload)
}

// buildFile assembles a MOO buffer with the standard 12-byte header.
func buildFile(cpuName string, version uint8, testCount uint32, chunks ...[]byte) []byte {
	for len(cpuName) < 4 {
		cpuName += " "
	}
	header := cat([]byte{version, 0, 0, 0}, u32le(testCount), []byte(cpuName))
	return cat([]byte(magic), u32le(uint32(len(header))), header, cat(chunks...))
}

// buildCycle packs one 15-byte bus cycle record.
func buildCycle(pin uint8, addr uint32, seg, mem, io, bhe uint8, dataBus uint16,
	bus, tState, queueOp, queueRead uint8) []byte {

	return cat([]byte{pin}, u32le(addr), []byte{seg, mem, io, bhe},
		u16le(dataBus), []byte{bus, tState, queueOp, queueRead})
}
