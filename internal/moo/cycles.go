package moo

const cycleRecordSize = 15

// Cycle is one decoded bus cycle. The record layout on disk is identical
// for all families; which fields carry decoded values depends on the
// family. Classic cycles decode the segment, flag strings, queue operation
// and queue read fields; 286/386 cycles keep the raw flag bytes and the
// masked raw status instead.
type Cycle struct {
	Pin       uint8
	Address   uint32
	Segment   string
	MemFlags  string
	IOFlags   string
	MemRaw    uint8
	IORaw     uint8
	BHE       uint8
	DataBus   uint16
	BusStatus string
	RawStatus uint8
	TState    string
	QueueOp   string
	QueueRead uint8
}

// decodeCycles reads a CYCL chunk: a u32 record count followed by that many
// fixed-size cycle records, post-processed through the family status tables.
func decodeCycles(ch chunk, family Family) ([]Cycle, error) {
	c := ch.sub()
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if err := c.need(int(count) * cycleRecordSize); err != nil {
		return nil, err
	}

	cycles := make([]Cycle, 0, count)
	for range count {
		pin, _ := c.readU8()
		address, _ := c.readU32()
		segment, _ := c.readU8()
		memBits, _ := c.readU8()
		ioBits, _ := c.readU8()
		bhe, _ := c.readU8()
		dataBus, _ := c.readU16()
		busStatus, _ := c.readU8()
		tState, _ := c.readU8()
		queueOp, _ := c.readU8()
		queueRead, _ := c.readU8()

		cycle := Cycle{
			Pin:     pin,
			Address: address,
			DataBus: dataBus,
		}

		switch family {
		case Family80286:
			cycle.MemRaw = memBits
			cycle.IORaw = ioBits
			cycle.RawStatus = busStatus & 0x0f
			cycle.BusStatus = busStatus286Names[busStatus&0x0f]
			cycle.TState = lookupName(tState286Names[:], int(tState&0x03), "Ti")
		case Family80386:
			cycle.MemRaw = memBits
			cycle.IORaw = ioBits
			cycle.RawStatus = busStatus & 0x07
			cycle.BusStatus = busStatus386Names[busStatus&0x07]
			cycle.TState = lookupName(tState386Names[:], int(tState&0x03), "Ti")
		default:
			cycle.Segment = lookupName(segmentNames[:], int(segment), "--")
			cycle.MemFlags = decodeFlagBits(memBits)
			cycle.IOFlags = decodeFlagBits(ioBits)
			cycle.BHE = bhe
			cycle.BusStatus = lookupName(busStatusNames[:], int(busStatus), "PASV")
			cycle.TState = lookupName(tStateNames[:], int(tState&0x07), "Ti")
			cycle.QueueOp = lookupName(queueOpNames[:], int(queueOp), "-")
			cycle.QueueRead = queueRead
		}

		cycles = append(cycles, cycle)
	}

	return cycles, nil
}

// decodeFlagBits renders a memory or IO access bitfield as a 3-character
// string: bit 2 is R, bit 1 is A, bit 0 is W, with "-" for clear bits.
func decodeFlagBits(bits uint8) string {
	flags := []byte{'-', '-', '-'}
	if bits&0x04 != 0 {
		flags[0] = 'R'
	}
	if bits&0x02 != 0 {
		flags[1] = 'A'
	}
	if bits&0x01 != 0 {
		flags[2] = 'W'
	}
	return string(flags)
}
