package moo

const eaChunkSize = 23

// decodeState decodes an INIT or FINA chunk by walking its nested
// sub-chunks until the declared parent length is exhausted. Sub-tags not
// known here are skipped by their length so that files written with newer
// chunk types still decode.
func decodeState(ch chunk, family Family) (*CPUState, error) {
	state := &CPUState{
		Regs:  []Register{},
		RAM:   []RAMEntry{},
		Queue: []byte{},
	}

	c := ch.sub()
	for c.remaining() > 0 {
		sub, err := c.nextChunk()
		if err != nil {
			return nil, &DecodeError{Offset: ch.tagOffset, Tag: ch.tag, Err: err}
		}

		switch sub.tag {
		case "REGS", "RG32":
			state.Regs, err = decodeRegisters(sub, family)
		case "RAM ":
			state.RAM, err = decodeRAM(sub)
		case "QUEU":
			state.Queue, err = decodeQueue(sub)
		case "EA32":
			state.EA, err = decodeEffectiveAddress(sub)
		}
		if err != nil {
			return nil, &DecodeError{Offset: sub.tagOffset, Tag: sub.tag, Err: err}
		}
	}

	return state, nil
}

// decodeRegisters reads the register presence bitmask and one value per set
// bit, scanned low to high in the fixed family register order. Registers
// whose bit is clear are omitted, never defaulted to zero.
func decodeRegisters(ch chunk, family Family) ([]Register, error) {
	c := ch.sub()

	var bitmask uint32
	if family.registerWidth() == 4 {
		v, err := c.readU32()
		if err != nil {
			return nil, err
		}
		bitmask = v
	} else {
		v, err := c.readU16()
		if err != nil {
			return nil, err
		}
		bitmask = uint32(v)
	}

	regs := []Register{}
	for i, name := range family.registerNames() {
		if bitmask&(1<<i) == 0 {
			continue
		}

		var value uint32
		if family.registerWidth() == 4 {
			v, err := c.readU32()
			if err != nil {
				return nil, err
			}
			value = v
		} else {
			v, err := c.readU16()
			if err != nil {
				return nil, err
			}
			value = uint32(v)
		}
		regs = append(regs, Register{Name: name, Value: value})
	}

	return regs, nil
}

func decodeRAM(ch chunk) ([]RAMEntry, error) {
	c := ch.sub()
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	if err := c.need(int(count) * 5); err != nil {
		return nil, err
	}

	entries := make([]RAMEntry, 0, count)
	for range count {
		address, _ := c.readU32()
		value, _ := c.readU8()
		entries = append(entries, RAMEntry{Address: address, Value: value})
	}
	return entries, nil
}

func decodeQueue(ch chunk) ([]byte, error) {
	c := ch.sub()
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	data, err := c.readBytes(int(count))
	if err != nil {
		return nil, err
	}
	queue := make([]byte, int(count))
	copy(queue, data)
	return queue, nil
}

// decodeEffectiveAddress reads the fixed 23-byte EA32 structure. The
// segment index is masked to 3 bits and mapped through eaSegmentNames,
// which is total over 0-7.
func decodeEffectiveAddress(ch chunk) (*EffectiveAddress, error) {
	c := ch.sub()
	if err := c.need(eaChunkSize); err != nil {
		return nil, err
	}

	segment, _ := c.readU8()
	selector, _ := c.readU16()
	base, _ := c.readU32()
	limit, _ := c.readU32()
	offset, _ := c.readU32()
	linear, _ := c.readU32()
	physical, _ := c.readU32()

	return &EffectiveAddress{
		Segment:  eaSegmentNames[segment&0x07],
		Selector: selector,
		Base:     base,
		Limit:    limit,
		Offset:   offset,
		Linear:   linear,
		Physical: physical,
	}, nil
}
