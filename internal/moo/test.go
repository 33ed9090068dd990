package moo

import "encoding/hex"

const exceptionChunkSize = 5

// decodeTest assembles one TestRecord from a TEST chunk: a leading u32 test
// index followed by nested sub-chunks until the declared length is
// exhausted. Unrecognized sub-tags are skipped by their length.
func decodeTest(ch chunk, family Family) (TestRecord, error) {
	c := ch.sub()

	index, err := c.readU32()
	if err != nil {
		return TestRecord{}, &DecodeError{Offset: ch.tagOffset, Tag: ch.tag, Err: err}
	}
	test := TestRecord{Index: index}

	for c.remaining() > 0 {
		sub, err := c.nextChunk()
		if err != nil {
			return TestRecord{}, &DecodeError{Offset: ch.tagOffset, Tag: ch.tag, Err: err}
		}

		switch sub.tag {
		case "NAME":
			var name string
			name, err = decodeName(sub)
			if err == nil {
				test.Name = &name
			}
		case "BYTS":
			test.Bytes, err = decodeBytes(sub)
		case "INIT":
			test.Initial, err = decodeState(sub, family)
		case "FINA":
			test.Final, err = decodeState(sub, family)
		case "CYCL":
			test.Cycles, err = decodeCycles(sub, family)
		case "HASH":
			hash := hex.EncodeToString(sub.payload)
			test.Hash = &hash
		case "EXCP":
			test.Exception, err = decodeException(sub)
		}
		if err != nil {
			return TestRecord{}, &DecodeError{Offset: sub.tagOffset, Tag: sub.tag, Err: err}
		}
	}

	return test, nil
}

// decodeName reads a length-prefixed UTF-8 test name.
func decodeName(ch chunk) (string, error) {
	c := ch.sub()
	length, err := c.readU32()
	if err != nil {
		return "", err
	}
	text, err := c.readBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// decodeBytes reads the length-prefixed opcode byte sequence.
func decodeBytes(ch chunk) ([]byte, error) {
	c := ch.sub()
	count, err := c.readU32()
	if err != nil {
		return nil, err
	}
	data, err := c.readBytes(int(count))
	if err != nil {
		return nil, err
	}
	bytes := make([]byte, int(count))
	copy(bytes, data)
	return bytes, nil
}

func decodeException(ch chunk) (*Exception, error) {
	c := ch.sub()
	if err := c.need(exceptionChunkSize); err != nil {
		return nil, err
	}
	number, _ := c.readU8()
	flagAddress, _ := c.readU32()
	return &Exception{Number: number, FlagAddress: flagAddress}, nil
}
