package protocol

// WriteFrame serialises a header + payload + CRC16 trailer into out,
// clamping payload to MaxPayload. It returns the number of bytes written,
// or 0 if out is nil or too small to hold the frame (out is left untouched
// on failure).
func WriteFrame(out []byte, typ, cmdID uint8, payload []byte, seq, tsMs uint32) int {
	if out == nil {
		return 0
	}
	if len(payload) > MaxPayload {
		payload = payload[:MaxPayload]
	}

	total := HeaderLen + len(payload) + CRCLen
	if len(out) < total {
		return 0
	}

	h := Header{
		Magic: Magic,
		Type:  typ,
		Ver:   ProtocolVersion,
		Len:   uint16(len(payload)),
		CmdID: cmdID,
		Seq:   seq,
		TsMs:  tsMs,
	}
	h.encode(out)
	copy(out[HeaderLen:], payload)

	crc := CRC16(out[:HeaderLen+len(payload)], crc16Seed)
	out[HeaderLen+len(payload)] = byte(crc)
	out[HeaderLen+len(payload)+1] = byte(crc >> 8)

	return total
}

// ParseFrame validates and decodes a single frame at the start of buf. On
// success it returns the decoded header, a slice into buf holding the
// payload, and the total number of bytes the frame occupied (HeaderLen +
// declared payload length + CRCLen). On failure it returns the zero Header,
// a nil payload, and 0. Callers must not assume the payload slice outlives
// buf, since it aliases it.
//
// ParseFrame fails (returns 0) when buf is too short to hold a header and
// trailer, when the magic or version don't match, when the header-declared
// length exceeds MaxPayload, when buf doesn't yet hold the full declared
// frame, or when the CRC doesn't match.
func ParseFrame(buf []byte) (hdr Header, payload []byte, consumed int) {
	if len(buf) < HeaderLen+CRCLen {
		return Header{}, nil, 0
	}

	h := decodeHeader(buf)
	if h.Magic != Magic || h.Ver != ProtocolVersion {
		return Header{}, nil, 0
	}
	if h.Len > MaxPayload {
		return Header{}, nil, 0
	}

	span := HeaderLen + int(h.Len)
	need := span + CRCLen
	if len(buf) < need {
		return Header{}, nil, 0
	}

	got := uint16(buf[span]) | uint16(buf[span+1])<<8
	calc := CRC16(buf[:span], crc16Seed)
	if got != calc {
		return Header{}, nil, 0
	}

	return h, buf[HeaderLen:span], need
}
