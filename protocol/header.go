package protocol

import "encoding/binary"

// Header is the 16-byte frame header, decoded from its little-endian wire
// representation.
type Header struct {
	Magic uint16
	Type  uint8
	Ver   uint8
	Len   uint16
	CmdID uint8
	Rsv   uint8
	Seq   uint32
	TsMs  uint32
}

func (h *Header) encode(dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], h.Magic)
	dst[2] = h.Type
	dst[3] = h.Ver
	binary.LittleEndian.PutUint16(dst[4:6], h.Len)
	dst[6] = h.CmdID
	dst[7] = h.Rsv
	binary.LittleEndian.PutUint32(dst[8:12], h.Seq)
	binary.LittleEndian.PutUint32(dst[12:16], h.TsMs)
}

func decodeHeader(src []byte) Header {
	return Header{
		Magic: binary.LittleEndian.Uint16(src[0:2]),
		Type:  src[2],
		Ver:   src[3],
		Len:   binary.LittleEndian.Uint16(src[4:6]),
		CmdID: src[6],
		Rsv:   src[7],
		Seq:   binary.LittleEndian.Uint32(src[8:12]),
		TsMs:  binary.LittleEndian.Uint32(src[12:16]),
	}
}
