// Package protocol implements the wire format shared by every transport the
// streaming core can run over: frame header layout, CRC16, the frame codec,
// and the sentinel errors a caller needs to distinguish framing failures
// from command failures. Higher layers (ringbuf, txengine, dispatch, core)
// depend on this package; this package depends on nothing but the standard
// library.
package protocol

// Frame sizing.
//
// Layout, little-endian on the wire:
//
//	magic(2) | type(1) | ver(1) | len(2) | cmd_id(1) | rsv(1) | seq(4) | ts_ms(4) | payload(len) | crc16(2)
const (
	Magic uint16 = 0x5AA5

	HeaderLen  = 16
	CRCLen     = 2
	MaxPayload = 46

	// FrameMaxBytes is the largest a fully-framed message can be; a full
	// frame must fit in a single transport write.
	FrameMaxBytes = HeaderLen + MaxPayload + CRCLen // 64

	ProtocolVersion = 0

	crc16Seed = 0xFFFF
)

// Frame type codes (offset 2 in the header).
const (
	TypeStream uint8 = 0
	TypeCmd    uint8 = 1
	TypeAck    uint8 = 2
	TypeNack   uint8 = 3
)

func init() {
	// Go has no static_assert; these run once at package init and panic
	// immediately if the constants this package was built against are
	// inconsistent.
	if FrameMaxBytes > 64 {
		panic("protocol: FrameMaxBytes exceeds the 64-byte single-write budget")
	}
	if MaxPayload > 46 {
		panic("protocol: MaxPayload exceeds the header's len field budget")
	}
}
