package protocol

import (
	"testing"

	"github.com/sigurn/crc16"
)

func TestCRC16Empty(t *testing.T) {
	if got := CRC16(nil, crc16Seed); got != crc16Seed {
		t.Errorf("CRC16(empty, seed) = %#x, want seed %#x", got, crc16Seed)
	}
}

func TestCRC16Incremental(t *testing.T) {
	a := []byte{0x01, 0x02, 0x03}
	b := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	ab := append(append([]byte{}, a...), b...)

	whole := CRC16(ab, crc16Seed)
	incremental := CRC16(b, CRC16(a, crc16Seed))

	if whole != incremental {
		t.Errorf("CRC16 not composable: whole=%#x incremental=%#x", whole, incremental)
	}
}

// TestCRC16AgainstLibrary cross-checks the hand-written table-driven CRC
// against an independent library implementation of the same variant
// (CCITT-FALSE: poly 0x1021, init 0xFFFF, no reflection, no final xor).
func TestCRC16AgainstLibrary(t *testing.T) {
	table := crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

	vectors := [][]byte{
		nil,
		{},
		{0x00},
		{0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39},
		make([]byte, 64),
	}

	for i, v := range vectors {
		got := CRC16(v, crc16Seed)
		want := crc16.Checksum(v, table)
		if got != want {
			t.Errorf("vector %d: CRC16() = %#04x, library = %#04x", i, got, want)
		}
	}
}
