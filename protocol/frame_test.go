package protocol

import (
	"bytes"
	"testing"
)

func TestWriteFrameSizing(t *testing.T) {
	tests := []struct {
		name     string
		payload  []byte
		wantSize int
	}{
		{name: "empty payload", payload: nil, wantSize: HeaderLen + CRCLen},
		{name: "small payload", payload: []byte{1, 2, 3, 4, 5}, wantSize: HeaderLen + 5 + CRCLen},
		{name: "maximum payload", payload: bytes.Repeat([]byte{0xAA}, MaxPayload), wantSize: FrameMaxBytes},
		{name: "oversized payload gets clamped", payload: bytes.Repeat([]byte{0xAA}, MaxPayload+50), wantSize: FrameMaxBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]byte, FrameMaxBytes)
			n := WriteFrame(out, TypeCmd, 0x05, tt.payload, 42, 1000)
			if n != tt.wantSize {
				t.Fatalf("WriteFrame() = %d, want %d", n, tt.wantSize)
			}

			hdr, payload, consumed := ParseFrame(out[:n])
			if consumed != n {
				t.Fatalf("ParseFrame() consumed = %d, want %d", consumed, n)
			}
			if hdr.Magic != Magic || hdr.Ver != ProtocolVersion {
				t.Fatalf("bad header: %+v", hdr)
			}
			wantLen := len(tt.payload)
			if wantLen > MaxPayload {
				wantLen = MaxPayload
			}
			if len(payload) != wantLen {
				t.Fatalf("payload length = %d, want %d", len(payload), wantLen)
			}
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		typ     uint8
		cmdID   uint8
		payload []byte
		seq     uint32
		ts      uint32
	}{
		{name: "empty payload", typ: TypeAck, cmdID: 5, payload: nil, seq: 1, ts: 0},
		{name: "small payload", typ: TypeCmd, cmdID: 3, payload: []byte{1, 0xE8, 0x03}, seq: 123, ts: 500},
		{name: "maximum payload", typ: TypeStream, cmdID: 0, payload: bytes.Repeat([]byte{0xAA}, MaxPayload), seq: 0xFFFFFFFF, ts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]byte, FrameMaxBytes)
			n := WriteFrame(out, tt.typ, tt.cmdID, tt.payload, tt.seq, tt.ts)
			if n == 0 {
				t.Fatal("WriteFrame() returned 0")
			}

			hdr, payload, consumed := ParseFrame(out[:n])
			if consumed != n {
				t.Fatalf("consumed = %d, want %d", consumed, n)
			}
			if hdr.Type != tt.typ {
				t.Errorf("Type = %v, want %v", hdr.Type, tt.typ)
			}
			if hdr.CmdID != tt.cmdID {
				t.Errorf("CmdID = %v, want %v", hdr.CmdID, tt.cmdID)
			}
			if hdr.Seq != tt.seq {
				t.Errorf("Seq = %v, want %v", hdr.Seq, tt.seq)
			}
			if hdr.TsMs != tt.ts {
				t.Errorf("TsMs = %v, want %v", hdr.TsMs, tt.ts)
			}
			if len(payload) != len(tt.payload) {
				t.Errorf("payload length = %v, want %v", len(payload), len(tt.payload))
			} else if len(payload) > 0 && !bytes.Equal(payload, tt.payload) {
				t.Errorf("payload mismatch: got %v want %v", payload, tt.payload)
			}
		})
	}
}

func TestParseFrameRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil data", data: nil},
		{name: "too short", data: []byte{0x01, 0x02}},
		{
			name: "bad magic",
			data: func() []byte {
				out := make([]byte, FrameMaxBytes)
				n := WriteFrame(out, TypeCmd, 5, nil, 1, 0)
				out[0] ^= 0xFF
				return out[:n]
			}(),
		},
		{
			name: "declared len over MaxPayload",
			data: func() []byte {
				out := make([]byte, HeaderLen+CRCLen)
				h := Header{Magic: Magic, Type: TypeCmd, Ver: ProtocolVersion, Len: MaxPayload + 1}
				h.encode(out)
				return out
			}(),
		},
		{
			name: "corrupt crc",
			data: func() []byte {
				out := make([]byte, FrameMaxBytes)
				n := WriteFrame(out, TypeCmd, 5, []byte{1, 2, 3}, 1, 0)
				out[n-1] ^= 0xFF
				return out[:n]
			}(),
		},
		{
			name: "incomplete frame",
			data: func() []byte {
				out := make([]byte, FrameMaxBytes)
				n := WriteFrame(out, TypeCmd, 5, []byte{1, 2, 3}, 1, 0)
				return out[:n-1]
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, payload, consumed := ParseFrame(tt.data)
			if consumed != 0 || payload != nil {
				t.Errorf("ParseFrame(%q) = (_, %v, %d), want (_, nil, 0)", tt.name, payload, consumed)
			}
		})
	}
}

func TestWriteFrameInvalidArgs(t *testing.T) {
	if n := WriteFrame(nil, TypeCmd, 1, nil, 0, 0); n != 0 {
		t.Errorf("WriteFrame(nil, ...) = %d, want 0", n)
	}
	small := make([]byte, HeaderLen)
	if n := WriteFrame(small, TypeCmd, 1, nil, 0, 0); n != 0 {
		t.Errorf("WriteFrame(undersized, ...) = %d, want 0", n)
	}
}
