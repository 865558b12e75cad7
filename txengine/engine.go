// Package txengine drives outbound framing: a frame-aware drop-oldest
// stream ring, a single-entry overwriting response slot that always
// drains first, and a one-frame-per-pump writer onto a transportif.Transport.
package txengine

import (
	"log"

	"github.com/powerscope/streamcore/protocol"
	"github.com/powerscope/streamcore/ringbuf"
	"github.com/powerscope/streamcore/transportif"
)

// responseSlot holds at most one formatted frame awaiting transmission.
// A new SendResponse overwrites whatever was pending: responses are
// per-command, so a newer one obsoletes an older one.
type responseSlot struct {
	buf     [protocol.FrameMaxBytes]byte
	len     int
	pending bool
}

// Engine is the per-core TX subsystem: a stream ring plus a response slot,
// pumped onto a transportif.Transport.
type Engine struct {
	ring      *ringbuf.Ring
	transport transportif.Transport
	resp      responseSlot

	maxPayload int // 0 means unbounded (beyond protocol.MaxPayload)
}

// New wires an Engine around ring (backing the outbound stream queue) and
// transport (the link pumped frames are written to). maxPayload, when
// non-zero, additionally caps SendStream payloads below protocol.MaxPayload.
func New(ring *ringbuf.Ring, transport transportif.Transport, maxPayload int) *Engine {
	return &Engine{ring: ring, transport: transport, maxPayload: maxPayload}
}

// EnqueueFrame appends a fully-formed frame to the stream ring, evicting
// complete frames from the head (drop-oldest) to make room, and clearing
// the ring entirely as a last resort if the head is an incomplete frame
// that can't be resynced by eviction alone. It reports whether the frame
// was appended.
func (e *Engine) EnqueueFrame(frame []byte) bool {
	n := len(frame)
	if n == 0 || n > e.ring.Capacity()-1 {
		return false
	}
	for e.ring.Free() < n {
		if e.DropOneFrame() == 0 {
			e.ring.Clear()
			break
		}
	}
	return e.ring.Append(frame)
}

// DropOneFrame evicts the oldest complete frame (or resyncs past one
// corrupt byte) from the head of the stream ring. It returns 1 if it made
// forward progress, 0 if the head holds an incomplete frame that more
// bytes might still complete (the caller should clear() in that case).
func (e *Engine) DropOneFrame() int {
	used := e.ring.Used()
	if used < protocol.HeaderLen+protocol.CRCLen {
		return 0
	}

	hdr := make([]byte, protocol.HeaderLen)
	e.ring.CopyFront(hdr)
	frameLen := headerFrameLen(hdr)
	if frameLen <= 0 {
		e.ring.PopFront(1) // byte-level resync
		return 1
	}
	if used < frameLen {
		return 0 // incomplete; caller clears as last resort
	}
	e.ring.PopFront(frameLen)
	return 1
}

// headerFrameLen decodes just enough of a raw header to compute the total
// on-wire frame length, without requiring the CRC trailer to be present
// yet. It returns -1 if the header's magic/version don't match.
func headerFrameLen(hdr []byte) int {
	if len(hdr) < protocol.HeaderLen {
		return -1
	}
	magic := uint16(hdr[0]) | uint16(hdr[1])<<8
	if magic != protocol.Magic {
		return -1
	}
	ver := hdr[3]
	if ver != protocol.ProtocolVersion {
		return -1
	}
	plen := uint16(hdr[4]) | uint16(hdr[5])<<8
	if plen > protocol.MaxPayload {
		return -1
	}
	return protocol.HeaderLen + int(plen) + protocol.CRCLen
}

// SendResponse formats an ACK/NACK frame into the response slot,
// overwriting any previously pending response.
func (e *Engine) SendResponse(typ, cmdID uint8, payload []byte, seq, tsMs uint32) {
	n := protocol.WriteFrame(e.resp.buf[:], typ, cmdID, payload, seq, tsMs)
	if n == 0 {
		log.Printf("[txengine] dropped oversized response cmd=%d", cmdID)
		return
	}
	e.resp.len = n
	e.resp.pending = true
}

// SendStream builds a STREAM frame and routes it through EnqueueFrame. If
// maxPayload is configured and payload exceeds it, the send is silently
// dropped.
func (e *Engine) SendStream(payload []byte, seq, tsMs uint32) {
	if e.maxPayload != 0 && len(payload) > e.maxPayload {
		return
	}
	var buf [protocol.FrameMaxBytes]byte
	n := protocol.WriteFrame(buf[:], protocol.TypeStream, 0, payload, seq, tsMs)
	if n == 0 {
		return
	}
	if !e.EnqueueFrame(buf[:n]) {
		log.Printf("[txengine] stream frame dropped, seq=%d", seq)
	}
}

// Pump attempts to write exactly one frame: the response slot if pending,
// otherwise the head of the stream ring. It is a no-op if the transport
// isn't link-ready.
func (e *Engine) Pump() {
	if !e.transport.LinkReady() {
		return
	}

	chunk := e.transport.BestChunk()

	if e.resp.pending {
		if chunk != 0 && e.resp.len > chunk {
			return
		}
		n := e.transport.TxWrite(e.resp.buf[:e.resp.len])
		if n == e.resp.len {
			e.resp.pending = false
		}
		return
	}

	e.pumpStream(chunk)
}

func (e *Engine) pumpStream(chunk int) {
	used := e.ring.Used()
	if used < protocol.HeaderLen+protocol.CRCLen {
		return
	}

	hdr := make([]byte, protocol.HeaderLen)
	e.ring.CopyFront(hdr)
	frameLen := headerFrameLen(hdr)
	if frameLen <= 0 {
		e.ring.PopFront(1)
		return
	}
	if used < frameLen {
		return
	}
	if chunk != 0 && frameLen > chunk {
		return
	}

	run := e.ring.PeekContiguous()
	var n int
	if len(run) >= frameLen {
		n = e.transport.TxWrite(run[:frameLen])
	} else {
		var local [protocol.FrameMaxBytes]byte
		got := e.ring.CopyFront(local[:frameLen])
		if got != frameLen {
			return
		}
		n = e.transport.TxWrite(local[:frameLen])
	}

	if n == frameLen {
		e.ring.PopFront(frameLen)
	}
}
