package core

import (
	"github.com/powerscope/streamcore/dispatch"
	"github.com/powerscope/streamcore/protocol"
)

// processRX drains as many complete frames as are currently buffered in
// the RX ring, routing CMD frames to the dispatcher and discarding
// anything else (the core never processes device-to-host frame types
// arriving from the host). Each pass examines a copy of up to
// FrameMaxBytes from the read end, so a frame that wraps around the end
// of the ring's storage is parsed like any other.
func (c *Core) processRX(now uint32) {
	for {
		var window [protocol.FrameMaxBytes]byte
		run := window[:c.rx.CopyFront(window[:])]
		if len(run) < protocol.HeaderLen+protocol.CRCLen {
			return
		}

		if !looksLikeMagic(run) {
			if !resync(c.rx, run) {
				return // no magic in the examined bytes; wait for more
			}
			continue
		}

		hdr, payload, consumed := protocol.ParseFrame(run)
		if consumed == 0 {
			// A head with a valid version and length whose frame isn't
			// fully buffered yet waits for more bytes. Any other failure
			// (bad version, oversize length, or a complete frame with a
			// bad CRC) is corrupt: step past its magic so resync runs.
			plen := int(run[4]) | int(run[5])<<8
			if run[3] == protocol.ProtocolVersion && plen <= protocol.MaxPayload &&
				len(run) < protocol.HeaderLen+plen+protocol.CRCLen {
				return
			}
			c.rx.PopFront(1)
			continue
		}

		if hdr.Type == protocol.TypeCmd {
			c.handleCmd(hdr, payload, now)
		}
		c.rx.PopFront(consumed)
	}
}

// looksLikeMagic reports whether run begins with the frame magic.
func looksLikeMagic(run []byte) bool {
	return len(run) >= 2 && uint16(run[0])|uint16(run[1])<<8 == protocol.Magic
}

// resync scans forward within the contiguous region for the next magic
// and pops the skipped prefix. The final byte of run is never discarded
// even on a miss: it may be the first half of a magic word whose second
// half hasn't arrived yet, and popping it would permanently lose a
// frame that's otherwise intact. Returns false if no magic is found, after
// discarding every byte but the final one, so the caller waits for more
// bytes.
func resync(rx interface {
	PeekContiguous() []byte
	PopFront(int)
}, run []byte) bool {
	for i := 1; i <= len(run)-2; i++ {
		if uint16(run[i])|uint16(run[i+1])<<8 == protocol.Magic {
			rx.PopFront(i)
			return true
		}
	}
	if len(run) > 1 {
		rx.PopFront(len(run) - 1)
	}
	return false
}

// handleCmd applies the CMD-handling glue: oversize payloads are
// rejected before the dispatcher ever runs, successful dispatch formats
// an ACK, and failure formats a NACK (defaulting to InvalidCmd if the
// handler wrote no error byte).
func (c *Core) handleCmd(hdr protocol.Header, payload []byte, now uint32) {
	if len(payload) > protocol.MaxPayload {
		c.tx.SendResponse(protocol.TypeNack, hdr.CmdID, []byte{byte(dispatch.InvalidLen)}, hdr.Seq, now)
		return
	}

	resp := make([]byte, protocol.MaxPayload)
	n, ok, errCode := c.table.Dispatch(c, hdr.CmdID, payload, resp)
	if ok {
		c.tx.SendResponse(protocol.TypeAck, hdr.CmdID, resp[:n], hdr.Seq, now)
		return
	}

	if n == 0 {
		errCode = coalesceErr(errCode)
	}
	c.tx.SendResponse(protocol.TypeNack, hdr.CmdID, []byte{byte(errCode)}, hdr.Seq, now)
}

// coalesceErr applies the default-error-byte rule: an unset error code
// (zero value) becomes InvalidCmd.
func coalesceErr(errCode dispatch.ErrorCode) dispatch.ErrorCode {
	if errCode == 0 {
		return dispatch.InvalidCmd
	}
	return errCode
}
