package dispatch

// Dispatch looks up cmdID in the table, parses payload, and invokes the
// handler. It returns the number of response bytes written, whether the
// command succeeded (ACK) or not (NACK), and an error code valid only
// when ok is false.
//
// Dispatch returns ok=false with errCode=InvalidCmd if cmdID has no
// registered entry, or if the parser rejects payload.
func (t *Table) Dispatch(h Host, cmdID uint8, payload []byte, resp []byte) (n int, ok bool, errCode ErrorCode) {
	e, found := t.lookup(cmdID)
	if !found {
		return 0, false, InvalidCmd
	}

	args, parsed := e.parser(payload)
	if !parsed {
		return 0, false, InvalidCmd
	}

	return e.handler(h, args, resp)
}
