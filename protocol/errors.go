package protocol

import "errors"

// Sentinel errors a caller can use outside the hot path (ParseFrame/
// WriteFrame themselves just return a 0 consumed/written count, matching
// the original C return-code convention; these are for the Go-idiomatic
// call sites layered above them, e.g. transport wiring).
var (
	ErrShortBuffer     = errors.New("protocol: buffer too short for a frame")
	ErrBadMagic        = errors.New("protocol: bad magic")
	ErrBadVersion      = errors.New("protocol: unsupported version")
	ErrPayloadTooLarge = errors.New("protocol: payload exceeds MaxPayload")
	ErrCRCMismatch     = errors.New("protocol: CRC mismatch")
)
