// Package transportif defines the link-layer contract the streaming core
// drives without caring whether bytes ultimately travel over UART, USB
// CDC, or a test double: a single-write transmit primitive, a readiness
// gate, a write-size hint, and an asynchronous RX callback.
package transportif

// Transport is the interface a concrete link driver implements so the
// streaming core never depends on a specific wire.
type Transport interface {
	// TxWrite attempts to write data as a single, all-or-nothing
	// operation. It returns len(data) on success, 0 if the link is busy
	// or not ready, or a negative value on a hard transport error.
	TxWrite(data []byte) int
	// LinkReady reports whether the transport can currently accept a
	// write; the engine's pump skips all work when this is false.
	LinkReady() bool
	// BestChunk returns the largest write size the transport can accept
	// right now without fragmenting (e.g. free space in a hardware FIFO).
	BestChunk() int
	// SetRXHandler installs the callback invoked with newly received
	// bytes, possibly from an interrupt or reader-goroutine context.
	SetRXHandler(fn func(data []byte))
}
