// Package stub provides a host-side transportif.Transport test double
// backed by in-memory byte queues, so core/txengine tests can run
// without a real UART or USB link.
package stub

import (
	"sync"

	"github.com/powerscope/streamcore/transportif"
)

// Transport is a configurable transportif.Transport double. Ready
// defaults to true and Chunk defaults to unlimited (0 means unlimited).
type Transport struct {
	mu sync.Mutex

	Ready bool
	Chunk int // 0 means "no limit"

	writes  [][]byte
	rxFn    func(data []byte)
	onWrite func(data []byte) int // optional override, e.g. to simulate busy/short writes
}

// New returns a ready, unlimited-chunk transport double.
func New() *Transport {
	return &Transport{Ready: true}
}

func (t *Transport) TxWrite(data []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Ready {
		return 0
	}
	if t.onWrite != nil {
		return t.onWrite(data)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	t.writes = append(t.writes, cp)
	return len(data)
}

func (t *Transport) LinkReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Ready
}

func (t *Transport) BestChunk() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Chunk
}

func (t *Transport) SetRXHandler(fn func(data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rxFn = fn
}

// InjectRX delivers data to the installed RX handler, simulating bytes
// arriving from the link.
func (t *Transport) InjectRX(data []byte) {
	t.mu.Lock()
	fn := t.rxFn
	t.mu.Unlock()
	if fn != nil {
		fn(data)
	}
}

// SetWriteOverride installs a custom TxWrite behaviour, for simulating
// busy (0) or short writes in tests.
func (t *Transport) SetWriteOverride(fn func(data []byte) int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onWrite = fn
}

// Writes returns a snapshot of every buffer accepted by TxWrite so far.
func (t *Transport) Writes() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.writes))
	copy(out, t.writes)
	return out
}

var _ transportif.Transport = (*Transport)(nil)
