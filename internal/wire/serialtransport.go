package wire

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/powerscope/streamcore/transportif"
)

// SerialTransport adapts any io.ReadWriteCloser (a tarm/serial.Port or a
// go.bug.st/serial.Port both qualify) into a transportif.Transport: writes
// are forwarded synchronously, and a background goroutine feeds received
// bytes to the installed RX handler.
type SerialTransport struct {
	port      io.ReadWriteCloser
	bestChunk int

	mu   sync.Mutex
	rxFn func(data []byte)

	closed atomic.Bool
}

// NewSerialTransport wraps port. bestChunk caps the size of a single
// TxWrite the caller should attempt (0 means unlimited); pass the
// driver's FIFO or staging-buffer size where known.
func NewSerialTransport(port io.ReadWriteCloser, bestChunk int) *SerialTransport {
	t := &SerialTransport{port: port, bestChunk: bestChunk}
	go t.readLoop()
	return t
}

func (t *SerialTransport) readLoop() {
	buf := make([]byte, 256)
	for {
		if t.closed.Load() {
			return
		}
		n, err := t.port.Read(buf)
		if n > 0 {
			t.mu.Lock()
			fn := t.rxFn
			t.mu.Unlock()
			if fn != nil {
				fn(buf[:n])
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("[wire] serial read error: %v", err)
			}
			return
		}
	}
}

// TxWrite writes data to the port as a single call. It returns len(data)
// on success or a negative value on a hard write error; this transport
// has no concept of "busy", so it never returns 0.
func (t *SerialTransport) TxWrite(data []byte) int {
	n, err := t.port.Write(data)
	if err != nil {
		log.Printf("[wire] serial write error: %v", err)
		return -1
	}
	return n
}

func (t *SerialTransport) LinkReady() bool { return !t.closed.Load() }

func (t *SerialTransport) BestChunk() int { return t.bestChunk }

func (t *SerialTransport) SetRXHandler(fn func(data []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rxFn = fn
}

// Close stops the read loop and closes the underlying port.
func (t *SerialTransport) Close() error {
	t.closed.Store(true)
	return t.port.Close()
}

var _ transportif.Transport = (*SerialTransport)(nil)
