// Package ringbuf implements the single-producer/single-consumer byte ring
// the streaming core uses for its RX and TX queues, plus the Buffer
// interface both the ring and a test double can satisfy.
//
// Capacity must be a power of two (one slot is always reserved, so usable
// capacity is cap-1). The producer side (WriteTry) and consumer side
// (Pop/CopyFromTail/PeekLinear) may run concurrently from different
// goroutines without a lock: the write index is only ever stored by the
// producer and loaded by the consumer, and vice versa for the read index,
// both through sync/atomic — the Go equivalent of the spec's
// Release/Acquire ordering on volatile indices. The producer publishes the
// write index only after the payload bytes are stored; the consumer
// publishes the read index only after the bytes are consumed.
package ringbuf

import "sync/atomic"

// Ring is an SPSC byte ring buffer over caller-provided storage. Indices
// are kept in [0, cap) at all times, so used = (head-tail) mod cap can be
// computed with a mask since cap is a power of two.
type Ring struct {
	buf  []byte
	mask uint32

	head atomic.Uint32 // producer-owned write index
	tail atomic.Uint32 // consumer-owned read index

	rejected  atomic.Uint64
	highwater atomic.Uint32
}

// New wraps mem as ring storage. len(mem) must be a nonzero power of two
// no larger than 65536; New panics otherwise, mirroring the "caller
// guarantees" contract of rb_init.
func New(mem []byte) *Ring {
	n := len(mem)
	if n == 0 || n&(n-1) != 0 || n > 65536 {
		panic("ringbuf: capacity must be a nonzero power of two <= 65536")
	}
	return &Ring{buf: mem, mask: uint32(n - 1)}
}

// Capacity returns the total backing capacity in bytes (usable capacity is
// Capacity()-1; one slot is always reserved).
func (r *Ring) Capacity() int { return len(r.buf) }

func (r *Ring) used(head, tail uint32) uint32 { return (head - tail) & r.mask }

// Used returns the number of bytes currently stored.
func (r *Ring) Used() int {
	return int(r.used(r.head.Load(), r.tail.Load()))
}

// Free returns the number of bytes that can be appended without overwrite.
func (r *Ring) Free() int {
	return len(r.buf) - 1 - r.Used()
}

// Rejected returns the cumulative number of bytes refused by WriteTry.
func (r *Ring) Rejected() uint64 { return r.rejected.Load() }

// Highwater returns the maximum Used() observed since the ring was
// created; Clear does not reset it.
func (r *Ring) Highwater() int { return int(r.highwater.Load()) }

// Clear drops all pending data by moving the read index to the write
// index. Metrics (Rejected, Highwater) are preserved.
func (r *Ring) Clear() {
	r.tail.Store(r.head.Load())
}

// WriteTry appends src atomically iff len(src) <= Capacity()-1 and there is
// enough free space; otherwise it writes nothing and adds len(src) to the
// rejected counter. It returns the number of bytes written: len(src) on
// success, 0 on rejection.
func (r *Ring) WriteTry(src []byte) int {
	n := len(src)
	if n == 0 {
		return 0
	}
	if n > len(r.buf)-1 || r.Free() < n {
		r.rejected.Add(uint64(n))
		return 0
	}

	head := r.head.Load()
	for i := 0; i < n; i++ {
		r.buf[(int(head)+i)&int(r.mask)] = src[i]
	}
	newHead := (head + uint32(n)) & r.mask
	r.head.Store(newHead)

	if used := r.used(newHead, r.tail.Load()); used > uint32(r.highwater.Load()) {
		r.highwater.Store(used)
	}
	return n
}

// PeekLinear returns the longest contiguous run of unread bytes starting at
// the read index, without advancing it. The returned slice aliases the
// ring's backing storage and is only valid until the next Pop/WriteTry.
func (r *Ring) PeekLinear() []byte {
	used := r.Used()
	if used == 0 {
		return nil
	}
	tail := int(r.tail.Load())
	run := len(r.buf) - tail
	if run > used {
		run = used
	}
	return r.buf[tail : tail+run]
}

// Pop advances the read index by n bytes. The caller guarantees n <= Used().
func (r *Ring) Pop(n int) {
	if n <= 0 {
		return
	}
	tail := r.tail.Load()
	r.tail.Store((tail + uint32(n)) & r.mask)
}

// CopyFromTail non-destructively copies up to min(len(dst), Used()) bytes
// starting at the read index into dst, handling wraparound, and returns
// the number of bytes copied. CopyFromTail returns 0 if dst is nil.
func (r *Ring) CopyFromTail(dst []byte) int {
	if dst == nil {
		return 0
	}
	n := len(dst)
	used := r.Used()
	if n > used {
		n = used
	}
	tail := int(r.tail.Load())
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(tail+i)&int(r.mask)]
	}
	return n
}
