package ringbuf

// Buffer is the polymorphic byte-container contract the TX engine and RX
// path program against, so either a Ring or a test double can back them
// interchangeably. Data is appended at the "new" end and consumed (popped)
// from the "old" end.
type Buffer interface {
	// Size returns the number of bytes currently stored.
	Size() int
	// Space returns the number of bytes that can be appended without overwrite.
	Space() int
	// Capacity returns the total backing capacity in bytes.
	Capacity() int
	// Clear empties the buffer.
	Clear()
	// Append writes src in its entirety or not at all, returning whether it fit.
	Append(src []byte) bool
	// PopFront removes n bytes from the read end.
	PopFront(n int)
	// CopyFront copies up to len(dst) bytes from the read end without
	// consuming them, returning the number of bytes copied.
	CopyFront(dst []byte) int
	// PeekContiguous returns the longest contiguous run of unread bytes
	// starting at the read end, without advancing it.
	PeekContiguous() []byte
}

// Size implements Buffer.
func (r *Ring) Size() int { return r.Used() }

// Space implements Buffer.
func (r *Ring) Space() int { return r.Free() }

// Append implements Buffer: all-or-nothing, backed by WriteTry.
func (r *Ring) Append(src []byte) bool {
	if len(src) == 0 {
		return true
	}
	return r.WriteTry(src) == len(src)
}

// PopFront implements Buffer.
func (r *Ring) PopFront(n int) { r.Pop(n) }

// CopyFront implements Buffer.
func (r *Ring) CopyFront(dst []byte) int { return r.CopyFromTail(dst) }

// PeekContiguous implements Buffer.
func (r *Ring) PeekContiguous() []byte { return r.PeekLinear() }

var _ Buffer = (*Ring)(nil)
