package dicombuffer

import "github.com/odincare/dicomcore/dicommemory"

// RawReadingHandler is byte-level, VR-agnostic read access to a
// materialized Buffer, per spec.md §4.2's getRawReadingHandler. It is
// immutable once constructed and safe for concurrent use.
type RawReadingHandler struct {
	mem dicommemory.Memory
}

// Bytes returns the buffer's full byte content.
func (h *RawReadingHandler) Bytes() []byte { return h.mem.Bytes() }

// Len returns the number of bytes available.
func (h *RawReadingHandler) Len() int { return h.mem.Len() }

// RawWritingHandler accumulates bytes for a single-owner write, publishing
// them back to the source Buffer on Commit, per spec.md §4.2's
// getRawWritingHandler and the WritingHandler lifecycle in §4.3.
type RawWritingHandler struct {
	buf       *Buffer
	data      []byte
	published bool
}

// Write appends p to the accumulated bytes.
func (h *RawWritingHandler) Write(p []byte) (int, error) {
	h.data = append(h.data, p...)
	return len(p), nil
}

// SetBytes replaces the accumulated bytes outright.
func (h *RawWritingHandler) SetBytes(p []byte) {
	h.data = append(h.data[:0], p...)
}

// Commit publishes the accumulated bytes to the owning Buffer and releases
// the Buffer's writer-busy lock. A handler must not be used after Commit.
func (h *RawWritingHandler) Commit() {
	if h.published {
		return
	}
	h.published = true
	h.buf.mu.Lock()
	h.buf.writerActive = false
	h.buf.mu.Unlock()
	h.buf.Commit(dicommemory.New(h.data))
}

// Discard releases the Buffer's writer-busy lock without publishing any
// bytes, used when a WritingHandler's construction is abandoned mid-flight
// (e.g. a validate() failure per spec.md §4.3).
func (h *RawWritingHandler) Discard() {
	if h.published {
		return
	}
	h.published = true
	h.buf.mu.Lock()
	h.buf.writerActive = false
	h.buf.mu.Unlock()
}
