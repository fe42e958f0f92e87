// Package dicombuffer implements Buffer, the tag-value container spec.md
// §4.2 describes: deferred (a window into a StreamView, materialized on
// first access) or resident (an owned rope of Memory blocks). Buffer only
// deals in raw bytes; per-VR interpretation lives in dicomhandler, which
// takes a *Buffer and returns a typed handler — keeping this package free
// of a dependency on the VR catalog.
package dicombuffer

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/odincare/dicomcore/dicommemory"
	"github.com/odincare/dicomcore/dicomstream"
)

// Sentinel errors.
var (
	// ErrBufferBusy is returned by GetRawWritingHandler when a writing
	// handler is already under construction on this Buffer.
	ErrBufferBusy = errors.New("dicombuffer: buffer busy: concurrent writing handler")
)

// deferredSource describes a not-yet-materialized buffer: a byte range of
// a StreamView, plus the word layout needed to byte-swap on load.
type deferredSource struct {
	view      dicomstream.View
	offset    int64
	length    int64
	wordSize  int
	byteOrder binary.ByteOrder
}

// Buffer holds the bytes of a single tag value, per spec.md §3/§4.2.
type Buffer struct {
	mu sync.Mutex

	deferred *deferredSource
	rope     []dicommemory.Memory

	writerActive bool
}

// NewResident builds an already-materialized Buffer from mem.
func NewResident(mem dicommemory.Memory) *Buffer {
	return &Buffer{rope: []dicommemory.Memory{mem}}
}

// NewEmpty builds an empty resident Buffer, ready for writes.
func NewEmpty() *Buffer {
	return &Buffer{rope: nil}
}

// NewDeferred builds a Buffer that materializes lazily from view's
// [offset, offset+length) range, byte-swapping wordSize-byte words from
// byteOrder on load.
func NewDeferred(view dicomstream.View, offset, length int64, wordSize int, byteOrder binary.ByteOrder) *Buffer {
	return &Buffer{
		deferred: &deferredSource{
			view:      view,
			offset:    offset,
			length:    length,
			wordSize:  wordSize,
			byteOrder: byteOrder,
		},
	}
}

// SizeBytes returns the buffer's logical length without materializing it.
func (b *Buffer) SizeBytes() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deferred != nil {
		return b.deferred.length
	}
	var n int64
	for _, m := range b.rope {
		n += int64(m.Len())
	}
	return n
}

// materializeLocked loads the deferred source into a single Memory block
// and collapses the rope, applying the word-size endian swap spec.md §4.2
// requires. Caller must hold b.mu.
func (b *Buffer) materializeLocked() error {
	if b.deferred == nil {
		if len(b.rope) > 1 {
			b.rope = []dicommemory.Memory{dicommemory.Concat(b.rope)}
		}
		return nil
	}
	d := b.deferred
	buf := make([]byte, d.length)
	if seekable, ok := d.view.(interface{ Seekable() bool }); ok && seekable.Seekable() {
		if err := d.view.Seek(d.offset); err != nil {
			return err
		}
	}
	if err := d.view.ReadFully(buf); err != nil {
		return err
	}
	dicommemory.AdjustEndian(buf, d.wordSize, d.byteOrder)
	b.rope = []dicommemory.Memory{dicommemory.New(buf)}
	b.deferred = nil
	return nil
}

// Materialize forces a deferred Buffer resident, returning the collapsed
// Memory block.
func (b *Buffer) Materialize() (dicommemory.Memory, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.materializeLocked(); err != nil {
		return dicommemory.Memory{}, err
	}
	return b.rope[0], nil
}

// Commit replaces the Buffer's content with mem, discarding any deferred
// source or partial rope. Used by a WritingHandler's flush.
func (b *Buffer) Commit(mem dicommemory.Memory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deferred = nil
	b.rope = []dicommemory.Memory{mem}
}

// AppendMemory grows the rope by one block, used when assembling
// encapsulated pixel data fragment by fragment. Forces the buffer
// resident first if it was deferred.
func (b *Buffer) AppendMemory(mem dicommemory.Memory) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deferred != nil {
		if err := b.materializeLocked(); err != nil {
			return err
		}
	}
	b.rope = append(b.rope, mem)
	return nil
}

// GetRawReadingHandler materializes the buffer (if needed) and returns a
// read-only view over its bytes. The returned handler is immutable and
// safe for concurrent use without further locking, per spec.md §4.2.
func (b *Buffer) GetRawReadingHandler() (*RawReadingHandler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.materializeLocked(); err != nil {
		return nil, err
	}
	var mem dicommemory.Memory
	if len(b.rope) > 0 {
		mem = b.rope[0]
	}
	return &RawReadingHandler{mem: mem}, nil
}

// GetRawWritingHandler returns a handler that accumulates bytes; the
// caller must call Commit on it to publish them back to the Buffer (or
// Discard to abandon the write). Fails with ErrBufferBusy if another writing handler is already
// under construction, matching spec.md §5's "two concurrent WritingHandlers
// on the same Buffer" programming-error case.
func (b *Buffer) GetRawWritingHandler(hintSize int) (*RawWritingHandler, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writerActive {
		return nil, ErrBufferBusy
	}
	b.writerActive = true
	return &RawWritingHandler{buf: b, data: make([]byte, 0, hintSize)}, nil
}

// GetStreamReader returns a StreamView over the buffer's bytes: directly
// over the deferred source when one exists (zero-copy), or a fresh
// ReaderView over the materialized Memory otherwise.
func (b *Buffer) GetStreamReader() (dicomstream.View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deferred != nil {
		return dicomstream.Window(b.deferred.view, b.deferred.offset, b.deferred.length)
	}
	mem := dicommemory.Concat(b.rope)
	return dicomstream.NewReaderView(&byteSliceReader{mem.Bytes()}, int64(mem.Len())), nil
}

// byteSliceReader adapts a byte slice to io.Reader for ReaderView.
type byteSliceReader struct{ b []byte }

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}
