// Package dicommemory implements Memory, the immutable, shared
// byte block that backs every materialized Buffer in the tree model. Once
// published a Memory's bytes never change; callers that need to mutate
// build a new Memory and swap it in.
package dicommemory

import "encoding/binary"

// Memory is an immutable byte block. The zero value is an empty block.
// Values are small structs (a pointer to the shared bytes) so they
// are cheap to copy; the underlying array is never written to once a
// Memory escapes the function that built it.
type Memory struct {
	data *sharedBytes
}

type sharedBytes struct {
	b []byte
}

// New wraps b as a Memory. The caller must not modify b after this call;
// use Clone instead if the caller still owns b elsewhere.
func New(b []byte) Memory {
	return Memory{data: &sharedBytes{b: b}}
}

// Clone copies b into a new, independently-owned Memory.
func Clone(b []byte) Memory {
	cp := make([]byte, len(b))
	copy(cp, b)
	return New(cp)
}

// Len returns the number of bytes in m.
func (m Memory) Len() int {
	if m.data == nil {
		return 0
	}
	return len(m.data.b)
}

// Bytes returns the underlying byte slice. Callers must treat it as
// read-only; Memory makes no copy-on-read guarantee.
func (m Memory) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return m.data.b
}

// Concat returns a new Memory holding the concatenation of blocks in order.
// A single-block rope is returned as-is without copying.
func Concat(blocks []Memory) Memory {
	if len(blocks) == 1 {
		return blocks[0]
	}
	total := 0
	for _, b := range blocks {
		total += b.Len()
	}
	out := make([]byte, 0, total)
	for _, b := range blocks {
		out = append(out, b.Bytes()...)
	}
	return New(out)
}

// AdjustEndian byte-swaps buf in place, wordSize bytes at a time, when
// desired differs from the platform's native order. wordSize must be one
// of {1, 2, 4, 8}; wordSize==1 is always a no-op. len(buf) must be a
// multiple of wordSize.
func AdjustEndian(buf []byte, wordSize int, desired binary.ByteOrder) {
	if wordSize <= 1 || desired == nativeOrder {
		return
	}
	for off := 0; off+wordSize <= len(buf); off += wordSize {
		word := buf[off : off+wordSize]
		for i, j := 0, wordSize-1; i < j; i, j = i+1, j-1 {
			word[i], word[j] = word[j], word[i]
		}
	}
}

// nativeOrder is the byte order this platform's integer registers use.
// DICOM streams are always little-endian on the wire (big-endian transfer
// syntax is deprecated-but-readable); AdjustEndian is the hook that makes
// materialization correct on a (hypothetical) big-endian host too.
var nativeOrder = func() binary.ByteOrder {
	var x uint16 = 1
	b := []byte{0, 0}
	binary.LittleEndian.PutUint16(b, x)
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()
