package dicomstream

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MMapFile is a seekable, zero-copy StreamView over a memory-mapped file,
// grounded on saferwall-pe's file.go (which maps a PE binary read-only
// instead of issuing read(2) calls). It is the module's concrete answer
// to spec.md's "external I/O collaborator". The stream codec does not
// use it: ParseStream and ParseBytes keep every parsed buffer resident.
type MMapFile struct {
	f      *os.File
	data   mmap.MMap
	pos    int64
	closed bool
}

// OpenMMapFile maps path read-only.
func OpenMMapFile(path string) (*MMapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		// mmap.Map refuses to map a zero-length file; treat it as an
		// empty, already-exhausted view.
		return &MMapFile{f: f, data: mmap.MMap{}}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MMapFile{f: f, data: m}, nil
}

func (m *MMapFile) Read(buf []byte) (int, error) {
	if m.closed {
		return 0, ErrStreamClosed
	}
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(buf, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MMapFile) ReadFully(buf []byte) error {
	if m.closed {
		return ErrStreamClosed
	}
	if m.pos+int64(len(buf)) > int64(len(m.data)) {
		return ErrStreamEOF
	}
	copy(buf, m.data[m.pos:m.pos+int64(len(buf))])
	m.pos += int64(len(buf))
	return nil
}

func (m *MMapFile) Skip(n int64) error {
	if n < 0 || m.pos+n > int64(len(m.data)) {
		return ErrStreamEOF
	}
	m.pos += n
	return nil
}

func (m *MMapFile) Position() int64      { return m.pos }
func (m *MMapFile) Seekable() bool       { return true }
func (m *MMapFile) VirtualLength() int64 { return int64(len(m.data)) }
func (m *MMapFile) EndReached() bool     { return m.closed || m.pos >= int64(len(m.data)) }

func (m *MMapFile) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(m.data)) {
		return ErrStreamEOF
	}
	m.pos = pos
	return nil
}

// Bytes returns the raw mapped region backing [offset, offset+length)
// without copying it.
func (m *MMapFile) Bytes(offset, length int64) []byte {
	return m.data[offset : offset+length]
}

// Terminate unmaps the file and closes the descriptor. Later Read and
// ReadFully calls fail with ErrStreamClosed; Skip and Seek do not check
// the flag.
func (m *MMapFile) Terminate() {
	if m.closed {
		return
	}
	m.closed = true
	if len(m.data) > 0 {
		m.data.Unmap()
	}
	m.f.Close()
}
