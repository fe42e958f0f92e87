package dicomstream_test

import (
	"bytes"
	"testing"

	"github.com/odincare/dicomcore/dicomstream"
	"github.com/stretchr/testify/require"
)

func TestReaderViewReadFully(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("0123456789")), 10)
	buf := make([]byte, 4)
	require.NoError(t, v.ReadFully(buf))
	require.Equal(t, []byte("0123"), buf)
	require.EqualValues(t, 4, v.Position())
	require.False(t, v.EndReached())
}

func TestReaderViewReadFullyShortReadFails(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("ab")), 2)
	buf := make([]byte, 4)
	require.ErrorIs(t, v.ReadFully(buf), dicomstream.ErrStreamEOF)
}

func TestReaderViewSkip(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("0123456789")), 10)
	require.NoError(t, v.Skip(5))
	buf := make([]byte, 2)
	require.NoError(t, v.ReadFully(buf))
	require.Equal(t, []byte("56"), buf)
}

func TestReaderViewNotSeekable(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("x")), 1)
	require.False(t, v.Seekable())
	require.ErrorIs(t, v.Seek(0), dicomstream.ErrNotSeekable)
}

func TestReaderViewTerminateClosesFurtherReads(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("0123")), 4)
	v.Terminate()
	require.True(t, v.EndReached())
	_, err := v.Read(make([]byte, 1))
	require.ErrorIs(t, err, dicomstream.ErrStreamClosed)
}

func TestWindowRequiresSeekableBase(t *testing.T) {
	v := dicomstream.NewReaderView(bytes.NewReader([]byte("0123456789")), 10)
	_, err := dicomstream.Window(v, 2, 4)
	require.ErrorIs(t, err, dicomstream.ErrNotSeekable)
}
