package dicommemory_test

import (
	"encoding/binary"
	"testing"

	"github.com/odincare/dicomcore/dicommemory"
	"github.com/stretchr/testify/require"
)

func TestCloneIsIndependentOfSource(t *testing.T) {
	src := []byte("abc")
	m := dicommemory.Clone(src)
	src[0] = 'z'
	require.Equal(t, []byte("abc"), m.Bytes())
}

func TestConcatSingleBlockNoCopy(t *testing.T) {
	only := dicommemory.New([]byte("solo"))
	got := dicommemory.Concat([]dicommemory.Memory{only})
	require.Equal(t, []byte("solo"), got.Bytes())
}

func TestConcatMultipleBlocks(t *testing.T) {
	a := dicommemory.New([]byte("ab"))
	b := dicommemory.New([]byte("cd"))
	c := dicommemory.New([]byte("ef"))
	got := dicommemory.Concat([]dicommemory.Memory{a, b, c})
	require.Equal(t, []byte("abcdef"), got.Bytes())
}

func TestAdjustEndianSwapsWordsForNonNativeOrder(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	dicommemory.AdjustEndian(buf, 2, binary.BigEndian)
	require.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, buf)
}

func TestAdjustEndianNoopForByteWords(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	dicommemory.AdjustEndian(buf, 1, binary.BigEndian)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, buf)
}

func TestEmptyMemoryZeroValue(t *testing.T) {
	var m dicommemory.Memory
	require.Equal(t, 0, m.Len())
	require.Nil(t, m.Bytes())
}
