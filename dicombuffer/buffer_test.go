package dicombuffer_test

import (
	"sync"
	"testing"

	"github.com/odincare/dicomcore/dicombuffer"
	"github.com/odincare/dicomcore/dicommemory"
	"github.com/stretchr/testify/require"
)

func TestResidentMaterializeReturnsStoredBytes(t *testing.T) {
	b := dicombuffer.NewResident(dicommemory.New([]byte("hello")))
	mem, err := b.Materialize()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), mem.Bytes())
	require.EqualValues(t, 5, b.SizeBytes())
}

func TestGetRawWritingHandlerRejectsConcurrentWriter(t *testing.T) {
	b := dicombuffer.NewEmpty()
	first, err := b.GetRawWritingHandler(16)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = b.GetRawWritingHandler(16)
	require.ErrorIs(t, err, dicombuffer.ErrBufferBusy)
}

func TestAppendMemoryGrowsRope(t *testing.T) {
	b := dicombuffer.NewResident(dicommemory.New([]byte("ab")))
	require.NoError(t, b.AppendMemory(dicommemory.New([]byte("cd"))))
	mem, err := b.Materialize()
	require.NoError(t, err)
	require.Equal(t, []byte("abcd"), mem.Bytes())
}

// Concurrent readers of an already-resident Buffer must never race or
// corrupt each other's view, per spec.md §5's "safe for concurrent use
// without further locking" contract on the returned handler.
func TestConcurrentGetRawReadingHandler(t *testing.T) {
	b := dicombuffer.NewResident(dicommemory.New([]byte("concurrent-bytes")))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := b.GetRawReadingHandler()
			require.NoError(t, err)
			require.Equal(t, []byte("concurrent-bytes"), h.Bytes())
		}()
	}
	wg.Wait()
}
