package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool_ReusesReturnedSlot(t *testing.T) {
	var p Pool
	a, err := p.Acquire()
	require.NoError(t, err)
	require.NoError(t, a.Resize(64))

	require.NoError(t, p.Return(a))
	require.Equal(t, -1, a.Size())
	require.Equal(t, 64, a.Cap(), "returned slot keeps its memory")

	b, err := p.Acquire()
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 0, b.Size())
	require.Equal(t, 1, p.Len())
}

func TestPool_PrefersLargestFreeSlot(t *testing.T) {
	var p Pool
	small, err := p.Acquire()
	require.NoError(t, err)
	large, err := p.Acquire()
	require.NoError(t, err)
	medium, err := p.Acquire()
	require.NoError(t, err)

	require.NoError(t, small.Resize(8))
	require.NoError(t, large.Resize(4096))
	require.NoError(t, medium.Resize(256))

	require.NoError(t, p.Return(small))
	require.NoError(t, p.Return(large))
	require.NoError(t, p.Return(medium))
	require.Equal(t, 3, p.Free())

	got, err := p.Acquire()
	require.NoError(t, err)
	require.Same(t, large, got)

	got, err = p.Acquire()
	require.NoError(t, err)
	require.Same(t, medium, got)
}

func TestPool_Exhausted(t *testing.T) {
	var p Pool
	for i := 0; i < MaxPoolSlots; i++ {
		_, err := p.Acquire()
		require.NoError(t, err)
	}
	_, err := p.Acquire()
	require.ErrorIs(t, err, ErrPoolExhausted)
}

func TestPool_ReturnForeignBuffer(t *testing.T) {
	var p Pool
	require.ErrorIs(t, p.Return(&Buffer{}), ErrNotPooled)
}

func TestPool_FreeSlotRejectsAppend(t *testing.T) {
	var p Pool
	b, err := p.Acquire()
	require.NoError(t, err)
	require.NoError(t, p.Return(b))
	require.ErrorIs(t, b.Append([]byte("x")), ErrNegativeSize)
}

func TestPool_Release(t *testing.T) {
	var p Pool
	a, err := p.Acquire()
	require.NoError(t, err)
	_, err = p.Acquire()
	require.NoError(t, err)
	require.NoError(t, p.Return(a))

	require.False(t, p.Release(), "one slot was still in use")
	require.Equal(t, 0, p.Len())

	c, err := p.Acquire()
	require.NoError(t, err)
	require.NoError(t, p.Return(c))
	require.True(t, p.Release())
}
