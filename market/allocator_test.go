package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocator_MintsSequentially(t *testing.T) {
	a := NewAllocator(1, nil)

	require.Equal(t, 1, a.Allocate())
	require.Equal(t, 2, a.Allocate())
	require.Equal(t, 3, a.Allocate())
	require.Equal(t, 4, a.NextID())
}

func TestAllocator_ReusesFreedIDs(t *testing.T) {
	a := NewAllocator(1, nil)
	a.Allocate() // 1
	a.Allocate() // 2

	require.NoError(t, a.Release(1))

	require.Equal(t, 1, a.Allocate(), "freed id should be reused before minting")
	require.Equal(t, 3, a.Allocate(), "next mint should continue where it left off")
}

func TestAllocator_SmallestFreeIDFirst(t *testing.T) {
	a := NewAllocator(1, nil)
	for i := 0; i < 5; i++ {
		a.Allocate()
	}
	require.NoError(t, a.Release(4))
	require.NoError(t, a.Release(2))
	require.NoError(t, a.Release(3))

	require.Equal(t, 2, a.Allocate())
	require.Equal(t, 3, a.Allocate())
	require.Equal(t, 4, a.Allocate())
	require.Equal(t, 6, a.Allocate())
}

func TestAllocator_NextIDNeverShrinks(t *testing.T) {
	a := NewAllocator(1, nil)
	for i := 0; i < 4; i++ {
		a.Allocate()
	}

	// Release everything, including the highest ids
	for id := 1; id <= 4; id++ {
		require.NoError(t, a.Release(id))
	}

	require.Equal(t, 5, a.NextID())
	require.Equal(t, []int{1, 2, 3, 4}, a.FreeIDs())
}

func TestAllocator_ReleaseGuards(t *testing.T) {
	a := NewAllocator(1, nil)
	a.Allocate()

	require.Error(t, a.Release(5), "releasing an unminted id")
	require.Error(t, a.Release(0), "releasing a non-positive id")

	require.NoError(t, a.Release(1))
	require.Error(t, a.Release(1), "double release")
}

func TestNewAllocator_DiscardsInvalidState(t *testing.T) {
	a := NewAllocator(0, []int{0, -3, 7, 2})

	// nextID below 1 resets to 1; every persisted free id is then out of
	// range and dropped.
	require.Equal(t, 1, a.NextID())
	require.Empty(t, a.FreeIDs())

	b := NewAllocator(5, []int{4, 9, 2})
	require.Equal(t, []int{2, 4}, b.FreeIDs())
}
