package market

import (
	"sort"

	"github.com/pkg/errors"
)

// Allocator hands out small positive offer ids, reusing released ones
// before minting new ones. The free list is kept sorted so allocation is
// smallest-first and therefore deterministic. nextID never shrinks, even
// when the highest ids are all released: allocation stays O(1) and ids
// stay stable for the lifetime of a process generation.
type Allocator struct {
	nextID  int
	freeIDs []int
}

// NewAllocator restores an allocator from persisted state. nextID values
// below 1 and free ids outside [1, nextID) are discarded.
func NewAllocator(nextID int, freeIDs []int) *Allocator {
	if nextID < 1 {
		nextID = 1
	}
	ids := make([]int, 0, len(freeIDs))
	for _, id := range freeIDs {
		if id >= 1 && id < nextID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return &Allocator{nextID: nextID, freeIDs: ids}
}

// Allocate returns the smallest free id, or mints nextID when the free
// list is empty.
func (a *Allocator) Allocate() int {
	if len(a.freeIDs) > 0 {
		id := a.freeIDs[0]
		a.freeIDs = a.freeIDs[1:]
		return id
	}
	id := a.nextID
	a.nextID++
	return id
}

// Release returns id to the free list. Releasing an id that was never
// allocated, or one that is already free, is an error.
func (a *Allocator) Release(id int) error {
	if id < 1 || id >= a.nextID {
		return errors.Errorf("id %d was never allocated", id)
	}
	i := sort.SearchInts(a.freeIDs, id)
	if i < len(a.freeIDs) && a.freeIDs[i] == id {
		return errors.Errorf("id %d is already free", id)
	}
	a.freeIDs = append(a.freeIDs, 0)
	copy(a.freeIDs[i+1:], a.freeIDs[i:])
	a.freeIDs[i] = id
	return nil
}

// NextID returns the smallest id never yet minted.
func (a *Allocator) NextID() int {
	return a.nextID
}

// FreeIDs returns a copy of the free list in ascending order.
func (a *Allocator) FreeIDs() []int {
	out := make([]int, len(a.freeIDs))
	copy(out, a.freeIDs)
	return out
}
