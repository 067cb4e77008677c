package ecs

import "iter"

const (
	genericBlockSize = 64
)

// componentArena is the generic implementation of iComponentStorage.
// Values of type T are stored in fixed-size blocks referenced by pointer, so the
// address of a stored component does not move when other components are added.
// A sparse slice maps entity index to slot.
type componentArena[T any] struct {
	blocks    []*[genericBlockSize]T
	filled    []*[genericBlockSize]bool
	owners    []uint32
	sparse    []int32
	freeSlots []int32
	nextSlot  int32
	count     int
}

func newComponentArena[T any]() *componentArena[T] {
	return &componentArena[T]{}
}

func (cs *componentArena[T]) slotOf(index uint32) int32 {
	if int(index) >= len(cs.sparse) {
		return -1
	}
	return cs.sparse[index]
}

func (cs *componentArena[T]) at(slot int32) *T {
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

func (cs *componentArena[T]) allocSlot() int32 {
	if len(cs.freeSlots) > 0 {
		slot := cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
		return slot
	}

	slot := cs.nextSlot
	cs.nextSlot++

	if int(slot/genericBlockSize) >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.filled = append(cs.filled, new([genericBlockSize]bool))
	}
	cs.owners = append(cs.owners, 0)
	return slot
}

// Set stores a copy of item for the entity index, replacing any previous value.
// It accepts T or *T and returns false for any other type.
func (cs *componentArena[T]) Set(index uint32, item any) bool {
	var value T
	if ptr, ok := item.(*T); ok {
		if ptr == nil {
			return false
		}
		value = *ptr
	} else if val, ok := item.(T); ok {
		value = val
	} else {
		return false
	}

	if slot := cs.slotOf(index); slot >= 0 {
		*cs.at(slot) = value
		return true
	}

	slot := cs.allocSlot()
	*cs.at(slot) = value
	cs.filled[slot/genericBlockSize][slot%genericBlockSize] = true
	cs.owners[slot] = index

	for int(index) >= len(cs.sparse) {
		cs.sparse = append(cs.sparse, -1)
	}
	cs.sparse[index] = slot
	cs.count++
	return true
}

// Get returns a pointer to the component of the entity index, or nil.
func (cs *componentArena[T]) Get(index uint32) any {
	slot := cs.slotOf(index)
	if slot < 0 {
		return nil
	}
	return cs.at(slot)
}

// Delete removes the component of the entity index, if any.
func (cs *componentArena[T]) Delete(index uint32) {
	slot := cs.slotOf(index)
	if slot < 0 {
		return
	}

	var zero T
	*cs.at(slot) = zero // drop references held by the old value
	cs.filled[slot/genericBlockSize][slot%genericBlockSize] = false
	cs.sparse[index] = -1
	cs.freeSlots = append(cs.freeSlots, slot)
	cs.count--
}

// Has checks if the entity index has a component in this arena.
func (cs *componentArena[T]) Has(index uint32) bool {
	return cs.slotOf(index) >= 0
}

func (cs *componentArena[T]) Len() int {
	return cs.count
}

// Compact moves all components into the lowest slots and releases empty blocks.
// Pointers previously returned by Get are invalid afterwards.
func (cs *componentArena[T]) Compact() {
	if cs.count == 0 {
		cs.blocks = nil
		cs.filled = nil
		cs.owners = nil
		cs.freeSlots = nil
		cs.nextSlot = 0
		return
	}

	numNewBlocks := (cs.count + genericBlockSize - 1) / genericBlockSize
	newBlocks := make([]*[genericBlockSize]T, numNewBlocks)
	newFilled := make([]*[genericBlockSize]bool, numNewBlocks)
	for i := range newBlocks {
		newBlocks[i] = new([genericBlockSize]T)
		newFilled[i] = new([genericBlockSize]bool)
	}
	newOwners := make([]uint32, 0, cs.count)

	var writePos int32
	for readPos := int32(0); readPos < cs.nextSlot; readPos++ {
		if !cs.filled[readPos/genericBlockSize][readPos%genericBlockSize] {
			continue
		}

		owner := cs.owners[readPos]
		newBlocks[writePos/genericBlockSize][writePos%genericBlockSize] = *cs.at(readPos)
		newFilled[writePos/genericBlockSize][writePos%genericBlockSize] = true
		newOwners = append(newOwners, owner)
		cs.sparse[owner] = writePos
		writePos++
	}

	cs.blocks = newBlocks
	cs.filled = newFilled
	cs.owners = newOwners
	cs.freeSlots = nil
	cs.nextSlot = writePos
}

// Iter yields the entity indices that hold a component, in slot order.
func (cs *componentArena[T]) Iter() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for slot := int32(0); slot < cs.nextSlot; slot++ {
			if !cs.filled[slot/genericBlockSize][slot%genericBlockSize] {
				continue
			}
			if !yield(cs.owners[slot]) {
				return
			}
		}
	}
}
