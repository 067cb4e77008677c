package ecs

import "strconv"

// Entity encodes both the generation (upper 32 bits) and the entity index (lower 32 bits).
// The first life of every index has generation 0, so fresh handles are 0, 1, 2, ...
type Entity uint64

// NewEntity creates an Entity from an entity index and generation
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the entity index from the handle
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation from the handle
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}
