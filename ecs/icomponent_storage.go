package ecs

import "iter"

// iComponentStorage is an interface for a type-erased per-type component arena
// addressed by entity index.
type iComponentStorage interface {
	Set(index uint32, item any) bool
	Delete(index uint32)
	Get(index uint32) any
	Has(index uint32) bool
	Len() int
	Compact()
	Iter() iter.Seq[uint32]
}
