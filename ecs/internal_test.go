package ecs

import (
	"math"
	"reflect"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func TestMask(t *testing.T) {
	var m mask
	assert.True(t, m.empty())

	for _, ct := range []ComponentType{0, 63, 64, 130, 255} {
		m.set(ct)
		assert.True(t, m.has(ct), "type %d", ct)
	}
	assert.False(t, m.has(1))
	assert.False(t, m.empty())

	var sub mask
	sub.set(63)
	sub.set(255)
	assert.True(t, m.contains(sub))
	assert.True(t, m.contains(mask{}), "every mask contains the empty set")

	sub.set(200)
	assert.False(t, m.contains(sub))

	m.unset(64)
	assert.False(t, m.has(64))
	assert.True(t, m.has(63))
}

func TestComponentArena(t *testing.T) {
	arena := newComponentArena[point]()

	assert.True(t, arena.Set(3, point{X: 1}))
	assert.True(t, arena.Set(7, &point{X: 2}))
	assert.False(t, arena.Set(9, "not a point"))
	assert.False(t, arena.Set(9, (*point)(nil)))
	assert.Equal(t, 2, arena.Len())

	assert.Equal(t, &point{X: 1}, arena.Get(3))
	assert.Nil(t, arena.Get(4))
	assert.Nil(t, arena.Get(1000))

	arena.Set(3, point{X: 10})
	assert.Equal(t, 2, arena.Len(), "set on an occupied index replaces")
	assert.Equal(t, 10, arena.Get(3).(*point).X)

	arena.Delete(3)
	arena.Delete(3)
	assert.False(t, arena.Has(3))
	assert.Equal(t, 1, arena.Len())

	arena.Set(11, point{X: 11})
	assert.Equal(t, int32(0), arena.slotOf(11), "freed slots are reused")

	var owners []uint32
	for idx := range arena.Iter() {
		owners = append(owners, idx)
	}
	assert.Equal(t, []uint32{11, 7}, owners)
}

func TestComponentArenaCompact(t *testing.T) {
	arena := newComponentArena[point]()
	for i := uint32(0); i < 150; i++ {
		arena.Set(i, point{X: int(i)})
	}
	for i := uint32(0); i < 150; i++ {
		if i%3 != 0 {
			arena.Delete(i)
		}
	}

	arena.Compact()

	assert.Equal(t, 50, arena.Len())
	assert.Len(t, arena.blocks, 1)
	assert.Equal(t, int32(50), arena.nextSlot)
	for i := uint32(0); i < 150; i += 3 {
		require.True(t, arena.Has(i))
		assert.Equal(t, int(i), arena.Get(i).(*point).X)
	}

	for i := uint32(0); i < 150; i += 3 {
		arena.Delete(i)
	}
	arena.Compact()
	assert.Empty(t, arena.blocks)
	assert.Equal(t, 0, arena.Len())
}

func TestGenerationWraparoundRetiresIndex(t *testing.T) {
	em := NewEntityManager()
	e := em.AddEntity()
	em.generations[e.Index()] = math.MaxUint32

	last := NewEntity(e.Index(), math.MaxUint32)
	require.True(t, em.Alive(last))
	require.NoError(t, em.KillEntity(nil, last))

	assert.Equal(t, 0, em.Dead(), "an exhausted index is never reissued")
	assert.Equal(t, uint32(1), em.AddEntity().Index())
	assert.False(t, em.Alive(NewEntity(e.Index(), 0)))
}

func TestTooManyComponentTypes(t *testing.T) {
	cm := NewComponentManager()
	for i := 0; i < MaxComponentTypes; i++ {
		cm.types = append(cm.types, componentTypeInfo{typ: reflect.TypeFor[int](), id: ComponentType(i)})
	}

	_, err := RegisterComponent[point](cm)
	assert.True(t, eris.Is(err, ErrTooManyComponentTypes))
}

func TestTypeIdDistinguishesTypes(t *testing.T) {
	assert.Equal(t, typeId(reflect.TypeFor[point]()), typeId(reflect.TypeOf(point{})))
	assert.NotEqual(t, typeId(reflect.TypeFor[point]()), typeId(reflect.TypeFor[*point]()))
}
