package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/ecskit/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComponent(t *testing.T) {
	cm := ecs.NewComponentManager()

	pos, err := ecs.RegisterComponent[Position](cm)
	require.NoError(t, err)
	vel, err := ecs.RegisterComponent[Velocity](cm)
	require.NoError(t, err)

	assert.Equal(t, ecs.ComponentType(0), pos)
	assert.Equal(t, ecs.ComponentType(1), vel)

	again, err := ecs.RegisterComponent[Position](cm)
	require.NoError(t, err)
	assert.Equal(t, pos, again, "registration is idempotent")

	ct, ok := cm.TypeOf(reflect.TypeOf(Velocity{}))
	assert.True(t, ok)
	assert.Equal(t, vel, ct)
	assert.Equal(t, "ecs_test.Velocity", cm.TypeName(vel))
	assert.Equal(t, []ecs.ComponentType{pos, vel}, cm.ComponentTypes())

	_, ok = ecs.ComponentTypeOf[Name](cm)
	assert.False(t, ok)
}

func TestRegisterComponentRejectsReferenceKinds(t *testing.T) {
	cm := ecs.NewComponentManager()

	_, err := ecs.RegisterComponent[*Position](cm)
	assert.True(t, eris.Is(err, ecs.ErrInvalidComponentType))

	_, err = ecs.RegisterComponent[map[string]int](cm)
	assert.True(t, eris.Is(err, ecs.ErrInvalidComponentType))

	_, err = ecs.RegisterComponent[func()](cm)
	assert.True(t, eris.Is(err, ecs.ErrInvalidComponentType))

	assert.Empty(t, cm.ComponentTypes())
}

func TestAddAndGetComponent(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	e := spawn(t, em, cm, &Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	pos, ok := ecs.GetComponent[Position](cm, e)
	require.True(t, ok)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	nameComp, ok := cm.GetComponent(e, typeOf[Name](t, cm))
	require.True(t, ok)
	assert.Equal(t, "Test Entity", nameComp.(*Name).Value)

	vel, ok := ecs.GetComponent[Velocity](cm, e)
	assert.False(t, ok)
	assert.Nil(t, vel, "absent components are never a zero value")

	assert.True(t, cm.HasComponent(e, typeOf[Position](t, cm)))
	assert.False(t, cm.HasComponent(e, typeOf[Velocity](t, cm)))
	assert.Equal(t, []ecs.ComponentType{typeOf[Position](t, cm), typeOf[Name](t, cm)}, cm.Components(e))
}

func TestAddComponentPrimitiveTypes(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	e := spawn(t, em, cm, Score(32), Tag("player"))

	score, ok := ecs.GetComponent[Score](cm, e)
	require.True(t, ok)
	assert.Equal(t, Score(32), *score)

	tag, ok := ecs.GetComponent[Tag](cm, e)
	require.True(t, ok)
	assert.Equal(t, Tag("player"), *tag)
}

func TestAddComponentUpsert(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)
	e := em.AddEntity()

	require.NoError(t, cm.AddComponent(e, Position{X: 1, Y: 1}))
	require.NoError(t, cm.AddComponent(e, Position{X: 2, Y: 2}))

	pos, ok := ecs.GetComponent[Position](cm, e)
	require.True(t, ok)
	assert.Equal(t, Position{X: 2, Y: 2}, *pos)

	stats := cm.CollectStats()
	for _, ts := range stats.Types {
		if ts.Name == "ecs_test.Position" {
			assert.Equal(t, 1, ts.Count, "upsert keeps a single record")
		}
	}
}

func TestAddComponentCopiesValue(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	original := &Position{X: 1, Y: 1}
	a := spawn(t, em, cm, original)
	b := spawn(t, em, cm, original)

	original.X = 99

	posA, _ := ecs.GetComponent[Position](cm, a)
	posB, _ := ecs.GetComponent[Position](cm, b)
	assert.Equal(t, float32(1), posA.X)
	assert.Equal(t, float32(1), posB.X)

	posA.X = 5
	assert.Equal(t, float32(1), posB.X, "components are never shared between entities")
}

func TestAddComponentErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)
	e := em.AddEntity()

	t.Run("unregistered type", func(t *testing.T) {
		err := cm.AddComponent(e, Unregistered{Value: 1})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))
		assert.Empty(t, cm.Components(e))
	})

	t.Run("nil component", func(t *testing.T) {
		assert.True(t, eris.Is(cm.AddComponent(e, nil), ecs.ErrNilComponent))

		var pos *Position
		assert.True(t, eris.Is(cm.AddComponent(e, pos), ecs.ErrNilComponent))
	})

	t.Run("batch is all or nothing", func(t *testing.T) {
		err := cm.AddComponents(e, Position{X: 1}, Unregistered{Value: 2})
		assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))
		assert.False(t, cm.HasComponent(e, typeOf[Position](t, cm)))
	})
}

func TestRemoveComponent(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	e := spawn(t, em, cm, Position{X: 1}, Velocity{DX: 1})

	require.NoError(t, ecs.RemoveComponent[Velocity](cm, e))
	assert.False(t, cm.HasComponent(e, typeOf[Velocity](t, cm)))
	assert.True(t, cm.HasComponent(e, typeOf[Position](t, cm)))

	// removing an absent component is a no-op
	require.NoError(t, ecs.RemoveComponent[Velocity](cm, e))
	require.NoError(t, cm.RemoveComponent(e, typeOf[Health](t, cm)))

	err := ecs.RemoveComponent[Unregistered](cm, e)
	assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))

	err = cm.RemoveComponent(e, ecs.ComponentType(200))
	assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))
}

func TestClearComponents(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	e := spawn(t, em, cm, Position{X: 1}, Velocity{DX: 1}, Health{Current: 10, Max: 10})
	other := spawn(t, em, cm, Position{X: 2})

	require.NoError(t, cm.Clear(e))

	for _, ct := range cm.ComponentTypes() {
		_, ok := cm.GetComponent(e, ct)
		assert.False(t, ok, "component %s survived clear", cm.TypeName(ct))
	}
	assert.True(t, em.Alive(e), "clear does not kill")

	pos, ok := ecs.GetComponent[Position](cm, other)
	require.True(t, ok)
	assert.Equal(t, float32(2), pos.X)

	require.NoError(t, cm.AddComponent(e, Name{Value: "again"}))
	assert.True(t, cm.HasComponent(e, typeOf[Name](t, cm)))
}

func TestKillClearsComponents(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	e := spawn(t, em, cm, Position{X: 5, Y: 5})
	require.NoError(t, em.KillEntity(cm, e))

	_, ok := ecs.GetComponent[Position](cm, e)
	assert.False(t, ok, "absent right after the kill, before the index is reissued")

	err := cm.AddComponent(e, Position{X: 1})
	assert.True(t, eris.Is(err, ecs.ErrStaleEntity), "a killed handle cannot store data")
	err = ecs.RemoveComponent[Position](cm, e)
	assert.True(t, eris.Is(err, ecs.ErrStaleEntity))
}

func TestRecycledEntityStartsEmpty(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	old := spawn(t, em, cm, Position{X: 1}, Velocity{DX: 1}, Tag("old"))
	require.NoError(t, em.KillEntity(cm, old))

	reissued := em.AddEntity()
	require.Equal(t, old.Index(), reissued.Index())

	for _, ct := range cm.ComponentTypes() {
		_, ok := cm.GetComponent(reissued, ct)
		assert.False(t, ok)
	}

	require.NoError(t, cm.AddComponent(reissued, Tag("new")))

	_, ok := ecs.GetComponent[Tag](cm, old)
	assert.False(t, ok, "a stale handle never reads the new owner's data")

	err := cm.AddComponent(old, Tag("stale write"))
	assert.True(t, eris.Is(err, ecs.ErrStaleEntity))
	assert.True(t, eris.Is(cm.Clear(old), ecs.ErrStaleEntity))

	tag, ok := ecs.GetComponent[Tag](cm, reissued)
	require.True(t, ok)
	assert.Equal(t, Tag("new"), *tag)
}

func TestComponentPointersStableAcrossGrowth(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	first := spawn(t, em, cm, Position{X: 1})
	ptr, ok := ecs.GetComponent[Position](cm, first)
	require.True(t, ok)

	for i := 0; i < 500; i++ {
		spawn(t, em, cm, Position{X: float32(i)})
	}

	ptr.X = 42
	again, _ := ecs.GetComponent[Position](cm, first)
	assert.Same(t, ptr, again)
	assert.Equal(t, float32(42), again.X)
}

func TestCompact(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	var entities []ecs.Entity
	for i := 0; i < 200; i++ {
		entities = append(entities, spawn(t, em, cm, Position{X: float32(i)}))
	}
	for i := 0; i < 200; i += 2 {
		require.NoError(t, em.KillEntity(cm, entities[i]))
	}

	cm.Compact()

	for i := 1; i < 200; i += 2 {
		pos, ok := ecs.GetComponent[Position](cm, entities[i])
		require.True(t, ok)
		assert.Equal(t, float32(i), pos.X)
	}
	assert.Equal(t, 100, cm.Len())
}

func TestCollectStats(t *testing.T) {
	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)

	stats := cm.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 8, stats.ComponentTypeCount)

	spawn(t, em, cm, Position{}, Velocity{})
	spawn(t, em, cm, Position{})
	em.AddEntity()

	stats = cm.CollectStats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 3, stats.ComponentCount)

	counts := make(map[string]int)
	for _, ts := range stats.Types {
		counts[ts.Name] = ts.Count
	}
	assert.Equal(t, 2, counts["ecs_test.Position"])
	assert.Equal(t, 1, counts["ecs_test.Velocity"])
	assert.Equal(t, 0, counts["ecs_test.Health"])
}
