package ecs_test

import (
	"testing"

	"github.com/plus3/ecskit/ecs"
	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

type Unregistered struct {
	Value int
}

func newTestComponentManager(t testing.TB) *ecs.ComponentManager {
	t.Helper()

	cm := ecs.NewComponentManager()
	for _, register := range []func(*ecs.ComponentManager) (ecs.ComponentType, error){
		ecs.RegisterComponent[Position],
		ecs.RegisterComponent[Velocity],
		ecs.RegisterComponent[Name],
		ecs.RegisterComponent[Health],
		ecs.RegisterComponent[PlayerController],
		ecs.RegisterComponent[Score],
		ecs.RegisterComponent[Tag],
		ecs.RegisterComponent[Inventory],
	} {
		_, err := register(cm)
		require.NoError(t, err)
	}
	return cm
}

func typeOf[T any](t testing.TB, cm *ecs.ComponentManager) ecs.ComponentType {
	t.Helper()

	ct, ok := ecs.ComponentTypeOf[T](cm)
	require.True(t, ok)
	return ct
}

func spawn(t testing.TB, em *ecs.EntityManager, cm *ecs.ComponentManager, components ...any) ecs.Entity {
	t.Helper()

	e := em.AddEntity()
	require.NoError(t, cm.AddComponents(e, components...))
	return e
}
