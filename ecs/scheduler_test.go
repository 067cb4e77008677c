package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/ecskit/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type HealthSystem struct {
	Frames      int
	TotalHealth int
	lastTick    uint64
}

func (s *HealthSystem) Update(frame *ecs.UpdateFrame, m struct{ *Health }) {
	if s.Frames == 0 || frame.Tick != s.lastTick {
		s.Frames++
		s.lastTick = frame.Tick
		s.TotalHealth = 0
	}
	s.TotalHealth += m.Health.Current
}

type orderLog struct {
	entries []string
}

func (l *orderLog) system(name string) ecs.SystemFunc[struct{ *Position }] {
	return func(*ecs.UpdateFrame, struct{ *Position }) {
		l.entries = append(l.entries, name)
	}
}

func newTestScheduler(t *testing.T) (*ecs.Scheduler, *ecs.EntityManager, *ecs.ComponentManager) {
	t.Helper()

	em := ecs.NewEntityManager()
	cm := newTestComponentManager(t)
	return ecs.NewScheduler(em, cm, ecs.NewSystemManager()), em, cm
}

func TestScheduler(t *testing.T) {
	t.Run("systems run every frame", func(t *testing.T) {
		scheduler, em, cm := newTestScheduler(t)

		movement := &MovementSystem{}
		health := &HealthSystem{}
		require.NoError(t, ecs.AddSystem(scheduler, movement))
		require.NoError(t, ecs.AddSystem(scheduler, health))

		e := spawn(t, em, cm, Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 2})
		spawn(t, em, cm, Health{Current: 100, Max: 100})

		require.NoError(t, scheduler.Once(1.0))
		require.NoError(t, scheduler.Once(1.0))

		assert.Equal(t, uint64(2), scheduler.Tick())
		assert.Len(t, movement.Calls, 2)
		assert.Equal(t, 2, health.Frames)
		assert.Equal(t, 100, health.TotalHealth)

		pos, _ := ecs.GetComponent[Position](cm, e)
		assert.Equal(t, Position{X: 2, Y: 4}, *pos)
	})

	t.Run("systems run in registration order", func(t *testing.T) {
		scheduler, em, cm := newTestScheduler(t)
		log := &orderLog{}

		require.NoError(t, ecs.AddSystem(scheduler, log.system("first")))
		require.NoError(t, ecs.AddSystem(scheduler, log.system("second")))
		spawn(t, em, cm, Position{})

		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, []string{"first", "second"}, log.entries)
	})

	t.Run("delta time is passed through", func(t *testing.T) {
		scheduler, em, cm := newTestScheduler(t)

		var seen []float64
		sys := ecs.SystemFunc[struct{ *Position }](func(frame *ecs.UpdateFrame, _ struct{ *Position }) {
			seen = append(seen, frame.DeltaTime)
		})
		require.NoError(t, ecs.AddSystem(scheduler, sys))

		require.NoError(t, scheduler.Once(0.25))
		assert.Empty(t, seen, "no entities, no calls")

		spawn(t, em, cm, Position{})
		require.NoError(t, scheduler.Once(0.5))
		assert.Equal(t, []float64{0.5}, seen)
	})

	t.Run("commands apply after the frame", func(t *testing.T) {
		scheduler, em, cm := newTestScheduler(t)

		spawner := ecs.SystemFunc[struct {
			ecs.Entity
			*Health
		}](func(frame *ecs.UpdateFrame, m struct {
			ecs.Entity
			*Health
		}) {
			frame.Commands.Kill(m.Entity)
			frame.Commands.Spawn(Position{X: 1}, Velocity{DX: 1})
		})
		movement := &MovementSystem{}

		require.NoError(t, ecs.AddSystem(scheduler, spawner))
		require.NoError(t, ecs.AddSystem(scheduler, movement))

		doomed := spawn(t, em, cm, Health{Current: 0})

		require.NoError(t, scheduler.Once(1))
		assert.Empty(t, movement.Calls, "spawned entities are not visible within the frame")
		assert.False(t, em.Alive(doomed))
		assert.Equal(t, 1, em.Len())

		require.NoError(t, scheduler.Once(1))
		assert.Len(t, movement.Calls, 1)
	})

	t.Run("invalid system is rejected", func(t *testing.T) {
		scheduler, _, _ := newTestScheduler(t)

		err := ecs.AddSystem(scheduler, ecs.SystemFunc[struct{ *Unregistered }](func(*ecs.UpdateFrame, struct{ *Unregistered }) {}))
		assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))
	})

	t.Run("flush errors are reported", func(t *testing.T) {
		scheduler, em, cm := newTestScheduler(t)

		sys := ecs.SystemFunc[struct{ *Position }](func(frame *ecs.UpdateFrame, _ struct{ *Position }) {
			frame.Commands.Spawn(Unregistered{})
		})
		require.NoError(t, ecs.AddSystem(scheduler, sys))
		spawn(t, em, cm, Position{})

		err := scheduler.Once(1)
		assert.True(t, eris.Is(err, ecs.ErrUnknownComponentType))
		assert.Equal(t, uint64(1), scheduler.Tick())
	})
}

func TestSchedulerRun(t *testing.T) {
	scheduler, em, cm := newTestScheduler(t)

	movement := &MovementSystem{}
	require.NoError(t, ecs.AddSystem(scheduler, movement))
	spawn(t, em, cm, Position{}, Velocity{DX: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, scheduler.Run(ctx, 5*time.Millisecond))
	assert.Positive(t, scheduler.Tick())
	assert.Len(t, movement.Calls, int(scheduler.Tick()))
}
