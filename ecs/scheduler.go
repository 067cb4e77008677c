package ecs

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type scheduledSystem struct {
	name string
	run  func(frame *UpdateFrame, entities []Entity) error
}

// Scheduler runs a fixed, ordered list of systems over every live entity, once per
// frame, and flushes the frame's commands afterwards. Systems run sequentially in
// registration order.
type Scheduler struct {
	em       *EntityManager
	cm       *ComponentManager
	sm       *SystemManager
	systems  []scheduledSystem
	entities []Entity
	tick     uint64
	logger   *zap.Logger
}

// NewScheduler creates a scheduler over the given managers.
func NewScheduler(em *EntityManager, cm *ComponentManager, sm *SystemManager, opts ...Option) *Scheduler {
	o := buildOptions(opts)
	return &Scheduler{
		em:      em,
		cm:      cm,
		sm:      sm,
		systems: make([]scheduledSystem, 0),
		logger:  o.logger,
	}
}

// AddSystem appends a system to the scheduler. The view of T is validated immediately.
func AddSystem[T any](s *Scheduler, system System[T]) error {
	if _, err := viewFor[T](s.sm, s.cm); err != nil {
		return eris.Wrapf(err, "add system %s", systemName(system))
	}

	name := systemName(system)
	s.systems = append(s.systems, scheduledSystem{
		name: name,
		run: func(frame *UpdateFrame, entities []Entity) error {
			_, err := UpdateEntities(s.sm, frame, entities, s.cm, system)
			return err
		},
	})

	s.logger.Debug("added system", zap.String("system", name), zap.Int("position", len(s.systems)-1))
	return nil
}

// Tick returns the number of completed frames.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Once executes all registered systems once with the given delta time.
// The live entity list is captured at the start of the frame, so entities spawned
// through commands become visible on the next frame.
func (s *Scheduler) Once(dt float64) error {
	frame := NewUpdateFrame(dt)
	frame.Tick = s.tick

	s.entities = s.em.AppendEntities(s.entities[:0])

	for _, system := range s.systems {
		if err := system.run(frame, s.entities); err != nil {
			return eris.Wrapf(err, "system %s", system.name)
		}
	}

	s.tick++
	if err := frame.Commands.Flush(s.em, s.cm); err != nil {
		return eris.Wrapf(err, "flush commands of tick %d", frame.Tick)
	}
	return nil
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
// It returns nil on cancellation and the first frame error otherwise.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.Once(dt); err != nil {
				return err
			}
		}
	}
}
