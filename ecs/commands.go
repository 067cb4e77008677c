package ecs

import (
	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
)

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// Systems receive pointers into component storage, so structural changes are recorded
// here during dispatch and applied once the dispatch loop has finished.
type Commands struct {
	spawns  []spawnCommand
	kills   []Entity
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity   Entity
	compType ComponentType
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues the creation of an entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Kill queues an entity kill operation.
func (c *Commands) Kill(entity Entity) {
	c.kills = append(c.kills, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity Entity, compType ComponentType) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.kills) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all queued operations, resetting the buffer state. Kills run first;
// removals and additions aimed at killed entities are dropped. Every failing
// operation contributes to the returned error; the rest still run.
func (c *Commands) Flush(em *EntityManager, cm *ComponentManager) error {
	var errs error
	killed := intmap.New[Entity, bool](len(c.kills) + 1)
	wasKilled := func(e Entity) bool {
		_, ok := killed.Get(e)
		return ok
	}

	for _, e := range c.kills {
		if wasKilled(e) {
			continue
		}
		if err := em.KillEntity(cm, e); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		killed.Put(e, true)
	}

	for _, cmd := range c.removes {
		if wasKilled(cmd.entity) {
			continue
		}
		errs = multierr.Append(errs, cm.RemoveComponent(cmd.entity, cmd.compType))
	}

	for _, cmd := range c.adds {
		if wasKilled(cmd.entity) {
			continue
		}
		errs = multierr.Append(errs, cm.AddComponent(cmd.entity, cmd.component))
	}

	for _, cmd := range c.spawns {
		e := em.AddEntity()
		if err := cm.AddComponents(e, cmd.components...); err != nil {
			errs = multierr.Append(errs, eris.Wrap(err, "spawn"))
			// do not leak a half-built entity
			errs = multierr.Append(errs, em.KillEntity(cm, e))
		}
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.kills = c.kills[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]

	return errs
}
