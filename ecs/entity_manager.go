package ecs

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// EntityManager allocates entity handles and recycles the indices of killed entities.
// Each index carries a generation that is bumped on kill, so handles from an earlier
// life never compare equal to the current one.
type EntityManager struct {
	generations []uint32
	alive       []bool
	dead        []uint32
	live        int
	version     uint64
	logger      *zap.Logger
}

// NewEntityManager creates an empty entity manager.
func NewEntityManager(opts ...Option) *EntityManager {
	o := buildOptions(opts)
	return &EntityManager{
		generations: make([]uint32, 0, 1024),
		alive:       make([]bool, 0, 1024),
		dead:        make([]uint32, 0, 256),
		logger:      o.logger,
	}
}

// AddEntity returns a handle that no other live entity holds. Killed indices are
// reused last-in first-out before a new index is allocated.
func (m *EntityManager) AddEntity() Entity {
	m.live++
	m.version++

	if len(m.dead) > 0 {
		idx := m.dead[len(m.dead)-1]
		m.dead = m.dead[:len(m.dead)-1]
		m.alive[idx] = true

		e := NewEntity(idx, m.generations[idx])
		m.logger.Debug("recycled entity", zap.Stringer("entity", e))
		return e
	}

	idx := uint32(len(m.generations))
	m.generations = append(m.generations, 0)
	m.alive = append(m.alive, true)
	return NewEntity(idx, 0)
}

// KillEntity clears the entity's components in cm and makes its index available
// for reuse. Killing a handle that is not alive returns ErrEntityNotAlive and
// changes nothing.
func (m *EntityManager) KillEntity(cm *ComponentManager, e Entity) error {
	if !m.Alive(e) {
		m.logger.Warn("rejected kill of dead entity", zap.Stringer("entity", e))
		return eris.Wrapf(ErrEntityNotAlive, "kill %s", e)
	}

	if cm != nil {
		if err := cm.retire(e); err != nil {
			return eris.Wrapf(err, "kill %s", e)
		}
	}

	idx := e.Index()
	m.alive[idx] = false
	m.live--
	m.version++

	if m.generations[idx] == math.MaxUint32 {
		// the next generation would alias the first life of this index
		m.logger.Debug("retired entity index", zap.Uint32("index", idx))
		return nil
	}

	m.generations[idx]++
	m.dead = append(m.dead, idx)
	m.logger.Debug("killed entity", zap.Stringer("entity", e))
	return nil
}

// Alive reports whether e is the current life of its index and has not been killed.
func (m *EntityManager) Alive(e Entity) bool {
	idx := e.Index()
	if int(idx) >= len(m.generations) {
		return false
	}
	return m.alive[idx] && m.generations[idx] == e.Generation()
}

// Len returns the number of live entities.
func (m *EntityManager) Len() int {
	return m.live
}

// Version changes whenever an entity is added or killed. Callers that cache the
// live set compare it to detect changes that leave Len untouched.
func (m *EntityManager) Version() uint64 {
	return m.version
}

// Cap returns the number of indices ever allocated.
func (m *EntityManager) Cap() int {
	return len(m.generations)
}

// Dead returns the number of indices waiting in the dead-entity pool.
func (m *EntityManager) Dead() int {
	return len(m.dead)
}

// Entities returns the live handles in ascending index order.
func (m *EntityManager) Entities() []Entity {
	return m.AppendEntities(make([]Entity, 0, m.live))
}

// AppendEntities appends the live handles in ascending index order to dst.
func (m *EntityManager) AppendEntities(dst []Entity) []Entity {
	for idx, ok := range m.alive {
		if ok {
			dst = append(dst, NewEntity(uint32(idx), m.generations[idx]))
		}
	}
	return dst
}
