package demo

import (
	"image/color"
	"math/rand"

	"github.com/plus3/ecskit/ecs"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BallSpec bounds the random attributes of spawned balls.
type BallSpec struct {
	MinRadius float64
	MaxRadius float64
	MaxSpeed  float64
}

// NewBall returns the components of a ball at a random point inside bounds.
func NewBall(rng *rand.Rand, bounds Bounds, spec BallSpec) []any {
	radius := spec.MinRadius
	if spec.MaxRadius > spec.MinRadius {
		radius += rng.Float64() * (spec.MaxRadius - spec.MinRadius)
	}

	return []any{
		Position{
			X: rng.Float64() * bounds.Width,
			Y: rng.Float64() * bounds.Height,
		},
		Velocity{Vec: Vec2{
			X: (rng.Float64()*2 - 1) * spec.MaxSpeed,
			Y: (rng.Float64()*2 - 1) * spec.MaxSpeed,
		}},
		BallRenderer{
			Radius: radius,
			Color: color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 0xff,
			},
		},
	}
}

// SpawnBall creates a ball entity with random attributes.
func SpawnBall(em *ecs.EntityManager, cm *ecs.ComponentManager, rng *rand.Rand, bounds Bounds, spec BallSpec) (ecs.Entity, error) {
	e := em.AddEntity()
	if err := cm.AddComponents(e, NewBall(rng, bounds, spec)...); err != nil {
		_ = em.KillEntity(cm, e)
		return 0, eris.Wrap(err, "spawn ball")
	}
	return e, nil
}

// Balls tracks spawned balls oldest first. The handle list doubles as the entity
// list the programs hand to the system manager.
type Balls struct {
	em     *ecs.EntityManager
	cm     *ecs.ComponentManager
	rng    *rand.Rand
	bounds Bounds
	spec   BallSpec
	logger *zap.Logger

	entities []ecs.Entity
}

func NewBalls(em *ecs.EntityManager, cm *ecs.ComponentManager, rng *rand.Rand, bounds Bounds, spec BallSpec, logger *zap.Logger) *Balls {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Balls{
		em:     em,
		cm:     cm,
		rng:    rng,
		bounds: bounds,
		spec:   spec,
		logger: logger,
	}
}

// Spawn adds n balls.
func (b *Balls) Spawn(n int) error {
	for i := 0; i < n; i++ {
		e, err := SpawnBall(b.em, b.cm, b.rng, b.bounds, b.spec)
		if err != nil {
			return err
		}
		b.entities = append(b.entities, e)
	}
	return nil
}

// Recycle kills the n oldest balls and spawns n new ones, which reuse the killed
// indices under a new generation.
func (b *Balls) Recycle(n int) error {
	n = min(n, len(b.entities))
	for _, e := range b.entities[:n] {
		if err := b.em.KillEntity(b.cm, e); err != nil {
			return eris.Wrapf(err, "recycle ball %s", e)
		}
	}
	b.entities = append(b.entities[:0], b.entities[n:]...)

	if err := b.Spawn(n); err != nil {
		return err
	}
	b.logger.Debug("recycled balls", zap.Int("count", n), zap.Int("live", b.em.Len()))
	return nil
}

// Entities returns the live balls, oldest first.
func (b *Balls) Entities() []ecs.Entity {
	return b.entities
}

func (b *Balls) Len() int {
	return len(b.entities)
}

// SetBounds changes the playfield used for future spawns.
func (b *Balls) SetBounds(bounds Bounds) {
	b.bounds = bounds
}
