// Package demo holds the bouncing-ball components and systems shared by the
// bundled programs.
package demo

import (
	"image/color"

	"github.com/plus3/ecskit/ecs"
	"github.com/rotisserie/eris"
)

type Vec2 struct {
	X, Y float64
}

type Position struct {
	X, Y float64
}

// Velocity is measured in pixels per second.
type Velocity struct {
	Vec Vec2
}

type BallRenderer struct {
	Radius float64
	Color  color.RGBA
}

// RegisterComponents adds the demo component types to cm.
func RegisterComponents(cm *ecs.ComponentManager) error {
	for _, register := range []func(*ecs.ComponentManager) (ecs.ComponentType, error){
		ecs.RegisterComponent[Position],
		ecs.RegisterComponent[Velocity],
		ecs.RegisterComponent[BallRenderer],
	} {
		if _, err := register(cm); err != nil {
			return eris.Wrap(err, "register demo components")
		}
	}
	return nil
}
