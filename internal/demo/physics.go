package demo

import "github.com/plus3/ecskit/ecs"

// Bounds is the playfield, spanning [0, Width] x [0, Height].
type Bounds struct {
	Width, Height float64
}

// Body is the component set PhysicsSystem requires.
type Body struct {
	*Position
	*Velocity
}

// PhysicsSystem moves bodies by velocity * dt and reverses a velocity axis once
// the position on that axis is outside the bounds. The position is not clamped.
type PhysicsSystem struct {
	Bounds Bounds
}

func (s PhysicsSystem) Update(frame *ecs.UpdateFrame, b Body) {
	b.Position.X += b.Velocity.Vec.X * frame.DeltaTime
	b.Position.Y += b.Velocity.Vec.Y * frame.DeltaTime

	if b.Position.X > s.Bounds.Width || b.Position.X < 0 {
		b.Velocity.Vec.X = -b.Velocity.Vec.X
	}
	if b.Position.Y > s.Bounds.Height || b.Position.Y < 0 {
		b.Velocity.Vec.Y = -b.Velocity.Vec.Y
	}
}
