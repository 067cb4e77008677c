package ecs

// UpdateFrame carries the per-call inputs of a system update.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Commands  *Commands
}

// NewUpdateFrame creates a frame with the given delta time and an empty command buffer.
func NewUpdateFrame(dt float64) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
	}
}
