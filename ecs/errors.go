package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotAlive is returned when killing a handle that is not currently alive.
	ErrEntityNotAlive = eris.New("entity is not alive")
	// ErrStaleEntity is returned when a handle from an earlier life of its index is used.
	ErrStaleEntity = eris.New("stale entity handle")
	// ErrUnknownComponentType is returned when a component type was never registered.
	ErrUnknownComponentType = eris.New("unknown component type")
	// ErrInvalidComponentType is returned when registering a type that cannot be a component.
	ErrInvalidComponentType = eris.New("invalid component type")
	// ErrTooManyComponentTypes is returned once MaxComponentTypes types are registered.
	ErrTooManyComponentTypes = eris.New("too many component types")
	// ErrNilComponent is returned when adding a nil interface or nil pointer as a component.
	ErrNilComponent = eris.New("nil component")
	// ErrInvalidView is returned when a view struct has an unsupported shape.
	ErrInvalidView = eris.New("invalid view type")
)
