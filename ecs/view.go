package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

var entityType = reflect.TypeFor[Entity]()

// View matches entities against a set of component types described by a struct.
// The type T must be a struct whose fields are pointers to registered component
// types, embedded or named. Named fields can be marked as optional using the
// `ecs:"optional"` struct tag. A field of type Entity receives the matched handle.
// The declared field order is the order of the view's requirements.
type View[T any] struct {
	cm          *ComponentManager
	types       []ComponentType
	optional    []bool
	fieldOffset []uintptr

	required      mask
	requiredTypes []ComponentType

	hasEntity    bool
	entityOffset uintptr
}

// NewView creates a view of T over the component manager.
func NewView[T any](cm *ComponentManager) (*View[T], error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		return nil, eris.Wrapf(ErrInvalidView, "%s is not a struct", structType)
	}

	v := &View[T]{
		cm:          cm,
		types:       make([]ComponentType, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	var seen mask
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityType {
			if v.hasEntity {
				return nil, eris.Wrapf(ErrInvalidView, "%s has more than one Entity field", structType)
			}
			v.hasEntity = true
			v.entityOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			return nil, eris.Wrapf(ErrInvalidView, "field %s of %s must be a pointer", field.Name, structType)
		}

		ct, ok := cm.TypeOf(fieldType.Elem())
		if !ok {
			return nil, eris.Wrapf(ErrUnknownComponentType, "field %s of %s", field.Name, structType)
		}
		if seen.has(ct) {
			return nil, eris.Wrapf(ErrInvalidView, "%s lists %s twice", structType, fieldType.Elem())
		}
		seen.set(ct)

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					return nil, eris.Wrapf(ErrInvalidView, "invalid ecs tag value %q (only \"optional\" is supported)", tag)
				}
				isOptional = true
			}
		}

		v.types = append(v.types, ct)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)

		if !isOptional {
			v.required.set(ct)
			v.requiredTypes = append(v.requiredTypes, ct)
		}
	}

	if len(v.requiredTypes) == 0 {
		return nil, eris.Wrapf(ErrInvalidView, "%s requires no components", structType)
	}

	return v, nil
}

// MustNewView is like NewView but panics on error.
func MustNewView[T any](cm *ComponentManager) *View[T] {
	v, err := NewView[T](cm)
	if err != nil {
		panic(eris.ToString(err, false))
	}
	return v
}

// Required returns the required component types in declaration order.
func (v *View[T]) Required() []ComponentType {
	out := make([]ComponentType, len(v.requiredTypes))
	copy(out, v.requiredTypes)
	return out
}

// Matches reports whether e holds every required component type.
func (v *View[T]) Matches(e Entity) bool {
	rec := v.cm.lookup(e)
	return rec != nil && rec.mask.contains(v.required)
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	rec := v.cm.lookup(e)
	if rec == nil || !rec.mask.contains(v.required) {
		return false
	}

	// Use unsafe.Pointer to directly access the struct's memory
	// This avoids reflection overhead in the hot path
	structPtr := unsafe.Pointer(ptr)
	idx := e.Index()

	for i, ct := range v.types {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		if !rec.mask.has(ct) {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = dataPointer(v.cm.arenas[ct].Get(idx))
	}

	if v.hasEntity {
		*(*Entity)(unsafe.Add(structPtr, v.entityOffset)) = e
	}

	return true
}

// Get returns a populated view struct for the given entity. The second result is
// false if the entity doesn't have all the required components.
func (v *View[T]) Get(e Entity) (T, bool) {
	var result T
	if !v.Fill(e, &result) {
		var zero T
		return zero, false
	}
	return result, true
}

// smallestArena returns the arena of the required type with the fewest components.
func (v *View[T]) smallestArena() iComponentStorage {
	var best iComponentStorage
	for _, ct := range v.requiredTypes {
		arena := v.cm.arenas[ct]
		if best == nil || arena.Len() < best.Len() {
			best = arena
		}
	}
	return best
}

// Iter returns an iterator over all entities that have all the required components.
// Candidates come from the smallest required arena, in its slot order.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		arena := v.smallestArena()

		var result T
		for idx := range arena.Iter() {
			e := NewEntity(idx, v.cm.records[idx].generation)
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity handles)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
