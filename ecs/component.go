package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxComponentTypes is the number of distinct component types a single
// ComponentManager can register.
const MaxComponentTypes = 256

// ComponentType is the dense id assigned to a component type at registration.
type ComponentType uint8

type componentTypeInfo struct {
	typ reflect.Type
	id  ComponentType
}

// RegisterComponent adds T to the manager's component vocabulary and returns its id.
// Registering the same type again returns the existing id. Components must be
// registered before they can be stored.
func RegisterComponent[T any](cm *ComponentManager) (ComponentType, error) {
	t := reflect.TypeFor[T]()
	if ct, ok := cm.TypeOf(t); ok {
		return ct, nil
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		// components are plain values owned by the manager
		return 0, eris.Wrapf(ErrInvalidComponentType, "register %s", t)
	}

	if len(cm.types) >= MaxComponentTypes {
		return 0, eris.Wrapf(ErrTooManyComponentTypes, "register %s", t)
	}

	info := componentTypeInfo{
		typ: t,
		id:  ComponentType(len(cm.types)),
	}
	cm.types = append(cm.types, info)
	cm.arenas = append(cm.arenas, newComponentArena[T]())
	cm.typeIndex.Put(typeId(t), info.id)

	cm.logger.Debug("registered component type",
		zap.String("type", t.String()),
		zap.Uint8("id", uint8(info.id)),
	)
	return info.id, nil
}

// MustRegisterComponent is like RegisterComponent but panics on error.
// It is meant for setup code with a fixed component vocabulary.
func MustRegisterComponent[T any](cm *ComponentManager) ComponentType {
	ct, err := RegisterComponent[T](cm)
	if err != nil {
		panic(eris.ToString(err, false))
	}
	return ct
}

// ComponentTypeOf returns the id of a registered component type.
func ComponentTypeOf[T any](cm *ComponentManager) (ComponentType, bool) {
	return cm.TypeOf(reflect.TypeFor[T]())
}
