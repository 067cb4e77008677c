package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// record is the per-entity row of the entity table. Records are emptied, never
// removed, so a recycled index reuses its row.
type record struct {
	generation uint32
	mask       mask
	dead       bool
}

// ComponentManager owns the mapping from entities to their components. It keeps one
// arena per registered component type and is the only path through which component
// data is added, removed or cleared.
type ComponentManager struct {
	types     []componentTypeInfo
	arenas    []iComponentStorage
	typeIndex *intmap.Map[int, ComponentType]
	records   []record
	version   uint64
	logger    *zap.Logger
}

// NewComponentManager creates a component manager with an empty vocabulary.
func NewComponentManager(opts ...Option) *ComponentManager {
	o := buildOptions(opts)
	return &ComponentManager{
		typeIndex: intmap.New[int, ComponentType](64),
		records:   make([]record, 0, 1024),
		logger:    o.logger,
	}
}

// TypeOf returns the id of a registered component type.
func (cm *ComponentManager) TypeOf(t reflect.Type) (ComponentType, bool) {
	if t == nil {
		return 0, false
	}
	return cm.typeIndex.Get(typeId(t))
}

// TypeName returns the Go type name of a registered component type.
func (cm *ComponentManager) TypeName(ct ComponentType) string {
	if int(ct) >= len(cm.types) {
		return ""
	}
	return cm.types[ct].typ.String()
}

// ComponentTypes returns every registered component type in registration order.
func (cm *ComponentManager) ComponentTypes() []ComponentType {
	out := make([]ComponentType, len(cm.types))
	for i, info := range cm.types {
		out[i] = info.id
	}
	return out
}

// lookup returns the record for e, or nil if e is not the generation the
// record currently belongs to.
func (cm *ComponentManager) lookup(e Entity) *record {
	idx := e.Index()
	if int(idx) >= len(cm.records) {
		return nil
	}
	rec := &cm.records[idx]
	if rec.dead || rec.generation != e.Generation() {
		return nil
	}
	return rec
}

// claim returns the record for e for writing. A handle from a newer life of the
// index takes over the record and drops whatever an earlier life left behind.
func (cm *ComponentManager) claim(e Entity) (*record, error) {
	idx := e.Index()
	for int(idx) >= len(cm.records) {
		cm.records = append(cm.records, record{})
	}

	rec := &cm.records[idx]
	switch {
	case e.Generation() < rec.generation, e.Generation() == rec.generation && rec.dead:
		return nil, eris.Wrapf(ErrStaleEntity, "entity %s, current generation %d", e, rec.generation)
	case e.Generation() > rec.generation:
		cm.clearRecord(idx, rec)
		rec.generation = e.Generation()
		rec.dead = false
	}
	return rec, nil
}

func (cm *ComponentManager) componentType(component any) (ComponentType, error) {
	if component == nil {
		return 0, ErrNilComponent
	}

	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		if reflect.ValueOf(component).IsNil() {
			return 0, ErrNilComponent
		}
		t = t.Elem()
	}

	ct, ok := cm.TypeOf(t)
	if !ok {
		return 0, eris.Wrapf(ErrUnknownComponentType, "%s", t)
	}
	return ct, nil
}

// AddComponent stores a copy of component against e, keyed by its concrete type.
// An existing component of the same type is replaced.
func (cm *ComponentManager) AddComponent(e Entity, component any) error {
	ct, err := cm.componentType(component)
	if err != nil {
		return eris.Wrapf(err, "add component to %s", e)
	}

	rec, err := cm.claim(e)
	if err != nil {
		return err
	}

	cm.arenas[ct].Set(e.Index(), component)
	rec.mask.set(ct)
	cm.version++
	return nil
}

// AddComponents validates every component first and then stores them in order.
// Nothing is stored if any of them is rejected.
func (cm *ComponentManager) AddComponents(e Entity, components ...any) error {
	cts := make([]ComponentType, len(components))
	for i, component := range components {
		ct, err := cm.componentType(component)
		if err != nil {
			return eris.Wrapf(err, "add components to %s", e)
		}
		cts[i] = ct
	}

	rec, err := cm.claim(e)
	if err != nil {
		return err
	}

	for i, component := range components {
		cm.arenas[cts[i]].Set(e.Index(), component)
		rec.mask.set(cts[i])
	}
	cm.version++
	return nil
}

// RemoveComponent deletes the component of type ct from e. It is a no-op if e does
// not hold one.
func (cm *ComponentManager) RemoveComponent(e Entity, ct ComponentType) error {
	if int(ct) >= len(cm.types) {
		return eris.Wrapf(ErrUnknownComponentType, "remove component %d from %s", ct, e)
	}

	idx := e.Index()
	if int(idx) >= len(cm.records) {
		return nil
	}
	rec := &cm.records[idx]
	if e.Generation() < rec.generation || e.Generation() == rec.generation && rec.dead {
		return eris.Wrapf(ErrStaleEntity, "remove component from %s", e)
	}
	if e.Generation() > rec.generation || !rec.mask.has(ct) {
		return nil
	}

	cm.arenas[ct].Delete(idx)
	rec.mask.unset(ct)
	cm.version++
	return nil
}

// GetComponent returns a pointer to e's component of type ct. The second result is
// false when e does not hold one, including when e is stale.
func (cm *ComponentManager) GetComponent(e Entity, ct ComponentType) (any, bool) {
	rec := cm.lookup(e)
	if rec == nil || !rec.mask.has(ct) {
		return nil, false
	}
	return cm.arenas[ct].Get(e.Index()), true
}

// HasComponent reports whether e holds a component of type ct.
func (cm *ComponentManager) HasComponent(e Entity, ct ComponentType) bool {
	rec := cm.lookup(e)
	return rec != nil && rec.mask.has(ct)
}

// Components returns the types e currently holds, in registration order.
func (cm *ComponentManager) Components(e Entity) []ComponentType {
	rec := cm.lookup(e)
	if rec == nil {
		return nil
	}

	var out []ComponentType
	for _, info := range cm.types {
		if rec.mask.has(info.id) {
			out = append(out, info.id)
		}
	}
	return out
}

// Clear removes every component e holds. Clearing a stale handle is rejected so the
// current owner of the index keeps its data.
func (cm *ComponentManager) Clear(e Entity) error {
	idx := e.Index()
	if int(idx) >= len(cm.records) {
		return nil
	}

	rec := &cm.records[idx]
	if e.Generation() < rec.generation {
		return eris.Wrapf(ErrStaleEntity, "clear %s", e)
	}

	cm.clearRecord(idx, rec)
	if e.Generation() > rec.generation {
		rec.generation = e.Generation()
		rec.dead = false
	}
	return nil
}

// retire clears e's record and marks it dead, so the handle reads as absent and
// rejects writes until a newer generation of the index claims the record.
func (cm *ComponentManager) retire(e Entity) error {
	if err := cm.Clear(e); err != nil {
		return err
	}

	idx := e.Index()
	for int(idx) >= len(cm.records) {
		cm.records = append(cm.records, record{})
	}
	rec := &cm.records[idx]
	rec.generation = e.Generation()
	rec.dead = true
	return nil
}

func (cm *ComponentManager) clearRecord(idx uint32, rec *record) {
	if rec.mask.empty() {
		return
	}
	for _, info := range cm.types {
		if rec.mask.has(info.id) {
			cm.arenas[info.id].Delete(idx)
		}
	}
	rec.mask = mask{}
	cm.version++
}

// Version changes whenever a component is stored or removed, including through
// Clear and entity kills.
func (cm *ComponentManager) Version() uint64 {
	return cm.version
}

// Len returns the number of entities that hold at least one component.
func (cm *ComponentManager) Len() int {
	n := 0
	for i := range cm.records {
		if !cm.records[i].mask.empty() {
			n++
		}
	}
	return n
}

// Compact packs every arena. Component pointers obtained earlier are invalid afterwards.
func (cm *ComponentManager) Compact() {
	for _, arena := range cm.arenas {
		arena.Compact()
	}
}

// GetComponent returns a pointer to e's component of type T.
func GetComponent[T any](cm *ComponentManager, e Entity) (*T, bool) {
	ct, ok := ComponentTypeOf[T](cm)
	if !ok {
		return nil, false
	}
	c, ok := cm.GetComponent(e, ct)
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// RemoveComponent deletes e's component of type T.
func RemoveComponent[T any](cm *ComponentManager, e Entity) error {
	ct, ok := ComponentTypeOf[T](cm)
	if !ok {
		return eris.Wrapf(ErrUnknownComponentType, "remove %s from %s", reflect.TypeFor[T](), e)
	}
	return cm.RemoveComponent(e, ct)
}
