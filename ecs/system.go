package ecs

// System is a unit of behavior over entities that hold a fixed set of components.
// T is a view struct (see View) naming the required components; Update is called
// once per matching entity with pointers into component storage, so mutation is
// visible to every later read. Any fields on the system itself are its own
// configuration and never entity data.
type System[T any] interface {
	Update(frame *UpdateFrame, match T)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc[T any] func(frame *UpdateFrame, match T)

func (f SystemFunc[T]) Update(frame *UpdateFrame, match T) {
	f(frame, match)
}

// NamedSystem is implemented by systems that report their own name in
// SystemManager stats. Systems with the same name share a row.
type NamedSystem interface {
	SystemName() string
}

type namedSystem[T any] struct {
	name   string
	system System[T]
}

func (s namedSystem[T]) Update(frame *UpdateFrame, match T) {
	s.system.Update(frame, match)
}

func (s namedSystem[T]) SystemName() string {
	return s.name
}

// Named wraps system so its stats are reported under name. Use it to tell apart
// SystemFunc values, which otherwise share one row per view type.
func Named[T any](name string, system System[T]) System[T] {
	return namedSystem[T]{name: name, system: system}
}
