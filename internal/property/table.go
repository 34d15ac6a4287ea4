package property

import "fmt"

// Option adjusts the metadata of a registered field.
type Option func(*Info)

// DisplayName sets the human readable label shown by inspectors.
func DisplayName(name string) Option {
	return func(info *Info) { info.DisplayName = name }
}

// Group sets the inspector group a field is listed under.
func Group(group string) Option {
	return func(info *Info) { info.Group = group }
}

type binding[T any] struct {
	info Info
	bind func(owner *T) Field
}

// Table is the registered field-accessor table for one owner type. Tables are
// populated once during package initialization and are read-only afterwards.
type Table[T any] struct {
	typeName string
	order    []string
	fields   map[string]binding[T]
}

// NewTable returns an empty accessor table for T.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		typeName: TypeName[T](),
		fields:   make(map[string]binding[T]),
	}
}

// TypeName reports the owner type the table describes.
func (t *Table[T]) TypeName() string { return t.typeName }

// Scalar registers a field whose value is replaced wholesale.
func Scalar[T, V any](t *Table[T], name string, ref func(*T) *V, opts ...Option) {
	info := newInfo(name, TypeName[V](), opts)
	t.register(name, binding[T]{
		info: info,
		bind: func(owner *T) Field { return newValueField(info, ref(owner)) },
	})
}

// Collection registers a slice field that supports item operations in
// addition to wholesale replacement.
func Collection[T, E any](t *Table[T], name string, ref func(*T) *[]E, opts ...Option) {
	info := newInfo(name, TypeName[[]E](), opts)
	info.Collection = true
	t.register(name, binding[T]{
		info: info,
		bind: func(owner *T) Field { return newListField(info, ref(owner)) },
	})
}

func newInfo(name, typeName string, opts []Option) Info {
	info := Info{Name: name, TypeName: typeName}
	for _, opt := range opts {
		if opt != nil {
			opt(&info)
		}
	}
	return info
}

func (t *Table[T]) register(name string, b binding[T]) {
	if _, exists := t.fields[name]; exists {
		panic(fmt.Sprintf("property: duplicate field %q on %s", name, t.typeName))
	}
	t.fields[name] = b
	t.order = append(t.order, name)
}

// Bind returns a live view of the named field on owner.
func (t *Table[T]) Bind(owner *T, name string) (Field, bool) {
	if t == nil || owner == nil {
		return nil, false
	}
	b, ok := t.fields[name]
	if !ok {
		return nil, false
	}
	return b.bind(owner), true
}

// Fields lists field metadata in registration order.
func (t *Table[T]) Fields() []Info {
	if t == nil {
		return nil
	}
	infos := make([]Info, 0, len(t.order))
	for _, name := range t.order {
		infos = append(infos, t.fields[name].info)
	}
	return infos
}
