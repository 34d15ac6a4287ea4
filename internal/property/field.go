package property

import "fmt"

// Object is the capability every editable entity exposes: named field lookup
// backed by a registered accessor table.
type Object interface {
	Field(name string) (Field, bool)
	Fields() []Info
}

// Info describes a registered field.
type Info struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Group       string `json:"group,omitempty"`
	TypeName    string `json:"type"`
	Collection  bool   `json:"collection,omitempty"`
}

// Field is a live view of one addressable value. A Field is only valid until
// the owning graph changes shape and must not be retained across commands.
type Field interface {
	Info() Info
	Value() any
	// Set installs v and returns the previous value, or a *TypeMismatchError
	// leaving the field untouched.
	Set(v any) (old any, err error)
	// Object exposes the value as a nested object when it is one.
	Object() (Object, bool)
	// List exposes the value as an ordered collection when it is one.
	List() (List, bool)
	// Decode builds a value of the field's type by letting fn fill a pointer
	// to a fresh zero value.
	Decode(fn func(dst any) error) (any, error)
}

// List is a live view of an ordered collection. Mutations either complete
// fully or leave the collection unchanged.
type List interface {
	Len() int
	ItemTypeName() string
	Item(i int) (Field, bool)
	Push(v any) error
	Pop() (any, bool)
	Insert(i int, v any) error
	Remove(i int) (any, bool)
	DecodeItem(fn func(dst any) error) (any, error)
}

// TypeName reports the static name of V, including interface types.
func TypeName[V any]() string {
	return fmt.Sprintf("%T", (*V)(nil))[1:]
}

func valueTypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

type valueField[V any] struct {
	info Info
	ptr  *V
}

func newValueField[V any](info Info, ptr *V) *valueField[V] {
	return &valueField[V]{info: info, ptr: ptr}
}

func (f *valueField[V]) Info() Info { return f.info }

func (f *valueField[V]) Value() any { return *f.ptr }

func (f *valueField[V]) Set(v any) (any, error) {
	next, ok := v.(V)
	if !ok {
		return nil, &TypeMismatchError{Want: f.info.TypeName, Got: valueTypeName(v), Value: v}
	}
	old := *f.ptr
	*f.ptr = next
	return old, nil
}

func (f *valueField[V]) Object() (Object, bool) {
	if obj, ok := any(f.ptr).(Object); ok {
		return obj, true
	}
	if obj, ok := any(*f.ptr).(Object); ok && !isNilObject(obj) {
		return obj, true
	}
	return nil, false
}

func (f *valueField[V]) List() (List, bool) { return nil, false }

func (f *valueField[V]) Decode(fn func(dst any) error) (any, error) {
	var v V
	if err := fn(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// nilable lets pointer receivers report that they hold no value; generated
// accessors implement it for every pointer-to-struct object.
type nilable interface {
	IsNil() bool
}

func isNilObject(obj Object) bool {
	if n, ok := obj.(nilable); ok {
		return n.IsNil()
	}
	return false
}

type listField[E any] struct {
	*valueField[[]E]
	itemType string
}

func newListField[E any](info Info, ptr *[]E) *listField[E] {
	info.Collection = true
	return &listField[E]{valueField: newValueField(info, ptr), itemType: TypeName[E]()}
}

func (f *listField[E]) List() (List, bool) { return f, true }

func (f *listField[E]) Len() int { return len(*f.ptr) }

func (f *listField[E]) ItemTypeName() string { return f.itemType }

func (f *listField[E]) Item(i int) (Field, bool) {
	items := *f.ptr
	if i < 0 || i >= len(items) {
		return nil, false
	}
	info := Info{Name: f.info.Name, TypeName: f.itemType}
	return newValueField(info, &items[i]), true
}

// Collection edits build a fresh backing array so slices captured earlier,
// such as the old value returned by Set, never observe later mutations.

func (f *listField[E]) Push(v any) error {
	item, ok := v.(E)
	if !ok {
		return &TypeMismatchError{Want: f.itemType, Got: valueTypeName(v), Value: v}
	}
	items := *f.ptr
	next := make([]E, len(items), len(items)+1)
	copy(next, items)
	*f.ptr = append(next, item)
	return nil
}

func (f *listField[E]) Pop() (any, bool) {
	items := *f.ptr
	if len(items) == 0 {
		return nil, false
	}
	last := items[len(items)-1]
	next := make([]E, len(items)-1)
	copy(next, items)
	*f.ptr = next
	return last, true
}

func (f *listField[E]) Insert(i int, v any) error {
	item, ok := v.(E)
	if !ok {
		return &TypeMismatchError{Want: f.itemType, Got: valueTypeName(v), Value: v}
	}
	items := *f.ptr
	if i < 0 || i > len(items) {
		return &CollectionUnderflowError{Index: i, Len: len(items)}
	}
	next := make([]E, 0, len(items)+1)
	next = append(next, items[:i]...)
	next = append(next, item)
	next = append(next, items[i:]...)
	*f.ptr = next
	return nil
}

func (f *listField[E]) Remove(i int) (any, bool) {
	items := *f.ptr
	if i < 0 || i >= len(items) {
		return nil, false
	}
	removed := items[i]
	next := make([]E, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	*f.ptr = next
	return removed, true
}

func (f *listField[E]) DecodeItem(fn func(dst any) error) (any, error) {
	var item E
	if err := fn(&item); err != nil {
		return nil, err
	}
	return item, nil
}
