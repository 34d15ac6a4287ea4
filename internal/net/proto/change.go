package proto

import (
	"encoding/json"
	"errors"
	"fmt"

	"scene-editor/internal/inspector"
)

// Field kind discriminators.
const (
	KindObject      = "object"
	KindCollection  = "collection"
	KindInspectable = "inspectable"
	KindInheritable = "inheritable"
)

// Collection change discriminators.
const (
	CollectionAdd    = "add"
	CollectionRemove = "remove"
	CollectionItem   = "item"
)

// InheritRevert is the only inheritable action.
const InheritRevert = "revert"

// maxChangeDepth bounds how deeply change descriptions may nest.
const maxChangeDepth = 32

// ErrInvalidChange matches every change description that cannot be decoded.
var ErrInvalidChange = errors.New("invalid change description")

// Change is the wire form of an inspector property change.
type Change struct {
	Name  string    `json:"name"`
	Owner string    `json:"owner,omitempty"`
	Field FieldKind `json:"field"`
}

// FieldKind is the wire form of one level of a change description. Exactly
// the member matching Kind is read.
type FieldKind struct {
	Kind       string            `json:"kind" jsonschema:"enum=object,enum=collection,enum=inspectable,enum=inheritable"`
	Value      json.RawMessage   `json:"value,omitempty"`
	Collection *CollectionChange `json:"collection,omitempty"`
	Inner      *Change           `json:"inner,omitempty"`
	Inherit    string            `json:"inherit,omitempty" jsonschema:"enum=revert"`
}

// CollectionChange is the wire form of a collection edit.
type CollectionChange struct {
	Kind  string          `json:"kind" jsonschema:"enum=add,enum=remove,enum=item"`
	Value json.RawMessage `json:"value,omitempty"`
	Index int             `json:"index,omitempty"`
	Item  *FieldKind      `json:"item,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidChange, fmt.Sprintf(format, args...))
}

// Decode converts the wire change into an inspector change. Leaf values stay
// json.RawMessage; the editor decodes them against the addressed field.
func (c *Change) Decode() (*inspector.PropertyChanged, error) {
	return c.decode(0)
}

func (c *Change) decode(depth int) (*inspector.PropertyChanged, error) {
	if c == nil {
		return nil, invalid("missing change")
	}
	if depth > maxChangeDepth {
		return nil, invalid("nested deeper than %d levels", maxChangeDepth)
	}
	if c.Name == "" {
		return nil, invalid("missing property name")
	}
	kind, err := c.Field.decode(depth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return &inspector.PropertyChanged{Name: c.Name, Owner: c.Owner, Value: kind}, nil
}

func (k *FieldKind) decode(depth int) (inspector.FieldKind, error) {
	switch k.Kind {
	case KindObject:
		if len(k.Value) == 0 {
			return nil, invalid("object change without value")
		}
		return inspector.Object{Value: k.Value}, nil
	case KindCollection:
		change, err := k.Collection.decode(depth)
		if err != nil {
			return nil, err
		}
		return inspector.Collection{Change: change}, nil
	case KindInspectable:
		inner, err := k.Inner.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		return inspector.Inspectable{Inner: inner}, nil
	case KindInheritable:
		if k.Inherit != InheritRevert {
			return nil, invalid("unknown inheritable action %q", k.Inherit)
		}
		return inspector.Inheritable{Inherit: inspector.Revert}, nil
	default:
		return nil, invalid("unknown field kind %q", k.Kind)
	}
}

func (c *CollectionChange) decode(depth int) (inspector.CollectionChanged, error) {
	if c == nil {
		return nil, invalid("collection change without body")
	}
	switch c.Kind {
	case CollectionAdd:
		if len(c.Value) == 0 {
			return nil, invalid("add without value")
		}
		return inspector.Add{Value: c.Value}, nil
	case CollectionRemove:
		if c.Index < 0 {
			return nil, invalid("negative index %d", c.Index)
		}
		return inspector.Remove{Index: c.Index}, nil
	case CollectionItem:
		if c.Index < 0 {
			return nil, invalid("negative index %d", c.Index)
		}
		if c.Item == nil {
			return nil, invalid("item change without body")
		}
		if depth+1 > maxChangeDepth {
			return nil, invalid("nested deeper than %d levels", maxChangeDepth)
		}
		item, err := c.Item.decode(depth + 1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", c.Index, err)
		}
		return inspector.ItemChanged{Index: c.Index, Property: item}, nil
	default:
		return nil, invalid("unknown collection change %q", c.Kind)
	}
}

// EncodeChange converts an inspector change into its wire form, marshalling
// leaf values to JSON.
func EncodeChange(change *inspector.PropertyChanged) (*Change, error) {
	if change == nil {
		return nil, invalid("missing change")
	}
	field, err := encodeKind(change.Value)
	if err != nil {
		return nil, err
	}
	return &Change{Name: change.Name, Owner: change.Owner, Field: field}, nil
}

func encodeKind(kind inspector.FieldKind) (FieldKind, error) {
	switch k := kind.(type) {
	case inspector.Object:
		raw, err := marshalValue(k.Value)
		if err != nil {
			return FieldKind{}, err
		}
		return FieldKind{Kind: KindObject, Value: raw}, nil
	case inspector.Collection:
		change, err := encodeCollection(k.Change)
		if err != nil {
			return FieldKind{}, err
		}
		return FieldKind{Kind: KindCollection, Collection: change}, nil
	case inspector.Inspectable:
		inner, err := EncodeChange(k.Inner)
		if err != nil {
			return FieldKind{}, err
		}
		return FieldKind{Kind: KindInspectable, Inner: inner}, nil
	case inspector.Inheritable:
		return FieldKind{Kind: KindInheritable, Inherit: InheritRevert}, nil
	default:
		return FieldKind{}, invalid("unsupported field kind %T", kind)
	}
}

func encodeCollection(change inspector.CollectionChanged) (*CollectionChange, error) {
	switch c := change.(type) {
	case inspector.Add:
		raw, err := marshalValue(c.Value)
		if err != nil {
			return nil, err
		}
		return &CollectionChange{Kind: CollectionAdd, Value: raw}, nil
	case inspector.Remove:
		return &CollectionChange{Kind: CollectionRemove, Index: c.Index}, nil
	case inspector.ItemChanged:
		item, err := encodeKind(c.Property)
		if err != nil {
			return nil, err
		}
		return &CollectionChange{Kind: CollectionItem, Index: c.Index, Item: &item}, nil
	default:
		return nil, invalid("unsupported collection change %T", change)
	}
}

func marshalValue(v any) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding change value: %w", err)
	}
	return data, nil
}
