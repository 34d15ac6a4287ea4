// Package inspector describes edits coming from a property inspector. A
// change description names the edited field and nests one level per struct
// or collection item that was descended into.
package inspector

import "scene-editor/internal/property"

// FieldKind is the payload of a PropertyChanged. It is one of Object,
// Collection, Inspectable or Inheritable.
type FieldKind interface {
	fieldKind()
}

// Object replaces the field value wholesale.
type Object struct {
	Value any
}

// Collection edits a list-shaped field.
type Collection struct {
	Change CollectionChanged
}

// Inspectable descends into a nested struct field.
type Inspectable struct {
	Inner *PropertyChanged
}

// Inheritable carries an inheritance edit. Revert is its only variant.
type Inheritable struct {
	Inherit InheritableAction
}

func (Object) fieldKind()      {}
func (Collection) fieldKind()  {}
func (Inspectable) fieldKind() {}
func (Inheritable) fieldKind() {}

// CollectionChanged is one of Add, Remove or ItemChanged.
type CollectionChanged interface {
	collectionChanged()
}

// Add appends Value to the collection.
type Add struct {
	Value any
}

// Remove deletes the item at Index.
type Remove struct {
	Index int
}

// ItemChanged edits the item at Index.
type ItemChanged struct {
	Index    int
	Property FieldKind
}

func (Add) collectionChanged()         {}
func (Remove) collectionChanged()      {}
func (ItemChanged) collectionChanged() {}

// InheritableAction enumerates inheritance edits.
type InheritableAction int

const (
	// Revert restores the value the field inherits.
	Revert InheritableAction = iota
)

// PropertyChanged reports that the inspector edited the field Name of an
// object of type Owner.
type PropertyChanged struct {
	Name  string
	Owner string
	Value FieldKind
}

// Path renders the full locator of the edited field, descending through
// nested structs and collection items.
func (p *PropertyChanged) Path() string {
	if p == nil {
		return ""
	}
	return p.Name + kindSuffix(p.Value)
}

func kindSuffix(kind FieldKind) string {
	switch k := kind.(type) {
	case Collection:
		if item, ok := k.Change.(ItemChanged); ok {
			return property.Index("", item.Index) + kindSuffix(item.Property)
		}
	case Inspectable:
		if k.Inner != nil {
			return "." + k.Inner.Path()
		}
	}
	return ""
}

// ActionKind discriminates what an edit asks for.
type ActionKind int

const (
	ActionModify ActionKind = iota
	ActionAddItem
	ActionRemoveItem
	ActionRevert
)

func (k ActionKind) String() string {
	switch k {
	case ActionModify:
		return "modify"
	case ActionAddItem:
		return "add_item"
	case ActionRemoveItem:
		return "remove_item"
	case ActionRevert:
		return "revert"
	default:
		return "unknown"
	}
}

// Action is the innermost edit of a change description.
type Action struct {
	Kind  ActionKind
	Value any
	Index int
}

// ActionOf classifies the innermost edit of kind. It reports false when the
// description bottoms out without an edit, such as an empty Inspectable.
func ActionOf(kind FieldKind) (Action, bool) {
	switch k := kind.(type) {
	case Object:
		return Action{Kind: ActionModify, Value: k.Value}, true
	case Collection:
		switch c := k.Change.(type) {
		case Add:
			return Action{Kind: ActionAddItem, Value: c.Value}, true
		case Remove:
			return Action{Kind: ActionRemoveItem, Index: c.Index}, true
		case ItemChanged:
			return ActionOf(c.Property)
		}
	case Inspectable:
		if k.Inner != nil {
			return ActionOf(k.Inner.Value)
		}
	case Inheritable:
		if k.Inherit == Revert {
			return Action{Kind: ActionRevert}, true
		}
	}
	return Action{}, false
}
