// Package edit implements reversible property edits on reflective objects:
// replacing a field, appending to a collection and removing a collection
// item. Commands address their target by handle and path and re-resolve both
// on every execute and revert, so they never hold references into the graph.
package edit

import (
	"scene-editor/internal/command"
	"scene-editor/internal/inspector"
	"scene-editor/internal/property"
)

// Family builds property commands over an editing context C whose entities
// are addressed by handles of type H.
type Family[C any, H comparable] struct {
	// Locate returns the object behind handle, or nil when the handle no
	// longer names a live entity.
	Locate   func(ctx C, handle H) property.Object
	Reporter Reporter
}

// Set builds a command that replaces the value at path with value.
func (f Family[C, H]) Set(handle H, path string, value any) *SetProperty[C, H] {
	return &SetProperty[C, H]{
		family: f,
		handle: handle,
		path:   path,
		slot:   pendingApply(value),
	}
}

// AddItem builds a command that appends item to the collection at path.
func (f Family[C, H]) AddItem(handle H, path string, item any) *AddItem[C, H] {
	return &AddItem[C, H]{
		family: f,
		handle: handle,
		path:   path,
		item:   item,
		held:   true,
	}
}

// RemoveItem builds a command that removes the item at index from the
// collection at path.
func (f Family[C, H]) RemoveItem(handle H, path string, index int) *RemoveItem[C, H] {
	return &RemoveItem[C, H]{
		family: f,
		handle: handle,
		path:   path,
		index:  index,
	}
}

// FromChange maps an inspector change description to the matching command.
// Reverts and descriptions without an edit yield no command; callers
// resolve reverts against default values themselves.
func (f Family[C, H]) FromChange(handle H, change *inspector.PropertyChanged) (command.Command[C], bool) {
	if change == nil {
		return nil, false
	}
	action, ok := inspector.ActionOf(change.Value)
	if !ok {
		return nil, false
	}
	path := change.Path()
	switch action.Kind {
	case inspector.ActionModify:
		return f.Set(handle, path, action.Value), true
	case inspector.ActionAddItem:
		return f.AddItem(handle, path, action.Value), true
	case inspector.ActionRemoveItem:
		return f.RemoveItem(handle, path, action.Index), true
	default:
		return nil, false
	}
}

func (f Family[C, H]) locate(ctx C, handle H) property.Object {
	if f.Locate == nil {
		return nil
	}
	return f.Locate(ctx, handle)
}

func (f Family[C, H]) report(op Op, phase Phase, handle H, path string, err error) {
	if f.Reporter == nil {
		return
	}
	f.Reporter.Report(Failure{Op: op, Phase: phase, Handle: handle, Path: path, Err: err})
}

// withField resolves path on the target and runs fn with the field. A path
// that does not resolve is reported and fn is skipped.
func (f Family[C, H]) withField(ctx C, handle H, op Op, phase Phase, path string, fn func(property.Field)) {
	field, err := property.Resolve(f.locate(ctx, handle), path)
	if err != nil {
		f.report(op, phase, handle, path, err)
		return
	}
	fn(field)
}

// withList is withField for collection targets.
func (f Family[C, H]) withList(ctx C, handle H, op Op, phase Phase, path string, fn func(property.List)) {
	f.withField(ctx, handle, op, phase, path, func(field property.Field) {
		list, ok := field.List()
		if !ok {
			f.report(op, phase, handle, path, &property.NotACollectionError{Path: path, Type: field.Info().TypeName})
			return
		}
		fn(list)
	})
}
