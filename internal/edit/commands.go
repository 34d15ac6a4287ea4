package edit

import (
	"fmt"
	"sort"

	"scene-editor/internal/command"
	"scene-editor/internal/property"
)

type direction uint8

const (
	toApply direction = iota
	toRevert
)

// slot holds the value a SetProperty installs next. It always holds a value;
// dir records which swap put it there and flips after every successful swap.
type slot struct {
	dir   direction
	value any
}

func pendingApply(v any) slot  { return slot{dir: toApply, value: v} }
func pendingRevert(v any) slot { return slot{dir: toRevert, value: v} }

func (s slot) swapped(old any) slot {
	if s.dir == toApply {
		return pendingRevert(old)
	}
	return pendingApply(old)
}

// SetProperty replaces the value at a path. Execute and Revert perform the
// same swap: install the pending value and keep the displaced one, so the
// command is its own inverse regardless of how the calls are sequenced.
type SetProperty[C any, H comparable] struct {
	family Family[C, H]
	handle H
	path   string
	slot   slot
}

func (c *SetProperty[C, H]) Name(C) string {
	return fmt.Sprintf("Set %s property", c.path)
}

func (c *SetProperty[C, H]) Execute(ctx C) { c.swap(ctx, PhaseExecute) }

func (c *SetProperty[C, H]) Revert(ctx C) { c.swap(ctx, PhaseRevert) }

func (c *SetProperty[C, H]) swap(ctx C, phase Phase) {
	old, err := property.SetByPath(c.family.locate(ctx, c.handle), c.path, c.slot.value)
	if err != nil {
		c.family.report(OpSet, phase, c.handle, c.path, err)
		return
	}
	c.slot = c.slot.swapped(old)
}

func (c *SetProperty[C, H]) Handle() H    { return c.handle }
func (c *SetProperty[C, H]) Path() string { return c.path }

// Pending returns the value the next Execute or Revert installs.
func (c *SetProperty[C, H]) Pending() any { return c.slot.value }

// Applied reports whether the command's value is currently installed.
func (c *SetProperty[C, H]) Applied() bool { return c.slot.dir == toRevert }

// AddItem appends an item to a collection. Items are always appended, so
// Revert pops the tail back into the command.
type AddItem[C any, H comparable] struct {
	family Family[C, H]
	handle H
	path   string
	item   any
	held   bool
}

func (c *AddItem[C, H]) Name(C) string {
	return fmt.Sprintf("Add item to %s collection", c.path)
}

func (c *AddItem[C, H]) Execute(ctx C) {
	if !c.held {
		c.family.report(OpAddItem, PhaseExecute, c.handle, c.path, ErrOutOfOrder)
		return
	}
	c.family.withList(ctx, c.handle, OpAddItem, PhaseExecute, c.path, func(list property.List) {
		if err := list.Push(c.item); err != nil {
			c.family.report(OpAddItem, PhaseExecute, c.handle, c.path, property.WithPath(err, c.path))
			return
		}
		c.item, c.held = nil, false
	})
}

func (c *AddItem[C, H]) Revert(ctx C) {
	if c.held {
		c.family.report(OpAddItem, PhaseRevert, c.handle, c.path, ErrOutOfOrder)
		return
	}
	c.family.withList(ctx, c.handle, OpAddItem, PhaseRevert, c.path, func(list property.List) {
		item, ok := list.Pop()
		if !ok {
			c.family.report(OpAddItem, PhaseRevert, c.handle, c.path, &property.CollectionUnderflowError{Path: c.path, Index: -1})
			return
		}
		c.item, c.held = item, true
	})
}

func (c *AddItem[C, H]) Handle() H    { return c.handle }
func (c *AddItem[C, H]) Path() string { return c.path }

// Item returns the item the command holds while it is not applied.
func (c *AddItem[C, H]) Item() (any, bool) { return c.item, c.held }

// RemoveItem removes the item at a fixed index and re-inserts it there on
// Revert. The index is only meaningful while the collection has the shape it
// had when the command was executed.
type RemoveItem[C any, H comparable] struct {
	family Family[C, H]
	handle H
	path   string
	index  int
	item   any
	held   bool
}

func (c *RemoveItem[C, H]) Name(C) string {
	return fmt.Sprintf("Remove collection %s item %d", c.path, c.index)
}

func (c *RemoveItem[C, H]) Execute(ctx C) {
	if c.held {
		c.family.report(OpRemoveItem, PhaseExecute, c.handle, c.path, ErrOutOfOrder)
		return
	}
	c.family.withList(ctx, c.handle, OpRemoveItem, PhaseExecute, c.path, func(list property.List) {
		item, ok := list.Remove(c.index)
		if !ok {
			c.family.report(OpRemoveItem, PhaseExecute, c.handle, c.path, &property.CollectionUnderflowError{Path: c.path, Index: c.index, Len: list.Len()})
			return
		}
		c.item, c.held = item, true
	})
}

func (c *RemoveItem[C, H]) Revert(ctx C) {
	if !c.held {
		c.family.report(OpRemoveItem, PhaseRevert, c.handle, c.path, ErrOutOfOrder)
		return
	}
	c.family.withList(ctx, c.handle, OpRemoveItem, PhaseRevert, c.path, func(list property.List) {
		if err := list.Insert(c.index, c.item); err != nil {
			c.family.report(OpRemoveItem, PhaseRevert, c.handle, c.path, property.WithPath(err, c.path))
			return
		}
		c.item, c.held = nil, false
	})
}

func (c *RemoveItem[C, H]) Handle() H    { return c.handle }
func (c *RemoveItem[C, H]) Path() string { return c.path }
func (c *RemoveItem[C, H]) Index() int   { return c.index }

// Item returns the removed item while the command is applied.
func (c *RemoveItem[C, H]) Item() (any, bool) { return c.item, c.held }

// OrderRemovals reorders RemoveItem commands that target the same collection
// into descending index order, so executing them in sequence never shifts an
// index that a later command relies on. Every other command keeps its
// position, and removals only trade places with removals on the same
// collection.
func OrderRemovals[C any, H comparable](cmds []command.Command[C]) {
	type target struct {
		handle H
		path   string
	}
	positions := make(map[target][]int)
	var order []target
	for i, cmd := range cmds {
		remove, ok := cmd.(*RemoveItem[C, H])
		if !ok {
			continue
		}
		key := target{handle: remove.handle, path: remove.path}
		if _, seen := positions[key]; !seen {
			order = append(order, key)
		}
		positions[key] = append(positions[key], i)
	}
	for _, key := range order {
		slots := positions[key]
		removals := make([]*RemoveItem[C, H], len(slots))
		for i, pos := range slots {
			removals[i] = cmds[pos].(*RemoveItem[C, H])
		}
		sort.SliceStable(removals, func(i, j int) bool { return removals[i].index > removals[j].index })
		for i, pos := range slots {
			cmds[pos] = removals[i]
		}
	}
}
