package command

import "strings"

// Group executes its commands in order and reverts them in reverse order.
// Commands that remove items from the same collection by index must be listed
// in descending index order so every recorded index stays valid.
type Group[C any] struct {
	commands []Command[C]
	name     string
}

// NewGroup bundles commands into one undo unit, dropping nil entries.
func NewGroup[C any](commands ...Command[C]) *Group[C] {
	g := &Group[C]{commands: make([]Command[C], 0, len(commands))}
	for _, cmd := range commands {
		if cmd != nil {
			g.commands = append(g.commands, cmd)
		}
	}
	return g
}

// WithName overrides the label derived from the children.
func (g *Group[C]) WithName(name string) *Group[C] {
	g.name = name
	return g
}

// Push appends a command to the group.
func (g *Group[C]) Push(cmd Command[C]) {
	if cmd != nil {
		g.commands = append(g.commands, cmd)
	}
}

// Len reports the number of commands in the group.
func (g *Group[C]) Len() int { return len(g.commands) }

// Commands returns the grouped commands in execution order.
func (g *Group[C]) Commands() []Command[C] {
	return append([]Command[C](nil), g.commands...)
}

func (g *Group[C]) Name(ctx C) string {
	if g.name != "" {
		return g.name
	}
	names := make([]string, 0, len(g.commands))
	for _, cmd := range g.commands {
		names = append(names, cmd.Name(ctx))
	}
	return "Command group: " + strings.Join(names, ", ")
}

func (g *Group[C]) Execute(ctx C) {
	for _, cmd := range g.commands {
		cmd.Execute(ctx)
	}
}

func (g *Group[C]) Revert(ctx C) {
	for i := len(g.commands) - 1; i >= 0; i-- {
		g.commands[i].Revert(ctx)
	}
}

func (g *Group[C]) Finalize(ctx C) {
	for _, cmd := range g.commands {
		if f, ok := cmd.(Finalizer[C]); ok {
			f.Finalize(ctx)
		}
	}
}
