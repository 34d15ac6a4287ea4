// Package workspace is the editing context every command runs against: the
// scene graph plus the editor selection.
package workspace

import (
	"scene-editor/internal/command"
	"scene-editor/internal/edit"
	"scene-editor/internal/property"
	"scene-editor/internal/scene"
)

// Workspace is owned by a single goroutine.
type Workspace struct {
	Scene     *scene.Scene
	Selection Selection
}

// New returns a workspace over s with nothing selected.
func New(s *scene.Scene) *Workspace {
	if s == nil {
		s = scene.New()
	}
	return &Workspace{Scene: s}
}

// Command is a reversible workspace edit.
type Command = command.Command[*Workspace]

// Stack is the workspace undo history.
type Stack = command.Stack[*Workspace]

// Properties builds property commands addressed by node handle.
type Properties = edit.Family[*Workspace, scene.Handle]

// NewProperties returns a property command family that locates nodes in the
// workspace scene.
func NewProperties(reporter edit.Reporter) Properties {
	return Properties{Locate: locateNode, Reporter: reporter}
}

func locateNode(w *Workspace, handle scene.Handle) property.Object {
	if w == nil {
		return nil
	}
	node := w.Scene.Node(handle)
	if node == nil {
		return nil
	}
	return node
}

// NewGroup bundles workspace commands into one undo unit. Removals from the
// same node collection are put in descending index order first.
func NewGroup(cmds ...Command) *command.Group[*Workspace] {
	ordered := append([]Command(nil), cmds...)
	edit.OrderRemovals[*Workspace, scene.Handle](ordered)
	return command.NewGroup(ordered...)
}
