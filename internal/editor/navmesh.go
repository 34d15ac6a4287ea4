package editor

import (
	"context"
	"fmt"

	"scene-editor/internal/navmesh"
	"scene-editor/internal/scene"
	"scene-editor/internal/workspace"
	"scene-editor/logging"
)

// EditNavmesh points the navmesh editing mode at node. The node must carry
// a navmesh.
func (e *Editor) EditNavmesh(ctx context.Context, node scene.Handle) error {
	var modeErr error
	err := e.submit(ctx, func(logging.EntityRef) {
		n := e.ws.Scene.Node(node)
		switch {
		case n == nil:
			modeErr = fmt.Errorf("%w %s", ErrUnknownNode, node)
		case n.Navmesh == nil:
			modeErr = fmt.Errorf("node %s has no navmesh", node)
		default:
			e.mode.SetNavmesh(node)
		}
	})
	if err != nil {
		return err
	}
	return modeErr
}

// navmeshInput feeds one input event to the editing mode and pushes the
// command it produces.
func (e *Editor) navmeshInput(ctx context.Context, input func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command) (Result, error) {
	var result Result
	err := e.submit(ctx, func(actor logging.EntityRef) {
		result = e.push(ctx, actor, input(e.mode, e.ws))
	})
	return result, err
}

func (e *Editor) PointerDown(ctx context.Context, pick navmesh.Pick, mods navmesh.Modifiers) (Result, error) {
	return e.navmeshInput(ctx, func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command {
		return m.PointerDown(w, pick, mods)
	})
}

func (e *Editor) Drag(ctx context.Context, offset scene.Vec3, mods navmesh.Modifiers) (Result, error) {
	return e.navmeshInput(ctx, func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command {
		return m.Drag(w, offset, mods)
	})
}

func (e *Editor) PointerUp(ctx context.Context) (Result, error) {
	return e.navmeshInput(ctx, func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command {
		return m.PointerUp(w)
	})
}

// KeyDown reports whether the editing mode consumed key.
func (e *Editor) KeyDown(ctx context.Context, key navmesh.Key, mods navmesh.Modifiers) (Result, bool, error) {
	var consumed bool
	result, err := e.navmeshInput(ctx, func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command {
		var cmd workspace.Command
		cmd, consumed = m.KeyDown(w, key, mods)
		return cmd
	})
	return result, consumed, err
}

func (e *Editor) Connect(ctx context.Context) (Result, error) {
	return e.navmeshInput(ctx, func(m *navmesh.EditMode, w *workspace.Workspace) workspace.Command {
		return m.Connect(w)
	})
}

// CancelDrag abandons the drag in progress.
func (e *Editor) CancelDrag(ctx context.Context) error {
	return e.submit(ctx, func(logging.EntityRef) { e.mode.Cancel(e.ws) })
}
