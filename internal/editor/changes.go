package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"scene-editor/internal/inspector"
	"scene-editor/internal/property"
	"scene-editor/internal/scene"
	"scene-editor/internal/workspace"
	"scene-editor/logging"
	"scene-editor/logging/edits"
)

var (
	// ErrNoAction reports a change description that carries no edit.
	ErrNoAction = errors.New("change describes no action")
	// ErrNoDefault reports a revert on a path the default node cannot supply.
	ErrNoDefault = errors.New("no default value")
)

// ApplyChange turns an inspector change description into a command and
// pushes it. Values given as json.RawMessage are decoded into the type of the
// addressed field first. Reverts install the value the same path holds on a
// default node.
func (e *Editor) ApplyChange(ctx context.Context, handle scene.Handle, change *inspector.PropertyChanged) (Result, error) {
	var (
		result Result
		cmdErr error
	)
	err := e.submit(ctx, func(actor logging.EntityRef) {
		var cmd workspace.Command
		cmd, cmdErr = e.commandFor(handle, change)
		if cmdErr != nil {
			e.metrics.Add(rejectedMetricKey, 1)
			path := ""
			if change != nil {
				path = change.Path()
			}
			edits.ChangeRejected(ctx, e.pub, e.nextSeq(), actor, edits.Target(handle), edits.ChangeRejectedPayload{
				Path:   path,
				Reason: cmdErr.Error(),
			}, nil)
			return
		}
		result = e.push(ctx, actor, cmd)
	})
	if err != nil {
		return Result{}, err
	}
	return result, cmdErr
}

func (e *Editor) commandFor(handle scene.Handle, change *inspector.PropertyChanged) (workspace.Command, error) {
	if change == nil {
		return nil, ErrNoAction
	}
	action, ok := inspector.ActionOf(change.Value)
	if !ok {
		return nil, ErrNoAction
	}
	path := change.Path()

	if action.Kind == inspector.ActionRevert {
		value, err := property.Get(scene.DefaultNode(), path)
		if err != nil {
			return nil, fmt.Errorf("%w for %q: %w", ErrNoDefault, path, err)
		}
		return e.props.Set(handle, path, value), nil
	}

	raw, isRaw := action.Value.(json.RawMessage)
	if !isRaw {
		cmd, ok := e.props.FromChange(handle, change)
		if !ok {
			return nil, ErrNoAction
		}
		return cmd, nil
	}

	switch action.Kind {
	case inspector.ActionModify:
		value, err := e.decodeValue(handle, path, raw)
		if err != nil {
			return nil, err
		}
		return e.props.Set(handle, path, value), nil
	case inspector.ActionAddItem:
		item, err := e.decodeItem(handle, path, raw)
		if err != nil {
			return nil, err
		}
		return e.props.AddItem(handle, path, item), nil
	case inspector.ActionRemoveItem:
		return e.props.RemoveItem(handle, path, action.Index), nil
	}
	return nil, ErrNoAction
}

func (e *Editor) decodeValue(handle scene.Handle, path string, raw json.RawMessage) (any, error) {
	node := e.ws.Scene.Node(handle)
	if node == nil {
		return nil, fmt.Errorf("%w %s", ErrUnknownNode, handle)
	}
	field, err := property.Resolve(node, path)
	if err != nil {
		return nil, err
	}
	value, err := field.Decode(unmarshalInto(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return value, nil
}

func (e *Editor) decodeItem(handle scene.Handle, path string, raw json.RawMessage) (any, error) {
	node := e.ws.Scene.Node(handle)
	if node == nil {
		return nil, fmt.Errorf("%w %s", ErrUnknownNode, handle)
	}
	list, err := property.ResolveList(node, path)
	if err != nil {
		return nil, err
	}
	item, err := list.DecodeItem(unmarshalInto(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding item of %q: %w", path, err)
	}
	return item, nil
}

func unmarshalInto(raw json.RawMessage) func(dst any) error {
	return func(dst any) error { return json.Unmarshal(raw, dst) }
}
