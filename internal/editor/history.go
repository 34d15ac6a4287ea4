package editor

import (
	"context"

	"github.com/google/uuid"

	"scene-editor/internal/command"
	"scene-editor/logging"
	"scene-editor/logging/history"
)

// Undo reverts the most recent command. ok is false when the history has
// nothing to undo.
func (e *Editor) Undo(ctx context.Context) (result Result, ok bool, err error) {
	err = e.submit(ctx, func(actor logging.EntityRef) {
		top, has := e.stack.Top()
		if !has {
			return
		}
		name := top.Name(e.ws)
		e.failures = nil
		var id uuid.UUID
		id, ok = e.stack.Undo(e.ws)
		result = Result{CommandID: id, Name: name, Failures: e.takeFailures()}
		e.metrics.Add(undoMetricKey, 1)
		history.CommandUndone(ctx, e.pub, e.nextSeq(), actor, id.String(), history.CommandPayload{
			Name:  name,
			Depth: e.stack.Depth(),
		}, failureExtra(result.Failures))
	})
	return result, ok, err
}

// Redo re-applies the most recently undone command.
func (e *Editor) Redo(ctx context.Context) (result Result, ok bool, err error) {
	err = e.submit(ctx, func(actor logging.EntityRef) {
		e.failures = nil
		var id uuid.UUID
		id, ok = e.stack.Redo(e.ws)
		if !ok {
			return
		}
		top, _ := e.stack.Top()
		result = Result{CommandID: id, Name: top.Name(e.ws), Failures: e.takeFailures()}
		e.metrics.Add(redoMetricKey, 1)
		history.CommandRedone(ctx, e.pub, e.nextSeq(), actor, id.String(), history.CommandPayload{
			Name:  result.Name,
			Depth: e.stack.Depth(),
		}, failureExtra(result.Failures))
	})
	return result, ok, err
}

// History lists the undo history from oldest to newest.
func (e *Editor) History(ctx context.Context) ([]command.Entry, error) {
	var entries []command.Entry
	err := e.submit(ctx, func(logging.EntityRef) { entries = e.stack.History(e.ws) })
	return entries, err
}

// ClearHistory forgets every command without reverting any of them.
func (e *Editor) ClearHistory(ctx context.Context) error {
	return e.submit(ctx, func(actor logging.EntityRef) {
		discarded := e.stack.Len()
		e.stack.Clear(e.ws)
		history.Cleared(ctx, e.pub, e.nextSeq(), actor, history.ClearedPayload{Discarded: discarded}, nil)
	})
}
