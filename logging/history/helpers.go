package history

import (
	"context"

	"scene-editor/logging"
)

const (
	// EventCommandExecuted is emitted when a command is pushed onto the stack.
	EventCommandExecuted logging.EventType = "history.command_executed"
	// EventCommandUndone is emitted when the top command is reverted.
	EventCommandUndone logging.EventType = "history.command_undone"
	// EventCommandRedone is emitted when a reverted command is applied again.
	EventCommandRedone logging.EventType = "history.command_redone"
	// EventHistoryCleared is emitted when the stack is emptied.
	EventHistoryCleared logging.EventType = "history.cleared"
)

// CommandPayload describes the command that moved through the stack.
type CommandPayload struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
}

// ClearedPayload captures how many entries were discarded.
type ClearedPayload struct {
	Discarded int `json:"discarded"`
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, seq uint64, actor logging.EntityRef, commandID string, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:      eventType,
		Sequence:  seq,
		Actor:     actor,
		Severity:  logging.SeverityInfo,
		Category:  logging.CategoryHistory,
		Payload:   payload,
		Extra:     extra,
		CommandID: commandID,
	})
}

// CommandExecuted publishes an executed command event.
func CommandExecuted(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, commandID string, payload CommandPayload, extra map[string]any) {
	publish(ctx, pub, EventCommandExecuted, seq, actor, commandID, payload, extra)
}

// CommandUndone publishes an undone command event.
func CommandUndone(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, commandID string, payload CommandPayload, extra map[string]any) {
	publish(ctx, pub, EventCommandUndone, seq, actor, commandID, payload, extra)
}

// CommandRedone publishes a redone command event.
func CommandRedone(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, commandID string, payload CommandPayload, extra map[string]any) {
	publish(ctx, pub, EventCommandRedone, seq, actor, commandID, payload, extra)
}

// Cleared publishes a history cleared event.
func Cleared(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, payload ClearedPayload, extra map[string]any) {
	publish(ctx, pub, EventHistoryCleared, seq, actor, "", payload, extra)
}
