package edits

import (
	"context"
	"errors"
	"fmt"

	"scene-editor/internal/edit"
	"scene-editor/internal/property"
	"scene-editor/logging"
)

const (
	// EventPropertyFailure is emitted when a property command skips its
	// mutation.
	EventPropertyFailure logging.EventType = "edit.property_failure"
	// EventChangeRejected is emitted when a described change cannot be
	// turned into a command.
	EventChangeRejected logging.EventType = "edit.change_rejected"
)

// PropertyFailurePayload captures a skipped mutation.
type PropertyFailurePayload struct {
	Op      string `json:"op"`
	Phase   string `json:"phase"`
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ChangeRejectedPayload captures why a change description was refused.
type ChangeRejectedPayload struct {
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
}

// PropertyFailure publishes a property failure event.
func PropertyFailure(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, target logging.EntityRef, payload PropertyFailurePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPropertyFailure,
		Sequence: seq,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityError,
		Category: logging.CategoryEdit,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// ChangeRejected publishes a rejected change event.
func ChangeRejected(ctx context.Context, pub logging.Publisher, seq uint64, actor logging.EntityRef, target logging.EntityRef, payload ChangeRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventChangeRejected,
		Sequence: seq,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryEdit,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// Reporter returns an edit.Reporter that publishes every failure as a
// property failure event. seq supplies the sequence stamped on each event and
// may be nil.
func Reporter(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, seq func() uint64) edit.Reporter {
	return edit.ReporterFunc(func(f edit.Failure) {
		var n uint64
		if seq != nil {
			n = seq()
		}
		PropertyFailure(ctx, pub, n, actor, Target(f.Handle), Describe(f), nil)
	})
}

// Target converts a command handle into an event entity reference.
func Target(handle any) logging.EntityRef {
	if handle == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	return logging.EntityRef{ID: fmt.Sprint(handle), Kind: logging.EntityKindNode}
}

// Describe classifies a failure and renders the message shown to users.
func Describe(f edit.Failure) PropertyFailurePayload {
	payload := PropertyFailurePayload{
		Op:    string(f.Op),
		Phase: string(f.Phase),
		Path:  f.Path,
	}

	var (
		pathErr   *property.PathError
		mismatch  *property.TypeMismatchError
		notList   *property.NotACollectionError
		underflow *property.CollectionUnderflowError
	)
	switch {
	case errors.As(f.Err, &pathErr):
		payload.Reason = string(pathErr.Reason)
		payload.Message = fmt.Sprintf("There is no such property %s", f.Path)
	case errors.As(f.Err, &mismatch):
		payload.Reason = "type_mismatch"
		payload.Message = fmt.Sprintf("Failed to set property %s! Incompatible types: expected %s, got %s", f.Path, mismatch.Want, mismatch.Got)
	case errors.As(f.Err, &notList):
		payload.Reason = "not_a_collection"
		payload.Message = fmt.Sprintf("Property %s is not a collection!", f.Path)
	case errors.As(f.Err, &underflow):
		payload.Reason = "collection_underflow"
		if underflow.Index < 0 {
			payload.Message = fmt.Sprintf("Failed to pop item from %s collection!", f.Path)
		} else {
			payload.Message = fmt.Sprintf("Failed to remove item %d from %s collection!", underflow.Index, f.Path)
		}
	case errors.Is(f.Err, edit.ErrOutOfOrder):
		payload.Reason = "out_of_order"
		payload.Message = fmt.Sprintf("Command on %s applied out of order", f.Path)
	default:
		payload.Reason = "unknown"
		if f.Err != nil {
			payload.Message = f.Err.Error()
		}
	}
	return payload
}
