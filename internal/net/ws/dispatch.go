package ws

import (
	"context"
	"errors"
	"fmt"

	"scene-editor/internal/edit"
	"scene-editor/internal/editor"
	"scene-editor/internal/navmesh"
	"scene-editor/internal/net/proto"
	"scene-editor/logging/edits"
)

// dispatch runs one request against the editor and encodes the reply.
func (h *Handler) dispatch(ctx context.Context, msg proto.ClientMessage) ([]byte, error) {
	reject := func(reason, message string) ([]byte, error) {
		return proto.EncodeReject(proto.Reject{Seq: msg.Seq, Reason: reason, Message: message})
	}
	fail := func(err error) ([]byte, error) {
		reason := proto.RejectChange
		switch {
		case errors.Is(err, editor.ErrStopped), errors.Is(err, context.Canceled):
			reason = proto.RejectStopped
		case errors.Is(err, editor.ErrUnknownNode):
			reason = proto.RejectUnknownNode
		case errors.Is(err, proto.ErrInvalidChange):
			reason = proto.RejectInvalidChange
		}
		return reject(reason, err.Error())
	}
	ack := func(result editor.Result, err error) ([]byte, error) {
		if err != nil {
			return fail(err)
		}
		return proto.EncodeAck(ackFor(msg.Seq, result))
	}

	switch msg.Type {
	case proto.TypeChange:
		if msg.Node == nil {
			return reject(proto.RejectMalformed, "change requires a node")
		}
		change, err := msg.Change.Decode()
		if err != nil {
			return fail(err)
		}
		return ack(h.editor.ApplyChange(ctx, *msg.Node, change))

	case proto.TypeUndo:
		result, ok, err := h.editor.Undo(ctx)
		if err == nil && !ok {
			return reject(proto.RejectNothingToUndo, "")
		}
		return ack(result, err)

	case proto.TypeRedo:
		result, ok, err := h.editor.Redo(ctx)
		if err == nil && !ok {
			return reject(proto.RejectNothingToRedo, "")
		}
		return ack(result, err)

	case proto.TypeHistory:
		entries, err := h.editor.History(ctx)
		if err != nil {
			return fail(err)
		}
		return proto.EncodeHistory(msg.Seq, entries)

	case proto.TypeNodes:
		nodes, err := h.editor.Nodes(ctx)
		if err != nil {
			return fail(err)
		}
		return proto.EncodeNodes(msg.Seq, nodes)

	case proto.TypeDescribe:
		if msg.Node == nil {
			return reject(proto.RejectMalformed, "describe requires a node")
		}
		desc, err := h.editor.Describe(ctx, *msg.Node, msg.Path)
		if err != nil {
			return fail(err)
		}
		return proto.EncodeDescription(msg.Seq, msg.Path, desc)

	case proto.TypeEditNavmesh:
		if msg.Node == nil {
			return reject(proto.RejectMalformed, "editNavmesh requires a node")
		}
		return ack(editor.Result{}, h.editor.EditNavmesh(ctx, *msg.Node))

	case proto.TypePointerDown:
		pick, err := decodePick(msg.Pick)
		if err != nil {
			return reject(proto.RejectMalformed, err.Error())
		}
		return ack(h.editor.PointerDown(ctx, pick, modifiers(msg)))

	case proto.TypeDrag:
		if msg.Offset == nil {
			return reject(proto.RejectMalformed, "drag requires an offset")
		}
		return ack(h.editor.Drag(ctx, *msg.Offset, modifiers(msg)))

	case proto.TypePointerUp:
		return ack(h.editor.PointerUp(ctx))

	case proto.TypeKeyDown:
		key, ok := decodeKey(msg.Key)
		if !ok {
			return reject(proto.RejectNotConsumed, fmt.Sprintf("key %q is not handled", msg.Key))
		}
		result, consumed, err := h.editor.KeyDown(ctx, key, modifiers(msg))
		if err == nil && !consumed {
			return reject(proto.RejectNotConsumed, fmt.Sprintf("key %q is not handled", msg.Key))
		}
		return ack(result, err)

	case proto.TypeConnect:
		return ack(h.editor.Connect(ctx))

	case proto.TypeCancelDrag:
		return ack(editor.Result{}, h.editor.CancelDrag(ctx))

	case proto.TypeHeartbeat:
		return proto.EncodeHeartbeat(proto.Heartbeat{ServerTime: h.now(), ClientTime: msg.SentAt})

	default:
		return reject(proto.RejectUnknownType, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func ackFor(seq uint64, result editor.Result) proto.Ack {
	ack := proto.Ack{Seq: seq, Name: result.Name}
	if result.Name != "" {
		ack.CommandID = result.CommandID.String()
	}
	for _, f := range result.Failures {
		ack.Failures = append(ack.Failures, failureFor(f))
	}
	return ack
}

func failureFor(f edit.Failure) proto.Failure {
	described := edits.Describe(f)
	return proto.Failure{
		Op:      described.Op,
		Path:    described.Path,
		Reason:  described.Reason,
		Message: described.Message,
	}
}

func decodePick(p *proto.Pick) (navmesh.Pick, error) {
	if p == nil {
		return navmesh.Pick{}, errors.New("pointerDown requires a pick")
	}
	pick := navmesh.Pick{Vertex: p.Vertex, Edge: p.Edge}
	switch p.Kind {
	case "", "nothing":
		pick.Kind = navmesh.PickNothing
	case "gizmo":
		pick.Kind = navmesh.PickGizmo
	case "vertex":
		pick.Kind = navmesh.PickVertex
	case "edge":
		pick.Kind = navmesh.PickEdge
	default:
		return navmesh.Pick{}, fmt.Errorf("unknown pick kind %q", p.Kind)
	}
	return pick, nil
}

func decodeKey(raw string) (navmesh.Key, bool) {
	switch raw {
	case "Delete":
		return navmesh.KeyDelete, true
	case "a", "A":
		return navmesh.KeyA, true
	default:
		return 0, false
	}
}

func modifiers(msg proto.ClientMessage) navmesh.Modifiers {
	return navmesh.Modifiers{Shift: msg.Shift, Control: msg.Control}
}
