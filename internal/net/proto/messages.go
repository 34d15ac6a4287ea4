package proto

import (
	"encoding/json"
	"fmt"
	"time"

	"scene-editor/internal/command"
	"scene-editor/internal/editor"
	"scene-editor/internal/scene"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1

	typeHello       = "hello"
	typeAck         = "ack"
	typeReject      = "reject"
	typeHistory     = "history"
	typeDescription = "description"
	typeNodes       = "nodes"
	typeHeartbeat   = "heartbeat"
)

// Client message type identifiers.
const (
	TypeChange      = "change"
	TypeUndo        = "undo"
	TypeRedo        = "redo"
	TypeHistory     = "history"
	TypeDescribe    = "describe"
	TypeNodes       = "nodes"
	TypeEditNavmesh = "editNavmesh"
	TypePointerDown = "pointerDown"
	TypeDrag        = "drag"
	TypePointerUp   = "pointerUp"
	TypeKeyDown     = "keyDown"
	TypeConnect     = "connect"
	TypeCancelDrag  = "cancelDrag"
	TypeHeartbeat   = "heartbeat"
)

// Exported aliases for outbound message type identifiers.
const (
	TypeHello       = typeHello
	TypeAck         = typeAck
	TypeReject      = typeReject
	TypeDescription = typeDescription
)

// Reject reasons.
const (
	RejectMalformed     = "malformed"
	RejectUnknownType   = "unknown_type"
	RejectInvalidChange = "invalid_change"
	RejectChange        = "change_rejected"
	RejectUnknownNode   = "unknown_node"
	RejectNothingToUndo = "nothing_to_undo"
	RejectNothingToRedo = "nothing_to_redo"
	RejectNotConsumed   = "not_consumed"
	RejectStopped       = "stopped"
)

// ClientMessage captures an inbound websocket message from the inspector.
type ClientMessage struct {
	Ver     int           `json:"ver,omitempty"`
	Type    string        `json:"type"`
	Seq     uint64        `json:"seq,omitempty"`
	Node    *scene.Handle `json:"node,omitempty"`
	Change  *Change       `json:"change,omitempty"`
	Path    string        `json:"path,omitempty"`
	Pick    *Pick         `json:"pick,omitempty"`
	Offset  *scene.Vec3   `json:"offset,omitempty"`
	Key     string        `json:"key,omitempty"`
	Shift   bool          `json:"shift,omitempty"`
	Control bool          `json:"control,omitempty"`
	SentAt  int64         `json:"sentAt,omitempty"`
}

// Pick is the wire form of a navmesh hit test result.
type Pick struct {
	Kind   string     `json:"kind" jsonschema:"enum=nothing,enum=gizmo,enum=vertex,enum=edge"`
	Vertex uint32     `json:"vertex,omitempty"`
	Edge   scene.Edge `json:"edge,omitempty"`
}

// DecodeClientMessage parses payload and checks its protocol version.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("unsupported client protocol version %d", msg.Ver)
	}
	return msg, nil
}

// Hello greets a freshly connected session.
type Hello struct {
	Session string
	Nodes   []editor.NodeSummary
}

// EncodeHello renders the greeting sent after the upgrade.
func EncodeHello(msg Hello) ([]byte, error) {
	frame := struct {
		Ver     int                  `json:"ver"`
		Type    string               `json:"type"`
		Session string               `json:"session"`
		Nodes   []editor.NodeSummary `json:"nodes"`
	}{
		Ver:     Version,
		Type:    typeHello,
		Session: msg.Session,
		Nodes:   nonNil(msg.Nodes),
	}
	return json.Marshal(frame)
}

// Failure is a skipped mutation as shown to the inspector.
type Failure struct {
	Op      string `json:"op"`
	Path    string `json:"path"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Ack acknowledges a processed request.
type Ack struct {
	Seq       uint64
	CommandID string
	Name      string
	Failures  []Failure
}

// EncodeAck renders an acknowledgement.
func EncodeAck(msg Ack) ([]byte, error) {
	frame := struct {
		Ver       int       `json:"ver"`
		Type      string    `json:"type"`
		Seq       uint64    `json:"seq"`
		CommandID string    `json:"commandId,omitempty"`
		Name      string    `json:"name,omitempty"`
		Failures  []Failure `json:"failures,omitempty"`
	}{
		Ver:       Version,
		Type:      typeAck,
		Seq:       msg.Seq,
		CommandID: msg.CommandID,
		Name:      msg.Name,
		Failures:  msg.Failures,
	}
	return json.Marshal(frame)
}

// Reject notifies the inspector that a request was refused.
type Reject struct {
	Seq     uint64
	Reason  string
	Message string
}

// EncodeReject renders a rejection.
func EncodeReject(msg Reject) ([]byte, error) {
	frame := struct {
		Ver     int    `json:"ver"`
		Type    string `json:"type"`
		Seq     uint64 `json:"seq"`
		Reason  string `json:"reason"`
		Message string `json:"message,omitempty"`
	}{
		Ver:     Version,
		Type:    typeReject,
		Seq:     msg.Seq,
		Reason:  msg.Reason,
		Message: msg.Message,
	}
	return json.Marshal(frame)
}

// EncodeHistory renders the undo history.
func EncodeHistory(seq uint64, entries []command.Entry) ([]byte, error) {
	frame := struct {
		Ver     int             `json:"ver"`
		Type    string          `json:"type"`
		Seq     uint64          `json:"seq"`
		Entries []command.Entry `json:"entries"`
	}{
		Ver:     Version,
		Type:    typeHistory,
		Seq:     seq,
		Entries: nonNil(entries),
	}
	return json.Marshal(frame)
}

// EncodeDescription renders the fields of a node.
func EncodeDescription(seq uint64, path string, desc editor.Description) ([]byte, error) {
	frame := struct {
		Ver    int                       `json:"ver"`
		Type   string                    `json:"type"`
		Seq    uint64                    `json:"seq"`
		Node   scene.Handle              `json:"node"`
		Path   string                    `json:"path,omitempty"`
		Fields []editor.FieldDescription `json:"fields"`
	}{
		Ver:    Version,
		Type:   typeDescription,
		Seq:    seq,
		Node:   desc.Handle,
		Path:   path,
		Fields: nonNil(desc.Fields),
	}
	return json.Marshal(frame)
}

// EncodeNodes renders the node listing.
func EncodeNodes(seq uint64, nodes []editor.NodeSummary) ([]byte, error) {
	frame := struct {
		Ver   int                  `json:"ver"`
		Type  string               `json:"type"`
		Seq   uint64               `json:"seq"`
		Nodes []editor.NodeSummary `json:"nodes"`
	}{
		Ver:   Version,
		Type:  typeNodes,
		Seq:   seq,
		Nodes: nonNil(nodes),
	}
	return json.Marshal(frame)
}

// Heartbeat echoes the client clock so it can measure round trips.
type Heartbeat struct {
	ServerTime time.Time
	ClientTime int64
}

// EncodeHeartbeat renders a heartbeat reply.
func EncodeHeartbeat(msg Heartbeat) ([]byte, error) {
	frame := struct {
		Ver        int    `json:"ver"`
		Type       string `json:"type"`
		ServerTime int64  `json:"serverTime"`
		ClientTime int64  `json:"clientTime"`
		RTTMillis  int64  `json:"rtt,omitempty"`
	}{
		Ver:        Version,
		Type:       typeHeartbeat,
		ServerTime: msg.ServerTime.UnixMilli(),
		ClientTime: msg.ClientTime,
	}
	if msg.ClientTime > 0 {
		if rtt := frame.ServerTime - msg.ClientTime; rtt > 0 {
			frame.RTTMillis = rtt
		}
	}
	return json.Marshal(frame)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
