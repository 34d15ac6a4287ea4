package ws

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"scene-editor/internal/editor"
	"scene-editor/internal/net/proto"
	"scene-editor/internal/scene"
	"scene-editor/internal/workspace"
)

type counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

func (c *counters) Add(key string, delta uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] += delta
}

func (c *counters) Store(key string, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] = value
}

func (c *counters) get(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

type testSession struct {
	conn   *websocket.Conn
	editor *editor.Editor
	node   scene.Handle
	hello  map[string]any
}

func startSession(t *testing.T, cfg HandlerConfig) *testSession {
	t.Helper()

	ed := editor.New(scene.New(), editor.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	go ed.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-ed.Done()
	})
	node, err := ed.AddNode(context.Background(), scene.DefaultNode())
	if err != nil {
		t.Fatalf("failed to add node: %v", err)
	}

	srv := httptest.NewServer(nethttp.HandlerFunc(NewHandler(ed, cfg).Handle))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})

	s := &testSession{conn: conn, editor: ed, node: node}
	s.hello = s.read(t)
	return s
}

func (s *testSession) send(t *testing.T, msg any) map[string]any {
	t.Helper()
	if err := s.conn.WriteJSON(msg); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}
	return s.read(t)
}

func (s *testSession) read(t *testing.T) map[string]any {
	t.Helper()
	s.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := s.conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read websocket payload: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode websocket payload: %v", err)
	}
	return frame
}

func renameMessage(seq uint64, node scene.Handle, name string) map[string]any {
	return map[string]any{
		"type": proto.TypeChange,
		"seq":  seq,
		"node": node,
		"change": map[string]any{
			"name":  "name",
			"field": map[string]any{"kind": "object", "value": name},
		},
	}
}

func websocketURL(t *testing.T, baseURL string) string {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.Path = "/"
	return parsed.String()
}

func TestHelloListsNodes(t *testing.T) {
	s := startSession(t, HandlerConfig{})
	if s.hello["type"] != proto.TypeHello {
		t.Fatalf("expected hello frame, got %v", s.hello)
	}
	if session, _ := s.hello["session"].(string); session == "" {
		t.Fatalf("expected session id in hello, got %v", s.hello)
	}
	nodes, ok := s.hello["nodes"].([]any)
	if !ok || len(nodes) != 1 {
		t.Fatalf("expected one node in hello, got %v", s.hello["nodes"])
	}
}

func TestChangeIsAckedAndApplied(t *testing.T) {
	s := startSession(t, HandlerConfig{})

	ack := s.send(t, renameMessage(1, s.node, "Crate"))
	if ack["type"] != proto.TypeAck || ack["seq"] != float64(1) {
		t.Fatalf("expected ack for seq 1, got %v", ack)
	}
	if id, _ := ack["commandId"].(string); id == "" {
		t.Fatalf("expected command id in ack, got %v", ack)
	}

	var name string
	s.editor.View(context.Background(), func(w *workspace.Workspace) { name = w.Scene.Node(s.node).Name })
	if name != "Crate" {
		t.Fatalf("expected node to be renamed, got %q", name)
	}

	history := s.send(t, map[string]any{"type": proto.TypeHistory, "seq": 2})
	entries, ok := history["entries"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one history entry, got %v", history)
	}

	undo := s.send(t, map[string]any{"type": proto.TypeUndo, "seq": 3})
	if undo["type"] != proto.TypeAck {
		t.Fatalf("expected undo to be acked, got %v", undo)
	}
	again := s.send(t, map[string]any{"type": proto.TypeUndo, "seq": 4})
	if again["type"] != proto.TypeReject || again["reason"] != proto.RejectNothingToUndo {
		t.Fatalf("expected nothing to undo, got %v", again)
	}
}

func TestDuplicateSequenceIsNotReapplied(t *testing.T) {
	s := startSession(t, HandlerConfig{})

	s.send(t, renameMessage(5, s.node, "First"))
	dup := s.send(t, renameMessage(5, s.node, "Second"))
	if dup["type"] != proto.TypeAck || dup["seq"] != float64(5) {
		t.Fatalf("expected duplicate to be acked, got %v", dup)
	}
	if _, ok := dup["commandId"]; ok {
		t.Fatalf("expected duplicate ack without command, got %v", dup)
	}
	entries, err := s.editor.History(context.Background())
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected a single history entry, got %v %v", entries, err)
	}
}

func TestRejectsMalformedAndUnknownMessages(t *testing.T) {
	metrics := &counters{}
	s := startSession(t, HandlerConfig{Metrics: metrics})

	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}
	malformed := s.read(t)
	if malformed["reason"] != proto.RejectMalformed {
		t.Fatalf("expected malformed reject, got %v", malformed)
	}

	unknown := s.send(t, map[string]any{"type": "teleport", "seq": 1})
	if unknown["reason"] != proto.RejectUnknownType {
		t.Fatalf("expected unknown type reject, got %v", unknown)
	}

	invalid := s.send(t, map[string]any{
		"type":   proto.TypeChange,
		"seq":    2,
		"node":   s.node,
		"change": map[string]any{"name": "name", "field": map[string]any{"kind": "shape"}},
	})
	if invalid["reason"] != proto.RejectInvalidChange {
		t.Fatalf("expected invalid change reject, got %v", invalid)
	}

	missing := s.send(t, map[string]any{
		"type": proto.TypeDescribe,
		"seq":  3,
		"node": scene.Handle{Index: 42, Generation: 1},
	})
	if missing["reason"] != proto.RejectUnknownNode {
		t.Fatalf("expected unknown node reject, got %v", missing)
	}

	if metrics.get(sessionsMetricKey) != 1 || metrics.get(malformedMetricKey) != 1 {
		t.Fatalf("unexpected session metrics %v", metrics.values)
	}
}

func TestDescribeAndHeartbeat(t *testing.T) {
	now := time.UnixMilli(50_000)
	s := startSession(t, HandlerConfig{Now: func() time.Time { return now }})

	desc := s.send(t, map[string]any{"type": proto.TypeDescribe, "seq": 1, "node": s.node, "path": "transform"})
	if desc["type"] != proto.TypeDescription || desc["path"] != "transform" {
		t.Fatalf("expected transform description, got %v", desc)
	}
	if fields, ok := desc["fields"].([]any); !ok || len(fields) != 3 {
		t.Fatalf("expected three transform fields, got %v", desc["fields"])
	}

	beat := s.send(t, map[string]any{"type": proto.TypeHeartbeat, "sentAt": 49_900})
	if beat["serverTime"] != float64(50_000) || beat["rtt"] != float64(100) {
		t.Fatalf("unexpected heartbeat %v", beat)
	}
}

func TestKeyDownOutsideNavmeshIsNotConsumed(t *testing.T) {
	s := startSession(t, HandlerConfig{})

	reply := s.send(t, map[string]any{"type": proto.TypeKeyDown, "seq": 1, "key": "Escape"})
	if reply["reason"] != proto.RejectNotConsumed {
		t.Fatalf("expected unhandled key to be rejected, got %v", reply)
	}
}
