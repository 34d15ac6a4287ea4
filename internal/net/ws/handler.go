package ws

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"scene-editor/internal/editor"
	"scene-editor/internal/net/proto"
	"scene-editor/internal/telemetry"
	"scene-editor/logging"
)

const (
	sessionsMetricKey  = "editor_ws_sessions_total"
	malformedMetricKey = "editor_ws_malformed_total"
	readLimitBytes     = 1 << 20
)

type HandlerConfig struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	// Now stamps heartbeat replies. Defaults to time.Now.
	Now func() time.Time
}

// Handler serves inspector sessions over websocket. Each session reads
// requests, forwards them to the editor and writes one reply per request.
type Handler struct {
	editor   *editor.Editor
	logger   telemetry.Logger
	metrics  telemetry.Metrics
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewHandler(ed *editor.Editor, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		editor:   ed,
		logger:   logger,
		metrics:  metrics,
		now:      now,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	h.Serve(r.Context(), conn)
}

// Serve runs a session on conn until the peer disconnects or the editor
// stops. It closes conn before returning.
func (h *Handler) Serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	conn.SetReadLimit(readLimitBytes)

	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		logger: h.logger,
	}
	ctx = editor.WithActor(ctx, logging.EntityRef{ID: s.id, Kind: logging.EntityKindSession})
	h.metrics.Add(sessionsMetricKey, 1)

	nodes, err := h.editor.Nodes(ctx)
	if err != nil {
		h.closeWith(conn, websocket.CloseGoingAway, "editor unavailable")
		return
	}
	hello, err := proto.EncodeHello(proto.Hello{Session: s.id, Nodes: nodes})
	if err != nil {
		h.logger.Printf("failed to encode hello for %s: %v", s.id, err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.metrics.Add(malformedMetricKey, 1)
			h.logger.Printf("discarding malformed message from %s: %v", s.id, err)
			if !s.write(proto.EncodeReject(proto.Reject{Seq: msg.Seq, Reason: proto.RejectMalformed, Message: err.Error()})) {
				return
			}
			continue
		}

		if s.duplicate(msg.Seq) {
			if !s.write(proto.EncodeAck(proto.Ack{Seq: msg.Seq})) {
				return
			}
			continue
		}

		if !s.write(h.dispatch(ctx, msg)) {
			return
		}
		select {
		case <-h.editor.Done():
			h.closeWith(conn, websocket.CloseGoingAway, "editor stopped")
			return
		default:
		}
		s.store(msg.Seq)
	}
}

func (h *Handler) closeWith(conn *websocket.Conn, code int, text string) {
	message := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
}

type session struct {
	id      string
	conn    *websocket.Conn
	logger  telemetry.Logger
	lastSeq uint64
}

// duplicate reports whether seq was already processed. Zero opts out of
// sequencing.
func (s *session) duplicate(seq uint64) bool {
	return seq > 0 && s.lastSeq > 0 && seq <= s.lastSeq
}

func (s *session) store(seq uint64) {
	if seq > s.lastSeq {
		s.lastSeq = seq
	}
}

func (s *session) write(data []byte, err error) bool {
	if err != nil {
		s.logger.Printf("failed to marshal response for %s: %v", s.id, err)
		return true
	}
	return s.conn.WriteMessage(websocket.TextMessage, data) == nil
}
