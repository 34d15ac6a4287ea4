package net

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"strconv"

	"scene-editor/internal/command"
	"scene-editor/internal/editor"
	"scene-editor/internal/net/ws"
	"scene-editor/internal/telemetry"
	"scene-editor/logging/sinks"
)

// Journal reads back persisted editor events.
type Journal interface {
	Recent(ctx context.Context, limit int) ([]sinks.StoredEvent, error)
}

type HTTPHandlerConfig struct {
	Logger telemetry.Logger
	// Metrics serves /metrics when set.
	Metrics nethttp.Handler
	// Journal serves /events when set.
	Journal       Journal
	SessionConfig ws.HandlerConfig
}

const defaultEventsLimit = 100

func NewHTTPHandler(ed *editor.Editor, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	sessionCfg := cfg.SessionConfig
	if sessionCfg.Logger == nil {
		sessionCfg.Logger = logger
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		select {
		case <-ed.Done():
			w.WriteHeader(nethttp.StatusServiceUnavailable)
			w.Write([]byte("stopped"))
		default:
			w.Write([]byte("ok"))
		}
	})

	mux.HandleFunc("/history", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		entries, err := ed.History(r.Context())
		if err != nil {
			httpError(w, "editor unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		if entries == nil {
			entries = []command.Entry{}
		}
		writeJSON(w, logger, struct {
			Entries []command.Entry `json:"entries"`
		}{Entries: entries})
	})

	mux.HandleFunc("/nodes", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		nodes, err := ed.Nodes(r.Context())
		if err != nil {
			httpError(w, "editor unavailable", nethttp.StatusServiceUnavailable)
			return
		}
		if nodes == nil {
			nodes = []editor.NodeSummary{}
		}
		writeJSON(w, logger, struct {
			Nodes []editor.NodeSummary `json:"nodes"`
		}{Nodes: nodes})
	})

	if cfg.Journal != nil {
		mux.HandleFunc("/events", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if r.Method != nethttp.MethodGet {
				httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
				return
			}
			limit := defaultEventsLimit
			if raw := r.URL.Query().Get("limit"); raw != "" {
				value, err := strconv.Atoi(raw)
				if err != nil || value <= 0 {
					httpError(w, "invalid limit", nethttp.StatusBadRequest)
					return
				}
				limit = value
			}
			events, err := cfg.Journal.Recent(r.Context(), limit)
			if err != nil {
				logger.Printf("failed to read event journal: %v", err)
				httpError(w, "journal unavailable", nethttp.StatusInternalServerError)
				return
			}
			if events == nil {
				events = []sinks.StoredEvent{}
			}
			writeJSON(w, logger, struct {
				Events []sinks.StoredEvent `json:"events"`
			}{Events: events})
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	sessions := ws.NewHandler(ed, sessionCfg)
	mux.HandleFunc("/ws", sessions.Handle)

	return mux
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	nethttp.Error(w, message, status)
}
