package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"scene-editor/logging"
)

// ConsoleSink writes one human readable line per event.
type ConsoleSink struct {
	logger *log.Logger
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	if w == nil {
		w = io.Discard
	}
	return &ConsoleSink{logger: log.New(w, cfg.Prefix, log.LstdFlags)}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] actor=%s severity=%s", event.Type, formatEntity(event.Actor), event.Severity)
	if event.Sequence > 0 {
		fmt.Fprintf(&b, " seq=%d", event.Sequence)
	}
	if event.CommandID != "" {
		fmt.Fprintf(&b, " command=%s", event.CommandID)
	}
	b.WriteString(formatTargets(event.Targets))
	b.WriteString(formatPayload(event.Payload))
	s.logger.Print(b.String())
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}
