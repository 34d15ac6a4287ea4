package logging

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	SQLite           SQLiteConfig
	DropWarnInterval time.Duration
}

type JSONConfig struct {
	FilePath      string
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	// Prefix is prepended to every console line.
	Prefix string
}

// SQLiteConfig configures the persistent event journal.
type SQLiteConfig struct {
	Path      string
	BatchSize int
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path:      "editor-events.db",
			BatchSize: 1,
		},
	}
}

func (c Config) HasSink(name string) bool {
	return slices.Contains(c.EnabledSinks, name)
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity accepts the names produced by Severity.String.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return SeverityDebug, nil
	case "info", "":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("logging: unknown severity %q", raw)
	}
}
