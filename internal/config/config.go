// Package config loads editor settings from an optional YAML file and then
// applies EDITOR_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"scene-editor/internal/command"
	"scene-editor/logging"
)

// Sink names accepted in Logging.Sinks.
const (
	SinkConsole = "console"
	SinkJSON    = "json"
	SinkSQLite  = "sqlite"
)

var knownSinks = []string{SinkConsole, SinkJSON, SinkSQLite}

// Settings is the full editor configuration.
type Settings struct {
	Addr         string          `yaml:"addr" env:"EDITOR_ADDR"`
	HistoryLimit int             `yaml:"history_limit" env:"EDITOR_HISTORY_LIMIT"`
	Logging      LoggingSettings `yaml:"logging"`
	Navmesh      NavmeshSettings `yaml:"navmesh"`
}

// LoggingSettings selects the log sinks and their tuning.
type LoggingSettings struct {
	Sinks       []string      `yaml:"sinks" env:"EDITOR_LOG_SINKS" envSeparator:","`
	Level       string        `yaml:"level" env:"EDITOR_LOG_LEVEL"`
	BufferSize  int           `yaml:"buffer_size" env:"EDITOR_LOG_BUFFER"`
	JSONPath    string        `yaml:"json_path" env:"EDITOR_LOG_JSON_PATH"`
	JSONFlush   time.Duration `yaml:"json_flush" env:"EDITOR_LOG_JSON_FLUSH"`
	SQLitePath  string        `yaml:"sqlite_path" env:"EDITOR_LOG_SQLITE_PATH"`
	SQLiteBatch int           `yaml:"sqlite_batch" env:"EDITOR_LOG_SQLITE_BATCH"`
}

// NavmeshSettings tunes the navmesh editing mode.
type NavmeshSettings struct {
	// VertexSnap rounds committed vertex positions to this grid when positive.
	VertexSnap float64 `yaml:"vertex_snap" env:"EDITOR_VERTEX_SNAP"`
}

// Default returns the settings used when neither a file nor the environment
// overrides anything.
func Default() Settings {
	logCfg := logging.DefaultConfig()
	return Settings{
		Addr:         ":8080",
		HistoryLimit: command.DefaultCapacity,
		Logging: LoggingSettings{
			Sinks:       slices.Clone(logCfg.EnabledSinks),
			Level:       logCfg.MinimumSeverity.String(),
			BufferSize:  logCfg.BufferSize,
			JSONFlush:   logCfg.JSON.FlushInterval,
			SQLitePath:  logCfg.SQLite.Path,
			SQLiteBatch: logCfg.SQLite.BatchSize,
		},
	}
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result.
func Load(path string) (Settings, error) {
	settings := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("reading settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parsing settings file: %w", err)
		}
	}
	if err := env.Parse(&settings); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate reports every invalid setting, joined into one error.
func (s Settings) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if s.HistoryLimit < 1 {
		errs = append(errs, fmt.Errorf("history_limit must be positive, got %d", s.HistoryLimit))
	}
	if s.Navmesh.VertexSnap < 0 {
		errs = append(errs, fmt.Errorf("navmesh.vertex_snap must not be negative, got %v", s.Navmesh.VertexSnap))
	}
	if _, err := logging.ParseSeverity(s.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	for _, sink := range s.Logging.Sinks {
		if !slices.Contains(knownSinks, sink) {
			errs = append(errs, fmt.Errorf("unknown log sink %q", sink))
		}
	}
	if slices.Contains(s.Logging.Sinks, SinkJSON) && s.Logging.JSONPath == "" {
		errs = append(errs, errors.New("logging.json_path is required when the json sink is enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// LogConfig converts the logging settings into a router configuration.
func (s Settings) LogConfig() (logging.Config, error) {
	cfg := logging.DefaultConfig()
	severity, err := logging.ParseSeverity(s.Logging.Level)
	if err != nil {
		return logging.Config{}, err
	}
	cfg.MinimumSeverity = severity
	cfg.EnabledSinks = slices.Clone(s.Logging.Sinks)
	if s.Logging.BufferSize > 0 {
		cfg.BufferSize = s.Logging.BufferSize
	}
	cfg.JSON.FilePath = s.Logging.JSONPath
	cfg.JSON.FlushInterval = s.Logging.JSONFlush
	if s.Logging.SQLitePath != "" {
		cfg.SQLite.Path = s.Logging.SQLitePath
	}
	if s.Logging.SQLiteBatch > 0 {
		cfg.SQLite.BatchSize = s.Logging.SQLiteBatch
	}
	return cfg, nil
}
