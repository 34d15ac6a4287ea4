package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"scene-editor/internal/config"
	"scene-editor/internal/editor"
	"scene-editor/internal/navmesh"
	servernet "scene-editor/internal/net"
	"scene-editor/internal/net/ws"
	"scene-editor/internal/scene"
	"scene-editor/internal/telemetry"
	"scene-editor/logging"
	loggingSinks "scene-editor/logging/sinks"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	Logger   telemetry.Logger
	Settings config.Settings
	// Ready is called with the bound address once the server accepts
	// connections.
	Ready func(addr net.Addr)
}

// Run serves the editor until ctx is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}
	settings := cfg.Settings

	logConfig, err := settings.LogConfig()
	if err != nil {
		return fmt.Errorf("invalid logging settings: %w", err)
	}

	registry := telemetry.NewRegistry(telemetryLogger)

	sinks, journal, closeFiles, err := openSinks(logConfig)
	if err != nil {
		return err
	}
	defer closeFiles()

	router, err := logging.NewRouter(logging.ClockFunc(time.Now), logConfig, sinks,
		logging.WithMetrics(registry),
		logging.WithFallback(telemetry.StandardLogger(telemetryLogger)),
	)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	ed := editor.New(SeedScene(), editor.Config{
		HistoryLimit: settings.HistoryLimit,
		Navmesh:      navmesh.Options{Snap: settings.Navmesh.VertexSnap},
		Publisher:    router,
		Metrics:      registry,
		Logger:       telemetryLogger,
	})
	editorCtx, stopEditor := context.WithCancel(context.Background())
	go ed.Run(editorCtx)
	defer func() {
		stopEditor()
		<-ed.Done()
	}()

	handlerCfg := servernet.HTTPHandlerConfig{
		Logger:  telemetryLogger,
		Metrics: registry.Handler(),
		SessionConfig: ws.HandlerConfig{
			Logger:  telemetryLogger,
			Metrics: registry,
		},
	}
	if journal != nil {
		handlerCfg.Journal = journal
	}

	listener, err := net.Listen("tcp", settings.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", settings.Addr, err)
	}
	srv := &http.Server{
		Handler:           servernet.NewHTTPHandler(ed, handlerCfg),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          telemetry.StandardLogger(telemetryLogger),
	}
	telemetryLogger.Printf("editor listening on %s", listener.Addr())
	if cfg.Ready != nil {
		cfg.Ready(listener.Addr())
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(listener) }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openSinks builds the sinks enabled in cfg. The returned journal is the
// SQLite sink when enabled and nil otherwise; closeFiles releases files the
// sinks write to and must run after the router is closed.
func openSinks(cfg logging.Config) ([]logging.NamedSink, *loggingSinks.SQLite, func(), error) {
	var (
		named   []logging.NamedSink
		journal *loggingSinks.SQLite
		files   []*os.File
	)
	closeFiles := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if cfg.HasSink(config.SinkConsole) {
		named = append(named, logging.NamedSink{
			Name: config.SinkConsole,
			Sink: loggingSinks.NewConsoleSink(os.Stdout, cfg.Console),
		})
	}
	if cfg.HasSink(config.SinkJSON) {
		if err := os.MkdirAll(filepath.Dir(cfg.JSON.FilePath), 0o755); err != nil {
			return nil, nil, closeFiles, fmt.Errorf("create json log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, closeFiles, fmt.Errorf("open json log: %w", err)
		}
		files = append(files, f)
		named = append(named, logging.NamedSink{
			Name: config.SinkJSON,
			Sink: loggingSinks.NewJSON(f, cfg.JSON.FlushInterval),
		})
	}
	if cfg.HasSink(config.SinkSQLite) {
		sqlite, err := loggingSinks.OpenSQLite(cfg.SQLite)
		if err != nil {
			closeFiles()
			return nil, nil, func() {}, err
		}
		journal = sqlite
		named = append(named, logging.NamedSink{Name: config.SinkSQLite, Sink: sqlite})
	}
	return named, journal, closeFiles, nil
}

// SeedScene returns the scene a fresh editor starts with: a plain node and
// a navmesh node holding a single quad.
func SeedScene() *scene.Scene {
	s := scene.New()
	s.Add(scene.DefaultNode())

	floor := scene.NewNavmeshNode("Floor")
	floor.Navmesh.Vertices = []scene.Vertex{
		{Position: scene.Vec3{X: 0, Y: 0, Z: 0}},
		{Position: scene.Vec3{X: 1, Y: 0, Z: 0}},
		{Position: scene.Vec3{X: 1, Y: 0, Z: 1}},
		{Position: scene.Vec3{X: 0, Y: 0, Z: 1}},
	}
	floor.Navmesh.Triangles = []scene.Triangle{
		{A: 0, B: 1, C: 2},
		{A: 0, B: 2, C: 3},
	}
	s.Add(floor)
	return s
}
