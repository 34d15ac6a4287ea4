// Package editor hosts the workspace and its undo history on a single
// goroutine. Every operation is submitted to the Run loop and waits for it to
// finish, so commands always execute against a graph nobody else touches.
package editor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"scene-editor/internal/command"
	"scene-editor/internal/edit"
	"scene-editor/internal/navmesh"
	"scene-editor/internal/scene"
	"scene-editor/internal/telemetry"
	"scene-editor/internal/workspace"
	"scene-editor/logging"
	"scene-editor/logging/edits"
	"scene-editor/logging/history"
)

const (
	commandsMetricKey       = "editor_commands_total"
	undoMetricKey           = "editor_undo_total"
	redoMetricKey           = "editor_redo_total"
	failuresMetricKey       = "editor_property_failures_total"
	rejectedMetricKey       = "editor_changes_rejected_total"
	defaultRequestQueueSize = 64
)

var (
	// ErrStopped is returned once the Run loop has exited.
	ErrStopped = errors.New("editor stopped")
	// ErrUnknownNode reports a handle that addresses no node.
	ErrUnknownNode = errors.New("unknown node")
)

// Config wires the editor's collaborators. Zero values fall back to no-op
// implementations.
type Config struct {
	HistoryLimit int
	Navmesh      navmesh.Options
	QueueSize    int
	Publisher    logging.Publisher
	Metrics      telemetry.Metrics
	Logger       telemetry.Logger
}

// Result describes the command a request pushed onto, or moved through, the
// history. Failures lists the mutations its children skipped.
type Result struct {
	CommandID uuid.UUID
	Name      string
	Failures  []edit.Failure
}

// Editor owns a workspace, its undo stack and the navmesh editing mode.
type Editor struct {
	requests chan func()
	done     chan struct{}

	ws      *workspace.Workspace
	stack   *workspace.Stack
	props   workspace.Properties
	mode    *navmesh.EditMode
	pub     logging.Publisher
	metrics telemetry.Metrics
	logger  telemetry.Logger

	seq      uint64
	actor    logging.EntityRef
	failures []edit.Failure
}

type actorKey struct{}

// WithActor tags requests made with ctx as coming from actor.
func WithActor(ctx context.Context, actor logging.EntityRef) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) logging.EntityRef {
	if actor, ok := ctx.Value(actorKey{}).(logging.EntityRef); ok {
		return actor
	}
	return logging.EntityRef{ID: "editor", Kind: logging.EntityKindEditor}
}

// New returns an editor over s. Run must be started before any request.
func New(s *scene.Scene, cfg Config) *Editor {
	if cfg.Publisher == nil {
		cfg.Publisher = logging.NopPublisher()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NopMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = telemetry.LoggerFunc(nil)
	}
	queue := cfg.QueueSize
	if queue <= 0 {
		queue = defaultRequestQueueSize
	}

	e := &Editor{
		requests: make(chan func(), queue),
		done:     make(chan struct{}),
		ws:       workspace.New(s),
		stack:    command.NewStack[*workspace.Workspace](cfg.HistoryLimit, cfg.Metrics),
		pub:      cfg.Publisher,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	e.props = workspace.NewProperties(edit.ReporterFunc(e.report))
	e.mode = navmesh.NewEditMode(e.props, cfg.Navmesh)
	return e
}

// Run processes requests until ctx is cancelled.
func (e *Editor) Run(ctx context.Context) error {
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-e.requests:
			req()
		}
	}
}

// Done is closed once Run has returned.
func (e *Editor) Done() <-chan struct{} { return e.done }

// submit runs fn on the editor goroutine and waits for it. ctx only bounds
// the wait for a queue slot; once accepted a request always completes.
func (e *Editor) submit(ctx context.Context, fn func(actor logging.EntityRef)) error {
	actor := actorFrom(ctx)
	finished := make(chan struct{})
	req := func() {
		defer close(finished)
		e.actor = actor
		fn(actor)
	}
	select {
	case e.requests <- req:
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-e.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// View runs fn against the workspace on the editor goroutine. fn must not
// retain the workspace.
func (e *Editor) View(ctx context.Context, fn func(w *workspace.Workspace)) error {
	return e.submit(ctx, func(logging.EntityRef) { fn(e.ws) })
}

// AddNode inserts node into the scene outside of the undo history.
func (e *Editor) AddNode(ctx context.Context, node *scene.Node) (scene.Handle, error) {
	var handle scene.Handle
	err := e.submit(ctx, func(logging.EntityRef) { handle = e.ws.Scene.Add(node) })
	return handle, err
}

// NodeSummary names one node of the scene.
type NodeSummary struct {
	Handle     scene.Handle `json:"handle"`
	Name       string       `json:"name"`
	HasNavmesh bool         `json:"hasNavmesh"`
}

// Nodes lists every live node.
func (e *Editor) Nodes(ctx context.Context) ([]NodeSummary, error) {
	var out []NodeSummary
	err := e.submit(ctx, func(logging.EntityRef) {
		for _, h := range e.ws.Scene.Handles() {
			node := e.ws.Scene.Node(h)
			out = append(out, NodeSummary{Handle: h, Name: node.Name, HasNavmesh: node.Navmesh != nil})
		}
	})
	return out, err
}

func (e *Editor) nextSeq() uint64 {
	e.seq++
	return e.seq
}

func (e *Editor) report(f edit.Failure) {
	e.failures = append(e.failures, f)
	e.metrics.Add(failuresMetricKey, 1)
	edits.PropertyFailure(context.Background(), e.pub, e.nextSeq(), e.actor, edits.Target(f.Handle), edits.Describe(f), nil)
}

// push executes cmd through the history. Empty groups are dropped.
func (e *Editor) push(ctx context.Context, actor logging.EntityRef, cmd workspace.Command) Result {
	if cmd == nil {
		return Result{}
	}
	if g, ok := cmd.(*command.Group[*workspace.Workspace]); ok && g.Len() == 0 {
		return Result{}
	}
	e.failures = nil
	id := e.stack.Do(e.ws, cmd)
	result := Result{CommandID: id, Name: cmd.Name(e.ws), Failures: e.takeFailures()}
	e.metrics.Add(commandsMetricKey, 1)
	history.CommandExecuted(ctx, e.pub, e.nextSeq(), actor, id.String(), history.CommandPayload{
		Name:  result.Name,
		Depth: e.stack.Depth(),
	}, failureExtra(result.Failures))
	return result
}

func (e *Editor) takeFailures() []edit.Failure {
	failures := e.failures
	e.failures = nil
	return failures
}

func failureExtra(failures []edit.Failure) map[string]any {
	if len(failures) == 0 {
		return nil
	}
	return map[string]any{"failures": len(failures)}
}
