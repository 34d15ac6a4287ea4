package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	eventsMetricKey       = "editor_log_events_total"
	droppedMetricKey      = "editor_log_dropped_total"
	sinkFailuresMetricKey = "editor_log_sink_failures_total"

	defaultBufferSize = 512
	maxRetryDelay     = 3200 * time.Millisecond
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// NamedSink registers a sink with the router. MinSeverity raises the
// router-wide threshold for this sink only.
type NamedSink struct {
	Name        string
	Sink        Sink
	MinSeverity Severity
}

// Metrics receives router counters.
type Metrics interface {
	Add(key string, delta uint64)
}

// Router stamps published events and hands them to one worker per sink. Each
// worker owns a bounded backlog; Publish never blocks, and an event that
// finds a backlog full is dropped for that sink and counted.
type Router struct {
	clock       Clock
	fallback    *log.Logger
	metrics     Metrics
	minSeverity Severity
	fields      map[string]any
	warnEvery   time.Duration

	// mu guards closed against the backlog channels being closed while
	// Publish is sending on them.
	mu      sync.RWMutex
	closed  bool
	workers []*sinkWorker
	wg      sync.WaitGroup

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
	nextDropWarn atomic.Int64
}

type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
	SinkFailures map[string]uint64
}

// RouterOption adjusts a router before it starts.
type RouterOption func(*Router)

// WithMetrics reports event, drop and sink failure counts to m.
func WithMetrics(m Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// WithFallback replaces the logger used for the router's own diagnostics.
func WithFallback(logger *log.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.fallback = logger
		}
	}
}

func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink, opts ...RouterOption) (*Router, error) {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	backlog := cfg.BufferSize
	if backlog <= 0 {
		backlog = defaultBufferSize
	}
	warnEvery := cfg.DropWarnInterval
	if warnEvery <= 0 {
		warnEvery = 5 * time.Second
	}
	r := &Router{
		clock:       clock,
		fallback:    log.New(os.Stderr, "[logging] ", log.LstdFlags),
		minSeverity: cfg.MinimumSeverity,
		fields:      cfg.CloneFields(),
		warnEvery:   warnEvery,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		w := &sinkWorker{
			router:      r,
			name:        named.Name,
			sink:        named.Sink,
			minSeverity: max(named.MinSeverity, r.minSeverity),
			backlog:     make(chan Event, backlog),
		}
		r.workers = append(r.workers, w)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			w.run()
		}()
	}
	return r, nil
}

// Publish satisfies Publisher. Events without a type or below the minimum
// severity are discarded, as is everything published after Close.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || event.Severity < r.minSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = mergeFields(event, r.fields)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	r.eventsTotal.Add(1)
	r.count(eventsMetricKey)
	for _, w := range r.workers {
		if event.Severity < w.minSeverity {
			continue
		}
		select {
		case w.backlog <- event.Clone():
		default:
			r.dropped(w, event)
		}
	}
}

func (r *Router) dropped(w *sinkWorker, event Event) {
	r.droppedTotal.Add(1)
	r.count(droppedMetricKey)
	now := time.Now().UnixNano()
	next := r.nextDropWarn.Load()
	if now < next {
		return
	}
	if r.nextDropWarn.CompareAndSwap(next, now+r.warnEvery.Nanoseconds()) {
		r.fallback.Printf("sink %s backlog full, dropping event type=%s sequence=%d", w.name, event.Type, event.Sequence)
	}
}

func (r *Router) count(key string) {
	if r.metrics != nil {
		r.metrics.Add(key, 1)
	}
}

// Close stops accepting events, waits for every backlog to drain and closes
// the sinks. If ctx expires first the sinks are left open.
func (r *Router) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for _, w := range r.workers {
		close(w.backlog)
	}
	r.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, w := range r.workers {
		if err := w.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
	if len(r.workers) > 0 {
		stats.SinkFailures = make(map[string]uint64, len(r.workers))
		for _, w := range r.workers {
			stats.SinkFailures[w.name] = w.failuresTotal.Load()
		}
	}
	return stats
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, w := range r.workers {
		if w.name == name {
			return w.sink
		}
	}
	return nil
}

// sinkWorker writes one sink's backlog. After a failed write it backs off
// exponentially before the next write; events are never retried.
type sinkWorker struct {
	router      *Router
	name        string
	sink        Sink
	minSeverity Severity
	backlog     chan Event

	consecutive   int
	failuresTotal atomic.Uint64
}

func (w *sinkWorker) run() {
	for event := range w.backlog {
		if w.consecutive > 0 {
			time.Sleep(w.retryDelay())
		}
		if err := w.sink.Write(event); err != nil {
			w.consecutive++
			w.failuresTotal.Add(1)
			w.router.count(sinkFailuresMetricKey)
			w.router.fallback.Printf("sink %s failed to write %s: %v", w.name, event.Type, err)
			continue
		}
		w.consecutive = 0
	}
}

func (w *sinkWorker) retryDelay() time.Duration {
	delay := 100 * time.Millisecond << min(w.consecutive, 5)
	return min(delay, maxRetryDelay)
}
