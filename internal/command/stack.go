package command

import "github.com/google/uuid"

const (
	historyDepthMetricKey   = "editor_history_depth"
	historyTrimmedMetricKey = "editor_history_trimmed_total"

	// DefaultCapacity bounds the history when no capacity is configured.
	DefaultCapacity = 512
)

type telemetryMetrics interface {
	Add(string, uint64)
	Store(string, uint64)
}

type entry[C any] struct {
	id  uuid.UUID
	cmd Command[C]
}

// Entry describes one command in the history.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Applied bool      `json:"applied"`
}

// Stack is an undo/redo history. Entries up to and including top are
// applied; entries above top can be redone until the next Do discards them.
// A Stack is not safe for concurrent use; it belongs to the goroutine that
// owns the editing context.
type Stack[C any] struct {
	entries  []entry[C]
	top      int
	capacity int
	metrics  telemetryMetrics
}

// NewStack constructs a history holding at most capacity commands.
func NewStack[C any](capacity int, metrics telemetryMetrics) *Stack[C] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Stack[C]{top: -1, capacity: capacity, metrics: metrics}
}

// Do executes cmd, pushes it on top of the history and returns its id. Any
// undone commands above the current top are finalized and dropped.
func (s *Stack[C]) Do(ctx C, cmd Command[C]) uuid.UUID {
	if cmd == nil {
		return uuid.Nil
	}
	s.truncateRedo(ctx)

	e := entry[C]{id: uuid.New(), cmd: cmd}
	cmd.Execute(ctx)
	s.entries = append(s.entries, e)
	s.top = len(s.entries) - 1

	for len(s.entries) > s.capacity {
		finalize(ctx, s.entries[0].cmd)
		s.entries[0] = entry[C]{}
		s.entries = s.entries[1:]
		s.top--
		if s.metrics != nil {
			s.metrics.Add(historyTrimmedMetricKey, 1)
		}
	}
	s.storeDepth()
	return e.id
}

func (s *Stack[C]) truncateRedo(ctx C) {
	for i := len(s.entries) - 1; i > s.top; i-- {
		finalize(ctx, s.entries[i].cmd)
		s.entries[i] = entry[C]{}
	}
	s.entries = s.entries[:s.top+1]
}

// Undo reverts the top command. It reports the reverted entry id and false
// when there is nothing to undo.
func (s *Stack[C]) Undo(ctx C) (uuid.UUID, bool) {
	if s.top < 0 {
		return uuid.Nil, false
	}
	e := s.entries[s.top]
	e.cmd.Revert(ctx)
	s.top--
	s.storeDepth()
	return e.id, true
}

// Redo re-executes the command above top.
func (s *Stack[C]) Redo(ctx C) (uuid.UUID, bool) {
	next := s.top + 1
	if next >= len(s.entries) {
		return uuid.Nil, false
	}
	e := s.entries[next]
	e.cmd.Execute(ctx)
	s.top = next
	s.storeDepth()
	return e.id, true
}

// CanUndo reports whether Undo would revert a command.
func (s *Stack[C]) CanUndo() bool { return s.top >= 0 }

// CanRedo reports whether Redo would execute a command.
func (s *Stack[C]) CanRedo() bool { return s.top+1 < len(s.entries) }

// Depth reports the number of applied commands.
func (s *Stack[C]) Depth() int { return s.top + 1 }

// Len reports the number of commands held, applied or not.
func (s *Stack[C]) Len() int { return len(s.entries) }

// Top returns the most recently applied command.
func (s *Stack[C]) Top() (Command[C], bool) {
	if s.top < 0 {
		return nil, false
	}
	return s.entries[s.top].cmd, true
}

// Clear finalizes and forgets every command without reverting them.
func (s *Stack[C]) Clear(ctx C) {
	for i := range s.entries {
		finalize(ctx, s.entries[i].cmd)
	}
	s.entries = nil
	s.top = -1
	s.storeDepth()
}

// History lists every entry from oldest to newest.
func (s *Stack[C]) History(ctx C) []Entry {
	out := make([]Entry, 0, len(s.entries))
	for i, e := range s.entries {
		out = append(out, Entry{ID: e.id, Name: e.cmd.Name(ctx), Applied: i <= s.top})
	}
	return out
}

func (s *Stack[C]) storeDepth() {
	if s.metrics == nil {
		return
	}
	s.metrics.Store(historyDepthMetricKey, uint64(s.top+1))
}

func finalize[C any](ctx C, cmd Command[C]) {
	if f, ok := cmd.(Finalizer[C]); ok {
		f.Finalize(ctx)
	}
}
