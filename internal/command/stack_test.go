package command

import (
	"fmt"
	"reflect"
	"testing"
)

type ledger struct {
	values    []int
	finalized []string
}

type appendCommand struct {
	value int
}

func (c *appendCommand) Name(*ledger) string { return fmt.Sprintf("append %d", c.value) }

func (c *appendCommand) Execute(l *ledger) { l.values = append(l.values, c.value) }

func (c *appendCommand) Revert(l *ledger) { l.values = l.values[:len(l.values)-1] }

func (c *appendCommand) Finalize(l *ledger) {
	l.finalized = append(l.finalized, c.Name(l))
}

type recordingMetrics struct {
	added  map[string]uint64
	stored map[string]uint64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{added: map[string]uint64{}, stored: map[string]uint64{}}
}

func (m *recordingMetrics) Add(key string, delta uint64)   { m.added[key] += delta }
func (m *recordingMetrics) Store(key string, value uint64) { m.stored[key] = value }

func TestStackUndoRedo(t *testing.T) {
	l := &ledger{}
	stack := NewStack[*ledger](10, nil)

	first := stack.Do(l, &appendCommand{value: 1})
	stack.Do(l, &appendCommand{value: 2})
	if !reflect.DeepEqual(l.values, []int{1, 2}) {
		t.Fatalf("unexpected values after do: %v", l.values)
	}

	if _, ok := stack.Undo(l); !ok {
		t.Fatalf("expected undo to succeed")
	}
	id, ok := stack.Undo(l)
	if !ok || id != first {
		t.Fatalf("expected second undo to revert the first command")
	}
	if len(l.values) != 0 {
		t.Fatalf("expected empty values after undo, got %v", l.values)
	}
	if _, ok := stack.Undo(l); ok {
		t.Fatalf("expected undo on empty history to fail")
	}

	if _, ok := stack.Redo(l); !ok {
		t.Fatalf("expected redo to succeed")
	}
	if !reflect.DeepEqual(l.values, []int{1}) {
		t.Fatalf("unexpected values after redo: %v", l.values)
	}
	if !stack.CanRedo() || !stack.CanUndo() {
		t.Fatalf("expected both undo and redo to be available")
	}
}

func TestStackDoDiscardsRedoTail(t *testing.T) {
	l := &ledger{}
	stack := NewStack[*ledger](10, nil)

	stack.Do(l, &appendCommand{value: 1})
	stack.Do(l, &appendCommand{value: 2})
	stack.Undo(l)
	stack.Do(l, &appendCommand{value: 3})

	if !reflect.DeepEqual(l.values, []int{1, 3}) {
		t.Fatalf("unexpected values: %v", l.values)
	}
	if stack.CanRedo() {
		t.Fatalf("expected redo tail to be discarded")
	}
	if !reflect.DeepEqual(l.finalized, []string{"append 2"}) {
		t.Fatalf("expected discarded command to be finalized, got %v", l.finalized)
	}
	history := stack.History(l)
	if len(history) != 2 || history[1].Name != "append 3" || !history[1].Applied {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestStackCapacityTrimsOldest(t *testing.T) {
	l := &ledger{}
	metrics := newRecordingMetrics()
	stack := NewStack[*ledger](2, metrics)

	for i := 1; i <= 3; i++ {
		stack.Do(l, &appendCommand{value: i})
	}
	if stack.Len() != 2 {
		t.Fatalf("expected history length 2, got %d", stack.Len())
	}
	if !reflect.DeepEqual(l.finalized, []string{"append 1"}) {
		t.Fatalf("expected oldest command to be finalized, got %v", l.finalized)
	}
	if metrics.added[historyTrimmedMetricKey] != 1 {
		t.Fatalf("expected trim metric, got %v", metrics.added)
	}
	if metrics.stored[historyDepthMetricKey] != 2 {
		t.Fatalf("expected depth metric 2, got %v", metrics.stored)
	}

	stack.Undo(l)
	stack.Undo(l)
	if _, ok := stack.Undo(l); ok {
		t.Fatalf("expected trimmed command to be unreachable")
	}
	if !reflect.DeepEqual(l.values, []int{1}) {
		t.Fatalf("expected trimmed command to stay applied, got %v", l.values)
	}
}

func TestStackClear(t *testing.T) {
	l := &ledger{}
	stack := NewStack[*ledger](0, nil)
	stack.Do(l, &appendCommand{value: 1})
	stack.Clear(l)
	if stack.Len() != 0 || stack.CanUndo() {
		t.Fatalf("expected empty history after clear")
	}
	if !reflect.DeepEqual(l.values, []int{1}) {
		t.Fatalf("expected clear to keep applied state, got %v", l.values)
	}
	if len(l.finalized) != 1 {
		t.Fatalf("expected cleared command to be finalized")
	}
}

func TestStackIgnoresNilCommand(t *testing.T) {
	stack := NewStack[*ledger](4, nil)
	stack.Do(&ledger{}, nil)
	if stack.Len() != 0 {
		t.Fatalf("expected nil command to be ignored")
	}
}

func TestGroupRevertsInReverseOrder(t *testing.T) {
	var order []string
	record := func(label string) Command[*ledger] {
		return Func[*ledger]{
			Label:   label,
			Forward: func(*ledger) { order = append(order, "do "+label) },
			Back:    func(*ledger) { order = append(order, "undo "+label) },
		}
	}
	group := NewGroup(record("a"), nil, record("b"))
	if group.Len() != 2 {
		t.Fatalf("expected nil commands to be dropped, got %d", group.Len())
	}

	l := &ledger{}
	group.Execute(l)
	group.Revert(l)

	want := []string{"do a", "do b", "undo b", "undo a"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("unexpected order: %v", order)
	}
	if got := group.Name(l); got != "Command group: a, b" {
		t.Fatalf("unexpected group name %q", got)
	}
	if got := group.WithName("Move vertices").Name(l); got != "Move vertices" {
		t.Fatalf("unexpected custom group name %q", got)
	}
}

func TestGroupFinalizesChildren(t *testing.T) {
	l := &ledger{}
	group := NewGroup[*ledger](&appendCommand{value: 1}, &appendCommand{value: 2})
	stack := NewStack[*ledger](1, nil)
	stack.Do(l, group)
	stack.Do(l, &appendCommand{value: 3})
	if !reflect.DeepEqual(l.finalized, []string{"append 1", "append 2"}) {
		t.Fatalf("expected group children finalized, got %v", l.finalized)
	}
}
