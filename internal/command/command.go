// Package command sequences reversible edits. A Stack executes commands on
// push and replays them for undo and redo; a Group bundles several commands
// into one undo unit.
package command

// Command is one reversible mutation of the editing context C. Execute and
// Revert run synchronously on the goroutine that owns C.
type Command[C any] interface {
	Name(ctx C) string
	Execute(ctx C)
	Revert(ctx C)
}

// Finalizer is an optional hook for commands that hold resources which must be
// released once the command can no longer be undone or redone. The stack calls
// it on discarded entries and Group forwards it to its children. None of the
// editor's built-in commands need it.
type Finalizer[C any] interface {
	Finalize(ctx C)
}

// Func adapts a pair of closures into a Command.
type Func[C any] struct {
	Label   string
	Forward func(ctx C)
	Back    func(ctx C)
}

func (f Func[C]) Name(C) string { return f.Label }

func (f Func[C]) Execute(ctx C) {
	if f.Forward != nil {
		f.Forward(ctx)
	}
}

func (f Func[C]) Revert(ctx C) {
	if f.Back != nil {
		f.Back(ctx)
	}
}
