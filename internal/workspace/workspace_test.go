package workspace

import (
	"reflect"
	"testing"

	"scene-editor/internal/command"
	"scene-editor/internal/edit"
	"scene-editor/internal/scene"
)

func TestUniqueVerticesMergesEdgesAndVertices(t *testing.T) {
	sel := NavmeshSelection{Entities: []NavmeshEntity{
		EdgeEntity(scene.Edge{A: 4, B: 1}),
		Vertex(1),
		Vertex(7),
		EdgeEntity(scene.Edge{A: 7, B: 4}),
	}}
	if got := sel.UniqueVertices(); !reflect.DeepEqual(got, []uint32{1, 4, 7}) {
		t.Fatalf("unexpected unique vertices: %v", got)
	}
	if got := sel.Edges(); len(got) != 2 {
		t.Fatalf("expected two edges, got %v", got)
	}
}

func TestSelectionWithSkipsDuplicates(t *testing.T) {
	sel := NavmeshSelection{}.With(EdgeEntity(scene.Edge{A: 1, B: 2}))
	again := sel.With(EdgeEntity(scene.Edge{A: 2, B: 1}))
	if len(again.Entities) != 1 {
		t.Fatalf("expected reversed edge to be treated as selected, got %v", again.Entities)
	}
	more := again.With(Vertex(2))
	if len(more.Entities) != 2 || len(sel.Entities) != 1 {
		t.Fatalf("expected With to copy, got %v and %v", more.Entities, sel.Entities)
	}
}

func TestChangeSelectionSwaps(t *testing.T) {
	w := New(nil)
	prev := w.Selection
	next := Selection{Navmesh: &NavmeshSelection{Entities: []NavmeshEntity{Vertex(3)}}}
	cmd := NewChangeSelection(next, prev)

	cmd.Execute(w)
	if !w.Selection.Equal(next) {
		t.Fatalf("expected selection to switch, got %+v", w.Selection)
	}
	next.Navmesh.Entities[0] = Vertex(9)
	if w.Selection.Navmesh.Entities[0].Vertex != 3 {
		t.Fatalf("expected command to keep its own copy of the selection")
	}
	cmd.Revert(w)
	if !w.Selection.IsEmpty() {
		t.Fatalf("expected revert to restore the empty selection")
	}
}

func TestPropertiesLocateNodes(t *testing.T) {
	w := New(scene.New())
	handle := w.Scene.Add(scene.DefaultNode())

	var failures []edit.Failure
	props := NewProperties(edit.ReporterFunc(func(f edit.Failure) { failures = append(failures, f) }))
	rename := props.Set(handle, "name", "Crate")
	rename.Execute(w)
	if w.Scene.Node(handle).Name != "Crate" {
		t.Fatalf("expected node to be renamed, got %q", w.Scene.Node(handle).Name)
	}

	w.Scene.Remove(handle)
	rename.Revert(w)
	if len(failures) != 1 {
		t.Fatalf("expected revert on a removed node to be reported, got %v", failures)
	}
}

func TestNewGroupOrdersRemovalsDescending(t *testing.T) {
	w := New(scene.New())
	node := scene.DefaultNode()
	node.Tags = []string{"a", "b", "c", "d"}
	handle := w.Scene.Add(node)

	var failures []edit.Failure
	props := NewProperties(edit.ReporterFunc(func(f edit.Failure) { failures = append(failures, f) }))
	group := NewGroup(
		props.RemoveItem(handle, "tags", 0),
		props.RemoveItem(handle, "tags", 2),
	)

	var indices []int
	for _, cmd := range group.Commands() {
		indices = append(indices, cmd.(*edit.RemoveItem[*Workspace, scene.Handle]).Index())
	}
	if !reflect.DeepEqual(indices, []int{2, 0}) {
		t.Fatalf("expected removals in descending order, got %v", indices)
	}

	stack := command.NewStack[*Workspace](4, nil)
	stack.Do(w, group)
	if got := w.Scene.Node(handle).Tags; !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Fatalf("unexpected tags after removal: %v", got)
	}
	stack.Undo(w)
	if got := w.Scene.Node(handle).Tags; !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("expected undo to restore the original order, got %v", got)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
}
