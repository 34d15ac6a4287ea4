package edits

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"scene-editor/internal/edit"
	"scene-editor/internal/property"
	"scene-editor/logging"
)

func TestDescribeClassifiesFailures(t *testing.T) {
	cases := []struct {
		err     error
		reason  string
		message string
	}{
		{&property.PathError{Path: "navmesh.vertices[9]", Reason: property.ReasonIndexOutOfRange}, "index out of range", "There is no such property"},
		{&property.TypeMismatchError{Want: "string", Got: "int"}, "type_mismatch", "Incompatible types: expected string, got int"},
		{&property.NotACollectionError{Path: "name", Type: "string"}, "not_a_collection", "is not a collection"},
		{&property.CollectionUnderflowError{Index: -1}, "collection_underflow", "Failed to pop item from tags collection!"},
		{&property.CollectionUnderflowError{Index: 4, Len: 2}, "collection_underflow", "Failed to remove item 4"},
		{fmt.Errorf("second execute: %w", edit.ErrOutOfOrder), "out_of_order", "out of order"},
	}
	for _, tc := range cases {
		got := Describe(edit.Failure{Op: edit.OpSet, Phase: edit.PhaseExecute, Path: "tags", Err: tc.err})
		if got.Reason != tc.reason {
			t.Fatalf("expected reason %q for %v, got %q", tc.reason, tc.err, got.Reason)
		}
		if !strings.Contains(got.Message, tc.message) {
			t.Fatalf("expected message containing %q, got %q", tc.message, got.Message)
		}
		if got.Op != "set" || got.Phase != "execute" || got.Path != "tags" {
			t.Fatalf("unexpected payload %+v", got)
		}
	}
}

type handle struct{ id int }

func (h handle) String() string { return fmt.Sprintf("node-%d", h.id) }

func TestReporterPublishesErrors(t *testing.T) {
	var events []logging.Event
	pub := logging.PublisherFunc(func(_ context.Context, e logging.Event) { events = append(events, e) })
	var seq uint64
	reporter := Reporter(context.Background(), pub, logging.EntityRef{ID: "editor", Kind: logging.EntityKindEditor}, func() uint64 {
		seq++
		return seq
	})

	reporter.Report(edit.Failure{
		Op:     edit.OpAddItem,
		Phase:  edit.PhaseRevert,
		Handle: handle{id: 3},
		Path:   "tags",
		Err:    &property.CollectionUnderflowError{Path: "tags", Index: -1},
	})

	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	event := events[0]
	if event.Type != EventPropertyFailure || event.Severity != logging.SeverityError || event.Sequence != 1 {
		t.Fatalf("unexpected event %+v", event)
	}
	if len(event.Targets) != 1 || event.Targets[0].ID != "node-3" {
		t.Fatalf("expected handle to become the target, got %+v", event.Targets)
	}
	if payload, ok := event.Payload.(PropertyFailurePayload); !ok || payload.Op != "add_item" {
		t.Fatalf("unexpected payload %#v", event.Payload)
	}
}

func TestTargetWithoutHandle(t *testing.T) {
	if ref := Target(nil); ref.Kind != logging.EntityKindUnknown || ref.ID != "" {
		t.Fatalf("expected unknown target, got %+v", ref)
	}
}
