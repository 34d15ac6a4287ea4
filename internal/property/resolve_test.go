package property

import (
	"errors"
	"reflect"
	"testing"
)

func newRecord() *record {
	return &record{
		Name:   "root",
		Pos:    vec{X: 1, Y: 2},
		Items:  []string{"a", "b", "c"},
		Points: []vec{{X: 0, Y: 0}, {X: 5, Y: 6}},
		Child:  &record{Name: "child"},
	}
}

func TestResolveNestedFields(t *testing.T) {
	root := newRecord()

	cases := map[string]any{
		"name":        "root",
		"pos.x":       1.0,
		"points[1].y": 6.0,
		"items[2]":    "c",
		"child.name":  "child",
	}
	for path, want := range cases {
		got, err := Get(root, path)
		if err != nil {
			t.Fatalf("unexpected error resolving %q: %v", path, err)
		}
		if got != want {
			t.Fatalf("expected %q to be %v, got %v", path, want, got)
		}
	}
}

func TestResolveFailures(t *testing.T) {
	root := newRecord()
	root.Child = nil

	cases := []struct {
		path   string
		reason PathReason
	}{
		{path: "missing", reason: ReasonUnknownField},
		{path: "pos.z", reason: ReasonUnknownField},
		{path: "items[3]", reason: ReasonIndexOutOfRange},
		{path: "name[0]", reason: ReasonNotIndexable},
		{path: "name.length", reason: ReasonNotAnObject},
		{path: "child.name", reason: ReasonNotAnObject},
		{path: "points[0]]", reason: ReasonSyntax},
	}
	for _, tc := range cases {
		_, err := Resolve(root, tc.path)
		var pathErr *PathError
		if !errors.As(err, &pathErr) {
			t.Fatalf("expected path error for %q, got %v", tc.path, err)
		}
		if pathErr.Reason != tc.reason {
			t.Fatalf("expected reason %q for %q, got %q", tc.reason, tc.path, pathErr.Reason)
		}
		if pathErr.Path != tc.path {
			t.Fatalf("expected error to carry path %q, got %q", tc.path, pathErr.Path)
		}
	}
}

func TestResolveMissingRoot(t *testing.T) {
	var missing *record
	_, err := Resolve(missing, "name")
	var pathErr *PathError
	if !errors.As(err, &pathErr) || pathErr.Reason != ReasonMissingTarget {
		t.Fatalf("expected missing target error, got %v", err)
	}
	if _, err := Resolve(nil, "name"); !errors.Is(err, ErrNoSuchProperty) {
		t.Fatalf("expected nil root to fail, got %v", err)
	}
}

func TestSetByPathReturnsPreviousValue(t *testing.T) {
	root := newRecord()

	old, err := SetByPath(root, "points[0].x", 9.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if old != 0.0 {
		t.Fatalf("expected old value 0, got %v", old)
	}
	if root.Points[0].X != 9.5 {
		t.Fatalf("expected field to be updated, got %v", root.Points[0].X)
	}

	old, err = SetByPath(root, "pos", vec{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if old != (vec{X: 1, Y: 2}) {
		t.Fatalf("unexpected old struct value: %+v", old)
	}
}

func TestSetByPathTypeMismatchLeavesFieldUntouched(t *testing.T) {
	root := newRecord()

	_, err := SetByPath(root, "pos.x", "not a number")
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if mismatch.Path != "pos.x" || mismatch.Want != "float64" || mismatch.Got != "string" {
		t.Fatalf("unexpected mismatch details: %+v", mismatch)
	}
	if mismatch.Value != "not a number" {
		t.Fatalf("expected rejected value to be kept, got %v", mismatch.Value)
	}
	if root.Pos.X != 1 {
		t.Fatalf("expected field unchanged, got %v", root.Pos.X)
	}
	if _, err := SetByPath(root, "pos.x", float32(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected float32 to be rejected for float64 field, got %v", err)
	}
}

func TestListOperations(t *testing.T) {
	root := newRecord()
	list, err := ResolveList(root, "items")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.ItemTypeName() != "string" {
		t.Fatalf("unexpected item type %q", list.ItemTypeName())
	}

	if err := list.Push("d"); err != nil {
		t.Fatalf("unexpected push error: %v", err)
	}
	if err := list.Push(42); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected push of int to fail, got %v", err)
	}
	if !reflect.DeepEqual(root.Items, []string{"a", "b", "c", "d"}) {
		t.Fatalf("unexpected items after push: %v", root.Items)
	}

	removed, ok := list.Remove(1)
	if !ok || removed != "b" {
		t.Fatalf("expected to remove b, got %v %v", removed, ok)
	}
	if !reflect.DeepEqual(root.Items, []string{"a", "c", "d"}) {
		t.Fatalf("unexpected items after remove: %v", root.Items)
	}
	if _, ok := list.Remove(3); ok {
		t.Fatalf("expected out of range remove to fail")
	}

	if err := list.Insert(1, "b"); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
	if err := list.Insert(9, "z"); !errors.Is(err, ErrCollectionUnderflow) {
		t.Fatalf("expected insert beyond length to fail, got %v", err)
	}

	popped, ok := list.Pop()
	if !ok || popped != "d" {
		t.Fatalf("expected to pop d, got %v %v", popped, ok)
	}
	if !reflect.DeepEqual(root.Items, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected items after pop: %v", root.Items)
	}
}

func TestListEditsDoNotAliasCapturedSlices(t *testing.T) {
	root := newRecord()
	captured := root.Items

	list, err := ResolveList(root, "items")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list.Remove(0)
	list.Push("x")

	if !reflect.DeepEqual(captured, []string{"a", "b", "c"}) {
		t.Fatalf("expected captured slice to stay intact, got %v", captured)
	}
}

func TestPopEmptyCollection(t *testing.T) {
	root := &record{}
	list, err := ResolveList(root, "points")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := list.Pop(); ok {
		t.Fatalf("expected pop on empty collection to fail")
	}
}

func TestResolveListRejectsScalars(t *testing.T) {
	_, err := ResolveList(newRecord(), "name")
	var notList *NotACollectionError
	if !errors.As(err, &notList) {
		t.Fatalf("expected not a collection error, got %v", err)
	}
	if notList.Type != "string" {
		t.Fatalf("unexpected type in error: %q", notList.Type)
	}
}

func TestFieldsMetadata(t *testing.T) {
	infos := newRecord().Fields()
	if len(infos) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(infos))
	}
	if infos[0].DisplayName != "Name" || infos[0].Group != "Common" {
		t.Fatalf("unexpected metadata: %+v", infos[0])
	}
	if !infos[2].Collection || infos[2].TypeName != "[]string" {
		t.Fatalf("expected items to be a string collection, got %+v", infos[2])
	}
	if infos[1].TypeName != "property.vec" {
		t.Fatalf("unexpected struct type name %q", infos[1].TypeName)
	}
}

func TestDecodeBuildsTypedValue(t *testing.T) {
	field, err := Resolve(newRecord(), "pos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := field.Decode(func(dst any) error {
		ptr, ok := dst.(*vec)
		if !ok {
			t.Fatalf("unexpected decode target %T", dst)
		}
		ptr.X = 7
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if value != (vec{X: 7}) {
		t.Fatalf("unexpected decoded value: %+v", value)
	}
}
