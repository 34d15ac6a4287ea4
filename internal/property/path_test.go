package property

import (
	"errors"
	"testing"
)

func TestParsePathRoundTrip(t *testing.T) {
	cases := []string{
		"name",
		"pos.x",
		"points[2].y",
		"navmesh.vertices[10].position",
		"grid[1][2]",
		"_private.field_2",
	}
	for _, raw := range cases {
		path, err := ParsePath(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got := path.String(); got != raw {
			t.Fatalf("expected %q to render back unchanged, got %q", raw, got)
		}
	}
}

func TestParsePathSegments(t *testing.T) {
	path, err := ParsePath("points[3].x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Path{{Name: "points"}, {Index: 3, IsIndex: true}, {Name: "x"}}
	if len(path) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(path))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("segment %d: expected %+v, got %+v", i, want[i], path[i])
		}
	}
}

func TestParsePathRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		".name",
		"name.",
		"a..b",
		"[0]",
		"items[",
		"items[]",
		"items[-1]",
		"items[x]",
		"items[+1]",
		"items[0]x",
		"9lives",
		"a b",
	}
	for _, raw := range cases {
		_, err := ParsePath(raw)
		if err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
		var pathErr *PathError
		if !errors.As(err, &pathErr) || pathErr.Reason != ReasonSyntax {
			t.Fatalf("expected syntax path error for %q, got %v", raw, err)
		}
		if !errors.Is(err, ErrNoSuchProperty) {
			t.Fatalf("expected %q error to match ErrNoSuchProperty", raw)
		}
	}
}

func TestJoinAndIndex(t *testing.T) {
	if got := Join("", "name"); got != "name" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := Index(Join("navmesh", "vertices"), 4); got != "navmesh.vertices[4]" {
		t.Fatalf("unexpected index: %q", got)
	}
}
