package fieldgen

import (
	"strings"
	"testing"
)

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("display_name=Rotation (deg), group=Common")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.DisplayName != "Rotation (deg)" || tag.Group != "Common" || tag.Skip {
		t.Fatalf("unexpected tag: %+v", tag)
	}

	skip, err := ParseTag("-")
	if err != nil || !skip.Skip {
		t.Fatalf("expected skip tag, got %+v (%v)", skip, err)
	}

	if _, err := ParseTag("expand"); err == nil {
		t.Fatal("expected option without value to fail")
	}
	if _, err := ParseTag("colour=red"); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown option error, got %v", err)
	}
}

func TestFieldName(t *testing.T) {
	cases := []struct {
		goName, json, override, want string
	}{
		{goName: "Position", want: "position"},
		{goName: "Position", json: "pos,omitempty", want: "pos"},
		{goName: "Position", json: "-", want: "position"},
		{goName: "Position", json: "pos", override: "where", want: "where"},
	}
	for _, tc := range cases {
		if got := fieldName(tc.goName, tc.json, tc.override); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestRenderEmitsTablesAndMethods(t *testing.T) {
	src, err := Render(File{
		Package: "scene",
		Types: []Type{{
			Name: "Navmesh",
			Fields: []Field{
				{Name: "vertices", GoName: "Vertices", GoType: "[]Vertex", ElemType: "Vertex", DisplayName: "Vertices"},
				{Name: "label", GoName: "Label", GoType: "string", DisplayName: "Label", Group: "Common"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	out := string(src)

	want := []string{
		"// Code generated by fieldgen. DO NOT EDIT.",
		"//go:build !fieldgen",
		"package scene",
		`import "scene-editor/internal/property"`,
		"var navmeshFields = property.NewTable[Navmesh]()",
		`property.Collection(navmeshFields, "vertices", func(o *Navmesh) *[]Vertex { return &o.Vertices }, property.DisplayName("Vertices"))`,
		`property.Scalar(navmeshFields, "label", func(o *Navmesh) *string { return &o.Label }, property.DisplayName("Label"), property.Group("Common"))`,
		"func (o *Navmesh) Field(name string) (property.Field, bool) { return navmeshFields.Bind(o, name) }",
		"func (o *Navmesh) IsNil() bool { return o == nil }",
	}
	for _, fragment := range want {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected generated source to contain %q, got:\n%s", fragment, out)
		}
	}
}

func TestRenderRequiresPackage(t *testing.T) {
	if _, err := Render(File{}); err == nil {
		t.Fatal("expected render without package name to fail")
	}
}

func TestSplitTypes(t *testing.T) {
	got := SplitTypes(" Vec3, ,Node ")
	if len(got) != 2 || got[0] != "Vec3" || got[1] != "Node" {
		t.Fatalf("unexpected types: %v", got)
	}
}

func TestRunValidatesOptions(t *testing.T) {
	if err := Run(Options{Dir: t.TempDir(), OutputPath: "out.go"}); err == nil {
		t.Fatal("expected missing types to fail")
	}
	if err := Run(Options{Dir: "/does/not/exist", Types: []string{"Node"}, OutputPath: "out.go"}); err == nil {
		t.Fatal("expected missing directory to fail")
	}
}
