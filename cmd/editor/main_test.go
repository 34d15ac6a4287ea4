package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteSchemaDescribesClientMessage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "client.json")
	if err := writeSchema(out, buildSchema()); err != nil {
		t.Fatalf("expected schema to be written, got %v", err)
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, got %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("expected valid JSON schema, got %v", err)
	}
	if doc["title"] != "Scene Editor Client Message" {
		t.Fatalf("unexpected schema title %v", doc["title"])
	}
	defs, ok := doc["$defs"].(map[string]any)
	if !ok {
		defs, _ = doc["definitions"].(map[string]any)
	}
	if _, ok := defs["Change"]; !ok {
		t.Fatalf("expected change description in schema definitions, got %v", keys(defs))
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
