package fieldgen

import (
	"fmt"
	"strings"
)

// Tag is the parsed form of an `inspect:"..."` struct tag.
type Tag struct {
	Skip        bool
	Name        string
	DisplayName string
	Group       string
}

// ParseTag parses a comma separated list of key=value options. A lone "-"
// excludes the field.
func ParseTag(raw string) (Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "-" {
		return Tag{Skip: true}, nil
	}
	var tag Tag
	if raw == "" {
		return tag, nil
	}
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok {
			return Tag{}, fmt.Errorf("fieldgen: inspect option %q is missing a value", key)
		}
		value = strings.TrimSpace(value)
		switch key {
		case "name":
			tag.Name = value
		case "display_name":
			tag.DisplayName = value
		case "group":
			tag.Group = value
		default:
			return Tag{}, fmt.Errorf("fieldgen: unknown inspect option %q", key)
		}
	}
	return tag, nil
}
