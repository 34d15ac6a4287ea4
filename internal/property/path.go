package property

import (
	"strconv"
	"strings"
)

// Segment is one step of a path: either a field name or a collection index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// Path is a parsed property locator such as "navmesh.vertices[2].position".
type Path []Segment

// ParsePath splits a dot/bracket delimited locator into segments. The first
// segment must be a field name.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "empty path"}
	}
	var path Path
	i := 0
	expectName := true
	for i < len(s) {
		switch {
		case s[i] == '[':
			if len(path) == 0 {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "path must start with a field name"}
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "unclosed bracket"}
			}
			raw := s[i+1 : i+end]
			index, err := strconv.Atoi(raw)
			if err != nil || index < 0 || raw == "" || raw[0] == '+' {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Segment: raw, Detail: "invalid index"}
			}
			path = append(path, Segment{Index: index, IsIndex: true})
			i += end + 1
			expectName = false
		case s[i] == '.':
			if expectName {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "empty field name"}
			}
			i++
			expectName = true
			if i == len(s) {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "trailing dot"}
			}
		default:
			if !expectName {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Detail: "expected '.' or '[' after " + path.String()}
			}
			j := i
			for j < len(s) && isNameByte(s[j], j == i) {
				j++
			}
			if j == i {
				return nil, &PathError{Path: s, Reason: ReasonSyntax, Segment: s[i:], Detail: "invalid field name"}
			}
			path = append(path, Segment{Name: s[i:j]})
			i = j
			expectName = false
		}
	}
	return path, nil
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

// String renders the path back to its textual form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// Join appends a field name to a textual path.
func Join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Index appends a collection index to a textual path.
func Index(path string, index int) string {
	return path + "[" + strconv.Itoa(index) + "]"
}
