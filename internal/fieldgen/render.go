package fieldgen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
	"unicode"
	"unicode/utf8"
)

const propertyImport = "scene-editor/internal/property"

// File is everything needed to render one generated source file.
type File struct {
	Package string
	Types   []Type
}

// Type is an object type with its registered fields.
type Type struct {
	Name   string
	Fields []Field
}

// Field is one registered accessor. ElemType is set for collections.
type Field struct {
	Name        string
	GoName      string
	GoType      string
	ElemType    string
	DisplayName string
	Group       string
}

// Collection reports whether the field registers list operations.
func (f Field) Collection() bool { return f.ElemType != "" }

// TableVar is the name of the package-level table variable for t.
func (t Type) TableVar() string {
	r, size := utf8.DecodeRuneInString(t.Name)
	return string(unicode.ToLower(r)) + t.Name[size:] + "Fields"
}

var fileTemplate = template.Must(template.New("fields").Parse(`// Code generated by fieldgen. DO NOT EDIT.

//go:build !fieldgen

package {{ .Package }}

import "` + propertyImport + `"
{{ range .Types }}{{ $t := . }}
var {{ .TableVar }} = property.NewTable[{{ .Name }}]()

func init() {
{{- range .Fields }}
{{- if .Collection }}
	property.Collection({{ $t.TableVar }}, {{ printf "%q" .Name }}, func(o *{{ $t.Name }}) *{{ .GoType }} { return &o.{{ .GoName }} }
{{- else }}
	property.Scalar({{ $t.TableVar }}, {{ printf "%q" .Name }}, func(o *{{ $t.Name }}) *{{ .GoType }} { return &o.{{ .GoName }} }
{{- end -}}
, property.DisplayName({{ printf "%q" .DisplayName }})
{{- if .Group }}, property.Group({{ printf "%q" .Group }}){{ end }})
{{- end }}
}

// Field implements property.Object.
func (o *{{ .Name }}) Field(name string) (property.Field, bool) { return {{ .TableVar }}.Bind(o, name) }

// Fields implements property.Object.
func (o *{{ .Name }}) Fields() []property.Info { return {{ .TableVar }}.Fields() }

// IsNil reports whether o holds no value.
func (o *{{ .Name }}) IsNil() bool { return o == nil }
{{ end }}`))

// Render produces gofmt formatted source for file.
func Render(file File) ([]byte, error) {
	if file.Package == "" {
		return nil, fmt.Errorf("fieldgen: package name is required")
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, file); err != nil {
		return nil, fmt.Errorf("fieldgen: render template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("fieldgen: format generated source: %w\n%s", err, buf.String())
	}
	return src, nil
}
