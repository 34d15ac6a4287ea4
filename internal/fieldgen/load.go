package fieldgen

import (
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/tools/go/packages"
)

// Load type-checks the package in dir and collects the named struct types.
func Load(dir string, names []string) (File, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return File{}, fmt.Errorf("fieldgen: unable to resolve package directory: %w", err)
	}

	// The fieldgen tag excludes the previous output so a stale file never
	// blocks loading.
	cfg := &packages.Config{
		Dir:        absDir,
		Mode:       packages.NeedName | packages.NeedTypes | packages.NeedFiles,
		BuildFlags: []string{"-tags=fieldgen"},
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return File{}, fmt.Errorf("fieldgen: failed loading package: %w", err)
	}
	if len(pkgs) != 1 {
		return File{}, fmt.Errorf("fieldgen: expected a single package in %s, got %d", absDir, len(pkgs))
	}
	pkg := pkgs[0]
	if pkg.Types == nil {
		return File{}, fmt.Errorf("fieldgen: package %s has no type information", absDir)
	}

	file := File{Package: pkg.Name}
	for _, name := range names {
		typ, err := collectType(pkg.Types, name)
		if err != nil {
			return File{}, err
		}
		file.Types = append(file.Types, typ)
	}
	return file, nil
}

func collectType(pkg *types.Package, name string) (Type, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return Type{}, fmt.Errorf("fieldgen: type %s not found in %s", name, pkg.Path())
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return Type{}, fmt.Errorf("fieldgen: %s is not a named type", name)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return Type{}, fmt.Errorf("fieldgen: %s is not a struct", name)
	}

	qualifier := types.RelativeTo(pkg)
	typ := Type{Name: name}
	seen := make(map[string]string)
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		if !v.Exported() || v.Embedded() {
			continue
		}
		structTag := reflect.StructTag(st.Tag(i))
		tag, err := ParseTag(structTag.Get("inspect"))
		if err != nil {
			return Type{}, fmt.Errorf("fieldgen: %s.%s: %w", name, v.Name(), err)
		}
		if tag.Skip {
			continue
		}

		field := Field{
			Name:        fieldName(v.Name(), structTag.Get("json"), tag.Name),
			GoName:      v.Name(),
			GoType:      types.TypeString(v.Type(), qualifier),
			DisplayName: tag.DisplayName,
			Group:       tag.Group,
		}
		if field.DisplayName == "" {
			field.DisplayName = v.Name()
		}
		if slice, ok := v.Type().Underlying().(*types.Slice); ok {
			field.ElemType = types.TypeString(slice.Elem(), qualifier)
		}
		if prev, dup := seen[field.Name]; dup {
			return Type{}, fmt.Errorf("fieldgen: %s fields %s and %s share the name %q", name, prev, v.Name(), field.Name)
		}
		seen[field.Name] = v.Name()
		typ.Fields = append(typ.Fields, field)
	}
	return typ, nil
}

// fieldName picks the path segment for a field: an explicit inspect name,
// then the json name, then the Go name with a lowercase first letter.
func fieldName(goName, jsonTag, override string) string {
	if override != "" {
		return override
	}
	if name, _, _ := strings.Cut(jsonTag, ","); name != "" && name != "-" {
		return name
	}
	r, size := utf8.DecodeRuneInString(goName)
	return string(unicode.ToLower(r)) + goName[size:]
}
