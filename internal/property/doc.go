// Package property provides path-addressed access to the fields of live
// objects without runtime reflection. Each editable type registers an accessor
// table once; Resolve walks a textual path such as "vertices[2].position.x"
// through those tables and hands back a typed view that can replace the value
// or, for slices, push, pop, insert and remove items. Type checks happen on the
// dynamic value handed to a view, so a stale or mistyped edit fails with a
// typed error and never touches the field.
package property
