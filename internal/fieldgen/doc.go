// Package fieldgen generates property accessor tables for struct types. It
// type-checks a package, reads each field's `inspect` tag and emits one
// property.Table per type plus the Field, Fields and IsNil methods that make
// the type a property.Object.
package fieldgen
