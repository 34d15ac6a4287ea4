package property

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchProperty matches every *PathError.
	ErrNoSuchProperty = errors.New("no such property")
	// ErrTypeMismatch matches every *TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNotACollection matches every *NotACollectionError.
	ErrNotACollection = errors.New("not a collection")
	// ErrCollectionUnderflow matches every *CollectionUnderflowError.
	ErrCollectionUnderflow = errors.New("collection underflow")
)

// PathReason classifies why a path failed to resolve.
type PathReason string

const (
	ReasonSyntax          PathReason = "invalid syntax"
	ReasonUnknownField    PathReason = "unknown field"
	ReasonIndexOutOfRange PathReason = "index out of range"
	ReasonNotAnObject     PathReason = "not an object"
	ReasonNotIndexable    PathReason = "not indexable"
	ReasonMissingTarget   PathReason = "missing target"
)

// PathError reports that a path does not resolve against the current shape
// of an object.
type PathError struct {
	Path    string
	Reason  PathReason
	Segment string
	Index   int
	Len     int
	Detail  string
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("no such property %q: %s", e.Path, e.Reason)
	switch e.Reason {
	case ReasonIndexOutOfRange:
		msg += fmt.Sprintf(" (%s[%d], len %d)", e.Segment, e.Index, e.Len)
	default:
		if e.Segment != "" {
			msg += fmt.Sprintf(" at %q", e.Segment)
		}
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *PathError) Is(target error) bool { return target == ErrNoSuchProperty }

// TypeMismatchError reports that a value's dynamic type disagrees with the
// declared type of the field or collection item it was meant for. Value holds
// the rejected value so callers can keep it.
type TypeMismatchError struct {
	Path  string
	Want  string
	Got   string
	Value any
}

func (e *TypeMismatchError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("type mismatch: cannot use %s as %s", e.Got, e.Want)
	}
	return fmt.Sprintf("property %q: type mismatch: cannot use %s as %s", e.Path, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// NotACollectionError reports that an item operation targeted a field that is
// not list shaped.
type NotACollectionError struct {
	Path string
	Type string
}

func (e *NotACollectionError) Error() string {
	return fmt.Sprintf("property %q of type %s is not a collection", e.Path, e.Type)
}

func (e *NotACollectionError) Is(target error) bool { return target == ErrNotACollection }

// CollectionUnderflowError reports that a collection held fewer items than an
// operation required. Index is -1 for a pop from the tail.
type CollectionUnderflowError struct {
	Path  string
	Index int
	Len   int
}

func (e *CollectionUnderflowError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("collection %q is empty", e.Path)
	}
	return fmt.Sprintf("collection %q has no slot at index %d (len %d)", e.Path, e.Index, e.Len)
}

func (e *CollectionUnderflowError) Is(target error) bool { return target == ErrCollectionUnderflow }

// WithPath stamps path onto property errors produced below the resolver,
// where the field does not know its own address.
func WithPath(err error, path string) error {
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) && mismatch.Path == "" {
		cp := *mismatch
		cp.Path = path
		return &cp
	}
	var underflow *CollectionUnderflowError
	if errors.As(err, &underflow) && underflow.Path == "" {
		cp := *underflow
		cp.Path = path
		return &cp
	}
	return err
}
