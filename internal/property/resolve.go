package property

// Resolve walks path from root and returns a live view of the addressed
// field. Resolution is purely structural and repeats on every call.
func Resolve(root Object, path string) (Field, error) {
	if root == nil || isNilObject(root) {
		return nil, &PathError{Path: path, Reason: ReasonMissingTarget}
	}
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	current := root
	var field Field
	for i, seg := range segments {
		prefix := segments[:i].String()
		if seg.IsIndex {
			list, ok := field.List()
			if !ok {
				return nil, &PathError{Path: path, Reason: ReasonNotIndexable, Segment: prefix}
			}
			item, ok := list.Item(seg.Index)
			if !ok {
				return nil, &PathError{Path: path, Reason: ReasonIndexOutOfRange, Segment: prefix, Index: seg.Index, Len: list.Len()}
			}
			field = item
			continue
		}
		if field != nil {
			obj, ok := field.Object()
			if !ok {
				return nil, &PathError{Path: path, Reason: ReasonNotAnObject, Segment: prefix}
			}
			current = obj
		}
		next, ok := current.Field(seg.Name)
		if !ok {
			return nil, &PathError{Path: path, Reason: ReasonUnknownField, Segment: Join(prefix, seg.Name)}
		}
		field = next
	}
	return field, nil
}

// Get reads the value addressed by path.
func Get(root Object, path string) (any, error) {
	field, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	return field.Value(), nil
}

// SetByPath resolves path and replaces the value there, returning the value
// it displaced.
func SetByPath(root Object, path string, v any) (any, error) {
	field, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	old, err := field.Set(v)
	if err != nil {
		return nil, WithPath(err, path)
	}
	return old, nil
}

// ResolveList resolves path and requires the field to be a collection.
func ResolveList(root Object, path string) (List, error) {
	field, err := Resolve(root, path)
	if err != nil {
		return nil, err
	}
	list, ok := field.List()
	if !ok {
		return nil, &NotACollectionError{Path: path, Type: field.Info().TypeName}
	}
	return list, nil
}
