package editor

import (
	"context"
	"fmt"

	"scene-editor/internal/property"
	"scene-editor/internal/scene"
	"scene-editor/logging"
)

// FieldDescription is one registered field with its current value.
type FieldDescription struct {
	property.Info
	Value any `json:"value"`
}

// Description lists the inspectable fields of a node.
type Description struct {
	Handle scene.Handle       `json:"handle"`
	Fields []FieldDescription `json:"fields"`
}

// Describe reads the fields of node, or of the object at path below it when
// path is not empty.
func (e *Editor) Describe(ctx context.Context, node scene.Handle, path string) (Description, error) {
	var (
		desc    Description
		descErr error
	)
	err := e.submit(ctx, func(logging.EntityRef) {
		desc, descErr = e.describe(node, path)
	})
	if err != nil {
		return Description{}, err
	}
	return desc, descErr
}

func (e *Editor) describe(handle scene.Handle, path string) (Description, error) {
	node := e.ws.Scene.Node(handle)
	if node == nil {
		return Description{}, fmt.Errorf("%w %s", ErrUnknownNode, handle)
	}
	var obj property.Object = node
	if path != "" {
		field, err := property.Resolve(node, path)
		if err != nil {
			return Description{}, err
		}
		nested, ok := field.Object()
		if !ok {
			return Description{}, &property.PathError{Path: path, Reason: property.ReasonNotAnObject}
		}
		obj = nested
	}

	desc := Description{Handle: handle}
	for _, info := range obj.Fields() {
		field, ok := obj.Field(info.Name)
		if !ok {
			continue
		}
		desc.Fields = append(desc.Fields, FieldDescription{Info: info, Value: field.Value()})
	}
	return desc, nil
}
