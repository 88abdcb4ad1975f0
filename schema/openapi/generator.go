// Package openapi renders derived microstate trees as OpenAPI schemas.
package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	microstate "github.com/goliatone/go-microstate"
)

// Extension keys added to every node schema.
const (
	ExtensionType        = "x-microstate-type"
	ExtensionTransitions = "x-microstate-transitions"
)

// Generate returns an inline schema for the subtree rooted at node. Leaf
// fields are described from the node's state; nested schema nodes are
// described recursively and carry their type name and transitions.
func Generate(node *microstate.Node) (map[string]any, error) {
	if node == nil {
		return nil, fmt.Errorf("openapi: node cannot be nil")
	}
	schema, err := stateSchema(node)
	if err != nil {
		return nil, err
	}
	for _, key := range node.Keys() {
		child, _ := node.Child(key)
		childSchema, err := Generate(child)
		if err != nil {
			return nil, err
		}
		properties(schema)[key] = childSchema
	}
	return schema, nil
}

func stateSchema(node *microstate.Node) (map[string]any, error) {
	state, err := node.State()
	if err != nil {
		return nil, err
	}
	schema, err := buildSchema(reflect.ValueOf(state))
	if err != nil {
		return nil, fmt.Errorf("openapi: %s: %w", node.Type(), err)
	}
	schema[ExtensionType] = node.Type().String()
	schema[ExtensionTransitions] = node.Type().TransitionNames()
	return schema, nil
}

// properties returns the properties map of an object schema, turning schema
// into an object when it is not one yet.
func properties(schema map[string]any) map[string]any {
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		props = map[string]any{}
		schema["type"] = "object"
		delete(schema, "format")
		schema["properties"] = props
	}
	return props
}

func buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"type": "null"}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		return buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		return schemaForStruct(rv)
	case reflect.Map:
		return schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}

	keys := rv.MapKeys()
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if key.Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key kind %s unsupported", key.Kind())
		}
		names = append(names, key.String())
	}
	sort.Strings(names)

	properties := make(map[string]any, len(names))
	for _, name := range names {
		child, err := buildSchema(rv.MapIndex(reflect.ValueOf(name)))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	properties := map[string]any{}
	names := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		if name == "" {
			continue
		}

		child, err := buildSchema(rv.Field(i))
		if err != nil {
			return nil, err
		}
		properties[name] = child
		names = append(names, name)
	}

	sort.Strings(names)
	if len(properties) == 0 {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}

	ordered := make(map[string]any, len(properties))
	for _, name := range names {
		ordered[name] = properties[name]
	}
	return map[string]any{
		"type":       "object",
		"properties": ordered,
	}, nil
}

func schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{
			"type":   "string",
			"format": "byte",
		}, nil
	}

	length := rv.Len()
	var itemSchema map[string]any
	var err error
	if length > 0 {
		itemSchema, err = buildSchema(rv.Index(0))
		if err != nil {
			return nil, err
		}
	} else {
		itemSchema = map[string]any{}
	}
	return map[string]any{
		"type":  "array",
		"items": itemSchema,
	}, nil
}
