package openapi

import (
	"fmt"
	"sort"

	microstate "github.com/goliatone/go-microstate"
)

// Document renders an OpenAPI document whose components hold one schema per
// distinct type in the tree rooted at node. Nested schemas reference their
// component.
func Document(node *microstate.Node, opts ...GeneratorOption) (map[string]any, error) {
	if node == nil {
		return nil, fmt.Errorf("openapi: root node cannot be nil")
	}
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	components := map[string]any{}
	if _, err := componentFor(node, components); err != nil {
		return nil, err
	}

	info := map[string]any{
		"title":   cfg.info.Title,
		"version": cfg.info.Version,
	}
	if cfg.info.Description != "" {
		info["description"] = cfg.info.Description
	}
	return map[string]any{
		"openapi": cfg.openAPIVersion,
		"info":    info,
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": components,
		},
	}, nil
}

// componentFor registers the schema of node's type and returns a $ref to it.
// The first node seen for a type defines the component.
func componentFor(node *microstate.Node, components map[string]any) (map[string]any, error) {
	name := componentName(node.Type())
	ref := map[string]any{"$ref": "#/components/schemas/" + name}
	if _, exists := components[name]; exists {
		return ref, nil
	}
	components[name] = map[string]any{}

	schema, err := stateSchema(node)
	if err != nil {
		return nil, err
	}
	for _, key := range node.Keys() {
		child, _ := node.Child(key)
		childRef, err := componentFor(child, components)
		if err != nil {
			return nil, err
		}
		properties(schema)[key] = childRef
	}
	components[name] = schema
	return ref, nil
}

func componentName(t *microstate.Type) string {
	return t.String()
}

// Names lists the component names of a generated document in sorted order.
func Names(document map[string]any) []string {
	components, _ := document["components"].(map[string]any)
	schemas, _ := components["schemas"].(map[string]any)
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
