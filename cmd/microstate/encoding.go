package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	microstate "github.com/goliatone/go-microstate"
)

// parseJSON decodes raw keeping integers as int so built-in numeric
// transitions stay integral. raw must hold exactly one JSON value.
func parseJSON(raw string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value in %q", raw)
	}
	return normalizeNumbers(value), nil
}

// parseArg decodes a transition argument as JSON, falling back to the raw
// string.
func parseArg(raw string) any {
	value, err := parseJSON(raw)
	if err != nil {
		return raw
	}
	return value
}

func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	default:
		return value
	}
}

func writeJSON(w io.Writer, value any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// nodeAt resolves a dotted path relative to root; "" addresses the root.
func nodeAt(root *microstate.Node, path string) (*microstate.Node, error) {
	if path == "" || path == "." {
		return root, nil
	}
	node, ok := root.At(strings.Split(path, ".")...)
	if !ok {
		return nil, fmt.Errorf("no schema node at %q", path)
	}
	return node, nil
}
