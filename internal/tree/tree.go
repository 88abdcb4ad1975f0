// Package tree implements an immutable, ordered tree container.
package tree

import "sort"

// Tree holds data at a node and children keyed by field name. Children are
// kept in sorted key order so traversal is deterministic.
type Tree[T any] struct {
	data     T
	keys     []string
	children map[string]*Tree[T]
}

// New builds a tree node. The children map is copied.
func New[T any](data T, children map[string]*Tree[T]) *Tree[T] {
	t := &Tree[T]{data: data}
	if len(children) == 0 {
		return t
	}
	t.children = make(map[string]*Tree[T], len(children))
	t.keys = make([]string, 0, len(children))
	for key, child := range children {
		if child == nil {
			continue
		}
		t.children[key] = child
		t.keys = append(t.keys, key)
	}
	sort.Strings(t.keys)
	return t
}

// Data returns the value stored at the node.
func (t *Tree[T]) Data() T {
	if t == nil {
		var zero T
		return zero
	}
	return t.data
}

// Keys returns child keys in traversal order.
func (t *Tree[T]) Keys() []string {
	if t == nil || len(t.keys) == 0 {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// Child returns the child stored under key.
func (t *Tree[T]) Child(key string) (*Tree[T], bool) {
	if t == nil {
		return nil, false
	}
	child, ok := t.children[key]
	return child, ok
}

// At returns the subtree addressed by path.
func (t *Tree[T]) At(path []string) (*Tree[T], bool) {
	current := t
	for _, key := range path {
		next, ok := current.Child(key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, current != nil
}

// Map transforms every node of t with fn, parents before children, and
// returns a tree of the same shape.
func Map[T, U any](t *Tree[T], fn func(T) U) *Tree[U] {
	if t == nil {
		return nil
	}
	out := &Tree[U]{data: fn(t.data)}
	if len(t.keys) == 0 {
		return out
	}
	out.keys = append([]string(nil), t.keys...)
	out.children = make(map[string]*Tree[U], len(t.children))
	for _, key := range t.keys {
		out.children[key] = Map(t.children[key], fn)
	}
	return out
}

// Reduce folds t bottom-up: every child is reduced before fn sees its parent.
// fn receives the node's data and the reduced children keyed by field name.
func Reduce[T, R any](t *Tree[T], fn func(data T, children map[string]R) (R, error)) (R, error) {
	var zero R
	if t == nil {
		return zero, nil
	}
	var reduced map[string]R
	if len(t.keys) > 0 {
		reduced = make(map[string]R, len(t.keys))
		for _, key := range t.keys {
			value, err := Reduce(t.children[key], fn)
			if err != nil {
				return zero, err
			}
			reduced[key] = value
		}
	}
	return fn(t.data, reduced)
}

// Walk visits every node depth-first in key order with the path from t.
func Walk[T any](t *Tree[T], fn func(path []string, data T)) {
	walk(t, nil, fn)
}

func walk[T any](t *Tree[T], path []string, fn func([]string, T)) {
	if t == nil {
		return
	}
	fn(append([]string(nil), path...), t.data)
	for _, key := range t.keys {
		next := make([]string, len(path), len(path)+1)
		copy(next, path)
		walk(t.children[key], append(next, key), fn)
	}
}

// Paths lists the path of every node in walk order.
func Paths[T any](t *Tree[T]) [][]string {
	var out [][]string
	Walk(t, func(path []string, _ T) {
		out = append(out, path)
	})
	return out
}
