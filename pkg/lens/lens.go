// Package lens provides path-addressed views into JSON-like values
// (map[string]any, []any and scalars).
//
// Lenses never mutate their targets. Set copies every container along the
// addressed path and shares everything else, so the previous value remains
// valid after an update. Missing data is not an error: View yields nil and Set
// creates the intermediate containers it needs.
package lens

import (
	"fmt"
	"strconv"
	"strings"
)

// Lens focuses on one location inside a value.
type Lens interface {
	View(target any) any
	Set(value, target any) any
}

// View reads the location focused by l.
func View(l Lens, target any) any {
	if l == nil {
		return target
	}
	return l.View(target)
}

// Set returns a copy of target with the location focused by l replaced by
// value.
func Set(l Lens, value, target any) any {
	if l == nil {
		return value
	}
	return l.Set(value, target)
}

// Over applies fn to the focused value and stores the result.
func Over(l Lens, fn func(any) any, target any) any {
	if fn == nil {
		return target
	}
	return Set(l, fn(View(l, target)), target)
}

// Key focuses on a field of a map[string]any.
func Key(key string) Lens {
	return keyLens(key)
}

type keyLens string

func (k keyLens) View(target any) any {
	m, ok := target.(map[string]any)
	if !ok {
		return nil
	}
	return m[string(k)]
}

func (k keyLens) Set(value, target any) any {
	m, _ := target.(map[string]any)
	out := make(map[string]any, len(m)+1)
	for key, v := range m {
		out[key] = v
	}
	out[string(k)] = value
	return out
}

// Index focuses on an element of a []any. Negative indices view nil and are
// ignored by Set.
func Index(i int) Lens {
	return indexLens(i)
}

type indexLens int

func (i indexLens) View(target any) any {
	s, ok := target.([]any)
	if !ok || i < 0 || int(i) >= len(s) {
		return nil
	}
	return s[i]
}

func (i indexLens) Set(value, target any) any {
	if i < 0 {
		return target
	}
	s, _ := target.([]any)
	size := len(s)
	if int(i) >= size {
		size = int(i) + 1
	}
	out := make([]any, size)
	copy(out, s)
	out[i] = value
	return out
}

// Compose chains lenses from outermost to innermost.
func Compose(lenses ...Lens) Lens {
	filtered := make([]Lens, 0, len(lenses))
	for _, l := range lenses {
		if l != nil {
			filtered = append(filtered, l)
		}
	}
	return composed(filtered)
}

type composed []Lens

func (c composed) View(target any) any {
	current := target
	for _, l := range c {
		if current == nil {
			return nil
		}
		current = l.View(current)
	}
	return current
}

func (c composed) Set(value, target any) any {
	if len(c) == 0 {
		return value
	}
	head, rest := c[0], c[1:]
	return head.Set(rest.Set(value, head.View(target)), target)
}

// Path is an ordered sequence of keys addressing a location from the root.
// Elements are strings (map fields) or ints (slice indices).
type Path []any

// Lens returns a lens focused on p.
func (p Path) Lens() Lens {
	lenses := make([]Lens, 0, len(p))
	for _, key := range p {
		lenses = append(lenses, keyToLens(key))
	}
	return composed(lenses)
}

// Append returns a new path extended with key. p is never modified.
func (p Path) Append(key any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Clone returns a copy of p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// String renders p as a dotted path. The root path renders as "".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, key := range p {
		switch k := key.(type) {
		case string:
			parts[i] = k
		case int:
			parts[i] = strconv.Itoa(k)
		default:
			parts[i] = fmt.Sprint(k)
		}
	}
	return strings.Join(parts, ".")
}

// Equal reports whether p and other address the same location.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// PathLens is shorthand for Path(keys).Lens().
func PathLens(keys ...any) Lens {
	return Path(keys).Lens()
}

func keyToLens(key any) Lens {
	switch k := key.(type) {
	case string:
		return keyLens(k)
	case int:
		return indexLens(k)
	default:
		return keyLens(fmt.Sprint(k))
	}
}
