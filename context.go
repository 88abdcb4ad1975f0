package microstate

import (
	"github.com/goliatone/go-microstate/layering"
	"github.com/goliatone/go-microstate/pkg/lens"
)

// Context is handed to transition logic. It knows the type, value and path of
// the node being transitioned and builds fresh microstates with the same
// engine configuration.
type Context struct {
	typ   *Type
	value any
	path  lens.Path
	cfg   config
}

// Type returns the type of the node being transitioned.
func (c *Context) Type() *Type {
	return c.typ
}

// Value returns the raw value of the node being transitioned.
func (c *Context) Value() any {
	return c.value
}

// Path returns the path of the node being transitioned.
func (c *Context) Path() lens.Path {
	return c.path.Clone()
}

// New builds a microstate from the node's own type and value.
func (c *Context) New() (*Node, error) {
	return c.Create(nil, nil)
}

// Create builds a microstate rooted at t and value. A nil t falls back to the
// node's type and a nil value to the node's value. Returning the result from
// a transition replaces the node's value with the microstate's value.
func (c *Context) Create(t *Type, value any) (*Node, error) {
	if t == nil {
		t = c.typ
	}
	if value == nil {
		value = c.value
	}
	return analyze(t, layering.Clone(value), c.cfg, nil)
}
