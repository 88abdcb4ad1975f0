package microstate

import (
	"github.com/goliatone/go-microstate/internal/tree"
)

// FieldDescriptor describes one node of a derived tree.
type FieldDescriptor struct {
	Path        string   `json:"path"`
	Type        string   `json:"type"`
	Primitive   bool     `json:"primitive,omitempty"`
	Transitions []string `json:"transitions,omitempty"`
}

// Describe lists the subtree rooted at n, parents before children and
// siblings in key order. Paths are absolute.
func (n *Node) Describe() []FieldDescriptor {
	sub, ok := n.analysis.nodes.At(n.keys())
	if !ok {
		return nil
	}
	var fields []FieldDescriptor
	tree.Walk(sub, func(_ []string, node *Node) {
		fields = append(fields, FieldDescriptor{
			Path:        node.path.String(),
			Type:        node.typ.String(),
			Primitive:   node.typ.Primitive(),
			Transitions: node.typ.TransitionNames(),
		})
	})
	return fields
}
