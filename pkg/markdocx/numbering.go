package markdocx

import "github.com/markdocx/markdocx/pkg/markdocx/ooxml"

// NumberingRegistry hands out numbering instance identifiers for
// lists. IDs are sequential from 1 and never reused, so every list
// that needs a fresh counter gets its own instance. Whether a list
// continues an earlier instance is the orchestrator's decision; the
// registry only allocates.
type NumberingRegistry struct {
	instances []ooxml.NumInstance
}

// NewNumberingRegistry creates an empty registry.
func NewNumberingRegistry() *NumberingRegistry {
	return &NumberingRegistry{}
}

// AddList allocates a numbering instance for a new list and returns
// its numId.
func (n *NumberingRegistry) AddList(ordered bool) int {
	id := len(n.instances) + 1
	n.instances = append(n.instances, ooxml.NumInstance{ID: id, Ordered: ordered})
	return id
}

// Instances returns every allocated instance in allocation order.
func (n *NumberingRegistry) Instances() []ooxml.NumInstance {
	return n.instances
}

// IsEmpty reports whether no list ever needed numbering.
func (n *NumberingRegistry) IsEmpty() bool {
	return len(n.instances) == 0
}
