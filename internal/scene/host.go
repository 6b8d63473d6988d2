// Package scene defines the narrow interface to the rendering host: node
// creation, parenting, activation, sibling ordering, and local transforms.
// The cache and UI stack never talk to a concrete scene graph directly;
// production wires an engine adapter, tests and the demo wire StubHost.
package scene

// NodeID identifies a node in the host scene graph (e.g. "#42").
// The zero value means "no node".
type NodeID string

// None is the zero NodeID.
const None NodeID = ""

// Transform is a node's local position and scale.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
}

// DefaultTransform returns the identity transform (origin, unit scale).
func DefaultTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Host is the integration point with the rendering host.
// Implementations can be a game engine adapter or a stub.
type Host interface {
	// CreateNode creates an empty node with the given debug name.
	CreateNode(name string) NodeID
	// DestroyNode removes a node and its entire subtree.
	DestroyNode(id NodeID)
	// SetParent reparents child under parent, appending it as the last
	// (topmost-drawn) sibling. Parent None detaches the node.
	SetParent(child, parent NodeID)
	// PlaceBefore reorders node to be the sibling immediately before
	// anchor, so it renders directly behind it. Both must share a parent.
	PlaceBefore(node, anchor NodeID)
	// SetActive toggles rendering and input for a node's subtree.
	SetActive(id NodeID, active bool)
	// Active reports whether the node itself is active.
	Active(id NodeID) bool
	// Transform returns the node's local transform.
	Transform(id NodeID) Transform
	// SetTransform replaces the node's local transform.
	SetTransform(id NodeID, t Transform)
	// Children returns a node's direct children in sibling order.
	Children(id NodeID) []NodeID
	// Name returns the debug name given at creation.
	Name(id NodeID) string
}
