package ui

import "uistack/internal/scene"

// maskController owns the single shared full-screen input blocker. On each
// refresh it scans the active, visible, mask-requiring instances, picks the
// one with the highest (layer, insertion-order) key, and parks the blocker
// as the sibling immediately behind it so everything below loses input.
type maskController struct {
	host scene.Host
	node scene.NodeID
}

func newMaskController(host scene.Host) *maskController {
	node := host.CreateNode("modal-mask")
	host.SetActive(node, false)
	return &maskController{host: host, node: node}
}

// Refresh repositions or hides the blocker for the given active instances.
func (m *maskController) Refresh(active []*Instance, roots map[Layer]scene.NodeID) {
	var top *Instance
	for _, inst := range active {
		if !inst.Config.NeedMask || inst.Cached || inst.hidden {
			continue
		}
		if inst.Node == scene.None {
			continue
		}
		switch inst.State {
		case StateOpening, StateOpen:
		default:
			continue
		}
		if top == nil || inst.Layer > top.Layer ||
			(inst.Layer == top.Layer && inst.order > top.order) {
			top = inst
		}
	}
	if top == nil {
		m.host.SetActive(m.node, false)
		return
	}
	m.host.SetParent(m.node, roots[top.Layer])
	m.host.PlaceBefore(m.node, top.Node)
	m.host.SetActive(m.node, true)
}
