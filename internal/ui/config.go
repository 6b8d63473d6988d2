package ui

import "uistack/internal/anim"

// Layer is a fixed rendering band. Layers compose bottom to top in declaration
// order; the cache layer is a hidden holding area, never rendered.
type Layer int

const (
	LayerBackground Layer = iota
	LayerNormal
	LayerPopup
	LayerGuide
	LayerCache
)

// Layers lists every layer bottom to top, matching root creation order.
var Layers = []Layer{LayerBackground, LayerNormal, LayerPopup, LayerGuide, LayerCache}

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerNormal:
		return "normal"
	case LayerPopup:
		return "popup"
	case LayerGuide:
		return "guide"
	case LayerCache:
		return "cache"
	default:
		return "unknown"
	}
}

// StackMode controls what opening a Normal-layer UI does to the ones already
// stacked. UIs outside the Normal layer ignore it.
type StackMode int

const (
	// StackOverlay pushes on top, leaving the rest visible.
	StackOverlay StackMode = iota
	// StackHideOthers deactivates the rest; closing the top reveals the UI
	// underneath again.
	StackHideOthers
	// StackExclusive closes everything else on the stack before opening.
	StackExclusive
)

// Config is the static registration record for one UI name.
type Config struct {
	// Name is the registry key and the class-set key.
	Name string
	// Path is the resource key loaded through the asset cache.
	Path string
	// Layer is the rendering band the UI binds into.
	Layer Layer
	// Mode is the Normal-layer stacking policy.
	Mode StackMode
	// Cacheable parks the instance in the LRU on close instead of
	// destroying it.
	Cacheable bool
	// MultiInstance allows several concurrent instances of this UI.
	MultiInstance bool
	// NeedMask requests the shared modal blocker behind this UI while open.
	NeedMask bool
	// Enter and Exit override the default snap animation. May be nil.
	Enter anim.Animator
	Exit  anim.Animator
}
