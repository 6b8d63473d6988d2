package ui

import (
	"context"

	"github.com/google/uuid"

	"uistack/internal/scene"
)

// State is an instance's position in the lifecycle
// Loading → Opening → Open → Closing → Closed (→ Cached | Destroyed).
type State int

const (
	StateLoading State = iota
	StateOpening
	StateOpen
	StateClosing
	StateClosed
	StateCached
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	case StateCached:
		return "Cached"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Instance is one live (or parked) occurrence of a registered UI. The
// manager owns instances; views never hold a back-pointer to it.
type Instance struct {
	// ID uniquely identifies this instance across its whole lifetime.
	ID string
	// Config is the registration record the instance was opened from.
	Config Config
	// Node is the bound scene node; None while still loading.
	Node scene.NodeID
	// View receives lifecycle callbacks; nil only during load.
	View View
	// State is the current lifecycle state.
	State State
	// Layer is the original layer, restored when a cached instance reopens.
	Layer Layer
	// Cached is true while the instance is parked in the hidden cache layer.
	Cached bool

	// order is the insertion sequence used for modal mask selection.
	order int
	// hidden marks stacked instances suppressed by a HideOthers open.
	hidden bool
	// pendingClose records a Close that arrived while the open sequence was
	// still in flight.
	pendingClose bool
	// cancelLoad aborts this instance's load; set only in StateLoading.
	cancelLoad context.CancelFunc
}

func newInstance(cfg Config) *Instance {
	return &Instance{
		ID:     uuid.NewString(),
		Config: cfg,
		Layer:  cfg.Layer,
		State:  StateLoading,
	}
}
