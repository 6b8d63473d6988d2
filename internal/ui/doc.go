// Package ui implements the layered, stacked UI presentation model on top of
// the asset cache.
//
// Core abstractions:
//   - Config/Registry: name → static configuration (layer, stacking mode,
//     cache eligibility, multi-instance, mask requirement)
//   - View/ClassSet: lifecycle callbacks bound to an instance, registered
//     explicitly at startup
//   - Instance: one live or parked occurrence of a UI, with its state machine
//     Loading → Opening → Open → Closing → Closed (→ Cached | Destroyed)
//   - Stack: push/pop/back semantics for the Normal layer
//   - Manager: open/close orchestration, layer composition, modal-mask
//     placement, LRU-backed instance reuse
//
// The Manager is owned by a single host loop goroutine; only the asset cache
// underneath tolerates concurrent callers.
package ui
