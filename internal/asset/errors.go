package asset

import "errors"

// Sentinel errors for the load pipeline. Callers branch with errors.Is.
var (
	// ErrLoadFailed wraps a backend fetch error. Shared by every joiner of
	// the failed load.
	ErrLoadFailed = errors.New("asset: load failed")
	// ErrInstantiateFailed wraps a backend instantiation error, after the
	// fallback backend (if any) was tried.
	ErrInstantiateFailed = errors.New("asset: instantiate failed")
	// ErrCancelled reports caller-initiated cancellation. It is returned to
	// the cancelled caller only; other joiners of the same load are
	// unaffected.
	ErrCancelled = errors.New("asset: load cancelled")
	// ErrAlreadyInFlight reports a BeginLoad for a key that already has a
	// registered load. The caller closes the race by re-running Acquire.
	ErrAlreadyInFlight = errors.New("asset: load already in flight")
)
