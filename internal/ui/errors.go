package ui

import "errors"

var (
	// ErrNotRegistered reports an Open for a name with no config, or a
	// config whose view class was never registered.
	ErrNotRegistered = errors.New("ui: not registered")
	// ErrLoadInProgress reports an Open rejected because a load for the
	// same path is already in flight. Callers retry; opens are not queued.
	ErrLoadInProgress = errors.New("ui: load already in progress")
)
