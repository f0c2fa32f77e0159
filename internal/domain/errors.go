package domain

import "errors"

var (
	// ErrUnavailable marks a fetch that did not yield a usable 2xx body.
	ErrUnavailable = errors.New("resource unavailable")
	// ErrMissingBoundary marks an end marker absent after a located start marker.
	ErrMissingBoundary = errors.New("extraction boundary missing")
)
