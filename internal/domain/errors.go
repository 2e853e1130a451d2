package domain

import "errors"

var (
	// ErrAlreadyClockedIn rejects a clock-in while an open entry exists.
	ErrAlreadyClockedIn = errors.New("worker already has an open clock entry")
	// ErrNotClockedIn rejects a clock-out with no open entry.
	ErrNotClockedIn = errors.New("worker has no open clock entry")
	// ErrForbidden rejects access outside the caller's team scope. It must
	// surface as a permission error, never as silently empty results.
	ErrForbidden = errors.New("access denied")
)
