package domain

import "errors"

var (
	// ErrAlreadyRegistered signals a duplicate connect for an id the
	// registry already tracks. The gateway must never produce this; the
	// pre-existing entry is left untouched when it does.
	ErrAlreadyRegistered = errors.New("participant already registered")

	ErrEngineClosed = errors.New("engine is not running")
)
