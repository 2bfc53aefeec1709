package interview

import "errors"

var (
	// ErrSessionNotFound is returned for operations on an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a session that is already active.
	ErrSessionExists = errors.New("session already exists")
	// ErrSessionCompleted is returned when a session already has a final report.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrUnknownPosition is returned for positions outside of the supported set.
	ErrUnknownPosition = errors.New("unknown position")
)
