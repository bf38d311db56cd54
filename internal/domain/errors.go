package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrCredentialRejected is returned when the identity endpoint refuses the stored token.
	ErrCredentialRejected = errors.New("credential rejected")
	// ErrTransientResolution covers every other identity resolution failure.
	ErrTransientResolution = errors.New("identity resolution failed")
	// ErrStorageCorrupt marks a persisted value that could not be decoded.
	ErrStorageCorrupt = errors.New("storage value corrupt")
)
