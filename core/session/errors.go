package session

import "errors"

var (
	// ErrDatastore wraps every failure to load or save the snapshot.
	ErrDatastore = errors.New("session datastore failure")
	// ErrNotFound is returned when destroying an unknown session.
	ErrNotFound = errors.New("session not found")
	// ErrInvalidKey is returned for keys that could not have been generated by the store.
	ErrInvalidKey = errors.New("invalid session key")
	// ErrKeyGeneration is returned when no unique key could be produced.
	ErrKeyGeneration = errors.New("failed to generate session key")
	// ErrSnapshotVersion is returned for snapshots written by an unknown format version.
	ErrSnapshotVersion = errors.New("unsupported session snapshot version")
	// ErrUnknownBackend is returned by BackendFromConfig for unsupported backend names.
	ErrUnknownBackend = errors.New("unknown session backend")
)
