package capture

import "errors"

var (
	// ErrNoScope is returned when a sink is started on a context without a capture scope.
	ErrNoScope = errors.New("capture: context has no capture scope")
	// ErrNoActiveSink is returned by End when the scope has no sink to pop.
	ErrNoActiveSink = errors.New("capture: no active sink")
	// ErrReleased is returned when starting a sink on a released scope.
	ErrReleased = errors.New("capture: scope already released")
)
