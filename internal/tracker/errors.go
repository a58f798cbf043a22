package tracker

import "errors"

var (
	ErrFixedRoute   = errors.New("route is fixed and cannot be reassigned")
	ErrManualOnly   = errors.New("unlocks are driven by the auto-tracker while it is enabled")
	ErrUnknownRoute = errors.New("unknown routing key")
)
