package monitor

import "emperror.dev/errors"

const (
	// ErrUsage marks a malformed invocation. Nothing has been created on disk
	// when it is returned.
	ErrUsage = errors.Sentinel("invalid usage")

	// ErrEnvironment marks a failure to create the output directory.
	ErrEnvironment = errors.Sentinel("environment error")
)
