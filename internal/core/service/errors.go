package service

import "errors"

// Error taxonomy for the launcher. Failures inside a spawned script are
// not part of it: they surface only as log content and the run's failed
// status.
var (
	// ErrInvalidConfiguration means the run configuration is missing or
	// malformed; nothing was started and no log file was created.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRunAlreadyActive means a previous run's process is still alive.
	ErrRunAlreadyActive = errors.New("a run is already active")

	// ErrSpawnFailure means the script process could not be started.
	ErrSpawnFailure = errors.New("failed to start script")

	// ErrNoLogsAvailable means the log directory holds no log files yet.
	ErrNoLogsAvailable = errors.New("no logs available")

	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials means username/password verification failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
