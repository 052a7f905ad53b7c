package session

import "errors"

// Sentinel errors for state transitions.
var (
	ErrExportInFlight = errors.New("an export is already running")
	ErrAssistInFlight = errors.New("an assist request is already waiting")
	ErrNotInFlight    = errors.New("no matching request in flight")
	ErrNoSuggestion   = errors.New("no pending suggestion")
	ErrEmptyMessage   = errors.New("message is required")
	ErrModeMismatch   = errors.New("edit target does not match the current mode")
	ErrUnknownEvent   = errors.New("unknown event")

	// Validation errors.
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidTab       = errors.New("invalid tab")
	ErrInvalidTarget    = errors.New("invalid decoration target")
	ErrInvalidAlignment = errors.New("invalid alignment")
	ErrInvalidUnit      = errors.New("invalid margin unit")

	// Snapshot store errors.
	ErrSnapshotNotFound = errors.New("session snapshot not found")
	ErrSnapshotStore    = errors.New("session snapshot store failed")
)
