package artifact

import "errors"

// Sentinel errors for artifact operations.
var (
	ErrNotFound      = errors.New("artifact not found")
	ErrInvalidKey    = errors.New("invalid artifact key")
	ErrEmptyArtifact = errors.New("artifact is empty")
	ErrStore         = errors.New("artifact store failed")
	ErrInvalidConfig = errors.New("invalid artifact store config")
	ErrNotPDF        = errors.New("not a PDF document")
)
