package docstudio

import (
	"errors"

	"github.com/alnah/go-docstudio/internal/session"
)

// Sentinel errors for paginators and the studio.
var (
	ErrEmptyDocument   = errors.New("document cannot be empty")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrUnknownBackend  = errors.New("unknown paginator backend")
	ErrInvalidPaper    = errors.New("invalid paper format")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrNoArtifact      = errors.New("no exported document available")
	ErrPaginatorClosed = errors.New("paginator is closed")
	ErrRestoreInFlight = errors.New("cannot restore while a request is in flight")
)

// Session transition errors, re-exported for callers of Studio.
var (
	ErrExportInFlight   = session.ErrExportInFlight
	ErrAssistInFlight   = session.ErrAssistInFlight
	ErrNoSuggestion     = session.ErrNoSuggestion
	ErrEmptyMessage     = session.ErrEmptyMessage
	ErrModeMismatch     = session.ErrModeMismatch
	ErrInvalidMode      = session.ErrInvalidMode
	ErrInvalidTab       = session.ErrInvalidTab
	ErrInvalidTarget    = session.ErrInvalidTarget
	ErrInvalidAlignment = session.ErrInvalidAlignment
	ErrInvalidUnit      = session.ErrInvalidUnit
)
