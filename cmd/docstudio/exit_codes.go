package main

import (
	"errors"
	"os"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assets"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/dateutil"
	"github.com/alnah/go-docstudio/internal/session"
)

// Exit codes for the docstudio CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, store unreachable
	ExitBrowser = 4 // Browser/Chrome errors
	ExitAssist  = 5 // Ollama unreachable or failing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docstudio.ErrBrowserConnect) ||
		errors.Is(err, docstudio.ErrPageCreate) ||
		errors.Is(err, docstudio.ErrPageLoad) ||
		errors.Is(err, docstudio.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Assist errors (exit 5)
	if errors.Is(err, assist.ErrAssistConnect) ||
		errors.Is(err, assist.ErrModelNotFound) ||
		errors.Is(err, assist.ErrAssistResponse) {
		return ExitAssist
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, artifact.ErrStore) ||
		errors.Is(err, session.ErrSnapshotStore) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, artifact.ErrInvalidConfig) ||
		errors.Is(err, assets.ErrDocumentNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, docstudio.ErrEmptyDocument) ||
		errors.Is(err, docstudio.ErrInvalidMargin) ||
		errors.Is(err, docstudio.ErrInvalidPaper) ||
		errors.Is(err, docstudio.ErrUnknownBackend) ||
		errors.Is(err, docstudio.ErrInvalidUnit) ||
		errors.Is(err, docstudio.ErrInvalidAlignment) {
		return ExitUsage
	}

	return ExitGeneral
}
