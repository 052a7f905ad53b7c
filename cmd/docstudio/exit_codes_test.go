package main

// Notes:
// - exitCodeFor: we test the sentinels of every package the CLI touches,
//   plus wrapped errors to verify the errors.Is chain.
// - Exit code constants: we verify Unix conventions (0=success, 1=general,
//   2=usage) and that custom codes stay below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assets"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/dateutil"
	"github.com/alnah/go-docstudio/internal/session"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", docstudio.ErrBrowserConnect, ExitBrowser},
		{"page create", docstudio.ErrPageCreate, ExitBrowser},
		{"page load", docstudio.ErrPageLoad, ExitBrowser},
		{"pdf generation", docstudio.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("export: %w", docstudio.ErrBrowserConnect), ExitBrowser},
		{"failed batch keeps cause", fmt.Errorf("%w: 1 of 2: %w", ErrExportsFailed, docstudio.ErrPageLoad), ExitBrowser},

		// Assist errors (exit 5)
		{"assist connect", assist.ErrAssistConnect, ExitAssist},
		{"model not found", assist.ErrModelNotFound, ExitAssist},
		{"assist response", assist.ErrAssistResponse, ExitAssist},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"artifact store", artifact.ErrStore, ExitIO},
		{"snapshot store", session.ErrSnapshotStore, ExitIO},
		{"asset read", assets.ErrAssetRead, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"artifact config", artifact.ErrInvalidConfig, ExitUsage},
		{"document not found", assets.ErrDocumentNotFound, ExitUsage},
		{"invalid asset name", assets.ErrInvalidAssetName, ExitUsage},
		{"invalid documents dir", assets.ErrInvalidBasePath, ExitUsage},
		{"empty document", docstudio.ErrEmptyDocument, ExitUsage},
		{"invalid margin", docstudio.ErrInvalidMargin, ExitUsage},
		{"invalid paper", docstudio.ErrInvalidPaper, ExitUsage},
		{"unknown backend", docstudio.ErrUnknownBackend, ExitUsage},
		{"invalid unit", docstudio.ErrInvalidUnit, ExitUsage},
		{"invalid alignment", docstudio.ErrInvalidAlignment, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"bare batch failure", ErrExportsFailed, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	seen := map[int]string{}
	for name, code := range map[string]int{
		"ExitSuccess": ExitSuccess, "ExitGeneral": ExitGeneral, "ExitUsage": ExitUsage,
		"ExitIO": ExitIO, "ExitBrowser": ExitBrowser, "ExitAssist": ExitAssist,
	} {
		if code >= 126 {
			t.Errorf("%s = %d, must be below 126", name, code)
		}
		if other, dup := seen[code]; dup {
			t.Errorf("%s and %s share code %d", name, other, code)
		}
		seen[code] = name
	}
}
