package docstudio

import (
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-docstudio/internal/pipeline"
	"github.com/alnah/go-docstudio/internal/session"
)

// Session types.
type (
	State        = session.State
	Mode         = session.Mode
	Tab          = session.Tab
	Target       = session.Target
	Message      = session.Message
	Role         = session.Role
	ExportStatus = session.ExportStatus
	AssistStatus = session.AssistStatus
	Suggestion   = session.Suggestion
)

// Edit modes.
const (
	ModeCombined  = session.ModeCombined
	ModeSeparated = session.ModeSeparated
)

// Separated-mode tabs.
const (
	TabMarkup = session.TabMarkup
	TabStyle  = session.TabStyle
	TabScript = session.TabScript
)

// Decoration targets.
const (
	TargetHeader = session.TargetHeader
	TargetFooter = session.TargetFooter
)

// Export and assist statuses.
const (
	ExportIdle    = session.ExportIdle
	ExportRunning = session.ExportRunning
	ExportError   = session.ExportError
	ExportReady   = session.ExportReady

	AssistIdle    = session.AssistIdle
	AssistWaiting = session.AssistWaiting
	AssistError   = session.AssistError
)

// Decoration describes a page header or footer.
type Decoration = pipeline.DecorationData

// Margins holds the four page margins in one unit.
type Margins = pipeline.MarginData

// Margin units.
const (
	UnitMillimetre = pipeline.UnitMillimetre
	UnitCentimetre = pipeline.UnitCentimetre
	UnitInch       = pipeline.UnitInch
)

// ConvertMargins re-expresses m in unit, clamped to that unit's bound.
func ConvertMargins(m Margins, unit string) (Margins, error) {
	if !pipeline.IsKnownUnit(unit) {
		return Margins{}, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	if !pipeline.IsKnownUnit(m.Unit) {
		return Margins{}, fmt.Errorf("%w: %q", ErrInvalidUnit, m.Unit)
	}
	return pipeline.ConvertMargins(m, unit), nil
}

// ValidateMargins checks that m uses a known unit and that every side is a
// finite value in [0, bound of the unit].
func ValidateMargins(m Margins) error {
	if !pipeline.IsKnownUnit(m.Unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, m.Unit)
	}
	limit := pipeline.MaxMargin(m.Unit)
	for _, side := range []struct {
		name  string
		value float64
	}{{"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left}} {
		if math.IsNaN(side.value) || side.value < 0 || side.value > limit {
			return fmt.Errorf("%w: %s must be between 0 and %g%s, got %g",
				ErrInvalidMargin, side.name, limit, m.Unit, side.value)
		}
	}
	return nil
}

// NormalizeMargins validates m and converts it to millimetres without
// clamping, so 3in becomes 76.2mm.
func NormalizeMargins(m Margins) (Margins, error) {
	if err := ValidateMargins(m); err != nil {
		return Margins{}, err
	}
	return pipeline.NormalizeMargins(m), nil
}

// Download is an exported document ready to be saved.
type Download struct {
	Name        string
	ContentType string
	Data        []byte
}

// DownloadName is the file name offered for exported documents.
const DownloadName = "document.pdf"

// PrintJob is one pagination request.
type PrintJob struct {
	// Document is the complete HTML document.
	Document string

	// Header and Footer are nil when absent.
	Header *Decoration
	Footer *Decoration

	// Margins must be in millimetres.
	Margins Margins

	// Date is the rendered date shown by decorations with ShowDate.
	Date string
}

// Validate checks the job before it reaches a browser.
func (j PrintJob) Validate() error {
	if strings.TrimSpace(j.Document) == "" {
		return ErrEmptyDocument
	}
	if j.Margins.Unit != UnitMillimetre {
		return fmt.Errorf("%w: expected mm, got %q", ErrInvalidMargin, j.Margins.Unit)
	}
	for _, v := range []float64{j.Margins.Top, j.Margins.Right, j.Margins.Bottom, j.Margins.Left} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidMargin, v)
		}
	}
	return nil
}

// Templates builds the header and footer fragments for the job.
// Absent decorations are dropped even if the caller set them.
func (j PrintJob) Templates() pipeline.Templates {
	header, footer := j.Header, j.Footer
	if !header.IsPresent() {
		header = nil
	}
	if !footer.IsPresent() {
		footer = nil
	}
	return pipeline.BuildTemplates(header, footer, j.Date)
}
