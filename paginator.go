package docstudio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alnah/go-docstudio/internal/hints"
	"github.com/alnah/go-docstudio/internal/pipeline"
)

// Paginator renders a PrintJob to PDF bytes.
type Paginator interface {
	Paginate(ctx context.Context, job PrintJob) ([]byte, error)
	Close() error
}

// Paginator backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// DefaultPaginatorTimeout bounds one page load and print.
const DefaultPaginatorTimeout = 30 * time.Second

// Paper is a sheet size in inches.
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

// Supported paper formats.
var (
	PaperA4     = Paper{Name: "a4", Width: 8.27, Height: 11.69}
	PaperLetter = Paper{Name: "letter", Width: 8.5, Height: 11}
	PaperLegal  = Paper{Name: "legal", Width: 8.5, Height: 14}
)

var papers = map[string]Paper{
	PaperA4.Name:     PaperA4,
	PaperLetter.Name: PaperLetter,
	PaperLegal.Name:  PaperLegal,
}

// PaperFor returns the paper named name (case-insensitive).
// An empty name selects A4.
func PaperFor(name string) (Paper, error) {
	if name == "" {
		return PaperA4, nil
	}
	p, ok := papers[strings.ToLower(name)]
	if !ok {
		return Paper{}, fmt.Errorf("%w: %q (must be a4, letter, or legal)", ErrInvalidPaper, name)
	}
	return p, nil
}

type paginatorConfig struct {
	timeout time.Duration
	paper   Paper
}

// PaginatorOption configures a paginator backend.
type PaginatorOption func(*paginatorConfig)

// WithPaginatorTimeout bounds page load and print. Non-positive values are ignored.
func WithPaginatorTimeout(d time.Duration) PaginatorOption {
	return func(c *paginatorConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPaper selects the sheet size.
func WithPaper(p Paper) PaginatorOption {
	return func(c *paginatorConfig) {
		if p.Width > 0 && p.Height > 0 {
			c.paper = p
		}
	}
}

var backends = map[string]func(paginatorConfig) Paginator{
	BackendRod:      func(c paginatorConfig) Paginator { return newRodPaginator(c) },
	BackendChromedp: func(c paginatorConfig) Paginator { return newChromedpPaginator(c) },
}

// Backends lists the available backend names.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPaginator creates a backend by name. An empty name selects rod.
// Browsers start lazily on the first Paginate call.
func NewPaginator(backend string, opts ...PaginatorOption) (Paginator, error) {
	if backend == "" {
		backend = BackendRod
	}
	factory, ok := backends[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownBackend, backend, hints.ForBackendNotFound(Backends()))
	}

	cfg := paginatorConfig{timeout: DefaultPaginatorTimeout, paper: PaperA4}
	for _, opt := range opts {
		opt(&cfg)
	}
	return factory(cfg), nil
}

// printSettings is the backend-neutral form of Chrome's printToPDF call.
type printSettings struct {
	PaperWidth   float64
	PaperHeight  float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string

	// ClearTitle blanks document.title before printing.
	ClearTitle bool
}

// buildPrintSettings converts a job to inches and templates.
func buildPrintSettings(job PrintJob, paper Paper) printSettings {
	m := job.Margins
	s := printSettings{
		PaperWidth:   paper.Width,
		PaperHeight:  paper.Height,
		MarginTop:    pipeline.MillimetresToInches(m.Top),
		MarginRight:  pipeline.MillimetresToInches(m.Right),
		MarginBottom: pipeline.MillimetresToInches(m.Bottom),
		MarginLeft:   pipeline.MillimetresToInches(m.Left),
	}

	t := job.Templates()
	if t.Display {
		s.DisplayHeaderFooter = true
		s.HeaderTemplate = t.Header
		s.FooterTemplate = t.Footer
		s.ClearTitle = t.ClearTitle
	}
	return s
}

// clearTitleJS blanks the title Chrome would otherwise print.
const clearTitleJS = `() => { document.title = ""; return true; }`

// effectiveTimeout shortens timeout to the context deadline, if sooner.
func effectiveTimeout(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if remaining < timeout {
			return remaining, nil
		}
	}
	return timeout, nil
}
