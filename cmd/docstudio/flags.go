package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docstudio/internal/config"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// paginatorFlags select and tune the PDF backend.
type paginatorFlags struct {
	backend    string
	timeout    string
	pageFormat string
}

// decorationFlags describe one page header or footer.
type decorationFlags struct {
	text       string
	rich       bool
	pageNumber bool
	date       bool
	align      string
	disabled   bool
}

// marginFlags override the configured margins. Negative means unset.
type marginFlags struct {
	top    float64
	right  float64
	bottom float64
	left   float64
	unit   string
}

// assistFlags point at the language-model service.
type assistFlags struct {
	endpoint string
	model    string
}

// storeFlags choose where session data lives.
type storeFlags struct {
	artifactDir string
	redisURL    string
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	return fs
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed logs and timing")
}

// addPaginatorFlags adds backend flags to a FlagSet.
func addPaginatorFlags(fs *flag.FlagSet, f *paginatorFlags) {
	fs.StringVar(&f.backend, "backend", "", "PDF backend: rod, chromedp")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g. 30s, 2m)")
	fs.StringVar(&f.pageFormat, "page", "", "page format: a4, letter, legal")
}

// addDecorationFlags adds --<prefix>-* flags for a header or footer.
func addDecorationFlags(fs *flag.FlagSet, prefix string, f *decorationFlags) {
	fs.StringVar(&f.text, prefix+"-text", "", prefix+" text")
	fs.BoolVar(&f.rich, prefix+"-html", false, "treat "+prefix+" text as HTML")
	fs.BoolVar(&f.pageNumber, prefix+"-page-number", false, "show page number in "+prefix)
	fs.BoolVar(&f.date, prefix+"-date", false, "show date in "+prefix)
	fs.StringVar(&f.align, prefix+"-align", "", prefix+" alignment: left, center, right")
	fs.BoolVar(&f.disabled, "no-"+prefix, false, "disable "+prefix)
}

// addMarginFlags adds margin override flags.
func addMarginFlags(fs *flag.FlagSet, f *marginFlags) {
	fs.Float64Var(&f.top, "margin-top", -1, "top margin")
	fs.Float64Var(&f.right, "margin-right", -1, "right margin")
	fs.Float64Var(&f.bottom, "margin-bottom", -1, "bottom margin")
	fs.Float64Var(&f.left, "margin-left", -1, "left margin")
	fs.StringVar(&f.unit, "margin-unit", "", "margin unit: mm, cm, in")
}

// addAssistFlags adds assistant flags.
func addAssistFlags(fs *flag.FlagSet, f *assistFlags) {
	fs.StringVar(&f.endpoint, "ollama", "", "Ollama endpoint URL")
	fs.StringVar(&f.model, "model", "", "Ollama model name")
}

// addStoreFlags adds artifact and snapshot store flags.
func addStoreFlags(fs *flag.FlagSet, f *storeFlags) {
	fs.StringVar(&f.artifactDir, "artifact-dir", "", "keep exported PDFs in this directory")
	fs.StringVar(&f.redisURL, "redis-url", "", "persist the session in Redis (redis://host:port/db)")
}

// parseFlagSet parses args and maps pflag failures to ErrUsage.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// mergePaginatorFlags applies explicitly set backend flags to cfg.
func mergePaginatorFlags(f *paginatorFlags, cfg *config.Config) {
	if f.backend != "" {
		cfg.Paginator.Backend = f.backend
	}
	if f.timeout != "" {
		cfg.Paginator.Timeout = f.timeout
	}
	if f.pageFormat != "" {
		cfg.Paginator.PageFormat = f.pageFormat
	}
}

// mergeDecorationFlags applies a header or footer override to d.
// Setting any text or flag replaces the configured decoration.
func mergeDecorationFlags(f *decorationFlags, d *config.DecorationConfig) {
	if f.disabled {
		*d = config.DecorationConfig{Alignment: d.Alignment}
		return
	}
	if f.text != "" || f.pageNumber || f.date {
		*d = config.DecorationConfig{
			Text:           f.text,
			RichContent:    f.rich,
			ShowPageNumber: f.pageNumber,
			ShowDate:       f.date,
			Alignment:      d.Alignment,
		}
	}
	if f.align != "" {
		d.Alignment = f.align
	}
}

// mergeMarginFlags applies margin overrides to cfg.
func mergeMarginFlags(f *marginFlags, cfg *config.Config) {
	if f.unit != "" {
		cfg.Margins.Unit = f.unit
	}
	if f.top >= 0 {
		cfg.Margins.Top = f.top
	}
	if f.right >= 0 {
		cfg.Margins.Right = f.right
	}
	if f.bottom >= 0 {
		cfg.Margins.Bottom = f.bottom
	}
	if f.left >= 0 {
		cfg.Margins.Left = f.left
	}
}

// mergeAssistFlags applies assistant overrides to cfg.
func mergeAssistFlags(f *assistFlags, cfg *config.Config) {
	if f.endpoint != "" {
		cfg.Assist.Endpoint = f.endpoint
	}
	if f.model != "" {
		cfg.Assist.Model = f.model
	}
}

// mergeStoreFlags applies store overrides to cfg.
func mergeStoreFlags(f *storeFlags, cfg *config.Config) {
	if f.artifactDir != "" {
		cfg.Artifacts.Dir = f.artifactDir
		cfg.Artifacts.S3 = config.S3Config{}
	}
	if f.redisURL != "" {
		cfg.Session.RedisURL = f.redisURL
	}
}
