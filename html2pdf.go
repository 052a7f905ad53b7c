package docstudio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docstudio/internal/fileutil"
	"github.com/alnah/go-docstudio/internal/hints"
	"github.com/alnah/go-docstudio/internal/process"
)

// fileRenderer renders a local HTML file, so the rod paginator can be
// tested without a browser.
type fileRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, s printSettings) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Paginator    = (*rodPaginator)(nil)
	_ fileRenderer = (*rodRenderer)(nil)
)

// rodRenderer drives headless Chrome through go-rod.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to Chrome.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// No sandbox in CI and containers
	if hints.NeedsNoSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	r.browser = browser
	r.launcher = l
	return browser, nil
}

// Close releases the browser and kills its process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		// Chrome helpers survive browser.Close when the parent hangs.
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens filePath in a new tab and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, s printSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	timeout, err := effectiveTimeout(ctx, r.timeout)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx).Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, hints.ForTimeout())
	}

	if s.ClearTitle {
		if _, err := page.Eval(clearTitleJS); err != nil {
			return nil, fmt.Errorf("%w: clearing title: %v", ErrPDFGeneration, err)
		}
	}

	reader, err := page.PDF(toRodPDFOptions(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// toRodPDFOptions maps print settings onto Chrome's printToPDF parameters.
func toRodPDFOptions(s printSettings) *proto.PagePrintToPDF {
	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(s.PaperWidth),
		PaperHeight:     floatPtr(s.PaperHeight),
		MarginTop:       floatPtr(s.MarginTop),
		MarginRight:     floatPtr(s.MarginRight),
		MarginBottom:    floatPtr(s.MarginBottom),
		MarginLeft:      floatPtr(s.MarginLeft),
		PrintBackground: true,
	}
	if s.DisplayHeaderFooter {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = s.HeaderTemplate
		opts.FooterTemplate = s.FooterTemplate
	}
	return opts
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodPaginator writes the document to a temporary file and renders it.
type rodPaginator struct {
	renderer fileRenderer
	paper    Paper

	mu     sync.Mutex
	closed bool
}

func newRodPaginator(cfg paginatorConfig) *rodPaginator {
	return &rodPaginator{
		renderer: newRodRenderer(cfg.timeout),
		paper:    cfg.paper,
	}
}

// Paginate renders job to PDF bytes.
func (p *rodPaginator) Paginate(ctx context.Context, job PrintJob) ([]byte, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(job.Document, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	return p.renderer.RenderFromFile(ctx, tmpPath, buildPrintSettings(job, p.paper))
}

func (p *rodPaginator) checkOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPaginatorClosed
	}
	return nil
}

// Close releases browser resources. Further calls to Paginate fail.
func (p *rodPaginator) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	return p.renderer.Close()
}
