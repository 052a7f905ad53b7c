package docstudio

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-docstudio/internal/hints"
)

// Compile-time interface check
var _ Paginator = (*chromedpPaginator)(nil)

// chromedpPaginator renders through chromedp, loading the document from a
// data URL. One browser is shared and each job gets its own tab.
type chromedpPaginator struct {
	cfg paginatorConfig

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	closed      bool
}

func newChromedpPaginator(cfg paginatorConfig) *chromedpPaginator {
	return &chromedpPaginator{cfg: cfg}
}

// allocatorOptions mirrors the rod launcher's environment handling.
func allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	if hints.NeedsNoSandbox() {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// ensureBrowser starts Chrome on first use.
func (p *chromedpPaginator) ensureBrowser() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPaginatorClosed
	}
	if p.browserCtx != nil {
		return p.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions()...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	p.allocCtx, p.allocCancel = allocCtx, allocCancel
	p.browserCtx, p.cancel = browserCtx, cancel
	return browserCtx, nil
}

// Paginate renders job to PDF bytes.
func (p *chromedpPaginator) Paginate(ctx context.Context, job PrintJob) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	browserCtx, err := p.ensureBrowser()
	if err != nil {
		return nil, err
	}

	timeout, err := effectiveTimeout(ctx, p.cfg.timeout)
	if err != nil {
		return nil, err
	}

	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	// The caller's cancellation reaches the tab.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	s := buildPrintSettings(job, p.cfg.paper)

	actions := chromedp.Tasks{
		chromedp.Navigate(dataURL(job.Document)),
		chromedp.WaitReady("body"),
	}
	if s.ClearTitle {
		var cleared bool
		actions = append(actions, chromedp.Evaluate("("+clearTitleJS+")()", &cleared))
	}

	var pdfData []byte
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfData, _, err = toPrintParams(s).Do(ctx)
		return err
	}))

	if err := chromedp.Run(tabCtx, actions); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	return pdfData, nil
}

// toPrintParams maps print settings onto the CDP printToPDF command.
func toPrintParams(s printSettings) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(s.PaperWidth).
		WithPaperHeight(s.PaperHeight).
		WithMarginTop(s.MarginTop).
		WithMarginRight(s.MarginRight).
		WithMarginBottom(s.MarginBottom).
		WithMarginLeft(s.MarginLeft)
	if s.DisplayHeaderFooter {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(s.HeaderTemplate).
			WithFooterTemplate(s.FooterTemplate)
	}
	return params
}

// dataURL encodes document as a base64 data URL.
func dataURL(document string) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(document))
}

// Close shuts the browser down. Further calls to Paginate fail.
func (p *chromedpPaginator) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var err error
	if p.browserCtx != nil {
		err = chromedp.Cancel(p.browserCtx)
		p.cancel()
		p.allocCancel()
		p.browserCtx, p.allocCtx = nil, nil
	}
	return err
}
