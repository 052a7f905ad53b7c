package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/dateutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for file commands.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input")
	ErrWriteOutput     = errors.New("failed to write output")
	ErrPaginatorInit   = errors.New("failed to initialize paginator")
	ErrExportsFailed   = errors.New("some exports failed")
	errUnsupportedFile = errors.New("not an HTML file")
)

// Pool abstracts paginator pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (docstudio.Paginator, error)
	Release(docstudio.Paginator)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*docstudio.PaginatorPool)(nil)

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common     commonFlags
	output     string
	workers    int
	dateFormat string
	paginator  paginatorFlags
	header     decorationFlags
	footer     decorationFlags
	margins    marginFlags
}

// FileToExport is one input document and its PDF destination.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// exportParams is the part of a print job shared by every file.
type exportParams struct {
	header  *docstudio.Decoration
	footer  *docstudio.Decoration
	margins docstudio.Margins
	date    string
}

// parseExportFlags parses export arguments.
func parseExportFlags(args []string, env *Environment) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format for decorations (preset or tokens)")
	addPaginatorFlags(fs, &f.paginator)
	addDecorationFlags(fs, "header", &f.header)
	addDecorationFlags(fs, "footer", &f.footer)
	addMarginFlags(fs, &f.margins)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// runExport converts HTML documents to PDF with the configured decorations.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseExportFlags(args, env)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: give an HTML file or directory", ErrNoInput)
	}
	if flags.workers < 0 || flags.workers > docstudio.MaxPoolSize {
		return fmt.Errorf("%w: --workers must be between 0 and %d", ErrUsage, docstudio.MaxPoolSize)
	}

	cfg, err := exportConfig(flags, loadEnvConfig())
	if err != nil {
		return err
	}

	var files []FileToExport
	for _, in := range inputs {
		found, err := discoverFiles(in, flags.output)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no .html files found", ErrNoInput)
	}
	if strings.HasSuffix(flags.output, ".pdf") && len(files) > 1 {
		return fmt.Errorf("%w: --output names one file but %d documents were found", ErrUsage, len(files))
	}

	params, err := buildExportParams(cfg, env.Now())
	if err != nil {
		return err
	}

	pool, err := newPool(cfg, flags.workers)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Exporting %d file(s) with %d %s browser(s)\n", len(files), min(pool.Size(), len(files)), cfg.Paginator.Backend)
	}

	results := exportBatch(ctx, pool, files, params)
	failed, firstErr := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d: %w", ErrExportsFailed, failed, len(results), firstErr)
	}
	return nil
}

// exportConfig loads the configuration and applies export flags.
func exportConfig(flags *exportFlags, envCfg *envConfig) (*config.Config, error) {
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return nil, err
	}
	mergePaginatorFlags(&flags.paginator, cfg)
	mergeDecorationFlags(&flags.header, &cfg.Header)
	mergeDecorationFlags(&flags.footer, &cfg.Footer)
	mergeMarginFlags(&flags.margins, cfg)
	if flags.dateFormat != "" {
		cfg.DateFormat = flags.dateFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildExportParams resolves decorations, millimetre margins and the date.
// Absent decorations are left nil.
func buildExportParams(cfg *config.Config, now time.Time) (*exportParams, error) {
	dates, err := dateutil.NewFormatter(cfg.DateFormat)
	if err != nil {
		return nil, err
	}
	margins, err := docstudio.NormalizeMargins(marginsFrom(cfg.Margins))
	if err != nil {
		return nil, err
	}

	params := &exportParams{margins: margins, date: dates.Format(now)}
	if header := decorationFrom(cfg.Header); header.IsPresent() {
		params.header = &header
	}
	if footer := decorationFrom(cfg.Footer); footer.IsPresent() {
		params.footer = &footer
	}
	return params, nil
}

// exportBatch processes files concurrently, one worker per pooled browser.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams) []ExportResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ExportResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			pag, err := pool.Acquire(ctx)
			if err != nil {
				// Browser creation failed, mark this worker's remaining jobs as failed
				for idx := range jobs {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrPaginatorInit, err),
					}
				}
				return
			}
			defer pool.Release(pag)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, pag, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile renders a single document and writes the PDF.
func exportFile(ctx context.Context, pag docstudio.Paginator, f FileToExport, params *exportParams) ExportResult {
	start := time.Now()
	result := ExportResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) ExportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := readDocument(f.InputPath, nil)
	if err != nil {
		return done(err)
	}

	pdf, err := pag.Paginate(ctx, docstudio.PrintJob{
		Document: content,
		Header:   params.header,
		Footer:   params.footer,
		Margins:  params.margins,
		Date:     params.date,
	})
	if err != nil {
		return done(err)
	}
	if info, err := artifact.Inspect(pdf); err == nil {
		result.Pages = info.Pages
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}
	return done(writeOutput(f.OutputPath, pdf))
}

// printResults outputs export results and returns the failure count
// and the first failure.
func printResults(results []ExportResult, quiet, verbose bool, env *Environment) (int, error) {
	var (
		failed   int
		firstErr error
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	return failed, firstErr
}

// discoverFiles finds the HTML documents to export under inputPath.
func discoverFiles(inputPath, outputDir string) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	if !info.IsDir() {
		if !isHTMLFile(inputPath) {
			return nil, fmt.Errorf("%w: %s: %v (expected .html or .htm)", ErrUsage, inputPath, errUnsupportedFile)
		}
		return []FileToExport{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isHTMLFile(path) {
			return nil
		}
		files = append(files, FileToExport{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})
	return files, err
}

// isHTMLFile reports whether path has an HTML extension.
func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// resolveOutputPath determines the PDF path for an HTML file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}
	return filepath.Join(outputDir, base+".pdf")
}
