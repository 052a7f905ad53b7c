package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/dateutil"
	"github.com/alnah/go-docstudio/internal/mcpserver"
	"github.com/alnah/go-docstudio/internal/server"
)

// mcpShutdownTimeout bounds the graceful stop of the MCP HTTP transport.
const mcpShutdownTimeout = 10 * time.Second

// sessionFlags holds the flags shared by serve and mcp.
type sessionFlags struct {
	common       commonFlags
	workers      int
	dateFormat   string
	starter      string
	documentsDir string
	paginator    paginatorFlags
	assist       assistFlags
	stores       storeFlags
}

// addSessionFlags adds the worker and date flags of serve and mcp.
func addSessionFlags(fs *flag.FlagSet, f *sessionFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVar(&f.dateFormat, "date-format", "", "date format for decorations (preset or tokens)")
	fs.StringVar(&f.starter, "starter", "", "open the session on a named document (see 'docstudio new --list')")
	fs.StringVar(&f.documentsDir, "documents-dir", "", "directory holding custom documents/<name>.html")
}

// sessionConfig loads the configuration and applies session flags.
func sessionConfig(f *sessionFlags, envCfg *envConfig) (*config.Config, error) {
	cfg, err := loadConfig(f.common.config, envCfg)
	if err != nil {
		return nil, err
	}
	mergePaginatorFlags(&f.paginator, cfg)
	mergeAssistFlags(&f.assist, cfg)
	mergeStoreFlags(&f.stores, cfg)
	if f.dateFormat != "" {
		cfg.DateFormat = f.dateFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if f.workers < 0 || f.workers > docstudio.MaxPoolSize {
		return nil, fmt.Errorf("%w: --workers must be between 0 and %d", ErrUsage, docstudio.MaxPoolSize)
	}
	return cfg, nil
}

// runServe serves the editing session and the stateless PDF and assist
// routes over HTTP until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	var (
		f    sessionFlags
		addr string
	)
	fs := newFlagSet("serve", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&addr, "addr", "a", "", "listen address (default "+config.DefaultServerAddr+")")
	addSessionFlags(fs, &f)
	addPaginatorFlags(fs, &f.paginator)
	addAssistFlags(fs, &f.assist)
	addStoreFlags(fs, &f.stores)
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	cfg, err := sessionConfig(&f, loadEnvConfig())
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = config.DefaultServerAddr
	}

	logger, err := newLogger(f.common.verbose, true)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	starter, err := starterOptions(f.starter, f.documentsDir)
	if err != nil {
		return err
	}
	rt, err := newStudioRuntime(ctx, cfg, logger, f.workers, env.Stderr, starter...)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	dates, err := dateutil.NewFormatter(cfg.DateFormat)
	if err != nil {
		return err
	}
	srv := server.New(rt.studio, rt.pool, rt.assist,
		server.WithLogger(logger),
		server.WithDateFormatter(dates),
		server.WithClock(env.Now),
	)

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "docstudio listening on http://%s\n", cfg.Server.Addr)
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// runMCP exposes the editing session as MCP tools over stdio, or over
// streamable HTTP with --http.
func runMCP(ctx context.Context, args []string, env *Environment) error {
	var (
		f        sessionFlags
		httpAddr  string
		endpoint  string
		outputDir string
	)
	fs := newFlagSet("mcp", env.Stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVar(&httpAddr, "http", "", "serve streamable HTTP on this address instead of stdio")
	fs.StringVar(&endpoint, "endpoint", mcpserver.DefaultEndpoint, "HTTP endpoint path")
	fs.StringVar(&outputDir, "output-dir", mcpserver.DefaultOutputDir, "directory the export tool may write PDFs into")
	addSessionFlags(fs, &f)
	addPaginatorFlags(fs, &f.paginator)
	addAssistFlags(fs, &f.assist)
	addStoreFlags(fs, &f.stores)
	if err := parseFlagSet(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: mcp takes no arguments", ErrUsage)
	}

	cfg, err := sessionConfig(&f, loadEnvConfig())
	if err != nil {
		return err
	}

	// zap writes to stderr, so stdio framing on stdout stays clean.
	logger, err := newLogger(f.common.verbose, true)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	starter, err := starterOptions(f.starter, f.documentsDir)
	if err != nil {
		return err
	}
	rt, err := newStudioRuntime(ctx, cfg, logger, f.workers, env.Stderr, starter...)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	s := mcpserver.NewServer(rt.studio, Version, logger, mcpserver.WithOutputDir(outputDir))
	if httpAddr == "" {
		logger.Info("mcp server on stdio")
		return mcpserver.ServeStdio(s)
	}

	httpServer := mcpserver.NewHTTPServer(s, endpoint)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp server listening", zap.String("addr", httpAddr), zap.String("endpoint", endpoint))
		errCh <- httpServer.Start(httpAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), mcpShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
