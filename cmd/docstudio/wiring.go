package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assets"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/config"
	"github.com/alnah/go-docstudio/internal/hints"
	"github.com/alnah/go-docstudio/internal/session"
)

// newLogger builds the CLI logger. Verbose runs get the human-readable
// development encoder; long-running commands log JSON at info level;
// one-shot commands stay silent.
func newLogger(verbose, longRunning bool) (*zap.Logger, error) {
	switch {
	case verbose:
		return zap.NewDevelopment()
	case longRunning:
		return zap.NewProduction()
	default:
		return zap.NewNop(), nil
	}
}

// decorationFrom converts a config decoration to the library type.
func decorationFrom(d config.DecorationConfig) docstudio.Decoration {
	return docstudio.Decoration{
		Text:           d.Text,
		IsRichContent:  d.RichContent,
		ShowPageNumber: d.ShowPageNumber,
		ShowDate:       d.ShowDate,
		Alignment:      d.Alignment,
	}
}

// marginsFrom converts config margins to the library type.
func marginsFrom(m config.MarginsConfig) docstudio.Margins {
	unit := m.Unit
	if unit == "" {
		unit = docstudio.UnitMillimetre
	}
	return docstudio.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left, Unit: unit}
}

// paginatorFactory returns a constructor for the configured backend.
func paginatorFactory(cfg *config.Config) (func() (docstudio.Paginator, error), error) {
	paper, err := docstudio.PaperFor(cfg.Paginator.PageFormat)
	if err != nil {
		return nil, err
	}
	opts := []docstudio.PaginatorOption{
		docstudio.WithPaper(paper),
		docstudio.WithPaginatorTimeout(cfg.PaginatorTimeout()),
	}

	// Fail fast on an unknown backend before any worker asks for one.
	probe, err := docstudio.NewPaginator(cfg.Paginator.Backend, opts...)
	if err != nil {
		return nil, err
	}
	_ = probe.Close()
	return func() (docstudio.Paginator, error) {
		return docstudio.NewPaginator(cfg.Paginator.Backend, opts...)
	}, nil
}

// newPool builds a paginator pool for the configured backend.
func newPool(cfg *config.Config, workers int) (*docstudio.PaginatorPool, error) {
	factory, err := paginatorFactory(cfg)
	if err != nil {
		return nil, err
	}
	return docstudio.NewPaginatorPool(docstudio.ResolvePoolSize(workers), factory), nil
}

// newArtifactStore picks the filesystem, S3 or in-memory store.
func newArtifactStore(ctx context.Context, cfg *config.Config) (artifact.Store, error) {
	switch {
	case cfg.Artifacts.S3.Enabled():
		s3 := cfg.Artifacts.S3
		return artifact.NewMinioStore(ctx, artifact.MinioConfig{
			Endpoint:  s3.Endpoint,
			Bucket:    s3.Bucket,
			AccessKey: s3.AccessKey,
			SecretKey: s3.SecretKey,
			UseSSL:    s3.UseSSL,
			Prefix:    s3.Prefix,
		})
	case cfg.Artifacts.Dir != "":
		store, err := artifact.NewFileStore(cfg.Artifacts.Dir)
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForOutputDirectory())
		}
		return store, nil
	default:
		return artifact.NewMemoryStore(artifact.DefaultMemoryLimit), nil
	}
}

// newSnapshotStore connects to Redis when a URL is configured.
// Returns nil, nil otherwise.
func newSnapshotStore(cfg *config.Config) (*session.RedisStore, error) {
	if cfg.Session.RedisURL == "" {
		return nil, nil
	}
	store, err := session.NewRedisStore(cfg.Session.RedisURL, cfg.Session.Key)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForRedisConnect())
	}
	return store, nil
}

// loadStarter loads a named document, looking in dir/documents first
// when dir is set and falling back to the embedded documents.
func loadStarter(name, dir string) (string, error) {
	resolver, err := assets.NewResolver(dir)
	if err != nil {
		return "", err
	}
	return resolver.LoadDocument(name)
}

// starterOptions returns the option that opens the session on a named
// document, or nothing when name is empty.
func starterOptions(name, dir string) ([]docstudio.Option, error) {
	if name == "" {
		return nil, nil
	}
	doc, err := loadStarter(name, dir)
	if err != nil {
		return nil, err
	}
	return []docstudio.Option{docstudio.WithDocument(doc)}, nil
}

// newAssistClient builds the Ollama client with the configured timeout.
func newAssistClient(cfg *config.Config) *assist.OllamaClient {
	return assist.NewOllamaClient(assist.WithTimeout(cfg.AssistTimeout()))
}

// studioRuntime is a studio with the collaborators the CLI created for it.
type studioRuntime struct {
	studio    *docstudio.Studio
	pool      *docstudio.PaginatorPool
	assist    assist.Client
	snapshots *session.RedisStore
	logger    *zap.Logger
}

// Close releases the browsers and the Redis connection.
func (r *studioRuntime) Close() error {
	var firstErr error
	if err := r.studio.Close(); err != nil {
		firstErr = err
	}
	if err := r.pool.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if r.snapshots != nil {
		if err := r.snapshots.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = r.logger.Sync()
	return firstErr
}

// newStudioRuntime wires a studio for serve and mcp: pooled paginator,
// Ollama client, configured stores, initial settings from cfg, and the
// last saved session when Redis is configured.
// extra options are applied last.
func newStudioRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger, workers int, warn io.Writer, extra ...docstudio.Option) (*studioRuntime, error) {
	pool, err := newPool(cfg, workers)
	if err != nil {
		return nil, err
	}

	artifacts, err := newArtifactStore(ctx, cfg)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	snapshots, err := newSnapshotStore(cfg)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	ai := newAssistClient(cfg)
	opts := []docstudio.Option{
		docstudio.WithPaginator(pool),
		docstudio.WithAssistClient(ai),
		docstudio.WithArtifactStore(artifacts),
		docstudio.WithLogger(logger),
		docstudio.WithDateFormat(cfg.DateFormat),
		docstudio.WithHeader(decorationFrom(cfg.Header)),
		docstudio.WithFooter(decorationFrom(cfg.Footer)),
		docstudio.WithMargins(marginsFrom(cfg.Margins)),
		docstudio.WithAssistTarget(cfg.Assist.Endpoint, cfg.Assist.Model),
	}
	if snapshots != nil {
		opts = append(opts, docstudio.WithSnapshotStore(snapshots))
	}
	opts = append(opts, extra...)

	studio, err := docstudio.NewStudio(opts...)
	if err != nil {
		_ = pool.Close()
		if snapshots != nil {
			_ = snapshots.Close()
		}
		return nil, err
	}

	rt := &studioRuntime{studio: studio, pool: pool, assist: ai, snapshots: snapshots, logger: logger}
	if _, err := studio.Restore(ctx); err != nil {
		fmt.Fprintf(warn, "warning: could not restore session: %v\n", err)
	}
	return rt, nil
}
