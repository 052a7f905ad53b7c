package docstudio

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/pipeline"
	"github.com/alnah/go-docstudio/internal/session"
)

// studioConfig collects NewStudio options.
type studioConfig struct {
	paginator  Paginator
	assist     assist.Client
	artifacts  artifact.Store
	snapshots  session.SnapshotStore
	logger     *zap.Logger
	now        func() time.Time
	dateFormat string
	composer   pipeline.Composer
	document   *string
	settings   []session.Event
}

// Option configures a Studio.
type Option func(*studioConfig)

// WithPaginator sets the PDF backend. The caller keeps ownership and must
// close it; without this option the studio creates and closes a rod backend.
func WithPaginator(p Paginator) Option {
	return func(c *studioConfig) {
		c.paginator = p
	}
}

// WithAssistClient sets the language-model client.
func WithAssistClient(a assist.Client) Option {
	return func(c *studioConfig) {
		c.assist = a
	}
}

// WithArtifactStore sets where exported PDFs are kept.
// Defaults to an in-memory store of the latest artifact.DefaultMemoryLimit exports.
func WithArtifactStore(s artifact.Store) Option {
	return func(c *studioConfig) {
		c.artifacts = s
	}
}

// WithSnapshotStore persists the session after every change.
func WithSnapshotStore(s session.SnapshotStore) Option {
	return func(c *studioConfig) {
		c.snapshots = s
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *studioConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source for decoration dates and artifact keys.
func WithClock(now func() time.Time) Option {
	return func(c *studioConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDateFormat sets the decoration date format: a preset (locale, iso,
// european, us, long) or tokens such as "DD/MM/YYYY".
func WithDateFormat(format string) Option {
	return func(c *studioConfig) {
		c.dateFormat = format
	}
}

// WithComposer replaces the pattern-based composition engine.
func WithComposer(comp pipeline.Composer) Option {
	return func(c *studioConfig) {
		c.composer = comp
	}
}

// WithDocument sets the initial combined document instead of the starter.
func WithDocument(doc string) Option {
	return func(c *studioConfig) {
		c.document = &doc
	}
}

// WithHeader sets the initial page header.
func WithHeader(d Decoration) Option {
	return func(c *studioConfig) {
		c.settings = append(c.settings, session.UpdateDecoration{Target: session.TargetHeader, Config: d})
	}
}

// WithFooter sets the initial page footer.
func WithFooter(d Decoration) Option {
	return func(c *studioConfig) {
		c.settings = append(c.settings, session.UpdateDecoration{Target: session.TargetFooter, Config: d})
	}
}

// WithMargins sets the initial page margins.
func WithMargins(m Margins) Option {
	return func(c *studioConfig) {
		c.settings = append(c.settings, session.UpdateMargins{Margins: m})
	}
}

// WithAssistTarget sets the initial assistant endpoint and model.
// Blank values keep the defaults.
func WithAssistTarget(endpoint, model string) Option {
	return func(c *studioConfig) {
		c.settings = append(c.settings, session.ConfigureAssist{Endpoint: endpoint, Model: model})
	}
}
