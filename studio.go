package docstudio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assets"
	"github.com/alnah/go-docstudio/internal/assist"
	"github.com/alnah/go-docstudio/internal/dateutil"
	"github.com/alnah/go-docstudio/internal/session"
)

// snapshotTimeout bounds one snapshot write.
const snapshotTimeout = 5 * time.Second

// Studio is the handle on one editing session. It is safe for concurrent
// use; its lock is never held across a paginator, assistant or store call.
type Studio struct {
	mu      sync.Mutex
	state   session.State
	reducer session.Reducer

	// persistMu orders snapshot writes so the last one wins.
	persistMu sync.Mutex

	paginator     Paginator
	ownsPaginator bool
	assist        assist.Client
	artifacts     artifact.Store
	snapshots     session.SnapshotStore
	logger        *zap.Logger
	now           func() time.Time
	dates         dateutil.Formatter
	seq           atomic.Uint64
}

// NewStudio creates a session holding the starter document (or the one
// given by WithDocument) in combined mode. No browser starts until the
// first export.
func NewStudio(opts ...Option) (*Studio, error) {
	cfg := studioConfig{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dates, err := dateutil.NewFormatter(cfg.dateFormat)
	if err != nil {
		return nil, err
	}

	s := &Studio{
		reducer:   session.NewReducer(cfg.composer),
		paginator: cfg.paginator,
		assist:    cfg.assist,
		artifacts: cfg.artifacts,
		snapshots: cfg.snapshots,
		logger:    cfg.logger,
		now:       cfg.now,
		dates:     dates,
	}

	doc := assets.Starter()
	if cfg.document != nil {
		doc = *cfg.document
	}
	s.state = session.NewState(s.reducer.Composer, doc)
	for _, ev := range cfg.settings {
		next, _, err := s.reducer.Reduce(s.state, ev)
		if err != nil {
			return nil, err
		}
		s.state = next
	}

	if s.paginator == nil {
		s.paginator, err = NewPaginator(BackendRod)
		if err != nil {
			return nil, err
		}
		s.ownsPaginator = true
	}
	if s.assist == nil {
		s.assist = assist.NewOllamaClient()
	}
	if s.artifacts == nil {
		s.artifacts = artifact.NewMemoryStore(artifact.DefaultMemoryLimit)
	}

	return s, nil
}

// Restore replaces the session with the stored snapshot, if any.
// Returns false when no snapshot store is configured or none was saved.
// It is meant for startup: while an export or assist request is in flight
// it returns ErrRestoreInFlight and leaves the session untouched.
func (s *Studio) Restore(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	if s.inFlight() {
		return false, ErrRestoreInFlight
	}
	st, err := s.snapshots.Load(ctx)
	if errors.Is(err, session.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if busy(s.state) {
		s.mu.Unlock()
		return false, ErrRestoreInFlight
	}
	s.state = st
	s.mu.Unlock()

	s.logger.Info("session restored",
		zap.String("mode", string(st.Mode)),
		zap.Int("messages", len(st.Conversation)))
	return true, nil
}

func (s *Studio) inFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return busy(s.state)
}

func busy(st session.State) bool {
	return st.Export.Status == session.ExportRunning || st.Assist.Status == session.AssistWaiting
}

// Close releases the paginator if the studio created it.
func (s *Studio) Close() error {
	if s.ownsPaginator {
		return s.paginator.Close()
	}
	return nil
}

// Snapshot returns a copy of the session.
func (s *Studio) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// PreviewDocument returns the composed document, or a placeholder page
// when the document is blank.
func (s *Studio) PreviewDocument() string {
	s.mu.Lock()
	current := s.reducer.Current(s.state)
	s.mu.Unlock()

	if strings.TrimSpace(current) == "" {
		return assets.Placeholder()
	}
	return current
}

// dispatch reduces e under the lock and persists the result.
func (s *Studio) dispatch(e session.Event) (session.Effect, error) {
	s.mu.Lock()
	next, eff, err := s.reducer.Reduce(s.state, e)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = next
	s.mu.Unlock()

	s.persist()
	return eff, nil
}

// persist saves the latest session. Failures are logged, never returned.
func (s *Studio) persist() {
	if s.snapshots == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, s.Snapshot()); err != nil {
		s.logger.Warn("session snapshot failed", zap.Error(err))
	}
}

// SwitchMode moves the document between combined and separated editing.
func (s *Studio) SwitchMode(m Mode) error {
	if _, err := s.dispatch(session.SwitchMode{Mode: m}); err != nil {
		return err
	}
	s.logger.Debug("mode switched", zap.String("mode", string(m)))
	return nil
}

// Edit replaces the active representation. In separated mode tab selects
// the part; an empty tab means the selected one. In combined mode tab
// must be empty.
func (s *Studio) Edit(tab Tab, text string) error {
	_, err := s.dispatch(session.Edit{Tab: tab, Text: text})
	return err
}

// SelectTab chooses the part edited in separated mode.
func (s *Studio) SelectTab(t Tab) error {
	_, err := s.dispatch(session.SelectTab{Tab: t})
	return err
}

// UpdateDecoration replaces the header or footer.
func (s *Studio) UpdateDecoration(target Target, d Decoration) error {
	_, err := s.dispatch(session.UpdateDecoration{Target: target, Config: d})
	return err
}

// UpdateMargins commits new margins, clamped to the unit's bound.
func (s *Studio) UpdateMargins(m Margins) error {
	_, err := s.dispatch(session.UpdateMargins{Margins: m})
	return err
}

// ConfigureAssist sets the assistant endpoint and model. Blank values are kept.
func (s *Studio) ConfigureAssist(endpoint, model string) error {
	_, err := s.dispatch(session.ConfigureAssist{Endpoint: endpoint, Model: model})
	return err
}

// AcceptSuggestion applies the pending suggestion to the document.
func (s *Studio) AcceptSuggestion() error {
	_, err := s.dispatch(session.AcceptSuggestion{})
	return err
}

// RejectSuggestion discards the pending suggestion.
func (s *Studio) RejectSuggestion() error {
	_, err := s.dispatch(session.RejectSuggestion{})
	return err
}

// RequestExport paginates the current document and stores the PDF.
// Returns the artifact key. A failure leaves the session in the export
// error state with the failure message; the previous artifact stays
// downloadable.
func (s *Studio) RequestExport(ctx context.Context) (string, error) {
	eff, err := s.dispatch(session.ExportRequested{})
	if err != nil {
		return "", err
	}
	job, ok := eff.(session.ExportEffect)
	if !ok {
		return "", fmt.Errorf("unexpected effect %T for export", eff)
	}

	start := s.now()
	margins := job.Margins.Strings()
	s.logger.Info("export started",
		zap.Bool("header", job.Header != nil),
		zap.Bool("footer", job.Footer != nil),
		zap.Strings("margins", margins[:]))

	key, err := s.runExport(ctx, job)
	if err != nil {
		s.logger.Warn("export failed", zap.Error(err), zap.Duration("duration", s.now().Sub(start)))
		if _, ferr := s.dispatch(session.ExportFailed{Err: err.Error()}); ferr != nil {
			s.logger.Error("recording export failure", zap.Error(ferr))
		}
		return "", err
	}

	if _, err := s.dispatch(session.ExportSucceeded{Artifact: key}); err != nil {
		return "", err
	}
	s.logger.Info("export finished", zap.String("artifact", key), zap.Duration("duration", s.now().Sub(start)))
	return key, nil
}

func (s *Studio) runExport(ctx context.Context, job session.ExportEffect) (string, error) {
	now := s.now()
	pdf, err := s.paginator.Paginate(ctx, PrintJob{
		Document: job.Document,
		Header:   job.Header,
		Footer:   job.Footer,
		Margins:  job.Margins,
		Date:     s.dates.Format(now),
	})
	if err != nil {
		return "", err
	}

	if info, err := artifact.Inspect(pdf); err != nil {
		s.logger.Warn("exported PDF could not be inspected", zap.Error(err), zap.Int("bytes", len(pdf)))
	} else {
		s.logger.Info("exported PDF", zap.Int("pages", info.Pages), zap.Int("bytes", info.Bytes))
	}

	key := artifact.NewKey(now, s.seq.Add(1))
	if err := s.artifacts.Put(ctx, key, pdf); err != nil {
		return "", err
	}
	return key, nil
}

// DownloadLastArtifact returns the most recent successful export.
func (s *Studio) DownloadLastArtifact(ctx context.Context) (Download, error) {
	s.mu.Lock()
	key := s.state.Export.Artifact
	s.mu.Unlock()

	if key == "" {
		return Download{}, ErrNoArtifact
	}
	return s.Artifact(ctx, key)
}

// Artifact returns the export stored under key, as returned by
// RequestExport. Unlike DownloadLastArtifact it is not affected by exports
// that finish later.
func (s *Studio) Artifact(ctx context.Context, key string) (Download, error) {
	data, err := s.artifacts.Get(ctx, key)
	if err != nil {
		return Download{}, err
	}
	return Download{Name: DownloadName, ContentType: artifact.ContentType, Data: data}, nil
}

// SendAssistMessage asks the assistant about the current document and
// returns its reply. A reply carrying a different document leaves a
// pending suggestion. Failures are logged in the conversation as well as
// returned.
func (s *Studio) SendAssistMessage(ctx context.Context, message string) (string, error) {
	eff, err := s.dispatch(session.AssistRequested{Message: message})
	if err != nil {
		return "", err
	}
	req, ok := eff.(session.AssistEffect)
	if !ok {
		return "", fmt.Errorf("unexpected effect %T for assist", eff)
	}

	history := make([]assist.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, assist.Message{Role: string(m.Role), Content: m.Text})
	}

	start := s.now()
	s.logger.Info("assist started", zap.String("model", req.Model), zap.Int("history", len(history)))

	resp, err := s.assist.Assist(ctx, assist.Request{
		Message:         req.Message,
		CurrentDocument: req.CurrentDocument,
		History:         history,
		Endpoint:        req.Endpoint,
		Model:           req.Model,
	})
	if err != nil {
		s.logger.Warn("assist failed", zap.Error(err), zap.Duration("duration", s.now().Sub(start)))
		if _, ferr := s.dispatch(session.AssistFailed{Err: err.Error()}); ferr != nil {
			s.logger.Error("recording assist failure", zap.Error(ferr))
		}
		return "", err
	}

	if _, err := s.dispatch(session.AssistSucceeded{Text: resp.AssistantText, Suggested: resp.SuggestedDocument}); err != nil {
		return "", err
	}

	st := s.Snapshot()
	s.logger.Info("assist finished",
		zap.Bool("suggestion", st.HasPendingSuggestion()),
		zap.Duration("duration", s.now().Sub(start)))
	return st.Conversation[len(st.Conversation)-1].Text, nil
}
