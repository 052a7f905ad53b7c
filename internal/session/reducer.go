package session

import (
	"fmt"
	"strings"

	"github.com/alnah/go-docstudio/internal/pipeline"
)

// Reducer applies events to a State.
type Reducer struct {
	Composer pipeline.Composer
}

// NewReducer returns a Reducer using c, or a PatternComposer if c is nil.
func NewReducer(c pipeline.Composer) Reducer {
	if c == nil {
		c = &pipeline.PatternComposer{}
	}
	return Reducer{Composer: c}
}

// Reduce returns the state after e and the effect it requests, if any.
// On error the returned state equals s and the effect is nil.
func (r Reducer) Reduce(s State, e Event) (State, Effect, error) {
	next := s.Clone()

	var (
		eff Effect
		err error
	)
	switch ev := e.(type) {
	case SwitchMode:
		err = r.switchMode(&next, ev)
	case Edit:
		err = r.edit(&next, ev)
	case SelectTab:
		err = selectTab(&next, ev)
	case ExportRequested:
		eff, err = r.requestExport(&next)
	case ExportSucceeded:
		err = finishExport(&next, ExportReady, ev.Artifact, "")
	case ExportFailed:
		err = finishExport(&next, ExportError, "", ev.Err)
	case AssistRequested:
		eff, err = r.requestAssist(&next, ev)
	case AssistSucceeded:
		err = r.assistSucceeded(&next, ev)
	case AssistFailed:
		err = assistFailed(&next, ev)
	case AcceptSuggestion:
		err = r.acceptSuggestion(&next)
	case RejectSuggestion:
		err = rejectSuggestion(&next)
	case UpdateDecoration:
		err = updateDecoration(&next, ev)
	case UpdateMargins:
		err = updateMargins(&next, ev)
	case ConfigureAssist:
		configureAssist(&next, ev)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}

	if err != nil {
		return s, nil, err
	}
	return next, eff, nil
}

// Current returns the composed document for s, whatever its mode.
func (r Reducer) Current(s State) string {
	if s.Mode == ModeSeparated {
		return r.Composer.Compose(s.Document.Separated)
	}
	return s.Document.Combined
}

func (r Reducer) switchMode(s *State, ev SwitchMode) error {
	if !IsValidMode(ev.Mode) {
		return fmt.Errorf("%w: %q", ErrInvalidMode, ev.Mode)
	}
	if ev.Mode == s.Mode {
		return nil
	}

	switch ev.Mode {
	case ModeSeparated:
		s.Document.Separated = r.Composer.Extract(s.Document.Combined)
		s.Tab = TabMarkup
	case ModeCombined:
		s.Document.Combined = r.Composer.Compose(s.Document.Separated)
	}
	s.Mode = ev.Mode
	return nil
}

func (r Reducer) edit(s *State, ev Edit) error {
	if s.Mode == ModeCombined {
		if ev.Tab != "" {
			return fmt.Errorf("%w: tab %q in combined mode", ErrModeMismatch, ev.Tab)
		}
		s.Document.Combined = ev.Text
		return nil
	}

	tab := ev.Tab
	if tab == "" {
		tab = s.Tab
	}
	switch tab {
	case TabMarkup:
		s.Document.Separated.Markup = ev.Text
	case TabStyle:
		s.Document.Separated.Style = ev.Text
	case TabScript:
		s.Document.Separated.Script = ev.Text
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}
	return nil
}

func selectTab(s *State, ev SelectTab) error {
	if !IsValidTab(ev.Tab) {
		return fmt.Errorf("%w: %q", ErrInvalidTab, ev.Tab)
	}
	s.Tab = ev.Tab
	return nil
}

func (r Reducer) requestExport(s *State) (Effect, error) {
	if s.Export.Status == ExportRunning {
		return nil, ErrExportInFlight
	}

	eff := ExportEffect{
		Document: r.Current(*s),
		Margins:  pipeline.NormalizeMargins(s.Margins),
	}
	if s.Header.IsPresent() {
		h := s.Header
		eff.Header = &h
	}
	if s.Footer.IsPresent() {
		f := s.Footer
		eff.Footer = &f
	}

	s.Export.Status = ExportRunning
	s.Export.Error = ""
	return eff, nil
}

func finishExport(s *State, status ExportStatus, artifact, msg string) error {
	if s.Export.Status != ExportRunning {
		return fmt.Errorf("%w: export is %s", ErrNotInFlight, s.Export.Status)
	}
	s.Export.Status = status
	s.Export.Error = msg
	if status == ExportReady {
		s.Export.Artifact = artifact
	}
	return nil
}

func (r Reducer) requestAssist(s *State, ev AssistRequested) (Effect, error) {
	msg := strings.TrimSpace(ev.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	if s.Assist.Status == AssistWaiting {
		return nil, ErrAssistInFlight
	}

	// History is captured before the new entry is logged.
	eff := AssistEffect{
		Message:         msg,
		CurrentDocument: r.Current(*s),
		History:         append([]Message(nil), s.Conversation...),
		Endpoint:        s.Assist.Endpoint,
		Model:           s.Assist.Model,
	}

	s.Suggestion = nil
	s.Conversation = append(s.Conversation, Message{Role: RoleUser, Text: msg})
	s.Assist.Status = AssistWaiting
	s.Assist.Error = ""
	return eff, nil
}

func (r Reducer) assistSucceeded(s *State, ev AssistSucceeded) error {
	if s.Assist.Status != AssistWaiting {
		return fmt.Errorf("%w: assist is %s", ErrNotInFlight, s.Assist.Status)
	}

	text := ev.Text
	if strings.TrimSpace(text) == "" {
		text = DefaultAssistantReply
	}
	s.Conversation = append(s.Conversation, Message{Role: RoleAssistant, Text: text})

	candidate := strings.TrimSpace(ev.Suggested)
	if candidate != "" && candidate != strings.TrimSpace(r.Current(*s)) {
		s.Suggestion = &Suggestion{Document: ev.Suggested, Visible: true}
	}

	s.Assist.Status = AssistIdle
	s.Assist.Error = ""
	return nil
}

func assistFailed(s *State, ev AssistFailed) error {
	if s.Assist.Status != AssistWaiting {
		return fmt.Errorf("%w: assist is %s", ErrNotInFlight, s.Assist.Status)
	}
	s.Assist.Status = AssistError
	s.Assist.Error = ev.Err
	s.Conversation = append(s.Conversation, Message{Role: RoleAssistant, Text: errorPrefix + ev.Err})
	return nil
}

func (r Reducer) acceptSuggestion(s *State) error {
	if s.Suggestion == nil {
		return ErrNoSuggestion
	}

	candidate := s.Suggestion.Document
	if s.Mode == ModeSeparated {
		s.Document.Separated = r.Composer.Extract(candidate)
	} else {
		s.Document.Combined = candidate
	}
	s.Suggestion = nil
	return nil
}

func rejectSuggestion(s *State) error {
	if s.Suggestion == nil {
		return ErrNoSuggestion
	}
	s.Suggestion = nil
	return nil
}

func updateDecoration(s *State, ev UpdateDecoration) error {
	cfg := ev.Config
	switch strings.ToLower(cfg.Alignment) {
	case "":
		cfg.Alignment = pipeline.AlignCenter
	case pipeline.AlignLeft, pipeline.AlignCenter, pipeline.AlignRight:
		cfg.Alignment = strings.ToLower(cfg.Alignment)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAlignment, cfg.Alignment)
	}

	switch ev.Target {
	case TargetHeader:
		s.Header = cfg
	case TargetFooter:
		s.Footer = cfg
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTarget, ev.Target)
	}
	return nil
}

func updateMargins(s *State, ev UpdateMargins) error {
	if !pipeline.IsKnownUnit(ev.Margins.Unit) {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, ev.Margins.Unit)
	}
	s.Margins = pipeline.ClampMargins(ev.Margins)
	return nil
}

func configureAssist(s *State, ev ConfigureAssist) {
	if ep := strings.TrimSpace(ev.Endpoint); ep != "" {
		s.Assist.Endpoint = ep
	}
	if m := strings.TrimSpace(ev.Model); m != "" {
		s.Assist.Model = m
	}
}
