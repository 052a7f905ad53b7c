package session

import (
	"slices"

	"github.com/alnah/go-docstudio/internal/pipeline"
)

// Mode selects which representation of the document is edited.
type Mode string

const (
	ModeCombined  Mode = "combined"
	ModeSeparated Mode = "separated"
)

// Tab is the active sub-tab in separated mode.
type Tab string

const (
	TabMarkup Tab = "markup"
	TabStyle  Tab = "style"
	TabScript Tab = "script"
)

// ExportStatus tracks the export request lifecycle.
type ExportStatus string

const (
	ExportIdle    ExportStatus = "idle"
	ExportRunning ExportStatus = "running"
	ExportError   ExportStatus = "error"
	ExportReady   ExportStatus = "ready"
)

// AssistStatus tracks the assist request lifecycle.
type AssistStatus string

const (
	AssistIdle    AssistStatus = "idle"
	AssistWaiting AssistStatus = "waiting"
	AssistError   AssistStatus = "error"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Target names a page decoration.
type Target string

const (
	TargetHeader Target = "header"
	TargetFooter Target = "footer"
)

// Defaults for a new session.
const (
	DefaultAssistEndpoint = "http://localhost:11434"
	DefaultAssistModel    = "llama3.2:3b"
	DefaultMargin         = 20.0

	// DefaultAssistantReply is logged when the model returns only a document.
	DefaultAssistantReply = "I've generated a code suggestion for you."

	// errorPrefix starts the assistant entry logged for a failed request.
	errorPrefix = "Error: "
)

// Message is one conversation entry.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Document holds both representations of the authored content.
type Document struct {
	Combined  string             `json:"combined"`
	Separated pipeline.Fragments `json:"separated"`
}

// Suggestion is a candidate combined document proposed by the assistant.
type Suggestion struct {
	Document string `json:"document"`
	Visible  bool   `json:"visible"`
}

// ExportState is the export half of the session.
type ExportState struct {
	Status   ExportStatus `json:"status"`
	Artifact string       `json:"artifact,omitempty"` // artifact store key of the last success
	Error    string       `json:"error,omitempty"`
}

// AssistState is the assist half of the session.
type AssistState struct {
	Status   AssistStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
	Endpoint string       `json:"endpoint"`
	Model    string       `json:"model"`
}

// State is the complete session. Values are treated as immutable by the
// reducer: every reduction returns a new State sharing no mutable slices
// with its input.
type State struct {
	Mode         Mode                    `json:"mode"`
	Tab          Tab                     `json:"tab"`
	Document     Document                `json:"document"`
	Header       pipeline.DecorationData `json:"header"`
	Footer       pipeline.DecorationData `json:"footer"`
	Margins      pipeline.MarginData     `json:"margins"`
	Suggestion   *Suggestion             `json:"suggestion,omitempty"`
	Conversation []Message               `json:"conversation"`
	Export       ExportState             `json:"export"`
	Assist       AssistState             `json:"assist"`
}

// NewState returns a session in combined mode holding combined, with the
// separated representation derived through c.
func NewState(c pipeline.Composer, combined string) State {
	return State{
		Mode: ModeCombined,
		Tab:  TabMarkup,
		Document: Document{
			Combined:  combined,
			Separated: c.Extract(combined),
		},
		Header: pipeline.DecorationData{Alignment: pipeline.AlignCenter},
		Footer: pipeline.DecorationData{ShowPageNumber: true, Alignment: pipeline.AlignCenter},
		Margins: pipeline.MarginData{
			Top:    DefaultMargin,
			Right:  DefaultMargin,
			Bottom: DefaultMargin,
			Left:   DefaultMargin,
			Unit:   pipeline.UnitMillimetre,
		},
		Conversation: []Message{},
		Export:       ExportState{Status: ExportIdle},
		Assist: AssistState{
			Status:   AssistIdle,
			Endpoint: DefaultAssistEndpoint,
			Model:    DefaultAssistModel,
		},
	}
}

// HasPendingSuggestion reports whether a suggestion awaits a decision.
func (s State) HasPendingSuggestion() bool {
	return s.Suggestion != nil
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Conversation = slices.Clone(s.Conversation)
	if out.Conversation == nil {
		out.Conversation = []Message{}
	}
	if s.Suggestion != nil {
		sug := *s.Suggestion
		out.Suggestion = &sug
	}
	return out
}

// Settle returns s with in-flight statuses reset. Requests do not survive a
// restart, so a restored snapshot must not report them as pending.
func (s State) Settle() State {
	out := s.Clone()
	if out.Export.Status == ExportRunning || out.Export.Status == "" {
		out.Export.Status = ExportIdle
	}
	if out.Assist.Status == AssistWaiting || out.Assist.Status == "" {
		out.Assist.Status = AssistIdle
	}
	if out.Mode == "" {
		out.Mode = ModeCombined
	}
	if out.Tab == "" {
		out.Tab = TabMarkup
	}
	if out.Assist.Endpoint == "" {
		out.Assist.Endpoint = DefaultAssistEndpoint
	}
	if out.Assist.Model == "" {
		out.Assist.Model = DefaultAssistModel
	}
	return out
}

// IsValidMode reports whether m names a known mode.
func IsValidMode(m Mode) bool {
	return m == ModeCombined || m == ModeSeparated
}

// IsValidTab reports whether t names a known tab.
func IsValidTab(t Tab) bool {
	return t == TabMarkup || t == TabStyle || t == TabScript
}
