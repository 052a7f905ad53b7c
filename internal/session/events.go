package session

import "github.com/alnah/go-docstudio/internal/pipeline"

// Event is an input to Reducer.Reduce.
type Event interface {
	event()
}

// SwitchMode changes the edit target, converting the document.
type SwitchMode struct{ Mode Mode }

// Edit replaces the active representation. In separated mode Tab selects the
// fragment; an empty Tab means the selected one. In combined mode Tab must be
// empty.
type Edit struct {
	Tab  Tab
	Text string
}

// SelectTab changes the active separated sub-tab.
type SelectTab struct{ Tab Tab }

// ExportRequested starts an export.
type ExportRequested struct{}

// ExportSucceeded completes an export with the stored artifact key.
type ExportSucceeded struct{ Artifact string }

// ExportFailed completes an export with an error message.
type ExportFailed struct{ Err string }

// AssistRequested sends a message to the assistant.
type AssistRequested struct{ Message string }

// AssistSucceeded completes an assist request.
type AssistSucceeded struct {
	Text      string
	Suggested string
}

// AssistFailed completes an assist request with an error message.
type AssistFailed struct{ Err string }

// AcceptSuggestion applies the pending suggestion.
type AcceptSuggestion struct{}

// RejectSuggestion discards the pending suggestion.
type RejectSuggestion struct{}

// UpdateDecoration replaces the header or footer configuration.
type UpdateDecoration struct {
	Target Target
	Config pipeline.DecorationData
}

// UpdateMargins commits confirmed margins.
type UpdateMargins struct{ Margins pipeline.MarginData }

// ConfigureAssist changes the model service settings. Empty fields keep the
// current value.
type ConfigureAssist struct {
	Endpoint string
	Model    string
}

func (SwitchMode) event()       {}
func (Edit) event()             {}
func (SelectTab) event()        {}
func (ExportRequested) event()  {}
func (ExportSucceeded) event()  {}
func (ExportFailed) event()     {}
func (AssistRequested) event()  {}
func (AssistSucceeded) event()  {}
func (AssistFailed) event()     {}
func (AcceptSuggestion) event() {}
func (RejectSuggestion) event() {}
func (UpdateDecoration) event() {}
func (UpdateMargins) event()    {}
func (ConfigureAssist) event()  {}

// Effect is work requested by a reduction. The caller runs it and reports
// the outcome with the matching result event.
type Effect interface {
	effect()
}

// ExportEffect asks for the document to be paginated. Header and Footer are
// nil when absent. Margins are in millimetres.
type ExportEffect struct {
	Document string
	Header   *pipeline.DecorationData
	Footer   *pipeline.DecorationData
	Margins  pipeline.MarginData
}

// AssistEffect asks the assistant for a reply. History excludes Message.
type AssistEffect struct {
	Message         string
	CurrentDocument string
	History         []Message
	Endpoint        string
	Model           string
}

func (ExportEffect) effect() {}
func (AssistEffect) effect() {}
