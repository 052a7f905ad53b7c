package server

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assist"
)

// decorationPayload is a header or footer as sent by the editing surface.
type decorationPayload struct {
	Text           string `json:"text"`
	IsHTML         bool   `json:"isHtml"`
	ShowPageNumber bool   `json:"showPageNumber"`
	ShowDate       bool   `json:"showDate"`
	Alignment      string `json:"alignment"`
}

func (d *decorationPayload) toDecoration() *docstudio.Decoration {
	if d == nil {
		return nil
	}
	return &docstudio.Decoration{
		Text:           d.Text,
		IsRichContent:  d.IsHTML,
		ShowPageNumber: d.ShowPageNumber,
		ShowDate:       d.ShowDate,
		Alignment:      strings.ToLower(d.Alignment),
	}
}

type generatePDFRequest struct {
	HTML    string             `json:"html"`
	Header  *decorationPayload `json:"header,omitempty"`
	Footer  *decorationPayload `json:"footer,omitempty"`
	Margins *docstudio.Margins `json:"margins,omitempty"`
}

// defaultRouteMargins apply when a paginate request carries none.
var defaultRouteMargins = docstudio.Margins{
	Top: 20, Right: 20, Bottom: 20, Left: 20, Unit: docstudio.UnitMillimetre,
}

// handleGeneratePDF paginates a document without touching the session.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req generatePDFRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "HTML content is required"})
		return
	}

	margins := defaultRouteMargins
	if req.Margins != nil {
		margins = *req.Margins
	}
	margins, err := docstudio.NormalizeMargins(margins)
	if err != nil {
		s.writeError(w, "Invalid margins", err)
		return
	}

	job := docstudio.PrintJob{
		Document: req.HTML,
		Header:   req.Header.toDecoration(),
		Footer:   req.Footer.toDecoration(),
		Margins:  margins,
		Date:     s.dates.Format(s.now()),
	}

	pdf, err := s.paginator.Paginate(r.Context(), job)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		s.logger.Warn("generate-pdf failed", zap.Error(err))
		s.writeJSON(w, status, errorResponse{Error: "Failed to generate PDF", Details: err.Error()})
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", "inline; filename="+docstudio.DownloadName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

type aiAssistRequest struct {
	Message             string           `json:"message"`
	CurrentCode         string           `json:"currentCode"`
	ConversationHistory []assist.Message `json:"conversationHistory"`
	Endpoint            string           `json:"endpoint"`
	Model               string           `json:"model"`
}

type aiAssistResponse struct {
	SuggestedCode string `json:"suggestedCode"`
	Message       string `json:"message"`
}

// handleAIAssist forwards one stateless request to the assistant.
func (s *Server) handleAIAssist(w http.ResponseWriter, r *http.Request) {
	var req aiAssistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Message is required"})
		return
	}

	resp, err := s.assist.Assist(r.Context(), assist.Request{
		Message:         req.Message,
		CurrentDocument: req.CurrentCode,
		History:         req.ConversationHistory,
		Endpoint:        req.Endpoint,
		Model:           req.Model,
	})
	if err != nil {
		s.logger.Warn("ai-assist failed", zap.Error(err))
		switch {
		case errors.Is(err, assist.ErrAssistConnect):
			s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error:   "Cannot connect to Ollama. Make sure Ollama is running and the endpoint is correct.",
				Details: err.Error(),
			})
		case statusFor(err) == http.StatusBadRequest:
			s.writeError(w, "Invalid request", err)
		default:
			s.writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "Failed to get AI assistance",
				Details: err.Error(),
			})
		}
		return
	}

	s.writeJSON(w, http.StatusOK, aiAssistResponse{
		SuggestedCode: resp.SuggestedDocument,
		Message:       resp.AssistantText,
	})
}
