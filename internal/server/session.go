package server

import (
	"net/http"
	"strconv"

	docstudio "github.com/alnah/go-docstudio"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePreview serves the document as the preview pane renders it.
func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.studio.PreviewDocument()))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

// respondState answers a session mutation with the resulting state.
func (s *Server) respondState(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeError(w, "Session update rejected", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.studio.Snapshot())
}

type modeRequest struct {
	Mode docstudio.Mode `json:"mode"`
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	s.respondState(w, s.studio.SwitchMode(req.Mode))
}

type tabRequest struct {
	Tab docstudio.Tab `json:"tab"`
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	s.respondState(w, s.studio.SelectTab(req.Tab))
}

type editRequest struct {
	Tab  docstudio.Tab `json:"tab,omitempty"`
	Text string        `json:"text"`
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	s.respondState(w, s.studio.Edit(req.Tab, req.Text))
}

func (s *Server) handleDecoration(w http.ResponseWriter, r *http.Request) {
	var d docstudio.Decoration
	if err := decodeJSON(w, r, &d); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	target := docstudio.Target(r.PathValue("target"))
	s.respondState(w, s.studio.UpdateDecoration(target, d))
}

func (s *Server) handleMargins(w http.ResponseWriter, r *http.Request) {
	var m docstudio.Margins
	if err := decodeJSON(w, r, &m); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	s.respondState(w, s.studio.UpdateMargins(m))
}

type configureAssistRequest struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
}

func (s *Server) handleConfigureAssist(w http.ResponseWriter, r *http.Request) {
	var req configureAssistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	s.respondState(w, s.studio.ConfigureAssist(req.Endpoint, req.Model))
}

type exportResponse struct {
	Artifact string          `json:"artifact"`
	State    docstudio.State `json:"state"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	key, err := s.studio.RequestExport(r.Context())
	if err != nil {
		s.writeError(w, "Failed to generate PDF", err)
		return
	}
	s.writeJSON(w, http.StatusOK, exportResponse{Artifact: key, State: s.studio.Snapshot()})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	dl, err := s.studio.DownloadLastArtifact(r.Context())
	if err != nil {
		s.writeError(w, "No document to download", err)
		return
	}
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+dl.Name)
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Reply string          `json:"reply"`
	State docstudio.State `json:"state"`
}

// handleMessage sends a conversation message. A failed request still
// answers with the error, and the session records it in the conversation.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, "Invalid request", err)
		return
	}
	reply, err := s.studio.SendAssistMessage(r.Context(), req.Message)
	if err != nil {
		s.writeError(w, "Failed to get AI assistance", err)
		return
	}
	s.writeJSON(w, http.StatusOK, messageResponse{Reply: reply, State: s.studio.Snapshot()})
}

func (s *Server) handleAccept(w http.ResponseWriter, _ *http.Request) {
	s.respondState(w, s.studio.AcceptSuggestion())
}

func (s *Server) handleReject(w http.ResponseWriter, _ *http.Request) {
	s.respondState(w, s.studio.RejectSuggestion())
}
