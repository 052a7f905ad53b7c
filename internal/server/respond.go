package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/artifact"
	"github.com/alnah/go-docstudio/internal/assist"
)

// Request body errors.
var (
	errBadRequest   = errors.New("malformed request body")
	errBodyTooLarge = errors.New("request body too large")
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}

// writeError answers with statusFor(err) and message as the error summary.
func (s *Server) writeError(w http.ResponseWriter, message string, err error) {
	s.writeJSON(w, statusFor(err), errorResponse{Error: message, Details: err.Error()})
}

// statusFor maps sentinel errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, docstudio.ErrEmptyMessage),
		errors.Is(err, docstudio.ErrModeMismatch),
		errors.Is(err, docstudio.ErrInvalidMode),
		errors.Is(err, docstudio.ErrInvalidTab),
		errors.Is(err, docstudio.ErrInvalidTarget),
		errors.Is(err, docstudio.ErrInvalidAlignment),
		errors.Is(err, docstudio.ErrInvalidUnit),
		errors.Is(err, docstudio.ErrInvalidMargin),
		errors.Is(err, docstudio.ErrEmptyDocument),
		errors.Is(err, assist.ErrEmptyMessage),
		errors.Is(err, assist.ErrInvalidEndpoint):
		return http.StatusBadRequest
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, docstudio.ErrNoArtifact),
		errors.Is(err, artifact.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, docstudio.ErrExportInFlight),
		errors.Is(err, docstudio.ErrAssistInFlight),
		errors.Is(err, docstudio.ErrNoSuggestion):
		return http.StatusConflict
	case errors.Is(err, assist.ErrAssistConnect):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
