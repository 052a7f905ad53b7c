package assist

import "errors"

// Sentinel errors for assist operations.
var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrInvalidEndpoint = errors.New("invalid assist endpoint")
	ErrAssistConnect   = errors.New("cannot connect to ollama")
	ErrModelNotFound   = errors.New("model not found")
	ErrAssistResponse  = errors.New("ollama API error")
)
