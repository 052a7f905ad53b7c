package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alnah/go-docstudio/internal/fileutil"
	"github.com/alnah/go-docstudio/internal/hints"
)

// Defaults matching a stock local Ollama install.
const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "llama3.2:3b"
	DefaultTimeout  = 3 * time.Minute
)

// Response size limits.
const (
	maxResponseBytes = 16 << 20
	maxErrorBytes    = 4 << 10
)

// Message is one prior conversation entry. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one assist call. Empty Endpoint and Model select the defaults.
type Request struct {
	Message         string
	CurrentDocument string
	History         []Message
	Endpoint        string
	Model           string
}

// Response is the outcome of a successful call.
type Response struct {
	// AssistantText is the model reply as shown in the conversation.
	AssistantText string
	// SuggestedDocument is the candidate document extracted from the reply.
	SuggestedDocument string
}

// Client asks a language model for document edits.
type Client interface {
	Assist(ctx context.Context, req Request) (Response, error)
}

// OllamaClient implements Client against Ollama's /api/chat endpoint.
// It never retries.
type OllamaClient struct {
	httpClient *http.Client
}

// Compile-time interface check.
var _ Client = (*OllamaClient)(nil)

// Option configures an OllamaClient.
type Option func(*OllamaClient)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OllamaClient) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout sets the transport timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *OllamaClient) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewOllamaClient returns a client with DefaultTimeout unless overridden.
func NewOllamaClient(opts ...Option) *OllamaClient {
	c := &OllamaClient{httpClient: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message *chatMessage `json:"message"`
	// Response is set by the legacy /api/generate shape some proxies return.
	Response string `json:"response"`
}

// Assist sends req to Ollama and returns the reply.
func (c *OllamaClient) Assist(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Response{}, ErrEmptyMessage
	}

	endpoint := strings.TrimRight(strings.TrimSpace(req.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if err := validateEndpoint(endpoint); err != nil {
		return Response{}, err
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = DefaultModel
	}
	req.Model = model

	payload, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: buildMessages(req),
		Stream:   false,
	})
	if err != nil {
		return Response{}, fmt.Errorf("%w: encoding request: %v", ErrAssistResponse, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{}, fmt.Errorf("assist request: %w", ctxErr)
		}
		return Response{}, fmt.Errorf("%w: %v%s", ErrAssistConnect, err, hints.ForAssistConnect(endpoint))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return Response{}, statusError(resp.StatusCode, strings.TrimSpace(string(body)), model)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, fmt.Errorf("%w: reading response: %v", ErrAssistResponse, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{}, fmt.Errorf("%w: decoding response: %v", ErrAssistResponse, err)
	}

	content := parsed.Response
	if parsed.Message != nil && parsed.Message.Content != "" {
		content = parsed.Message.Content
	}

	return Response{
		AssistantText:     content,
		SuggestedDocument: ExtractDocument(content),
	}, nil
}

// statusError maps a failed HTTP status to a sentinel.
func statusError(status int, body, model string) error {
	detail := fmt.Sprintf("%d - %s", status, body)
	if status == http.StatusNotFound && strings.Contains(body, "not found") {
		return fmt.Errorf("%w: %s%s", ErrModelNotFound, detail, hints.ForModelNotFound(model))
	}
	return fmt.Errorf("%w: %s", ErrAssistResponse, detail)
}

// validateEndpoint accepts absolute http(s) URLs with a host.
func validateEndpoint(endpoint string) error {
	if !fileutil.IsURL(endpoint) {
		return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidEndpoint, endpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, endpoint)
	}
	return nil
}
