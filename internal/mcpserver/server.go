// Package mcpserver exposes a docstudio session as Model Context Protocol
// tools, so an agent can edit, preview and export the document.
package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
)

// Name is the server name announced to MCP clients.
const Name = "docstudio"

// DefaultEndpoint is the path of the streamable HTTP transport.
const DefaultEndpoint = "/mcp"

// DefaultOutputDir is where the export tool writes PDFs unless
// WithOutputDir says otherwise.
const DefaultOutputDir = "."

// tools binds the MCP handlers to one studio.
type tools struct {
	studio    *docstudio.Studio
	logger    *zap.Logger
	outputDir string
}

// Option configures NewServer.
type Option func(*tools)

// WithOutputDir confines the export tool's output paths to dir.
func WithOutputDir(dir string) Option {
	return func(t *tools) {
		if dir != "" {
			t.outputDir = dir
		}
	}
}

// NewServer registers the studio tools on a new MCP server.
func NewServer(studio *docstudio.Studio, version string, logger *zap.Logger, opts ...Option) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &tools{studio: studio, logger: logger, outputDir: DefaultOutputDir}
	for _, opt := range opts {
		opt(t)
	}

	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Return the editing session: mode, document, decorations, margins, conversation and request statuses"),
	), mcp.NewTypedToolHandler(t.getState))

	s.AddTool(mcp.NewTool("switch_mode",
		mcp.WithDescription("Switch between editing one combined document and separate markup, style and script"),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Enum(string(docstudio.ModeCombined), string(docstudio.ModeSeparated)),
			mcp.Description("Target edit mode"),
		),
	), mcp.NewTypedToolHandler(t.switchMode))

	s.AddTool(mcp.NewTool("edit",
		mcp.WithDescription("Replace the text of the active representation of the document"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("New content: the whole HTML document in combined mode, or one fragment in separated mode"),
		),
		mcp.WithString("tab",
			mcp.Enum(string(docstudio.TabMarkup), string(docstudio.TabStyle), string(docstudio.TabScript)),
			mcp.Description("Fragment to replace in separated mode; omit for the selected tab or in combined mode"),
		),
	), mcp.NewTypedToolHandler(t.edit))

	s.AddTool(mcp.NewTool("select_tab",
		mcp.WithDescription("Select the fragment edited in separated mode"),
		mcp.WithString("tab",
			mcp.Required(),
			mcp.Enum(string(docstudio.TabMarkup), string(docstudio.TabStyle), string(docstudio.TabScript)),
		),
	), mcp.NewTypedToolHandler(t.selectTab))

	s.AddTool(mcp.NewTool("update_decoration",
		mcp.WithDescription("Replace the page header or footer printed on every exported page"),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Enum(string(docstudio.TargetHeader), string(docstudio.TargetFooter)),
		),
		mcp.WithString("text", mcp.Description("Decoration text; empty with both flags off removes the decoration")),
		mcp.WithBoolean("richContent", mcp.Description("Treat text as HTML instead of plain text")),
		mcp.WithBoolean("showPageNumber", mcp.Description("Print the page number")),
		mcp.WithBoolean("showDate", mcp.Description("Print the export date")),
		mcp.WithString("alignment",
			mcp.Enum("left", "center", "right"),
			mcp.Description("Alignment of plain-text decorations (default center)"),
		),
	), mcp.NewTypedToolHandler(t.updateDecoration))

	s.AddTool(mcp.NewTool("update_margins",
		mcp.WithDescription("Set the page margins; values are clamped to 50mm, 5cm or 5in"),
		mcp.WithNumber("top", mcp.Required()),
		mcp.WithNumber("right", mcp.Required()),
		mcp.WithNumber("bottom", mcp.Required()),
		mcp.WithNumber("left", mcp.Required()),
		mcp.WithString("unit",
			mcp.Required(),
			mcp.Enum(docstudio.UnitMillimetre, docstudio.UnitCentimetre, docstudio.UnitInch),
		),
	), mcp.NewTypedToolHandler(t.updateMargins))

	s.AddTool(mcp.NewTool("configure_assist",
		mcp.WithDescription("Point the assistant at an Ollama endpoint and model; blank values are kept"),
		mcp.WithString("endpoint", mcp.Description("Ollama base URL, e.g. http://localhost:11434")),
		mcp.WithString("model", mcp.Description("Installed model name, e.g. llama3.2:3b")),
	), mcp.NewTypedToolHandler(t.configureAssist))

	s.AddTool(mcp.NewTool("export",
		mcp.WithDescription("Export the document as a paginated PDF"),
		mcp.WithString("output", mcp.Description("Optional relative file path, inside the server output directory, to write the PDF to")),
	), mcp.NewTypedToolHandler(t.export))

	s.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Ask the assistant to change the document; a changed document becomes a pending suggestion"),
		mcp.WithString("message", mcp.Required(), mcp.Description("Request for the assistant")),
	), mcp.NewTypedToolHandler(t.sendMessage))

	s.AddTool(mcp.NewTool("accept_suggestion",
		mcp.WithDescription("Apply the pending assistant suggestion to the document"),
	), mcp.NewTypedToolHandler(t.acceptSuggestion))

	s.AddTool(mcp.NewTool("reject_suggestion",
		mcp.WithDescription("Discard the pending assistant suggestion"),
	), mcp.NewTypedToolHandler(t.rejectSuggestion))

	s.AddTool(mcp.NewTool("preview",
		mcp.WithDescription("Return the composed HTML document as it would be rendered"),
	), mcp.NewTypedToolHandler(t.preview))

	return s
}

// NewHTTPServer wraps s in the streamable HTTP transport mounted at endpoint.
func NewHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(endpoint))
}

// ServeStdio serves s over stdin and stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// jsonResult marshals v as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failure reports err to the client as a tool error.
func failure(action string, err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err)), nil
}
