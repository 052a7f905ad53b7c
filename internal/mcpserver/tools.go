package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	docstudio "github.com/alnah/go-docstudio"
	"github.com/alnah/go-docstudio/internal/fileutil"
)

// ErrOutputPath rejects export paths outside the output directory.
var ErrOutputPath = errors.New("output path must be relative and stay inside the output directory")

// Permission bits for PDFs written by the export tool.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// NoArgs is the argument set of tools that take none.
type NoArgs struct{}

// ModeArgs selects the edit mode.
type ModeArgs struct {
	Mode string `json:"mode"`
}

// EditArgs replaces the active representation.
type EditArgs struct {
	Text string `json:"text"`
	Tab  string `json:"tab"`
}

// TabArgs selects a separated-mode fragment.
type TabArgs struct {
	Tab string `json:"tab"`
}

// DecorationArgs replaces the header or footer.
type DecorationArgs struct {
	Target         string `json:"target"`
	Text           string `json:"text"`
	RichContent    bool   `json:"richContent"`
	ShowPageNumber bool   `json:"showPageNumber"`
	ShowDate       bool   `json:"showDate"`
	Alignment      string `json:"alignment"`
}

// MarginsArgs sets the page margins.
type MarginsArgs struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Unit   string  `json:"unit"`
}

// AssistArgs configures the assistant target.
type AssistArgs struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
}

// ExportArgs optionally names a file to write the PDF to.
type ExportArgs struct {
	Output string `json:"output"`
}

// MessageArgs is one assistant request.
type MessageArgs struct {
	Message string `json:"message"`
}

// ExportResponse describes a finished export.
type ExportResponse struct {
	Artifact string `json:"artifact"`
	Bytes    int    `json:"bytes"`
	Output   string `json:"output,omitempty"`
}

// MessageResponse carries the assistant reply.
type MessageResponse struct {
	Reply             string `json:"reply"`
	PendingSuggestion bool   `json:"pendingSuggestion"`
}

func (t *tools) getState(_ context.Context, _ mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, error) {
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) switchMode(_ context.Context, _ mcp.CallToolRequest, args ModeArgs) (*mcp.CallToolResult, error) {
	if args.Mode == "" {
		return mcp.NewToolResultError("mode is required"), nil
	}
	if err := t.studio.SwitchMode(docstudio.Mode(args.Mode)); err != nil {
		return failure("failed to switch mode", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) edit(_ context.Context, _ mcp.CallToolRequest, args EditArgs) (*mcp.CallToolResult, error) {
	if err := t.studio.Edit(docstudio.Tab(args.Tab), args.Text); err != nil {
		return failure("failed to edit document", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) selectTab(_ context.Context, _ mcp.CallToolRequest, args TabArgs) (*mcp.CallToolResult, error) {
	if err := t.studio.SelectTab(docstudio.Tab(args.Tab)); err != nil {
		return failure("failed to select tab", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) updateDecoration(_ context.Context, _ mcp.CallToolRequest, args DecorationArgs) (*mcp.CallToolResult, error) {
	err := t.studio.UpdateDecoration(docstudio.Target(args.Target), docstudio.Decoration{
		Text:           args.Text,
		IsRichContent:  args.RichContent,
		ShowPageNumber: args.ShowPageNumber,
		ShowDate:       args.ShowDate,
		Alignment:      args.Alignment,
	})
	if err != nil {
		return failure("failed to update decoration", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) updateMargins(_ context.Context, _ mcp.CallToolRequest, args MarginsArgs) (*mcp.CallToolResult, error) {
	err := t.studio.UpdateMargins(docstudio.Margins{
		Top:    args.Top,
		Right:  args.Right,
		Bottom: args.Bottom,
		Left:   args.Left,
		Unit:   args.Unit,
	})
	if err != nil {
		return failure("failed to update margins", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) configureAssist(_ context.Context, _ mcp.CallToolRequest, args AssistArgs) (*mcp.CallToolResult, error) {
	if err := t.studio.ConfigureAssist(args.Endpoint, args.Model); err != nil {
		return failure("failed to configure assistant", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) export(ctx context.Context, _ mcp.CallToolRequest, args ExportArgs) (*mcp.CallToolResult, error) {
	key, err := t.studio.RequestExport(ctx)
	if err != nil {
		return failure("failed to export PDF", err)
	}
	dl, err := t.studio.Artifact(ctx, key)
	if err != nil {
		return failure("failed to read exported PDF", err)
	}

	resp := ExportResponse{Artifact: key, Bytes: len(dl.Data)}
	if args.Output != "" {
		path, err := t.outputPath(args.Output)
		if err != nil {
			return failure("failed to write PDF", err)
		}
		if err := writePDF(path, dl.Data); err != nil {
			return failure("failed to write PDF", err)
		}
		resp.Output = path
		t.logger.Info("PDF written", zap.String("output", path), zap.Int("bytes", len(dl.Data)))
	}
	return jsonResult(resp)
}

// outputPath resolves a client-supplied path inside the output directory.
// Absolute paths and paths climbing out with ".." are refused.
func (t *tools) outputPath(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrOutputPath, name)
	}
	return filepath.Join(t.outputDir, name), nil
}

func (t *tools) sendMessage(ctx context.Context, _ mcp.CallToolRequest, args MessageArgs) (*mcp.CallToolResult, error) {
	if args.Message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	reply, err := t.studio.SendAssistMessage(ctx, args.Message)
	if err != nil {
		return failure("assistant request failed", err)
	}
	return jsonResult(MessageResponse{
		Reply:             reply,
		PendingSuggestion: t.studio.Snapshot().HasPendingSuggestion(),
	})
}

func (t *tools) acceptSuggestion(_ context.Context, _ mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, error) {
	if err := t.studio.AcceptSuggestion(); err != nil {
		return failure("failed to accept suggestion", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) rejectSuggestion(_ context.Context, _ mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, error) {
	if err := t.studio.RejectSuggestion(); err != nil {
		return failure("failed to reject suggestion", err)
	}
	return jsonResult(t.studio.Snapshot())
}

func (t *tools) preview(_ context.Context, _ mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(t.studio.PreviewDocument()), nil
}

// writePDF writes data to path, creating its directory.
func writePDF(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return fileutil.WriteFileAtomic(path, data, filePermissions)
}
