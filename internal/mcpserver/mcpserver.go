// Package mcpserver exposes the notesum backend as MCP tools over stdio so
// agents can upload, summarize and email transcripts.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"
)

// Backend is the subset of the API client the tools call.
type Backend interface {
	UploadTranscript(ctx context.Context, filename string, r io.Reader) (api.UploadResponse, error)
	Summarize(ctx context.Context, req api.SummarizeRequest) (api.SummarizeResponse, error)
	SendEmail(ctx context.Context, req api.EmailRequest) error
}

// Tools holds the tool handlers.
type Tools struct {
	backend Backend
	logger  *zap.Logger
}

// NewTools creates the handlers for backend.
func NewTools(backend Backend, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{backend: backend, logger: logger}
}

// New builds an MCP server with all notesum tools registered.
func New(backend Backend, version string, logger *zap.Logger) *server.MCPServer {
	t := NewTools(backend, logger)
	s := server.NewMCPServer("notesum", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("upload_transcript",
		mcp.WithDescription("Upload a plain-text meeting transcript file and return its contents"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a UTF-8 .txt transcript")),
	), t.UploadTranscript)

	s.AddTool(mcp.NewTool("summarize_transcript",
		mcp.WithDescription("Generate a meeting summary following a custom instruction"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Transcript text")),
		mcp.WithString("prompt", mcp.Description("Summarization instruction; defaults to "+api.DefaultPrompt)),
	), t.SummarizeTranscript)

	s.AddTool(mcp.NewTool("send_summary_email",
		mcp.WithDescription("Email a summary to one or more recipients"),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Summary text to send")),
		mcp.WithArray("recipients", mcp.Required(), mcp.Description("Recipient email addresses"), mcp.WithStringItems()),
		mcp.WithString("subject", mcp.Description("Email subject; defaults to "+api.DefaultSubject)),
	), t.SendSummaryEmail)

	return s
}

// ServeStdio runs s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// UploadTranscript reads the file at path through the backend.
func (t *Tools) UploadTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("open transcript", err), nil
	}
	defer f.Close()

	resp, err := t.backend.UploadTranscript(ctx, filepath.Base(path), f)
	if err != nil {
		t.logger.Error("mcp.upload.failed", zap.String("path", path), zap.Error(err))
		return mcp.NewToolResultErrorFromErr("upload transcript", err), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

// SummarizeTranscript generates a summary of text.
func (t *Tools) SummarizeTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}
	prompt := req.GetString("prompt", api.DefaultPrompt)

	resp, err := t.backend.Summarize(ctx, api.SummarizeRequest{Text: text, Prompt: prompt})
	if err != nil {
		t.logger.Error("mcp.summarize.failed", zap.Error(err))
		return mcp.NewToolResultErrorFromErr("generate summary", err), nil
	}
	return mcp.NewToolResultText(resp.Summary), nil
}

// SendSummaryEmail emails summary to recipients.
func (t *Tools) SendSummaryEmail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := req.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	recipients, err := req.RequireStringSlice("recipients")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(recipients) == 0 {
		return mcp.NewToolResultError("at least one recipient is required"), nil
	}
	subject := req.GetString("subject", api.DefaultSubject)

	err = t.backend.SendEmail(ctx, api.EmailRequest{Summary: summary, Recipients: recipients, Subject: subject})
	if err != nil {
		t.logger.Error("mcp.email.failed", zap.Int("recipients", len(recipients)), zap.Error(err))
		return mcp.NewToolResultErrorFromErr("send email", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Email sent to %d recipient(s)", len(recipients))), nil
}
