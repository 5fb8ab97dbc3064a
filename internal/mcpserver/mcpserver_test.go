package mcpserver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jwulff/notesum/internal/api"
)

type fakeBackend struct {
	uploadText string
	summary    string
	err        error

	uploadName string
	uploadBody string
	summarize  api.SummarizeRequest
	email      api.EmailRequest
}

func (f *fakeBackend) UploadTranscript(_ context.Context, filename string, r io.Reader) (api.UploadResponse, error) {
	b, _ := io.ReadAll(r)
	f.uploadName = filename
	f.uploadBody = string(b)
	if f.err != nil {
		return api.UploadResponse{}, f.err
	}
	return api.UploadResponse{Text: string(b), Filename: filename}, nil
}

func (f *fakeBackend) Summarize(_ context.Context, req api.SummarizeRequest) (api.SummarizeResponse, error) {
	f.summarize = req
	if f.err != nil {
		return api.SummarizeResponse{}, f.err
	}
	return api.SummarizeResponse{Summary: f.summary}, nil
}

func (f *fakeBackend) SendEmail(_ context.Context, req api.EmailRequest) error {
	f.email = req
	return f.err
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestUploadTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standup.txt")
	if err := os.WriteFile(path, []byte("We discussed Q3 budget."), 0o600); err != nil {
		t.Fatal(err)
	}
	be := &fakeBackend{}
	tools := NewTools(be, nil)

	res, err := tools.UploadTranscript(context.Background(), callRequest("upload_transcript", map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "We discussed Q3 budget." {
		t.Errorf("text = %q", got)
	}
	if be.uploadName != "standup.txt" {
		t.Errorf("filename = %q, want base name", be.uploadName)
	}
}

func TestUploadTranscriptMissingFile(t *testing.T) {
	tools := NewTools(&fakeBackend{}, nil)
	res, _ := tools.UploadTranscript(context.Background(),
		callRequest("upload_transcript", map[string]any{"path": filepath.Join(t.TempDir(), "nope.txt")}))
	if !res.IsError {
		t.Error("missing file should be a tool error")
	}

	res, _ = tools.UploadTranscript(context.Background(), callRequest("upload_transcript", map[string]any{}))
	if !res.IsError {
		t.Error("missing path argument should be a tool error")
	}
}

func TestSummarizeTranscript(t *testing.T) {
	be := &fakeBackend{summary: "- Q3 budget discussed"}
	tools := NewTools(be, nil)

	res, _ := tools.SummarizeTranscript(context.Background(), callRequest("summarize_transcript", map[string]any{
		"text":   "We discussed Q3 budget.",
		"prompt": "Summarize in bullet points",
	}))
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "- Q3 budget discussed" {
		t.Errorf("summary = %q", got)
	}
	if be.summarize.Prompt != "Summarize in bullet points" {
		t.Errorf("prompt = %q", be.summarize.Prompt)
	}

	res, _ = tools.SummarizeTranscript(context.Background(), callRequest("summarize_transcript", map[string]any{"text": "t"}))
	if res.IsError || be.summarize.Prompt != api.DefaultPrompt {
		t.Errorf("prompt = %q, want default", be.summarize.Prompt)
	}
}

func TestSummarizeTranscriptRejectsBlank(t *testing.T) {
	be := &fakeBackend{}
	tools := NewTools(be, nil)
	res, _ := tools.SummarizeTranscript(context.Background(), callRequest("summarize_transcript", map[string]any{"text": "  "}))
	if !res.IsError {
		t.Error("blank text should be a tool error")
	}
	if be.summarize.Text != "" {
		t.Error("backend should not be called")
	}
}

func TestSummarizeTranscriptBackendError(t *testing.T) {
	tools := NewTools(&fakeBackend{err: &api.StatusError{StatusCode: 500, Detail: "Error generating summary: quota"}}, nil)
	res, _ := tools.SummarizeTranscript(context.Background(), callRequest("summarize_transcript", map[string]any{"text": "t"}))
	if !res.IsError {
		t.Fatal("backend failure should be a tool error")
	}
	if got := resultText(t, res); !strings.Contains(got, "quota") {
		t.Errorf("error text = %q", got)
	}
}

func TestSendSummaryEmail(t *testing.T) {
	be := &fakeBackend{}
	tools := NewTools(be, nil)

	res, _ := tools.SendSummaryEmail(context.Background(), callRequest("send_summary_email", map[string]any{
		"summary":    "1. Item",
		"recipients": []any{"a@x.com", "b@y.com"},
	}))
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if !reflect.DeepEqual(be.email.Recipients, []string{"a@x.com", "b@y.com"}) {
		t.Errorf("recipients = %q", be.email.Recipients)
	}
	if be.email.Subject != api.DefaultSubject {
		t.Errorf("subject = %q, want default", be.email.Subject)
	}
}

func TestSendSummaryEmailErrors(t *testing.T) {
	tools := NewTools(&fakeBackend{}, nil)
	res, _ := tools.SendSummaryEmail(context.Background(), callRequest("send_summary_email", map[string]any{
		"summary":    "s",
		"recipients": []any{},
	}))
	if !res.IsError {
		t.Error("empty recipients should be a tool error")
	}

	tools = NewTools(&fakeBackend{err: errors.New("connection refused")}, nil)
	res, _ = tools.SendSummaryEmail(context.Background(), callRequest("send_summary_email", map[string]any{
		"summary":    "s",
		"recipients": []any{"a@x.com"},
	}))
	if !res.IsError {
		t.Error("backend failure should be a tool error")
	}
}

func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeBackend{}, "test", nil)
	tools := s.ListTools()
	for _, name := range []string{"upload_transcript", "summarize_transcript", "send_summary_email"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q not registered", name)
		}
	}
}
