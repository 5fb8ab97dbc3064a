// Package api provides the client and wire types for the notesum backend:
// transcript upload, summarization and summary email delivery over HTTP/JSON.
package api

// Endpoint paths served by the backend.
const (
	PathUploadTranscript = "/api/upload-transcript"
	PathSummarize        = "/api/summarize"
	PathSendEmail        = "/api/send-email"
)

// UploadField is the multipart form field carrying the transcript file.
const UploadField = "file"

// Defaults applied when a request leaves the field empty.
const (
	DefaultPrompt  = "Summarize in bullet points for executives"
	DefaultSubject = "Meeting Summary Report"
)

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty"`
}

// SummarizeRequest asks the backend to summarize a transcript.
type SummarizeRequest struct {
	Text   string `json:"text" validate:"required"`
	Prompt string `json:"prompt"`
}

// SummarizeResponse carries the generated summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// EmailRequest asks the backend to mail a summary.
type EmailRequest struct {
	Summary    string   `json:"summary"`
	Recipients []string `json:"recipients" validate:"required,min=1,dive,required,email"`
	Subject    string   `json:"subject"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}
