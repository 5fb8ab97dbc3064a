package app

import (
	"strings"

	"github.com/jwulff/notesum/internal/api"
)

// Defaults shown when the UI starts.
const (
	DefaultPrompt  = api.DefaultPrompt
	DefaultSubject = api.DefaultSubject
)

// Summary is a generated summary paired with its view/edit mode.
type Summary struct {
	SourceText string // transcript the summary was generated from
	Text       string
	Editing    bool
}

// NoticeKind classifies a blocking notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeSuccess
	NoticeFailure
)

// Notice is a message the user must dismiss before continuing.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Active reports whether the notice is showing.
func (n Notice) Active() bool { return n.Kind != NoticeNone }

// State is the complete view state. Every operation is a method with a value
// receiver that returns a new State; the receiver is never modified.
type State struct {
	FileName   string
	Transcript string
	Prompt     string
	Summary    *Summary
	Busy       bool // a summarize call is in flight
	Recipients string
	Subject    string
	Notice     Notice

	uploadSeq uint64
	emailSeq  uint64
}

// NewState returns the initial state.
func NewState() State {
	return State{
		Prompt:  DefaultPrompt,
		Subject: DefaultSubject,
	}
}

// withSummary copies the summary before applying fn so earlier states keep
// their own record.
func (s State) withSummary(fn func(*Summary)) State {
	if s.Summary == nil {
		return s
	}
	sum := *s.Summary
	fn(&sum)
	s.Summary = &sum
	return s
}

// SetTranscript overwrites the transcript. Empty text is allowed.
func (s State) SetTranscript(text string) State {
	s.Transcript = text
	return s
}

// SetPrompt overwrites the summarization instructions.
func (s State) SetPrompt(prompt string) State {
	s.Prompt = prompt
	return s
}

// SetRecipients overwrites the raw comma-separated recipient input.
func (s State) SetRecipients(raw string) State {
	s.Recipients = raw
	return s
}

// SetSubject overwrites the email subject.
func (s State) SetSubject(subject string) State {
	s.Subject = subject
	return s
}

// StartUpload records the chosen file and returns the sequence number its
// response must carry to be applied.
func (s State) StartUpload(fileName string) (State, uint64) {
	s.uploadSeq++
	s.FileName = fileName
	return s, s.uploadSeq
}

// ApplyUpload replaces the transcript with uploaded text. Responses from any
// upload other than the latest are dropped and ok is false.
func (s State) ApplyUpload(seq uint64, text string) (next State, ok bool) {
	if seq != s.uploadSeq {
		return s, false
	}
	s.Transcript = normalizeNewlines(text)
	return s, true
}

// CanSummarize reports whether a summarize call may be issued now.
func (s State) CanSummarize() bool {
	return !s.Busy && strings.TrimSpace(s.Transcript) != ""
}

// StartSummary sets the busy flag and returns the request to issue. ok is
// false, and the state unchanged, when the transcript is blank or a call is
// already in flight.
func (s State) StartSummary() (next State, req api.SummarizeRequest, ok bool) {
	if !s.CanSummarize() {
		return s, api.SummarizeRequest{}, false
	}
	s.Busy = true
	return s, api.SummarizeRequest{Text: s.Transcript, Prompt: s.Prompt}, true
}

// ApplySummary replaces any summary with a fresh one in viewing mode, pinned
// to the transcript the call was made with.
func (s State) ApplySummary(sourceText, summary string) State {
	s.Busy = false
	s.Summary = &Summary{SourceText: sourceText, Text: normalizeNewlines(summary)}
	return s
}

// normalizeNewlines converts CRLF and lone CR line endings to LF, the only
// break the editors keep.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// FailSummary clears the busy flag and leaves any existing summary alone.
func (s State) FailSummary() State {
	s.Busy = false
	return s
}

// Editing reports whether the summary is in edit mode.
func (s State) Editing() bool {
	return s.Summary != nil && s.Summary.Editing
}

// BeginEdit switches the summary to edit mode. No-op without a summary.
func (s State) BeginEdit() State {
	return s.withSummary(func(sum *Summary) { sum.Editing = true })
}

// UpdateDraft overwrites the summary text. Only valid while editing.
func (s State) UpdateDraft(text string) State {
	if !s.Editing() {
		return s
	}
	return s.withSummary(func(sum *Summary) { sum.Text = text })
}

// CommitEdit switches the summary back to viewing mode without touching its
// text.
func (s State) CommitEdit() State {
	return s.withSummary(func(sum *Summary) { sum.Editing = false })
}

// ParseRecipients splits raw on commas and trims each entry. Order and
// duplicates are kept and addresses are not validated.
func ParseRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// CanSendEmail reports whether a send may be issued now.
func (s State) CanSendEmail() bool {
	return s.Summary != nil && strings.TrimSpace(s.Recipients) != ""
}

// StartEmail builds the email request and returns the sequence number its
// response must carry. ok is false when there is no summary or no recipients.
func (s State) StartEmail() (next State, req api.EmailRequest, seq uint64, ok bool) {
	if !s.CanSendEmail() {
		return s, api.EmailRequest{}, 0, false
	}
	s.emailSeq++
	req = api.EmailRequest{
		Summary:    s.Summary.Text,
		Recipients: ParseRecipients(s.Recipients),
		Subject:    s.Subject,
	}
	return s, req, s.emailSeq, true
}

// ApplyEmailSent shows a success notice. Only the latest send clears the
// recipient input, so an older response cannot wipe newer typing.
func (s State) ApplyEmailSent(seq uint64) State {
	if seq == s.emailSeq {
		s.Recipients = ""
	}
	s.Notice = Notice{Kind: NoticeSuccess, Text: "Email sent successfully!"}
	return s
}

// ApplyEmailFailed shows a failure notice and leaves the rest of the state
// as it was so the user can retry.
func (s State) ApplyEmailFailed(err error) State {
	text := "Failed to send email"
	if err != nil {
		text += ": " + err.Error()
	}
	s.Notice = Notice{Kind: NoticeFailure, Text: text}
	return s
}

// DismissNotice hides the current notice.
func (s State) DismissNotice() State {
	s.Notice = Notice{}
	return s
}
