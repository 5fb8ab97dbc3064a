package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Backend is the subset of the API client the UI needs.
type Backend interface {
	UploadTranscript(ctx context.Context, filename string, r io.Reader) (api.UploadResponse, error)
	Summarize(ctx context.Context, req api.SummarizeRequest) (api.SummarizeResponse, error)
	SendEmail(ctx context.Context, req api.EmailRequest) error
}

// Field identifies a focusable input.
type Field int

const (
	FieldFile Field = iota
	FieldTranscript
	FieldPrompt
	FieldSummary
	FieldSubject
	FieldRecipients
)

// Model is the root bubbletea model for the notesum TUI. All view state lives
// in state; the widgets mirror it for editing.
type Model struct {
	ctx     context.Context
	backend Backend
	logger  *zap.Logger

	state State

	// Widgets
	fileInput       textinput.Model
	transcriptInput textarea.Model
	promptInput     textinput.Model
	summaryInput    textarea.Model
	subjectInput    textinput.Model
	recipientsInput textinput.Model

	// UI state
	focus  Field
	width  int
	height int
}

// New creates a Model with default state. ctx bounds every backend call.
func New(ctx context.Context, backend Backend, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := NewState()

	fi := textinput.New()
	fi.Placeholder = "path/to/transcript.txt"
	fi.Prompt = ""
	fi.CharLimit = 1024

	ti := textarea.New()
	ti.Placeholder = "Paste your meeting transcript here..."
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = 0
	ti.SetHeight(6)

	pi := textinput.New()
	pi.Placeholder = "e.g., Summarize in bullet points for executives"
	pi.Prompt = ""
	pi.SetValue(st.Prompt)

	si := textarea.New()
	si.ShowLineNumbers = false
	si.CharLimit = 0
	si.MaxHeight = 0
	si.SetHeight(12)

	subj := textinput.New()
	subj.Placeholder = DefaultSubject
	subj.Prompt = ""
	subj.SetValue(st.Subject)

	ri := textinput.New()
	ri.Placeholder = "john@company.com, sarah@company.com"
	ri.Prompt = ""

	m := Model{
		ctx:             ctx,
		backend:         backend,
		logger:          logger,
		state:           st,
		fileInput:       fi,
		transcriptInput: ti,
		promptInput:     pi,
		summaryInput:    si,
		subjectInput:    subj,
		recipientsInput: ri,
		focus:           FieldFile,
	}
	m.applyFocus()
	return m
}

// State returns the current view state.
func (m Model) State() State { return m.state }

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// uploadCmd reads the file at path and sends it to the backend.
func uploadCmd(ctx context.Context, backend Backend, seq uint64, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadResultMsg{Seq: seq, Err: fmt.Errorf("open transcript: %w", err)}
		}
		defer f.Close()

		resp, err := backend.UploadTranscript(ctx, filepath.Base(path), f)
		if err != nil {
			return UploadResultMsg{Seq: seq, Err: err}
		}
		return UploadResultMsg{Seq: seq, Text: resp.Text}
	}
}

// summarizeCmd requests a summary for req.
func summarizeCmd(ctx context.Context, backend Backend, req api.SummarizeRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := backend.Summarize(ctx, req)
		if err != nil {
			return SummaryResultMsg{Source: req.Text, Err: err}
		}
		return SummaryResultMsg{Source: req.Text, Summary: resp.Summary}
	}
}

// sendEmailCmd delivers req.
func sendEmailCmd(ctx context.Context, backend Backend, seq uint64, req api.EmailRequest) tea.Cmd {
	return func() tea.Msg {
		return EmailResultMsg{Seq: seq, Err: backend.SendEmail(ctx, req)}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case UploadResultMsg:
		if msg.Err != nil {
			m.logger.Error("transcript.upload.failed",
				zap.String("file", m.state.FileName),
				zap.Error(msg.Err),
			)
			return m, nil
		}
		next, ok := m.state.ApplyUpload(msg.Seq, msg.Text)
		if !ok {
			m.logger.Debug("transcript.upload.stale", zap.Uint64("seq", msg.Seq))
			return m, nil
		}
		m.state = next
		m.transcriptInput.SetValue(next.Transcript)
		return m, nil

	case SummaryResultMsg:
		if msg.Err != nil {
			m.logger.Error("summary.generate.failed", zap.Error(msg.Err))
			m.state = m.state.FailSummary()
			return m, nil
		}
		m.state = m.state.ApplySummary(msg.Source, msg.Summary)
		if m.focus == FieldSummary {
			m.focus = FieldPrompt
			cmd := m.applyFocus()
			return m, cmd
		}
		return m, nil

	case EmailResultMsg:
		if msg.Err != nil {
			m.logger.Error("email.send.failed", zap.Error(msg.Err))
			m.state = m.state.ApplyEmailFailed(msg.Err)
			return m, nil
		}
		m.state = m.state.ApplyEmailSent(msg.Seq)
		m.recipientsInput.SetValue(m.state.Recipients)
		return m, nil
	}

	// Cursor blink and other widget messages.
	return m.updateFocused(msg)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		return m, tea.Quit
	}

	// A notice blocks everything until dismissed.
	if m.state.Notice.Active() {
		if key == KeyEnter || key == KeyEsc {
			m.state = m.state.DismissNotice()
		}
		return m, nil
	}

	switch key {
	case KeyTab:
		cmd := m.cycleFocus(1)
		return m, cmd

	case KeyShiftTab:
		cmd := m.cycleFocus(-1)
		return m, cmd

	case KeyUpload:
		return m.startUpload()

	case KeyGenerate:
		return m.startSummary()

	case KeyEditSave:
		return m.toggleEdit()

	case KeySendEmail:
		return m.startEmail()

	case KeyEnter:
		switch m.focus {
		case FieldFile:
			return m.startUpload()
		case FieldPrompt:
			return m.startSummary()
		case FieldSubject, FieldRecipients:
			return m.startEmail()
		}
	}

	return m.updateFocused(msg)
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.fileInput.Value())
	if path == "" {
		return m, nil
	}
	next, seq := m.state.StartUpload(filepath.Base(path))
	m.state = next
	return m, uploadCmd(m.ctx, m.backend, seq, path)
}

func (m Model) startSummary() (tea.Model, tea.Cmd) {
	next, req, ok := m.state.StartSummary()
	if !ok {
		return m, nil
	}
	m.state = next
	return m, summarizeCmd(m.ctx, m.backend, req)
}

func (m Model) toggleEdit() (tea.Model, tea.Cmd) {
	if m.state.Summary == nil {
		return m, nil
	}
	if m.state.Editing() {
		m.state = m.state.CommitEdit()
		m.focus = FieldSubject
		cmd := m.applyFocus()
		return m, cmd
	}
	m.state = m.state.BeginEdit()
	m.summaryInput.SetValue(m.state.Summary.Text)
	m.focus = FieldSummary
	cmd := m.applyFocus()
	return m, cmd
}

func (m Model) startEmail() (tea.Model, tea.Cmd) {
	next, req, seq, ok := m.state.StartEmail()
	if !ok {
		return m, nil
	}
	m.state = next
	return m, sendEmailCmd(m.ctx, m.backend, seq, req)
}

// updateFocused forwards msg to the focused widget and copies its value back
// into the state only when the message edited it. Widgets rewrite text on
// input (tabs, line limits), so cursor moves and blinks must not sync.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldFile:
		m.fileInput, cmd = m.fileInput.Update(msg)
	case FieldTranscript:
		before := m.transcriptInput.Value()
		m.transcriptInput, cmd = m.transcriptInput.Update(msg)
		if v := m.transcriptInput.Value(); v != before {
			m.state = m.state.SetTranscript(v)
		}
	case FieldPrompt:
		before := m.promptInput.Value()
		m.promptInput, cmd = m.promptInput.Update(msg)
		if v := m.promptInput.Value(); v != before {
			m.state = m.state.SetPrompt(v)
		}
	case FieldSummary:
		before := m.summaryInput.Value()
		m.summaryInput, cmd = m.summaryInput.Update(msg)
		if v := m.summaryInput.Value(); v != before {
			m.state = m.state.UpdateDraft(v)
		}
	case FieldSubject:
		before := m.subjectInput.Value()
		m.subjectInput, cmd = m.subjectInput.Update(msg)
		if v := m.subjectInput.Value(); v != before {
			m.state = m.state.SetSubject(v)
		}
	case FieldRecipients:
		before := m.recipientsInput.Value()
		m.recipientsInput, cmd = m.recipientsInput.Update(msg)
		if v := m.recipientsInput.Value(); v != before {
			m.state = m.state.SetRecipients(v)
		}
	}
	return m, cmd
}

// visibleFields lists the fields currently on screen, in tab order.
func (m Model) visibleFields() []Field {
	fields := []Field{FieldFile, FieldTranscript, FieldPrompt}
	if m.state.Summary != nil {
		if m.state.Summary.Editing {
			fields = append(fields, FieldSummary)
		}
		fields = append(fields, FieldSubject, FieldRecipients)
	}
	return fields
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	m.focus = fields[idx]
	return m.applyFocus()
}

// applyFocus focuses the widget for m.focus and blurs the rest.
func (m *Model) applyFocus() tea.Cmd {
	m.fileInput.Blur()
	m.transcriptInput.Blur()
	m.promptInput.Blur()
	m.summaryInput.Blur()
	m.subjectInput.Blur()
	m.recipientsInput.Blur()

	switch m.focus {
	case FieldFile:
		return m.fileInput.Focus()
	case FieldTranscript:
		return m.transcriptInput.Focus()
	case FieldPrompt:
		return m.promptInput.Focus()
	case FieldSummary:
		return m.summaryInput.Focus()
	case FieldSubject:
		return m.subjectInput.Focus()
	case FieldRecipients:
		return m.recipientsInput.Focus()
	}
	return nil
}

func (m *Model) resize() {
	w := m.contentWidth()
	m.fileInput.Width = w
	m.promptInput.Width = w
	m.subjectInput.Width = w
	m.recipientsInput.Width = w
	m.transcriptInput.SetWidth(w)
	m.summaryInput.SetWidth(w)
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	// card border(2) + padding(2)
	return max(20, m.width-6)
}
