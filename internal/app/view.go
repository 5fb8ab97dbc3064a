package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwulff/notesum/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.state.Notice.Active() {
		return m.renderNotice()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderUploadCard())
	sections = append(sections, m.renderPromptCard())
	if m.state.Summary != nil {
		sections = append(sections, m.renderSummaryCard())
		sections = append(sections, m.renderEmailCard())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	return ui.TitleStyle.Render("AI Meeting Notes Summarizer") + "\n" +
		ui.SubtitleStyle.Render("Upload transcripts and generate executive-ready summaries")
}

func (m Model) card(title string, active bool, body ...string) string {
	style := ui.CardStyle
	if active {
		style = ui.CardActiveStyle
	}
	content := ui.CardTitleStyle.Render(title) + "\n" + strings.Join(body, "\n")
	return style.Width(m.contentWidth() + 2).Render(content)
}

func (m Model) label(text string, field Field) string {
	if m.focus == field {
		return ui.LabelActiveStyle.Render(text)
	}
	return ui.LabelStyle.Render(text)
}

func (m Model) renderUploadCard() string {
	body := []string{
		m.label("Transcript file (.txt):", FieldFile),
		m.fileInput.View(),
	}
	if m.state.FileName != "" {
		body = append(body, ui.DimStyle.Render("Uploaded: "+m.state.FileName))
	}
	body = append(body,
		m.label("Or paste transcript directly:", FieldTranscript),
		m.transcriptInput.View(),
	)
	active := m.focus == FieldFile || m.focus == FieldTranscript
	return m.card("Upload Transcript", active, body...)
}

func (m Model) renderPromptCard() string {
	var button string
	switch {
	case m.state.Busy:
		button = ui.BusyStyle.Render("⟳ Generating...")
	case m.state.CanSummarize():
		button = ui.ButtonStyle.Render("[ Generate Summary ]")
	default:
		button = ui.ButtonDisabledStyle.Render("[ Generate Summary ]")
	}
	return m.card("Custom Instructions", m.focus == FieldPrompt,
		m.label("Enter your summarization preferences:", FieldPrompt),
		m.promptInput.View(),
		button,
	)
}

func (m Model) renderSummaryCard() string {
	sum := m.state.Summary
	var action string
	var body string
	if sum.Editing {
		action = ui.ButtonStyle.Render("[ Save Changes ]")
		body = m.summaryInput.View()
	} else {
		action = ui.ButtonStyle.Render("[ Edit Summary ]")
		body = strings.Join(wrapText(sum.Text, m.contentWidth()), "\n")
	}
	return m.card("Generated Summary", m.focus == FieldSummary, action, body)
}

func (m Model) renderEmailCard() string {
	button := ui.ButtonDisabledStyle.Render("[ Send Email ]")
	if m.state.CanSendEmail() {
		button = ui.ButtonStyle.Render("[ Send Email ]")
	}
	active := m.focus == FieldSubject || m.focus == FieldRecipients
	return m.card("Share via Email", active,
		m.label("Email Subject:", FieldSubject),
		m.subjectInput.View(),
		m.label("Recipients (comma-separated):", FieldRecipients),
		m.recipientsInput.View(),
		button,
	)
}

func (m Model) renderNotice() string {
	n := m.state.Notice
	box := ui.NoticeBoxStyle
	var text string
	if n.Kind == NoticeSuccess {
		box = box.BorderForeground(ui.ColorGreen)
		text = ui.SuccessStyle.Render(n.Text)
	} else {
		box = box.BorderForeground(ui.ColorRed)
		text = ui.ErrorStyle.Render(n.Text)
	}
	content := text + "\n\n" + ui.DimStyle.Render("Enter/Esc to dismiss")
	return lipgloss.Place(m.width, max(m.height, 1), lipgloss.Center, lipgloss.Center,
		box.Width(min(60, max(20, m.width-4))).Render(content))
}

func (m Model) renderFooter() string {
	var parts []string
	parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Focus"))
	parts = append(parts, ui.FooterKeyStyle.Render("^O")+ui.FooterDescStyle.Render(" Upload"))
	parts = append(parts, ui.FooterKeyStyle.Render("^G")+ui.FooterDescStyle.Render(" Summarize"))
	if m.state.Summary != nil {
		if m.state.Summary.Editing {
			parts = append(parts, ui.FooterKeyStyle.Render("^E")+ui.FooterDescStyle.Render(" Save"))
		} else {
			parts = append(parts, ui.FooterKeyStyle.Render("^E")+ui.FooterDescStyle.Render(" Edit"))
		}
		parts = append(parts, ui.FooterKeyStyle.Render("^S")+ui.FooterDescStyle.Render(" Send"))
	}
	parts = append(parts, ui.FooterKeyStyle.Render("^C")+ui.FooterDescStyle.Render(" Quit"))
	return strings.Join(parts, "  ")
}

// Helpers

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
