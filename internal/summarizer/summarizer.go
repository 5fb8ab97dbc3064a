// Package summarizer turns meeting transcripts into summaries with an LLM.
package summarizer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jwulff/notesum/internal/config"
)

// Summarizer produces a summary of transcript following instruction.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, instruction string) (string, error)
}

// New builds the provider selected in cfg. The returned Closer releases
// provider resources and must be closed by the caller.
func New(ctx context.Context, cfg config.SummarizerConfig) (Summarizer, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	switch cfg.Provider {
	case config.ProviderGroq:
		g := NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, nil)
		return g, g, nil
	default:
		g, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	}
}

const promptTemplate = `You are an expert executive assistant. Follow the user's instruction exactly: "%s"

Rules:
- Follow the instruction precisely and match the level of detail it asks for.
- For an "executive summary" or "bullet points for executives", give complete executive-level information organised into sections.
- When only specific items are requested (for example "action items only"), return only those items.
- When asked for something "brief" or "short", keep it concise.
- Write plain text: no asterisks or markdown symbols.
- Use numbered lists rather than bullet points.
- For full summaries include sections such as Discussion Points, Decisions, Action Items and Next Steps.
- Format each action item as "Person: Task description (Due: Date)" and always include the due date in parentheses.
- When no deadline is mentioned, write "Due: TBD".

Transcript:
%s
`

// BuildPrompt wraps the user's instruction and the transcript into the model
// prompt.
func BuildPrompt(instruction, transcript string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(instruction), transcript)
}
