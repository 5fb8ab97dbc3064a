package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GroqClient calls Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client. A nil httpClient gets a 60s timeout.
func NewGroqClient(apiKey, baseURL, model string, httpClient *http.Client) *GroqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  httpClient,
	}
}

// Close is a no-op; the HTTP client holds no per-client resources.
func (g *GroqClient) Close() error { return nil }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize sends the prompt to Groq and returns the assistant content.
func (g *GroqClient) Summarize(ctx context.Context, transcript, instruction string) (string, error) {
	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(instruction, transcript)}},
		Temperature: 0.3,
		MaxTokens:   4096,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	var cr ChatResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&cr)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && cr.Error != nil && cr.Error.Message != "" {
			return "", fmt.Errorf("groq returned status %d: %s", resp.StatusCode, cr.Error.Message)
		}
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode groq response: %w", decodeErr)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}
