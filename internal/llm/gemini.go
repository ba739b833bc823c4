package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	GeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	GeminiChatModel = "gemini-2.5-flash"
)

// roseSystemInstruction shapes every reply; emojis are excluded because the
// text is spoken aloud afterwards.
const roseSystemInstruction = `You are Rose, a fictional female chat personality.
Act like a real, confident, teasing, slightly toxic, and romantic girlfriend.
Respond to the user's message, leading the conversation forward.
NEVER repeat ideas or phrases.
Keep the tone emotional, slightly naughty, and confident.
Always reply in Hindi/Hinglish (Mix of Hindi and English).
Your response must be conversational, short, and punchy (less than 150 characters).
Do not use emojis in the text output, as this will be spoken.`

// GeminiGenerator talks to the Gemini generateContent API over REST.
type GeminiGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGeminiGenerator creates a text generator backed by Gemini.
func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey:  apiKey,
		baseURL: GeminiBaseURL,
		model:   GeminiChatModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Reply sends the full prior history plus the new user text and returns the
// model's reply. A single attempt, no retry.
func (g *GeminiGenerator) Reply(ctx context.Context, history []Turn, userText string) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Role:  string(turn.Role),
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  string(RoleUser),
		Parts: []geminiPart{{Text: userText}},
	})

	reqBody := geminiGenerateRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: roseSystemInstruction}}},
		Contents:          contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     1.2,
			MaxOutputTokens: 100,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("text generation request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("text generation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := firstText(result)
	if text == "" {
		return "", fmt.Errorf("no text in model response")
	}

	log.Debug().Int("history_turns", len(history)).Int("reply_chars", len(text)).Msg("Generated reply")
	return text, nil
}

func firstText(result geminiGenerateResponse) string {
	for _, c := range result.Candidates {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}
