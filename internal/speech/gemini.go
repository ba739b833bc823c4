package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rosechat/rosechat/internal/audio"
)

const (
	GeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	GeminiTTSModel = "gemini-2.5-flash-preview-tts"
	GeminiVoice    = "Kore"
)

// GeminiSynthesizer uses the Gemini TTS model, which returns base64-encoded
// 16-bit LE PCM at 24kHz mono as inline data.
type GeminiSynthesizer struct {
	apiKey     string
	baseURL    string
	model      string
	voice      string
	httpClient *http.Client
}

// NewGeminiSynthesizer creates the default speech backend.
func NewGeminiSynthesizer(apiKey, voice string) *GeminiSynthesizer {
	if voice == "" {
		voice = GeminiVoice
	}
	return &GeminiSynthesizer{
		apiKey:  apiKey,
		baseURL: GeminiBaseURL,
		model:   GeminiTTSModel,
		voice:   voice,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name.
func (s *GeminiSynthesizer) Name() string {
	return "gemini"
}

type ttsPart struct {
	Text       string         `json:"text,omitempty"`
	InlineData *ttsInlineData `json:"inlineData,omitempty"`
}

type ttsInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type ttsGenerationConfig struct {
	ResponseModalities []string        `json:"responseModalities"`
	SpeechConfig       ttsSpeechConfig `json:"speechConfig"`
}

type ttsRequest struct {
	Contents         []ttsContent        `json:"contents"`
	GenerationConfig ttsGenerationConfig `json:"generationConfig"`
}

type ttsResponse struct {
	Candidates []struct {
		Content ttsContent `json:"content"`
	} `json:"candidates"`
}

// Synthesize generates speech for the given text and decodes it into a
// playable buffer.
func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	reqBody := ttsRequest{
		Contents: []ttsContent{{Parts: []ttsPart{{Text: text}}}},
	}
	reqBody.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	reqBody.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = s.voice

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech synthesis failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	inline := firstInlineData(result)
	if inline == nil {
		return nil, fmt.Errorf("no audio data received")
	}

	rate := sampleRateFromMime(inline.MimeType)
	buf, err := audio.DecodeBase64(inline.Data, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Debug().
		Str("mime_type", inline.MimeType).
		Dur("duration", buf.Duration()).
		Msg("Gemini speech synthesis complete")
	return buf, nil
}

func firstInlineData(result ttsResponse) *ttsInlineData {
	for _, c := range result.Candidates {
		for _, p := range c.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData
			}
		}
	}
	return nil
}

// sampleRateFromMime extracts the rate from mime types like
// "audio/L16;codec=pcm;rate=24000", falling back to the API's documented
// 24kHz output.
func sampleRateFromMime(mimeType string) int {
	for _, field := range strings.Split(mimeType, ";") {
		field = strings.TrimSpace(field)
		if value, ok := strings.CutPrefix(field, "rate="); ok {
			if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return audio.DefaultSampleRate
}
