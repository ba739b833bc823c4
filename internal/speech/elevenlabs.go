package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rosechat/rosechat/internal/audio"
)

const (
	ElevenLabsBaseURL      = "https://api.elevenlabs.io/v1"
	ElevenLabsDefaultVoice = "21m00Tcm4TlvDq8ikWAM" // Rachel
	ElevenLabsModel        = "eleven_multilingual_v2"
)

// ElevenLabsSynthesizer requests raw PCM at 24kHz so its output goes through
// the same decode path as the Gemini voice.
type ElevenLabsSynthesizer struct {
	apiKey     string
	baseURL    string
	voiceID    string
	httpClient *http.Client
}

// NewElevenLabsSynthesizer creates an ElevenLabs speech backend.
func NewElevenLabsSynthesizer(apiKey, voiceID string) *ElevenLabsSynthesizer {
	if voiceID == "" {
		voiceID = ElevenLabsDefaultVoice
	}
	return &ElevenLabsSynthesizer{
		apiKey:  apiKey,
		baseURL: ElevenLabsBaseURL,
		voiceID: voiceID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name.
func (s *ElevenLabsSynthesizer) Name() string {
	return "elevenlabs"
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize generates speech and decodes the raw PCM response.
func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	payload, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: ElevenLabsModel,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=pcm_24000", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

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

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}

	buf, err := audio.DecodePCM(raw, audio.DefaultSampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Debug().Int("pcm_bytes", len(raw)).Dur("duration", buf.Duration()).Msg("ElevenLabs synthesis complete")
	return buf, nil
}

type elevenLabsVoice struct {
	VoiceID  string            `json:"voice_id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Labels   map[string]string `json:"labels"`
}

type elevenLabsVoicesResponse struct {
	Voices []elevenLabsVoice `json:"voices"`
}

// ListVoices returns available ElevenLabs voices.
func (s *ElevenLabsSynthesizer) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create voices request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voices request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result elevenLabsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	voices := make([]Voice, 0, len(result.Voices))
	for _, v := range result.Voices {
		voices = append(voices, Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Language:    v.Labels["language"],
			Gender:      v.Labels["gender"],
			Description: v.Category,
		})
	}
	return voices, nil
}
