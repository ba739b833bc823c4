package speech

import (
	"context"
	"fmt"
	"os"

	"github.com/rosechat/rosechat/internal/audio"
)

// Synthesizer converts text into a decoded, playable audio buffer. A failed
// synthesis is terminal for the message: callers degrade to text-only, no
// retry.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) (*audio.Buffer, error)
}

// VoiceLister is implemented by providers that can enumerate their voices.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}

// Voice represents a selectable voice.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Gender      string `json:"gender,omitempty"`
	Description string `json:"description,omitempty"`
}

// Config carries provider configuration common across backends.
type Config struct {
	APIKey string // Gemini or ElevenLabs key
	Voice  string // provider-specific voice id/name
	Region string // AWS region for Polly
}

// New creates a synthesizer by provider name. Gemini is the default voice of
// the chat pipeline; the others exist for the say/voices commands.
func New(ctx context.Context, name string, cfg Config) (Synthesizer, error) {
	switch name {
	case "", "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		return NewGeminiSynthesizer(cfg.APIKey, cfg.Voice), nil

	case "elevenlabs":
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ELEVENLABS_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ElevenLabs API key is required (set ELEVENLABS_API_KEY)")
		}
		return NewElevenLabsSynthesizer(apiKey, cfg.Voice), nil

	case "gcp":
		return NewGCPSynthesizer(ctx, cfg.Voice)

	case "polly":
		return NewPollySynthesizer(ctx, cfg.Region, cfg.Voice)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: gemini, elevenlabs, gcp, polly)", name)
	}
}
