package speech

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/rosechat/rosechat/internal/audio"
)

const gcpDefaultVoice = "hi-IN-Neural2-A"

// gcpClient covers the texttospeech client methods used here, so tests can
// substitute a mock.
type gcpClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...grpc.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...grpc.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	Close() error
}

// GCPSynthesizer uses Google Cloud Text-to-Speech with LINEAR16 output at
// 24kHz, which arrives in a WAV container. Authentication comes from
// Application Default Credentials.
type GCPSynthesizer struct {
	client   gcpClient
	voice    string
	language string
}

// NewGCPSynthesizer creates a Google Cloud TTS backend.
func NewGCPSynthesizer(ctx context.Context, voice string) (*GCPSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP TTS client: %w", err)
	}
	if voice == "" {
		voice = gcpDefaultVoice
	}
	return &GCPSynthesizer{
		client:   client,
		voice:    voice,
		language: languageFromVoice(voice),
	}, nil
}

// Name returns the provider name.
func (s *GCPSynthesizer) Name() string {
	return "gcp"
}

// Synthesize generates speech and strips the WAV container from the result.
func (s *GCPSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.language,
			Name:         s.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(audio.DefaultSampleRate),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	buf, err := audio.DecodeWAV(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Debug().
		Str("voice", s.voice).
		Int("audio_bytes", len(resp.AudioContent)).
		Dur("duration", buf.Duration()).
		Msg("GCP TTS synthesis complete")
	return buf, nil
}

// ListVoices returns available Google Cloud TTS voices.
func (s *GCPSynthesizer) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := s.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list GCP voices: %w", err)
	}

	var voices []Voice
	for _, v := range resp.Voices {
		gender := "unknown"
		switch v.SsmlGender {
		case texttospeechpb.SsmlVoiceGender_MALE:
			gender = "male"
		case texttospeechpb.SsmlVoiceGender_FEMALE:
			gender = "female"
		case texttospeechpb.SsmlVoiceGender_NEUTRAL:
			gender = "neutral"
		}
		for _, langCode := range v.LanguageCodes {
			voices = append(voices, Voice{
				ID:       v.Name,
				Name:     v.Name,
				Language: langCode,
				Gender:   gender,
			})
		}
	}

	log.Debug().Int("count", len(voices)).Msg("Listed GCP TTS voices")
	return voices, nil
}

// languageFromVoice extracts a language code from names like
// "hi-IN-Neural2-A".
func languageFromVoice(voice string) string {
	if len(voice) >= 5 && voice[2] == '-' {
		return voice[:5]
	}
	return "hi-IN"
}
