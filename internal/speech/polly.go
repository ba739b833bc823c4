package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rosechat/rosechat/internal/audio"
)

// Polly's PCM output tops out at 16kHz, below the playback device's fixed
// 24kHz rate, so this backend serves voice-note export rather than the chat
// pipeline.
const (
	pollySampleRate   = 16000
	pollyDefaultVoice = "Kajal"
)

// pollyClient covers the Polly operations used here, so tests can substitute
// a mock.
type pollyClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
	DescribeVoices(ctx context.Context, params *polly.DescribeVoicesInput, optFns ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
}

// PollySynthesizer uses Amazon Polly with raw PCM output.
type PollySynthesizer struct {
	client pollyClient
	voice  string
}

// NewPollySynthesizer creates an Amazon Polly backend. AWS credentials are
// resolved from the environment or an IAM role.
func NewPollySynthesizer(ctx context.Context, region, voice string) (*PollySynthesizer, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if voice == "" {
		voice = pollyDefaultVoice
	}
	return &PollySynthesizer{
		client: polly.NewFromConfig(cfg),
		voice:  voice,
	}, nil
}

// Name returns the provider name.
func (s *PollySynthesizer) Name() string {
	return "polly"
}

// Synthesize generates speech as raw 16kHz PCM.
func (s *PollySynthesizer) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		VoiceId:      types.VoiceId(s.voice),
		Engine:       types.EngineNeural,
		OutputFormat: types.OutputFormatPcm,
		SampleRate:   aws.String(fmt.Sprintf("%d", pollySampleRate)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer func() {
		_ = resp.AudioStream.Close()
	}()

	raw, err := io.ReadAll(resp.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}

	buf, err := audio.DecodePCM(raw, pollySampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	log.Debug().Str("voice", s.voice).Dur("duration", buf.Duration()).Msg("Polly synthesis complete")
	return buf, nil
}

// ListVoices returns available Amazon Polly voices.
func (s *PollySynthesizer) ListVoices(ctx context.Context) ([]Voice, error) {
	resp, err := s.client.DescribeVoices(ctx, &polly.DescribeVoicesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list Polly voices: %w", err)
	}

	titler := cases.Title(language.English)
	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voice := Voice{
			ID:          string(v.Id),
			Name:        aws.ToString(v.Name),
			Language:    string(v.LanguageCode),
			Description: fmt.Sprintf("%s voice", titler.String(string(v.Gender))),
		}
		switch v.Gender {
		case types.GenderFemale:
			voice.Gender = "female"
		case types.GenderMale:
			voice.Gender = "male"
		}
		voices = append(voices, voice)
	}
	return voices, nil
}
