package speech

import (
	"context"
	"time"

	"github.com/rosechat/rosechat/internal/audio"
)

type mockSynthesizer struct {
	duration time.Duration
	err      error
}

// NewMockSynthesizer returns a Synthesizer producing silent buffers of the
// given duration at the default sample rate.
func NewMockSynthesizer(duration time.Duration) Synthesizer {
	return &mockSynthesizer{duration: duration}
}

// NewFailingSynthesizer returns a Synthesizer that always fails with err.
func NewFailingSynthesizer(err error) Synthesizer {
	return &mockSynthesizer{err: err}
}

func (m *mockSynthesizer) Name() string {
	return "mock"
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	count := int(float64(audio.DefaultSampleRate) * m.duration.Seconds())
	if count < 1 {
		count = 1
	}
	return &audio.Buffer{
		Samples:    make([]float32, count),
		SampleRate: audio.DefaultSampleRate,
	}, nil
}
