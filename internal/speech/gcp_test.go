package speech

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/rosechat/rosechat/internal/audio"
)

type mockGCPClient struct {
	mock.Mock
}

func (m *mockGCPClient) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...grpc.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*texttospeechpb.SynthesizeSpeechResponse), args.Error(1)
}

func (m *mockGCPClient) ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...grpc.CallOption) (*texttospeechpb.ListVoicesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*texttospeechpb.ListVoicesResponse), args.Error(1)
}

func (m *mockGCPClient) Close() error {
	return nil
}

func wavPayload(t *testing.T, sampleRate int, samples int) []byte {
	t.Helper()
	data, err := audio.EncodeWAV(&audio.Buffer{
		Samples:    make([]float32, samples),
		SampleRate: sampleRate,
	})
	require.NoError(t, err)
	return data
}

func TestGCPSynthesizer_Synthesize(t *testing.T) {
	client := &mockGCPClient{}
	s := &GCPSynthesizer{client: client, voice: "hi-IN-Neural2-A", language: "hi-IN"}

	client.On("SynthesizeSpeech", mock.Anything, mock.MatchedBy(func(req *texttospeechpb.SynthesizeSpeechRequest) bool {
		return req.Voice.Name == "hi-IN-Neural2-A" &&
			req.Voice.LanguageCode == "hi-IN" &&
			req.AudioConfig.AudioEncoding == texttospeechpb.AudioEncoding_LINEAR16 &&
			req.AudioConfig.SampleRateHertz == 24000
	})).Return(&texttospeechpb.SynthesizeSpeechResponse{
		AudioContent: wavPayload(t, audio.DefaultSampleRate, 2400),
	}, nil)

	buf, err := s.Synthesize(context.Background(), "namaste")
	require.NoError(t, err)
	assert.Equal(t, 2400, buf.SampleCount())
	assert.Equal(t, audio.DefaultSampleRate, buf.SampleRate)
	client.AssertExpectations(t)
}

func TestGCPSynthesizer_Synthesize_Error(t *testing.T) {
	client := &mockGCPClient{}
	s := &GCPSynthesizer{client: client, voice: gcpDefaultVoice, language: "hi-IN"}

	client.On("SynthesizeSpeech", mock.Anything, mock.Anything).Return(nil, errors.New("permission denied"))

	_, err := s.Synthesize(context.Background(), "namaste")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestGCPSynthesizer_ListVoices(t *testing.T) {
	client := &mockGCPClient{}
	s := &GCPSynthesizer{client: client, voice: gcpDefaultVoice, language: "hi-IN"}

	client.On("ListVoices", mock.Anything, mock.Anything).Return(&texttospeechpb.ListVoicesResponse{
		Voices: []*texttospeechpb.Voice{
			{
				Name:          "hi-IN-Neural2-A",
				LanguageCodes: []string{"hi-IN"},
				SsmlGender:    texttospeechpb.SsmlVoiceGender_FEMALE,
			},
		},
	}, nil)

	voices, err := s.ListVoices(context.Background())
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "hi-IN-Neural2-A", voices[0].ID)
	assert.Equal(t, "female", voices[0].Gender)
}

func TestLanguageFromVoice(t *testing.T) {
	tests := []struct {
		voice    string
		expected string
	}{
		{"hi-IN-Neural2-A", "hi-IN"},
		{"en-US-Wavenet-D", "en-US"},
		{"weird", "hi-IN"},
	}

	for _, tt := range tests {
		t.Run(tt.voice, func(t *testing.T) {
			assert.Equal(t, tt.expected, languageFromVoice(tt.voice))
		})
	}
}
