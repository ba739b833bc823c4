package audio

import (
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm16(samples ...int16) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return raw
}

func TestDecodePCM(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		expected []float32
	}{
		{
			name:     "silence",
			raw:      pcm16(0, 0, 0),
			expected: []float32{0, 0, 0},
		},
		{
			name:     "full scale",
			raw:      pcm16(32767, -32768),
			expected: []float32{32767.0 / 32768.0, -1.0},
		},
		{
			name:     "mid range",
			raw:      pcm16(16384, -16384),
			expected: []float32{0.5, -0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodePCM(tt.raw, DefaultSampleRate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.Samples)
			assert.Equal(t, DefaultSampleRate, buf.SampleRate)
		})
	}
}

func TestDecodePCM_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		rate int
	}{
		{"empty payload", nil, DefaultSampleRate},
		{"odd byte length", []byte{0x01, 0x02, 0x03}, DefaultSampleRate},
		{"zero sample rate", pcm16(1, 2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := DecodePCM(tt.raw, tt.rate)
			assert.Nil(t, buf)
			assert.ErrorIs(t, err, ErrInvalidPCM)
		})
	}
}

func TestDecodePCM_SampleCountAndDuration(t *testing.T) {
	// 2 seconds of audio at 24kHz is 48000 samples, 96000 bytes.
	raw := make([]byte, 2*DefaultSampleRate*2)
	buf, err := DecodePCM(raw, DefaultSampleRate)
	require.NoError(t, err)

	assert.Equal(t, len(raw)/2, buf.SampleCount())
	assert.Equal(t, 2*time.Second, buf.Duration())
}

func TestDecodeBase64(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString(pcm16(100, -100))
		buf, err := DecodeBase64(payload, DefaultSampleRate)
		require.NoError(t, err)
		assert.Equal(t, 2, buf.SampleCount())
	})

	t.Run("not base64", func(t *testing.T) {
		buf, err := DecodeBase64("%%%not-base64%%%", DefaultSampleRate)
		assert.Nil(t, buf)
		assert.ErrorIs(t, err, ErrInvalidPCM)
	})

	t.Run("decodes to odd length", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte{0x01})
		buf, err := DecodeBase64(payload, DefaultSampleRate)
		assert.Nil(t, buf)
		assert.ErrorIs(t, err, ErrInvalidPCM)
	})
}
