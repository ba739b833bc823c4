package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// DefaultSampleRate matches the PCM format returned by the Gemini speech API:
// 16-bit signed little-endian, mono, 24kHz. The playback device must be
// configured with the same rate or playback speed and pitch will be wrong.
const DefaultSampleRate = 24000

// ErrInvalidPCM is returned when a payload cannot be interpreted as
// 16-bit little-endian PCM.
var ErrInvalidPCM = errors.New("audio: malformed pcm payload")

// Buffer holds decoded mono audio as normalized samples in [-1.0, 1.0].
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// SampleCount returns the number of samples in the buffer.
func (b *Buffer) SampleCount() int {
	return len(b.Samples)
}

// Duration returns the playable length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// DecodeBase64 decodes a base64 payload of 16-bit LE PCM into a Buffer.
func DecodeBase64(payload string, sampleRate int) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPCM, err)
	}
	return DecodePCM(raw, sampleRate)
}

// DecodePCM reinterprets raw bytes as signed 16-bit little-endian samples and
// normalizes them by 1/32768. Empty or odd-length input fails; no partial
// buffer is ever returned.
func DecodePCM(raw []byte, sampleRate int) (*Buffer, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPCM)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrInvalidPCM, len(raw))
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidPCM, sampleRate)
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(s) / 32768.0
	}

	return &Buffer{Samples: samples, SampleRate: sampleRate}, nil
}
