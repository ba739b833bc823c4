package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeader is the canonical 44-byte RIFF/WAVE header for 16-bit mono PCM.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16 // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV renders a buffer as a 16-bit mono WAV file, used when exporting a
// voice note to disk.
func EncodeWAV(buf *Buffer) ([]byte, error) {
	if buf == nil || len(buf.Samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio buffer")
	}
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", buf.SampleRate)
	}

	dataSize := uint32(len(buf.Samples) * 2)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(buf.SampleRate),
		ByteRate:      uint32(buf.SampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	out := bytes.NewBuffer(make([]byte, 0, 44+len(buf.Samples)*2))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	for _, s := range buf.Samples {
		if err := binary.Write(out, binary.LittleEndian, clampSample(s)); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
	}
	return out.Bytes(), nil
}

// DecodeWAV parses a 16-bit mono PCM WAV file into a Buffer. Google Cloud TTS
// returns LINEAR16 audio in this container, so the header's sample rate is
// authoritative.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("%w: WAV data too short (%d bytes)", ErrInvalidPCM, len(data))
	}

	var header wavHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPCM, err)
	}

	if string(header.ChunkID[:]) != "RIFF" || string(header.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrInvalidPCM)
	}
	if header.AudioFormat != 1 {
		return nil, fmt.Errorf("%w: unsupported audio format %d", ErrInvalidPCM, header.AudioFormat)
	}
	if header.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidPCM, header.BitsPerSample)
	}
	if header.NumChannels != 1 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidPCM, header.NumChannels)
	}

	payload := data[44:]
	if n := int(header.Subchunk2Size); n <= len(payload) {
		payload = payload[:n]
	}
	return DecodePCM(payload, int(header.SampleRate))
}

func clampSample(s float32) int16 {
	switch {
	case s >= 1.0:
		return 32767
	case s <= -1.0:
		return -32768
	default:
		return int16(s * 32768.0)
	}
}
