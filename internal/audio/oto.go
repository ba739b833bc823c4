package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"
)

// otoDevice is the real output device. The underlying context is created
// lazily on first use and lives for the rest of the process; oto allows only
// one context per process.
type otoDevice struct {
	mu         sync.Mutex
	sampleRate int
	ctx        *oto.Context
}

// NewOtoDevice returns an output device at the given fixed sample rate.
func NewOtoDevice(sampleRate int) Device {
	return &otoDevice{sampleRate: sampleRate}
}

func (d *otoDevice) ensure() (*oto.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx != nil {
		return d.ctx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   d.sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	log.Debug().Int("sample_rate", d.sampleRate).Msg("Audio context ready")
	d.ctx = ctx
	return ctx, nil
}

func (d *otoDevice) Resume() error {
	ctx, err := d.ensure()
	if err != nil {
		return err
	}
	return ctx.Resume()
}

func (d *otoDevice) NewVoice(buf *Buffer) (Voice, error) {
	if buf.SampleRate != d.sampleRate {
		return nil, fmt.Errorf("buffer rate %d does not match device rate %d", buf.SampleRate, d.sampleRate)
	}
	ctx, err := d.ensure()
	if err != nil {
		return nil, err
	}
	return &otoVoice{player: ctx.NewPlayer(bytes.NewReader(float32LE(buf.Samples)))}, nil
}

func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return nil
	}
	err := d.ctx.Suspend()
	d.ctx = nil
	return err
}

type otoVoice struct {
	player *oto.Player
}

func (v *otoVoice) Play()           { v.player.Play() }
func (v *otoVoice) IsPlaying() bool { return v.player.IsPlaying() }
func (v *otoVoice) Close() error    { return v.player.Close() }

// float32LE serializes normalized samples in the context's wire format.
func float32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
