package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Device abstracts the audio output context so the playback logic can be
// tested without a sound card.
type Device interface {
	// Resume wakes a suspended output context. Best effort: failures are
	// logged by the caller, never raised.
	Resume() error
	// NewVoice binds a buffer to a fresh output resource, ready to start.
	NewVoice(buf *Buffer) (Voice, error)
	Close() error
}

// Voice is a single playback resource. It is started once and closed once.
type Voice interface {
	Play()
	IsPlaying() bool
	Close() error
}

type session struct {
	messageID string
	voice     Voice
}

// Player owns the single currently-active playback session. Starting a new
// session tears down any prior one first; there are never two live voices.
type Player struct {
	mu       sync.Mutex
	device   Device
	active   *session
	interval time.Duration

	onStarted   func(messageID string)
	onCompleted func(messageID string)
}

// NewPlayer creates a playback controller on top of the given output device.
func NewPlayer(device Device) *Player {
	return &Player{
		device:   device,
		interval: 10 * time.Millisecond,
	}
}

// OnStarted registers a callback fired whenever playback starts (including a
// re-fire when Play is called for the message already sounding).
func (p *Player) OnStarted(fn func(messageID string)) {
	p.onStarted = fn
}

// OnCompleted registers a callback fired exactly once per session, only on
// natural end-of-data. Explicit Stop and preemption never fire it.
func (p *Player) OnCompleted(fn func(messageID string)) {
	p.onCompleted = fn
}

// Play starts playback of buf for the given message, stopping any other
// active session first.
func (p *Player) Play(buf *Buffer, messageID string) error {
	p.mu.Lock()
	if p.active != nil && p.active.messageID == messageID {
		p.mu.Unlock()
		p.notifyStarted(messageID)
		return nil
	}
	p.stopLocked()

	if err := p.device.Resume(); err != nil {
		log.Warn().Err(err).Msg("Could not resume audio output, continuing anyway")
	}

	voice, err := p.device.NewVoice(buf)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to create playback voice: %w", err)
	}

	s := &session{messageID: messageID, voice: voice}
	p.active = s
	p.mu.Unlock()

	voice.Play()
	p.notifyStarted(messageID)
	go p.watch(s)

	log.Debug().Str("message_id", messageID).Dur("duration", buf.Duration()).Msg("Playback started")
	return nil
}

// Stop interrupts the active session, if any, releasing its resource
// immediately. It does not fire the completion callback.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

// Playing reports the message currently sounding, if any.
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return "", false
	}
	return p.active.messageID, true
}

// Close stops any active session and releases the output device.
func (p *Player) Close() error {
	p.Stop()
	return p.device.Close()
}

func (p *Player) stopLocked() {
	if p.active == nil {
		return
	}
	s := p.active
	p.active = nil
	if err := s.voice.Close(); err != nil {
		log.Warn().Err(err).Str("message_id", s.messageID).Msg("Failed to release playback voice")
	}
}

// watch polls the voice until it drains. The completion callback fires only
// if the session is still the registered one, which guards against a stale
// watcher reporting after its session was superseded.
func (p *Player) watch(s *session) {
	for s.voice.IsPlaying() {
		time.Sleep(p.interval)
	}

	p.mu.Lock()
	if p.active != s {
		p.mu.Unlock()
		return
	}
	p.active = nil
	p.mu.Unlock()

	if err := s.voice.Close(); err != nil {
		log.Warn().Err(err).Str("message_id", s.messageID).Msg("Failed to release drained voice")
	}
	log.Debug().Str("message_id", s.messageID).Msg("Playback completed")
	if p.onCompleted != nil {
		p.onCompleted(s.messageID)
	}
}

func (p *Player) notifyStarted(messageID string) {
	if p.onStarted != nil {
		p.onStarted(messageID)
	}
}
