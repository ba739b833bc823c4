package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/rosechat/rosechat/internal/audio"
)

var (
	// ErrMessageNotFound is returned for lookups of unknown message ids.
	ErrMessageNotFound = errors.New("chat: message not found")
	// ErrAudioAlreadyAttached guards the one-time audio attachment.
	ErrAudioAlreadyAttached = errors.New("chat: audio already attached")
)

// Log is the append-only conversation history. Messages are never deleted,
// reordered, or edited; the sole mutation is the single audio attachment per
// message.
type Log struct {
	mu       sync.RWMutex
	messages []*Message
	byID     map[string]*Message
}

// NewLog creates an empty conversation log.
func NewLog() *Log {
	return &Log{
		messages: make([]*Message, 0, 16),
		byID:     make(map[string]*Message),
	}
}

// Append adds a new message and returns a snapshot of it.
func (l *Log) Append(sender Sender, text string, autoplay bool) Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := &Message{
		ID:        newMessageID(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
		autoplay:  autoplay,
	}
	l.messages = append(l.messages, m)
	l.byID[m.ID] = m
	return *m
}

// AttachAudio performs the one-time false→true audio transition for a
// message. A second attachment is an error.
func (l *Log) AttachAudio(id string, buf *audio.Buffer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.byID[id]
	if !ok {
		return ErrMessageNotFound
	}
	if m.AudioReady {
		return ErrAudioAlreadyAttached
	}
	m.Audio = buf
	m.AudioReady = true
	return nil
}

// ConsumeAutoplay clears and returns the message's pending autoplay flag, so
// that autoplay fires at most once.
func (l *Log) ConsumeAutoplay(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.byID[id]
	if !ok || !m.autoplay {
		return false
	}
	m.autoplay = false
	return true
}

// Get returns a snapshot of the message with the given id.
func (l *Log) Get(id string) (Message, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.byID[id]
	if !ok {
		return Message{}, ErrMessageNotFound
	}
	return *m, nil
}

// Messages returns a snapshot of the conversation in chronological order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.messages))
	for i, m := range l.messages {
		out[i] = *m
	}
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
