package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosechat/rosechat/internal/audio"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser    Sender = "user"
	SenderPersona Sender = "persona"
)

// Message is a single entry of the conversation. Text is fixed at creation;
// the only later mutation is the one-time audio attachment performed by the
// log on behalf of the orchestrator.
type Message struct {
	ID         string
	Sender     Sender
	Text       string
	Audio      *audio.Buffer
	CreatedAt  time.Time
	AudioReady bool

	// autoplay is set at creation and consumed at most once.
	autoplay bool
}

// AutoplayPending reports whether the message still carries an unconsumed
// autoplay request.
func (m *Message) AutoplayPending() bool {
	return m.autoplay
}

// newMessageID returns a time-ordered unique id so that id order matches
// creation order.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
