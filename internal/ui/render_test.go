package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/rosechat/rosechat/internal/audio"
	"github.com/rosechat/rosechat/internal/chat"
)

func init() {
	color.NoColor = true
}

func TestRenderer_Message(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Message(0, chat.Message{Sender: chat.SenderUser, Text: "Kaisi ho?"})
	assert.Equal(t, "you> Kaisi ho?\n", buf.String())

	buf.Reset()
	r.Message(1, chat.Message{Sender: chat.SenderPersona, Text: "Main theek hoon baby"})
	assert.Equal(t, "rose> Main theek hoon baby\n", buf.String())
}

func TestRenderer_MessageWithVoiceNote(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	voice := &audio.Buffer{
		Samples:    make([]float32, 2*audio.DefaultSampleRate),
		SampleRate: audio.DefaultSampleRate,
	}
	r.Message(3, chat.Message{
		Sender:     chat.SenderPersona,
		Text:       "Main theek hoon baby",
		Audio:      voice,
		AudioReady: true,
	})

	assert.Contains(t, buf.String(), "rose> Main theek hoon baby\n")
	assert.Contains(t, buf.String(), "[3] ▶ voice note (2s)\n")
}

func TestRenderer_Status(t *testing.T) {
	tests := []struct {
		phase chat.Phase
		want  string
	}{
		{phase: chat.PhaseAwaitingText, want: "Rose is typing...\n"},
		{phase: chat.PhaseAwaitingAudio, want: "Rose is recording a voice note...\n"},
		{phase: chat.PhasePlaying, want: "Speaking...\n"},
		{phase: chat.PhaseIdle, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			var buf bytes.Buffer
			NewRenderer(&buf).Status(tt.phase)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2s", formatDuration(2*time.Second))
	assert.Equal(t, "2s", formatDuration(1700*time.Millisecond))
	assert.Equal(t, "1s", formatDuration(200*time.Millisecond))
}
