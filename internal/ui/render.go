package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/rosechat/rosechat/internal/chat"
)

// Renderer prints the conversation to a terminal. Persona messages with audio
// show a numbered voice-note line so the user can replay them by index.
type Renderer struct {
	out io.Writer

	userStyle    *color.Color
	personaStyle *color.Color
	voiceStyle   *color.Color
	statusStyle  *color.Color
	noticeStyle  *color.Color
}

// NewRenderer writes styled output to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:          out,
		userStyle:    color.New(color.FgCyan),
		personaStyle: color.New(color.FgHiMagenta),
		voiceStyle:   color.New(color.FgHiMagenta, color.Italic),
		statusStyle:  color.New(color.FgHiBlack, color.Italic),
		noticeStyle:  color.New(color.FgYellow),
	}
}

// Message prints a single message. index is its position in the transcript,
// used to address voice notes in playback commands.
func (r *Renderer) Message(index int, msg chat.Message) {
	switch msg.Sender {
	case chat.SenderUser:
		r.userStyle.Fprintf(r.out, "you> %s\n", msg.Text)
	default:
		r.personaStyle.Fprintf(r.out, "rose> %s\n", msg.Text)
		if msg.AudioReady {
			r.VoiceNote(index, msg)
		}
	}
}

// VoiceNote prints the replayable voice-note line for a message with audio.
func (r *Renderer) VoiceNote(index int, msg chat.Message) {
	if !msg.AudioReady {
		return
	}
	r.voiceStyle.Fprintf(r.out, "      [%d] ▶ voice note (%s)\n", index, formatDuration(msg.Audio.Duration()))
}

// Transcript reprints the whole conversation.
func (r *Renderer) Transcript(messages []chat.Message) {
	for i, m := range messages {
		r.Message(i, m)
	}
}

// Status prints the activity indicator for non-idle phases.
func (r *Renderer) Status(p chat.Phase) {
	switch p {
	case chat.PhaseAwaitingText:
		r.statusStyle.Fprintln(r.out, "Rose is typing...")
	case chat.PhaseAwaitingAudio:
		r.statusStyle.Fprintln(r.out, "Rose is recording a voice note...")
	case chat.PhasePlaying:
		r.statusStyle.Fprintln(r.out, "Speaking...")
	}
}

// Notice prints an informational line, e.g. when input is rejected.
func (r *Renderer) Notice(format string, args ...any) {
	r.noticeStyle.Fprintf(r.out, format+"\n", args...)
}

func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}
