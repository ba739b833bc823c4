package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rosechat/rosechat/internal/audio"
	"github.com/rosechat/rosechat/internal/llm"
	"github.com/rosechat/rosechat/internal/speech"
)

const (
	// GreetingLine is spoken once when the conversation opens.
	GreetingLine = "Hi baby! Main online aa gayi. Miss kiya mujhe?"
	// fallbackReply substitutes for the model's answer when text generation
	// fails; raw errors never reach the transcript.
	fallbackReply = "Mera dimag thoda ghoom gaya hai, phir se bolo na? (Check API Key)"
)

var (
	// ErrBusy rejects user input while a turn or playback is in progress.
	ErrBusy = errors.New("chat: a turn is already in progress")
	// ErrAudioNotReady rejects manual playback of a message without audio.
	ErrAudioNotReady = errors.New("chat: message has no audio")
)

// EventKind discriminates orchestrator notifications.
type EventKind int

const (
	EventMessageAppended EventKind = iota
	EventAudioAttached
	EventPhaseChanged
)

// Event is delivered to the UI observer after each state change.
type Event struct {
	Kind      EventKind
	MessageID string
	Phase     Phase
}

// Orchestrator drives the request/response cycle: user text in, persona text
// and voice out. All turn state mutations funnel through here; the Idle-only
// send gate guarantees turns never overlap.
type Orchestrator struct {
	log    *Log
	gen    llm.Generator
	synth  speech.Synthesizer
	player *audio.Player

	mu        sync.Mutex
	phase     Phase
	playingID string
	greeted   bool

	notify func(Event)
}

// New wires an orchestrator to its collaborators and registers for playback
// lifecycle events.
func New(conversation *Log, gen llm.Generator, synth speech.Synthesizer, player *audio.Player) *Orchestrator {
	o := &Orchestrator{
		log:    conversation,
		gen:    gen,
		synth:  synth,
		player: player,
	}
	player.OnStarted(o.playbackStarted)
	player.OnCompleted(o.playbackCompleted)
	return o
}

// SetNotify registers the UI observer. Events are emitted outside internal
// locks, so the observer may call back into the orchestrator.
func (o *Orchestrator) SetNotify(fn func(Event)) {
	o.notify = fn
}

// Phase returns the current activity phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// PlayingMessage returns the id of the message currently sounding, if any.
func (o *Orchestrator) PlayingMessage() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playingID, o.playingID != ""
}

// HandleSend runs one full user turn. It returns ErrBusy unless the phase is
// Idle; there is never more than one turn in flight.
func (o *Orchestrator) HandleSend(ctx context.Context, text string) error {
	o.mu.Lock()
	if o.phase != PhaseIdle {
		o.mu.Unlock()
		return ErrBusy
	}
	o.phase = PhaseAwaitingText
	o.mu.Unlock()
	o.emit(Event{Kind: EventPhaseChanged, Phase: PhaseAwaitingText})

	history := o.history()
	userMsg := o.log.Append(SenderUser, text, false)
	o.emit(Event{Kind: EventMessageAppended, MessageID: userMsg.ID, Phase: PhaseAwaitingText})

	reply, err := o.gen.Reply(ctx, history, text)
	if err != nil {
		log.Warn().Err(err).Msg("Text generation failed, using fallback reply")
		reply = fallbackReply
	}

	o.speak(ctx, reply)
	return nil
}

// Greet opens the conversation with the scripted line, once, through the same
// synthesis and autoplay pipeline as a normal reply.
func (o *Orchestrator) Greet(ctx context.Context) error {
	o.mu.Lock()
	if o.greeted || o.phase != PhaseIdle || o.log.Len() > 0 {
		o.mu.Unlock()
		return nil
	}
	o.greeted = true
	o.phase = PhaseAwaitingText
	o.mu.Unlock()
	o.emit(Event{Kind: EventPhaseChanged, Phase: PhaseAwaitingText})

	o.speak(ctx, GreetingLine)
	return nil
}

// speak appends the persona message, synthesizes its voice, and evaluates
// autoplay. Shared by user turns and the greeting.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	o.setPhase(PhaseAwaitingAudio)
	msg := o.log.Append(SenderPersona, text, true)
	o.emit(Event{Kind: EventMessageAppended, MessageID: msg.ID, Phase: PhaseAwaitingAudio})

	buf, err := o.synth.Synthesize(ctx, text)
	if err != nil {
		// The message stays text-only for good; one attempt, no retry.
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("Speech synthesis failed, message stays text-only")
		o.setPhase(PhaseIdle)
		return
	}

	if err := o.log.AttachAudio(msg.ID, buf); err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to attach audio")
		o.setPhase(PhaseIdle)
		return
	}
	o.emit(Event{Kind: EventAudioAttached, MessageID: msg.ID, Phase: PhaseAwaitingAudio})

	if !o.log.ConsumeAutoplay(msg.ID) {
		o.setPhase(PhaseIdle)
		return
	}
	if err := o.player.Play(buf, msg.ID); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).Msg("Autoplay failed")
		o.setPhase(PhaseIdle)
	}
	// On success the phase moved to Playing via the player's start callback.
}

// TogglePlayback starts playback of an audio-ready message, or stops it if it
// is the one currently sounding. Starting preempts any other active session.
func (o *Orchestrator) TogglePlayback(id string) error {
	msg, err := o.log.Get(id)
	if err != nil {
		return err
	}
	if !msg.AudioReady {
		return ErrAudioNotReady
	}

	if current, ok := o.player.Playing(); ok && current == id {
		o.Stop()
		return nil
	}

	o.mu.Lock()
	if o.phase != PhaseIdle && o.phase != PhasePlaying {
		o.mu.Unlock()
		return ErrBusy
	}
	o.mu.Unlock()

	return o.player.Play(msg.Audio, id)
}

// Stop interrupts the active playback session, if any. The completion event
// does not fire; the phase returns to Idle here.
func (o *Orchestrator) Stop() {
	o.player.Stop()

	o.mu.Lock()
	changed := o.phase == PhasePlaying
	if changed {
		o.phase = PhaseIdle
	}
	o.playingID = ""
	o.mu.Unlock()

	if changed {
		o.emit(Event{Kind: EventPhaseChanged, Phase: PhaseIdle})
	}
}

func (o *Orchestrator) playbackStarted(messageID string) {
	o.mu.Lock()
	o.phase = PhasePlaying
	o.playingID = messageID
	o.mu.Unlock()
	o.emit(Event{Kind: EventPhaseChanged, MessageID: messageID, Phase: PhasePlaying})
}

func (o *Orchestrator) playbackCompleted(messageID string) {
	o.mu.Lock()
	o.playingID = ""
	changed := o.phase == PhasePlaying
	if changed {
		o.phase = PhaseIdle
	}
	o.mu.Unlock()

	if changed {
		o.emit(Event{Kind: EventPhaseChanged, MessageID: messageID, Phase: PhaseIdle})
	}
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	if o.phase == p {
		o.mu.Unlock()
		return
	}
	o.phase = p
	o.mu.Unlock()
	o.emit(Event{Kind: EventPhaseChanged, Phase: p})
}

func (o *Orchestrator) emit(e Event) {
	if o.notify != nil {
		o.notify(e)
	}
}

// history converts the conversation so far into model turns.
func (o *Orchestrator) history() []llm.Turn {
	messages := o.log.Messages()
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		role := llm.RoleUser
		if m.Sender == SenderPersona {
			role = llm.RoleModel
		}
		turns = append(turns, llm.Turn{Role: role, Text: m.Text})
	}
	return turns
}
