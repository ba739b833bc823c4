package chat

// Phase is the coarse process-wide activity state. It is Idle exactly when no
// playback session is live and no API call is outstanding.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingText
	PhaseAwaitingAudio
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingText:
		return "awaiting-text"
	case PhaseAwaitingAudio:
		return "awaiting-audio"
	case PhasePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
