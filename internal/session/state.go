package session

// Phase is where the practice screen is within a round.
type Phase int

const (
	PhaseIdle      Phase = iota // no round yet
	PhaseSpeaking               // target is being synthesized or played
	PhaseAnswering              // waiting for the typed answer
	PhaseScored                 // feedback shown, waiting for the next round
)

func (p Phase) String() string {
	switch p {
	case PhaseSpeaking:
		return "speaking"
	case PhaseAnswering:
		return "answering"
	case PhaseScored:
		return "scored"
	default:
		return "idle"
	}
}
