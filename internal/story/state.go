package story

import (
	"github.com/storyreel/storyreel/internal/request"
)

// Phase is the coarse state of the generation state machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Segment is one completed scene on the timeline. Immutable once appended.
type Segment struct {
	ID       int64
	VideoURL string
	AudioURL string
	Prompt   string
	Dialogue string
	Speaker  request.Speaker
}

// HasAudio reports whether a dialogue track accompanies the scene, so hosts
// can wire playback transition timing.
func (s Segment) HasAudio() bool {
	return s.AudioURL != ""
}

// Artifact is the retained raw result of the most recent successful attempt,
// kept so extend and retry do not re-fetch.
type Artifact struct {
	Blob         []byte
	RemoteHandle string
	URL          string
}

// State is the full application state. Values are treated as immutable:
// every transition goes through the reducer, which returns a fresh copy.
type State struct {
	Phase Phase

	// LastConfig is the configuration of the most recent attempt, retained
	// for retry, extend, and next-scene derivation.
	LastConfig *request.Config
	// Draft is a staged configuration pre-filling the next attempt.
	Draft *request.Config
	// Artifact is the raw video of the last success.
	Artifact *Artifact

	ErrorMessage     string
	CredentialNeeded bool

	// Timeline is append-only; entries are never removed or mutated.
	Timeline  []Segment
	CurrentID int64

	// Playback sub-state: while Playing, PlayIndex drives which segment is
	// current and manual selection is ignored.
	Playing   bool
	PlayIndex int

	// AttemptToken identifies the latest issued attempt; terminal events
	// carrying an older token are ignored.
	AttemptToken uint64
}

// Current returns the currently viewed segment.
func (s State) Current() (Segment, bool) {
	for _, seg := range s.Timeline {
		if seg.ID == s.CurrentID {
			return seg, true
		}
	}
	return Segment{}, false
}

// CanStartPlayback reports whether sequential playback may be offered.
func (s State) CanStartPlayback() bool {
	return !s.Playing && len(s.Timeline) >= 2
}
