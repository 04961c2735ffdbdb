package story

import (
	"sync"
	"time"

	"github.com/storyreel/storyreel/internal/request"
)

// Store holds the application state and serializes transitions. Hosts read
// through Snapshot; all writes go through the reducer.
type Store struct {
	mu        sync.Mutex
	state     State
	lastID    int64
	nextToken uint64
	now       func() time.Time
}

// NewStore returns a store in the Idle phase with an empty timeline.
func NewStore() *Store {
	return &Store{
		state: State{Phase: PhaseIdle},
		now:   time.Now,
	}
}

// Snapshot returns a copy of the current state. The timeline and the
// config/artifact values are copied so callers can neither observe later
// transitions nor write through into live state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Timeline = append([]Segment(nil), s.state.Timeline...)
	if s.state.LastConfig != nil {
		cfg := *s.state.LastConfig
		snap.LastConfig = &cfg
	}
	if s.state.Draft != nil {
		draft := *s.state.Draft
		snap.Draft = &draft
	}
	if s.state.Artifact != nil {
		artifact := *s.state.Artifact
		snap.Artifact = &artifact
	}
	return snap
}

func (s *Store) dispatch(ev event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, ev)
	return s.state
}

// beginAttempt issues a fresh attempt token and transitions to Loading.
func (s *Store) beginAttempt(cfg request.Config) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextToken++
	token := s.nextToken
	s.state = reduce(s.state, attemptStarted{token: token, cfg: cfg})
	return token
}

// completeAttempt assigns the segment its identity and applies the success.
// A stale token consumes no ID and changes nothing.
func (s *Store) completeAttempt(token uint64, segment Segment, artifact Artifact) (Segment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.state.AttemptToken {
		return Segment{}, false
	}
	segment.ID = s.nextIDLocked()
	s.state = reduce(s.state, attemptSucceeded{token: token, segment: segment, artifact: artifact})
	return segment, true
}

// failAttempt applies a terminal failure for the attempt.
func (s *Store) failAttempt(token uint64, message string, credential bool) {
	s.dispatch(attemptFailed{token: token, message: message, credential: credential})
}

// NewStory discards the whole timeline and starts over with a fresh ID
// space.
func (s *Store) NewStory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID = 0
	s.state = reduce(s.state, storyReset{})
}

// TryAgain leaves an error state for editing: the last configuration becomes
// the draft and the timeline is kept.
func (s *Store) TryAgain() {
	s.dispatch(editResumed{})
}

// SelectSegment points the viewer at a segment; ignored during playback.
func (s *Store) SelectSegment(id int64) {
	s.dispatch(segmentSelected{id: id})
}

// StartPlayback begins sequential playback from the first segment. It is a
// no-op unless at least two segments exist.
func (s *Store) StartPlayback() {
	s.dispatch(playbackStarted{})
}

// SceneEnded advances playback, or exits it after the final segment and
// reverts to viewing the most recent one.
func (s *Store) SceneEnded() {
	s.dispatch(sceneEnded{})
}

// StopPlayback exits playback immediately, viewing the most recent segment.
func (s *Store) StopPlayback() {
	s.dispatch(playbackStopped{})
}

// nextIDLocked derives a time-based segment ID that stays strictly
// increasing even when successes land within the same millisecond.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
