package story

import "github.com/storyreel/storyreel/internal/request"

// Events understood by the reducer. Each transition in the state machine is
// one event; the reducer is pure so the machine is testable without any
// services attached.

type event interface{ isEvent() }

type attemptStarted struct {
	token uint64
	cfg   request.Config
}

type attemptSucceeded struct {
	token    uint64
	segment  Segment
	artifact Artifact
}

type attemptFailed struct {
	token      uint64
	message    string
	credential bool
}

type nextSceneStaged struct{ draft request.Config }

type extendStaged struct{ draft request.Config }

type extendFailed struct{ message string }

type storyReset struct{}

type editResumed struct{}

type segmentSelected struct{ id int64 }

type playbackStarted struct{}

type sceneEnded struct{}

type playbackStopped struct{}

func (attemptStarted) isEvent()   {}
func (attemptSucceeded) isEvent() {}
func (attemptFailed) isEvent()    {}
func (nextSceneStaged) isEvent()  {}
func (extendStaged) isEvent()     {}
func (extendFailed) isEvent()     {}
func (storyReset) isEvent()       {}
func (editResumed) isEvent()      {}
func (segmentSelected) isEvent()  {}
func (playbackStarted) isEvent()  {}
func (sceneEnded) isEvent()       {}
func (playbackStopped) isEvent()  {}

// reduce applies one event to the state and returns the next state. The
// timeline is copied before growing so prior snapshots never observe
// mutation.
func reduce(s State, ev event) State {
	switch e := ev.(type) {
	case attemptStarted:
		cfg := e.cfg
		s.Phase = PhaseLoading
		s.LastConfig = &cfg
		s.Draft = nil
		s.ErrorMessage = ""
		s.CredentialNeeded = false
		s.AttemptToken = e.token

	case attemptSucceeded:
		if e.token != s.AttemptToken {
			return s
		}
		s.Phase = PhaseSuccess
		s.Timeline = append(append([]Segment(nil), s.Timeline...), e.segment)
		s.CurrentID = e.segment.ID
		artifact := e.artifact
		s.Artifact = &artifact

	case attemptFailed:
		if e.token != s.AttemptToken {
			return s
		}
		s.Phase = PhaseError
		s.ErrorMessage = e.message
		s.CredentialNeeded = e.credential

	case nextSceneStaged:
		draft := e.draft
		s.Phase = PhaseIdle
		s.Draft = &draft

	case extendStaged:
		draft := e.draft
		s.Phase = PhaseIdle
		s.Draft = &draft

	case extendFailed:
		s.Phase = PhaseError
		s.ErrorMessage = e.message
		s.CredentialNeeded = false

	case storyReset:
		s = State{Phase: PhaseIdle}

	case editResumed:
		s.Phase = PhaseIdle
		s.ErrorMessage = ""
		s.CredentialNeeded = false
		if s.LastConfig != nil {
			draft := *s.LastConfig
			s.Draft = &draft
		}

	case segmentSelected:
		if s.Playing {
			return s
		}
		for _, seg := range s.Timeline {
			if seg.ID == e.id {
				s.CurrentID = e.id
				break
			}
		}

	case playbackStarted:
		if len(s.Timeline) < 2 {
			return s
		}
		s.Playing = true
		s.PlayIndex = 0
		s.CurrentID = s.Timeline[0].ID

	case sceneEnded:
		if !s.Playing {
			return s
		}
		if s.PlayIndex < len(s.Timeline)-1 {
			s.PlayIndex++
			s.CurrentID = s.Timeline[s.PlayIndex].ID
		} else {
			s.Playing = false
			s.CurrentID = s.Timeline[len(s.Timeline)-1].ID
		}

	case playbackStopped:
		if !s.Playing {
			return s
		}
		s.Playing = false
		s.CurrentID = s.Timeline[len(s.Timeline)-1].ID
	}

	return s
}
