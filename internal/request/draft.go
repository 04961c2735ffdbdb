package request

import "github.com/storyreel/storyreel/internal/media"

// NextSceneDraft derives the pre-filled configuration for the scene after a
// success. Prompt and dialogue start blank, frame and video inputs are
// dropped, while reference and style images carry forward so the story keeps
// its look. Extend-video downgrades to text-to-video: continuity inputs do
// not carry across scenes.
func NextSceneDraft(last Config) Config {
	draft := last
	draft.Prompt = ""
	draft.Dialogue = ""
	draft.StartFrame = nil
	draft.EndFrame = nil
	draft.Looping = false
	draft.InputVideo = nil
	draft.InputVideoHandle = ""
	if draft.Mode == ModeExtendVideo {
		draft.Mode = ModeTextToVideo
	}
	return Normalize(draft.Mode, draft)
}

// ExtendDraft derives the pre-filled extend-video configuration from the
// last attempt, wrapping the retained artifact as the input video.
func ExtendDraft(last Config, video *media.Payload, handle string) Config {
	draft := last
	draft.Mode = ModeExtendVideo
	draft.Resolution = Resolution720p
	draft.StartFrame = nil
	draft.EndFrame = nil
	draft.Looping = false
	draft.ReferenceImages = nil
	draft.StyleImage = nil
	draft.Dialogue = ""
	draft.Speaker = SpeakerNone
	draft.InputVideo = video
	draft.InputVideoHandle = handle
	return draft
}
