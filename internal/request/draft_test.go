package request

import (
	"testing"

	"github.com/storyreel/storyreel/internal/media"
)

func TestNextSceneDraft(t *testing.T) {
	last := Config{
		Mode:            ModeReferencesToVideo,
		Model:           ModelQuality,
		AspectRatio:     AspectLandscape,
		Resolution:      Resolution720p,
		Prompt:          "scene one",
		Dialogue:        "hello",
		Speaker:         SpeakerKai,
		ReferenceImages: []media.Payload{*payload("ref.png")},
		StyleImage:      payload("style.png"),
	}

	draft := NextSceneDraft(last)
	if draft.Prompt != "" || draft.Dialogue != "" {
		t.Fatalf("expected prompt and dialogue cleared: %+v", draft)
	}
	if draft.StartFrame != nil || draft.EndFrame != nil || draft.InputVideo != nil || draft.InputVideoHandle != "" {
		t.Fatalf("expected frame and video inputs cleared: %+v", draft)
	}
	if len(draft.ReferenceImages) != 1 || draft.StyleImage == nil {
		t.Fatalf("expected reference and style images preserved: %+v", draft)
	}
	if draft.Mode != ModeReferencesToVideo {
		t.Fatalf("expected mode preserved, got %s", draft.Mode)
	}
}

func TestNextSceneDraftDowngradesExtend(t *testing.T) {
	last := Config{Mode: ModeExtendVideo, Resolution: Resolution720p, Prompt: "keep going", InputVideoHandle: "operations/abc"}
	draft := NextSceneDraft(last)
	if draft.Mode != ModeTextToVideo {
		t.Fatalf("expected extend downgraded to text-to-video, got %s", draft.Mode)
	}
	if draft.InputVideoHandle != "" {
		t.Fatal("expected continuity inputs dropped for the next scene")
	}
}

func TestExtendDraft(t *testing.T) {
	last := fullConfig()
	last.Mode = ModeTextToVideo
	last.Resolution = Resolution720p

	video := payload("artifact.mp4")
	draft := ExtendDraft(last, video, "operations/abc")

	if draft.Mode != ModeExtendVideo {
		t.Fatalf("mode = %s", draft.Mode)
	}
	if draft.Resolution != Resolution720p {
		t.Fatalf("resolution = %s", draft.Resolution)
	}
	if draft.InputVideo != video || draft.InputVideoHandle != "operations/abc" {
		t.Fatalf("expected input video attached: %+v", draft)
	}
	if draft.StartFrame != nil || draft.EndFrame != nil || draft.ReferenceImages != nil || draft.StyleImage != nil {
		t.Fatalf("expected frame and reference inputs cleared: %+v", draft)
	}
	if draft.Dialogue != "" || draft.Speaker != SpeakerNone {
		t.Fatalf("expected dialogue cleared: %+v", draft)
	}
}
