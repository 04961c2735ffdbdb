package story

import (
	"testing"
	"time"

	"github.com/storyreel/storyreel/internal/request"
)

func fixedNow(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func testConfig() request.Config {
	return request.Config{
		Mode:        request.ModeTextToVideo,
		Model:       request.ModelFast,
		AspectRatio: request.AspectLandscape,
		Resolution:  request.Resolution720p,
		Prompt:      "a quiet harbor at dawn",
	}
}

func TestAttemptLifecycle(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	cfg := testConfig()
	token := st.beginAttempt(cfg)

	snap := st.Snapshot()
	if snap.Phase != PhaseLoading {
		t.Fatalf("expected loading phase, got %q", snap.Phase)
	}
	if snap.LastConfig == nil || snap.LastConfig.Prompt != cfg.Prompt {
		t.Fatalf("expected last config to be retained")
	}
	if snap.AttemptToken != token {
		t.Fatalf("expected attempt token %d, got %d", token, snap.AttemptToken)
	}

	seg, applied := st.completeAttempt(token, Segment{VideoURL: "memory://video.mp4", Prompt: cfg.Prompt}, Artifact{Blob: []byte("mp4")})
	if !applied {
		t.Fatalf("expected attempt to apply")
	}
	if seg.ID != 1000 {
		t.Fatalf("expected segment id 1000, got %d", seg.ID)
	}

	snap = st.Snapshot()
	if snap.Phase != PhaseSuccess {
		t.Fatalf("expected success phase, got %q", snap.Phase)
	}
	if len(snap.Timeline) != 1 || snap.Timeline[0].ID != seg.ID {
		t.Fatalf("expected one timeline segment with id %d, got %+v", seg.ID, snap.Timeline)
	}
	if snap.CurrentID != seg.ID {
		t.Fatalf("expected current segment %d, got %d", seg.ID, snap.CurrentID)
	}
	if snap.Artifact == nil || string(snap.Artifact.Blob) != "mp4" {
		t.Fatalf("expected artifact to be retained")
	}
}

func TestAttemptFailure(t *testing.T) {
	st := NewStore()
	token := st.beginAttempt(testConfig())

	st.failAttempt(token, "Generation failed: boom", false)

	snap := st.Snapshot()
	if snap.Phase != PhaseError {
		t.Fatalf("expected error phase, got %q", snap.Phase)
	}
	if snap.ErrorMessage != "Generation failed: boom" {
		t.Fatalf("unexpected error message %q", snap.ErrorMessage)
	}
	if snap.CredentialNeeded {
		t.Fatalf("did not expect credential flag")
	}
	if len(snap.Timeline) != 0 {
		t.Fatalf("timeline should stay empty on failure")
	}
}

func TestStaleAttemptResultsIgnored(t *testing.T) {
	st := NewStore()
	stale := st.beginAttempt(testConfig())
	fresh := st.beginAttempt(testConfig())

	if _, applied := st.completeAttempt(stale, Segment{VideoURL: "memory://old.mp4"}, Artifact{}); applied {
		t.Fatalf("stale success should not apply")
	}
	st.failAttempt(stale, "Generation failed: stale", false)

	snap := st.Snapshot()
	if snap.Phase != PhaseLoading {
		t.Fatalf("expected state to stay loading, got %q", snap.Phase)
	}
	if len(snap.Timeline) != 0 {
		t.Fatalf("stale success must not append to the timeline")
	}
	if snap.AttemptToken != fresh {
		t.Fatalf("expected token %d, got %d", fresh, snap.AttemptToken)
	}
}

func TestSegmentIDsStrictlyIncrease(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(5000)

	var ids []int64
	for i := 0; i < 3; i++ {
		token := st.beginAttempt(testConfig())
		seg, applied := st.completeAttempt(token, Segment{}, Artifact{})
		if !applied {
			t.Fatalf("attempt %d did not apply", i)
		}
		ids = append(ids, seg.ID)
	}

	if ids[0] != 5000 || ids[1] != 5001 || ids[2] != 5002 {
		t.Fatalf("expected ids to advance within the same millisecond, got %v", ids)
	}
}

func TestSnapshotIsolatedFromLaterAppends(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	token := st.beginAttempt(testConfig())
	st.completeAttempt(token, Segment{}, Artifact{})

	before := st.Snapshot()

	token = st.beginAttempt(testConfig())
	st.completeAttempt(token, Segment{}, Artifact{})

	if len(before.Timeline) != 1 {
		t.Fatalf("earlier snapshot observed a later append: %d segments", len(before.Timeline))
	}
	if after := st.Snapshot(); len(after.Timeline) != 2 {
		t.Fatalf("expected two segments after second attempt, got %d", len(after.Timeline))
	}
}

func TestSnapshotIsolatesConfigAndArtifact(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	token := st.beginAttempt(testConfig())
	st.completeAttempt(token, Segment{}, Artifact{RemoteHandle: "operations/abc"})
	st.dispatch(nextSceneStaged{draft: testConfig()})

	snap := st.Snapshot()
	snap.LastConfig.Prompt = "tampered"
	snap.Draft.Prompt = "tampered"
	snap.Artifact.RemoteHandle = "tampered"

	fresh := st.Snapshot()
	if fresh.LastConfig.Prompt == "tampered" {
		t.Fatal("mutating a snapshot's last config wrote through to live state")
	}
	if fresh.Draft.Prompt == "tampered" {
		t.Fatal("mutating a snapshot's draft wrote through to live state")
	}
	if fresh.Artifact.RemoteHandle != "operations/abc" {
		t.Fatal("mutating a snapshot's artifact wrote through to live state")
	}
}

func TestNewStoryDiscardsEverything(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	token := st.beginAttempt(testConfig())
	st.completeAttempt(token, Segment{}, Artifact{})
	st.NewStory()

	snap := st.Snapshot()
	if snap.Phase != PhaseIdle {
		t.Fatalf("expected idle phase, got %q", snap.Phase)
	}
	if len(snap.Timeline) != 0 || snap.LastConfig != nil || snap.Artifact != nil {
		t.Fatalf("expected a clean slate, got %+v", snap)
	}

	// The ID space restarts with the story.
	token = st.beginAttempt(testConfig())
	seg, _ := st.completeAttempt(token, Segment{}, Artifact{})
	if seg.ID != 1000 {
		t.Fatalf("expected id space to restart at 1000, got %d", seg.ID)
	}
}

func TestTryAgainReturnsToEditingWithLastConfig(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	token := st.beginAttempt(testConfig())
	st.completeAttempt(token, Segment{}, Artifact{})

	cfg := testConfig()
	cfg.Prompt = "a storm rolls in"
	token = st.beginAttempt(cfg)
	st.failAttempt(token, "Generation failed: boom", true)

	st.TryAgain()

	snap := st.Snapshot()
	if snap.Phase != PhaseIdle {
		t.Fatalf("expected idle phase, got %q", snap.Phase)
	}
	if snap.ErrorMessage != "" || snap.CredentialNeeded {
		t.Fatalf("expected error state to be cleared")
	}
	if snap.Draft == nil || snap.Draft.Prompt != "a storm rolls in" {
		t.Fatalf("expected the failed config to become the draft, got %+v", snap.Draft)
	}
	if len(snap.Timeline) != 1 {
		t.Fatalf("expected the timeline to survive, got %d segments", len(snap.Timeline))
	}
}

func TestSelectSegment(t *testing.T) {
	st := NewStore()
	st.now = fixedNow(1000)

	for i := 0; i < 2; i++ {
		token := st.beginAttempt(testConfig())
		st.completeAttempt(token, Segment{}, Artifact{})
	}

	first := st.Snapshot().Timeline[0]
	st.SelectSegment(first.ID)
	if got := st.Snapshot().CurrentID; got != first.ID {
		t.Fatalf("expected current segment %d, got %d", first.ID, got)
	}

	st.SelectSegment(99999)
	if got := st.Snapshot().CurrentID; got != first.ID {
		t.Fatalf("selecting an unknown id should change nothing, got %d", got)
	}
}
