package story

import "testing"

func seededStore(t *testing.T, segments int) *Store {
	t.Helper()
	st := NewStore()
	st.now = fixedNow(1000)
	for i := 0; i < segments; i++ {
		token := st.beginAttempt(testConfig())
		if _, applied := st.completeAttempt(token, Segment{}, Artifact{}); !applied {
			t.Fatalf("seeding segment %d did not apply", i)
		}
	}
	return st
}

func TestStartPlaybackNeedsTwoSegments(t *testing.T) {
	st := seededStore(t, 1)

	if st.Snapshot().CanStartPlayback() {
		t.Fatalf("a single segment should not offer playback")
	}

	st.StartPlayback()
	if st.Snapshot().Playing {
		t.Fatalf("playback should not start with one segment")
	}
}

func TestPlaybackSequencesAllSegments(t *testing.T) {
	st := seededStore(t, 3)
	timeline := st.Snapshot().Timeline

	st.StartPlayback()
	snap := st.Snapshot()
	if !snap.Playing {
		t.Fatalf("expected playback to start")
	}
	if snap.CurrentID != timeline[0].ID {
		t.Fatalf("playback should begin at the first segment, got %d", snap.CurrentID)
	}

	st.SceneEnded()
	if got := st.Snapshot().CurrentID; got != timeline[1].ID {
		t.Fatalf("expected second segment, got %d", got)
	}

	st.SceneEnded()
	if got := st.Snapshot().CurrentID; got != timeline[2].ID {
		t.Fatalf("expected third segment, got %d", got)
	}

	st.SceneEnded()
	snap = st.Snapshot()
	if snap.Playing {
		t.Fatalf("playback should exit after the final segment")
	}
	if snap.CurrentID != timeline[2].ID {
		t.Fatalf("expected to land on the latest segment, got %d", snap.CurrentID)
	}
}

func TestSelectionIgnoredDuringPlayback(t *testing.T) {
	st := seededStore(t, 3)
	timeline := st.Snapshot().Timeline

	st.StartPlayback()
	st.SelectSegment(timeline[2].ID)

	if got := st.Snapshot().CurrentID; got != timeline[0].ID {
		t.Fatalf("manual selection should be ignored while playing, got %d", got)
	}
}

func TestStopPlaybackRevertsToLatest(t *testing.T) {
	st := seededStore(t, 3)
	timeline := st.Snapshot().Timeline

	st.StartPlayback()
	st.SceneEnded()
	st.StopPlayback()

	snap := st.Snapshot()
	if snap.Playing {
		t.Fatalf("expected playback to stop")
	}
	if snap.CurrentID != timeline[2].ID {
		t.Fatalf("expected the latest segment after stopping, got %d", snap.CurrentID)
	}

	// Redundant stop is a no-op.
	st.StopPlayback()
	if got := st.Snapshot().CurrentID; got != timeline[2].ID {
		t.Fatalf("stop while idle should change nothing, got %d", got)
	}
}

func TestSceneEndedIgnoredOutsidePlayback(t *testing.T) {
	st := seededStore(t, 2)
	before := st.Snapshot()

	st.SceneEnded()

	after := st.Snapshot()
	if after.CurrentID != before.CurrentID || after.Playing {
		t.Fatalf("scene-ended outside playback should change nothing")
	}
}
