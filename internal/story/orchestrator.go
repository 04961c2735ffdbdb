package story

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/storyreel/storyreel/internal/logging"
	"github.com/storyreel/storyreel/internal/media"
	"github.com/storyreel/storyreel/internal/request"
	"github.com/storyreel/storyreel/internal/speech"
	"github.com/storyreel/storyreel/internal/veo"
)

// VideoGenerator runs one video generation call against the remote service.
type VideoGenerator interface {
	Generate(ctx context.Context, cfg request.Config) (veo.Result, error)
}

// SpeechSynthesizer renders one line of dialogue as audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, speaker request.Speaker) (speech.Clip, error)
}

// CredentialProvider is the external credential-selection surface. A failing
// check is treated the same as no credential being selected.
type CredentialProvider interface {
	HasSelectedCredential(ctx context.Context) (bool, error)
	OpenCredentialSelector(ctx context.Context)
}

// AssetStore publishes finished scene media and returns a playable URL.
type AssetStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

const extendPrepareFailedMessage = "Failed to prepare the video for extension. Please try again."

// Orchestrator executes generation attempts and the derived story
// operations, mutating state only through the store's reducer.
type Orchestrator struct {
	store  *Store
	video  VideoGenerator
	speech SpeechSynthesizer
	creds  CredentialProvider
	assets AssetStore
	logger *slog.Logger
}

// NewOrchestrator wires the collaborators together. The asset store and
// synthesizer are optional: without a store, segments keep the
// service-hosted video URL and dialogue audio is embedded as a data URL;
// without a synthesizer, dialogue produces no audio track.
func NewOrchestrator(store *Store, video VideoGenerator, synth SpeechSynthesizer, creds CredentialProvider, assets AssetStore, logger *slog.Logger) *Orchestrator {
	if store == nil {
		store = NewStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  store,
		video:  video,
		speech: synth,
		creds:  creds,
		assets: assets,
		logger: logger,
	}
}

// Store exposes the state store for snapshots and the state-local
// operations (selection, playback, new story, try again).
func (o *Orchestrator) Store() *Store {
	return o.store
}

// Generate runs one attempt: credential guard, concurrent video and speech
// generation, then a single atomic commit. If either operation fails the
// whole attempt fails and the timeline is untouched.
func (o *Orchestrator) Generate(ctx context.Context, cfg request.Config) error {
	selected, err := o.creds.HasSelectedCredential(ctx)
	if err != nil {
		o.logger.Warn("credential check failed, treating as unselected", "error", err)
		selected = false
	}
	if !selected {
		o.creds.OpenCredentialSelector(ctx)
		return ErrCredentialSelection
	}

	token := o.store.beginAttempt(cfg)

	ctx = logging.WithLogger(ctx, o.logger.With(slog.Uint64("attempt", token)))
	ctx, span := logging.StartSpan(ctx, "story.generate")
	defer span.End()

	var (
		result veo.Result
		clip   speech.Clip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := o.video.Generate(gctx, cfg)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if o.speech != nil && cfg.HasDialogue() {
		g.Go(func() error {
			c, err := o.speech.Synthesize(gctx, cfg.Dialogue, cfg.Speaker)
			if err != nil {
				return err
			}
			clip = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		category, message, credential := Classify(err)
		logging.FromContext(ctx).Error("generation attempt failed",
			"category", string(category), "credential", credential, "error", err)
		o.store.failAttempt(token, message, credential)
		if credential {
			o.creds.OpenCredentialSelector(ctx)
		}
		return err
	}

	videoURL := o.publishVideo(ctx, result)
	audioURL := o.publishAudio(ctx, clip)

	segment := Segment{
		VideoURL: videoURL,
		AudioURL: audioURL,
		Prompt:   cfg.Prompt,
		Dialogue: cfg.Dialogue,
		Speaker:  cfg.Speaker,
	}
	artifact := Artifact{
		Blob:         result.VideoBytes,
		RemoteHandle: result.RemoteHandle,
		URL:          videoURL,
	}

	segment, applied := o.store.completeAttempt(token, segment, artifact)
	if !applied {
		logging.FromContext(ctx).Warn("discarding result of superseded attempt")
		return nil
	}

	logging.FromContext(ctx).Info("scene generated",
		"segment_id", segment.ID, "has_audio", segment.HasAudio())
	return nil
}

// Retry re-runs the last attempt's configuration verbatim.
func (o *Orchestrator) Retry(ctx context.Context) error {
	snap := o.store.Snapshot()
	if snap.LastConfig == nil {
		return ErrNoLastConfig
	}
	return o.Generate(ctx, *snap.LastConfig)
}

// NextScene stages a draft for the scene after a success: prompt and
// dialogue blank, continuity inputs dropped, reference and style images
// carried forward.
func (o *Orchestrator) NextScene() error {
	snap := o.store.Snapshot()
	if snap.Phase != PhaseSuccess || snap.LastConfig == nil {
		return ErrNoCompletedScene
	}
	o.store.dispatch(nextSceneStaged{draft: request.NextSceneDraft(*snap.LastConfig)})
	return nil
}

// Extend stages an extend-video draft from the retained artifact. Wrapping
// the artifact is purely local; if it fails, the failure surfaces through
// the Error state rather than silently staying in Success.
func (o *Orchestrator) Extend() error {
	snap := o.store.Snapshot()
	if snap.Phase != PhaseSuccess || snap.LastConfig == nil || snap.Artifact == nil {
		return ErrNoCompletedScene
	}
	if !request.CanExtend(*snap.LastConfig) {
		return ErrNotExtendable
	}

	payload, err := media.FromBytes("extend-source.mp4", "video/mp4", snap.Artifact.Blob)
	if err != nil {
		o.store.dispatch(extendFailed{message: extendPrepareFailedMessage})
		return fmt.Errorf("prepare extension input: %w", err)
	}

	draft := request.ExtendDraft(*snap.LastConfig, &payload, snap.Artifact.RemoteHandle)
	o.store.dispatch(extendStaged{draft: draft})
	return nil
}

// CheckCredentials runs the startup credential check, opening the selector
// when nothing usable is selected.
func (o *Orchestrator) CheckCredentials(ctx context.Context) bool {
	selected, err := o.creds.HasSelectedCredential(ctx)
	if err != nil {
		o.logger.Warn("credential check failed, treating as unselected", "error", err)
		selected = false
	}
	if !selected {
		o.creds.OpenCredentialSelector(ctx)
	}
	return selected
}

func (o *Orchestrator) publishVideo(ctx context.Context, result veo.Result) string {
	if o.assets == nil || len(result.VideoBytes) == 0 {
		return result.VideoURL
	}
	name := fmt.Sprintf("segments/%s/video.mp4", uuid.NewString())
	url, err := o.assets.Save(ctx, name, bytes.NewReader(result.VideoBytes))
	if err != nil {
		logging.FromContext(ctx).Warn("asset store rejected video, keeping service url", "error", err)
		return result.VideoURL
	}
	return url
}

func (o *Orchestrator) publishAudio(ctx context.Context, clip speech.Clip) string {
	if len(clip.Data) == 0 {
		return ""
	}
	if o.assets != nil {
		name := fmt.Sprintf("segments/%s/dialogue.wav", uuid.NewString())
		if url, err := o.assets.Save(ctx, name, bytes.NewReader(clip.Data)); err == nil {
			return url
		} else {
			logging.FromContext(ctx).Warn("asset store rejected audio, embedding data url", "error", err)
		}
	}
	return "data:" + clip.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(clip.Data)
}
