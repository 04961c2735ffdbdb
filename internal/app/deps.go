package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storyreel/storyreel/internal/config"
	"github.com/storyreel/storyreel/internal/media"
	"github.com/storyreel/storyreel/internal/speech"
	"github.com/storyreel/storyreel/internal/storage"
	"github.com/storyreel/storyreel/internal/story"
	"github.com/storyreel/storyreel/internal/veo"
)

// Dependencies holds the concrete collaborators the commands run against.
type Dependencies struct {
	Orchestrator *story.Orchestrator
	Media        *media.Adapter
}

// buildDependencies wires together concrete implementations behind the
// orchestrator. Without a configured bucket, published media stays in
// memory.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (Dependencies, error) {
	video := veo.NewClient(veo.Config{
		Endpoint:          cfg.VideoEndpoint,
		APIKey:            cfg.GeminiAPIKey,
		PollInterval:      cfg.PollInterval,
		PollTimeout:       cfg.PollTimeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, logger)

	synth, err := speech.NewSynthesizer(ctx, cfg.GeminiAPIKey, cfg.SpeechModel, logger)
	if err != nil {
		return Dependencies{}, fmt.Errorf("build speech synthesizer: %w", err)
	}

	var assets story.AssetStore
	if cfg.ObjectStore.Bucket != "" {
		s3, err := storage.NewS3Store(ctx, cfg.ObjectStore)
		if err != nil {
			return Dependencies{}, fmt.Errorf("build object store: %w", err)
		}
		assets = s3
	} else {
		assets = storage.NewMemoryStore()
	}

	creds := &envCredentialProvider{apiKey: cfg.GeminiAPIKey, logger: logger}

	decoder := media.NewFFmpegDecoder(cfg.FFmpegPath, cfg.FFprobePath, cfg.DecodeTimeout)
	adapter := media.NewAdapter(decoder, cfg.PayloadCacheTTL, logger)

	orch := story.NewOrchestrator(story.NewStore(), video, synth, creds, assets, logger)

	return Dependencies{Orchestrator: orch, Media: adapter}, nil
}
