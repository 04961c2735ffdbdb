package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/storyreel/storyreel/internal/config"
)

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		GeminiAPIKey:      "test-key",
		VideoModel:        "veo-3.0-fast-generate-001",
		SpeechModel:       "gemini-2.5-flash-preview-tts",
		PollInterval:      time.Second,
		PollTimeout:       time.Minute,
		RequestsPerMinute: 4,
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		DecodeTimeout:     time.Second,
		PayloadCacheTTL:   time.Minute,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps, err := buildDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.Orchestrator == nil {
		t.Fatal("expected the orchestrator to be configured")
	}
	if deps.Media == nil {
		t.Fatal("expected the media adapter to be configured")
	}
}

func TestCredentialProvider(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider := &envCredentialProvider{apiKey: "test-key", logger: logger}
	selected, err := provider.HasSelectedCredential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !selected {
		t.Fatal("expected a configured key to count as selected")
	}

	provider = &envCredentialProvider{apiKey: "   ", logger: logger}
	selected, err = provider.HasSelectedCredential(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if selected {
		t.Fatal("whitespace is not a usable key")
	}
}
