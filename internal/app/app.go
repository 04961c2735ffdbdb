package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/storyreel/storyreel/internal/config"
	"github.com/storyreel/storyreel/internal/media"
	"github.com/storyreel/storyreel/internal/request"
)

// Run bootstraps the storyreel host.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: generate or check")
	}

	switch args[0] {
	case "generate":
		return generate(ctx, args[1:])
	case "check":
		return check(ctx)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// check verifies that a usable credential is configured.
func check(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	provider := &envCredentialProvider{apiKey: cfg.GeminiAPIKey, logger: logger}
	selected, err := provider.HasSelectedCredential(ctx)
	if err != nil || !selected {
		provider.OpenCredentialSelector(ctx)
		return errors.New("no usable API key configured")
	}
	logger.Info("credential check passed")
	return nil
}

// generate runs one generation attempt from command-line inputs and reports
// the resulting scene.
func generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	mode := fs.String("mode", string(request.ModeTextToVideo), "generation mode")
	model := fs.String("model", "", "generation model (defaults to the configured one)")
	prompt := fs.String("prompt", "", "scene prompt")
	dialogue := fs.String("dialogue", "", "spoken line for the scene")
	speaker := fs.String("speaker", "", "voice for the dialogue (Aria, Kai, or Rowan)")
	resolution := fs.String("resolution", string(request.Resolution720p), "output resolution")
	aspect := fs.String("aspect", string(request.AspectLandscape), "output aspect ratio")
	startFrame := fs.String("start-frame", "", "path to the start frame image")
	endFrame := fs.String("end-frame", "", "path to the end frame image")
	loop := fs.Bool("loop", false, "loop the video back to the start frame")
	style := fs.String("style", "", "path to a style image")
	var references stringList
	fs.Var(&references, "reference", "path to a reference image (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if !deps.Orchestrator.CheckCredentials(ctx) {
		return errors.New("no usable API key configured")
	}

	reqCfg := request.Config{
		Mode:        request.Mode(*mode),
		Model:       *model,
		AspectRatio: request.AspectRatio(*aspect),
		Resolution:  request.Resolution(*resolution),
		Prompt:      *prompt,
		Dialogue:    *dialogue,
		Speaker:     request.Speaker(*speaker),
		Looping:     *loop,
	}
	if reqCfg.Model == "" {
		reqCfg.Model = cfg.VideoModel
	}

	if err := attachAssets(ctx, deps.Media, &reqCfg, *startFrame, *endFrame, *style, references); err != nil {
		return err
	}

	reqCfg = request.Normalize(reqCfg.Mode, reqCfg)
	if ok, reason := request.CanSubmit(reqCfg); !ok {
		return errors.New(reason)
	}

	if err := deps.Orchestrator.Generate(ctx, reqCfg); err != nil {
		snap := deps.Orchestrator.Store().Snapshot()
		if snap.ErrorMessage != "" {
			return fmt.Errorf("%s", snap.ErrorMessage)
		}
		return err
	}

	snap := deps.Orchestrator.Store().Snapshot()
	if seg, ok := snap.Current(); ok {
		logger.Info("scene ready",
			"segment_id", seg.ID,
			"video_url", seg.VideoURL,
			"audio_url", seg.AudioURL)
	}
	return nil
}

// attachAssets loads the referenced image files onto the request.
func attachAssets(ctx context.Context, adapter *media.Adapter, cfg *request.Config, startFrame, endFrame, style string, references []string) error {
	load := func(path string) (*media.Payload, error) {
		payload, err := adapter.Encode(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return &payload, nil
	}

	if startFrame != "" {
		payload, err := load(startFrame)
		if err != nil {
			return err
		}
		cfg.StartFrame = payload
	}
	if endFrame != "" {
		payload, err := load(endFrame)
		if err != nil {
			return err
		}
		cfg.EndFrame = payload
	}
	if style != "" {
		payload, err := load(style)
		if err != nil {
			return err
		}
		cfg.StyleImage = payload
	}
	for _, path := range references {
		payload, err := load(path)
		if err != nil {
			return err
		}
		cfg.ReferenceImages = append(cfg.ReferenceImages, *payload)
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
