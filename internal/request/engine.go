package request

import "strings"

// Normalize returns the configuration adjusted for the given mode. Switching
// modes clears every mode-specific asset so stale inputs cannot leak into an
// incompatible request, the reference set is trimmed to MaxReferenceImages,
// and forced overrides are applied whenever the active mode demands them.
func Normalize(mode Mode, cfg Config) Config {
	if mode != cfg.Mode {
		cfg.StartFrame = nil
		cfg.EndFrame = nil
		cfg.Looping = false
		cfg.ReferenceImages = nil
		cfg.StyleImage = nil
		cfg.InputVideo = nil
		cfg.InputVideoHandle = ""
	}
	cfg.Mode = mode

	if len(cfg.ReferenceImages) > MaxReferenceImages {
		cfg.ReferenceImages = cfg.ReferenceImages[:MaxReferenceImages]
	}

	switch mode {
	case ModeReferencesToVideo:
		cfg.Model = ModelQuality
		cfg.AspectRatio = AspectLandscape
		cfg.Resolution = Resolution720p
	case ModeExtendVideo:
		cfg.Resolution = Resolution720p
	}

	return cfg
}

// CanSubmit reports whether the configuration satisfies its mode's required
// inputs. When it does not, reason explains the first unmet condition in
// user-facing terms.
func CanSubmit(cfg Config) (bool, string) {
	switch cfg.Mode {
	case ModeTextToVideo:
		if strings.TrimSpace(cfg.Prompt) == "" {
			return false, "Enter a prompt to generate a video."
		}
	case ModeFramesToVideo:
		if cfg.StartFrame == nil {
			return false, "Add a start frame to generate a video."
		}
	case ModeReferencesToVideo:
		missingPrompt := strings.TrimSpace(cfg.Prompt) == ""
		missingRefs := len(cfg.ReferenceImages) == 0
		switch {
		case missingPrompt && missingRefs:
			return false, "Add a prompt and at least one reference image."
		case missingPrompt:
			return false, "Enter a prompt to generate a video."
		case missingRefs:
			return false, "Add at least one reference image."
		}
	case ModeExtendVideo:
		if cfg.InputVideoHandle == "" {
			return false, "Generate a 720p video first, then extend it."
		}
	default:
		return false, "Unsupported generation mode."
	}
	return true, ""
}

// CanLoop reports whether the looping toggle may be offered: only for
// frames-to-video with a start frame and no end frame.
func CanLoop(cfg Config) bool {
	return cfg.Mode == ModeFramesToVideo && cfg.StartFrame != nil && cfg.EndFrame == nil
}

// CanExtend reports whether a result produced by this configuration can be
// extended. Only 720p output is accepted by the extension endpoint.
func CanExtend(cfg Config) bool {
	return cfg.Resolution == Resolution720p
}
