package request

import (
	"strings"

	"github.com/storyreel/storyreel/internal/media"
)

// Mode selects the generation strategy and with it the inputs a request
// requires.
type Mode string

const (
	ModeTextToVideo       Mode = "text-to-video"
	ModeFramesToVideo     Mode = "frames-to-video"
	ModeReferencesToVideo Mode = "references-to-video"
	ModeExtendVideo       Mode = "extend-video"
)

// Resolution of the generated video.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution4K    Resolution = "4k"
)

// AspectRatio of the generated video.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// Speaker identifies the voice used for a scene's dialogue.
type Speaker string

const (
	SpeakerNone  Speaker = ""
	SpeakerAria  Speaker = "Aria"
	SpeakerKai   Speaker = "Kai"
	SpeakerRowan Speaker = "Rowan"
)

// Generation model identifiers. References-to-video is only served by the
// quality model.
const (
	ModelQuality = "veo-3.0-generate-001"
	ModelFast    = "veo-3.0-fast-generate-001"
)

// MaxReferenceImages caps the reference set for references-to-video.
const MaxReferenceImages = 3

// Config describes one generation attempt. Mode-specific asset fields are
// mutually exclusive; Normalize enforces that on every mode switch.
type Config struct {
	Mode        Mode
	Model       string
	AspectRatio AspectRatio
	Resolution  Resolution

	Prompt   string
	Dialogue string
	Speaker  Speaker

	// Frames-to-video inputs.
	StartFrame *media.Payload
	EndFrame   *media.Payload
	Looping    bool

	// References-to-video inputs.
	ReferenceImages []media.Payload
	StyleImage      *media.Payload

	// Extend-video inputs: the raw payload for upload plus the opaque
	// handle the generation service issued for the prior result.
	InputVideo       *media.Payload
	InputVideoHandle string
}

// HasDialogue reports whether the attempt should also synthesize speech.
func (c Config) HasDialogue() bool {
	return strings.TrimSpace(c.Dialogue) != "" && c.Speaker != SpeakerNone
}
