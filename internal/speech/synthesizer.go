package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/storyreel/storyreel/internal/request"
)

// Clip is one synthesized line of dialogue.
type Clip struct {
	MIMEType string
	Data     []byte
}

// ErrEmptyDialogue indicates there was no text to synthesize.
var ErrEmptyDialogue = errors.New("no dialogue text to synthesize")

// The service returns raw PCM frames at this shape; Synthesize wraps them in
// a WAV container so the clip is playable as-is.
const (
	pcmSampleRate = 24000
	pcmBitDepth   = 16
	pcmChannels   = 1
)

// Synthesizer generates dialogue audio through the Gemini API.
type Synthesizer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewSynthesizer constructs a speech synthesizer for the given API key and
// TTS-capable model.
func NewSynthesizer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Synthesizer, error) {
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash-preview-tts"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	return &Synthesizer{client: client, model: model, logger: logger}, nil
}

// Synthesize renders the dialogue line in the speaker's voice.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, speaker request.Speaker) (Clip, error) {
	if strings.TrimSpace(text) == "" {
		return Clip{}, ErrEmptyDialogue
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: VoiceFor(speaker)},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), cfg)
	if err != nil {
		return Clip{}, fmt.Errorf("synthesize speech: %w", err)
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return Clip{}, errors.New("speech response contained no audio")
	}

	s.logger.Debug("synthesized dialogue", "speaker", string(speaker), "bytes", len(pcm))

	return Clip{MIMEType: "audio/wav", Data: wrapWAV(pcm)}, nil
}

// VoiceFor maps a story speaker onto one of the service's prebuilt voices.
func VoiceFor(speaker request.Speaker) string {
	switch speaker {
	case request.SpeakerAria:
		return "Kore"
	case request.SpeakerKai:
		return "Puck"
	case request.SpeakerRowan:
		return "Orus"
	default:
		return "Kore"
	}
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
