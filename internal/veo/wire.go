package veo

import (
	"github.com/storyreel/storyreel/internal/media"
	"github.com/storyreel/storyreel/internal/request"
)

// Wire types for the predictLongRunning endpoint.

type generateRequest struct {
	Instances  []instance `json:"instances"`
	Parameters parameters `json:"parameters"`
}

type instance struct {
	Prompt          string           `json:"prompt,omitempty"`
	Image           *imagePayload    `json:"image,omitempty"`
	LastFrame       *imagePayload    `json:"lastFrame,omitempty"`
	Video           *videoPayload    `json:"video,omitempty"`
	ReferenceImages []referenceImage `json:"referenceImages,omitempty"`
}

type parameters struct {
	AspectRatio  string `json:"aspectRatio,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	GenerateLoop bool   `json:"generateLoop,omitempty"`
}

type imagePayload struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type videoPayload struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	URI                string `json:"uri,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

const (
	referenceTypeAsset = "asset"
	referenceTypeStyle = "style"
)

type referenceImage struct {
	Image         imagePayload `json:"image"`
	ReferenceType string       `json:"referenceType"`
}

type operation struct {
	Name     string     `json:"name"`
	Done     bool       `json:"done"`
	Error    *opError   `json:"error"`
	Response opResponse `json:"response"`
}

type opError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type opResponse struct {
	GenerateVideoResponse struct {
		GeneratedSamples []struct {
			Video struct {
				URI string `json:"uri"`
			} `json:"video"`
		} `json:"generatedSamples"`
	} `json:"generateVideoResponse"`
}

func buildInstance(cfg request.Config) instance {
	inst := instance{Prompt: cfg.Prompt}

	switch cfg.Mode {
	case request.ModeFramesToVideo:
		inst.Image = imageFromPayload(cfg.StartFrame)
		inst.LastFrame = imageFromPayload(cfg.EndFrame)
	case request.ModeReferencesToVideo:
		for _, ref := range cfg.ReferenceImages {
			inst.ReferenceImages = append(inst.ReferenceImages, referenceImage{
				Image:         imagePayload{BytesBase64Encoded: ref.Base64, MimeType: ref.MIMEType},
				ReferenceType: referenceTypeAsset,
			})
		}
		if cfg.StyleImage != nil {
			inst.ReferenceImages = append(inst.ReferenceImages, referenceImage{
				Image:         imagePayload{BytesBase64Encoded: cfg.StyleImage.Base64, MimeType: cfg.StyleImage.MIMEType},
				ReferenceType: referenceTypeStyle,
			})
		}
	case request.ModeExtendVideo:
		// The remote handle wins over re-uploading bytes when both exist.
		if cfg.InputVideoHandle != "" {
			inst.Video = &videoPayload{URI: cfg.InputVideoHandle}
		} else if cfg.InputVideo != nil {
			inst.Video = &videoPayload{BytesBase64Encoded: cfg.InputVideo.Base64, MimeType: cfg.InputVideo.MIMEType}
		}
	}

	return inst
}

func buildParameters(cfg request.Config) parameters {
	return parameters{
		AspectRatio:  string(cfg.AspectRatio),
		Resolution:   string(cfg.Resolution),
		GenerateLoop: cfg.Mode == request.ModeFramesToVideo && cfg.Looping,
	}
}

func imageFromPayload(p *media.Payload) *imagePayload {
	if p == nil {
		return nil
	}
	return &imagePayload{BytesBase64Encoded: p.Base64, MimeType: p.MIMEType}
}
