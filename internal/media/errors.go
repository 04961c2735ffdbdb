package media

import "errors"

var (
	// ErrEncoding indicates a file could not be read or encoded into a payload.
	ErrEncoding = errors.New("media payload could not be encoded")
	// ErrFrameExtraction indicates a frame could not be pulled from a video.
	ErrFrameExtraction = errors.New("video frame could not be extracted")
	// ErrDecoderUnavailable indicates no video decoder is configured.
	ErrDecoderUnavailable = errors.New("video decoder unavailable")
)
