package media

import (
	"encoding/base64"
	"fmt"
)

// Payload pairs the raw bytes of an uploaded image or video with their
// base64 encoding. Both are produced together and never change afterwards;
// the request field that holds a payload owns it until replaced or cleared.
type Payload struct {
	Name     string
	MIMEType string
	Data     []byte
	Base64   string
}

// FromBytes wraps an in-memory blob as a payload.
func FromBytes(name, mimeType string, data []byte) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("%w: %q has no content", ErrEncoding, name)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return Payload{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}
