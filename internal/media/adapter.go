package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Decoder exposes the video decode capability the adapter needs. A real
// implementation shells out to ffmpeg; tests supply a fake.
type Decoder interface {
	// Duration reports the playable length of the video at path.
	Duration(ctx context.Context, path string) (time.Duration, error)
	// Frame renders the frame at the given offset as JPEG bytes at the
	// video's native pixel dimensions.
	Frame(ctx context.Context, path string, at time.Duration) ([]byte, error)
}

// Adapter converts uploaded files into request payloads and extracts
// representative frames from videos.
type Adapter struct {
	decoder Decoder
	cache   *gocache.Cache
	logger  *slog.Logger
}

// NewAdapter constructs an adapter. Encoded payloads are cached for ttl so
// repeated submissions of the same upload skip the file read.
func NewAdapter(decoder Decoder, ttl time.Duration, logger *slog.Logger) *Adapter {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		decoder: decoder,
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

// Encode reads the file at path and produces its payload.
func (a *Adapter) Encode(ctx context.Context, path string) (Payload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: stat %s: %v", ErrEncoding, path, err)
	}

	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if cached, ok := a.cache.Get(key); ok {
		return cached.(Payload), nil
	}

	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: read %s: %v", ErrEncoding, path, err)
	}

	payload, err := FromBytes(filepath.Base(path), mimeForFile(path, data), data)
	if err != nil {
		return Payload{}, err
	}

	a.cache.Set(key, payload, gocache.DefaultExpiration)
	return payload, nil
}

// LastFrame extracts the final usable frame of the video at path as a JPEG
// payload. The seek lands slightly before the end so near-black trailing
// frames are skipped, while very short clips fall back to the first frame.
func (a *Adapter) LastFrame(ctx context.Context, path string) (Payload, error) {
	if a.decoder == nil {
		return Payload{}, ErrDecoderUnavailable
	}

	duration, err := a.decoder.Duration(ctx, path)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: probe %s: %v", ErrFrameExtraction, path, err)
	}

	at := SeekTarget(duration)
	frame, err := a.decoder.Frame(ctx, path, at)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: decode %s at %s: %v", ErrFrameExtraction, path, at, err)
	}
	if len(frame) == 0 {
		return Payload{}, fmt.Errorf("%w: decoder returned no data for %s", ErrFrameExtraction, path)
	}

	a.logger.Debug("extracted last frame", "path", path, "duration", duration, "seek", at)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".jpg"
	return FromBytes(name, "image/jpeg", frame)
}

// SeekTarget picks the frame offset for last-frame extraction: 100ms before
// the end when the clip is longer than half a second, otherwise the start.
func SeekTarget(duration time.Duration) time.Duration {
	if duration > 500*time.Millisecond {
		return duration - 100*time.Millisecond
	}
	return 0
}

func mimeForFile(path string, data []byte) string {
	if typ := mime.TypeByExtension(filepath.Ext(path)); typ != "" {
		return typ
	}
	return http.DetectContentType(data)
}
