package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// FFmpegDecoder implements Decoder by shelling out to ffprobe and ffmpeg.
type FFmpegDecoder struct {
	FFmpegPath  string
	FFprobePath string
	Run         CommandRunner
	Timeout     time.Duration
}

// NewFFmpegDecoder constructs a decoder backed by the ffmpeg CLI tools.
func NewFFmpegDecoder(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpegDecoder {
	if strings.TrimSpace(ffmpegPath) == "" {
		ffmpegPath = "ffmpeg"
	}
	if strings.TrimSpace(ffprobePath) == "" {
		ffprobePath = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFmpegDecoder{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Run:         defaultCommandRunner,
		Timeout:     timeout,
	}
}

// Duration probes the container for its playable length.
func (d *FFmpegDecoder) Duration(ctx context.Context, path string) (time.Duration, error) {
	if d.Run == nil {
		d.Run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	out, err := d.Run(execCtx, d.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Frame renders a single frame at the given offset as JPEG bytes on stdout.
func (d *FFmpegDecoder) Frame(ctx context.Context, path string, at time.Duration) ([]byte, error) {
	if d.Run == nil {
		d.Run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	out, err := d.Run(execCtx, d.FFmpegPath,
		"-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-c:v", "mjpeg",
		"-f", "image2",
		"pipe:1",
	)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame: %w", err)
	}

	return out, nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
