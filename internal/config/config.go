package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ObjectStore describes the optional S3-compatible bucket finished scene
// media is published to.
type ObjectStore struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Config captures the runtime configuration for the storyreel host.
type Config struct {
	GeminiAPIKey string
	LogLevel     string

	VideoEndpoint     string
	VideoModel        string
	SpeechModel       string
	PollInterval      time.Duration
	PollTimeout       time.Duration
	RequestsPerMinute int

	FFmpegPath      string
	FFprobePath     string
	DecodeTimeout   time.Duration
	PayloadCacheTTL time.Duration

	ObjectStore ObjectStore
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development. A .env file in the working directory is
// honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		GeminiAPIKey: getString("GEMINI_API_KEY", ""),
		LogLevel:     getString("STORYREEL_LOG_LEVEL", "info"),

		VideoEndpoint:     getString("STORYREEL_VIDEO_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		VideoModel:        getString("STORYREEL_VIDEO_MODEL", "veo-3.0-fast-generate-001"),
		SpeechModel:       getString("STORYREEL_SPEECH_MODEL", "gemini-2.5-flash-preview-tts"),
		PollInterval:      getDuration("STORYREEL_POLL_INTERVAL", 5*time.Second),
		PollTimeout:       getDuration("STORYREEL_POLL_TIMEOUT", 6*time.Minute),
		RequestsPerMinute: getInt("STORYREEL_REQUESTS_PER_MINUTE", 4),

		FFmpegPath:      getString("STORYREEL_FFMPEG_PATH", "ffmpeg"),
		FFprobePath:     getString("STORYREEL_FFPROBE_PATH", "ffprobe"),
		DecodeTimeout:   getDuration("STORYREEL_DECODE_TIMEOUT", 30*time.Second),
		PayloadCacheTTL: getDuration("STORYREEL_PAYLOAD_CACHE_TTL", 15*time.Minute),

		ObjectStore: ObjectStore{
			Bucket:        getString("STORYREEL_S3_BUCKET", ""),
			Region:        getString("STORYREEL_S3_REGION", "us-east-1"),
			Endpoint:      getString("STORYREEL_S3_ENDPOINT", ""),
			PublicBaseURL: getString("STORYREEL_S3_PUBLIC_BASE_URL", ""),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
