package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/storyreel/storyreel/internal/config"
)

func TestContentTypeForKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"segments/abc/video.mp4", "video/mp4"},
		{"segments/abc/dialogue.wav", "audio/wav"},
		{"frames/last.jpg", "image/jpeg"},
		{"frames/Last.JPEG", "image/jpeg"},
		{"frames/start.png", "image/png"},
		{"segments/abc/metadata", ""},
	}

	for _, tc := range cases {
		if got := contentTypeForKey(tc.key); got != tc.want {
			t.Fatalf("contentTypeForKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestS3StoreSaveEmptyKey(t *testing.T) {
	store := &S3Store{bucket: "stories"}
	if _, err := store.Save(context.Background(), "/", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), config.ObjectStore{}); err == nil {
		t.Fatal("expected error without a bucket")
	}
}
