package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/storyreel/storyreel/internal/story"
)

// envCredentialProvider treats the configured API key as the selected
// credential. A headless host has no picker to show, so opening the
// selector is a log line pointing at the environment.
type envCredentialProvider struct {
	apiKey string
	logger *slog.Logger
}

var _ story.CredentialProvider = (*envCredentialProvider)(nil)

func (p *envCredentialProvider) HasSelectedCredential(context.Context) (bool, error) {
	return strings.TrimSpace(p.apiKey) != "", nil
}

func (p *envCredentialProvider) OpenCredentialSelector(context.Context) {
	p.logger.Warn("no API key selected", "hint", "set GEMINI_API_KEY and restart")
}
