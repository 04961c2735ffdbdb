package story

import (
	"errors"
	"net/http"
	"strings"
)

// Category buckets a remote generation failure.
type Category string

const (
	CategoryModelNotFound     Category = "model-not-found"
	CategoryCredentialInvalid Category = "credential-invalid"
	CategoryGeneric           Category = "generic"
)

// statusCoder is implemented by structured service errors. When available,
// the machine-readable code decides the category before any text matching.
type statusCoder interface {
	StatusCode() int
	ErrorCode() string
}

// Classify buckets a remote failure, returning the category, the user-facing
// message, and whether the host should prompt for credential re-selection.
//
// Structured codes are preferred; the substring rules are a fallback for
// providers that only surface prose. Fallback patterns are evaluated in
// order, first match wins.
func Classify(err error) (Category, string, bool) {
	raw := err.Error()

	var sc statusCoder
	if errors.As(err, &sc) {
		switch {
		case sc.StatusCode() == http.StatusNotFound:
			return classified(CategoryModelNotFound)
		case sc.StatusCode() == http.StatusForbidden,
			sc.StatusCode() == http.StatusUnauthorized,
			sc.ErrorCode() == "PERMISSION_DENIED",
			sc.ErrorCode() == "API_KEY_INVALID":
			return classified(CategoryCredentialInvalid)
		}
	}

	switch {
	case strings.Contains(raw, "Requested entity was not found."):
		return classified(CategoryModelNotFound)
	case strings.Contains(raw, "API_KEY_INVALID"),
		strings.Contains(raw, "API key not valid"),
		strings.Contains(strings.ToLower(raw), "permission denied"),
		strings.Contains(raw, "403"):
		return classified(CategoryCredentialInvalid)
	}

	return CategoryGeneric, "Generation failed: " + raw, false
}

func classified(cat Category) (Category, string, bool) {
	switch cat {
	case CategoryModelNotFound:
		return cat, "Video model not found. Check that your API key has access to the selected model.", true
	case CategoryCredentialInvalid:
		return cat, "Your API key is invalid or lacks the required permission. Select a different key and try again.", true
	default:
		return cat, "", false
	}
}
