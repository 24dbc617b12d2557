package caption

import (
	"regexp"

	"github.com/noteflow-ai/noteflow/internal/errors"
)

// YouTube video IDs are always 11 characters from this alphabet
var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	}
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID extracts a YouTube video ID from the supported URL shapes
// (watch, short, embed, /v/, shorts) or accepts a bare 11-character ID.
// Returns an INVALID_REFERENCE error when no ID can be extracted.
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}

	if bareIDPattern.MatchString(url) {
		return url, nil
	}

	return "", errors.New(errors.CodeInvalidRef, "invalid YouTube URL format")
}
