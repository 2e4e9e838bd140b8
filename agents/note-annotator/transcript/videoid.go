package transcript

import (
	"regexp"
	"strings"
)

// videoIDLength is the fixed length of a YouTube video identifier.
const videoIDLength = 11

var (
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// URL shapes tried in priority order: canonical query form, shortened
	// domain, embed path, shorts path, then a best-effort scan of any
	// 11-char token in a path under a YouTube host.
	urlIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`/embed/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`/shorts/([A-Za-z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/[^"'\s]*?([A-Za-z0-9_-]{11})`),
	}

	idAlphabet = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// ExtractVideoID parses a free-form video reference (full watch URL,
// shortened URL, embed URL, or a bare identifier) into the canonical
// 11-character video ID. It returns ErrIdentifierNotFound when no known
// shape matches.
func ExtractVideoID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrIdentifierNotFound
	}

	if bareIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	for _, pattern := range urlIDPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			id := sanitizeID(m[1])
			if len(id) == videoIDLength {
				return id, nil
			}
		}
	}

	return "", ErrIdentifierNotFound
}

// sanitizeID strips anything outside the ID alphabet. A correctly shaped
// match passes through untouched; this defends against copy-paste
// contamination like trailing punctuation.
func sanitizeID(id string) string {
	return idAlphabet.ReplaceAllString(id, "")
}
