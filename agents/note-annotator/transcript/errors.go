package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds surfaced by the transcript pipeline. Only the downloader
// classifies raw failures into these; the parser, decoder and resolver
// return empty values and let the downloader interpret them.
var (
	// ErrIdentifierNotFound means the reference string contains no
	// recognizable video identifier. Not retried.
	ErrIdentifierNotFound = errors.New("no video identifier found")

	// ErrRateLimited means YouTube served a bot-challenge page. Retried
	// with backoff, then surfaced so the caller can say "try again later".
	ErrRateLimited = errors.New("rate limited by YouTube, try again later")

	// ErrVideoUnavailable means the ID does not resolve to a playable
	// video (deleted, private). Not retried.
	ErrVideoUnavailable = errors.New("video is unavailable or has been deleted")
)

// NoTranscriptError means captions are disabled or no track matched the
// requested languages. Not retried: retrying will not produce captions that
// don't exist. Languages lists the caption languages that were available.
type NoTranscriptError struct {
	VideoID   string
	Languages []string
}

func (e *NoTranscriptError) Error() string {
	if len(e.Languages) == 0 {
		return fmt.Sprintf("no transcript available for video %s", e.VideoID)
	}
	return fmt.Sprintf("no transcript for video %s in requested languages (available: %s)",
		e.VideoID, strings.Join(e.Languages, ", "))
}

// DownloadError is the terminal failure after the retry budget is exhausted
// on transient errors. It carries the attempt count and the last underlying
// error.
type DownloadError struct {
	VideoID  string
	Attempts int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download transcript for video %s after %d attempts: %v",
		e.VideoID, e.Attempts, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// retryable reports whether the pipeline should spend another attempt on err.
func retryable(err error) bool {
	if errors.Is(err, ErrVideoUnavailable) {
		return false
	}
	var notFound *NoTranscriptError
	return !errors.As(err, &notFound)
}
