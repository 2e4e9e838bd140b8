package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"study-agent/internal/models"
	"study-agent/shared/config"
)

const (
	defaultWatchBase  = "https://www.youtube.com/watch?v="
	defaultUserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultMaxRetries = 3
	initialBackoff    = time.Second
)

// Downloader fetches a video's transcript by scraping the watch page,
// resolving the best caption track for the configured languages, and
// parsing its payload. Each Fetch call is independent and holds no shared
// mutable state, so a Downloader is safe to reuse across runs.
type Downloader struct {
	client     *http.Client
	languages  []string
	maxRetries int

	// Overridable in tests.
	watchBase    string
	playerRPCURL string
	userAgent    string
	backoff      time.Duration
}

func NewDownloader(cfg *config.TranscriptConfig) *Downloader {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Downloader{
		client:     &http.Client{Timeout: timeout},
		languages:  cfg.Languages,
		maxRetries: maxRetries,
		watchBase:  defaultWatchBase,
		userAgent:  defaultUserAgent,
		backoff:    initialBackoff,
	}
}

// Fetch downloads the transcript for a video, retrying transient failures
// with exponential backoff. Failures classified as permanent (captions
// absent, video unavailable) short-circuit without consuming the remaining
// attempts.
func (d *Downloader) Fetch(ctx context.Context, videoID string) (*models.TranscriptResult, error) {
	var lastErr error

	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		result, err := d.fetchOnce(ctx, videoID)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return nil, err
		}

		lastErr = err
		log.Printf("Transcript fetch attempt %d/%d for %s failed: %v", attempt, d.maxRetries, videoID, err)

		if attempt < d.maxRetries {
			delay := d.backoff << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	// A captcha wall on the final attempt is a distinct, user-actionable
	// condition, not a generic download failure.
	if errors.Is(lastErr, ErrRateLimited) {
		return nil, ErrRateLimited
	}
	return nil, &DownloadError{VideoID: videoID, Attempts: d.maxRetries, Err: lastErr}
}

// fetchOnce runs the full pipeline once: watch page, caption track list,
// track selection, caption payload, parse. No stage is resumed across
// attempts.
func (d *Downloader) fetchOnce(ctx context.Context, videoID string) (*models.TranscriptResult, error) {
	html, err := d.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if isBotChallenge(html) {
		return nil, ErrRateLimited
	}

	player, ok := parsePlayerResponse(html)
	if !ok {
		// The page stopped embedding the player blob; ask the internal
		// player endpoint for the same data. A failure here is transient
		// (timeout, 5xx) and left retryable; only a player response that
		// actually says the video is unplayable is terminal.
		player, err = d.fetchPlayerFallback(ctx, html, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player data for %s: %w", videoID, err)
		}
	}

	if !player.playable() {
		return nil, ErrVideoUnavailable
	}

	tracks := player.captionTracks()
	if len(tracks) == 0 {
		return nil, &NoTranscriptError{VideoID: videoID}
	}

	track := SelectTrack(tracks, d.languages)
	if track == nil {
		return nil, &NoTranscriptError{VideoID: videoID, Languages: TrackLanguages(tracks)}
	}

	payload, err := d.fetchCaptionPayload(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload) == "" {
		return nil, fmt.Errorf("empty caption payload for track %s", track.LanguageCode)
	}

	segments := ParseTimedText(payload)
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments parsed from caption payload for track %s", track.LanguageCode)
	}

	texts := make([]string, len(segments))
	for i, segment := range segments {
		texts[i] = segment.Text
	}

	return &models.TranscriptResult{
		VideoID:  videoID,
		Language: track.LanguageCode,
		Text:     strings.Join(texts, " "),
		Segments: segments,
		Metadata: extractMetadata(html, player),
	}, nil
}

func (d *Downloader) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", d.watchBase+videoID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create watch page request: %w", err)
	}
	d.setBrowserHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read watch page: %w", err)
	}
	return string(body), nil
}

func (d *Downloader) fetchPlayerFallback(ctx context.Context, html, videoID string) (*playerResponse, error) {
	apiKey := extractInnertubeKey(html)
	if apiKey == "" && d.playerRPCURL == "" {
		return nil, fmt.Errorf("no player data embedded and no API key on page")
	}
	return fetchPlayerViaRPC(ctx, d.client, d.playerRPCURL, apiKey, videoID, d.userAgent)
}

// fetchCaptionPayload gets the selected track's timed text, requesting the
// json3 format. Older tracks answer with the XML dialect regardless; the
// parser handles both.
func (d *Downloader) fetchCaptionPayload(ctx context.Context, baseURL string) (string, error) {
	url := baseURL
	if strings.Contains(url, "?") {
		url += "&fmt=json3"
	} else {
		url += "?fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create caption request: %w", err)
	}
	d.setBrowserHeaders(req)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption URL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read caption payload: %w", err)
	}
	return string(body), nil
}

// setBrowserHeaders identifies the client as a browser. YouTube serves a
// degraded page without player data to unidentified clients.
func (d *Downloader) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguage(d.languages))
}

// acceptLanguage builds an Accept-Language value from the preference list,
// with descending quality values. Falls back to English when no preference
// is configured.
func acceptLanguage(languages []string) string {
	if len(languages) == 0 {
		return "en-US,en;q=0.9"
	}

	parts := make([]string, 0, len(languages))
	for i, lang := range languages {
		if i == 0 {
			parts = append(parts, lang)
			continue
		}
		q := 1.0 - 0.1*float64(i)
		if q < 0.1 {
			q = 0.1
		}
		parts = append(parts, fmt.Sprintf("%s;q=%.1f", lang, q))
	}
	return strings.Join(parts, ",")
}
